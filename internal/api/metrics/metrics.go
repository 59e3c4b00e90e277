// Package metrics defines and registers the custom Prometheus metrics of the
// photogram service. It is the single source of truth for metric names,
// labels and help strings. Metrics register with the default registry on
// package init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "photogram"

// ── Navigation ────────────────────────────────────────────────────────────────

// RouteDecisionsTotal counts page dispatches.
// Labels:
//   - view: the selected view (e.g. "dashboard", "not_found")
//   - outcome: "render" or "redirect"
var RouteDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "route_decisions_total",
		Help:      "Total number of page dispatches, by selected view and outcome.",
	},
	[]string{"view", "outcome"},
)

// ── Accounts ──────────────────────────────────────────────────────────────────

// SignupsTotal counts sign-up submissions by final flow status
// ("succeeded", "failed", "editing" for an incomplete form).
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of sign-up submissions, by resulting flow status.",
	},
	[]string{"status"},
)

// SigninsTotal counts sign-in attempts.
// Label:
//   - result: "ok", or the auth error code (e.g. "auth/wrong-password")
var SigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// ── Sessions ──────────────────────────────────────────────────────────────────

// RegisterActiveClientInstances exposes count as the number of live client
// instances. Call it once.
func RegisterActiveClientInstances(count func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_client_instances",
			Help:      "Current number of client instances with a running session listener.",
		},
		func() float64 { return float64(count()) },
	)
}

// SessionTransitionsTotal counts auth-state deliveries observed by listeners.
// Label:
//   - state: "signed_in" or "signed_out"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions delivered to client instances.",
	},
	[]string{"state"},
)

// ── Feed ──────────────────────────────────────────────────────────────────────

// FeedLoadsTotal counts timeline loads by resulting timeline status.
var FeedLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_loads_total",
		Help:      "Total number of timeline loads, by resulting status.",
	},
	[]string{"status"},
)

// FeedLoadDuration measures how long a timeline load takes end-to-end.
var FeedLoadDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_load_duration_seconds",
		Help:      "Duration of a timeline load, profile read through post decoration.",
		Buckets:   prometheus.DefBuckets,
	},
)
