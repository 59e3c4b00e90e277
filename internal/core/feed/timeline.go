// Package feed loads a viewer's timeline and turns it into a renderable view.
package feed

import (
	"iter"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// Status is the renderable state of a timeline.
type Status string

const (
	Pending        Status = "pending"
	LoadedEmpty    Status = "loaded-empty"
	LoadedNonEmpty Status = "loaded-nonempty"
	LoadFailed     Status = "failed"
)

const (
	PlaceholderCount = 4
	EmptyMessage     = "Follow people to see photos"
	FailedMessage    = "We couldn't load photos right now."
)

// Timeline is a viewer's feed at one point of its lifecycle.
type Timeline struct {
	loaded bool
	items  []domain.FeedItem
	err    error
}

// NewPending returns a timeline whose items have not arrived yet.
func NewPending() Timeline { return Timeline{} }

// NewLoaded returns a timeline holding items in the order received.
func NewLoaded(items []domain.FeedItem) Timeline {
	return Timeline{loaded: true, items: items}
}

// NewFailed returns a timeline whose load failed.
func NewFailed(err error) Timeline { return Timeline{loaded: true, err: err} }

// Status reports which of the mutually exclusive states the timeline is in.
func (t Timeline) Status() Status {
	switch {
	case !t.loaded:
		return Pending
	case t.err != nil:
		return LoadFailed
	case len(t.items) == 0:
		return LoadedEmpty
	default:
		return LoadedNonEmpty
	}
}

// Err returns the load error of a failed timeline.
func (t Timeline) Err() error { return t.err }

// Items yields the loaded items in store order.
func (t Timeline) Items() iter.Seq[domain.FeedItem] {
	return func(yield func(domain.FeedItem) bool) {
		for _, it := range t.items {
			if !yield(it) {
				return
			}
		}
	}
}

// Entry is one rendered item, keyed by its document id.
type Entry struct {
	Key  string
	Item domain.FeedItem
}

// View is what a page draws for a timeline. Exactly one of Placeholders,
// Message or Entries is populated.
type View struct {
	Status       Status
	Placeholders int
	Message      string
	Entries      []Entry
	// Dropped counts items skipped because their document id repeated.
	Dropped int
}

// Render turns the timeline into a view. Items are kept in the order the
// store returned them; a repeated document id keeps its first occurrence and
// is counted in View.Dropped.
func (t Timeline) Render() View {
	switch st := t.Status(); st {
	case Pending:
		return View{Status: st, Placeholders: PlaceholderCount}
	case LoadFailed:
		return View{Status: st, Message: FailedMessage}
	case LoadedEmpty:
		return View{Status: st, Message: EmptyMessage}
	default:
		seen := make(map[string]struct{}, len(t.items))
		v := View{Status: st, Entries: make([]Entry, 0, len(t.items))}
		for item := range t.Items() {
			if _, dup := seen[item.DocID]; dup {
				v.Dropped++
				continue
			}
			seen[item.DocID] = struct{}{}
			v.Entries = append(v.Entries, Entry{Key: item.DocID, Item: item})
		}
		return v
	}
}
