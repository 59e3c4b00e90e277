package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

const (
	defaultIdleTTL   = 30 * time.Minute
	janitorFrequency = time.Minute
)

// Instance is the server-side counterpart of one browser: its identity
// context and the listener feeding it.
type Instance struct {
	ClientID string
	Context  *Context

	listener *Listener
	lastSeen atomic.Int64
}

func (i *Instance) touch(now time.Time) { i.lastSeen.Store(now.UnixNano()) }

func (i *Instance) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, i.lastSeen.Load()))
}

// TransitionFunc observes session-state transitions of any instance.
type TransitionFunc func(clientID string, st domain.SessionState)

// Manager owns the client instances of this process.
type Manager struct {
	auth         AuthChannel
	idleTTL      time.Duration
	onTransition TransitionFunc
	log          zerolog.Logger
	now          func() time.Time

	// starting collapses concurrent first acquisitions of one client id so
	// only one listener subscribes. m.mu is never held while subscribing.
	starting singleflight.Group

	mu        sync.Mutex
	instances map[string]*Instance
	closed    bool
	wg        sync.WaitGroup
}

// NewManager returns a Manager. idleTTL <= 0 uses the default; onTransition
// may be nil.
func NewManager(auth AuthChannel, idleTTL time.Duration, onTransition TransitionFunc, log zerolog.Logger) *Manager {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &Manager{
		auth:         auth,
		idleTTL:      idleTTL,
		onTransition: onTransition,
		log:          log,
		now:          time.Now,
		instances:    make(map[string]*Instance),
	}
}

// Acquire returns the instance for clientID, starting its listener on first
// use. Starting a listener does not block acquisitions of other clients.
func (m *Manager) Acquire(ctx context.Context, clientID string) (*Instance, error) {
	if inst, ok := m.live(clientID); ok {
		return inst, nil
	}

	v, err, _ := m.starting.Do(clientID, func() (any, error) {
		if inst, ok := m.live(clientID); ok {
			return inst, nil
		}
		return m.start(ctx, clientID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Instance), nil
}

func (m *Manager) live(clientID string) (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.instances[clientID]
	if ok {
		inst.touch(m.now())
	}
	return inst, ok
}

func (m *Manager) start(ctx context.Context, clientID string) (*Instance, error) {
	sc := &Context{}
	inst := &Instance{
		ClientID: clientID,
		Context:  sc,
		listener: NewListener(m.auth, clientID, sc),
	}
	if err := inst.listener.Start(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		inst.listener.Stop()
		return nil, domain.ErrListenerStopped
	}
	inst.touch(m.now())
	m.instances[clientID] = inst
	m.wg.Add(1)
	m.mu.Unlock()

	go m.watch(inst)
	return inst, nil
}

// Len reports the number of live instances.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instances)
}

// Run evicts idle instances until ctx is cancelled, then stops all of them.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(janitorFrequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return
		case <-ticker.C:
			if n := m.EvictIdle(); n > 0 {
				m.log.Debug().Int("evicted", n).Msg("idle client instances evicted")
			}
		}
	}
}

// EvictIdle stops and removes instances idle for longer than the TTL.
func (m *Manager) EvictIdle() int {
	now := m.now()

	m.mu.Lock()
	var idle []*Instance
	for id, inst := range m.instances {
		if inst.idleSince(now) > m.idleTTL {
			idle = append(idle, inst)
			delete(m.instances, id)
		}
	}
	m.mu.Unlock()

	for _, inst := range idle {
		inst.listener.Stop()
	}
	return len(idle)
}

// Close stops every instance and waits for their watchers to exit. Later
// acquisitions fail with domain.ErrListenerStopped.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	all := make([]*Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		all = append(all, inst)
	}
	m.instances = make(map[string]*Instance)
	m.mu.Unlock()

	for _, inst := range all {
		inst.listener.Stop()
	}
	m.wg.Wait()
}

func (m *Manager) watch(inst *Instance) {
	defer m.wg.Done()

	for st := range inst.listener.Updates() {
		ev := m.log.Debug().Str("client_id", inst.ClientID).Bool("signed_in", st.SignedIn())
		if st.Identity != nil {
			ev = ev.Str("uid", st.Identity.UID)
		}
		ev.Msg("session state changed")

		if m.onTransition != nil {
			m.onTransition(inst.ClientID, st)
		}
	}
}
