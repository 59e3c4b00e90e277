package session

import (
	"context"
	"sync"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

const updatesBuffer = 8

// AuthChannel is the subscription side of the auth service.
type AuthChannel interface {
	OnAuthStateChanged(ctx context.Context, clientID string, fn func(*domain.Identity)) (func(), error)
}

// Listener registers one callback with the auth channel for a client and
// mirrors every delivery into its Context and onto the Updates channel.
type Listener struct {
	auth     AuthChannel
	clientID string
	sc       *Context
	updates  chan domain.SessionState

	mu          sync.Mutex
	started     bool
	stopped     bool
	unsubscribe func()
}

// NewListener returns a listener that writes into sc.
func NewListener(auth AuthChannel, clientID string, sc *Context) *Listener {
	return &Listener{
		auth:     auth,
		clientID: clientID,
		sc:       sc,
		updates:  make(chan domain.SessionState, updatesBuffer),
	}
}

// Start registers the callback. The current state has been applied to the
// Context by the time Start returns.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	switch {
	case l.stopped:
		l.mu.Unlock()
		return domain.ErrListenerStopped
	case l.started:
		l.mu.Unlock()
		return domain.ErrListenerStarted
	}
	l.started = true
	l.mu.Unlock()

	unsubscribe, err := l.auth.OnAuthStateChanged(ctx, l.clientID, l.handle)
	if err != nil {
		l.mu.Lock()
		l.started = false
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		unsubscribe()
		return domain.ErrListenerStopped
	}
	l.unsubscribe = unsubscribe
	l.mu.Unlock()
	return nil
}

// Stop unregisters the callback and closes Updates. It is safe to call more
// than once.
func (l *Listener) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	unsubscribe := l.unsubscribe
	l.unsubscribe = nil
	close(l.updates)
	l.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Updates delivers session-state transitions. When the consumer falls
// behind, the oldest pending transition is dropped.
func (l *Listener) Updates() <-chan domain.SessionState {
	return l.updates
}

func (l *Listener) handle(id *domain.Identity) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return
	}
	l.sc.set(id)

	st := domain.SessionState{Identity: id.Clone()}
	select {
	case l.updates <- st:
		return
	default:
	}
	select {
	case <-l.updates:
	default:
	}
	select {
	case l.updates <- st:
	default:
	}
}
