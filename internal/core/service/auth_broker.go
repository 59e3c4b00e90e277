package service

import (
	"sync"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// authBroker fans auth-state changes out to the callbacks registered per
// client id. Callbacks run outside the broker lock; deliveries to a single
// subscription are serialized.
type authBroker struct {
	mu   sync.Mutex
	next uint64
	subs map[string]map[uint64]*subscription
}

type subscription struct {
	mu     sync.Mutex
	fn     func(*domain.Identity)
	seen   bool
	closed bool
}

func newAuthBroker() *authBroker {
	return &authBroker{subs: make(map[string]map[uint64]*subscription)}
}

// deliver invokes the callback with a copy of id. An initial delivery is
// skipped when a newer change already reached the subscription.
func (s *subscription) deliver(id *domain.Identity, initial bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || (initial && s.seen) {
		return
	}
	s.seen = true
	s.fn(id.Clone())
}

func (s *subscription) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (b *authBroker) subscribe(clientID string, fn func(*domain.Identity)) (*subscription, func()) {
	sub := &subscription{fn: fn}

	b.mu.Lock()
	b.next++
	key := b.next
	if b.subs[clientID] == nil {
		b.subs[clientID] = make(map[uint64]*subscription)
	}
	b.subs[clientID][key] = sub
	b.mu.Unlock()

	var once sync.Once
	return sub, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[clientID], key)
			if len(b.subs[clientID]) == 0 {
				delete(b.subs, clientID)
			}
			b.mu.Unlock()
			sub.close()
		})
	}
}

func (b *authBroker) publish(change domain.StateChange) {
	b.mu.Lock()
	targets := make([]*subscription, 0, len(b.subs[change.ClientID]))
	for _, sub := range b.subs[change.ClientID] {
		targets = append(targets, sub)
	}
	b.mu.Unlock()

	for _, sub := range targets {
		sub.deliver(change.Identity, false)
	}
}

func (b *authBroker) subscribers(clientID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[clientID])
}
