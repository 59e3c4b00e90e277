package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

func TestManager_AcquireReusesInstance(t *testing.T) {
	ch := newStubChannel()
	m := NewManager(ch, time.Minute, nil, zerolog.Nop())
	defer m.Close()

	a, err := m.Acquire(context.Background(), "c1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	b, err := m.Acquire(context.Background(), "c1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if a != b {
		t.Fatalf("expected the same instance")
	}
	if ch.subCalls != 1 || m.Len() != 1 {
		t.Fatalf("expected one listener, got %d registrations / %d instances", ch.subCalls, m.Len())
	}
}

func TestManager_InstanceSeesSignIn(t *testing.T) {
	ch := newStubChannel()

	var mu sync.Mutex
	var seen []domain.SessionState
	done := make(chan struct{}, 4)
	m := NewManager(ch, time.Minute, func(_ string, st domain.SessionState) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
		done <- struct{}{}
	}, zerolog.Nop())
	defer m.Close()

	inst, err := m.Acquire(context.Background(), "c1")
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	ch.emit("c1", &domain.Identity{UID: "u1"})

	if id := inst.Context.Identity(); id == nil || id.UID != "u1" {
		t.Fatalf("expected identity in context, got %+v", id)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("transition %d not observed", i)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if seen[0].SignedIn() || !seen[1].SignedIn() {
		t.Fatalf("unexpected transitions: %+v", seen)
	}
}

func TestManager_EvictIdle(t *testing.T) {
	ch := newStubChannel()
	m := NewManager(ch, time.Minute, nil, zerolog.Nop())
	defer m.Close()

	now := time.Now()
	m.now = func() time.Time { return now }

	if _, err := m.Acquire(context.Background(), "old"); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := m.Acquire(context.Background(), "fresh"); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	if n := m.EvictIdle(); n != 1 {
		t.Fatalf("expected one eviction, got %d", n)
	}
	if m.Len() != 1 || ch.cancels != 1 {
		t.Fatalf("expected old instance stopped, len=%d cancels=%d", m.Len(), ch.cancels)
	}
}

func TestManager_RunStopsOnCancel(t *testing.T) {
	ch := newStubChannel()
	m := NewManager(ch, time.Minute, nil, zerolog.Nop())

	if _, err := m.Acquire(context.Background(), "c1"); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(exited)
	}()
	cancel()

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if m.Len() != 0 || ch.cancels != 1 {
		t.Fatalf("expected all instances stopped")
	}
}

// gatedChannel holds subscriptions for one client until release is closed.
type gatedChannel struct {
	*stubChannel
	gated   string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedChannel) OnAuthStateChanged(ctx context.Context, clientID string, fn func(*domain.Identity)) (func(), error) {
	if clientID == g.gated {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.stubChannel.OnAuthStateChanged(ctx, clientID, fn)
}

func TestManager_SlowSubscriptionDoesNotBlockOtherClients(t *testing.T) {
	ch := &gatedChannel{
		stubChannel: newStubChannel(),
		gated:       "slow",
		entered:     make(chan struct{}, 1),
		release:     make(chan struct{}),
	}
	m := NewManager(ch, time.Minute, nil, zerolog.Nop())
	defer m.Close()

	if _, err := m.Acquire(context.Background(), "warm"); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	slowDone := make(chan error, 1)
	go func() {
		_, err := m.Acquire(context.Background(), "slow")
		slowDone <- err
	}()
	<-ch.entered

	for _, id := range []string{"warm", "fresh"} {
		done := make(chan error, 1)
		go func() {
			_, err := m.Acquire(context.Background(), id)
			done <- err
		}()
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("acquire %s failed: %v", id, err)
			}
		case <-time.After(time.Second):
			t.Fatalf("acquire %s blocked behind another client's subscription", id)
		}
	}

	close(ch.release)
	if err := <-slowDone; err != nil {
		t.Fatalf("slow acquire failed: %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("expected 3 instances, got %d", m.Len())
	}
}

func TestManager_ConcurrentFirstAcquireSubscribesOnce(t *testing.T) {
	ch := newStubChannel()
	m := NewManager(ch, time.Minute, nil, zerolog.Nop())
	defer m.Close()

	const callers = 16
	got := make([]*Instance, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inst, err := m.Acquire(context.Background(), "c1")
			if err != nil {
				t.Errorf("acquire failed: %v", err)
				return
			}
			got[i] = inst
		}()
	}
	wg.Wait()

	for _, inst := range got[1:] {
		if inst != got[0] {
			t.Fatal("callers received different instances")
		}
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.subCalls != 1 {
		t.Fatalf("expected one subscription, got %d", ch.subCalls)
	}
}

func TestManager_AcquireAfterClose(t *testing.T) {
	ch := newStubChannel()
	m := NewManager(ch, time.Minute, nil, zerolog.Nop())
	m.Close()

	if _, err := m.Acquire(context.Background(), "c1"); !errors.Is(err, domain.ErrListenerStopped) {
		t.Fatalf("expected ErrListenerStopped, got %v", err)
	}
	if ch.cancels != 1 {
		t.Fatalf("started listener should be stopped, cancels = %d", ch.cancels)
	}
}
