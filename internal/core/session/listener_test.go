package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// stubChannel is an in-memory auth channel. It delivers the configured
// current identity on subscribe, like the real service.
type stubChannel struct {
	mu       sync.Mutex
	current  map[string]*domain.Identity
	subs     map[string][]func(*domain.Identity)
	cancels  int
	err      error
	subCalls int
}

func newStubChannel() *stubChannel {
	return &stubChannel{
		current: make(map[string]*domain.Identity),
		subs:    make(map[string][]func(*domain.Identity)),
	}
}

func (s *stubChannel) OnAuthStateChanged(_ context.Context, clientID string, fn func(*domain.Identity)) (func(), error) {
	s.mu.Lock()
	s.subCalls++
	if s.err != nil {
		s.mu.Unlock()
		return nil, s.err
	}
	s.subs[clientID] = append(s.subs[clientID], fn)
	idx := len(s.subs[clientID]) - 1
	current := s.current[clientID]
	s.mu.Unlock()

	fn(current.Clone())

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subs[clientID][idx] = nil
		s.cancels++
	}, nil
}

func (s *stubChannel) emit(clientID string, id *domain.Identity) {
	s.mu.Lock()
	s.current[clientID] = id
	fns := append([]func(*domain.Identity){}, s.subs[clientID]...)
	s.mu.Unlock()

	for _, fn := range fns {
		if fn != nil {
			fn(id.Clone())
		}
	}
}

func TestContext_StartsEmpty(t *testing.T) {
	var sc Context
	if sc.Identity() != nil {
		t.Fatalf("expected nil identity before first callback")
	}
	if sc.State().SignedIn() {
		t.Fatalf("expected signed-out state")
	}
}

func TestContext_ReturnsCopies(t *testing.T) {
	var sc Context
	sc.set(&domain.Identity{UID: "u1", DisplayName: "alice"})

	got := sc.Identity()
	got.DisplayName = "mallory"

	if sc.Identity().DisplayName != "alice" {
		t.Fatalf("context identity mutated through returned copy")
	}
}

func TestListener_Start_AppliesInitialState(t *testing.T) {
	ch := newStubChannel()
	ch.current["c1"] = &domain.Identity{UID: "u1", Email: "a@example.com"}

	var sc Context
	l := NewListener(ch, "c1", &sc)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer l.Stop()

	if id := sc.Identity(); id == nil || id.UID != "u1" {
		t.Fatalf("expected initial identity applied, got %+v", id)
	}

	st := <-l.Updates()
	if !st.SignedIn() || st.Identity.UID != "u1" {
		t.Fatalf("unexpected first update: %+v", st)
	}
}

func TestListener_TracksTransitions(t *testing.T) {
	ch := newStubChannel()
	var sc Context
	l := NewListener(ch, "c1", &sc)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer l.Stop()

	ch.emit("c1", &domain.Identity{UID: "u2"})
	if id := sc.Identity(); id == nil || id.UID != "u2" {
		t.Fatalf("expected sign-in applied, got %+v", id)
	}

	ch.emit("c1", nil)
	if sc.Identity() != nil {
		t.Fatalf("expected sign-out applied")
	}

	want := []bool{false, true, false}
	for i, signedIn := range want {
		st := <-l.Updates()
		if st.SignedIn() != signedIn {
			t.Fatalf("update %d: expected signedIn=%v", i, signedIn)
		}
	}
}

func TestListener_StartTwice(t *testing.T) {
	ch := newStubChannel()
	l := NewListener(ch, "c1", &Context{})

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := l.Start(context.Background()); !errors.Is(err, domain.ErrListenerStarted) {
		t.Fatalf("expected ErrListenerStarted, got %v", err)
	}
	if ch.subCalls != 1 {
		t.Fatalf("expected exactly one registration, got %d", ch.subCalls)
	}
	l.Stop()
	if err := l.Start(context.Background()); !errors.Is(err, domain.ErrListenerStopped) {
		t.Fatalf("expected ErrListenerStopped, got %v", err)
	}
}

func TestListener_StartError(t *testing.T) {
	ch := newStubChannel()
	ch.err = errors.New("redis down")
	l := NewListener(ch, "c1", &Context{})

	if err := l.Start(context.Background()); err == nil {
		t.Fatalf("expected start error")
	}
}

func TestListener_Stop_Unregisters(t *testing.T) {
	ch := newStubChannel()
	var sc Context
	l := NewListener(ch, "c1", &sc)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	l.Stop()
	l.Stop()

	if ch.cancels != 1 {
		t.Fatalf("expected one unregister, got %d", ch.cancels)
	}

	l.handle(&domain.Identity{UID: "late"})
	if sc.Identity() != nil {
		t.Fatalf("context written after stop")
	}

	for range l.Updates() {
	}
}

func TestListener_SlowConsumerKeepsLatest(t *testing.T) {
	ch := newStubChannel()
	l := NewListener(ch, "c1", &Context{})
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer l.Stop()

	for i := 0; i < updatesBuffer*2; i++ {
		ch.emit("c1", &domain.Identity{UID: "u"})
	}
	ch.emit("c1", &domain.Identity{UID: "final"})

	var last domain.SessionState
	for len(l.Updates()) > 0 {
		last = <-l.Updates()
	}
	if last.Identity == nil || last.Identity.UID != "final" {
		t.Fatalf("expected latest state retained, got %+v", last)
	}
}
