// Package session holds the per-client identity context and the listener
// that keeps it in sync with the auth service.
package session

import (
	"sync"

	"github.com/sirpyerre/photogram/internal/core/domain"
)

// Context exposes the current identity of one client instance. It starts
// empty and is written only by its Listener.
type Context struct {
	mu       sync.RWMutex
	identity *domain.Identity
}

// Identity returns a copy of the current identity, or nil when signed out.
func (c *Context) Identity() *domain.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity.Clone()
}

// State returns the current session state.
func (c *Context) State() domain.SessionState {
	return domain.SessionState{Identity: c.Identity()}
}

func (c *Context) set(id *domain.Identity) {
	c.mu.Lock()
	c.identity = id.Clone()
	c.mu.Unlock()
}
