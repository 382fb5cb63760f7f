package auth

import (
	"sync"

	"github.com/shieldsight/shieldsight-cli/internal/core"
)

// SessionContext holds the current session explicitly and notifies
// registered listeners on every change. Components that need identity
// receive this object instead of reading ambient global state; listeners
// are registered once at startup and torn down via the returned
// unsubscribe function.
type SessionContext struct {
	mu        sync.RWMutex
	current   *core.Session
	listeners map[int]func(*core.Session)
	nextID    int
}

// NewSessionContext creates a session context seeded with the given
// session (nil when nobody is signed in).
func NewSessionContext(initial *core.Session) *SessionContext {
	return &SessionContext{
		current:   initial,
		listeners: make(map[int]func(*core.Session)),
	}
}

// Current returns the active session, or nil when signed out.
func (c *SessionContext) Current() *core.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Set replaces the active session and notifies all listeners. Pass nil on
// logout.
func (c *SessionContext) Set(session *core.Session) {
	c.mu.Lock()
	c.current = session
	notify := make([]func(*core.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		notify = append(notify, fn)
	}
	c.mu.Unlock()

	for _, fn := range notify {
		fn(session)
	}
}

// Subscribe registers a callback invoked on every session change and
// returns a function that removes the subscription.
func (c *SessionContext) Subscribe(fn func(*core.Session)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}
