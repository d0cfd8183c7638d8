// Package host abstracts the location bar of the host platform.
//
// The router reads the current location on start, writes it after every committed
// navigation and follows user-initiated changes through Subscribe. Memory is an in-process
// implementation used by tests and headless applications.
package host

import (
	"strings"
	"sync"
)

// Host is the host platform's location bar.
type Host interface {
	// Location returns the current location token.
	Location() string
	// SetLocation replaces the location without notifying subscribers.
	SetLocation(token string)
	// Subscribe registers fn for user-initiated location changes and returns an unsubscribe func.
	Subscribe(fn func(token string)) (unsubscribe func())
}

// Format renders a route token as a location. Hash mode produces "#/shell/...",
// path mode "/shell/...".
func Format(token string, usingHash bool) string {
	token = "/" + strings.TrimLeft(token, "#/")
	if usingHash {
		return "#" + token
	}
	return token
}

// Parse converts a location in either form into a route token.
func Parse(location string) string {
	location = strings.TrimSpace(location)
	if i := strings.IndexByte(location, '#'); i >= 0 {
		location = location[i+1:]
	}
	location = strings.TrimLeft(location, "/")
	if location == "" {
		return ""
	}
	return "/" + location
}

// Memory is a Host kept in memory.
type Memory struct {
	mu        sync.Mutex
	location  string
	nextID    int
	listeners map[int]func(string)
	history   []string
}

// NewMemory creates a Memory host at location.
func NewMemory(location string) *Memory {
	return &Memory{
		location:  location,
		listeners: make(map[int]func(string)),
	}
}

// Location implements Host.
func (m *Memory) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.location
}

// SetLocation implements Host.
func (m *Memory) SetLocation(location string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.location = location
	m.history = append(m.history, location)
}

// Subscribe implements Host.
func (m *Memory) Subscribe(fn func(string)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// Change simulates a user-initiated location change: the location is replaced and every
// subscriber is notified synchronously.
func (m *Memory) Change(location string) {
	m.mu.Lock()
	m.location = location
	listeners := make([]func(string), 0, len(m.listeners))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(location)
	}
}

// Written returns every location written through SetLocation in order.
func (m *Memory) Written() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.history...)
}
