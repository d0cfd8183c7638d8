package event

import (
	"context"
	"sync"
)

// Transport delivers published events to handlers.
type Transport interface {
	Dispatch(ctx context.Context, evt Event) error
}

// registry stores handlers by event name.
type registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func newRegistry(handlers []Handler) *registry {
	r := &registry{handlers: make(map[string][]Handler)}
	r.add(handlers...)
	return r
}

func (r *registry) add(handlers ...Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range handlers {
		if h == nil {
			continue
		}
		r.handlers[h.EventName()] = append(r.handlers[h.EventName()], h)
	}
}

// lookup returns the handlers for name followed by the catch-all handlers.
func (r *registry) lookup(name string) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handler, 0, len(r.handlers[name])+len(r.handlers[All]))
	out = append(out, r.handlers[name]...)
	if name != All {
		out = append(out, r.handlers[All]...)
	}
	return out
}
