package simple

import (
	"log/slog"
	"sync"

	"github.com/dmitrymomot/navigator/core/event"
)

// Context is the application context handed to every controller through
// controller.Dependencies.Context.
type Context struct {
	appName string
	logger  *slog.Logger
	events  *event.Publisher

	mu     sync.RWMutex
	values map[any]any
}

// AppName returns the configured application name.
func (c *Context) AppName() string {
	return c.appName
}

// Logger returns the application logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Events returns the application event publisher.
func (c *Context) Events() *event.Publisher {
	return c.events
}

// Value returns the value stored for key, or nil.
func (c *Context) Value(key any) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// SetValue stores a value shared by all controllers.
func (c *Context) SetValue(key, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = val
}

func newContext(appName string, logger *slog.Logger, events *event.Publisher) *Context {
	return &Context{
		appName: appName,
		logger:  logger,
		events:  events,
		values:  make(map[any]any),
	}
}
