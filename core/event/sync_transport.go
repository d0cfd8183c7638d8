package event

import (
	"context"
	"errors"
	"fmt"
)

// SyncTransport executes handlers synchronously in the caller's goroutine.
type SyncTransport struct {
	handlers *registry
}

// NewSyncTransport creates a synchronous transport with the given handlers.
func NewSyncTransport(handlers ...Handler) *SyncTransport {
	return &SyncTransport{handlers: newRegistry(handlers)}
}

// Subscribe adds handlers to the transport.
func (t *SyncTransport) Subscribe(handlers ...Handler) {
	t.handlers.add(handlers...)
}

// Dispatch runs every matching handler and returns their errors joined.
// Panics from handlers are converted to errors.
func (t *SyncTransport) Dispatch(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx = withEventMeta(ctx, evt)

	var errs []error
	for _, h := range t.handlers.lookup(evt.Name) {
		if err := safeHandle(ctx, h, evt); err != nil {
			errs = append(errs, fmt.Errorf("handler %s failed: %w", h.EventName(), err))
		}
	}
	return errors.Join(errs...)
}
