package event

import (
	"context"
	"fmt"
)

// HandlerFunc is a type-safe function signature for processing events of type T.
type HandlerFunc[T any] func(context.Context, T) error

// Handler processes events.
type Handler interface {
	// EventName returns the event name this handler processes, or All.
	EventName() string

	// Handle executes the handler with the given event.
	Handle(ctx context.Context, evt Event) error
}

// NewHandler creates a handler with an explicit event name that receives the whole Event.
// Use All as the name to receive every event.
func NewHandler(eventName string, fn HandlerFunc[Event]) Handler {
	return &eventHandler{name: eventName, fn: fn}
}

// NewHandlerFunc creates a type-safe handler. The event name is derived from T.
func NewHandlerFunc[T any](fn HandlerFunc[T]) Handler {
	var zero T
	return &typedHandler[T]{name: Name(zero), fn: fn}
}

type eventHandler struct {
	name string
	fn   HandlerFunc[Event]
}

func (h *eventHandler) EventName() string { return h.name }

func (h *eventHandler) Handle(ctx context.Context, evt Event) error {
	return h.fn(ctx, evt)
}

type typedHandler[T any] struct {
	name string
	fn   HandlerFunc[T]
}

func (h *typedHandler[T]) EventName() string { return h.name }

func (h *typedHandler[T]) Handle(ctx context.Context, evt Event) error {
	payload, ok := evt.Payload.(T)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for handler %s", evt.Payload, h.name)
	}
	return h.fn(ctx, payload)
}

// safeHandle runs a handler and converts panics into errors.
func safeHandle(ctx context.Context, h Handler, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", h.EventName(), r)
		}
	}()
	return h.Handle(ctx, evt)
}
