package event

import "context"

type eventIDCtx struct{}

// WithEventID attaches an event ID to the context.
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDCtx{}, id)
}

// EventID extracts the event ID from the context.
// Returns empty string if not present.
func EventID(ctx context.Context) string {
	if id, ok := ctx.Value(eventIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type eventNameCtx struct{}

// WithEventName attaches an event name to the context.
func WithEventName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, eventNameCtx{}, name)
}

// EventName extracts the event name from the context.
// Returns empty string if not present.
func EventName(ctx context.Context) string {
	if name, ok := ctx.Value(eventNameCtx{}).(string); ok {
		return name
	}
	return ""
}

func withEventMeta(ctx context.Context, evt Event) context.Context {
	return WithEventName(WithEventID(ctx, evt.ID), evt.Name)
}
