package event

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// ChannelTransport buffers events and delivers them from the goroutine running Run.
// Dispatch never blocks: it fails with ErrBufferFull when the buffer is exhausted.
type ChannelTransport struct {
	handlers *registry
	events   chan envelope
	logger   *slog.Logger

	mu     sync.RWMutex
	closed bool
}

type envelope struct {
	ctx context.Context
	evt Event
}

// ChannelOption configures a ChannelTransport.
type ChannelOption func(*ChannelTransport)

// WithChannelLogger sets the logger used to report handler failures.
func WithChannelLogger(logger *slog.Logger) ChannelOption {
	return func(t *ChannelTransport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithChannelHandlers registers handlers on the transport.
func WithChannelHandlers(handlers ...Handler) ChannelOption {
	return func(t *ChannelTransport) {
		t.handlers.add(handlers...)
	}
}

// NewChannelTransport creates a transport with the given buffer size.
func NewChannelTransport(size int, opts ...ChannelOption) *ChannelTransport {
	t := &ChannelTransport{
		handlers: newRegistry(nil),
		events:   make(chan envelope, max(size, 1)),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Subscribe adds handlers to the transport.
func (t *ChannelTransport) Subscribe(handlers ...Handler) {
	t.handlers.add(handlers...)
}

// Dispatch enqueues the event.
func (t *ChannelTransport) Dispatch(ctx context.Context, evt Event) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		return ErrTransportClosed
	}

	select {
	case t.events <- envelope{ctx: context.WithoutCancel(ctx), evt: evt}:
		return nil
	default:
		return ErrBufferFull
	}
}

// Run delivers events until ctx is done or the transport is closed and drained.
func (t *ChannelTransport) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env, ok := <-t.events:
			if !ok {
				return nil
			}
			t.deliver(env)
		}
	}
}

// Close stops accepting events. Buffered events are still delivered by Run.
func (t *ChannelTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.events)
	return nil
}

func (t *ChannelTransport) deliver(env envelope) {
	ctx := withEventMeta(env.ctx, env.evt)
	for _, h := range t.handlers.lookup(env.evt.Name) {
		if err := safeHandle(ctx, h, env.evt); err != nil {
			t.logger.ErrorContext(ctx, "event handler failed",
				slog.String("event_id", env.evt.ID),
				slog.String("event_name", env.evt.Name),
				slog.String("handler", h.EventName()),
				slog.String("error", err.Error()))
		}
	}
}
