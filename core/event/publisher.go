package event

import (
	"context"
	"io"
	"log/slog"
)

// Publisher publishes events through a transport.
//
// Example:
//
//	publisher := event.NewPublisher(event.NewSyncTransport(), event.WithPublisherLogger(logger))
//	err := publisher.Publish(ctx, RouteMatched{Token: "/app/home"})
type Publisher struct {
	transport Transport
	logger    *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithPublisherLogger sets the logger for the publisher.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher creates a new event publisher with the given transport.
func NewPublisher(transport Transport, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		transport: transport,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish wraps payload in an Event and dispatches it.
func (p *Publisher) Publish(ctx context.Context, payload any) error {
	if payload == nil {
		return ErrNilPayload
	}

	evt := NewEvent(payload)
	if err := p.transport.Dispatch(ctx, evt); err != nil {
		p.logger.WarnContext(ctx, "event dispatch failed",
			slog.String("event_id", evt.ID),
			slog.String("event_name", evt.Name),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
