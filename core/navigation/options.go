package navigation

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/navigator/core/event"
	"github.com/dmitrymomot/navigator/core/history"
	"github.com/dmitrymomot/navigator/core/host"
)

// Option configures a Router.
type Option func(*Router) error

// WithConfig replaces the router configuration. WithMaxRedirects still applies when given
// before it.
func WithConfig(cfg Config) Option {
	return func(r *Router) error {
		r.cfg = cfg
		return nil
	}
}

// WithLogger sets the logger. The router logs nothing by default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			return nil
		}
		r.logger = logger
		return nil
	}
}

// WithPublisher sets the event publisher used for diagnostics. It is also handed to
// controllers through their dependencies.
func WithPublisher(p *event.Publisher) Option {
	return func(r *Router) error {
		r.events = p
		return nil
	}
}

// WithHost connects the router to the host location bar.
func WithHost(h host.Host) Option {
	return func(r *Router) error {
		r.host = h
		return nil
	}
}

// WithHistory sets the history store. A memory store is used when history is enabled and
// no store is given.
func WithHistory(store history.Store) Option {
	return func(r *Router) error {
		r.history = store
		return nil
	}
}

// WithFilters appends filters to the chain.
func WithFilters(filters ...Filter) Option {
	return func(r *Router) error {
		for _, f := range filters {
			if f == nil {
				return errors.New("navigation: nil filter")
			}
		}
		r.filters = append(r.filters, filters...)
		return nil
	}
}

// WithContext sets the application context handed to every controller.
func WithContext(appCtx any) Option {
	return func(r *Router) error {
		r.appCtx = appCtx
		return nil
	}
}

// WithMaxRedirects bounds a redirect chain. It overrides Config.MaxRedirects whatever the
// option order.
func WithMaxRedirects(n int) Option {
	return func(r *Router) error {
		if n <= 0 {
			return errors.New("navigation: max redirects must be positive")
		}
		r.maxRedirects = n
		return nil
	}
}
