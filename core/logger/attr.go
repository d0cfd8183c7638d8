package logger

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/dmitrymomot/navigator/core/route"
)

// Attribute helpers use the empty Attr pattern for nil safety.
// slog drops empty attributes, so log.Info("msg", logger.Error(err)) needs no nil check.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// ============================================================================
// Error Handling
// ============================================================================

// Errors groups multiple non-nil errors under the key "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// ============================================================================
// Timing
// ============================================================================

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// ============================================================================
// Navigation
// ============================================================================

// NavigationID creates an attribute identifying one navigation attempt.
func NavigationID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("navigation_id", id)
}

// Token creates an attribute for a location token.
func Token(token string) slog.Attr {
	return slog.String("token", token)
}

// Route groups the pattern, shell and parameters of a resolved route.
func Route(r route.Route) slog.Attr {
	if r.IsZero() {
		return slog.Attr{}
	}
	attrs := []slog.Attr{
		slog.String("pattern", r.Pattern),
		slog.String("shell", r.Shell),
	}
	if len(r.Parameters) > 0 {
		attrs = append(attrs, slog.Any("parameters", r.Parameters))
	}
	if r.Fallback {
		attrs = append(attrs, slog.Bool("fallback", true))
	}
	return Group("route", attrs...)
}

// Trail creates an attribute for the routes visited during one navigation.
func Trail(tokens []string) slog.Attr {
	if len(tokens) == 0 {
		return slog.Attr{}
	}
	return slog.Any("trail", tokens)
}

// Controller creates an attribute for a controller key.
func Controller(key string) slog.Attr {
	return slog.String("controller", key)
}

// Composite creates an attribute for a composite name.
func Composite(name string) slog.Attr {
	return slog.String("composite", name)
}

// Cached creates an attribute telling whether a controller was reused from the cache.
func Cached(cached bool) slog.Attr {
	return slog.Bool("cached", cached)
}

// ============================================================================
// Generic Metadata
// ============================================================================

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event creates an attribute for event names.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Result creates an attribute for operation results.
func Result(result string) slog.Attr {
	return slog.String("result", result)
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Key creates a generic key-value attribute.
func Key(key string, value any) slog.Attr {
	if value == nil {
		return slog.Attr{}
	}
	return slog.Any(key, value)
}
