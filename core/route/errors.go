package route

import "errors"

var (
	// ErrInvalidPattern is returned when a route pattern does not start with '/' followed by a
	// shell id, or has an empty or unnamed segment.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrColonParameter is returned when a pattern uses a ':name' segment while colon parameters are disabled.
	ErrColonParameter = errors.New("colon parameters are disabled")

	// ErrDuplicatePattern is returned when the same pattern is registered twice.
	ErrDuplicatePattern = errors.New("route pattern already registered")

	// ErrNoMatchingRoute is returned when a token matches none of the registered patterns.
	ErrNoMatchingRoute = errors.New("no matching route")

	// ErrErrorRouteUnresolvable is returned when the configured error route cannot be matched.
	// This is a configuration error and should stop the application at startup.
	ErrErrorRouteUnresolvable = errors.New("error route cannot be resolved")

	// ErrParameterCount is returned when a route is built with the wrong number of parameters.
	ErrParameterCount = errors.New("parameter count does not match pattern slots")
)
