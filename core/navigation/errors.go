package navigation

import "errors"

var (
	// ErrLoopDetected is returned when a redirect chain revisits a route within one navigation.
	ErrLoopDetected = errors.New("redirect loop detected")

	// ErrTooManyRedirects is returned when a redirect chain exceeds the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrRoutingVetoed is returned when a confirmation party aborts the navigation.
	ErrRoutingVetoed = errors.New("routing vetoed")

	// ErrRoutingIntercepted is returned when a filter or controller vetoes the navigation.
	ErrRoutingIntercepted = errors.New("routing intercepted")

	// ErrFilterFailed is returned when a filter fails with an error other than an interception.
	ErrFilterFailed = errors.New("filter failed")

	// ErrConstructionFailure is returned when building the new screen tree fails.
	ErrConstructionFailure = errors.New("screen construction failed")

	// ErrNoControllerForRoute is returned when a matched pattern has no controller key.
	ErrNoControllerForRoute = errors.New("no controller registered for route")

	// ErrControllerActive is returned when evicting a controller that is currently displayed.
	ErrControllerActive = errors.New("controller is currently displayed")

	// ErrNoHistory is returned by Back when there is no previous location.
	ErrNoHistory = errors.New("no previous location in history")

	// ErrNotStarted is returned by Back before the router has committed a navigation.
	ErrNotStarted = errors.New("router not started")
)
