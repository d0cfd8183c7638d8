package navigation

import (
	"time"

	"github.com/dmitrymomot/navigator/core/route"
)

// Diagnostic events published on the event bus. Payload type names are the event names.

type RouteMatched struct {
	NavigationID string
	Token        string
	Route        route.Route
}

type FilterRedirected struct {
	NavigationID string
	From         string
	To           string
}

type LoopDetected struct {
	NavigationID string
	Trail        []string
	Token        string
}

type ConfirmationAborted struct {
	NavigationID string
	Token        string
	Err          error
}

type ControllerCreated struct {
	NavigationID string
	Key          string
	Name         string
	Kind         string
}

type ControllerReused struct {
	NavigationID string
	Key          string
	Name         string
	Kind         string
}

type ControllerAttached struct {
	NavigationID string
	Key          string
	Name         string
	Kind         string
	State        string
}

type ControllerDetached struct {
	NavigationID string
	Key          string
	Name         string
	Kind         string
	Retained     bool
}

type CompositeNotFound struct {
	NavigationID string
	ParentKey    string
	Name         string
	Err          error
}

type ControllerRedirected struct {
	NavigationID string
	Key          string
	From         string
	To           string
}

type NavigationQueued struct {
	Token string
}

type NavigationCompleted struct {
	NavigationID string
	Token        string
	Route        route.Route
	Key          string
	Cached       bool
	Trail        []string
	Duration     time.Duration
}

type NavigationFailed struct {
	NavigationID string
	Token        string
	Trail        []string
	Err          error
	Duration     time.Duration
}
