package controller

import (
	"context"

	"github.com/dmitrymomot/navigator/core/confirm"
	"github.com/dmitrymomot/navigator/core/event"
)

// Controllers and composites are plain values. The router discovers what they can do through
// the small interfaces below and only calls the hooks a value implements.

// Component is the visual counterpart of a controller.
type Component interface {
	// Render builds the component's view.
	Render()
	// Bind establishes the component's event bindings.
	Bind()
	// Element returns the host-platform element of the component.
	Element() any
	// OnAttach is called after the element is attached to the host.
	OnAttach()
	// OnDetach is called after the element is detached from the host.
	OnDetach()
}

// Startable is started when newly created and stopped when discarded.
type Startable interface {
	Start()
	Stop()
}

// Activatable is activated when reused from the cache and deactivated when it stays cached.
type Activatable interface {
	Activate()
	Deactivate()
}

// Loader is handed to Binder.Bind. Calling Continue resumes the navigation.
type Loader interface {
	Continue()
}

// Binder is called once after a controller is created, before its component exists.
// Bind must call loader.Continue, inline or from another goroutine, or return an error.
// Returning route.Redirect or route.Veto intercepts the navigation.
type Binder interface {
	Bind(ctx context.Context, loader Loader) error
}

// ParameterReceiver receives the route parameters in positional order.
// Returning route.Redirect or route.Veto intercepts the navigation.
type ParameterReceiver interface {
	SetParameters(params ...string) error
}

// Confirmable is asked before the navigation leaves it.
type Confirmable = confirm.Party

// HandlerRemover drops handler registrations when detached.
type HandlerRemover interface {
	RemoveHandlers()
}

// Removable is called when a composite is destroyed.
type Removable interface {
	Remove()
}

// CacheAware is told whether the current resolution reused a cached instance.
type CacheAware interface {
	SetCached(cached bool)
}

// ComponentAware receives its component after creation.
type ComponentAware interface {
	SetComponent(c Component)
}

// CompositeAware receives its composites by name.
type CompositeAware interface {
	SetComposite(name string, composite any)
}

// Navigator lets controllers start a navigation.
type Navigator interface {
	NavigateTo(ctx context.Context, token string) error
}

// Dependencies are injected into every new controller and composite.
type Dependencies struct {
	// Key is the canonical key of the receiving controller.
	Key string
	// Context is the application context shared by all controllers.
	Context any
	// Events is the event bus.
	Events *event.Publisher
	// Navigator is the router.
	Navigator Navigator
}

// Wirable receives its dependencies right after construction.
type Wirable interface {
	Wire(deps Dependencies)
}

func wire(instance any, deps Dependencies, key string) {
	if w, ok := instance.(Wirable); ok {
		deps.Key = key
		w.Wire(deps)
	}
}
