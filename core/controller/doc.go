// Package controller holds the building blocks the router uses to manage controllers:
// capability interfaces, the definition Factory, the controller Cache and the
// Composites registry.
//
// A controller is any value. Its behavior is discovered through optional interfaces such as
// Binder, ParameterReceiver, Startable, Activatable, Confirmable and Wirable, so applications
// implement only the hooks they need.
//
// # Definitions
//
//	factory, err := controller.NewFactory(
//		controller.Definition{
//			Key:       "detail",
//			New:       func() any { return &DetailController{} },
//			Component: func(c any) controller.Component { return NewDetailView(c.(*DetailController)) },
//			Cacheable: true,
//		},
//	)
//
// # Cache
//
// Cache.Resolve returns the cached instance of a cacheable controller or creates a new one.
// Entries are never expired automatically; use Cache.Evict.
//
// # Composites
//
// Composites are sub-controllers declared by a parent. Local composites are created once per
// owning instance and destroyed with it. Global composites are created once and shared.
//
//	err := composites.Declare("detail",
//		controller.CompositeDecl{Name: "toolbar", Key: "toolbar", Scope: controller.ScopeGlobal},
//		controller.CompositeDecl{Name: "form", Key: "person-form"},
//	)
package controller
