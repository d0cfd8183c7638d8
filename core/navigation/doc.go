// Package navigation implements the router: it resolves a location token, asks the displayed
// controllers for permission to leave, tears the displayed screen down and builds or reuses
// the next one.
//
// # Navigation
//
// Router.Navigate runs these steps:
//
//  1. The token is matched against the registered patterns. Unmatched tokens fall back to
//     the error route.
//  2. Filters run in order. A filter may redirect, which restarts at step 1, or veto.
//     Every visited route is recorded and revisiting one fails with ErrLoopDetected.
//  3. Every Confirmable controller and composite of the displayed tree is asked through
//     MayStop. A single AbortRouting fails the navigation with ErrRoutingVetoed.
//  4. The new tree is prepared while detached: the controller is resolved from the cache or
//     created and bound, its component and composites are built, parameters are injected and
//     new components are rendered. A controller may redirect or veto from Bind or
//     SetParameters. A redirect restarts at step 1 without asking for confirmation again.
//  5. The displayed tree is stopped and detached, the new tree is attached and started, and
//     the location is written to the host and the history.
//
// A failure at any step leaves the displayed tree untouched.
//
// # Lifecycle order
//
// Teardown calls Deactivate on instances that stay cached and Stop on the others, parent
// first, then OnDetach parent first, then RemoveHandlers. Attach calls OnAttach parent first,
// then Start on new instances or Activate on reused ones with children first, so the
// controller is started last. A shell is attached before and torn down after its content,
// and only when the shell id changes.
//
// # Serialization
//
// One navigation runs at a time. A navigation requested while another runs, from a lifecycle
// hook or another goroutine, is queued and returns a Result with StatusQueued. Queued
// navigations run in order once the current one finishes; their outcome is reported through
// the NavigationCompleted and NavigationFailed events.
//
// # Diagnostics
//
// When an event.Publisher is configured, the router publishes RouteMatched, FilterRedirected,
// LoopDetected, ConfirmationAborted, ControllerCreated, ControllerReused, ControllerAttached,
// ControllerDetached, CompositeNotFound, ControllerRedirected, NavigationQueued,
// NavigationCompleted and NavigationFailed.
//
// # Guards
//
// Guard is a Filter evaluating an expr-lang expression against the route:
//
//	g, err := navigation.NewGuard("/app/person/*", `params[0] != "0"`, "/app/list")
//	router.Use(g)
package navigation
