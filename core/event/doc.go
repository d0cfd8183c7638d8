// Package event provides a small in-process event bus used for navigation diagnostics and as
// the event bus handed to controllers.
//
// Events are plain structs. Their name is the bare type name of the payload, so every
// payload type should be unique across the application.
//
// # Basic Usage
//
//	type RouteMatched struct {
//		Token   string
//		Pattern string
//	}
//
//	transport := event.NewSyncTransport(
//		event.NewHandlerFunc(func(ctx context.Context, evt RouteMatched) error {
//			log.Println("matched", evt.Pattern)
//			return nil
//		}),
//	)
//	publisher := event.NewPublisher(transport)
//	_ = publisher.Publish(ctx, RouteMatched{Token: "/app/home", Pattern: "/app/home"})
//
// # Transports
//
// The sync transport runs handlers in the caller's goroutine before Publish returns. Its
// errors are joined and returned to the publisher. The channel transport buffers events and
// runs handlers in the goroutine that calls Run; Publish fails with ErrBufferFull when the
// buffer is exhausted instead of blocking the navigation.
//
// # Catch-all Handlers
//
// A handler registered under the name All receives every event:
//
//	event.NewHandler(event.All, func(ctx context.Context, evt event.Event) error {
//		slog.InfoContext(ctx, "diagnostic", slog.String("event", evt.Name))
//		return nil
//	})
package event
