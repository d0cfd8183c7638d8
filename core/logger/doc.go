// Package logger provides structured logging utilities built on log/slog.
//
// New builds a text or JSON logger; the attribute helpers give every navigation log line the
// same keys:
//
//	log := logger.New(logger.WithDevelopment("navigator"))
//	log.Info("route matched",
//		logger.NavigationID(id),
//		logger.Token("/app/users/42"),
//		logger.Route(r),
//	)
//
// Helpers return an empty slog.Attr for nil or empty input, which slog omits.
package logger
