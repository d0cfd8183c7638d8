// Package route parses location tokens and matches them against registered route patterns.
//
// A location token has the form
//
//	/<shell>[/<segment-or-param>]*
//
// The first segment selects the shell. Every following pattern segment is either a literal,
// compared verbatim, or a parameter slot that accepts any single segment. A slot is written as
// '*', or as ':name' when the matcher runs in colon mode. Parameter names are documentation only:
// at runtime parameters are positional.
//
// # Basic Usage
//
//	m := route.NewMatcher(route.WithErrorRoute("/app/error"))
//	_, _ = m.Register("/app/users/*")
//	_, _ = m.Register("/app/error")
//
//	r, err := m.Resolve("/app/users/42")
//	// r.Shell == "app", r.Parameters == []string{"42"}
//
// Resolve falls back to the error route when nothing matches and reports
// ErrErrorRouteUnresolvable when the error route itself is missing.
//
// # Interception
//
// Filters and controllers stop or divert a navigation by returning the errors built by Redirect
// and Veto. Use AsInterception to inspect them.
package route
