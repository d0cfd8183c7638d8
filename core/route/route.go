package route

import (
	"fmt"
	"slices"
	"strings"
)

// Separator splits location tokens into segments.
const Separator = "/"

// Wildcard marks a parameter slot in a route pattern.
const Wildcard = "*"

// Route is a location token resolved against a registered pattern.
type Route struct {
	// Pattern is the registered pattern this route matched.
	Pattern string
	// Shell is the first segment of the token.
	Shell string
	// Segments are the pattern segments after the shell. Parameter slots keep
	// the form they were registered with ('*' or ':name').
	Segments []string
	// Parameters holds the captured slot values in positional order.
	Parameters []string
	// Fallback is set when the route is the error route used in place of an unmatched token.
	Fallback bool
}

// Token rebuilds the location token by filling parameter slots positionally.
func (r Route) Token() string {
	var b strings.Builder
	b.WriteString(Separator)
	b.WriteString(r.Shell)

	next := 0
	for _, seg := range r.Segments {
		b.WriteString(Separator)
		if isSlot(seg) {
			if next < len(r.Parameters) {
				b.WriteString(r.Parameters[next])
			}
			next++
			continue
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Equal reports whether two routes describe the same pattern with the same parameters.
func (r Route) Equal(o Route) bool {
	return r.Pattern == o.Pattern &&
		r.Shell == o.Shell &&
		r.Fallback == o.Fallback &&
		slices.Equal(r.Segments, o.Segments) &&
		slices.Equal(r.Parameters, o.Parameters)
}

// IsZero reports whether the route is empty.
func (r Route) IsZero() bool {
	return r.Pattern == "" && r.Shell == "" && len(r.Segments) == 0 && len(r.Parameters) == 0
}

// String implements fmt.Stringer.
func (r Route) String() string {
	return r.Token()
}

// Build creates a route for a pattern with the given parameters.
// It returns ErrParameterCount when the number of parameters differs from the pattern slots.
func Build(p Pattern, params ...string) (Route, error) {
	if len(params) != p.Arity() {
		return Route{}, fmt.Errorf("%w: pattern %q expects %d, got %d", ErrParameterCount, p.raw, p.Arity(), len(params))
	}
	return Route{
		Pattern:    p.raw,
		Shell:      p.shell,
		Segments:   p.Segments(),
		Parameters: slices.Clone(params),
	}, nil
}

// Shell returns the shell id of a location token: its first non-empty segment.
func Shell(token string) string {
	for _, seg := range split(token) {
		if seg != "" {
			return seg
		}
	}
	return ""
}

// split normalises a token and returns its segments.
// Leading '#' and '/' are dropped, as well as a single trailing '/'.
func split(token string) []string {
	token = strings.TrimLeft(strings.TrimSpace(token), "#")
	token = strings.TrimLeft(token, Separator)
	token = strings.TrimSuffix(token, Separator)
	if token == "" {
		return nil
	}
	return strings.Split(token, Separator)
}
