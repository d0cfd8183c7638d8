package route

import (
	"errors"
	"fmt"
	"slices"
)

// Matcher maps location tokens to registered patterns.
// Patterns are tried in registration order; the first match wins.
// A Matcher is not safe for concurrent registration.
type Matcher struct {
	patterns   []Pattern
	index      map[string]int
	errorRoute string
	colon      bool
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithColonParams enables ':name' parameter slots in patterns.
func WithColonParams(enabled bool) MatcherOption {
	return func(m *Matcher) {
		m.colon = enabled
	}
}

// WithErrorRoute sets the token used when nothing matches.
func WithErrorRoute(token string) MatcherOption {
	return func(m *Matcher) {
		m.errorRoute = token
	}
}

// NewMatcher creates an empty matcher.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{index: make(map[string]int)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register parses and adds a pattern.
func (m *Matcher) Register(raw string) (Pattern, error) {
	if _, ok := m.index[raw]; ok {
		return Pattern{}, fmt.Errorf("%w: %q", ErrDuplicatePattern, raw)
	}
	p, err := ParsePattern(raw, m.colon)
	if err != nil {
		return Pattern{}, err
	}
	m.index[raw] = len(m.patterns)
	m.patterns = append(m.patterns, p)
	return p, nil
}

// Pattern returns a registered pattern by its raw form.
func (m *Matcher) Pattern(raw string) (Pattern, bool) {
	i, ok := m.index[raw]
	if !ok {
		return Pattern{}, false
	}
	return m.patterns[i], true
}

// Patterns returns the registered patterns in registration order.
func (m *Matcher) Patterns() []Pattern {
	return slices.Clone(m.patterns)
}

// ErrorRoute returns the configured error route token.
func (m *Matcher) ErrorRoute() string {
	return m.errorRoute
}

// Match resolves a token against the registered patterns.
func (m *Matcher) Match(token string) (Route, error) {
	parts := split(token)
	if len(parts) > 0 {
		for _, p := range m.patterns {
			params, ok := p.match(parts)
			if !ok {
				continue
			}
			return Route{
				Pattern:    p.raw,
				Shell:      p.shell,
				Segments:   p.Segments(),
				Parameters: params,
			}, nil
		}
	}
	return Route{}, fmt.Errorf("%w: %q", ErrNoMatchingRoute, token)
}

// Resolve matches a token and falls back to the error route when nothing matches.
// The returned route has Fallback set in that case. When the error route cannot be
// matched either, ErrErrorRouteUnresolvable is returned joined with the original miss.
func (m *Matcher) Resolve(token string) (Route, error) {
	r, err := m.Match(token)
	if err == nil {
		return r, nil
	}

	fallback, ferr := m.resolveErrorRoute()
	if ferr != nil {
		return Route{}, errors.Join(ferr, err)
	}
	return fallback, nil
}

// Validate reports ErrErrorRouteUnresolvable when the error route is unset or unmatched.
func (m *Matcher) Validate() error {
	_, err := m.resolveErrorRoute()
	return err
}

func (m *Matcher) resolveErrorRoute() (Route, error) {
	if m.errorRoute == "" {
		return Route{}, fmt.Errorf("%w: no error route configured", ErrErrorRouteUnresolvable)
	}
	r, err := m.Match(m.errorRoute)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %q", ErrErrorRouteUnresolvable, m.errorRoute)
	}
	r.Fallback = true
	return r, nil
}
