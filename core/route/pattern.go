package route

import (
	"fmt"
	"strings"
)

// Pattern is a parsed route pattern.
type Pattern struct {
	raw      string
	shell    string
	segments []segment
	arity    int
}

type segment struct {
	value string
	slot  bool
}

// ParsePattern parses a route pattern. With colon enabled, ':name' segments are parameter
// slots; without it they fail with ErrColonParameter, since Route.Token treats every ':name'
// segment as a slot.
func ParsePattern(raw string, colon bool) (Pattern, error) {
	if !strings.HasPrefix(raw, Separator) {
		return Pattern{}, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
	}

	parts := split(raw)
	if len(parts) == 0 || parts[0] == "" || isSlot(parts[0]) {
		return Pattern{}, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
	}

	p := Pattern{raw: raw, shell: parts[0]}
	for _, part := range parts[1:] {
		switch {
		case part == "":
			return Pattern{}, fmt.Errorf("%w: empty segment in %q", ErrInvalidPattern, raw)
		case part == Wildcard:
			p.segments = append(p.segments, segment{value: part, slot: true})
			p.arity++
		case strings.HasPrefix(part, ":"):
			if !colon {
				return Pattern{}, fmt.Errorf("%w: %q in %q", ErrColonParameter, part, raw)
			}
			if len(part) == 1 {
				return Pattern{}, fmt.Errorf("%w: unnamed colon parameter in %q", ErrInvalidPattern, raw)
			}
			p.segments = append(p.segments, segment{value: part, slot: true})
			p.arity++
		default:
			p.segments = append(p.segments, segment{value: part})
		}
	}
	return p, nil
}

// String returns the pattern as registered.
func (p Pattern) String() string { return p.raw }

// Shell returns the shell id of the pattern.
func (p Pattern) Shell() string { return p.shell }

// Arity returns the number of parameter slots.
func (p Pattern) Arity() int { return p.arity }

// Segments returns the pattern segments after the shell.
func (p Pattern) Segments() []string {
	out := make([]string, len(p.segments))
	for i, s := range p.segments {
		out[i] = s.value
	}
	return out
}

// ParamNames returns the names of the parameter slots in order.
// Wildcard slots have an empty name.
func (p Pattern) ParamNames() []string {
	names := make([]string, 0, p.arity)
	for _, s := range p.segments {
		if s.slot {
			names = append(names, strings.TrimPrefix(strings.TrimPrefix(s.value, ":"), Wildcard))
		}
	}
	return names
}

// match reports whether the token segments (shell included) match the pattern and
// returns the captured parameters.
func (p Pattern) match(parts []string) ([]string, bool) {
	if len(parts) != len(p.segments)+1 || parts[0] != p.shell {
		return nil, false
	}

	params := make([]string, 0, p.arity)
	for i, s := range p.segments {
		v := parts[i+1]
		if s.slot {
			params = append(params, v)
			continue
		}
		if v != s.value {
			return nil, false
		}
	}
	return params, true
}

func isSlot(seg string) bool {
	return seg == Wildcard || (len(seg) > 1 && seg[0] == ':')
}
