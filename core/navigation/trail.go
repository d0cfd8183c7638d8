package navigation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/navigator/core/route"
)

// Trail records the routes visited by one navigation attempt.
type Trail struct {
	tokens []string
}

// NewTrail creates an empty trail.
func NewTrail() *Trail {
	return &Trail{}
}

// Enter records r and returns ErrLoopDetected if it was already visited.
func (t *Trail) Enter(r route.Route) error {
	token := r.Token()
	if slices.Contains(t.tokens, token) {
		return fmt.Errorf("%w: %s -> %s", ErrLoopDetected, t.String(), token)
	}
	t.tokens = append(t.tokens, token)
	return nil
}

// Len returns the number of visited routes.
func (t *Trail) Len() int { return len(t.tokens) }

// Tokens returns the visited tokens in order.
func (t *Trail) Tokens() []string { return slices.Clone(t.tokens) }

func (t *Trail) String() string { return strings.Join(t.tokens, " -> ") }
