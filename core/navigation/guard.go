package navigation

import (
	"context"
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/dmitrymomot/navigator/core/route"
)

// ErrInvalidGuard is returned when a guard expression does not compile.
var ErrInvalidGuard = errors.New("invalid guard expression")

// Guard is a Filter driven by an expr-lang boolean expression.
//
// The expression sees the route as:
//
//	token     string    the location token
//	shell     string    the shell id
//	pattern   string    the matched pattern
//	segments  []string  the pattern segments after the shell
//	params    []string  the positional parameters
//	fallback  bool      the route is the error route used as fallback
//
// A guard restricted to a pattern passes every other route. When the expression is false the
// navigation is redirected to Redirect, or vetoed when Redirect is empty.
type Guard struct {
	Pattern    string
	Expression string
	Redirect   string

	program *vm.Program
}

// NewGuard compiles expression.
func NewGuard(pattern, expression, redirect string) (*Guard, error) {
	program, err := expr.Compile(expression, expr.Env(guardEnv(route.Route{})), expr.AsBool())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %q", ErrInvalidGuard, expression), err)
	}
	return &Guard{
		Pattern:    pattern,
		Expression: expression,
		Redirect:   redirect,
		program:    program,
	}, nil
}

// Filter implements Filter.
func (g *Guard) Filter(_ context.Context, r route.Route) error {
	if g.Pattern != "" && g.Pattern != r.Pattern {
		return nil
	}
	out, err := expr.Run(g.program, guardEnv(r))
	if err != nil {
		return fmt.Errorf("guard %q: %w", g.Expression, err)
	}
	if ok, _ := out.(bool); ok {
		return nil
	}
	if g.Redirect != "" {
		return route.Redirect(g.Redirect)
	}
	return route.Veto("guard rejected: " + g.Expression)
}

func guardEnv(r route.Route) map[string]any {
	segments := r.Segments
	if segments == nil {
		segments = []string{}
	}
	params := r.Parameters
	if params == nil {
		params = []string{}
	}
	return map[string]any{
		"token":    r.Token(),
		"shell":    r.Shell,
		"pattern":  r.Pattern,
		"segments": segments,
		"params":   params,
		"fallback": r.Fallback,
	}
}
