package navigation

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrymomot/navigator/core/route"
)

// Filter inspects a resolved route before any controller is touched.
// Return nil to pass, route.Redirect to divert the navigation, route.Veto or any other
// error to abort it. Filters must not mutate shared state.
type Filter interface {
	Filter(ctx context.Context, r route.Route) error
}

// FilterFunc adapts a function to a Filter.
type FilterFunc func(ctx context.Context, r route.Route) error

// Filter implements Filter.
func (f FilterFunc) Filter(ctx context.Context, r route.Route) error { return f(ctx, r) }

// Chain runs filters in order and stops at the first one that does not pass.
type Chain []Filter

// Run returns nil when every filter passes. An interception is returned as is so callers
// can tell a redirect from a veto; any other failure, panics included, is wrapped in
// ErrFilterFailed.
func (c Chain) Run(ctx context.Context, r route.Route) error {
	for i, f := range c {
		if err := runFilter(ctx, f, r); err != nil {
			if _, ok := route.AsInterception(err); ok {
				return err
			}
			return fmt.Errorf("%w: filter %d: %w", ErrFilterFailed, i, err)
		}
	}
	return nil
}

func runFilter(ctx context.Context, f Filter, r route.Route) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	if f == nil {
		return errors.New("nil filter")
	}
	return f.Filter(ctx, r)
}
