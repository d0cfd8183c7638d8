package route

import (
	"errors"
	"fmt"
)

// Interception is the signal a filter or controller raises to stop the current navigation.
// A non-empty Redirect diverts the navigation to that token; an empty one vetoes it.
type Interception struct {
	Redirect string
	Reason   string
}

// Error implements the error interface.
func (i *Interception) Error() string {
	if i.Redirect != "" {
		return fmt.Sprintf("routing intercepted: redirect to %q", i.Redirect)
	}
	if i.Reason != "" {
		return "routing intercepted: " + i.Reason
	}
	return "routing intercepted"
}

// IsRedirect reports whether the interception carries a redirect target.
func (i *Interception) IsRedirect() bool {
	return i.Redirect != ""
}

// Redirect returns an interception that diverts navigation to token.
func Redirect(token string) error {
	return &Interception{Redirect: token}
}

// Veto returns an interception that cancels navigation.
func Veto(reason string) error {
	return &Interception{Reason: reason}
}

// AsInterception extracts an Interception from err.
func AsInterception(err error) (*Interception, bool) {
	var i *Interception
	if errors.As(err, &i) {
		return i, true
	}
	return nil, false
}
