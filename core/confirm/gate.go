package confirm

import (
	"context"
	"fmt"
	"sync"
)

// Outcome is the resolution of a gate.
type Outcome int

const (
	// Pending means the gate has not resolved yet.
	Pending Outcome = iota
	// Confirmed means every party continued.
	Confirmed
	// Aborted means at least one party aborted.
	Aborted
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Aborted:
		return "aborted"
	default:
		return "pending"
	}
}

// Handle is given to a party to answer the confirmation request.
type Handle interface {
	// ContinueRouting allows the navigation to proceed.
	ContinueRouting()
	// AbortRouting cancels the navigation.
	AbortRouting()
}

// Party is asked whether the navigation may leave it.
type Party interface {
	MayStop(h Handle)
}

// PartyFunc adapts a function to Party.
type PartyFunc func(h Handle)

// MayStop implements Party.
func (f PartyFunc) MayStop(h Handle) { f(h) }

// Gate tracks the answers of N parties. It is the routing confirmation handler:
// confirmed starts true, outstanding starts at N.
type Gate struct {
	mu          sync.Mutex
	confirmed   bool
	outstanding int
	outcome     Outcome
	done        chan struct{}
}

// NewGate creates a gate expecting n answers. A gate with n <= 0 is resolved as confirmed.
func NewGate(n int) *Gate {
	g := &Gate{
		confirmed:   true,
		outstanding: max(n, 0),
		done:        make(chan struct{}),
	}
	if g.outstanding == 0 {
		g.resolve(Confirmed)
	}
	return g
}

// Handle returns a new single-use handle for one party.
func (g *Gate) Handle() Handle {
	return &handle{gate: g}
}

// Done is closed when the gate resolves.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// Outcome returns the current outcome.
func (g *Gate) Outcome() Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outcome
}

// Confirmed reports whether no party has aborted.
func (g *Gate) Confirmed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.confirmed
}

// Outstanding returns the number of parties that have not answered.
func (g *Gate) Outstanding() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outstanding
}

// Wait blocks until the gate resolves or ctx is done.
// A cancelled context aborts the gate and returns the context error.
func (g *Gate) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-g.done:
		return g.Outcome(), nil
	case <-ctx.Done():
		g.abort()
		return g.Outcome(), ctx.Err()
	}
}

func (g *Gate) continueRouting() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.outcome != Pending {
		return
	}
	g.outstanding--
	if g.outstanding <= 0 && g.confirmed {
		g.resolveLocked(Confirmed)
	}
}

func (g *Gate) abort() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.outcome != Pending {
		return
	}
	g.confirmed = false
	g.resolveLocked(Aborted)
}

func (g *Gate) resolve(o Outcome) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resolveLocked(o)
}

func (g *Gate) resolveLocked(o Outcome) {
	if g.outcome != Pending {
		return
	}
	g.outcome = o
	close(g.done)
}

// handle makes sure one party is counted once.
type handle struct {
	gate *Gate
	once sync.Once
}

func (h *handle) ContinueRouting() {
	h.once.Do(h.gate.continueRouting)
}

func (h *handle) AbortRouting() {
	h.once.Do(h.gate.abort)
}

// Run asks every party in order and waits for the gate to resolve.
// All parties are asked even if an earlier one aborted; their answers are ignored.
// It returns ErrAborted when the navigation must not proceed.
func Run(ctx context.Context, parties []Party) (Outcome, error) {
	g := NewGate(len(parties))

	var panicked error
	for _, p := range parties {
		if err := ask(p, g.Handle()); err != nil && panicked == nil {
			panicked = err
		}
	}

	outcome, err := g.Wait(ctx)
	if err != nil {
		return outcome, fmt.Errorf("%w: %w", ErrAborted, err)
	}
	if outcome == Aborted {
		if panicked != nil {
			return outcome, fmt.Errorf("%w: %w", ErrAborted, panicked)
		}
		return outcome, ErrAborted
	}
	return outcome, nil
}

func ask(p Party, h Handle) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.AbortRouting()
			err = fmt.Errorf("%w: %v", ErrPartyPanicked, r)
		}
	}()
	p.MayStop(h)
	return nil
}
