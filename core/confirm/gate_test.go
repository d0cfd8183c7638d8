package confirm_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/navigator/core/confirm"
)

func continuing() confirm.Party {
	return confirm.PartyFunc(func(h confirm.Handle) { h.ContinueRouting() })
}

func aborting() confirm.Party {
	return confirm.PartyFunc(func(h confirm.Handle) { h.AbortRouting() })
}

func TestGate_NoParties(t *testing.T) {
	t.Parallel()

	g := confirm.NewGate(0)
	select {
	case <-g.Done():
	default:
		t.Fatal("gate with no parties must resolve immediately")
	}
	assert.Equal(t, confirm.Confirmed, g.Outcome())

	outcome, err := confirm.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, confirm.Confirmed, outcome)
}

func TestGate_AllContinue(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 5} {
		g := confirm.NewGate(n)
		handles := make([]confirm.Handle, n)
		for i := range handles {
			handles[i] = g.Handle()
		}

		for i, h := range handles {
			assert.Equal(t, confirm.Pending, g.Outcome(), "resolved after %d of %d", i, n)
			h.ContinueRouting()
		}
		assert.Equal(t, confirm.Confirmed, g.Outcome())
		assert.Equal(t, 0, g.Outstanding())
		assert.True(t, g.Confirmed())
	}
}

func TestGate_DuplicateContinueCountsOnce(t *testing.T) {
	t.Parallel()

	g := confirm.NewGate(2)
	h := g.Handle()
	h.ContinueRouting()
	h.ContinueRouting()

	assert.Equal(t, confirm.Pending, g.Outcome())
	assert.Equal(t, 1, g.Outstanding())
}

func TestGate_AbortResolvesImmediately(t *testing.T) {
	t.Parallel()

	g := confirm.NewGate(3)
	first, second, third := g.Handle(), g.Handle(), g.Handle()

	second.AbortRouting()
	assert.Equal(t, confirm.Aborted, g.Outcome())
	assert.False(t, g.Confirmed())

	// late answers are ignored
	first.ContinueRouting()
	third.ContinueRouting()
	third.AbortRouting()
	assert.Equal(t, confirm.Aborted, g.Outcome())
	assert.Equal(t, 3, g.Outstanding())
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("vetoed by one party", func(t *testing.T) {
		t.Parallel()

		asked := 0
		counting := func(p confirm.Party) confirm.Party {
			return confirm.PartyFunc(func(h confirm.Handle) {
				asked++
				p.MayStop(h)
			})
		}

		outcome, err := confirm.Run(context.Background(), []confirm.Party{
			counting(continuing()), counting(aborting()), counting(continuing()),
		})
		require.ErrorIs(t, err, confirm.ErrAborted)
		assert.Equal(t, confirm.Aborted, outcome)
		assert.Equal(t, 3, asked, "every party is asked")
	})

	t.Run("asynchronous answers", func(t *testing.T) {
		t.Parallel()

		var wg sync.WaitGroup
		later := confirm.PartyFunc(func(h confirm.Handle) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				time.Sleep(10 * time.Millisecond)
				h.ContinueRouting()
			}()
		})

		outcome, err := confirm.Run(context.Background(), []confirm.Party{later, continuing(), later})
		require.NoError(t, err)
		assert.Equal(t, confirm.Confirmed, outcome)
		wg.Wait()
	})

	t.Run("late abort after asynchronous veto is ignored", func(t *testing.T) {
		t.Parallel()

		var held confirm.Handle
		holder := confirm.PartyFunc(func(h confirm.Handle) { held = h })

		outcome, err := confirm.Run(context.Background(), []confirm.Party{holder, aborting()})
		require.ErrorIs(t, err, confirm.ErrAborted)
		assert.Equal(t, confirm.Aborted, outcome)

		require.NotNil(t, held)
		assert.NotPanics(t, held.ContinueRouting)
	})

	t.Run("context cancellation aborts", func(t *testing.T) {
		t.Parallel()

		silent := confirm.PartyFunc(func(confirm.Handle) {})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		outcome, err := confirm.Run(ctx, []confirm.Party{silent})
		require.ErrorIs(t, err, confirm.ErrAborted)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, confirm.Aborted, outcome)
	})

	t.Run("panicking party aborts", func(t *testing.T) {
		t.Parallel()

		boom := confirm.PartyFunc(func(confirm.Handle) { panic("boom") })
		outcome, err := confirm.Run(context.Background(), []confirm.Party{continuing(), boom})
		require.ErrorIs(t, err, confirm.ErrAborted)
		assert.ErrorIs(t, err, confirm.ErrPartyPanicked)
		assert.Equal(t, confirm.Aborted, outcome)
	})
}
