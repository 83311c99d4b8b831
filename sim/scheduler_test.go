package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_DispatchesInTimeOrder(t *testing.T) {
	// GIVEN timers scheduled out of order
	s := NewScheduler()
	var order []string
	var times []float64
	record := func(name string) func() {
		return func() {
			order = append(order, name)
			times = append(times, s.Now())
		}
	}
	s.After(5, record("a"))
	s.After(1, record("b"))
	s.After(3, record("c"))

	// WHEN the scheduler runs
	require.NoError(t, s.Run())

	// THEN they fire by ascending time and the clock follows them
	assert.Equal(t, []string{"b", "c", "a"}, order)
	assert.Equal(t, []float64{1, 3, 5}, times)
	assert.Equal(t, 5.0, s.Now())
	assert.Equal(t, uint64(3), s.Dispatched())
}

func TestScheduler_EqualTimesFireInInsertionOrder(t *testing.T) {
	s := NewScheduler()
	var order []int
	for i := 1; i <= 5; i++ {
		i := i
		s.After(2, func() { order = append(order, i) })
	}

	require.NoError(t, s.Run())

	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
}

func TestScheduler_ZeroDelayFromContinuation_RunsAfterQueuedPeers(t *testing.T) {
	// GIVEN two timers at t=1, the first of which schedules a zero-delay follow-up
	s := NewScheduler()
	var order []string
	s.After(1, func() {
		order = append(order, "first")
		s.After(0, func() { order = append(order, "follow-up") })
	})
	s.After(1, func() { order = append(order, "second") })

	require.NoError(t, s.Run())

	// THEN the follow-up runs after the timer that was already queued for t=1
	assert.Equal(t, []string{"first", "second", "follow-up"}, order)
}

func TestScheduler_NegativeDelay_Panics(t *testing.T) {
	s := NewScheduler()
	assert.Panics(t, func() { s.After(-0.5, func() {}) })
}

func TestScheduler_CancelledTimer_DoesNotFire(t *testing.T) {
	s := NewScheduler()
	fired := false
	timer := s.After(3, func() { fired = true })
	s.After(1, func() { timer.Cancel() })

	require.NoError(t, s.Run())

	assert.False(t, fired)
	assert.True(t, timer.Cancelled())
	assert.Equal(t, 1.0, s.Now(), "a cancelled timer must not advance the clock")
}

func TestScheduler_Halt_DiscardsPendingTimers(t *testing.T) {
	// GIVEN a timer that halts the run before later timers
	s := NewScheduler()
	late := false
	sameInstant := false
	s.After(1, func() { s.Halt() })
	s.After(1, func() { sameInstant = true })
	s.After(2, func() { late = true })

	// WHEN the scheduler runs
	require.NoError(t, s.Run())

	// THEN nothing fires after the halting continuation returns
	assert.True(t, s.Halted())
	assert.False(t, sameInstant)
	assert.False(t, late)
	assert.Equal(t, 1.0, s.Now())
	assert.Equal(t, 0, s.Pending())
}

func TestScheduler_Hooks_FireAroundEveryDispatch(t *testing.T) {
	s := NewScheduler()
	var positions []string
	s.AcceptHook(HookFunc(func(ctx HookCtx) {
		positions = append(positions, ctx.Pos.Name)
	}))
	s.After(1, func() { positions = append(positions, "event") })

	require.NoError(t, s.Run())

	assert.Equal(t, []string{"BeforeEvent", "event", "AfterEvent"}, positions)
	assert.Equal(t, 1, s.NumHooks())
}

func TestScheduler_RunTwice_Panics(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Run())
	assert.Panics(t, func() { _ = s.Run() })
}

func TestScheduler_EmptyQueue_ReturnsAtTimeZero(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Run())
	assert.Equal(t, 0.0, s.Now())
	assert.Equal(t, uint64(0), s.Dispatched())
}
