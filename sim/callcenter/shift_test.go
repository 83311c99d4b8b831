package callcenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftCoordinator_Decide_CountsAllowancePerOperator(t *testing.T) {
	sc := NewShiftCoordinator(480, 0)

	shift, ok := sc.Decide(Operator1)
	require.True(t, ok)
	sc.Decide(Operator1)
	sc.Decide(Operator2)

	assert.Equal(t, 0, shift)
	assert.Equal(t, 2, sc.Allowance(Operator1))
	assert.Equal(t, 1, sc.Allowance(Operator2))
}

func TestShiftCoordinator_Cap_SkipsDecisionsBeyondLimit(t *testing.T) {
	// GIVEN at most two break decisions per shift
	sc := NewShiftCoordinator(480, 2)

	// WHEN operator 1 decides three times
	_, ok1 := sc.Decide(Operator1)
	_, ok2 := sc.Decide(Operator1)
	_, ok3 := sc.Decide(Operator1)

	// THEN the third is refused, and operator 2 is unaffected
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.False(t, ok3)
	assert.Equal(t, 2, sc.Decided(Operator1))
	_, ok := sc.Decide(Operator2)
	assert.True(t, ok)

	// THEN a new window lifts the cap
	sc.Rollover(480)
	_, ok = sc.Decide(Operator1)
	assert.True(t, ok)
}

func TestShiftCoordinator_Rollover_ResetsAndReturnsPending(t *testing.T) {
	// GIVEN two breaks decided in window 0, one of which started resting
	sc := NewShiftCoordinator(480, 0)
	s1, _ := sc.Decide(Operator1)
	s2, _ := sc.Decide(Operator2)
	waiting := &BreakProcess{ID: 1, Operator: Operator1, Shift: s1, State: BreakRequesting}
	resting := &BreakProcess{ID: 2, Operator: Operator2, Shift: s2, State: BreakOnBreak}
	sc.Track(waiting)
	sc.Track(resting)
	sc.Untrack(resting)

	// WHEN the window rolls over
	stale := sc.Rollover(480)

	// THEN only the waiting break is returned and allowances are reset
	assert.Equal(t, []*BreakProcess{waiting}, stale)
	assert.Equal(t, 1, sc.Epoch())
	assert.Equal(t, 480.0, sc.WindowStart())
	assert.Equal(t, 0, sc.Allowance(Operator1))
	assert.Equal(t, 0, sc.Allowance(Operator2))
	assert.Equal(t, 0, sc.Pending())
}

func TestShiftCoordinator_Consume_IgnoresEarlierWindows(t *testing.T) {
	sc := NewShiftCoordinator(480, 0)
	old, _ := sc.Decide(Operator1)
	sc.Rollover(480)
	current, _ := sc.Decide(Operator1)

	sc.Consume(&BreakProcess{Operator: Operator1, Shift: old})
	assert.Equal(t, 1, sc.Allowance(Operator1), "a break from an earlier window must not touch the allowance")

	sc.Consume(&BreakProcess{Operator: Operator1, Shift: current})
	assert.Equal(t, 0, sc.Allowance(Operator1))
}

func TestShiftCoordinator_TrackStaleBreak_Panics(t *testing.T) {
	sc := NewShiftCoordinator(480, 0)
	sc.Rollover(480)

	assert.Panics(t, func() { sc.Track(&BreakProcess{Shift: 0}) })
}

func TestRun_BreakCap_SkipsDecisions(t *testing.T) {
	// GIVEN frequent break decisions capped at one per shift
	cfg := DefaultConfig()
	cfg.TotalCalls = 200
	cfg.BreakMeanInterval = 5
	cfg.MaxBreaksPerShift = 1

	// WHEN the run completes
	res, err := Run(cfg, newPartitionedSource(11))
	require.NoError(t, err)

	// THEN most decisions were skipped and each shift took at most one break per operator
	assert.Positive(t, res.BreaksSkipped)
	shifts := int(res.EndTime/cfg.ShiftDuration) + 1
	for i := range res.BreaksTaken {
		assert.LessOrEqual(t, res.BreaksTaken[i], shifts)
	}
}
