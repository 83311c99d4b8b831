package callcenter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/callcenter-sim/sim"
)

// ShiftCoordinator tracks the current shift window and each operator's
// break allowance in it. The allowance counts break decisions of the window
// that have not been taken yet.
type ShiftCoordinator struct {
	duration    float64
	maxPerShift int // 0 = unlimited

	epoch int
	start float64

	allowance [NumOperators]int
	decided   [NumOperators]int

	// breaks of the current window that have not started resting
	pending []*BreakProcess
}

// NewShiftCoordinator starts window 0 at time zero.
func NewShiftCoordinator(duration float64, maxPerShift int) *ShiftCoordinator {
	return &ShiftCoordinator{
		duration:    duration,
		maxPerShift: maxPerShift,
		pending:     make([]*BreakProcess, 0),
	}
}

// Epoch returns the index of the current shift window.
func (sc *ShiftCoordinator) Epoch() int { return sc.epoch }

// WindowStart returns the virtual time the current window began.
func (sc *ShiftCoordinator) WindowStart() float64 { return sc.start }

// Duration returns the length of a shift window.
func (sc *ShiftCoordinator) Duration() float64 { return sc.duration }

// Allowance returns op's outstanding break decisions in the current window.
func (sc *ShiftCoordinator) Allowance(op OperatorID) int { return sc.allowance[op.index()] }

// Decided returns how many breaks op decided on in the current window.
func (sc *ShiftCoordinator) Decided(op OperatorID) int { return sc.decided[op.index()] }

// Pending returns the number of breaks of the current window still waiting
// for their operator.
func (sc *ShiftCoordinator) Pending() int { return len(sc.pending) }

// Decide registers a break decision for op and returns the window it
// belongs to. It reports false when the per-shift cap is already reached.
func (sc *ShiftCoordinator) Decide(op OperatorID) (int, bool) {
	i := op.index()
	if sc.maxPerShift > 0 && sc.decided[i] >= sc.maxPerShift {
		return sc.epoch, false
	}
	sc.decided[i]++
	sc.allowance[i]++
	return sc.epoch, true
}

// Track registers a break as pending in the current window.
func (sc *ShiftCoordinator) Track(b *BreakProcess) {
	if b.Shift != sc.epoch {
		panic(fmt.Sprintf("Track: %s does not belong to shift %d", b, sc.epoch))
	}
	sc.pending = append(sc.pending, b)
}

// Untrack removes a break from the pending list.
func (sc *ShiftCoordinator) Untrack(b *BreakProcess) {
	for i, p := range sc.pending {
		if p == b {
			sc.pending = append(sc.pending[:i], sc.pending[i+1:]...)
			return
		}
	}
}

// Consume takes a finished break off its operator's allowance. Breaks that
// belong to an earlier window do not touch the current allowance.
func (sc *ShiftCoordinator) Consume(b *BreakProcess) {
	if b.Shift != sc.epoch {
		return
	}
	if i := b.Operator.index(); sc.allowance[i] > 0 {
		sc.allowance[i]--
	}
}

// Rollover starts a new window at now, resets every allowance and returns
// the breaks of the previous window that never started resting.
func (sc *ShiftCoordinator) Rollover(now float64) []*BreakProcess {
	stale := sc.pending
	sc.pending = make([]*BreakProcess, 0)
	sc.epoch++
	sc.start = now
	sc.allowance = [NumOperators]int{}
	sc.decided = [NumOperators]int{}
	logrus.Debugf("[t=%.4f] shift %d starts, %d stale breaks", now, sc.epoch, len(stale))
	return stale
}

// shiftProcess rolls the shift window every ShiftDuration and discards the
// breaks decided under the window that just ended.
func (cc *Center) shiftProcess(t *sim.Task) error {
	for {
		if err := t.Timeout(cc.shift.Duration()); err != nil {
			return err
		}
		for _, b := range cc.shift.Rollover(t.Now()) {
			cc.invalidateBreak(b)
		}
	}
}
