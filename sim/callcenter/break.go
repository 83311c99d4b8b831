package callcenter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/callcenter-sim/sim"
	"github.com/inference-sim/callcenter-sim/sim/trace"
)

// BreakState represents the lifecycle state of an operator break.
type BreakState string

const (
	BreakRequesting  BreakState = "requesting"
	BreakDeferred    BreakState = "deferred"
	BreakOnBreak     BreakState = "on_break"
	BreakDone        BreakState = "done"
	BreakInvalidated BreakState = "invalidated"
)

// BreakProcess is one break an operator decided to take.
type BreakProcess struct {
	ID          int
	Operator    OperatorID
	Shift       int // shift window the decision belongs to
	DecidedTime float64
	State       BreakState
	Deferrals   int
	StartTime   float64
	EndTime     float64

	task *sim.Task
}

// Consumed reports whether the break was taken or invalidated.
func (b *BreakProcess) Consumed() bool {
	return b.State == BreakDone || b.State == BreakInvalidated
}

// waiting reports whether the break has not been granted its rest yet.
func (b *BreakProcess) waiting() bool {
	return b.State == BreakRequesting || b.State == BreakDeferred
}

func (b *BreakProcess) String() string {
	return fmt.Sprintf("Break: (ID: %d, Operator: %d, Shift: %d, State: %s)", b.ID, b.Operator, b.Shift, b.State)
}

func (b *BreakProcess) record() trace.BreakRecord {
	return trace.BreakRecord{
		BreakID:   b.ID,
		Operator:  int(b.Operator),
		Shift:     b.Shift,
		Decided:   b.DecidedTime,
		Start:     b.StartTime,
		End:       b.EndTime,
		Outcome:   string(b.State),
		Deferrals: b.Deferrals,
	}
}

// DecideBreak records a break decision for op in the current shift window
// and starts its process. It returns nil when the window's cap is reached.
func (cc *Center) DecideBreak(op OperatorID) *BreakProcess {
	shift, ok := cc.shift.Decide(op)
	if !ok {
		cc.stats.BreaksSkipped++
		logrus.Debugf("[t=%.4f] %s break skipped, shift %d cap reached", cc.sched.Now(), op, shift)
		return nil
	}
	cc.nextBreakID++
	b := &BreakProcess{
		ID:          cc.nextBreakID,
		Operator:    op,
		Shift:       shift,
		DecidedTime: cc.sched.Now(),
		State:       BreakRequesting,
	}
	b.task = cc.sched.Spawn(fmt.Sprintf("break_%d", b.ID), cc.breakProcess(b))
	cc.breakTasks[b.task] = true
	cc.shift.Track(b)
	cc.breaks = append(cc.breaks, b)
	logrus.Debugf("[t=%.4f] %s decided break %d", b.DecidedTime, op, b.ID)
	return b
}

// isCall reports whether t is a call process rather than a break.
func (cc *Center) isCall(t *sim.Task) bool {
	return !cc.breakTasks[t]
}

// callsOnHold counts the calls waiting for op. Other breaks in the wait
// list do not count, so two breaks never defer to each other.
func (cc *Center) callsOnHold(op OperatorID) int {
	return cc.Operator(op).CountWaiting(cc.isCall)
}

// breakProcess waits for the operator and rests only once nobody is on
// hold. While callers wait, it gives the operator back and rejoins the tail
// of the wait list.
func (cc *Center) breakProcess(b *BreakProcess) func(*sim.Task) error {
	return func(t *sim.Task) error {
		res := cc.Operator(b.Operator)
		for {
			b.State = BreakRequesting
			g, err := t.Request(res)
			if err != nil {
				return err
			}
			if b.State == BreakInvalidated || b.Shift != cc.shift.Epoch() {
				g.Release()
				cc.invalidateBreak(b)
				return nil
			}
			if onHold := cc.callsOnHold(b.Operator); onHold > 0 {
				b.State = BreakDeferred
				b.Deferrals++
				cc.stats.BreaksDeferred++
				logrus.Debugf("[t=%.4f] break %d deferred, %d calls waiting for %s", t.Now(), b.ID, onHold, b.Operator)
				g.Release()
				continue
			}
			return cc.rest(t, b, g)
		}
	}
}

// rest holds the operator for the break duration.
func (cc *Center) rest(t *sim.Task, b *BreakProcess, g *sim.Grant) error {
	defer g.Release()
	b.State = BreakOnBreak
	b.StartTime = t.Now()
	cc.shift.Untrack(b)
	if err := t.Timeout(cc.cfg.BreakDuration); err != nil {
		return err
	}
	b.EndTime = t.Now()
	b.State = BreakDone
	cc.shift.Consume(b)
	cc.resolveBreak(b)
	return nil
}

// invalidateBreak discards a break that has not started resting. It is a
// no-op for breaks that are already resting or resolved.
func (cc *Center) invalidateBreak(b *BreakProcess) {
	if !b.waiting() {
		return
	}
	b.State = BreakInvalidated
	cc.shift.Untrack(b)
	cc.resolveBreak(b)
	b.task.Interrupt()
}

func (cc *Center) resolveBreak(b *BreakProcess) {
	cc.stats.recordBreak(b)
	if cc.trace != nil {
		cc.trace.RecordBreak(b.record())
	}
	logrus.Debugf("[t=%.4f] break %d -> %s", cc.sched.Now(), b.ID, b.State)
}
