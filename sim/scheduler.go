// Implements the virtual-time event scheduler that drives every simulation
// process. Continuations run one at a time, ordered by (time, insertion order).

package sim

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Scheduler owns the virtual clock and the pending timers of a single run.
// It is not safe for use from more than one run; tasks spawned on it are
// resumed one at a time, so no locking is required by simulation code.
type Scheduler struct {
	*HookableBase

	now   float64
	seq   uint64
	queue timerQueue

	halted  bool
	ran     bool
	failure error

	// live tasks in spawn order; finished tasks are removed
	tasks      []*Task
	nextTaskID uint64

	dispatched uint64
}

// NewScheduler creates a scheduler with the clock at zero.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		HookableBase: NewHookableBase(),
		queue:        make(timerQueue, 0),
	}
	heap.Init(&s.queue)
	return s
}

// Now returns the current virtual time.
func (s *Scheduler) Now() float64 {
	return s.now
}

// Dispatched returns the number of continuations executed so far.
func (s *Scheduler) Dispatched() uint64 {
	return s.dispatched
}

// Pending returns the number of timers still queued, cancelled ones included.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// After schedules fn to run delay time units from now.
// A negative or NaN delay is a configuration error and panics.
func (s *Scheduler) After(delay float64, fn func()) *Timer {
	if delay < 0 || math.IsNaN(delay) {
		panic(fmt.Sprintf("After: invalid delay %v at t=%v", delay, s.now))
	}
	if fn == nil {
		panic("After: fn must not be nil")
	}
	s.seq++
	t := &Timer{time: s.now + delay, seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	return t
}

// Halt stops dispatch once the running continuation returns. Timers that are
// still pending are discarded and every live task is interrupted.
func (s *Scheduler) Halt() {
	if !s.halted {
		logrus.Debugf("[t=%.4f] scheduler halt requested", s.now)
	}
	s.halted = true
}

// Halted reports whether Halt was called.
func (s *Scheduler) Halted() bool {
	return s.halted
}

// fail records the first task failure and halts the run.
func (s *Scheduler) fail(err error) {
	if s.failure == nil {
		s.failure = err
	}
	s.Halt()
}

// Run dispatches timers until the queue drains or Halt is called, then
// unwinds every task that is still suspended. It returns the first error
// returned by a task, if any. Run may be called only once.
func (s *Scheduler) Run() error {
	if s.ran {
		panic("Run: scheduler already ran")
	}
	s.ran = true

	for !s.halted && s.queue.Len() > 0 {
		t := heap.Pop(&s.queue).(*Timer)
		if t.cancelled {
			continue
		}
		if t.time < s.now {
			panic(fmt.Sprintf("Run: clock would move backward from %v to %v", s.now, t.time))
		}
		s.now = t.time
		s.dispatched++
		logrus.Tracef("[t=%.4f] dispatch #%d", s.now, s.dispatched)

		ctx := HookCtx{Domain: s, Pos: HookPosBeforeEvent, Now: s.now, Item: t}
		s.InvokeHook(ctx)
		t.fn()
		ctx.Pos = HookPosAfterEvent
		s.InvokeHook(ctx)
	}

	s.teardown()
	logrus.Debugf("[t=%.4f] scheduler stopped after %d dispatches", s.now, s.dispatched)
	return s.failure
}

// teardown interrupts every live task in spawn order and drops what remains
// of the timer queue. Timers scheduled while unwinding are never dispatched.
func (s *Scheduler) teardown() {
	s.halted = true
	live := make([]*Task, len(s.tasks))
	copy(live, s.tasks)
	for _, t := range live {
		t.abort()
	}
	s.queue = s.queue[:0]
}

// register adds a freshly spawned task to the live list.
func (s *Scheduler) register(t *Task) {
	s.tasks = append(s.tasks, t)
}

// retire removes a finished task from the live list.
func (s *Scheduler) retire(t *Task) {
	for i, live := range s.tasks {
		if live == t {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// LiveTasks returns the number of spawned tasks that have not finished.
func (s *Scheduler) LiveTasks() int {
	return len(s.tasks)
}
