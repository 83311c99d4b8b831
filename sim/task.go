package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Task is a suspendable simulation process.
//
// Each task runs its function on its own goroutine, but control is handed
// back and forth with the scheduler over unbuffered channels so that exactly
// one of them executes at any moment. A task suspends in Timeout, Request or
// RequestWithin and is resumed by a timer continuation.
type Task struct {
	id    uint64
	name  string
	sched *Scheduler
	fn    func(*Task) error

	resume chan error
	yield  chan struct{}

	started     bool
	finished    bool
	interrupted bool

	// wait is the outstanding suspension, nil while running
	wait *wait

	err      error
	panicked any
}

// wait is one suspension of a task. cancel withdraws its side effects
// (pending timers, wait-list entries, undelivered grants).
type wait struct {
	cancel func()
}

// Spawn creates a task and schedules it to start at the current virtual time.
// Tasks spawned at the same instant start in spawn order.
func (s *Scheduler) Spawn(name string, fn func(*Task) error) *Task {
	if fn == nil {
		panic("Spawn: fn must not be nil")
	}
	s.nextTaskID++
	t := &Task{
		id:     s.nextTaskID,
		name:   name,
		sched:  s,
		fn:     fn,
		resume: make(chan error),
		yield:  make(chan struct{}),
	}
	s.register(t)
	s.After(0, t.start)
	return t
}

// ID returns the task's spawn sequence number.
func (t *Task) ID() uint64 { return t.id }

// Name returns the task name given at spawn.
func (t *Task) Name() string { return t.name }

// Now returns the current virtual time of the task's scheduler.
func (t *Task) Now() float64 { return t.sched.Now() }

// Scheduler returns the scheduler that runs the task.
func (t *Task) Scheduler() *Scheduler { return t.sched }

// Finished reports whether the task function has returned.
func (t *Task) Finished() bool { return t.finished }

// Interrupted reports whether an interruption has been delivered.
func (t *Task) Interrupted() bool { return t.interrupted }

// Err returns the value returned by the task function once finished.
func (t *Task) Err() error { return t.err }

func (t *Task) String() string {
	return fmt.Sprintf("task %d (%s)", t.id, t.name)
}

func (t *Task) start() {
	if t.interrupted || t.finished {
		t.finish()
		return
	}
	t.started = true
	go t.body()
	t.transfer(nil)
}

func (t *Task) body() {
	<-t.resume
	defer func() {
		if r := recover(); r != nil {
			t.panicked = r
		}
		t.finish()
		t.yield <- struct{}{}
	}()
	t.err = t.fn(t)
	if t.err != nil && !errors.Is(t.err, ErrInterrupted) {
		t.sched.fail(fmt.Errorf("%s: %w", t, t.err))
	}
}

func (t *Task) finish() {
	if t.finished {
		return
	}
	t.finished = true
	t.wait = nil
	t.sched.retire(t)
}

// transfer hands control to the task and blocks until it suspends or returns.
// A panic raised by the task function is re-raised here, on the caller's side.
func (t *Task) transfer(err error) {
	t.resume <- err
	<-t.yield
	if p := t.panicked; p != nil {
		t.panicked = nil
		panic(p)
	}
}

// suspend parks the task on w and returns the value it is resumed with.
func (t *Task) suspend(w *wait) error {
	t.wait = w
	t.yield <- struct{}{}
	return <-t.resume
}

// wake resumes the task if it is still suspended on w. Stale wakeups, for a
// wait that was already resumed or cancelled, are ignored.
func (t *Task) wake(w *wait, err error) {
	if t.finished || t.wait != w {
		return
	}
	t.wait = nil
	t.transfer(err)
}

func (t *Task) mustBeRunning(op string) {
	if t.wait != nil {
		panic(fmt.Sprintf("%s: %s already has an outstanding wait", op, t))
	}
}

// Timeout suspends the task for delay time units.
func (t *Task) Timeout(delay float64) error {
	if t.interrupted {
		return ErrInterrupted
	}
	t.mustBeRunning("Timeout")
	w := &wait{}
	timer := t.sched.After(delay, func() { t.wake(w, nil) })
	w.cancel = timer.Cancel
	return t.suspend(w)
}

// Request acquires res, waiting in its FIFO list for as long as needed.
// The returned grant must be released exactly once.
func (t *Task) Request(res *Resource) (*Grant, error) {
	return t.request(res, math.Inf(1))
}

// RequestWithin acquires res unless patience time units pass first, in which
// case the request leaves the wait list and ErrReneged is returned. A grant
// is only made strictly before the deadline. A non-positive patience reneges
// at once unless the task was interrupted.
func (t *Task) RequestWithin(res *Resource, patience float64) (*Grant, error) {
	if patience < 0 || math.IsNaN(patience) {
		panic(fmt.Sprintf("RequestWithin: invalid patience %v", patience))
	}
	if t.interrupted {
		return nil, ErrInterrupted
	}
	if patience == 0 {
		return nil, ErrReneged
	}
	return t.request(res, patience)
}

func (t *Task) request(res *Resource, patience float64) (*Grant, error) {
	if t.interrupted {
		return nil, ErrInterrupted
	}
	t.mustBeRunning("Request")

	now := t.sched.Now()
	g := &Grant{res: res, task: t, requested: now, deadline: now + patience}
	if res.tryAcquire(g) {
		return g, nil
	}

	w := &wait{}
	g.wait = w
	res.enqueue(g)

	var deadline *Timer
	if !math.IsInf(patience, 1) {
		deadline = t.sched.After(patience, func() {
			if g.granted {
				return
			}
			res.withdraw(g)
			t.wake(w, ErrReneged)
		})
	}
	w.cancel = func() {
		if deadline != nil {
			deadline.Cancel()
		}
		if g.granted {
			res.Release(g)
			return
		}
		res.withdraw(g)
	}

	if err := t.suspend(w); err != nil {
		return nil, err
	}
	if deadline != nil {
		deadline.Cancel()
	}
	return g, nil
}

// Interrupt delivers an interruption to the task at the current virtual time.
// The task's pending wait is cancelled and returns ErrInterrupted; every
// later wait returns ErrInterrupted immediately. Interrupting a finished task
// is a no-op.
func (t *Task) Interrupt() {
	if t.finished || t.interrupted {
		return
	}
	t.sched.After(0, t.abort)
}

// abort delivers the interruption synchronously. It must run on the
// scheduler side, never from inside a task function.
func (t *Task) abort() {
	if t.finished || t.interrupted {
		return
	}
	t.interrupted = true
	if !t.started {
		logrus.Tracef("[t=%.4f] %s dropped before start", t.sched.Now(), t)
		t.finish()
		return
	}
	w := t.wait
	if w == nil {
		return
	}
	logrus.Tracef("[t=%.4f] interrupting %s", t.sched.Now(), t)
	t.wait = nil
	if w.cancel != nil {
		w.cancel()
	}
	t.transfer(ErrInterrupted)
}
