package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Grant is the handle of one request for a Resource. It becomes the
// resource holder once granted and stays so until released.
type Grant struct {
	res  *Resource
	task *Task
	wait *wait

	requested float64 // virtual time of the request
	deadline  float64 // grants are made only strictly before this time
	grantedAt float64

	granted  bool
	released bool
}

// Release gives the resource back. Releasing a grant that is not the current
// holder panics.
func (g *Grant) Release() {
	g.res.Release(g)
}

// Task returns the requesting task.
func (g *Grant) Task() *Task { return g.task }

// Resource returns the requested resource.
func (g *Grant) Resource() *Resource { return g.res }

// Granted reports whether the resource was granted to this request.
func (g *Grant) Granted() bool { return g.granted }

// Released reports whether the grant was released.
func (g *Grant) Released() bool { return g.released }

// RequestedAt returns the virtual time of the request.
func (g *Grant) RequestedAt() float64 { return g.requested }

// GrantedAt returns the virtual time of the grant.
func (g *Grant) GrantedAt() float64 { return g.grantedAt }

// Waited returns how long the request waited before being granted.
func (g *Grant) Waited() float64 { return g.grantedAt - g.requested }

// Resource is an exclusive, capacity-1 server with a FIFO wait list.
// There is no priority and no preemption: on release the resource goes to
// the oldest waiter whose deadline has not been reached.
type Resource struct {
	*HookableBase

	name  string
	sched *Scheduler

	holder  *Grant
	waiters []*Grant
	counted func(*Task) bool // waiters integrated into queueArea; nil counts all

	// time-integrated statistics, accumulated up to lastUpdate
	lastUpdate float64
	queueArea  float64
	busyTime   float64
	grants     uint64
}

// NewResource creates an idle resource bound to a scheduler.
func NewResource(s *Scheduler, name string) *Resource {
	return &Resource{
		HookableBase: NewHookableBase(),
		name:         name,
		sched:        s,
		waiters:      make([]*Grant, 0),
	}
}

// Name returns the resource name.
func (r *Resource) Name() string { return r.name }

// QueueLength returns the number of waiting requests that can still be
// granted. A waiter whose deadline has been reached is on its way out and is
// not counted.
func (r *Resource) QueueLength() int {
	return r.CountWaiting(nil)
}

// CountWaiting is QueueLength restricted to requests whose task satisfies
// match. A nil match counts every grantable waiter.
func (r *Resource) CountWaiting(match func(*Task) bool) int {
	now := r.sched.Now()
	n := 0
	for _, w := range r.waiters {
		if w.deadline > now && (match == nil || match(w.task)) {
			n++
		}
	}
	return n
}

// CountOnly restricts QueueArea to waiters whose task satisfies match.
// Time already integrated is kept.
func (r *Resource) CountOnly(match func(*Task) bool) {
	r.accumulate()
	r.counted = match
}

// Busy reports whether the resource has a holder.
func (r *Resource) Busy() bool { return r.holder != nil }

// Holder returns the task holding the resource, or nil.
func (r *Resource) Holder() *Task {
	if r.holder == nil {
		return nil
	}
	return r.holder.task
}

// Grants returns how many requests have been granted so far.
func (r *Resource) Grants() uint64 { return r.grants }

// QueueArea returns the integral of the wait-list length over virtual time,
// up to the current time. Only waiters accepted by CountOnly are counted.
func (r *Resource) QueueArea() float64 {
	r.accumulate()
	return r.queueArea
}

// BusyTime returns the total virtual time the resource has had a holder.
func (r *Resource) BusyTime() float64 {
	r.accumulate()
	return r.busyTime
}

func (r *Resource) accumulate() {
	now := r.sched.Now()
	dt := now - r.lastUpdate
	if dt > 0 {
		r.queueArea += dt * float64(r.countedWaiters())
		if r.holder != nil {
			r.busyTime += dt
		}
	}
	r.lastUpdate = now
}

func (r *Resource) countedWaiters() int {
	if r.counted == nil {
		return len(r.waiters)
	}
	n := 0
	for _, w := range r.waiters {
		if r.counted(w.task) {
			n++
		}
	}
	return n
}

func (r *Resource) hook(pos *HookPos, g *Grant) {
	r.InvokeHook(HookCtx{Domain: r, Pos: pos, Now: r.sched.Now(), Item: g})
}

// tryAcquire grants g at once if the resource is idle.
func (r *Resource) tryAcquire(g *Grant) bool {
	if r.holder != nil {
		return false
	}
	r.accumulate()
	r.grant(g)
	return true
}

func (r *Resource) grant(g *Grant) {
	now := r.sched.Now()
	r.holder = g
	g.granted = true
	g.grantedAt = now
	r.grants++
	logrus.Tracef("[t=%.4f] %s granted to %s after %.4f", now, r.name, g.task, g.Waited())
	r.hook(HookPosGrant, g)
}

func (r *Resource) enqueue(g *Grant) {
	r.accumulate()
	r.waiters = append(r.waiters, g)
	r.hook(HookPosEnqueue, g)
}

// withdraw removes a waiting request from the wait list.
func (r *Resource) withdraw(g *Grant) {
	for i, w := range r.waiters {
		if w == g {
			r.accumulate()
			r.waiters = append(r.waiters[:i], r.waiters[i+1:]...)
			r.hook(HookPosWithdraw, g)
			return
		}
	}
}

// Release clears the holder and grants the resource to the next eligible
// waiter, resuming it at the current virtual time.
func (r *Resource) Release(g *Grant) {
	if g == nil || r.holder != g {
		panic(fmt.Sprintf("Release: %s released by a request that does not hold it", r.name))
	}
	r.accumulate()
	g.released = true
	r.holder = nil
	r.hook(HookPosRelease, g)
	r.grantNext()
}

// grantNext hands the resource to the first waiter still inside its
// deadline. Waiters whose deadline has been reached stay in the list until
// their deadline timer withdraws them.
func (r *Resource) grantNext() {
	now := r.sched.Now()
	for i, w := range r.waiters {
		if w.deadline <= now {
			continue
		}
		r.waiters = append(r.waiters[:i], r.waiters[i+1:]...)
		r.grant(w)
		next := w
		r.sched.After(0, func() { next.task.wake(next.wait, nil) })
		return
	}
}

// CheckInvariants panics if the holder or wait list is inconsistent.
func (r *Resource) CheckInvariants() {
	if h := r.holder; h != nil && (!h.granted || h.released) {
		panic(fmt.Sprintf("CheckInvariants: %s holder is not an active grant", r.name))
	}
	seen := make(map[*Grant]bool, len(r.waiters))
	for _, w := range r.waiters {
		if w.granted {
			panic(fmt.Sprintf("CheckInvariants: %s wait list holds a granted request", r.name))
		}
		if w == r.holder || seen[w] {
			panic(fmt.Sprintf("CheckInvariants: %s wait list is corrupt", r.name))
		}
		seen[w] = true
	}
}

// HolderInvariantHook checks resource consistency after every grant, release
// and withdrawal of the resources it is attached to.
var HolderInvariantHook = HookFunc(func(ctx HookCtx) {
	if r, ok := ctx.Domain.(*Resource); ok {
		r.CheckInvariants()
	}
})
