package sim

// Timer is a continuation scheduled to run at a fixed virtual time.
// Timers with equal times fire in the order they were scheduled.
type Timer struct {
	time      float64 // virtual time at which fn runs
	seq       uint64  // insertion sequence, breaks ties between equal times
	fn        func()
	cancelled bool
}

// Time returns the virtual time at which the timer fires.
func (t *Timer) Time() float64 {
	return t.time
}

// Cancel prevents a pending timer from firing. Cancelling a timer that
// already fired is a no-op.
func (t *Timer) Cancel() {
	t.cancelled = true
}

// Cancelled reports whether Cancel was called.
func (t *Timer) Cancelled() bool {
	return t.cancelled
}

// timerQueue implements heap.Interface and orders timers by (time, seq).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) {
	*q = append(*q, x.(*Timer))
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[0 : n-1]
	return item
}
