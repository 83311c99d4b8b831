package callcenter

import "fmt"

// FailCounts breaks the failed calls out by reason.
type FailCounts struct {
	Capacity int `yaml:"capacity"`
	Misroute int `yaml:"misroute"`
	Renege   int `yaml:"renege"`
}

// Total returns the number of failed calls.
func (f FailCounts) Total() int {
	return f.Capacity + f.Misroute + f.Renege
}

// Stats accumulates the run totals. It is mutated only at call and break
// completion points and is read-only once the run has halted.
type Stats struct {
	IntakeBusyTime float64 // sum of intake channel occupancy

	ServiceTime [NumOperators]float64
	QueueWait   [NumOperators]float64 // hold time of calls that entered the queue
	QueueCalls  [NumOperators]int
	BreakTime   [NumOperators]float64

	Served int
	Failed FailCounts

	MaxQueueWait         float64
	MaxWaitToSystemRatio float64 // largest hold time / time in system over queued calls
	PeakIntake           int

	BreaksTaken       [NumOperators]int
	BreaksDeferred    int
	BreaksInvalidated int
	BreaksSkipped     int // decisions over the per-shift cap

	EndTime float64
}

// Resolved returns how many calls reached a terminal state.
func (s *Stats) Resolved() int {
	return s.Served + s.Failed.Total()
}

func (s *Stats) recordCall(c *Call) {
	switch c.State {
	case CallServed:
		s.Served++
	case CallDroppedCapacity:
		s.Failed.Capacity++
	case CallDroppedMisroute:
		s.Failed.Misroute++
	case CallDroppedRenege:
		s.Failed.Renege++
	default:
		panic(fmt.Sprintf("recordCall: %s is not terminal", c))
	}
	if !c.Queued {
		return
	}
	i := c.Operator.index()
	s.QueueWait[i] += c.Wait
	s.QueueCalls[i]++
	s.MaxQueueWait = max(s.MaxQueueWait, c.Wait)
	if system := c.DepartureTime - c.ArrivalTime; system > 0 {
		s.MaxWaitToSystemRatio = max(s.MaxWaitToSystemRatio, c.Wait/system)
	}
}

func (s *Stats) recordBreak(b *BreakProcess) {
	switch b.State {
	case BreakDone:
		s.BreaksTaken[b.Operator.index()]++
		s.BreakTime[b.Operator.index()] += b.EndTime - b.StartTime
	case BreakInvalidated:
		s.BreaksInvalidated++
	default:
		panic(fmt.Sprintf("recordBreak: break %d is not resolved (%s)", b.ID, b.State))
	}
}
