package callcenter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/callcenter-sim/sim"
)

// TerminationController halts the run the moment every call is resolved.
// It fires exactly once; reaching the total a second time is an invariant
// violation.
type TerminationController struct {
	total int
	stats *Stats
	sched *sim.Scheduler

	watched []*sim.Task
	fired   bool
}

// NewTerminationController creates a controller for total calls.
func NewTerminationController(total int, stats *Stats, sched *sim.Scheduler) *TerminationController {
	return &TerminationController{
		total:   total,
		stats:   stats,
		sched:   sched,
		watched: make([]*sim.Task, 0),
	}
}

// Watch registers a generator task to interrupt when the run terminates.
func (tc *TerminationController) Watch(t *sim.Task) {
	tc.watched = append(tc.watched, t)
}

// Fired reports whether termination has happened.
func (tc *TerminationController) Fired() bool { return tc.fired }

// Resolve checks the resolved count and terminates once it reaches the total.
func (tc *TerminationController) Resolve() {
	resolved := tc.stats.Resolved()
	if resolved > tc.total {
		panic(fmt.Sprintf("Resolve: %d calls resolved, only %d exist", resolved, tc.total))
	}
	if resolved < tc.total {
		return
	}
	tc.fire()
}

func (tc *TerminationController) fire() {
	if tc.fired {
		panic(fmt.Sprintf("fire: termination already fired at t=%v", tc.stats.EndTime))
	}
	tc.fired = true
	tc.stats.EndTime = tc.sched.Now()
	logrus.Infof("[t=%.4f] all %d calls resolved, stopping", tc.stats.EndTime, tc.total)
	for _, t := range tc.watched {
		t.Interrupt()
	}
	tc.sched.Halt()
}
