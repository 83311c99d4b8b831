package callcenter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/callcenter-sim/sim"
)

// arrivalProcess spawns TotalCalls calls separated by exponential gaps.
func (cc *Center) arrivalProcess(t *sim.Task) error {
	gaps := cc.src.Stream(sim.SubsystemArrivals)
	for id := 1; id <= cc.cfg.TotalCalls; id++ {
		if err := t.Timeout(gaps.Exponential(cc.cfg.InterarrivalMean)); err != nil {
			return err
		}
		cc.spawnCall(id)
	}
	return nil
}

func (cc *Center) spawnCall(id int) *Call {
	call := &Call{
		ID:          id,
		ArrivalTime: cc.sched.Now(),
		State:       CallArriving,
	}
	cc.calls = append(cc.calls, call)
	cc.sched.Spawn(fmt.Sprintf("call_%d", id), cc.callProcess(call))
	logrus.Tracef("[t=%.4f] call %d arrives", call.ArrivalTime, id)
	return call
}

// breakDecisionProcess makes break decisions for op at exponential
// intervals until the run halts.
func (cc *Center) breakDecisionProcess(op OperatorID) func(*sim.Task) error {
	return func(t *sim.Task) error {
		gaps := cc.src.Stream(sim.SubsystemBreaks(int(op)))
		for {
			if err := t.Timeout(gaps.Exponential(cc.cfg.BreakMeanInterval)); err != nil {
				return err
			}
			cc.DecideBreak(op)
		}
	}
}
