package callcenter

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/callcenter-sim/sim"
	"github.com/inference-sim/callcenter-sim/sim/trace"
)

// CallState represents the lifecycle state of a call.
type CallState string

const (
	CallArriving     CallState = "arriving"
	CallRecordTaking CallState = "record_taking"
	CallRouted       CallState = "routed"
	CallQueued       CallState = "queued"
	CallInService    CallState = "in_service"

	CallServed          CallState = "served"
	CallDroppedCapacity CallState = "dropped_capacity"
	CallDroppedMisroute CallState = "dropped_misroute"
	CallDroppedRenege   CallState = "dropped_renege"
)

// Terminal reports whether no further transition is allowed from s.
func (s CallState) Terminal() bool {
	switch s {
	case CallServed, CallDroppedCapacity, CallDroppedMisroute, CallDroppedRenege:
		return true
	}
	return false
}

// Call is one caller moving through the center.
type Call struct {
	ID          int
	ArrivalTime float64
	State       CallState
	Operator    OperatorID // 0 until routed

	QueueEnterTime float64
	Queued         bool    // entered an operator wait list
	Wait           float64 // time on hold, capped at the patience
	ServiceTime    float64
	DepartureTime  float64
}

func (c *Call) String() string {
	return fmt.Sprintf("Call: (ID: %d, State: %s, Operator: %d, ArrivalTime: %.4f)", c.ID, c.State, c.Operator, c.ArrivalTime)
}

// transition moves the call to state to. Leaving a terminal state is an
// invariant violation.
func (c *Call) transition(to CallState) {
	if c.State.Terminal() {
		panic(fmt.Sprintf("transition: %s is already terminal, cannot move to %s", c, to))
	}
	c.State = to
}

func (c *Call) record() trace.CallRecord {
	return trace.CallRecord{
		CallID:    c.ID,
		Arrival:   c.ArrivalTime,
		Departure: c.DepartureTime,
		Outcome:   string(c.State),
		Operator:  int(c.Operator),
		Queued:    c.Queued,
		Wait:      c.Wait,
		Service:   c.ServiceTime,
	}
}

// callProcess drives a call from arrival to a terminal state.
func (cc *Center) callProcess(call *Call) func(*sim.Task) error {
	return func(t *sim.Task) error {
		if cc.intake >= cc.cfg.IntakeCapacity {
			cc.finishCall(call, CallDroppedCapacity)
			return nil
		}

		call.transition(CallRecordTaking)
		if err := cc.takeRecord(t); err != nil {
			return err
		}

		routing := cc.src.Stream(sim.SubsystemRouting)
		route := routing.Uniform(0, 1)
		fault := routing.Uniform(0, 1)
		call.Operator = Operator2
		if route < cc.cfg.RouteToOp1Probability {
			call.Operator = Operator1
		}
		if fault < cc.cfg.MisrouteProbability {
			cc.finishCall(call, CallDroppedMisroute)
			return nil
		}
		call.transition(CallRouted)

		call.transition(CallQueued)
		call.Queued = true
		call.QueueEnterTime = t.Now()
		g, err := t.RequestWithin(cc.Operator(call.Operator), cc.cfg.MaxQueueWait)
		if errors.Is(err, sim.ErrReneged) {
			call.Wait = cc.cfg.MaxQueueWait
			cc.finishCall(call, CallDroppedRenege)
			return nil
		}
		if err != nil {
			return err
		}

		call.Wait = g.Waited()
		call.transition(CallInService)
		if err := cc.serve(t, call, g); err != nil {
			return err
		}
		cc.finishCall(call, CallServed)
		return nil
	}
}

// takeRecord occupies one intake channel for an exponential record-taking
// time. The channel is freed on every exit path.
func (cc *Center) takeRecord(t *sim.Task) error {
	start := t.Now()
	cc.intake++
	if cc.intake > cc.stats.PeakIntake {
		cc.stats.PeakIntake = cc.intake
	}
	defer func() {
		cc.intake--
		cc.stats.IntakeBusyTime += t.Now() - start
	}()
	return t.Timeout(cc.src.Stream(sim.SubsystemIntake).Exponential(cc.cfg.RecordMean))
}

// serve holds the operator for the service time and releases it on every
// exit path.
func (cc *Center) serve(t *sim.Task, call *Call, g *sim.Grant) error {
	defer g.Release()
	d := cc.serviceTime(call.Operator)
	if err := t.Timeout(d); err != nil {
		return err
	}
	call.ServiceTime = d
	cc.stats.ServiceTime[call.Operator.index()] += d
	return nil
}

func (cc *Center) serviceTime(op OperatorID) float64 {
	s := cc.src.Stream(sim.SubsystemService(int(op)))
	if op == Operator1 {
		return s.LogNormal(cc.op1Mu, cc.op1Sigma)
	}
	return s.Uniform(cc.cfg.Op2ServiceMin, cc.cfg.Op2ServiceMax)
}

// finishCall applies a terminal transition, accounts for it and lets the
// termination controller check the resolved count.
func (cc *Center) finishCall(call *Call, to CallState) {
	call.transition(to)
	call.DepartureTime = cc.sched.Now()
	cc.stats.recordCall(call)
	if cc.trace != nil {
		cc.trace.RecordCall(call.record())
	}
	logrus.Debugf("[t=%.4f] call %d -> %s (operator=%d wait=%.4f)", call.DepartureTime, call.ID, to, call.Operator, call.Wait)
	cc.term.Resolve()
}
