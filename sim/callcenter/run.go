package callcenter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/callcenter-sim/sim"
	"github.com/inference-sim/callcenter-sim/sim/sampling"
	"github.com/inference-sim/callcenter-sim/sim/trace"
)

// Center is the run context shared by every process of one simulation run.
// Nothing in it survives the run.
type Center struct {
	cfg   Config
	src   sampling.Source
	sched *sim.Scheduler

	operators [NumOperators]*sim.Resource
	intake    int // calls currently in record-taking

	stats *Stats
	shift *ShiftCoordinator
	term  *TerminationController
	trace *trace.SimulationTrace

	calls       []*Call
	breaks      []*BreakProcess
	breakTasks  map[*sim.Task]bool
	nextBreakID int

	op1Mu, op1Sigma float64

	ran bool
}

// Option configures a Center.
type Option func(*Center)

// WithTrace records call and break lifecycles into st.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(cc *Center) { cc.trace = st }
}

// WithResourceHook attaches h to both operator resources.
func WithResourceHook(h sim.Hook) Option {
	return func(cc *Center) {
		for _, r := range cc.operators {
			r.AcceptHook(h)
		}
	}
}

// WithSchedulerHook attaches h to the event scheduler.
func WithSchedulerHook(h sim.Hook) Option {
	return func(cc *Center) { cc.sched.AcceptHook(h) }
}

// NewCenter validates cfg and builds a run context. Nothing is scheduled
// until Run.
func NewCenter(cfg Config, src sampling.Source, opts ...Option) (*Center, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new center: %w", err)
	}
	if src == nil {
		return nil, fmt.Errorf("new center: %w", &ConfigError{Field: "random_source", Reason: "must not be nil"})
	}
	sched := sim.NewScheduler()
	stats := &Stats{}
	cc := &Center{
		cfg:        cfg,
		src:        src,
		sched:      sched,
		stats:      stats,
		shift:      NewShiftCoordinator(cfg.ShiftDuration, cfg.MaxBreaksPerShift),
		term:       NewTerminationController(cfg.TotalCalls, stats, sched),
		calls:      make([]*Call, 0, cfg.TotalCalls),
		breaks:     make([]*BreakProcess, 0),
		breakTasks: make(map[*sim.Task]bool),
	}
	for _, op := range Operators {
		res := sim.NewResource(sched, op.String())
		res.CountOnly(cc.isCall)
		cc.operators[op.index()] = res
	}
	cc.op1Mu, cc.op1Sigma = sampling.LogNormalParams(cfg.Op1ServiceMean, cfg.Op1ServiceStd)
	for _, opt := range opts {
		opt(cc)
	}
	return cc, nil
}

// Config returns the run configuration.
func (cc *Center) Config() Config { return cc.cfg }

// Scheduler returns the event scheduler of the run.
func (cc *Center) Scheduler() *sim.Scheduler { return cc.sched }

// Operator returns the resource of operator op.
func (cc *Center) Operator(op OperatorID) *sim.Resource {
	if op != Operator1 && op != Operator2 {
		panic(fmt.Sprintf("Operator: unknown operator %d", op))
	}
	return cc.operators[op.index()]
}

// Stats returns the live accumulators.
func (cc *Center) Stats() *Stats { return cc.stats }

// Shift returns the shift coordinator.
func (cc *Center) Shift() *ShiftCoordinator { return cc.shift }

// Termination returns the termination controller.
func (cc *Center) Termination() *TerminationController { return cc.term }

// Calls returns every call spawned so far, in arrival order.
func (cc *Center) Calls() []*Call { return cc.calls }

// Breaks returns every break decided so far, in decision order.
func (cc *Center) Breaks() []*BreakProcess { return cc.breaks }

// Intake returns the number of calls currently in record-taking.
func (cc *Center) Intake() int { return cc.intake }

// Run starts the generators, runs the scheduler until every call is resolved
// and builds the result. It may be called only once.
func (cc *Center) Run() (*Result, error) {
	if cc.ran {
		return nil, fmt.Errorf("run: center already ran")
	}
	cc.ran = true
	logrus.Infof("Starting call-center simulation: %d calls, intake capacity %d, breaks=%v",
		cc.cfg.TotalCalls, cc.cfg.IntakeCapacity, cc.cfg.BreaksEnabled)

	// a run without calls is resolved before anything happens
	cc.term.Resolve()
	if !cc.term.Fired() {
		cc.term.Watch(cc.sched.Spawn("arrivals", cc.arrivalProcess))
		if cc.cfg.BreaksEnabled {
			for _, op := range Operators {
				cc.term.Watch(cc.sched.Spawn(fmt.Sprintf("breaks_%d", op), cc.breakDecisionProcess(op)))
			}
			cc.term.Watch(cc.sched.Spawn("shifts", cc.shiftProcess))
		}
	}

	if err := cc.sched.Run(); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	if !cc.term.Fired() {
		return nil, fmt.Errorf("run: scheduler drained with %d of %d calls resolved", cc.stats.Resolved(), cc.cfg.TotalCalls)
	}

	res := cc.buildResult()
	logrus.Infof("Simulation complete at t=%.4f after %d events", cc.stats.EndTime, cc.sched.Dispatched())
	return res, nil
}

// Run builds a Center for cfg and runs it.
func Run(cfg Config, src sampling.Source, opts ...Option) (*Result, error) {
	cc, err := NewCenter(cfg, src, opts...)
	if err != nil {
		return nil, err
	}
	return cc.Run()
}
