package callcenter

import (
	"fmt"
	"io"
	"math"
)

// Result is the record produced once, when the run halts. Metrics whose
// denominator is zero are NaN.
type Result struct {
	EndTime    float64    `yaml:"end_time"`
	TotalCalls int        `yaml:"total_calls"`
	Served     int        `yaml:"served"`
	Failed     FailCounts `yaml:"failed"`

	OperatorUtilization [NumOperators]float64 `yaml:"operator_utilization"`
	IntakeUtilization   float64               `yaml:"intake_utilization"`

	AvgQueueWait            float64               `yaml:"avg_queue_wait"`
	AvgQueueWaitPerOperator [NumOperators]float64 `yaml:"avg_queue_wait_per_operator"`
	MaxQueueWait            float64               `yaml:"max_queue_wait"`
	MaxWaitToSystemRatio    float64               `yaml:"max_wait_to_system_ratio"`
	AvgQueueLength          [NumOperators]float64 `yaml:"avg_queue_length"` // time-averaged callers on hold
	UnsatisfiedRate         float64               `yaml:"unsatisfied_rate"` // misrouted or reneged share of all calls
	PeakIntake              int                   `yaml:"peak_intake"`

	BreaksTaken       [NumOperators]int `yaml:"breaks_taken"`
	BreaksDeferred    int               `yaml:"breaks_deferred"`
	BreaksInvalidated int               `yaml:"breaks_invalidated"`
	BreaksSkipped     int               `yaml:"breaks_skipped"`
}

// safeDiv returns num/den, or NaN when den is zero.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

func (cc *Center) buildResult() *Result {
	s := cc.stats
	end := s.EndTime
	r := &Result{
		EndTime:              end,
		TotalCalls:           cc.cfg.TotalCalls,
		Served:               s.Served,
		Failed:               s.Failed,
		IntakeUtilization:    safeDiv(s.IntakeBusyTime, float64(cc.cfg.IntakeCapacity)*end),
		MaxQueueWait:         s.MaxQueueWait,
		MaxWaitToSystemRatio: s.MaxWaitToSystemRatio,
		UnsatisfiedRate:      safeDiv(float64(s.Failed.Misroute+s.Failed.Renege), float64(cc.cfg.TotalCalls)),
		PeakIntake:           s.PeakIntake,
		BreaksTaken:          s.BreaksTaken,
		BreaksDeferred:       s.BreaksDeferred,
		BreaksInvalidated:    s.BreaksInvalidated,
		BreaksSkipped:        s.BreaksSkipped,
	}

	var waitSum float64
	var waitCount int
	for i, op := range cc.operators {
		r.OperatorUtilization[i] = safeDiv(s.ServiceTime[i], end)
		r.AvgQueueWaitPerOperator[i] = safeDiv(s.QueueWait[i], float64(s.QueueCalls[i]))
		r.AvgQueueLength[i] = safeDiv(op.QueueArea(), end)
		waitSum += s.QueueWait[i]
		waitCount += s.QueueCalls[i]
	}
	r.AvgQueueWait = safeDiv(waitSum, float64(waitCount))
	return r
}

// Print writes the metrics block to w.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "End Time             : %.2f\n", r.EndTime)
	fmt.Fprintf(w, "Total Calls          : %d\n", r.TotalCalls)
	fmt.Fprintf(w, "Served Calls         : %d\n", r.Served)
	fmt.Fprintf(w, "Failed Calls         : %d (capacity=%d, misroute=%d, renege=%d)\n",
		r.Failed.Total(), r.Failed.Capacity, r.Failed.Misroute, r.Failed.Renege)
	fmt.Fprintf(w, "Answering Util.      : %.4f\n", r.IntakeUtilization)
	fmt.Fprintf(w, "Peak Intake          : %d\n", r.PeakIntake)
	for i, op := range Operators {
		fmt.Fprintf(w, "Operator %d Util.     : %.4f\n", op, r.OperatorUtilization[i])
		fmt.Fprintf(w, "Operator %d Avg Wait  : %.2f\n", op, r.AvgQueueWaitPerOperator[i])
		fmt.Fprintf(w, "Operator %d Avg Queue : %.4f\n", op, r.AvgQueueLength[i])
		fmt.Fprintf(w, "Operator %d Breaks    : %d\n", op, r.BreaksTaken[i])
	}
	fmt.Fprintf(w, "Average Queue Wait   : %.2f\n", r.AvgQueueWait)
	fmt.Fprintf(w, "Max Queue Wait       : %.2f\n", r.MaxQueueWait)
	fmt.Fprintf(w, "Max Wait/System Ratio: %.4f\n", r.MaxWaitToSystemRatio)
	fmt.Fprintf(w, "Unsatisfied Rate     : %.4f\n", r.UnsatisfiedRate)
	fmt.Fprintf(w, "Breaks Deferred      : %d\n", r.BreaksDeferred)
	fmt.Fprintf(w, "Breaks Invalidated   : %d\n", r.BreaksInvalidated)
	if r.BreaksSkipped > 0 {
		fmt.Fprintf(w, "Breaks Skipped       : %d\n", r.BreaksSkipped)
	}
}
