package trace

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalCalls  int            `yaml:"total_calls"`
	Outcomes    map[string]int `yaml:"outcomes"`     // terminal state → count
	PerOperator map[int]int    `yaml:"per_operator"` // operator → calls that reached its queue

	QueuedCalls int     `yaml:"queued_calls"`
	MeanWait    float64 `yaml:"mean_wait"`
	P50Wait     float64 `yaml:"p50_wait"`
	P95Wait     float64 `yaml:"p95_wait"`
	MaxWait     float64 `yaml:"max_wait"`
	MeanService float64 `yaml:"mean_service"`

	TotalBreaks   int            `yaml:"total_breaks"`
	BreakOutcomes map[string]int `yaml:"break_outcomes"`
	MeanDeferrals float64        `yaml:"mean_deferrals"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		Outcomes:      make(map[string]int),
		PerOperator:   make(map[int]int),
		BreakOutcomes: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalCalls = len(st.Calls)
	waits := make([]float64, 0, len(st.Calls))
	services := make([]float64, 0, len(st.Calls))
	for _, c := range st.Calls {
		summary.Outcomes[c.Outcome]++
		if !c.Queued {
			continue
		}
		summary.PerOperator[c.Operator]++
		waits = append(waits, c.Wait)
		if c.Service > 0 {
			services = append(services, c.Service)
		}
	}

	summary.QueuedCalls = len(waits)
	if len(waits) > 0 {
		sort.Float64s(waits)
		summary.MeanWait = stat.Mean(waits, nil)
		summary.P50Wait = stat.Quantile(0.5, stat.Empirical, waits, nil)
		summary.P95Wait = stat.Quantile(0.95, stat.Empirical, waits, nil)
		summary.MaxWait = floats.Max(waits)
	}
	if len(services) > 0 {
		summary.MeanService = stat.Mean(services, nil)
	}

	summary.TotalBreaks = len(st.Breaks)
	if len(st.Breaks) > 0 {
		deferrals := make([]float64, len(st.Breaks))
		for i, b := range st.Breaks {
			summary.BreakOutcomes[b.Outcome]++
			deferrals[i] = float64(b.Deferrals)
		}
		summary.MeanDeferrals = stat.Mean(deferrals, nil)
	}

	return summary
}
