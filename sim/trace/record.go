// Package trace provides per-call and per-break lifecycle records for
// post-run analysis. This package has no dependencies on sim/ or its
// subpackages; it stores pure data types.
package trace

// CallRecord captures the lifecycle of a single call once it reaches a
// terminal state.
type CallRecord struct {
	CallID    int     `yaml:"call_id"`
	Arrival   float64 `yaml:"arrival"`
	Departure float64 `yaml:"departure"`
	Outcome   string  `yaml:"outcome"`            // terminal state name
	Operator  int     `yaml:"operator,omitempty"` // 0 when the call never reached an operator
	Queued    bool    `yaml:"queued"`
	Wait      float64 `yaml:"wait"`    // time on hold; equals the patience for reneged calls
	Service   float64 `yaml:"service"` // 0 unless served
}

// BreakRecord captures one operator break decision and how it was resolved.
type BreakRecord struct {
	BreakID   int     `yaml:"break_id"`
	Operator  int     `yaml:"operator"`
	Shift     int     `yaml:"shift"` // shift window the decision was made in
	Decided   float64 `yaml:"decided"`
	Start     float64 `yaml:"start,omitempty"`
	End       float64 `yaml:"end,omitempty"`
	Outcome   string  `yaml:"outcome"`
	Deferrals int     `yaml:"deferrals"`
}
