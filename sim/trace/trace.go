package trace

// TraceLevel controls the verbosity of lifecycle tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelCalls captures one record per resolved call.
	TraceLevelCalls TraceLevel = "calls"
	// TraceLevelAll captures call records and break records.
	TraceLevelAll TraceLevel = "all"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelCalls: true,
	TraceLevelAll:   true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// CallsEnabled reports whether call records are collected at this level.
func (c TraceConfig) CallsEnabled() bool {
	return c.Level == TraceLevelCalls || c.Level == TraceLevelAll
}

// BreaksEnabled reports whether break records are collected at this level.
func (c TraceConfig) BreaksEnabled() bool {
	return c.Level == TraceLevelAll
}

// SimulationTrace collects lifecycle records during a run.
type SimulationTrace struct {
	Config TraceConfig
	Calls  []CallRecord
	Breaks []BreakRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config: config,
		Calls:  make([]CallRecord, 0),
		Breaks: make([]BreakRecord, 0),
	}
}

// RecordCall appends a call record if the level collects calls.
func (st *SimulationTrace) RecordCall(record CallRecord) {
	if !st.Config.CallsEnabled() {
		return
	}
	st.Calls = append(st.Calls, record)
}

// RecordBreak appends a break record if the level collects breaks.
func (st *SimulationTrace) RecordBreak(record BreakRecord) {
	if !st.Config.BreaksEnabled() {
		return
	}
	st.Breaks = append(st.Breaks, record)
}
