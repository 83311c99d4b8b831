package cmd

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/callcenter-sim/sim/callcenter"
	"github.com/inference-sim/callcenter-sim/sim/trace"
)

// traceExport is the YAML document written by --trace-output.
type traceExport struct {
	Result  *callcenter.Result  `yaml:"result"`
	Summary *trace.TraceSummary `yaml:"summary"`
	Calls   []trace.CallRecord  `yaml:"calls"`
	Breaks  []trace.BreakRecord `yaml:"breaks,omitempty"`
}

// writeTraceOutput writes the run result, the trace summary and the raw
// records to path.
func writeTraceOutput(path string, res *callcenter.Result, st *trace.SimulationTrace) error {
	data, err := yaml.Marshal(traceExport{
		Result:  res,
		Summary: trace.Summarize(st),
		Calls:   st.Calls,
		Breaks:  st.Breaks,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
