package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/callcenter-sim/sim/callcenter"
)

// loadConfigFile overlays the YAML run configuration at path on base.
// Keys missing from the file keep their base value; unknown keys are errors.
func loadConfigFile(path string, base callcenter.Config) (callcenter.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading config file: %w", err)
	}
	cfg := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// configFlags maps each simulation flag to the config field it sets.
var configFlags = []struct {
	name  string
	apply func(dst *callcenter.Config, src callcenter.Config)
}{
	{"total-calls", func(d *callcenter.Config, s callcenter.Config) { d.TotalCalls = s.TotalCalls }},
	{"intake-capacity", func(d *callcenter.Config, s callcenter.Config) { d.IntakeCapacity = s.IntakeCapacity }},
	{"interarrival-mean", func(d *callcenter.Config, s callcenter.Config) { d.InterarrivalMean = s.InterarrivalMean }},
	{"record-mean", func(d *callcenter.Config, s callcenter.Config) { d.RecordMean = s.RecordMean }},
	{"route-to-op1-probability", func(d *callcenter.Config, s callcenter.Config) { d.RouteToOp1Probability = s.RouteToOp1Probability }},
	{"misroute-probability", func(d *callcenter.Config, s callcenter.Config) { d.MisrouteProbability = s.MisrouteProbability }},
	{"max-queue-wait", func(d *callcenter.Config, s callcenter.Config) { d.MaxQueueWait = s.MaxQueueWait }},
	{"op1-service-mean", func(d *callcenter.Config, s callcenter.Config) { d.Op1ServiceMean = s.Op1ServiceMean }},
	{"op1-service-std", func(d *callcenter.Config, s callcenter.Config) { d.Op1ServiceStd = s.Op1ServiceStd }},
	{"op2-service-min", func(d *callcenter.Config, s callcenter.Config) { d.Op2ServiceMin = s.Op2ServiceMin }},
	{"op2-service-max", func(d *callcenter.Config, s callcenter.Config) { d.Op2ServiceMax = s.Op2ServiceMax }},
	{"breaks", func(d *callcenter.Config, s callcenter.Config) { d.BreaksEnabled = s.BreaksEnabled }},
	{"break-mean-interval", func(d *callcenter.Config, s callcenter.Config) { d.BreakMeanInterval = s.BreakMeanInterval }},
	{"break-duration", func(d *callcenter.Config, s callcenter.Config) { d.BreakDuration = s.BreakDuration }},
	{"shift-duration", func(d *callcenter.Config, s callcenter.Config) { d.ShiftDuration = s.ShiftDuration }},
	{"max-breaks-per-shift", func(d *callcenter.Config, s callcenter.Config) { d.MaxBreaksPerShift = s.MaxBreaksPerShift }},
}

// mergeChangedFlags copies into dst the fields of flagged whose flag was set
// explicitly, so command-line values win over the config file while unset
// flags never overwrite it.
func mergeChangedFlags(changed func(name string) bool, dst *callcenter.Config, flagged callcenter.Config) {
	for _, f := range configFlags {
		if changed(f.name) {
			f.apply(dst, flagged)
		}
	}
}
