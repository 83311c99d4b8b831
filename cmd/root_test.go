package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/callcenter-sim/sim/callcenter"
	"github.com/inference-sim/callcenter-sim/sim/trace"
)

func smallConfig() callcenter.Config {
	cfg := callcenter.DefaultConfig()
	cfg.TotalCalls = 100
	return cfg
}

func TestRunSimulation_MetricsPrintedToWriter(t *testing.T) {
	// GIVEN a small run
	var buf bytes.Buffer

	// WHEN it runs without trace output
	err := runSimulation(smallConfig(), 42, trace.TraceLevelNone, "", &buf)

	// THEN the metrics block is printed
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "=== Simulation Metrics ===")
	assert.Contains(t, buf.String(), "Total Calls          : 100")
}

func TestRunSimulation_SameSeed_SameOutput(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, runSimulation(smallConfig(), 7, trace.TraceLevelNone, "", &a))
	require.NoError(t, runSimulation(smallConfig(), 7, trace.TraceLevelNone, "", &b))

	assert.Equal(t, a.String(), b.String())
}

func TestRunSimulation_InvalidConfig_ReturnsConfigError(t *testing.T) {
	cfg := smallConfig()
	cfg.IntakeCapacity = 0

	err := runSimulation(cfg, 42, trace.TraceLevelNone, "", &bytes.Buffer{})

	var cfgErr *callcenter.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "intake_capacity", cfgErr.Field)
}

func TestRunSimulation_TraceOutput_WritesParseableYAML(t *testing.T) {
	// GIVEN a trace output path and the default trace level
	path := filepath.Join(t.TempDir(), "trace.yaml")

	// WHEN the run completes
	err := runSimulation(smallConfig(), 42, trace.TraceLevelNone, path, &bytes.Buffer{})
	require.NoError(t, err)

	// THEN the file holds one record per call and a consistent summary
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		Result  map[string]any      `yaml:"result"`
		Summary trace.TraceSummary  `yaml:"summary"`
		Calls   []trace.CallRecord  `yaml:"calls"`
		Breaks  []trace.BreakRecord `yaml:"breaks"`
	}
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Len(t, got.Calls, 100)
	assert.Equal(t, 100, got.Summary.TotalCalls)
	assert.Empty(t, got.Breaks, "breaks are only traced at the all level")
	assert.Equal(t, 100, got.Result["total_calls"])
}

func TestRunSimulation_TraceLevelAll_ExportsBreaks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.yaml")
	cfg := smallConfig()
	cfg.BreakMeanInterval = 10

	require.NoError(t, runSimulation(cfg, 42, trace.TraceLevelAll, path, &bytes.Buffer{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		Breaks []trace.BreakRecord `yaml:"breaks"`
	}
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.NotEmpty(t, got.Breaks)
}

func TestRunCmd_FlagDefaults_MatchDefaultConfig(t *testing.T) {
	// GIVEN the registered run flags
	defaults := callcenter.DefaultConfig()

	// THEN each default mirrors the reference configuration
	for name, want := range map[string]string{
		"total-calls":              "1000",
		"intake-capacity":          "100",
		"route-to-op1-probability": "0.3",
		"max-queue-wait":           "10",
		"breaks":                   "true",
		"seed":                     "42",
		"log":                      "error",
		"trace-level":              "none",
	} {
		f := runCmd.Flags().Lookup(name)
		require.NotNil(t, f, "flag %s", name)
		assert.Equal(t, want, f.DefValue, "flag %s", name)
	}
	assert.Equal(t, defaults, flagConfig, "flag targets start from the defaults")
}

func TestRunCmd_EveryConfigFlagIsRegistered(t *testing.T) {
	for _, f := range configFlags {
		assert.NotNil(t, runCmd.Flags().Lookup(f.name), "flag %s", f.name)
	}
}
