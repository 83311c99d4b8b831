package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/callcenter-sim/sim/callcenter"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFile_OverlaysOnBase(t *testing.T) {
	// GIVEN a file that sets two fields
	path := writeFile(t, "total_calls: 250\nmax_queue_wait: 4.5\nbreaks_enabled: false\n")

	// WHEN loaded over the defaults
	cfg, err := loadConfigFile(path, callcenter.DefaultConfig())

	// THEN those fields change and the rest keep their defaults
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.TotalCalls)
	assert.Equal(t, 4.5, cfg.MaxQueueWait)
	assert.False(t, cfg.BreaksEnabled)
	assert.Equal(t, 100, cfg.IntakeCapacity)
	assert.Equal(t, 12.0, cfg.Op1ServiceMean)
}

func TestLoadConfigFile_UnknownKey_Rejected(t *testing.T) {
	path := writeFile(t, "total_calls: 250\nmax_queue_wiat: 4.5\n")

	_, err := loadConfigFile(path, callcenter.DefaultConfig())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_queue_wiat")
}

func TestLoadConfigFile_EmptyFile_KeepsBase(t *testing.T) {
	path := writeFile(t, "")

	cfg, err := loadConfigFile(path, callcenter.DefaultConfig())

	require.NoError(t, err)
	assert.Equal(t, callcenter.DefaultConfig(), cfg)
}

func TestLoadConfigFile_MissingFile_ReturnsError(t *testing.T) {
	_, err := loadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"), callcenter.DefaultConfig())

	assert.Error(t, err)
}

func TestMergeChangedFlags_OnlyExplicitFlagsOverride(t *testing.T) {
	// GIVEN a file config and flag values where only --total-calls was set
	fromFile := callcenter.DefaultConfig()
	fromFile.TotalCalls = 250
	fromFile.RecordMean = 9

	flagged := callcenter.DefaultConfig()
	flagged.TotalCalls = 40
	flagged.RecordMean = 5 // flag default, not set by the user
	changed := func(name string) bool { return name == "total-calls" }

	// WHEN merged
	mergeChangedFlags(changed, &fromFile, flagged)

	// THEN the explicit flag wins and the file value survives elsewhere
	assert.Equal(t, 40, fromFile.TotalCalls)
	assert.Equal(t, 9.0, fromFile.RecordMean)
}

func TestMergeChangedFlags_BoolFlag(t *testing.T) {
	dst := callcenter.DefaultConfig()
	flagged := callcenter.DefaultConfig()
	flagged.BreaksEnabled = false

	mergeChangedFlags(func(name string) bool { return name == "breaks" }, &dst, flagged)

	assert.False(t, dst.BreaksEnabled)
}
