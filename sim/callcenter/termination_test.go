package callcenter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inference-sim/callcenter-sim/sim"
)

func TestTerminationController_FiresOnceAtTotal(t *testing.T) {
	// GIVEN a controller for two calls
	s := sim.NewScheduler()
	stats := &Stats{}
	tc := NewTerminationController(2, stats, s)

	// WHEN one call resolves
	stats.Served++
	tc.Resolve()

	// THEN nothing happens yet
	assert.False(t, tc.Fired())
	assert.False(t, s.Halted())

	// WHEN the second resolves
	stats.Failed.Renege++
	tc.Resolve()

	// THEN the run halts
	assert.True(t, tc.Fired())
	assert.True(t, s.Halted())
}

func TestTerminationController_SecondFire_Panics(t *testing.T) {
	s := sim.NewScheduler()
	stats := &Stats{Served: 1}
	tc := NewTerminationController(1, stats, s)
	tc.Resolve()

	assert.Panics(t, func() { tc.Resolve() })
}

func TestTerminationController_OverResolution_Panics(t *testing.T) {
	s := sim.NewScheduler()
	stats := &Stats{Served: 3}
	tc := NewTerminationController(2, stats, s)

	assert.Panics(t, func() { tc.Resolve() })
}

func TestTerminationController_InterruptsWatchedGenerators(t *testing.T) {
	// GIVEN a long-running generator watched by the controller
	s := sim.NewScheduler()
	stats := &Stats{}
	tc := NewTerminationController(1, stats, s)
	var genErr error
	gen := s.Spawn("generator", func(tk *sim.Task) error {
		genErr = tk.Timeout(1000)
		return genErr
	})
	tc.Watch(gen)
	s.Spawn("call", func(tk *sim.Task) error {
		if err := tk.Timeout(3); err != nil {
			return err
		}
		stats.Served++
		tc.Resolve()
		return nil
	})

	// WHEN the only call resolves at t=3
	assert.NoError(t, s.Run())

	// THEN the generator is unwound and the end time recorded
	assert.ErrorIs(t, genErr, sim.ErrInterrupted)
	assert.True(t, gen.Interrupted())
	assert.Equal(t, 3.0, stats.EndTime)
	assert.Equal(t, 3.0, s.Now())
}
