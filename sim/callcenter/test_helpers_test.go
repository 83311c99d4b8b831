package callcenter

import (
	"math"

	"github.com/inference-sim/callcenter-sim/sim"
	"github.com/inference-sim/callcenter-sim/sim/sampling"
)

// scriptedStream returns its scripted values in order, then falls back to
// the center of each distribution: the mean for exponentials, the midpoint
// for uniforms and exp(mu) for log-normals.
type scriptedStream struct {
	values []float64
	drawn  int
}

func (s *scriptedStream) next() (float64, bool) {
	if s.drawn >= len(s.values) {
		return 0, false
	}
	v := s.values[s.drawn]
	s.drawn++
	return v, true
}

func (s *scriptedStream) Exponential(mean float64) float64 {
	if v, ok := s.next(); ok {
		return v
	}
	return mean
}

func (s *scriptedStream) Uniform(min, max float64) float64 {
	if v, ok := s.next(); ok {
		return v
	}
	return (min + max) / 2
}

func (s *scriptedStream) LogNormal(mu, sigma float64) float64 {
	if v, ok := s.next(); ok {
		return v
	}
	return math.Exp(mu)
}

// scriptedSource is a deterministic sampling.Source with per-stream scripts.
type scriptedSource struct {
	streams map[string]*scriptedStream
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{streams: make(map[string]*scriptedStream)}
}

// script appends values to the named stream.
func (s *scriptedSource) script(name string, values ...float64) *scriptedSource {
	st := s.stream(name)
	st.values = append(st.values, values...)
	return s
}

func (s *scriptedSource) stream(name string) *scriptedStream {
	st, ok := s.streams[name]
	if !ok {
		st = &scriptedStream{}
		s.streams[name] = st
	}
	return st
}

func (s *scriptedSource) Stream(name string) sampling.Sampler {
	return s.stream(name)
}

// quietConfig is the reference configuration with breaks disabled and no
// misrouting, so scenarios only see what they set up.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.BreaksEnabled = false
	cfg.MisrouteProbability = 0
	return cfg
}

func newPartitionedSource(seed int64) *sampling.Partitioned {
	return sampling.NewPartitioned(sim.NewSimulationKey(seed))
}
