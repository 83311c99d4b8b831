// Package sampling provides the random draws consumed by simulation
// processes. Processes see only the Sampler interface, so tests can inject a
// scripted source while runs use gonum distributions over partitioned,
// seeded PCG streams.
package sampling

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inference-sim/callcenter-sim/sim"
)

// Sampler draws from the distributions used by the call-center model.
type Sampler interface {
	// Exponential returns a draw with the given mean (mean > 0).
	Exponential(mean float64) float64
	// Uniform returns a draw in [min, max).
	Uniform(min, max float64) float64
	// LogNormal returns exp(N(mu, sigma²)).
	LogNormal(mu, sigma float64) float64
}

// Source hands out one independent Sampler per named stream.
type Source interface {
	Stream(name string) Sampler
}

// Distributions is a Sampler backed by gonum distuv over a single source.
type Distributions struct {
	src rand.Source
}

// NewDistributions wraps src. A nil src is rejected since it would make
// distuv fall back to the global, unseeded generator.
func NewDistributions(src rand.Source) *Distributions {
	if src == nil {
		panic("NewDistributions: src must not be nil")
	}
	return &Distributions{src: src}
}

func (d *Distributions) Exponential(mean float64) float64 {
	return distuv.Exponential{Rate: 1 / mean, Src: d.src}.Rand()
}

func (d *Distributions) Uniform(min, max float64) float64 {
	if min == max {
		return min
	}
	return distuv.Uniform{Min: min, Max: max, Src: d.src}.Rand()
}

func (d *Distributions) LogNormal(mu, sigma float64) float64 {
	if sigma == 0 {
		return math.Exp(mu)
	}
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: d.src}.Rand()
}

// Partitioned is a Source whose streams are isolated PartitionedRNG
// subsystems of one SimulationKey.
type Partitioned struct {
	rng     *sim.PartitionedRNG
	streams map[string]*Distributions
}

// NewPartitioned creates a Source for the given run key.
func NewPartitioned(key sim.SimulationKey) *Partitioned {
	return &Partitioned{
		rng:     sim.NewPartitionedRNG(key),
		streams: make(map[string]*Distributions),
	}
}

// Stream returns the cached Sampler for name.
func (p *Partitioned) Stream(name string) Sampler {
	if d, ok := p.streams[name]; ok {
		return d
	}
	d := NewDistributions(p.rng.ForSubsystem(name))
	p.streams[name] = d
	return d
}

// Key returns the run key the streams derive from.
func (p *Partitioned) Key() sim.SimulationKey {
	return p.rng.Key()
}

// LogNormalParams converts the mean and standard deviation of a log-normal
// variable into the mu and sigma of its underlying normal distribution.
func LogNormalParams(mean, std float64) (mu, sigma float64) {
	mu = math.Log(mean * mean / math.Sqrt(std*std+mean*mean))
	sigma = math.Sqrt(math.Log(1 + (std*std)/(mean*mean)))
	return mu, sigma
}
