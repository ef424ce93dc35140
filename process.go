package contagiongo

import (
	"math"

	"github.com/segmentio/ksuid"
)

// SeriesPoint is one entry of a Process's recorded (t, I, R) time series.
type SeriesPoint struct {
	Time      float64
	Infected  int
	Recovered int
}

// Process is the public façade over a StochasticEngine and Sampler: it
// sequences lifetime draws, event application, and time-series recording,
// and offers the R0 and final-size estimators.
type Process struct {
	engine  *StochasticEngine
	sampler *Sampler
	runID   ksuid.KSUID

	series  []SeriesPoint
	elapsed float64

	tracing       bool
	transmissions []TransmissionEvent
}

// NewProcess constructs a Process around a fresh engine for graph with the
// given rates. The sampler is seeded with seed; call InitializeRandom or
// Initialize before evolving.
func NewProcess(graph *Graph, transmissionRate, recoveryRate, waningRate, base float64, seed int64) *Process {
	return &Process{
		engine:  NewStochasticEngine(graph, transmissionRate, recoveryRate, waningRate, base),
		sampler: NewSampler(seed),
		runID:   ksuid.New(),
	}
}

// RunID returns the KSUID minted for this Process instance, used to
// disambiguate logged rows across concurrently-running replicates.
func (p *Process) RunID() ksuid.KSUID { return p.runID }

// Engine exposes the underlying engine, primarily for tests.
func (p *Process) Engine() *StochasticEngine { return p.engine }

// SetSeed reseeds the sampler's RNG without touching engine state. Combined
// with Reset, this lets a caller reproduce "reseed on reset" explicitly.
func (p *Process) SetSeed(seed int64) {
	p.sampler.Reseed(seed)
}

// SetTracing enables or disables transmission tracing, independent of Reset
// and Evolve.
func (p *Process) SetTracing(tracing bool) {
	p.tracing = tracing
	if tracing {
		p.transmissions = p.transmissions[:0]
	}
}

// Transmissions returns the (source, target) pairs recorded while tracing
// was enabled.
func (p *Process) Transmissions() []TransmissionEvent {
	return p.transmissions
}

// InitializeRandom seeds the RNG and infects uniformly random Susceptible
// nodes until floor(fraction*N) nodes are Infected.
func (p *Process) InitializeRandom(fraction float64, seed int64) error {
	if fraction < 0 || fraction > 1 {
		return NewInvalidArgumentError(InvalidFloatParameterError, "fraction", fraction, "must be in [0,1]")
	}
	p.sampler.Reseed(seed)
	n := p.engine.Graph().Size()
	target := int(fraction * float64(n))
	for p.engine.InfectedCount() < target {
		u := int(p.sampler.rng.Float64() * float64(n))
		if u >= n {
			u = n - 1
		}
		if p.engine.State(u) == Susceptible {
			p.engine.Infect(u)
		}
	}
	p.pushInitialPoint()
	return nil
}

// Initialize infects every node in infectedSet and marks every node in
// recoveredSet Recovered. If seed is non-nil, the RNG is reseeded first.
func (p *Process) Initialize(infectedSet, recoveredSet []int, seed *int64) error {
	if seed != nil {
		p.sampler.Reseed(*seed)
	}
	for _, u := range recoveredSet {
		if err := p.engine.SetRecovered(u); err != nil {
			return err
		}
	}
	for _, u := range infectedSet {
		if err := p.engine.Infect(u); err != nil {
			return err
		}
	}
	p.pushInitialPoint()
	return nil
}

func (p *Process) pushInitialPoint() {
	p.series = p.series[:0]
	p.elapsed = 0
	p.series = append(p.series, SeriesPoint{
		Time:      0,
		Infected:  p.engine.InfectedCount(),
		Recovered: p.engine.RecoveredCount(),
	})
}

// Reset clears the recorded series and restores the engine to all-
// Susceptible. It does not reseed the RNG; call SetSeed explicitly first if
// reseed-on-reset behaviour is desired.
func (p *Process) Reset() {
	p.series = p.series[:0]
	p.elapsed = 0
	p.transmissions = p.transmissions[:0]
	p.engine.Reset()
}

// IsAbsorbed reports whether the engine can no longer produce events.
func (p *Process) IsAbsorbed() bool {
	return p.engine.IsAbsorbed()
}

// TimeSeries returns the recorded (t, I, R) points.
func (p *Process) TimeSeries() []SeriesPoint {
	return p.series
}

// NextState advances the process by repeatedly drawing and applying events
// until the infected count changes relative to the last recorded point (a
// "productive" event), then appends the new point. A no-op if already
// absorbed.
func (p *Process) NextState() {
	if p.engine.IsAbsorbed() {
		return
	}
	lastInfected := p.engine.InfectedCount()
	for {
		total := p.engine.Tree().Total()
		dt := p.sampler.Lifetime(total)
		p.elapsed += dt
		var tracingPtr *[]TransmissionEvent
		if p.tracing {
			tracingPtr = &p.transmissions
		}
		p.sampler.Step(p.engine, tracingPtr)
		if p.engine.IsAbsorbed() || p.engine.InfectedCount() != lastInfected {
			break
		}
	}
	p.series = append(p.series, SeriesPoint{
		Time:      p.elapsed,
		Infected:  p.engine.InfectedCount(),
		Recovered: p.engine.RecoveredCount(),
	})
}

// Evolve repeatedly calls NextState until the process is absorbed or the
// elapsed time accumulated since this call began reaches duration.
func (p *Process) Evolve(duration float64) {
	start := p.elapsed
	for !p.engine.IsAbsorbed() && p.elapsed-start < duration {
		p.NextState()
	}
}

// EstimateR0 estimates the basic reproduction number by repeated single-
// source seeding: for each of sample trials, reset, mark recoveredSet
// Recovered, infect one uniformly random Susceptible source, trace
// transmissions while that source remains Infected, and count the distinct
// targets whose recorded source was the original node. Returns (mean, std)
// over trials. Requires a positive transmission rate.
func (p *Process) EstimateR0(sample int, seed int64, recoveredSet []int) (mean, std float64, err error) {
	if p.engine.transmissionRate <= 0 {
		return 0, 0, NewInvalidArgumentError(InvalidFloatParameterError, "transmission_rate", p.engine.transmissionRate, "must be positive")
	}
	p.sampler.Reseed(seed)
	rng := p.sampler.rng
	counts := make([]float64, 0, sample)

	for s := 0; s < sample; s++ {
		p.Reset()
		for _, u := range recoveredSet {
			p.engine.SetRecovered(u)
		}
		n := p.engine.Graph().Size()
		var source int
		for {
			source = int(rng.Float64() * float64(n))
			if source >= n {
				source = n - 1
			}
			if p.engine.State(source) == Susceptible {
				break
			}
		}
		p.engine.Infect(source)
		p.elapsed = 0
		p.series = p.series[:0]
		p.series = append(p.series, SeriesPoint{Time: 0, Infected: p.engine.InfectedCount(), Recovered: p.engine.RecoveredCount()})

		p.SetTracing(true)
		for p.engine.State(source) == Infected && !p.engine.IsAbsorbed() {
			p.stepOnce()
		}
		p.SetTracing(false)

		distinct := map[int]bool{}
		for _, ev := range p.transmissions {
			if ev.Source == source {
				distinct[ev.Target] = true
			}
		}
		counts = append(counts, float64(len(distinct)))
	}

	mean = 0
	for _, c := range counts {
		mean += c
	}
	mean /= float64(len(counts))
	variance := 0.0
	for _, c := range counts {
		variance += (c - mean) * (c - mean)
	}
	if len(counts) > 1 {
		variance /= float64(len(counts) - 1)
	}
	return mean, math.Sqrt(variance), nil
}

// stepOnce draws and applies a single raw event (unlike NextState, it does
// not coalesce until a productive change), used internally by EstimateR0
// which needs to observe the source node's state after every event.
func (p *Process) stepOnce() {
	total := p.engine.Tree().Total()
	dt := p.sampler.Lifetime(total)
	p.elapsed += dt
	var tracingPtr *[]TransmissionEvent
	if p.tracing {
		tracingPtr = &p.transmissions
	}
	p.sampler.Step(p.engine, tracingPtr)
}

// FinalSizeSample draws sample independent outbreaks from a single random
// source on an SIR engine, evolves each to absorption, and records the
// final R/N fraction whenever it exceeds threshold. Requires the SIR model.
func (p *Process) FinalSizeSample(sample int, seed int64, threshold float64) ([]float64, error) {
	if !p.engine.IsSIR() {
		return nil, NewInvalidArgumentError(InvalidStringParameterError, "model", "non-SIR", "final_size_sample requires the SIR model")
	}
	p.sampler.Reseed(seed)
	rng := p.sampler.rng
	n := p.engine.Graph().Size()
	var results []float64

	for s := 0; s < sample; s++ {
		p.Reset()
		var source int
		for {
			source = int(rng.Float64() * float64(n))
			if source >= n {
				source = n - 1
			}
			if p.engine.State(source) == Susceptible {
				break
			}
		}
		p.engine.Infect(source)
		p.elapsed = 0
		p.series = p.series[:0]
		p.series = append(p.series, SeriesPoint{Time: 0, Infected: p.engine.InfectedCount(), Recovered: p.engine.RecoveredCount()})

		p.Evolve(math.Inf(1))

		finalFraction := float64(p.engine.RecoveredCount()) / float64(n)
		if finalFraction > threshold {
			results = append(results, finalFraction)
		}
	}
	return results, nil
}
