package contagiongo

import (
	"math"
	"math/rand"

	rv "github.com/kentwait/randomvariate"
)

// lifetimeTableSize is the number of precomputed log-table entries used to
// approximate exponential inter-event draws without a direct math.Log call
// on the hot path.
const lifetimeTableSize = 100000

// buildLifetimeTable precomputes -ln((i+0.5)/TABLE_SIZE) for i in
// [0, TABLE_SIZE), the same table the reference implementation builds once
// per process.
func buildLifetimeTable() []float64 {
	table := make([]float64, lifetimeTableSize)
	for i := 0; i < lifetimeTableSize; i++ {
		table[i] = -math.Log((float64(i) + 0.5) / float64(lifetimeTableSize))
	}
	return table
}

// indexMap maps a uniform draw in [0,1) into a lifetime-table index in
// [0, TABLE_SIZE).
func indexMap(r float64) int {
	idx := int(float64(lifetimeTableSize) * r)
	if idx >= lifetimeTableSize {
		idx = lifetimeTableSize - 1
	}
	return idx
}

// Sampler draws and dispatches one Gillespie event against an engine, using
// a private RNG so that multiple simulations can run concurrently without
// sharing mutable generator state.
type Sampler struct {
	rng           *rand.Rand
	lifetimeTable []float64
}

// NewSampler constructs a Sampler seeded deterministically from seed.
func NewSampler(seed int64) *Sampler {
	return &Sampler{
		rng:           rand.New(rand.NewSource(seed)),
		lifetimeTable: buildLifetimeTable(),
	}
}

// Reseed replaces the sampler's RNG with a freshly seeded one.
func (s *Sampler) Reseed(seed int64) {
	s.rng = rand.New(rand.NewSource(seed))
}

// Lifetime draws an exponential inter-event time with rate totalRate, using
// the precomputed log table indexed by a uniform draw.
func (s *Sampler) Lifetime(totalRate float64) float64 {
	if totalRate <= 0 {
		return math.Inf(1)
	}
	r := s.rng.Float64()
	return s.lifetimeTable[indexMap(r)] / totalRate
}

// LifetimeExact draws an exponential inter-event time with rate totalRate
// directly, without the table, via the same Exponential distribution helper
// the teacher uses elsewhere for Poisson/Binomial draws.
func (s *Sampler) LifetimeExact(totalRate float64) float64 {
	if totalRate <= 0 {
		return math.Inf(1)
	}
	return rv.Exponential(totalRate)
}

// TransmissionEvent reports a successful infection, used when tracing is
// enabled.
type TransmissionEvent struct {
	Source int
	Target int
}

// Step draws and applies exactly one event against engine. If tracing is
// non-nil, any successful transmission is appended to it.
func (s *Sampler) Step(e *StochasticEngine, tracing *[]TransmissionEvent) {
	k := e.Tree().SampleLeaf(s.rng.Float64())
	group := e.Groups()

	var i, node int
	var propensity float64
	maxPropensity := group.MaxPropensity(k)
	for {
		n := group.Size(k)
		if n == 0 {
			return
		}
		i = int(s.rng.Float64() * float64(n))
		if i >= n {
			i = n - 1
		}
		node, propensity = group.At(k, i)
		if s.rng.Float64() < propensity/maxPropensity {
			break
		}
	}

	if e.State(node) == Recovered {
		e.ImmunityLoss(k, i)
		return
	}

	// node is Infected.
	rGamma := s.rng.Float64()
	recoveryShare := 0.0
	if e.recoveryRate > 0 {
		recoveryShare = e.recoveryRate / propensity
	}
	if rGamma < recoveryShare {
		e.Recover(k, i)
		return
	}

	neighbors := e.Graph().Neighbors(node)
	if len(neighbors) == 0 {
		return
	}
	j := int(s.rng.Float64() * float64(len(neighbors)))
	if j >= len(neighbors) {
		j = len(neighbors) - 1
	}
	target := neighbors[j]
	if e.State(target) == Susceptible {
		e.Infect(target)
		if tracing != nil {
			*tracing = append(*tracing, TransmissionEvent{Source: node, Target: target})
		}
	}
	// else: rejected transmission, no state change.
}
