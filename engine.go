package contagiongo

import "math"

// NodeState is the compartmental state of a single node.
type NodeState int

const (
	Susceptible NodeState = iota
	Infected
	Recovered
)

// Configuration is an immutable, value-semantic snapshot of an engine's
// entire mutable state: enough to exactly reproduce subsequent dynamics
// given the same RNG.
type Configuration struct {
	states    []NodeState
	inert     []int
	tree      *AggregationTree
	groups    *GroupTable
	infected  int
	recovered int
}

// StochasticEngine owns the graph, rates, and all mutable simulation state:
// the per-node state vector, the propensity hash, the group table, the
// aggregation tree, and (for the SIR model) the inert (recovered) list.
type StochasticEngine struct {
	graph *Graph

	transmissionRate float64 // beta
	recoveryRate     float64 // gamma
	waningRate       float64 // alpha; 0 means SIR, +Inf means SIS, finite>0 means SIRS

	hash   *PropensityHash
	tree   *AggregationTree
	groups *GroupTable

	states []NodeState
	inert  []int // recovered node ids outside SIRS (set by Recover in SIR, by SetRecovered in SIR/SIS/SI), for O(1) reset

	groupOfDegree map[int]int
	groupOfWaning int

	infected  int
	recovered int
}

// NewStochasticEngine builds an engine over graph with the given rates.
// waningRate == 0 selects SIR; math.Inf(1) selects SIS; a finite positive
// value selects SIRS; recoveryRate == 0 selects SI.
func NewStochasticEngine(graph *Graph, transmissionRate, recoveryRate, waningRate, base float64) *StochasticEngine {
	n := graph.Size()

	minDegree, maxDegree := math.MaxInt64, 0
	for u := 0; u < n; u++ {
		d := graph.Degree(u)
		if d < minDegree {
			minDegree = d
		}
		if d > maxDegree {
			maxDegree = d
		}
	}
	if n == 0 {
		minDegree, maxDegree = 0, 0
	}

	propensityMin := transmissionRate*float64(minDegree) + recoveryRate
	propensityMax := transmissionRate*float64(maxDegree) + recoveryRate
	if propensityMin <= 0 {
		propensityMin = recoveryRate
		if propensityMin <= 0 {
			propensityMin = 1
		}
	}

	isSIRS := waningRate > 0 && !math.IsInf(waningRate, 1)
	if isSIRS {
		if waningRate < propensityMin {
			propensityMin = waningRate
		}
		if waningRate > propensityMax {
			propensityMax = waningRate
		}
	}

	hash := NewPropensityHash(propensityMin, propensityMax, base)
	tree := NewAggregationTree(hash.NumGroups())
	groups := NewGroupTable(hash.NumGroups(), hash, n)

	groupOfDegree := make(map[int]int, maxDegree-minDegree+1)
	for d := minDegree; d <= maxDegree; d++ {
		groupOfDegree[d] = hash.Index(transmissionRate*float64(d) + recoveryRate)
	}
	groupOfWaning := -1
	if isSIRS {
		groupOfWaning = hash.Index(waningRate)
	}

	return &StochasticEngine{
		graph:            graph,
		transmissionRate: transmissionRate,
		recoveryRate:     recoveryRate,
		waningRate:       waningRate,
		hash:             hash,
		tree:             tree,
		groups:           groups,
		states:           make([]NodeState, n),
		groupOfDegree:    groupOfDegree,
		groupOfWaning:    groupOfWaning,
	}
}

// IsSIR reports whether the engine is configured for the SIR model
// (waningRate == 0).
func (e *StochasticEngine) IsSIR() bool {
	return e.waningRate == 0
}

// IsSIS reports whether the engine is configured for the SIS model
// (waningRate == +Inf).
func (e *StochasticEngine) IsSIS() bool {
	return math.IsInf(e.waningRate, 1)
}

// IsSIRS reports whether the engine is configured for the SIRS model
// (0 < waningRate < +Inf).
func (e *StochasticEngine) IsSIRS() bool {
	return e.waningRate > 0 && !math.IsInf(e.waningRate, 1)
}

// IsSI reports whether the engine is configured for the SI model
// (recoveryRate == 0).
func (e *StochasticEngine) IsSI() bool {
	return e.recoveryRate == 0
}

func (e *StochasticEngine) Graph() *Graph { return e.graph }
func (e *StochasticEngine) Tree() *AggregationTree { return e.tree }
func (e *StochasticEngine) Groups() *GroupTable { return e.groups }
func (e *StochasticEngine) State(u int) NodeState { return e.states[u] }
func (e *StochasticEngine) InfectedCount() int { return e.infected }
func (e *StochasticEngine) RecoveredCount() int { return e.recovered }
func (e *StochasticEngine) SusceptibleCount() int {
	return e.graph.Size() - e.infected - e.recovered
}

// IsAbsorbed reports whether no further stochastic event can occur. For SI,
// saturation (no Susceptible nodes left) is also absorbing: with no more
// targets to transmit to and no recovery, the state vector can never change
// again even though every node remains permanently Infected.
func (e *StochasticEngine) IsAbsorbed() bool {
	if e.IsSI() {
		return e.infected == 0 || e.SusceptibleCount() == 0
	}
	if e.IsSIR() {
		return e.infected == 0
	}
	return e.infected == 0 && e.recovered == 0
}

// Infect transitions node u from Susceptible to Infected.
func (e *StochasticEngine) Infect(u int) error {
	if e.states[u] != Susceptible {
		return NewPreconditionViolationError("cannot infect node %d: not susceptible", u)
	}
	degree := e.graph.Degree(u)
	propensity := e.transmissionRate*float64(degree) + e.recoveryRate
	k := e.groupOfDegree[degree]
	e.groups.Push(k, u, propensity)
	e.tree.SetOrDelta(k, propensity)
	e.states[u] = Infected
	e.infected++
	return nil
}

// Recover transitions the Infected node at group-table position (k, i) out
// of the Infected compartment. Depending on the model it becomes
// Susceptible (SIS), Recovered with waning re-entry into a group (SIRS),
// or Recovered permanently (SIR).
func (e *StochasticEngine) Recover(k, i int) error {
	node, propensity := e.groups.At(k, i)
	if e.states[node] != Infected {
		return NewPreconditionViolationError("cannot recover node %d: not infected", node)
	}
	e.groups.Remove(k, i)
	e.tree.SetOrDelta(k, -propensity)
	e.infected--

	switch {
	case e.IsSIS():
		e.states[node] = Susceptible
	case e.IsSIRS():
		e.states[node] = Recovered
		e.groups.Push(e.groupOfWaning, node, e.waningRate)
		e.tree.SetOrDelta(e.groupOfWaning, e.waningRate)
		e.recovered++
	default: // SIR
		e.states[node] = Recovered
		e.inert = append(e.inert, node)
		e.recovered++
	}
	return nil
}

// ImmunityLoss transitions the Recovered node at group-table position (k, i)
// back to Susceptible. Valid only in the SIRS model.
func (e *StochasticEngine) ImmunityLoss(k, i int) error {
	node, _ := e.groups.At(k, i)
	if e.states[node] != Recovered {
		return NewPreconditionViolationError("cannot lose immunity for node %d: not recovered", node)
	}
	e.groups.Remove(k, i)
	e.tree.SetOrDelta(k, -e.waningRate)
	e.states[node] = Susceptible
	e.recovered--
	return nil
}

// SetRecovered marks node u Recovered directly, used during initialisation
// or R0 setup. It must not be called on an already-Infected node.
func (e *StochasticEngine) SetRecovered(u int) error {
	if e.states[u] == Infected {
		return NewPreconditionViolationError("cannot set node %d recovered: already infected", u)
	}
	if e.states[u] == Recovered {
		return nil
	}
	e.states[u] = Recovered
	if e.IsSIRS() {
		e.groups.Push(e.groupOfWaning, u, e.waningRate)
		e.tree.SetOrDelta(e.groupOfWaning, e.waningRate)
	} else {
		e.inert = append(e.inert, u)
	}
	e.recovered++
	return nil
}

// Reset drains every infected and recovered node back to Susceptible in
// O(I+R), leaving the tree, groups, and counters all zeroed.
func (e *StochasticEngine) Reset() {
	for k := 0; k < e.groups.NumGroups(); k++ {
		for e.groups.Size(k) > 0 {
			last := e.groups.Size(k) - 1
			node, propensity := e.groups.At(k, last)
			e.groups.Remove(k, last)
			e.tree.SetOrDelta(k, -propensity)
			e.states[node] = Susceptible
		}
	}
	for _, node := range e.inert {
		e.states[node] = Susceptible
	}
	e.inert = e.inert[:0]
	e.infected = 0
	e.recovered = 0
}

// Configuration returns a deep, value-semantic snapshot of the engine's
// entire mutable state.
func (e *StochasticEngine) Configuration() *Configuration {
	states := make([]NodeState, len(e.states))
	copy(states, e.states)
	inert := make([]int, len(e.inert))
	copy(inert, e.inert)
	return &Configuration{
		states:    states,
		inert:     inert,
		tree:      e.tree.Copy(),
		groups:    e.groups.Copy(),
		infected:  e.infected,
		recovered: e.recovered,
	}
}

// Restore overwrites the engine's entire mutable state from a snapshot
// previously produced by Configuration.
func (e *StochasticEngine) Restore(c *Configuration) {
	copy(e.states, c.states)
	e.inert = append(e.inert[:0], c.inert...)
	e.tree.Restore(c.tree)
	e.groups.Restore(c.groups)
	e.infected = c.infected
	e.recovered = c.recovered
}
