package contagiongo

import (
	"math"
	"testing"
)

func triangleGraph(t *testing.T) *Graph {
	t.Helper()
	g, err := NewGraph([][2]int{{0, 1}, {0, 2}, {1, 2}})
	if err != nil {
		t.Fatalf("unexpected error building triangle graph: %s", err)
	}
	return g
}

func TestEngineInfectUpdatesInvariants(t *testing.T) {
	g := triangleGraph(t)
	e := NewStochasticEngine(g, 0, 1, 0, 2) // SIR, beta=0, gamma=1

	if err := e.Infect(0); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if e.InfectedCount() != 1 {
		t.Errorf("expected 1 infected, got %d", e.InfectedCount())
	}
	if e.State(0) != Infected {
		t.Errorf("expected node 0 infected")
	}
	expectedRate := 0.0*float64(g.Degree(0)) + 1.0
	if total := e.Tree().Total(); math.Abs(total-expectedRate) > 1e-9 {
		t.Errorf("expected tree total %f, got %f", expectedRate, total)
	}
}

func TestEngineInfectPreconditionViolation(t *testing.T) {
	g := triangleGraph(t)
	e := NewStochasticEngine(g, 1, 1, 0, 2)
	if err := e.Infect(0); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := e.Infect(0); err == nil {
		t.Fatal("expected a precondition violation infecting an already-infected node")
	}
}

func TestEngineResetClearsState(t *testing.T) {
	g := triangleGraph(t)
	e := NewStochasticEngine(g, 1, 1, 0, 2)
	e.Infect(0)
	e.Infect(1)
	e.SetRecovered(2)
	e.Reset()
	if e.InfectedCount() != 0 || e.RecoveredCount() != 0 {
		t.Fatalf("expected zeroed counters after reset, got I=%d R=%d", e.InfectedCount(), e.RecoveredCount())
	}
	if total := e.Tree().Total(); total != 0 {
		t.Fatalf("expected zero tree total after reset, got %f", total)
	}
	for u := 0; u < g.Size(); u++ {
		if e.State(u) != Susceptible {
			t.Errorf("expected node %d susceptible after reset", u)
		}
	}
}

func TestEngineConfigurationRoundTrip(t *testing.T) {
	g, err := completeGraph(5)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	e := NewStochasticEngine(g, 0.5, 1, 0.5, 2) // SIRS
	e.Infect(0)
	e.SetRecovered(1)

	snapshot := e.Configuration()

	// Mutate further, then discard the mutation via Restore.
	e.Infect(2)

	e.Restore(snapshot)
	if e.InfectedCount() != 1 || e.RecoveredCount() != 1 {
		t.Fatalf("expected restored I=1 R=1, got I=%d R=%d", e.InfectedCount(), e.RecoveredCount())
	}
	if e.State(0) != Infected || e.State(1) != Recovered {
		t.Fatalf("expected restored states: node0=Infected node1=Recovered, got %v %v", e.State(0), e.State(1))
	}
}

func TestEngineModelDiscrimination(t *testing.T) {
	g := triangleGraph(t)

	si := NewStochasticEngine(g, 1, 0, 0, 2)
	if !si.IsSI() {
		t.Error("expected SI model when gamma=0")
	}

	sir := NewStochasticEngine(g, 1, 1, 0, 2)
	if !sir.IsSIR() {
		t.Error("expected SIR model when alpha=0")
	}

	sis := NewStochasticEngine(g, 1, 1, math.Inf(1), 2)
	if !sis.IsSIS() {
		t.Error("expected SIS model when alpha=+Inf")
	}

	sirs := NewStochasticEngine(g, 1, 1, 0.5, 2)
	if !sirs.IsSIRS() {
		t.Error("expected SIRS model when 0<alpha<Inf")
	}
}

// completeGraph builds a complete graph on n nodes, used by snapshot tests
// that need a more uniform degree distribution than the triangle graph.
func completeGraph(n int) (*Graph, error) {
	var edges [][2]int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}
	return NewGraph(edges)
}
