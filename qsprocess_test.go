package contagiongo

import "testing"

func TestQSProcessReflectsOffAbsorption(t *testing.T) {
	g := triangleGraph(t)
	p := NewProcess(g, 0.5, 1, 0, 2, 5) // SIR
	qs := NewQSProcess(p, 10, 2.0)
	if err := qs.Initialize([]int{0}, nil, nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	qs.Evolve(50.0)
	// The SIR triangle reaches I=0 well within 50 time units. Every event
	// is recorded before the reflection check, so a reflection shows up as
	// a series point with I=0, and the engine must not be left absorbed.
	if qs.process.Engine().Graph().Size() != 3 {
		t.Fatalf("unexpected graph size %d", qs.process.Engine().Graph().Size())
	}
	reflected := false
	for _, pt := range qs.process.TimeSeries() {
		if pt.Infected == 0 {
			reflected = true
		}
	}
	if !reflected {
		t.Error("expected at least one absorbing event followed by a reflection")
	}
	if qs.process.IsAbsorbed() {
		t.Error("expected the reservoir reflection to leave the process non-absorbed")
	}
}

func TestQSProcessUnsupportedOperations(t *testing.T) {
	g := triangleGraph(t)
	p := NewProcess(g, 0.5, 1, 0, 2, 5)
	qs := NewQSProcess(p, 5, 1.0)
	qs.Initialize([]int{0}, nil, nil)

	if err := qs.SetTracing(true); err == nil {
		t.Error("expected SetTracing to be unsupported")
	}
	if err := qs.NextState(); err == nil {
		t.Error("expected NextState to be unsupported")
	}
	if _, err := qs.TimeSeries(); err == nil {
		t.Error("expected TimeSeries to be unsupported")
	}
	if _, _, err := qs.EstimateR0(10, 0, nil); err == nil {
		t.Error("expected EstimateR0 to be unsupported")
	}
	if _, err := qs.FinalSizeSample(10, 0, 1e-4); err == nil {
		t.Error("expected FinalSizeSample to be unsupported")
	}
}
