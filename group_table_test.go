package contagiongo

import "testing"

func TestGroupTablePushAndSwapPopRemove(t *testing.T) {
	h := NewPropensityHash(1, 4, 2)
	g := NewGroupTable(h.NumGroups(), h, 8)

	i0 := g.Push(0, 10, 1.5)
	i1 := g.Push(0, 20, 1.6)
	i2 := g.Push(0, 30, 1.7)
	if g.Size(0) != 3 {
		t.Fatalf("expected 3 entries, got %d", g.Size(0))
	}

	// Remove the first entry; the last entry should take its slot.
	g.Remove(0, i0)
	if g.Size(0) != 2 {
		t.Fatalf("expected 2 entries after remove, got %d", g.Size(0))
	}
	node, _ := g.At(0, i0)
	if node != 30 {
		t.Errorf("expected swap-pop to move node 30 into slot %d, got node %d", i0, node)
	}
	_ = i1
	_ = i2
}

func TestGroupTableCopyIndependence(t *testing.T) {
	h := NewPropensityHash(1, 4, 2)
	g := NewGroupTable(h.NumGroups(), h, 4)
	g.Push(0, 1, 1.0)
	cp := g.Copy()
	g.Push(0, 2, 1.0)
	if cp.Size(0) != 1 {
		t.Fatalf("expected copy to be unaffected by later push, got size %d", cp.Size(0))
	}
}
