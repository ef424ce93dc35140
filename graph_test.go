package contagiongo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEdgeList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.txt")
	if err := os.WriteFile(path, []byte("0 1\n1 2\n2 0\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	g, err := LoadEdgeList(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if g.Size() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.Size())
	}
}

func TestLoadEdgeListRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.txt")
	if err := os.WriteFile(path, []byte("0 1 2\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := LoadEdgeList(path); err == nil {
		t.Fatal("expected an error for a malformed edge list line")
	}
}

func TestNewGraphDegreeAndNeighbors(t *testing.T) {
	g, err := NewGraph([][2]int{{0, 1}, {0, 2}, {1, 2}})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if g.Size() != 3 {
		t.Fatalf("expected size 3, got %d", g.Size())
	}
	for u := 0; u < 3; u++ {
		if d := g.Degree(u); d != 2 {
			t.Errorf("node %d: expected degree 2, got %d", u, d)
		}
	}
}

func TestNewGraphSelfLoopAndParallelEdgesPreserved(t *testing.T) {
	// Self-loop at 0, and a parallel edge between 0 and 1.
	g, err := NewGraph([][2]int{{0, 0}, {0, 1}, {0, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// Self-loop contributes twice to node 0's neighbor list (once per
	// endpoint append), plus the two parallel edges to node 1.
	if d := g.Degree(0); d != 4 {
		t.Errorf("expected degree 4 for node 0 with a self-loop and parallel edge, got %d", d)
	}
	if d := g.Degree(1); d != 2 {
		t.Errorf("expected degree 2 for node 1, got %d", d)
	}
}

func TestNewGraphNegativeNodeIDRejected(t *testing.T) {
	_, err := NewGraph([][2]int{{0, -1}})
	if err == nil {
		t.Fatal("expected an error for a negative node id")
	}
}
