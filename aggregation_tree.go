package contagiongo

// AggregationTree is a complete binary sum-tree over K leaves, represented
// as a flat 1-indexed array of length 2K (slot 0 unused). Leaf k is stored
// at index K+k; an internal node i has children 2i and 2i+1 and parent i/2.
// Every internal node's value is the sum of the leaves beneath it, so the
// root (index 1) always equals the total of all leaves.
type AggregationTree struct {
	k      int
	values []float64
}

// NewAggregationTree allocates a tree with k real leaves, all initialized
// to zero.
func NewAggregationTree(k int) *AggregationTree {
	if k < 1 {
		k = 1
	}
	return &AggregationTree{
		k:      k,
		values: make([]float64, 2*k),
	}
}

// NumLeaves returns K.
func (t *AggregationTree) NumLeaves() int {
	return t.k
}

// SetOrDelta adds delta to leaf k's value and propagates the same delta to
// every ancestor up to the root. O(log K).
func (t *AggregationTree) SetOrDelta(leaf int, delta float64) {
	i := t.k + leaf
	for i >= 1 {
		t.values[i] += delta
		i /= 2
	}
}

// Total returns the root value: the sum of every leaf, i.e. the current
// total event rate R.
func (t *AggregationTree) Total() float64 {
	if len(t.values) == 0 {
		return 0
	}
	return t.values[1]
}

// LeafValue returns the current value stored at leaf k.
func (t *AggregationTree) LeafValue(leaf int) float64 {
	return t.values[t.k+leaf]
}

// SampleLeaf performs a top-down walk driven by r in [0,1) and returns the
// chosen leaf index. Ties at a boundary break left. If the tree total is
// zero the walk still terminates and returns leaf 0 (callers must check
// absorption before sampling in normal use).
func (t *AggregationTree) SampleLeaf(r float64) int {
	total := t.Total()
	if total <= 0 {
		return 0
	}
	target := r * total
	i := 1
	for i < t.k {
		left := t.values[2*i]
		if target <= left {
			i = 2 * i
		} else {
			target -= left
			i = 2*i + 1
		}
	}
	return i - t.k
}

// Copy returns a deep, value-semantic copy of the tree.
func (t *AggregationTree) Copy() *AggregationTree {
	cp := &AggregationTree{
		k:      t.k,
		values: make([]float64, len(t.values)),
	}
	copy(cp.values, t.values)
	return cp
}

// Restore overwrites this tree's contents with a deep copy of other's. Both
// trees must have the same leaf count.
func (t *AggregationTree) Restore(other *AggregationTree) {
	copy(t.values, other.values)
}
