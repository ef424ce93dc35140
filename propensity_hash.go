package contagiongo

import "math"

// PropensityHash maps a propensity value in [propensityMin, propensityMax]
// to one of numGroups logarithmically-spaced group indices.
type PropensityHash struct {
	propensityMin float64
	propensityMax float64
	base          float64
	numGroups     int
	powerOfBase   bool
}

// NewPropensityHash constructs a hash for the given propensity range and
// logarithm base. numGroups is max(ceil(log_b(pmax/pmin)), 1).
func NewPropensityHash(propensityMin, propensityMax, base float64) *PropensityHash {
	ratio := propensityMax / propensityMin
	logRatio := math.Log(ratio) / math.Log(base)
	numGroups := int(math.Ceil(logRatio))
	if numGroups < 1 {
		numGroups = 1
	}
	powerOfBase := propensityMax != propensityMin &&
		math.Floor(logRatio) == math.Ceil(logRatio)
	return &PropensityHash{
		propensityMin: propensityMin,
		propensityMax: propensityMax,
		base:          base,
		numGroups:     numGroups,
		powerOfBase:   powerOfBase,
	}
}

// NumGroups returns G, the number of logarithmic bins.
func (h *PropensityHash) NumGroups() int {
	return h.numGroups
}

// Index returns the group index for propensity p. Behaviour is unspecified
// for p outside [propensityMin, propensityMax]; callers must stay in range.
func (h *PropensityHash) Index(p float64) int {
	idx := int(math.Floor(math.Log(p/h.propensityMin) / math.Log(h.base)))
	if h.powerOfBase && p == h.propensityMax {
		idx--
	}
	if idx < 0 {
		idx = 0
	}
	if idx > h.numGroups-1 {
		idx = h.numGroups - 1
	}
	return idx
}

// MaxPropensityForGroup returns the rejection-sampling envelope for group k:
// base^(k+1) * propensityMin, clamped to propensityMax for the last group.
func (h *PropensityHash) MaxPropensityForGroup(k int) float64 {
	if k == h.numGroups-1 {
		return h.propensityMax
	}
	return math.Pow(h.base, float64(k+1)) * h.propensityMin
}
