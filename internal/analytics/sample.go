package analytics

import (
	"math/rand/v2"
	"sort"
)

// Sample draws min(n, len(records)) records uniformly without replacement.
// The result keeps dataset order. The same rng state gives the same sample.
func Sample(records []Recipe, n int, rng *rand.Rand) ([]Recipe, error) {
	if n < 0 {
		return nil, &InvalidParameterError{Name: "n", Value: n, Reason: "must not be negative"}
	}
	if n >= len(records) {
		return append([]Recipe(nil), records...), nil
	}
	if rng == nil {
		return nil, &InvalidParameterError{Name: "rng", Value: nil, Reason: "a random source is required"}
	}

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	// partial Fisher-Yates: the first n slots end up a uniform draw
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	picked := idx[:n]
	sort.Ints(picked)

	out := make([]Recipe, n)
	for i, p := range picked {
		out[i] = records[p]
	}
	return out, nil
}

// NewRand returns a deterministic generator for a seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
