package dataset

import (
	randv2 "math/rand/v2"
)

// Permutation returns the keys 1..n shuffled by a Fisher-Yates walk from
// the tail. The generator is always passed in, identical seeds give
// identical permutations.
func Permutation(n int, rng *randv2.Rand) []int {
	if n <= 0 {
		return []int{}
	}
	keys := make([]int, n)
	for i := 0; i < n; i++ {
		keys[i] = i + 1
	}
	for i := n - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys
}

// NewRand builds the PCG generator a run is reproduced from.
func NewRand(seed uint64) *randv2.Rand {
	return randv2.New(randv2.NewPCG(seed, seed))
}
