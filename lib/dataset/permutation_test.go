package dataset

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermutation(t *testing.T) {
	type testcase struct {
		name string
		n    int
	}
	testcases := []testcase{
		{name: "one", n: 1},
		{name: "small", n: 7},
		{name: "large", n: 100_000},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			keys := Permutation(tc.n, NewRand(12345))
			require.Len(tt, keys, tc.n)

			sorted := slices.Clone(keys)
			slices.Sort(sorted)
			for i, key := range sorted {
				require.Equal(tt, i+1, key)
			}
		})
	}
}

func TestPermutation_Empty(t *testing.T) {
	require.Empty(t, Permutation(0, NewRand(1)))
	require.Empty(t, Permutation(-3, NewRand(1)))
	require.NotNil(t, Permutation(0, NewRand(1)))
}

func TestPermutation_Reproducible(t *testing.T) {
	require.Equal(t, Permutation(1000, NewRand(12345)), Permutation(1000, NewRand(12345)))
	require.NotEqual(t, Permutation(1000, NewRand(12345)), Permutation(1000, NewRand(54321)))

	// One generator feeds consecutive sizes, the second draw continues the stream.
	rng := NewRand(12345)
	first, second := Permutation(1000, rng), Permutation(1000, rng)
	require.NotEqual(t, first, second)
}
