package list

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/benz9527/idxbench/lib/hrtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	nanos int64
}

func (c *stepClock) Now() hrtime.Timestamp {
	c.nanos++
	return hrtime.FromNanos(c.nanos)
}

func newTestSkl(seed uint64, opts ...SklOpt[int]) SkipList[int] {
	rng := randv2.New(randv2.NewPCG(seed, seed))
	return NewSkipList[int](append([]SklOpt[int]{WithSklRand[int](rng)}, opts...)...)
}

func sklKeys(skl SkipList[int]) []int {
	keys := make([]int, 0, skl.Len())
	skl.Foreach(func(idx int64, key int) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func TestRandomLevel(t *testing.T) {
	rng := randv2.New(randv2.NewPCG(12345, 12345))
	counts := make(map[int32]int)
	total := 100_000
	for i := 0; i < total; i++ {
		lvl := randomLevel(rng, sklMaxLevel)
		require.GreaterOrEqual(t, lvl, int32(1))
		require.LessOrEqual(t, lvl, int32(sklMaxLevel))
		counts[lvl]++
	}
	// Geometric with p = 0.5, roughly half of the draws stay at level 1.
	assert.InDelta(t, 0.5, float64(counts[1])/float64(total), 0.02)
	assert.InDelta(t, 0.25, float64(counts[2])/float64(total), 0.02)

	require.Equal(t, int32(1), randomLevel(rng, 1))
}

func TestSkipList_SequentialFind(t *testing.T) {
	skl := newTestSkl(12345)
	require.Equal(t, "SkipList", skl.Name())
	for i := 1; i <= 50; i++ {
		require.True(t, skl.Insert(i))
		require.NoError(t, SklOrderValidate(skl))
	}
	require.Equal(t, int64(50), skl.Len())
	require.Greater(t, skl.Level(), int32(0))

	expected := make([]int, 0, 50)
	for i := 1; i <= 50; i++ {
		expected = append(expected, i)
	}
	require.Equal(t, expected, sklKeys(skl))

	for i := 1; i <= 50; i++ {
		visited := make([]int, 0, 8)
		found := skl.Find(i, func(node SklNode[int]) {
			visited = append(visited, node.Key())
		})
		require.True(t, found)
		require.NotEmpty(t, visited)
		require.Equal(t, i, visited[len(visited)-1])
		for j, key := range visited {
			require.LessOrEqual(t, key, i)
			if j > 0 {
				require.Less(t, visited[j-1], key)
			}
		}
	}

	visited := 0
	require.False(t, skl.Find(51, func(node SklNode[int]) {
		require.Less(t, node.Key(), 51)
		visited++
	}))
	require.Greater(t, visited, 0)
	require.False(t, skl.Find(0))
}

func TestSkipList_DuplicateAndAbsent(t *testing.T) {
	clock := &stepClock{}
	skl := newTestSkl(1, WithSklClock[int](clock))

	timing, ok := skl.Delete(1)
	require.False(t, ok)
	require.Equal(t, int64(1), timing.SearchRemovalNanos)
	require.Equal(t, int64(0), timing.RebalanceNanos)

	for _, key := range []int{8, 2, 6, 4} {
		require.True(t, skl.Insert(key))
	}
	level := skl.Level()
	require.False(t, skl.Insert(6))
	require.Equal(t, int64(4), skl.Len())
	require.Equal(t, level, skl.Level())

	timing, ok = skl.Delete(5)
	require.False(t, ok)
	require.Equal(t, int64(1), timing.SearchRemovalNanos)
	require.Equal(t, int64(0), timing.RebalanceNanos)
	require.Equal(t, []int{2, 4, 6, 8}, sklKeys(skl))
	require.True(t, skl.Contains(8))
	require.False(t, skl.Contains(5))

	timing, ok = skl.Delete(6)
	require.True(t, ok)
	require.Equal(t, int64(1), timing.SearchRemovalNanos)
	require.Equal(t, int64(0), timing.RebalanceNanos)
	require.Equal(t, []int{2, 4, 8}, sklKeys(skl))
	require.NoError(t, SklOrderValidate(skl))
}

func TestSkipList_RandomInsertAndDelete(t *testing.T) {
	type testcase struct {
		name  string
		total int
		seed  uint64
	}
	testcases := []testcase{
		{name: "seed 3", total: 1000, seed: 3},
		{name: "seed 12345", total: 5000, seed: 12345},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			rng := randv2.New(randv2.NewPCG(tc.seed, tc.seed))
			keys := rng.Perm(tc.total)
			skl := NewSkipList[int](WithSklRand[int](rng))

			for _, key := range keys {
				require.True(tt, skl.Insert(key))
			}
			require.NoError(tt, SklOrderValidate(skl))
			require.Equal(tt, int64(tc.total), skl.Len())
			skl.Foreach(func(idx int64, key int) bool {
				require.Equal(tt, int(idx), key)
				return true
			})

			for i, key := range keys {
				timing, ok := skl.Delete(key)
				require.True(tt, ok)
				require.Equal(tt, int64(0), timing.RebalanceNanos)
				require.False(tt, skl.Contains(key))
				require.Equal(tt, int64(tc.total-i-1), skl.Len())
				if i%100 == 0 {
					require.NoError(tt, SklOrderValidate(skl))
				}
			}
			require.NoError(tt, SklOrderValidate(skl))
			require.Equal(tt, int32(0), skl.Level())
			require.Nil(tt, skl.First(0))
		})
	}
}

func TestSkipList_Reproducible(t *testing.T) {
	levels := func(seed uint64) []int32 {
		skl := newTestSkl(seed)
		for i := 0; i < 200; i++ {
			skl.Insert(i)
		}
		res := make([]int32, 0, 200)
		for node := skl.First(0); node != nil; node = node.Next(0) {
			res = append(res, node.Level())
		}
		return res
	}
	require.Equal(t, levels(42), levels(42))
	require.NotEqual(t, levels(42), levels(43))
}

func TestSkipList_Release(t *testing.T) {
	skl := newTestSkl(9)
	for i := 0; i < 10_000; i++ {
		skl.Insert(i)
	}
	skl.Release()
	require.Equal(t, int64(0), skl.Len())
	require.Equal(t, int32(0), skl.Level())
	require.Empty(t, sklKeys(skl))
	require.NoError(t, SklOrderValidate(skl))

	require.True(t, skl.Insert(3))
	require.Equal(t, []int{3}, sklKeys(skl))
}

func BenchmarkSkipList_Insert(b *testing.B) {
	b.StopTimer()
	skl := newTestSkl(1)
	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		skl.Insert(rngArr[i])
	}
}
