package bench

import (
	"bytes"
	"context"
	"errors"
	randv2 "math/rand/v2"
	"slices"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/benz9527/idxbench/lib/hrtime"
	"github.com/benz9527/idxbench/lib/index"
	"github.com/benz9527/idxbench/xlog"
)

// fakeIndex charges a fixed cost per deletion, independent of the clock.
type fakeIndex struct {
	keys   map[int]struct{}
	cost   func(key int) index.Timing
	drop   int
	insert []int
}

func (idx *fakeIndex) Name() string { return "fake" }
func (idx *fakeIndex) Len() int64   { return int64(len(idx.keys)) }

func (idx *fakeIndex) Insert(key int) bool {
	idx.insert = append(idx.insert, key)
	if _, ok := idx.keys[key]; ok || key == idx.drop {
		return false
	}
	idx.keys[key] = struct{}{}
	return true
}

func (idx *fakeIndex) Delete(key int) (index.Timing, bool) {
	if _, ok := idx.keys[key]; !ok {
		return index.Timing{SearchRemovalNanos: 1}, false
	}
	delete(idx.keys, key)
	return idx.cost(key), true
}

func (idx *fakeIndex) Contains(key int) bool {
	_, ok := idx.keys[key]
	return ok
}

func (idx *fakeIndex) Foreach(action func(i int64, key int) bool) {
	keys := lo.Keys(idx.keys)
	slices.Sort(keys)
	for i, key := range keys {
		if !action(int64(i), key) {
			return
		}
	}
}

func (idx *fakeIndex) Release() {
	clear(idx.keys)
}

func fakeStructure(name string, cost func(key int) index.Timing, built *[]*fakeIndex) Structure {
	return Structure{
		Name: name,
		New: func(_ hrtime.Clock, _ *randv2.Rand) index.Index[int] {
			idx := &fakeIndex{keys: map[int]struct{}{}, cost: cost}
			if built != nil {
				*built = append(*built, idx)
			}
			return idx
		},
	}
}

type recordingSink struct {
	batches [][]Row
	err     error
	closed  bool
}

func (sink *recordingSink) Write(rows []Row) error {
	sink.batches = append(sink.batches, slices.Clone(rows))
	return sink.err
}

func (sink *recordingSink) Close() error {
	sink.closed = true
	return sink.err
}

type countingSampler struct {
	calls []string
}

func (s *countingSampler) SampleMemory(structure string, n int) (uint64, error) {
	s.calls = append(s.calls, structure)
	if structure == "broken" {
		return 0, errors.New("no procfs")
	}
	return uint64(n), nil
}

func testLogger(buf *bytes.Buffer) xlog.XLogger {
	return xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
		xlog.WithXLoggerWriter(buf),
	)
}

func TestRunner_ExactSums(t *testing.T) {
	buf := &bytes.Buffer{}
	sink := &recordingSink{}
	r, err := NewRunner(testLogger(buf), []int{3, 1, 2}, 12345,
		WithRunnerStructures(
			fakeStructure("A", func(key int) index.Timing {
				return index.Timing{SearchRemovalNanos: int64(key), RebalanceNanos: 1}
			}, nil),
			fakeStructure("B", func(int) index.Timing {
				return index.Timing{SearchRemovalNanos: 2}
			}, nil),
		),
		WithRunnerSinks(sink, nil),
	)
	require.NoError(t, err)

	rows, err := r.Run(context.Background())
	require.NoError(t, err)
	expected := []Row{
		{"A", 3, 6, 3, 9},
		{"B", 3, 6, 0, 6},
		{"A", 1, 1, 1, 2},
		{"B", 1, 2, 0, 2},
		{"A", 2, 3, 2, 5},
		{"B", 2, 4, 0, 4},
	}
	require.Equal(t, expected, rows)

	// One batch per size, in the configured order.
	require.Len(t, sink.batches, 3)
	require.Equal(t, expected[:2], sink.batches[0])
	require.Equal(t, expected[2:4], sink.batches[1])
	require.Equal(t, expected[4:], sink.batches[2])

	require.NoError(t, r.Close())
	require.True(t, sink.closed)
}

func TestRunner_BestOfTrials(t *testing.T) {
	var (
		costs = []int64{5, 1, 3}
		built []*fakeIndex
	)
	sampler := &countingSampler{}
	s := Structure{
		Name: "A",
		New: func(clock hrtime.Clock, rng *randv2.Rand) index.Index[int] {
			trial := len(built)
			return fakeStructure("A", func(int) index.Timing {
				return index.Timing{SearchRemovalNanos: costs[trial], RebalanceNanos: costs[trial]}
			}, &built).New(clock, rng)
		},
	}
	r, err := NewRunner(testLogger(&bytes.Buffer{}), []int{16}, 7,
		WithRunnerStructures(s),
		WithRunnerTrials(len(costs)),
		WithRunnerMemorySampler(sampler),
	)
	require.NoError(t, err)

	rows, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Row{{"A", 16, 16, 16, 32}}, rows)
	require.Len(t, built, 3)
	require.Equal(t, []string{"A", "A", "A"}, sampler.calls)

	// Each trial draws a fresh permutation from the same generator.
	require.NotEqual(t, built[0].insert, built[1].insert)
	for _, idx := range built {
		require.ElementsMatch(t, lo.RangeFrom(1, 16), idx.insert)
		require.Zero(t, idx.Len())
	}
}

func TestRunner_Reproducible(t *testing.T) {
	orderOf := func(seed uint64) []int {
		var built []*fakeIndex
		r, err := NewRunner(testLogger(&bytes.Buffer{}), []int{32}, seed,
			WithRunnerStructures(fakeStructure("A", func(int) index.Timing { return index.Timing{} }, &built)),
		)
		require.NoError(t, err)
		_, err = r.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, built, 1)
		return built[0].insert
	}
	require.Equal(t, orderOf(12345), orderOf(12345))
	require.NotEqual(t, orderOf(12345), orderOf(54321))
}

func TestRunner_AbsentKeyAndSamplerError(t *testing.T) {
	buf := &bytes.Buffer{}
	var built []*fakeIndex
	s := fakeStructure("broken", func(int) index.Timing {
		return index.Timing{SearchRemovalNanos: 10, RebalanceNanos: 10}
	}, &built)
	inner := s.New
	s.New = func(clock hrtime.Clock, rng *randv2.Rand) index.Index[int] {
		idx := inner(clock, rng).(*fakeIndex)
		idx.drop = 2
		return idx
	}
	r, err := NewRunner(testLogger(buf), []int{3}, 1,
		WithRunnerStructures(s),
		WithRunnerMemorySampler(&countingSampler{}),
	)
	require.NoError(t, err)

	rows, err := r.Run(context.Background())
	require.NoError(t, err)
	// Key 2 was never stored, its deletion costs 1ns of search and no rebalance.
	require.Equal(t, []Row{{"broken", 3, 21, 20, 41}}, rows)
	require.Contains(t, buf.String(), "deleted key not found")
	require.Contains(t, buf.String(), "memory sample failed")
}

func TestRunner_SinkErrorAborts(t *testing.T) {
	failing := &recordingSink{err: errors.New("disk full")}
	r, err := NewRunner(testLogger(&bytes.Buffer{}), []int{2, 4}, 1,
		WithRunnerStructures(fakeStructure("A", func(int) index.Timing { return index.Timing{} }, nil)),
		WithRunnerSinks(failing),
	)
	require.NoError(t, err)

	rows, err := r.Run(context.Background())
	require.Error(t, err)
	require.Empty(t, rows)
	require.Len(t, failing.batches, 1)
	require.Error(t, r.Close())
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := NewRunner(testLogger(&bytes.Buffer{}), []int{2}, 1)
	require.NoError(t, err)
	_, err = r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewRunner_Invalid(t *testing.T) {
	logger := testLogger(&bytes.Buffer{})
	_, err := NewRunner(logger, []int{1, 0}, 1)
	require.Error(t, err)
	_, err = NewRunner(logger, []int{1}, 1, WithRunnerTrials(0))
	require.Error(t, err)
	_, err = NewRunner(logger, []int{1}, 1, WithRunnerStructures())
	require.Error(t, err)
	_, err = NewRunner(logger, []int{1}, 1, WithRunnerClock(nil))
	require.Error(t, err)
}

type stepClock struct {
	nanos int64
}

func (c *stepClock) Now() hrtime.Timestamp {
	c.nanos++
	return hrtime.FromNanos(c.nanos)
}

func TestRunner_DefaultStructures(t *testing.T) {
	r, err := NewRunner(testLogger(&bytes.Buffer{}), []int{64, 16}, 12345,
		WithRunnerClock(&stepClock{}),
	)
	require.NoError(t, err)
	rows, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 6)

	names := lo.Map(rows, func(row Row, _ int) string { return row.Structure })
	require.Equal(t, []string{
		StructureAVL, StructureRB, StructureSkipList,
		StructureAVL, StructureRB, StructureSkipList,
	}, names)
	for i, row := range rows {
		expectedN := 64
		if i >= 3 {
			expectedN = 16
		}
		require.Equal(t, expectedN, row.N)
		// Every deletion reads the clock at least twice.
		require.GreaterOrEqual(t, row.SearchRemovalNanos, int64(row.N))
		require.Equal(t, row.SearchRemovalNanos+row.RebalanceNanos, row.TotalNanos)
		if row.Structure == StructureSkipList {
			require.Zero(t, row.RebalanceNanos)
		}
		if row.Structure == StructureAVL {
			require.GreaterOrEqual(t, row.RebalanceNanos, int64(row.N))
		}
	}
}
