package bench

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	glogger "gorm.io/gorm/logger"

	"github.com/benz9527/idxbench/store"
)

var testRows = []Row{
	{StructureAVL, 3, 6, 3, 9},
	{StructureRB, 3, 5, 0, 5},
	{StructureSkipList, 3, 7, 0, 7},
}

func TestCSVSink_Format(t *testing.T) {
	buf := &bytes.Buffer{}
	sink, err := NewCSVSink(buf)
	require.NoError(t, err)
	require.Equal(t, "Structure,N,SearchRemovalTime(ns),BalanceTime(ns),TotalTime(ns)\n", buf.String())

	require.NoError(t, sink.Write(testRows))
	require.NoError(t, sink.Close())
	require.Equal(t, "Structure,N,SearchRemovalTime(ns),BalanceTime(ns),TotalTime(ns)\n"+
		"AVL,3,6,3,9\n"+
		"RB,3,5,0,5\n"+
		"SkipList,3,7,0,7\n", buf.String())
}

func TestCSVSink_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content\n"), 0o644))

	sink, err := OpenCSVSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write(testRows[:1]))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Structure,N,SearchRemovalTime(ns),BalanceTime(ns),TotalTime(ns)\nAVL,3,6,3,9\n", string(data))

	_, err = OpenCSVSink(filepath.Join(t.TempDir(), "absent", "results.csv"))
	require.Error(t, err)
}

func TestTableSink(t *testing.T) {
	buf := &bytes.Buffer{}
	sink := NewTableSink(buf)
	require.NoError(t, sink.Close())
	require.Empty(t, buf.String())

	require.NoError(t, sink.Write(testRows))
	require.NoError(t, sink.Close())
	out := buf.String()
	require.Contains(t, out, "AVL")
	require.Contains(t, out, "SkipList")
	require.Contains(t, out, "|")
}

func TestStoreSink(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "results.db"), glogger.Discard)
	require.NoError(t, err)
	sink := NewStoreSink(s, 12345)
	require.NoError(t, sink.Write(testRows))

	results, err := s.ListRun(context.Background(), s.RunID())
	require.NoError(t, err)
	require.Len(t, results, len(testRows))
	for i, res := range results {
		require.Equal(t, testRows[i].Structure, res.Structure)
		require.Equal(t, testRows[i].TotalNanos, res.TotalNanos)
		require.Equal(t, uint64(12345), res.Seed)
	}
	require.NoError(t, sink.Close())
}

type recordedRow struct {
	structure string
	n         int
	sr, rb    int64
}

type fakeRecorder struct {
	rows []recordedRow
}

func (r *fakeRecorder) RecordRow(_ context.Context, structure string, n int, sr, rb int64) {
	r.rows = append(r.rows, recordedRow{structure, n, sr, rb})
}

func TestMetricsSink(t *testing.T) {
	recorder := &fakeRecorder{}
	sink := NewMetricsSink(recorder)
	require.NoError(t, sink.Write(testRows))
	require.NoError(t, sink.Close())
	require.Equal(t, []recordedRow{
		{StructureAVL, 3, 6, 3},
		{StructureRB, 3, 5, 0},
		{StructureSkipList, 3, 7, 0},
	}, recorder.rows)
}
