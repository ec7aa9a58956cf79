package bench

import (
	"context"

	"github.com/benz9527/idxbench/store"
)

var _ Sink = (*StoreSink)(nil)

// StoreSink persists the rows into SQLite, tagged with the run seed.
type StoreSink struct {
	store *store.Store
	seed  uint64
}

func NewStoreSink(s *store.Store, seed uint64) *StoreSink {
	return &StoreSink{
		store: s,
		seed:  seed,
	}
}

func (sink *StoreSink) Write(rows []Row) error {
	results := make([]store.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, store.Result{
			Structure:          row.Structure,
			N:                  row.N,
			SearchRemovalNanos: row.SearchRemovalNanos,
			RebalanceNanos:     row.RebalanceNanos,
			TotalNanos:         row.TotalNanos,
		})
	}
	return sink.store.SaveRows(context.Background(), sink.seed, results...)
}

func (sink *StoreSink) Close() error {
	return sink.store.Close()
}
