package index

import (
	"github.com/benz9527/idxbench/lib/infra"
)

// Timing is the instrumentation of a single deletion.
// SearchRemovalNanos covers locating the node and physically detaching it.
// RebalanceNanos covers restoring the structure's balance invariant.
type Timing struct {
	SearchRemovalNanos int64
	RebalanceNanos     int64
}

func (t Timing) Total() int64 {
	return t.SearchRemovalNanos + t.RebalanceNanos
}

// Add accumulates other into t.
func (t *Timing) Add(other Timing) {
	t.SearchRemovalNanos += other.SearchRemovalNanos
	t.RebalanceNanos += other.RebalanceNanos
}

// Index is an ordered set of unique keys with timed deletion.
// Implementations are not thread safe.
type Index[K infra.OrderedKey] interface {
	Name() string
	Len() int64
	// Insert returns false if the key is already present and the
	// structure is left untouched.
	Insert(key K) bool
	// Delete returns false if the key is absent. The search time is
	// still reported and the rebalance time is always zero in that case.
	Delete(key K) (Timing, bool)
	Contains(key K) bool
	// Foreach visits the keys in ascending order until action returns false.
	Foreach(action func(idx int64, key K) bool)
	// Release drops every remaining node without rebalancing.
	Release()
}
