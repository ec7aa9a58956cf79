package bench

import (
	randv2 "math/rand/v2"

	"github.com/benz9527/idxbench/lib/hrtime"
	"github.com/benz9527/idxbench/lib/index"
	"github.com/benz9527/idxbench/lib/list"
	"github.com/benz9527/idxbench/lib/tree"
)

// Structure builds a fresh, empty index for each trial. The generator is
// the one the trial permutation was drawn from.
type Structure struct {
	Name string
	New  func(clock hrtime.Clock, rng *randv2.Rand) index.Index[int]
}

// DefaultStructures is the benchmark order: AVL, RB, SkipList.
func DefaultStructures() []Structure {
	return []Structure{
		{
			Name: StructureAVL,
			New: func(clock hrtime.Clock, _ *randv2.Rand) index.Index[int] {
				return tree.NewAVLTree[int](tree.WithAVLTreeClock[int](clock))
			},
		},
		{
			Name: StructureRB,
			New: func(clock hrtime.Clock, _ *randv2.Rand) index.Index[int] {
				return tree.NewRBTree[int](tree.WithRBTreeClock[int](clock))
			},
		},
		{
			Name: StructureSkipList,
			New: func(clock hrtime.Clock, rng *randv2.Rand) index.Index[int] {
				return list.NewSkipList[int](
					list.WithSklClock[int](clock),
					list.WithSklRand[int](rng),
				)
			},
		},
	}
}
