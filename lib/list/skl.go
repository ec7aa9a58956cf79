package list

import (
	randv2 "math/rand/v2"

	"github.com/benz9527/idxbench/lib/hrtime"
	"github.com/benz9527/idxbench/lib/index"
	"github.com/benz9527/idxbench/lib/infra"
)

var _ SkipList[int] = (*xSkl[int])(nil)

type sklNode[K infra.OrderedKey] struct {
	key K
	// Sized to the drawn level once, never resized.
	forward []*sklNode[K]
}

func (node *sklNode[K]) Key() K {
	return node.key
}

func (node *sklNode[K]) Level() int32 {
	return int32(len(node.forward))
}

func (node *sklNode[K]) Next(level int32) SklNode[K] {
	if level < 0 || level >= node.Level() || node.forward[level] == nil {
		return nil
	}
	return node.forward[level]
}

func newSklNode[K infra.OrderedKey](level int32, key K) *sklNode[K] {
	return &sklNode[K]{
		key:     key,
		forward: make([]*sklNode[K], level),
	}
}

// A classic skip-list.
// @field head A sentinel node with sklMaxLevel forward references.
// The head.forward[0] is the first data node of skip-list.
// @field aux The predecessor of the target at each level, reused by every
// traversal.
type xSkl[K infra.OrderedKey] struct {
	head  *sklNode[K]
	aux   []*sklNode[K]
	rand  *randv2.Rand
	clock hrtime.Clock
	count int64
	level int32 // highest level whose head reference is not nil
}

func (skl *xSkl[K]) Name() string {
	return "SkipList"
}

func (skl *xSkl[K]) Len() int64 {
	return skl.count
}

func (skl *xSkl[K]) Level() int32 {
	return skl.level
}

func (skl *xSkl[K]) First(level int32) SklNode[K] {
	return skl.head.Next(level)
}

// findPredecessors fills aux from the current top level down to level 0
// and returns the level 0 successor of the last predecessor, the only node
// that may hold the key.
func (skl *xSkl[K]) findPredecessors(key K, visit func(node SklNode[K])) *sklNode[K] {
	pred := skl.head
	for /* vertical */ i := skl.level - 1; i >= 0; i-- {
		for /* horizontal */ cur := pred.forward[i]; cur != nil; cur = pred.forward[i] {
			if /* greater, forward next */ infra.Compare(key, cur.key) > 0 {
				pred = cur
				if visit != nil {
					visit(cur)
				}
			} else /* lower or equal, downward to next level */ {
				break
			}
		}
		skl.aux[i] = pred
	}
	return pred.forward[0]
}

func (skl *xSkl[K]) releaseAux() {
	clear(skl.aux)
}

func (skl *xSkl[K]) Contains(key K) bool {
	return skl.Find(key)
}

func (skl *xSkl[K]) Find(key K, visit ...func(node SklNode[K])) bool {
	if skl.level <= 0 {
		return false
	}
	var fn func(node SklNode[K])
	if len(visit) > 0 {
		fn = visit[0]
	}
	defer skl.releaseAux()

	target := skl.findPredecessors(key, fn)
	if /* found */ target != nil && infra.Compare(key, target.key) == 0 {
		if fn != nil {
			fn(target)
		}
		return true
	}
	return false
}

func (skl *xSkl[K]) Insert(key K) bool {
	defer skl.releaseAux()

	if x := skl.findPredecessors(key, nil); x != nil && infra.Compare(key, x.key) == 0 {
		return false
	}

	lvl := randomLevel(skl.rand, sklMaxLevel)
	if lvl > skl.level {
		for i := skl.level; i < lvl; i++ {
			// Update the whole traverse path, from top to bottom.
			skl.aux[i] = skl.head
		}
		skl.level = lvl
	}

	newNode := newSklNode[K](lvl, key)
	for i := int32(0); i < lvl; i++ {
		newNode.forward[i] = skl.aux[i].forward[i]
		skl.aux[i].forward[i] = newNode
	}
	skl.count++
	return true
}

// Delete unsplices the node at every level and shrinks the current level.
// There is no balance invariant to restore, so the rebalance time is zero.
func (skl *xSkl[K]) Delete(key K) (index.Timing, bool) {
	timing := index.Timing{}
	start := skl.clock.Now()
	defer skl.releaseAux()

	x := skl.findPredecessors(key, nil)
	if /* not found */ x == nil || infra.Compare(key, x.key) != 0 {
		timing.SearchRemovalNanos = hrtime.Since(skl.clock, start)
		return timing, false
	}

	for i := int32(0); i < skl.level; i++ {
		if skl.aux[i].forward[i] == x {
			skl.aux[i].forward[i] = x.forward[i]
		}
	}
	clear(x.forward)
	for /* reduce levels */ skl.level > 0 && skl.head.forward[skl.level-1] == nil {
		skl.level--
	}
	skl.count--
	timing.SearchRemovalNanos = hrtime.Since(skl.clock, start)
	return timing, true
}

func (skl *xSkl[K]) Foreach(action func(idx int64, key K) bool) {
	idx := int64(0)
	for x := skl.head.forward[0]; x != nil; x = x.forward[0] {
		if !action(idx, x.key) {
			return
		}
		idx++
	}
}

// Release walks level 0 and unlinks every node.
func (skl *xSkl[K]) Release() {
	x := skl.head.forward[0]
	clear(skl.head.forward)
	for x != nil {
		next := x.forward[0]
		clear(x.forward)
		x = next
	}
	skl.level = 0
	skl.count = 0
}

type SklOpt[K infra.OrderedKey] func(*xSkl[K])

func WithSklClock[K infra.OrderedKey](clock hrtime.Clock) SklOpt[K] {
	return func(skl *xSkl[K]) {
		if clock != nil {
			skl.clock = clock
		}
	}
}

// WithSklRand injects the generator used to draw node levels.
func WithSklRand[K infra.OrderedKey](rng *randv2.Rand) SklOpt[K] {
	return func(skl *xSkl[K]) {
		if rng != nil {
			skl.rand = rng
		}
	}
}

func NewSkipList[K infra.OrderedKey](opts ...SklOpt[K]) SkipList[K] {
	skl := &xSkl[K]{
		head:  newSklNode[K](sklMaxLevel, *new(K)),
		aux:   make([]*sklNode[K], sklMaxLevel),
		clock: hrtime.MonotonicClock,
		count: 0,
		level: 0,
	}

	for _, o := range opts {
		o(skl)
	}
	if skl.rand == nil {
		skl.rand = randv2.New(randv2.NewPCG(randv2.Uint64(), randv2.Uint64()))
	}
	return skl
}
