package list

import (
	"github.com/benz9527/idxbench/lib/infra"
)

// SklOrderValidate checks that
//  1. every level chain is strictly increasing by key
//  2. a node linked at level L owns more than L forward references
//  3. the current level is the highest non-empty level
//  4. level 0 links exactly Len() nodes
func SklOrderValidate[K infra.OrderedKey](skl SkipList[K]) error {
	top := skl.Level()
	if top < 0 || top > sklMaxLevel {
		return infra.NewErrorStackf("skip-list level %d out of range", top)
	}
	if top > 0 && skl.First(top-1) == nil {
		return infra.NewErrorStackf("skip-list empty top level %d", top)
	}
	if top < sklMaxLevel && skl.First(top) != nil {
		return infra.NewErrorStackf("skip-list nodes linked above level %d", top)
	}

	for lvl := int32(0); lvl < top; lvl++ {
		count := int64(0)
		var prev SklNode[K]
		for node := skl.First(lvl); node != nil; node = node.Next(lvl) {
			if node.Level() <= lvl {
				return infra.NewErrorStackf("skip-list key %v with level %d linked at level %d", node.Key(), node.Level(), lvl)
			}
			if prev != nil && infra.Compare(prev.Key(), node.Key()) >= 0 {
				return infra.NewErrorStackf("skip-list order violation at level %d, %v >= %v", lvl, prev.Key(), node.Key())
			}
			prev = node
			count++
		}
		if lvl == 0 && count != skl.Len() {
			return infra.NewErrorStackf("skip-list level 0 links %d nodes, len %d", count, skl.Len())
		}
	}
	if top == 0 && skl.Len() != 0 {
		return infra.NewErrorStackf("empty skip-list with len %d", skl.Len())
	}
	return nil
}
