package list

import (
	"github.com/benz9527/idxbench/lib/index"
	"github.com/benz9527/idxbench/lib/infra"
)

const (
	sklMaxLevel    = 32
	sklProbability = 0.5
)

type SklNode[K infra.OrderedKey] interface {
	Key() K
	// Level is the size of the node's forward array, in [1, 32].
	Level() int32
	// Next returns the successor at the given level, nil at the tail.
	Next(level int32) SklNode[K]
}

type SkipList[K infra.OrderedKey] interface {
	index.Index[K]
	// Level is the highest non-empty level, 0 for an empty list.
	Level() int32
	// First returns the first node linked at the given level.
	First(level int32) SklNode[K]
	// Find reports every node the descent steps onto, the found target last.
	Find(key K, visit ...func(node SklNode[K])) bool
}
