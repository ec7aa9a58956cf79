package tree

import (
	"github.com/benz9527/idxbench/lib/index"
	"github.com/benz9527/idxbench/lib/infra"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

type RBNode[K infra.OrderedKey] interface {
	Key() K
	Color() RBColor
	Left() RBNode[K]
	Right() RBNode[K]
	Parent() RBNode[K]
}

type RBTree[K infra.OrderedKey] interface {
	index.Index[K]
	Root() RBNode[K]
	ForeachColored(action func(idx int64, color RBColor, key K) bool)
}

type AVLNode[K infra.OrderedKey] interface {
	Key() K
	Height() int32
	Left() AVLNode[K]
	Right() AVLNode[K]
}

type AVLTree[K infra.OrderedKey] interface {
	index.Index[K]
	Root() AVLNode[K]
	// Height is zero for an empty tree.
	Height() int32
}
