package tree

import (
	"github.com/benz9527/idxbench/lib/infra"
)

func isBlack[K infra.OrderedKey](node RBNode[K]) bool {
	return node == nil || node.Color() == Black
}

func isRed[K infra.OrderedKey](node RBNode[K]) bool {
	return node != nil && node.Color() == Red
}

func isRoot[K infra.OrderedKey](node RBNode[K]) bool {
	return node != nil && node.Parent() == nil
}

func blackDepthTo[K infra.OrderedKey](target, to RBNode[K]) int {
	depth := 0
	for aux := target; aux != nil && aux != to; aux = aux.Parent() {
		if isBlack[K](aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// RootColorValidate checks p5, an empty tree trivially holds.
func RootColorValidate[K infra.OrderedKey](tree RBTree[K]) error {
	if root := tree.Root(); root != nil && !isBlack[K](root) {
		return infra.NewErrorStack("rbtree root is red")
	}
	return nil
}

// RedViolationValidate checks p3 by an in-order traversal. Parent links
// are checked on the way.
func RedViolationValidate[K infra.OrderedKey](tree RBTree[K]) error {
	aux := tree.Root()
	if aux == nil {
		return nil
	}

	stack := make([]RBNode[K], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		if isRed[K](aux) && (isRed[K](aux.Left()) || isRed[K](aux.Right())) {
			return infra.NewErrorStackf("rbtree red violation at key %v", aux.Key())
		}
		if l := aux.Left(); l != nil && l.Parent() != aux {
			return infra.NewErrorStackf("rbtree broken parent link at key %v", l.Key())
		}
		if r := aux.Right(); r != nil && r.Parent() != aux {
			return infra.NewErrorStackf("rbtree broken parent link at key %v", r.Key())
		}

		stack = stack[:size-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// BFS traversal to load all nodes with at least one nil child.
func bfsLeaves[K infra.OrderedKey](tree RBTree[K]) []RBNode[K] {
	aux := tree.Root()
	if aux == nil {
		return nil
	}

	leaves := make([]RBNode[K], 0, tree.Len()>>1+1)
	queue := make([]RBNode[K], 0, 64)
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[K infra.OrderedKey](tree RBTree[K]) error {
	leaves := bfsLeaves[K](tree)
	if leaves == nil {
		return nil
	}

	blackDepth := blackDepthTo[K](leaves[0], tree.Root())
	for i := 1; i < len(leaves); i++ {
		if depth := blackDepthTo[K](leaves[i], tree.Root()); depth != blackDepth {
			return infra.NewErrorStackf("rbtree black violation at key %v, depth %d != %d",
				leaves[i].Key(), depth, blackDepth)
		}
	}
	return nil
}
