package tree

import (
	"github.com/benz9527/idxbench/lib/hrtime"
	"github.com/benz9527/idxbench/lib/index"
	"github.com/benz9527/idxbench/lib/infra"
)

type avlNode[K infra.OrderedKey] struct {
	left   *avlNode[K]
	right  *avlNode[K]
	key    K
	height int32
}

func (node *avlNode[K]) Key() K {
	return node.key
}

func (node *avlNode[K]) Height() int32 {
	return heightOf(node)
}

func (node *avlNode[K]) Left() AVLNode[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *avlNode[K]) Right() AVLNode[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func heightOf[K infra.OrderedKey](node *avlNode[K]) int32 {
	if node == nil {
		return 0
	}
	return node.height
}

func (node *avlNode[K]) fixHeight() {
	node.height = 1 + max(heightOf(node.left), heightOf(node.right))
}

// balance is height(left) - height(right).
func (node *avlNode[K]) balance() int32 {
	if node == nil {
		return 0
	}
	return heightOf(node.left) - heightOf(node.right)
}

func (node *avlNode[K]) minimum() *avlNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

/*
		 |                         |
		 X                         R
		/ \     leftRotate(X)     / \
	   L   R    ============>    X   Rr
		  / \                   / \
		Rl   Rr                L   Rl
*/
func leftRotate[K infra.OrderedKey](x *avlNode[K]) *avlNode[K] {
	y := x.right
	x.right, y.left = y.left, x
	x.fixHeight()
	y.fixHeight()
	return y
}

/*
		 |                         |
		 X                         L
		/ \     rightRotate(X)    / \
	   L   R    ============>    Ll  X
	  / \                           / \
	Ll   Lr                        Lr  R
*/
func rightRotate[K infra.OrderedKey](x *avlNode[K]) *avlNode[K] {
	y := x.left
	x.left, y.right = y.right, x
	x.fixHeight()
	y.fixHeight()
	return y
}

type avlTree[K infra.OrderedKey] struct {
	root  *avlNode[K]
	count int64
	clock hrtime.Clock
}

var _ AVLTree[int] = (*avlTree[int])(nil)

func (tree *avlTree[K]) Name() string {
	return "AVL"
}

func (tree *avlTree[K]) Len() int64 {
	return tree.count
}

func (tree *avlTree[K]) Height() int32 {
	return heightOf(tree.root)
}

func (tree *avlTree[K]) Root() AVLNode[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *avlTree[K]) Contains(key K) bool {
	aux := tree.root
	for aux != nil {
		res := infra.Compare(key, aux.key)
		if res == 0 {
			return true
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return false
}

func (tree *avlTree[K]) Insert(key K) bool {
	var added bool
	tree.root, added = tree.insert(tree.root, key)
	if added {
		tree.count++
	}
	return added
}

/*
The unbalanced node X is resolved by at most one rotation, the case is
chosen by comparing the inserted key with the key of X's heavy child.

LL: key < X.left.key, rightRotate(X).
RR: key > X.right.key, leftRotate(X).
LR: key > X.left.key, leftRotate(X.left) then rightRotate(X).
RL: key < X.right.key, rightRotate(X.right) then leftRotate(X).
*/
func (tree *avlTree[K]) insert(node *avlNode[K], key K) (*avlNode[K], bool) {
	if node == nil {
		return &avlNode[K]{key: key, height: 1}, true
	}

	var added bool
	switch res := infra.Compare(key, node.key); {
	case res < 0:
		node.left, added = tree.insert(node.left, key)
	case res > 0:
		node.right, added = tree.insert(node.right, key)
	default:
	}
	if !added {
		return node, false
	}

	node.fixHeight()
	switch bf := node.balance(); {
	case /* LL */ bf > 1 && infra.Compare(key, node.left.key) < 0:
		return rightRotate(node), true
	case /* RR */ bf < -1 && infra.Compare(key, node.right.key) > 0:
		return leftRotate(node), true
	case /* LR */ bf > 1 && infra.Compare(key, node.left.key) > 0:
		node.left = leftRotate(node.left)
		return rightRotate(node), true
	case /* RL */ bf < -1 && infra.Compare(key, node.right.key) < 0:
		node.right = rightRotate(node.right)
		return leftRotate(node), true
	default:
	}
	return node, true
}

// Delete runs in three timed phases: search, removal and rebalance.
// The rebalance phase walks the whole remaining tree.
func (tree *avlTree[K]) Delete(key K) (index.Timing, bool) {
	timing := index.Timing{}
	found := tree.remove(tree.root, nil, key, &timing)
	return timing, found
}

// remove deletes key from the subtree rooted at from. parent is from's
// parent, nil if from is the tree root.
// A target with two children takes its successor's key, then the successor
// is removed from the target's right subtree by the recursive call.
func (tree *avlTree[K]) remove(from, parent *avlNode[K], key K, timing *index.Timing) bool {
	start := tree.clock.Now()
	x, p := from, parent
	for x != nil {
		res := infra.Compare(key, x.key)
		if res == 0 {
			break
		}
		p = x
		if res < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}
	if x == nil {
		timing.SearchRemovalNanos += hrtime.Since(tree.clock, start)
		timing.RebalanceNanos = 0
		return false
	}

	if x.left != nil && x.right != nil {
		succ := x.right.minimum()
		x.key = succ.key
		timing.SearchRemovalNanos += hrtime.Since(tree.clock, start)
		return tree.remove(x.right, x, succ.key, timing)
	}

	child := x.left
	if child == nil {
		child = x.right
	}
	switch {
	case p == nil:
		tree.root = child
	case p.left == x:
		p.left = child
	default:
		p.right = child
	}
	x.left, x.right = nil, nil
	tree.count--
	timing.SearchRemovalNanos += hrtime.Since(tree.clock, start)

	start = tree.clock.Now()
	tree.root = tree.rebalance(tree.root)
	timing.RebalanceNanos = hrtime.Since(tree.clock, start)
	return true
}

// rebalance is a post-order walk. Every height is recomputed bottom-up and
// each node is fixed by at most one (single or double) rotation chosen by
// its heavy child's own balance.
func (tree *avlTree[K]) rebalance(node *avlNode[K]) *avlNode[K] {
	if node == nil {
		return nil
	}
	node.left = tree.rebalance(node.left)
	node.right = tree.rebalance(node.right)
	node.fixHeight()

	switch bf := node.balance(); {
	case bf > 1:
		if /* LR */ node.left.balance() < 0 {
			node.left = leftRotate(node.left)
		}
		return rightRotate(node)
	case bf < -1:
		if /* RL */ node.right.balance() > 0 {
			node.right = rightRotate(node.right)
		}
		return leftRotate(node)
	default:
	}
	return node
}

// Foreach is an in-order traversal with an explicit stack.
func (tree *avlTree[K]) Foreach(action func(idx int64, key K) bool) {
	aux := tree.root
	if tree.count <= 0 || aux == nil {
		return
	}

	stack := make([]*avlNode[K], 0, heightOf(aux))
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; !action(idx, aux.key) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (tree *avlTree[K]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		tree.count = 0
		return
	}

	stack := make([]*avlNode[K], 0, heightOf(aux))
	defer func() {
		clear(stack)
	}()
	stack = append(stack, aux)

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		stack = stack[:size-1]
		if aux.left != nil {
			stack = append(stack, aux.left)
		}
		if aux.right != nil {
			stack = append(stack, aux.right)
		}
		aux.left, aux.right = nil, nil
		tree.count--
	}
}

type AVLTreeOpt[K infra.OrderedKey] func(*avlTree[K])

func WithAVLTreeClock[K infra.OrderedKey](clock hrtime.Clock) AVLTreeOpt[K] {
	return func(tree *avlTree[K]) {
		if clock != nil {
			tree.clock = clock
		}
	}
}

func NewAVLTree[K infra.OrderedKey](opts ...AVLTreeOpt[K]) AVLTree[K] {
	tree := &avlTree[K]{
		count: 0,
		clock: hrtime.MonotonicClock,
	}

	for _, o := range opts {
		o(tree)
	}
	return tree
}
