package tree

import (
	"github.com/benz9527/idxbench/lib/hrtime"
	"github.com/benz9527/idxbench/lib/index"
	"github.com/benz9527/idxbench/lib/infra"
)

type rbNode[K infra.OrderedKey] struct {
	parent *rbNode[K] // back reference only, used by the upward fixups
	left   *rbNode[K]
	right  *rbNode[K]
	key    K
	color  RBColor
}

func (node *rbNode[K]) Color() RBColor {
	return node.color
}

func (node *rbNode[K]) Key() K {
	return node.key
}

func (node *rbNode[K]) Left() RBNode[K] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *rbNode[K]) Parent() RBNode[K] {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

func (node *rbNode[K]) Right() RBNode[K] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

// All nil nodes are considered black.
func (node *rbNode[K]) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode[K]) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode[K]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[K]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

func (node *rbNode[K]) sibling() *rbNode[K] {
	switch node.Direction() {
	case Left:
		return node.parent.right
	case Right:
		return node.parent.left
	default:

	}
	return nil
}

func (node *rbNode[K]) uncle() *rbNode[K] {
	return node.parent.sibling()
}

func (node *rbNode[K]) grandpa() *rbNode[K] {
	return node.parent.parent
}

func (node *rbNode[K]) fixLink() {
	if node.left != nil {
		node.left.parent = node
	}
	if node.right != nil {
		node.right.parent = node
	}
}

func (node *rbNode[K]) minimum() *rbNode[K] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

type rbTree[K infra.OrderedKey] struct {
	root  *rbNode[K]
	count int64
	clock hrtime.Clock
}

var _ RBTree[int] = (*rbTree[int])(nil)

func (tree *rbTree[K]) Name() string {
	return "RB"
}

func (tree *rbTree[K]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K]) Root() RBNode[K] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K]) leftRotate(x *rbNode[K]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
}

/*
			 |                         |
			 X                         L
			/ \     rightRotate(X)    / \
	       L   S    ============>    Lc  X
		  / \                           / \
		Lc   Ld                        Ld  S
*/
func (tree *rbTree[K]) rightRotate(x *rbNode[K]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x

	x.fixLink()
	y.fixLink()

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
}

func (tree *rbTree[K]) search(key K) *rbNode[K] {
	aux := tree.root
	for aux != nil {
		res := infra.Compare(key, aux.key)
		if res == 0 {
			return aux
		} else if res < 0 {
			aux = aux.left
		} else {
			aux = aux.right
		}
	}
	return nil
}

func (tree *rbTree[K]) Contains(key K) bool {
	return tree.search(key) != nil
}

// i1: Empty rbtree, insert directly, root is painted black.
// i2: Key already present, nothing changes.
func (tree *rbTree[K]) Insert(key K) bool {
	var (
		x, y *rbNode[K] = tree.root, nil
		res  int64
	)
	for x != nil {
		y = x
		res = infra.Compare(key, x.key)
		if /* i2 */ res == 0 {
			return false
		} else if res < 0 {
			x = x.left
		} else {
			x = x.right
		}
	}

	z := &rbNode[K]{
		key:    key,
		color:  Red,
		parent: y,
	}
	switch {
	case /* i1 */ y == nil:
		tree.root = z
	case res < 0:
		y.left = z
	default:
		y.right = z
	}
	tree.count++
	tree.insertRebalance(z)
	return true
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: Parent P is black, nothing to do.

im2: Both the parent P and the uncle U are red, grandpa G is black.
Repaint and continue from G, G may be red-violation now.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im3: The uncle U is black and X is the inner grandchild.
Rotate P to make X, P and G a line, then fall into im4.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im4: The uncle U is black and X is the outer grandchild.
Rotate G and swap the colors of P and G.

	    [G]                 [P]
	    / \    rotate(G)    / \
	  <P> [U]  ========>  <X> <G>
	  /                         \
	<X>                         [U]
*/
func (tree *rbTree[K]) insertRebalance(x *rbNode[K]) {
	for /* im1 */ x.parent.isRed() {
		// A red parent is never the root, so grandpa exists.
		p, gp := x.parent, x.grandpa()
		if u := x.uncle(); /* im2 */ u.isRed() {
			p.color, u.color, gp.color = Black, Black, Red
			x = gp
			continue
		}

		if dir := x.Direction(); /* im3 */ dir != p.Direction() {
			if dir == Right {
				tree.leftRotate(p)
			} else {
				tree.rightRotate(p)
			}
			x, p = p, x
		}

		/* im4 */
		if p.Direction() == Left {
			tree.rightRotate(gp)
		} else {
			tree.leftRotate(gp)
		}
		p.color, gp.color = Black, Red
	}
	tree.root.color = Black
}

// transplant replaces the subtree rooted at u with the subtree rooted at v.
func (tree *rbTree[K]) transplant(u, v *rbNode[K]) {
	switch u.Direction() {
	case Root:
		tree.root = v
	case Left:
		u.parent.left = v
	default:
		u.parent.right = v
	}
	if v != nil {
		v.parent = u.parent
	}
}

/*
r1: Target Z has at most one child, the child (or NIL) takes Z's place.
The removed color is Z's color.

r2: Target Z has two children, its successor Y is Z's right child.
Y inherits Z's left subtree and takes Z's place.

	    Z               Y
	   / \             / \
	  L   Y   ====>   L   R
	       \
	        R

r3: Target Z has two children, its successor Y is deeper.
Transplant Y's right child into Y's old place first, then put Y into
Z's place with both of Z's subtrees.

	    Z                Y
	   / \              / \
	  L   S   ====>    L   S
	     /                /
	    Y                R
	     \
	      R

For r2 and r3 the removed color is Y's original color, Y is repainted
with Z's color.
*/
func (tree *rbTree[K]) Delete(key K) (index.Timing, bool) {
	timing := index.Timing{}
	start := tree.clock.Now()
	z := tree.search(key)
	if z == nil {
		timing.SearchRemovalNanos = hrtime.Since(tree.clock, start)
		return timing, false
	}

	var (
		y, x, xParent = z, (*rbNode[K])(nil), (*rbNode[K])(nil)
		removed       = z.color
	)
	switch {
	case /* r1 */ z.left == nil:
		x, xParent = z.right, z.parent
		tree.transplant(z, z.right)
	case /* r1 */ z.right == nil:
		x, xParent = z.left, z.parent
		tree.transplant(z, z.left)
	default:
		y = z.right.minimum()
		removed, x = y.color, y.right
		if /* r2 */ y.parent == z {
			xParent = y
		} else /* r3 */ {
			xParent = y.parent
			tree.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		tree.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}
	z.parent, z.left, z.right = nil, nil, nil
	tree.count--
	timing.SearchRemovalNanos = hrtime.Since(tree.clock, start)

	if removed == Black {
		start = tree.clock.Now()
		tree.removeRebalance(x, xParent)
		timing.RebalanceNanos = hrtime.Since(tree.clock, start)
	}
	return timing, true
}

/*
X carries an extra black. X may be NIL, so its parent P is passed in.
Only the left side is drawn, the right side is the mirror.

rm1: Sibling S is red. Rotate P and repaint, S becomes black for rm2-rm4.

	    [P]                   [S]
	    / \    leftRotate(P)  / \
	  [X] <S>  ==========>  <P> [D]
	      / \               / \
	    [C] [D]           [X] [C]

rm2: Sibling S and both nephews are black. Repaint S red and climb to P.

	    {P}               {P}
	    / \               / \
	  [X] [S]   ====>   [X] <S>
	      / \               / \
	    [C] [D]           [C] [D]

rm3: Near nephew C is red and far nephew D is black.
Rotate S to make the far nephew red, then fall into rm4.

	    {P}                  {P}
	    / \  rightRotate(S)  / \
	  [X] [S]  =========>  [X] [C]
	      / \                    \
	    <C> [D]                  <S>
	                               \
	                               [D]

rm4: Far nephew D is red. Rotate P, S takes P's color, P and D become
black, the extra black is gone.

	    {P}                   {S}
	    / \   leftRotate(P)   / \
	  [X] [S]  ==========>  [P] [D]
	      / \               / \
	    {C} <D>           [X] {C}
*/
func (tree *rbTree[K]) removeRebalance(x, parent *rbNode[K]) {
	for x != tree.root && x.isBlack() {
		if x == parent.left {
			s := parent.right
			if /* rm1 */ s.isRed() {
				s.color, parent.color = Black, Red
				tree.leftRotate(parent)
				s = parent.right
			}
			if /* rm2 */ s.left.isBlack() && s.right.isBlack() {
				s.color = Red
				x, parent = parent, parent.parent
				continue
			}
			if /* rm3 */ s.right.isBlack() {
				s.left.color, s.color = Black, Red
				tree.rightRotate(s)
				s = parent.right
			}
			/* rm4 */
			s.color, parent.color, s.right.color = parent.color, Black, Black
			tree.leftRotate(parent)
		} else {
			s := parent.left
			if /* rm1 */ s.isRed() {
				s.color, parent.color = Black, Red
				tree.rightRotate(parent)
				s = parent.left
			}
			if /* rm2 */ s.left.isBlack() && s.right.isBlack() {
				s.color = Red
				x, parent = parent, parent.parent
				continue
			}
			if /* rm3 */ s.left.isBlack() {
				s.right.color, s.color = Black, Red
				tree.leftRotate(s)
				s = parent.left
			}
			/* rm4 */
			s.color, parent.color, s.left.color = parent.color, Black, Black
			tree.rightRotate(parent)
		}
		x, parent = tree.root, nil
	}
	if x != nil {
		x.color = Black
	}
}

// Foreach is an in-order traversal with an explicit stack.
func (tree *rbTree[K]) Foreach(action func(idx int64, key K) bool) {
	tree.ForeachColored(func(idx int64, _ RBColor, key K) bool {
		return action(idx, key)
	})
}

func (tree *rbTree[K]) ForeachColored(action func(idx int64, color RBColor, key K) bool) {
	size := tree.count
	aux := tree.root
	if size <= 0 || aux == nil {
		return
	}

	stack := make([]*rbNode[K], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; !action(idx, aux.color, aux.key) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = aux.right; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

func (tree *rbTree[K]) Release() {
	aux := tree.root
	tree.root = nil
	if aux == nil {
		tree.count = 0
		return
	}

	stack := make([]*rbNode[K], 0, 64)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.left {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		r := aux.right
		aux.left, aux.right, aux.parent = nil, nil, nil
		tree.count--
		stack = stack[:size-1]
		for aux = r; aux != nil; aux = aux.left {
			stack = append(stack, aux)
		}
	}
}

type RBTreeOpt[K infra.OrderedKey] func(*rbTree[K])

func WithRBTreeClock[K infra.OrderedKey](clock hrtime.Clock) RBTreeOpt[K] {
	return func(tree *rbTree[K]) {
		if clock != nil {
			tree.clock = clock
		}
	}
}

func NewRBTree[K infra.OrderedKey](opts ...RBTreeOpt[K]) RBTree[K] {
	tree := &rbTree[K]{
		count: 0,
		clock: hrtime.MonotonicClock,
	}

	for _, o := range opts {
		o(tree)
	}
	return tree
}
