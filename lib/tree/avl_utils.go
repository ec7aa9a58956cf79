package tree

import (
	"github.com/benz9527/idxbench/lib/infra"
)

// AVLViolationValidate checks every node of the tree for
//  1. height = 1 + max(height(left), height(right))
//  2. height(left) - height(right) in [-1, 1]
//  3. left keys < key < right keys
func AVLViolationValidate[K infra.OrderedKey](tree AVLTree[K]) error {
	_, err := avlValidate[K](tree.Root(), nil, nil)
	return err
}

func avlValidate[K infra.OrderedKey](node AVLNode[K], lower, upper *K) (int32, error) {
	if node == nil {
		return 0, nil
	}

	key := node.Key()
	if (lower != nil && infra.Compare(key, *lower) <= 0) ||
		(upper != nil && infra.Compare(key, *upper) >= 0) {
		return 0, infra.NewErrorStackf("avl order violation at key %v", key)
	}

	lh, err := avlValidate[K](node.Left(), lower, &key)
	if err != nil {
		return 0, err
	}
	rh, err := avlValidate[K](node.Right(), &key, upper)
	if err != nil {
		return 0, err
	}

	if h := 1 + max(lh, rh); h != node.Height() {
		return 0, infra.NewErrorStackf("avl height violation at key %v, cached %d != %d", key, node.Height(), h)
	}
	if bf := lh - rh; bf < -1 || bf > 1 {
		return 0, infra.NewErrorStackf("avl balance violation at key %v, factor %d", key, bf)
	}
	return node.Height(), nil
}
