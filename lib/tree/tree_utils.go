package tree

import (
	"errors"
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
)

// Tree rule validation utilities.

// Inorder traversal to validate the search order, values must be
// strictly increasing.
func OrderViolationValidate[T infra.OrderedKey](tree OrderedTree[T]) error {
	var (
		prev    T
		hasPrev bool
		err     error
	)
	tree.InOrder(func(node BinaryTreeNode[T]) {
		if err != nil {
			return
		}
		if hasPrev && infra.CompareOrderedKey[T](prev, node.Value()) >= 0 {
			err = fmt.Errorf("[tree] order violation at %v after %v", node.Value(), prev)
			return
		}
		prev, hasPrev = node.Value(), true
	})
	return err
}

// Recompute every height bottom-up and compare with the cached one.
func HeightViolationValidate[T infra.OrderedKey](tree OrderedTree[T]) error {
	_, err := recomputeHeight[T](tree.Root())
	return err
}

// Validate |height(left) - height(right)| <= 1 at every node, not only
// at the root.
func BalanceViolationValidate[T infra.OrderedKey](tree OrderedTree[T]) error {
	var err error
	tree.PostOrder(func(node BinaryTreeNode[T]) {
		if err != nil {
			return
		}
		bf := nodeHeight[T](node.Left()) - nodeHeight[T](node.Right())
		if bf > 1 || bf < -1 {
			err = fmt.Errorf("[avl] balance violation at %v, factor %d", node.Value(), bf)
		}
	})
	return err
}

func recomputeHeight[T infra.OrderedKey](node BinaryTreeNode[T]) (int, error) {
	if node == nil {
		return 0, nil
	}
	hl, err := recomputeHeight[T](node.Left())
	if err != nil {
		return 0, err
	}
	hr, err := recomputeHeight[T](node.Right())
	if err != nil {
		return 0, err
	}
	h := max(hl, hr) + 1
	if h != node.Height() {
		return 0, errors.New("[tree] height violation at " + fmt.Sprint(node.Value()))
	}
	return h, nil
}

func nodeHeight[T infra.OrderedKey](node BinaryTreeNode[T]) int {
	if node == nil {
		return 0
	}
	return node.Height()
}
