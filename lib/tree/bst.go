package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

var _ OrderedTree[int] = (*bsTree[int])(nil)

// bsTree is the plain binary search tree without rebalancing.
// The worst case height is O(n).
type bsTree[T infra.OrderedKey] struct {
	linkedTree[T]
}

func (tree *bsTree[T]) Insert(v T) {
	var added bool
	if tree.root, added = bstInsert[T](v, tree.root); added {
		tree.count++
	}
}

func (tree *bsTree[T]) Erase(v T) bool {
	var removed bool
	if tree.root, removed = bstErase[T](v, tree.root); removed {
		tree.count--
	}
	return removed
}

func (tree *bsTree[T]) Clone() OrderedTree[T] {
	return &bsTree[T]{
		linkedTree: linkedTree[T]{
			root:  tree.root.clone(),
			count: tree.count,
		},
	}
}

// Returns the new owner of the slot and whether a node was allocated.
func bstInsert[T infra.OrderedKey](v T, node *bstNode[T]) (*bstNode[T], bool) {
	if node == nil {
		return newBSTNode[T](v), true
	}

	var added bool
	switch res := infra.CompareOrderedKey[T](v, node.val); {
	case res < 0:
		node.left, added = bstInsert[T](v, node.left)
	case res > 0:
		node.right, added = bstInsert[T](v, node.right)
	default:
		return node, false
	}
	if added {
		node.fixHeight()
	}
	return node, added
}

/*
A node with two children always borrows its successor,
the minimum of the right subtree. The successor has no
left child, so erasing it from the right subtree ends
in the splice case.

	  |                    |
	  X                    S
	 / \     copy(S)      / \
	L   R   ========>    L   R'    (R' = R without S)
	   /
	  S
*/
func bstErase[T infra.OrderedKey](v T, node *bstNode[T]) (*bstNode[T], bool) {
	if node == nil {
		return nil, false
	}

	var removed bool
	switch res := infra.CompareOrderedKey[T](v, node.val); {
	case res < 0:
		node.left, removed = bstErase[T](v, node.left)
	case res > 0:
		node.right, removed = bstErase[T](v, node.right)
	case node.left != nil && node.right != nil:
		node.val = node.right.minimum().val
		node.right, removed = bstErase[T](node.val, node.right)
	default:
		return splice[T](node), true
	}
	if removed {
		node.fixHeight()
	}
	return node, removed
}

func NewBST[T infra.OrderedKey]() OrderedTree[T] {
	return &bsTree[T]{}
}
