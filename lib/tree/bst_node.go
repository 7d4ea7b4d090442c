package tree

import "github.com/benz9527/xtree/lib/infra"

var _ BinaryTreeNode[int] = (*bstNode[int])(nil)

type bstNode[T infra.OrderedKey] struct {
	left   *bstNode[T]
	right  *bstNode[T]
	val    T
	height int
}

func newBSTNode[T infra.OrderedKey](v T) *bstNode[T] {
	return &bstNode[T]{
		val:    v,
		height: 1,
	}
}

func (node *bstNode[T]) Value() T {
	return node.val
}

func (node *bstNode[T]) SetValue(v T) {
	node.val = v
}

func (node *bstNode[T]) Left() BinaryTreeNode[T] {
	if node == nil || node.left == nil {
		return nil
	}
	return node.left
}

func (node *bstNode[T]) Right() BinaryTreeNode[T] {
	if node == nil || node.right == nil {
		return nil
	}
	return node.right
}

func (node *bstNode[T]) Height() int {
	return heightOf[T](node)
}

func (node *bstNode[T]) IsLeaf() bool {
	return node != nil && node.left == nil && node.right == nil
}

func (node *bstNode[T]) minimum() *bstNode[T] {
	aux := node
	for ; aux != nil && aux.left != nil; aux = aux.left {
	}
	return aux
}

func (node *bstNode[T]) maximum() *bstNode[T] {
	aux := node
	for ; aux != nil && aux.right != nil; aux = aux.right {
	}
	return aux
}

// Recalculate the cached height from the children.
// The children heights must be up to date.
func (node *bstNode[T]) fixHeight() {
	hl, hr := heightOf[T](node.left), heightOf[T](node.right)
	if hl > hr {
		node.height = hl + 1
	} else {
		node.height = hr + 1
	}
}

// Balance factor, height(left) - height(right).
func (node *bstNode[T]) balance() int {
	return heightOf[T](node.left) - heightOf[T](node.right)
}

// Deep copy. Cloning a nil node yields nil.
func (node *bstNode[T]) clone() *bstNode[T] {
	if node == nil {
		return nil
	}
	return &bstNode[T]{
		val:    node.val,
		height: node.height,
		left:   node.left.clone(),
		right:  node.right.clone(),
	}
}

func heightOf[T infra.OrderedKey](node *bstNode[T]) int {
	if node == nil {
		return 0
	}
	return node.height
}

// Converts a handle back to the concrete node. Foreign implementations
// are not accepted.
func asBSTNode[T infra.OrderedKey](node BinaryTreeNode[T]) (*bstNode[T], bool) {
	if node == nil {
		return nil, false
	}
	n, ok := node.(*bstNode[T])
	if !ok || n == nil {
		return nil, false
	}
	return n, true
}
