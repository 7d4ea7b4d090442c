package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

// linkedTree holds the storage and the read paths shared by the
// unbalanced and the AVL variants. The variants only replace the
// Insert and Erase.
type linkedTree[T infra.OrderedKey] struct {
	root  *bstNode[T]
	count int64
}

func (tree *linkedTree[T]) Empty() bool {
	return tree.root == nil
}

func (tree *linkedTree[T]) Height() int {
	return heightOf[T](tree.root)
}

func (tree *linkedTree[T]) Len() int64 {
	return tree.count
}

// NodeCount visits the whole tree in post-order. Len is the O(1) version.
func (tree *linkedTree[T]) NodeCount() int {
	cnt := 0
	tree.PostOrder(func(node BinaryTreeNode[T]) {
		if node != nil {
			cnt++
		}
	})
	return cnt
}

func (tree *linkedTree[T]) Root() BinaryTreeNode[T] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *linkedTree[T]) Find(v T) bool {
	for aux := tree.root; aux != nil; {
		res := infra.CompareOrderedKey[T](v, aux.val)
		if res == 0 {
			return true
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return false
}

func (tree *linkedTree[T]) Min() (v T, err error) {
	if tree.root == nil {
		return v, ErrEmptyTree
	}
	return tree.root.minimum().val, nil
}

func (tree *linkedTree[T]) Max() (v T, err error) {
	if tree.root == nil {
		return v, ErrEmptyTree
	}
	return tree.root.maximum().val, nil
}

func (tree *linkedTree[T]) FindMin(node BinaryTreeNode[T]) (BinaryTreeNode[T], error) {
	n, ok := asBSTNode[T](node)
	if !ok {
		return nil, ErrAbsentSubtree
	}
	return n.minimum(), nil
}

func (tree *linkedTree[T]) FindMax(node BinaryTreeNode[T]) (BinaryTreeNode[T], error) {
	n, ok := asBSTNode[T](node)
	if !ok {
		return nil, ErrAbsentSubtree
	}
	return n.maximum(), nil
}

func (tree *linkedTree[T]) PreOrder(visit Visitor[T]) {
	if visit == nil {
		return
	}
	preOrder[T](tree.root, visit)
}

func (tree *linkedTree[T]) InOrder(visit Visitor[T]) {
	if visit == nil {
		return
	}
	inOrder[T](tree.root, visit)
}

func (tree *linkedTree[T]) PostOrder(visit Visitor[T]) {
	if visit == nil {
		return
	}
	postOrder[T](tree.root, visit)
}

// LevelOrder reads the live nodes through a FIFO queue. Nothing is
// detached from the tree, so the visitor sees the real nodes.
func (tree *linkedTree[T]) LevelOrder(visit Visitor[T]) {
	if visit == nil || tree.root == nil {
		return
	}

	// The queue is read through head, so the deferred clear still
	// reaches every visited node.
	queue := make([]*bstNode[T], 0, tree.count>>1+1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, tree.root)
	for head := 0; head < len(queue); head++ {
		aux := queue[head]
		// Children are captured before the visit, a visitor mutating
		// the value must not change the walk order.
		l, r := aux.left, aux.right
		visit(aux)
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
	}
}

func (tree *linkedTree[T]) LevelInfo() []int {
	info := make([]int, tree.Height())
	if tree.root == nil {
		return info
	}

	type levelItem struct {
		node  *bstNode[T]
		level int
	}
	queue := make([]levelItem, 0, tree.count>>1+1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, levelItem{node: tree.root, level: 1})
	for head := 0; head < len(queue); head++ {
		item := queue[head]
		info[item.level-1]++
		if item.node.left != nil {
			queue = append(queue, levelItem{node: item.node.left, level: item.level + 1})
		}
		if item.node.right != nil {
			queue = append(queue, levelItem{node: item.node.right, level: item.level + 1})
		}
	}
	return info
}

// Release unlinks every node iteratively, so the release of a
// degenerated tree does not grow the goroutine stack.
func (tree *linkedTree[T]) Release() {
	aux := tree.root
	tree.root = nil
	tree.count = 0
	if aux == nil {
		return
	}

	stack := make([]*bstNode[T], 0, 32)
	defer func() {
		// Popped slots still point at nodes.
		clear(stack[:cap(stack)])
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
	}
}

func preOrder[T infra.OrderedKey](node *bstNode[T], visit Visitor[T]) {
	if node == nil {
		return
	}
	visit(node)
	preOrder[T](node.left, visit)
	preOrder[T](node.right, visit)
}

func inOrder[T infra.OrderedKey](node *bstNode[T], visit Visitor[T]) {
	if node == nil {
		return
	}
	inOrder[T](node.left, visit)
	visit(node)
	inOrder[T](node.right, visit)
}

func postOrder[T infra.OrderedKey](node *bstNode[T], visit Visitor[T]) {
	if node == nil {
		return
	}
	postOrder[T](node.left, visit)
	postOrder[T](node.right, visit)
	visit(node)
}

// Splice the node out of its slot. The node must hold at most one child,
// the survivor (or nil) becomes the new owner of the slot.
func splice[T infra.OrderedKey](node *bstNode[T]) *bstNode[T] {
	child := node.left
	if child == nil {
		child = node.right
	}
	node.left, node.right = nil, nil
	return child
}
