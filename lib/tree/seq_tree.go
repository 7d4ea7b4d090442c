package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

var _ BinaryTree = (*seqTree[int])(nil)

// seqTree is the array-backed implicit binary tree. The slot i owns
// children at 2i+1 and 2i+2. A slot holding the absent value is empty,
// and so is the whole subtree below it.
type seqTree[T infra.OrderedKey] struct {
	slots  []T
	absent T
}

func (tree *seqTree[T]) isPresent(i int) bool {
	return i < len(tree.slots) && tree.slots[i] != tree.absent
}

func (tree *seqTree[T]) Empty() bool {
	return tree.NodeCount() == 0
}

func (tree *seqTree[T]) Height() int {
	return tree.height(0)
}

func (tree *seqTree[T]) height(i int) int {
	if !tree.isPresent(i) {
		return 0
	}
	return 1 + max(tree.height(i<<1+1), tree.height(i<<1+2))
}

// A slot is reachable if it and all of its ancestors are present.
func (tree *seqTree[T]) isReachable(i int) bool {
	for ; i > 0; i = (i - 1) >> 1 {
		if !tree.isPresent(i) {
			return false
		}
	}
	return tree.isPresent(0)
}

// NodeCount counts the reachable slots.
func (tree *seqTree[T]) NodeCount() int {
	cnt := 0
	for i := range tree.slots {
		if tree.isReachable(i) {
			cnt++
		}
	}
	return cnt
}

// PreOrder visits the present slots with an explicit stack. The right
// child is pushed before the left one.
func (tree *seqTree[T]) PreOrder(visit func(idx int, v T)) {
	size := len(tree.slots)
	if visit == nil || size == 0 {
		return
	}

	stack := make([]int, 0, 32)
	stack = append(stack, 0)
	for n := len(stack); n > 0; n = len(stack) {
		i := stack[n-1]
		stack = stack[:n-1]
		if !tree.isPresent(i) {
			continue
		}
		visit(i, tree.slots[i])
		if r := i<<1 + 2; r < size {
			stack = append(stack, r)
		}
		if l := i<<1 + 1; l < size {
			stack = append(stack, l)
		}
	}
}

// LevelOrder is the slot order itself, orphans below an absent slot
// are skipped.
func (tree *seqTree[T]) LevelOrder(visit func(idx int, v T)) {
	if visit == nil {
		return
	}
	for i, v := range tree.slots {
		if tree.isReachable(i) {
			visit(i, v)
		}
	}
}

type SeqTreeOption[T infra.OrderedKey] func(*seqTree[T])

// WithSeqTreeAbsentValue sets the value marking an empty slot,
// the zero value of T by default.
func WithSeqTreeAbsentValue[T infra.OrderedKey](absent T) SeqTreeOption[T] {
	return func(tree *seqTree[T]) {
		tree.absent = absent
	}
}

// SeqBinaryTree is the array-backed tree, slots are laid out in level order.
type SeqBinaryTree[T infra.OrderedKey] interface {
	BinaryTree
	PreOrder(visit func(idx int, v T))
	LevelOrder(visit func(idx int, v T))
}

func NewSeqBinaryTree[T infra.OrderedKey](values []T, opts ...SeqTreeOption[T]) SeqBinaryTree[T] {
	tree := &seqTree[T]{}
	for _, o := range opts {
		o(tree)
	}
	tree.slots = make([]T, len(values))
	copy(tree.slots, values)
	return tree
}
