package tree

import "github.com/benz9527/xtree/lib/infra"

type TreeErr string

const (
	ErrEmptyTree     TreeErr = "[tree] empty tree"
	ErrAbsentSubtree TreeErr = "[tree] absent subtree"
)

func (err TreeErr) Error() string {
	return string(err)
}

// BinaryTree is the capability shared by every tree shape,
// linked or array-backed.
type BinaryTree interface {
	Empty() bool
	// Height of an empty tree is 0 and of a single leaf is 1.
	Height() int
	NodeCount() int
}

// BinaryTreeNode is a handle of a live node passed to visitors.
// SetValue mutates the node in place, the caller is responsible
// for keeping the search order intact.
type BinaryTreeNode[T infra.OrderedKey] interface {
	Value() T
	SetValue(v T)
	Left() BinaryTreeNode[T]
	Right() BinaryTreeNode[T]
	Height() int
	IsLeaf() bool
}

type Visitor[T infra.OrderedKey] func(node BinaryTreeNode[T])

// OrderedTree is a linked binary search tree. Values are unique,
// inserting an existing value is a no-op.
// It is not safe for concurrent use.
type OrderedTree[T infra.OrderedKey] interface {
	BinaryTree
	Len() int64
	Root() BinaryTreeNode[T]
	Find(v T) bool
	Insert(v T)
	// Erase returns false if v is not present.
	Erase(v T) bool
	Min() (T, error)
	Max() (T, error)
	// FindMin returns the leftmost node reachable from node.
	// A nil node is rejected with ErrAbsentSubtree.
	FindMin(node BinaryTreeNode[T]) (BinaryTreeNode[T], error)
	FindMax(node BinaryTreeNode[T]) (BinaryTreeNode[T], error)
	PreOrder(visit Visitor[T])
	InOrder(visit Visitor[T])
	PostOrder(visit Visitor[T])
	// LevelOrder walks breadth-first, left before right. The tree
	// structure is never modified by the walk itself.
	LevelOrder(visit Visitor[T])
	// LevelInfo returns the node count of every depth, the length
	// equals to Height().
	LevelInfo() []int
	// Clone returns an independent deep copy of the same variant.
	Clone() OrderedTree[T]
	Release()
}
