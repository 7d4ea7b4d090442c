package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeqBinaryTree(t *testing.T) {
	tree := NewSeqBinaryTree[int]([]int{1, 2, 3, 0, 5})
	require.False(t, tree.Empty())
	require.Equal(t, 3, tree.Height())
	require.Equal(t, 4, tree.NodeCount())

	pre := make([]int, 0, 4)
	idx := make([]int, 0, 4)
	tree.PreOrder(func(i, v int) {
		idx = append(idx, i)
		pre = append(pre, v)
	})
	require.Equal(t, []int{1, 2, 5, 3}, pre)
	require.Equal(t, []int{0, 1, 4, 2}, idx)

	level := make([]int, 0, 4)
	tree.LevelOrder(func(_, v int) {
		level = append(level, v)
	})
	require.Equal(t, []int{1, 2, 3, 5}, level)
}

func TestSeqBinaryTree_AbsentValue(t *testing.T) {
	tree := NewSeqBinaryTree[string](
		[]string{"m", "#", "t", "#", "#", "p", "z"},
		WithSeqTreeAbsentValue[string]("#"),
	)
	require.Equal(t, 3, tree.Height())
	require.Equal(t, 4, tree.NodeCount())

	pre := make([]string, 0, 4)
	tree.PreOrder(func(_ int, v string) {
		pre = append(pre, v)
	})
	require.Equal(t, []string{"m", "t", "p", "z"}, pre)
}

func TestSeqBinaryTree_Empty(t *testing.T) {
	var trees []BinaryTree = []BinaryTree{
		NewSeqBinaryTree[int](nil),
		NewSeqBinaryTree[int]([]int{0, 0, 0}),
		NewBST[int](),
		NewAVLTree[int](),
	}
	for _, tree := range trees {
		require.True(t, tree.Empty())
		require.Equal(t, 0, tree.Height())
		require.Equal(t, 0, tree.NodeCount())
	}

	visited := 0
	NewSeqBinaryTree[int](nil).PreOrder(func(int, int) { visited++ })
	require.Equal(t, 0, visited)
}

func TestBinaryTreeCapability(t *testing.T) {
	values := []int{4, 2, 6, 1, 3, 5, 7}
	avl := NewAVLTree[int]()
	for _, v := range values {
		avl.Insert(v)
	}
	// Level order slots of the same perfect tree.
	seq := NewSeqBinaryTree[int](values)

	for _, tree := range []BinaryTree{avl, seq} {
		require.False(t, tree.Empty())
		require.Equal(t, 3, tree.Height())
		require.Equal(t, 7, tree.NodeCount())
	}
}

func TestSeqBinaryTree_Orphans(t *testing.T) {
	// Slot 3 hangs below the absent slot 1.
	tree := NewSeqBinaryTree[int]([]int{1, 0, 3, 7})
	require.Equal(t, 2, tree.Height())
	require.Equal(t, 2, tree.NodeCount())

	pre, level := make([]int, 0, 2), make([]int, 0, 2)
	tree.PreOrder(func(_, v int) { pre = append(pre, v) })
	tree.LevelOrder(func(_, v int) { level = append(level, v) })
	require.Equal(t, []int{1, 3}, pre)
	require.Equal(t, []int{1, 3}, level)

	require.True(t, NewSeqBinaryTree[int]([]int{0, 2, 3}).Empty())
}
