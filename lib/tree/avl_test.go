package tree

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func avlValidate[T int | uint64 | string](t *testing.T, tree OrderedTree[T]) {
	require.NoError(t, OrderViolationValidate[T](tree))
	require.NoError(t, HeightViolationValidate[T](tree))
	require.NoError(t, BalanceViolationValidate[T](tree))
	require.Equal(t, int(tree.Len()), tree.NodeCount())

	info := tree.LevelInfo()
	require.Len(t, info, tree.Height())
	sum := 0
	for _, cnt := range info {
		sum += cnt
	}
	require.Equal(t, tree.NodeCount(), sum)
}

func avlHeightBound(n int) int {
	return int(math.Ceil(1.44 * math.Log2(float64(n+2))))
}

func TestAVLTree_RotationScenarios(t *testing.T) {
	testcases := []struct {
		name      string
		values    []int
		rotations uint64
	}{
		{"right child right subtree", []int{10, 20, 30}, 1},
		{"left child left subtree", []int{30, 20, 10}, 1},
		{"right child left subtree", []int{10, 30, 20}, 2},
		{"left child right subtree", []int{30, 10, 20}, 2},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewAVLTree[int]()
			for _, v := range tc.values {
				tree.Insert(v)
				avlValidate[int](tt, tree)
			}
			root := tree.Root()
			require.Equal(tt, 20, root.Value())
			require.Equal(tt, 10, root.Left().Value())
			require.Equal(tt, 30, root.Right().Value())
			require.True(tt, root.Left().IsLeaf())
			require.True(tt, root.Right().IsLeaf())
			require.Equal(tt, 2, tree.Height())
			require.Equal(tt, tc.rotations, tree.(*avlTree[int]).Rotations())
		})
	}
}

func TestAVLTree_Ascending(t *testing.T) {
	tree := NewAVLTree[int]()
	for i := 1; i <= 7; i++ {
		tree.Insert(i)
		avlValidate[int](t, tree)
	}
	require.Equal(t, []int{4, 2, 6, 1, 3, 5, 7}, collectLevelOrder(tree))
	require.Equal(t, []int{4, 2, 1, 3, 6, 5, 7}, collectPreOrder(tree))
	require.Equal(t, []int{1, 3, 2, 5, 7, 6, 4}, collectPostOrder(tree))
	require.Equal(t, []int{1, 2, 4}, tree.LevelInfo())
	require.Equal(t, 3, tree.Height())
}

func TestAVLTree_EraseRebalance(t *testing.T) {
	tree := NewAVLTree[int]()
	for _, v := range []int{10, 20, 30, 40, 50} {
		tree.Insert(v)
	}
	require.Equal(t, []int{20, 10, 40, 30, 50}, collectPreOrder(tree))

	require.True(t, tree.Erase(10))
	avlValidate[int](t, tree)
	require.False(t, tree.Find(10))
	require.Equal(t, 4, tree.NodeCount())
	// Right-heavy at 20 with equally tall grandchildren, single rotation.
	require.Equal(t, []int{40, 20, 30, 50}, collectPreOrder(tree))
	require.Equal(t, 3, tree.Height())
}

func TestAVLTree_EraseDoubleRotation(t *testing.T) {
	tree := NewAVLTree[int]()
	for _, v := range []int{20, 10, 40, 30} {
		tree.Insert(v)
	}
	require.Equal(t, []int{20, 10, 40, 30}, collectPreOrder(tree))

	// 40 keeps only the inner child 30, so the erase of 10 leaves
	// a right-left shape behind.
	require.True(t, tree.Erase(10))
	avlValidate[int](t, tree)
	require.Equal(t, []int{30, 20, 40}, collectPreOrder(tree))
}

func TestAVLTree_EraseTwoChildrenPromotion(t *testing.T) {
	values := []int{50, 30, 70, 20, 40, 60, 35}

	avl := NewAVLTree[int]()
	bst := NewBST[int]()
	for _, v := range values {
		avl.Insert(v)
		bst.Insert(v)
	}
	require.Equal(t, collectPreOrder(bst), collectPreOrder(avl))
	require.Equal(t, 3, avl.Root().Left().Height())
	require.Equal(t, 2, avl.Root().Right().Height())

	// The left side is taller, avl borrows the predecessor.
	require.True(t, avl.Erase(50))
	avlValidate[int](t, avl)
	require.Equal(t, 40, avl.Root().Value())
	require.Equal(t, []int{40, 30, 20, 35, 70, 60}, collectPreOrder(avl))

	// The plain tree always borrows the successor.
	require.True(t, bst.Erase(50))
	require.Equal(t, 60, bst.Root().Value())
	require.Equal(t, []int{60, 30, 20, 40, 35, 70}, collectPreOrder(bst))

	// Equal heights, avl borrows the successor.
	eq := NewAVLTree[int]()
	for _, v := range []int{50, 30, 70} {
		eq.Insert(v)
	}
	require.True(t, eq.Erase(50))
	require.Equal(t, []int{70, 30}, collectPreOrder(eq))
	avlValidate[int](t, eq)
}

func TestAVLTree_EraseAbsent(t *testing.T) {
	tree := NewAVLTree[int]()
	for _, v := range []int{10, 20, 30, 40, 50} {
		tree.Insert(v)
	}
	before := collectPreOrder(tree)
	require.False(t, tree.Erase(35))
	require.False(t, tree.Erase(0))
	require.Equal(t, before, collectPreOrder(tree))
	require.Equal(t, int64(5), tree.Len())
	require.Equal(t, 5, tree.NodeCount())
}

func TestAVLTree_DuplicateInsert(t *testing.T) {
	tree := NewAVLTree[string]()
	for _, v := range []string{"d", "b", "f", "a", "c", "e", "g"} {
		tree.Insert(v)
	}
	before := collectPreOrder(tree)
	rotations := tree.(*avlTree[string]).Rotations()
	tree.Insert("a")
	tree.Insert("d")
	require.Equal(t, before, collectPreOrder(tree))
	require.Equal(t, 7, tree.NodeCount())
	require.Equal(t, rotations, tree.(*avlTree[string]).Rotations())
}

func TestAVLTree_Clone(t *testing.T) {
	tree := NewAVLTree[int]()
	for i := 0; i < 64; i++ {
		tree.Insert(i)
	}
	cloned := tree.Clone()
	_, ok := cloned.(*avlTree[int])
	require.True(t, ok)
	require.Equal(t, collectLevelOrder(tree), collectLevelOrder(cloned))

	for i := 0; i < 64; i += 2 {
		require.True(t, cloned.Erase(i))
		avlValidate[int](t, cloned)
	}
	require.Equal(t, 64, tree.NodeCount())
	require.Equal(t, 32, cloned.NodeCount())
	avlValidate[int](t, tree)
}

func TestAVLTree_RandomInsertErase(t *testing.T) {
	tree := NewAVLTree[uint64]()
	set := make(map[uint64]struct{}, 2048)
	for i := 0; i < 5000; i++ {
		v := uint64(rand.Int63n(2048))
		if rand.Intn(3) == 0 {
			_, ok := set[v]
			require.Equal(t, ok, tree.Erase(v))
			delete(set, v)
			require.False(t, tree.Find(v))
		} else {
			tree.Insert(v)
			set[v] = struct{}{}
			require.True(t, tree.Find(v))
		}
		require.Equal(t, int64(len(set)), tree.Len())
		require.NoError(t, BalanceViolationValidate[uint64](tree))
		require.LessOrEqual(t, tree.Height(), avlHeightBound(len(set)))
	}
	avlValidate[uint64](t, tree)

	expected := make([]uint64, 0, len(set))
	for v := range set {
		expected = append(expected, v)
	}
	sort.Slice(expected, func(i, j int) bool { return expected[i] < expected[j] })
	require.Equal(t, expected, collectInOrder(tree))

	for _, v := range expected {
		require.True(t, tree.Erase(v))
		require.NoError(t, BalanceViolationValidate[uint64](tree))
	}
	require.True(t, tree.Empty())
	require.Equal(t, 0, tree.Height())
}

func TestAVLTree_HeightBound(t *testing.T) {
	tree := NewAVLTree[int]()
	for i := 0; i < 1<<12; i++ {
		tree.Insert(i)
	}
	n := tree.NodeCount()
	require.Equal(t, 1<<12, n)
	require.LessOrEqual(t, tree.Height(), avlHeightBound(n))
	t.Logf("nodes: %d, height: %d, bound: %d, rotations: %d",
		n, tree.Height(), avlHeightBound(n), tree.(*avlTree[int]).Rotations())

	tree.Release()
	require.True(t, tree.Empty())
}

func TestAVLTree_RotatePanics(t *testing.T) {
	tree := &avlTree[int]{}
	require.Panics(t, func() {
		tree.rotateWithLeft(newBSTNode[int](1))
	})
	require.Panics(t, func() {
		tree.rotateWithRight(newBSTNode[int](1))
	})
}

func TestAVLTree_LevelOrderPerfect(t *testing.T) {
	tree := NewAVLTree[int]()
	for i := 1; i < 1<<10; i++ {
		tree.Insert(i)
	}
	info := tree.LevelInfo()
	require.Len(t, info, 10)
	for i, cnt := range info {
		require.Equal(t, 1<<i, cnt)
	}

	// Every level of a perfect tree is an ascending run of 2^i values.
	values := collectLevelOrder[int](tree)
	require.Len(t, values, 1<<10-1)
	require.Equal(t, 512, values[0])
	for level, begin := 0, 0; level < 10; level++ {
		run := values[begin : begin+1<<level]
		require.True(t, sort.IntsAreSorted(run))
		begin += 1 << level
	}
	avlValidate[int](t, tree)
}
