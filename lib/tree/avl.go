package tree

import (
	"github.com/benz9527/xtree/lib/infra"
)

var _ OrderedTree[int] = (*avlTree[int])(nil)

// References:
// https://en.wikipedia.org/wiki/AVL_tree
// AVL property:
// For every node, |height(left) - height(right)| <= 1.
// So the height of n nodes is bounded by 1.44 * log2(n+2).
type avlTree[T infra.OrderedKey] struct {
	linkedTree[T]
	rotations uint64
}

// Rotations returns the number of single rotations applied so far.
// A double rotation counts as two.
func (tree *avlTree[T]) Rotations() uint64 {
	return tree.rotations
}

func (tree *avlTree[T]) Insert(v T) {
	var added bool
	if tree.root, added = tree.insert(v, tree.root); added {
		tree.count++
	}
}

func (tree *avlTree[T]) Erase(v T) bool {
	var removed bool
	if tree.root, removed = tree.erase(v, tree.root); removed {
		tree.count--
	}
	return removed
}

func (tree *avlTree[T]) Clone() OrderedTree[T] {
	return &avlTree[T]{
		linkedTree: linkedTree[T]{
			root:  tree.root.clone(),
			count: tree.count,
		},
	}
}

/*
i1: Empty slot, allocate the new node here.

i2: v was inserted into the left subtree and the left side is now 2 levels
taller. The new node is at the left child's left subtree if v is less than
the left child's value (outer), otherwise at its right subtree (inner).
Outer uses the single rotation, inner uses the double rotation.

i3: Mirror of i2.
*/
func (tree *avlTree[T]) insert(v T, node *bstNode[T]) (*bstNode[T], bool) {
	if /* i1 */ node == nil {
		return newBSTNode[T](v), true
	}

	var added bool
	switch res := infra.CompareOrderedKey[T](v, node.val); {
	case /* i2 */ res < 0:
		node.left, added = tree.insert(v, node.left)
		if node.balance() > 1 {
			if infra.CompareOrderedKey[T](v, node.left.val) < 0 {
				node = tree.rotateWithLeft(node)
			} else {
				node = tree.doubleRotateWithLeft(node)
			}
		}
	case /* i3 */ res > 0:
		node.right, added = tree.insert(v, node.right)
		if node.balance() < -1 {
			if infra.CompareOrderedKey[T](v, node.right.val) > 0 {
				node = tree.rotateWithRight(node)
			} else {
				node = tree.doubleRotateWithRight(node)
			}
		}
	default:
		// Already present.
		return node, false
	}
	node.fixHeight()
	return node, added
}

/*
r1: The node has two children. Borrow from the taller side, the max of
the left subtree (pred) or the min of the right subtree (succ), so the
shrinking side is the taller one. Equal heights borrow the succ.

	   |                    |
	   X                    P
	  / \    copy(P)       / \
	 L   R   =======>     L'  R      (L' = L without P)
	  \
	   P

r2: The node holds at most one child, splice it into the slot.

r3: On unwind the removed side may be 2 levels lower than its sibling.
The value being removed can't tell where the imbalance is, the heights
of the grandchildren decide between single and double rotation.
*/
func (tree *avlTree[T]) erase(v T, node *bstNode[T]) (*bstNode[T], bool) {
	if node == nil {
		return nil, false
	}

	var removed bool
	switch res := infra.CompareOrderedKey[T](v, node.val); {
	case res < 0:
		node.left, removed = tree.erase(v, node.left)
	case res > 0:
		node.right, removed = tree.erase(v, node.right)
	case /* r1 */ node.left != nil && node.right != nil:
		if heightOf[T](node.left) > heightOf[T](node.right) {
			node.val = node.left.maximum().val
			node.left, removed = tree.erase(node.val, node.left)
		} else {
			node.val = node.right.minimum().val
			node.right, removed = tree.erase(node.val, node.right)
		}
	default: /* r2 */
		return splice[T](node), true
	}
	if !removed {
		return node, false
	}
	return /* r3 */ tree.rebalance(node), true
}

func (tree *avlTree[T]) rebalance(node *bstNode[T]) *bstNode[T] {
	node.fixHeight()
	switch bf := node.balance(); {
	case bf > 1:
		if heightOf[T](node.left.right) > heightOf[T](node.left.left) {
			return tree.doubleRotateWithLeft(node)
		}
		return tree.rotateWithLeft(node)
	case bf < -1:
		if heightOf[T](node.right.left) > heightOf[T](node.right.right) {
			return tree.doubleRotateWithRight(node)
		}
		return tree.rotateWithRight(node)
	default:
	}
	return node
}

/*
Single rotation for the left-heavy case, returns the new subtree root.

	       K2                 K1
	      /  \               /  \
	     K1   Z   ====>     X    K2
	    /  \                    /  \
	   X    Y                  Y    Z
*/
func (tree *avlTree[T]) rotateWithLeft(k2 *bstNode[T]) *bstNode[T] {
	if k2 == nil || k2.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avl] rotate with left node k2 is nil or k2.left is nil")
	}

	k1 := k2.left
	k2.left, k1.right = k1.right, k2
	k2.fixHeight()
	k1.fixHeight()
	tree.rotations++
	return k1
}

/*
Single rotation for the right-heavy case, returns the new subtree root.

	     K1                     K2
	    /  \                   /  \
	   X    K2     ====>      K1   Z
	       /  \              /  \
	      Y    Z            X    Y
*/
func (tree *avlTree[T]) rotateWithRight(k1 *bstNode[T]) *bstNode[T] {
	if k1 == nil || k1.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[avl] rotate with right node k1 is nil or k1.right is nil")
	}

	k2 := k1.right
	k1.right, k2.left = k2.left, k1
	k1.fixHeight()
	k2.fixHeight()
	tree.rotations++
	return k2
}

/*
Double rotation for the left-heavy case (inner grandchild K2).

	         K3                      K2
	        /  \                   /    \
	       K1   D                 K1     K3
	      /  \       ====>       /  \   /  \
	     A    K2                A    B C    D
	         /  \
	        B    C
*/
func (tree *avlTree[T]) doubleRotateWithLeft(k3 *bstNode[T]) *bstNode[T] {
	k3.left = tree.rotateWithRight(k3.left)
	return tree.rotateWithLeft(k3)
}

/*
Double rotation for the right-heavy case (inner grandchild K2).

	     K3                          K2
	    /  \                       /    \
	   A    K1                    K3     K1
	       /  \      ====>       /  \   /  \
	      K2   D                A    B C    D
	     /  \
	    B    C
*/
func (tree *avlTree[T]) doubleRotateWithRight(k3 *bstNode[T]) *bstNode[T] {
	k3.right = tree.rotateWithLeft(k3.right)
	return tree.rotateWithRight(k3)
}

func NewAVLTree[T infra.OrderedKey]() OrderedTree[T] {
	return &avlTree[T]{}
}
