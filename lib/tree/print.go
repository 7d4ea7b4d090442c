package tree

import (
	"fmt"
	"io"

	"github.com/benz9527/xtree/lib/infra"
)

type branch uint8

const (
	rootBranch branch = iota
	leftBranch
	rightBranch
)

/*
Fprint draws the tree sideways, the right subtree above its parent and
the left subtree below. Returns the maximum depth drawn.

	       /------+ 30
	|------+ 20
	       \------+ 10
*/
func Fprint[T infra.OrderedKey](w io.Writer, tree OrderedTree[T]) int {
	return fprintNode[T](w, tree.Root(), "", rootBranch)
}

func fprintNode[T infra.OrderedKey](w io.Writer, node BinaryTreeNode[T], prefix string, br branch) int {
	if node == nil {
		return 0
	}

	rd, ld := 0, 0
	if r := node.Right(); r != nil {
		indent := "       "
		if br == leftBranch {
			indent = "|      "
		}
		rd = fprintNode[T](w, r, prefix+indent, rightBranch)
	}
	switch br {
	case rootBranch:
		_, _ = fmt.Fprintf(w, "%s|------+ ", prefix)
	case leftBranch:
		_, _ = fmt.Fprintf(w, "%s\\------+ ", prefix)
	case rightBranch:
		_, _ = fmt.Fprintf(w, "%s/------+ ", prefix)
	}
	_, _ = fmt.Fprintf(w, "%v\n", node.Value())
	if l := node.Left(); l != nil {
		indent := "       "
		if br == rightBranch {
			indent = "|      "
		}
		ld = fprintNode[T](w, l, prefix+indent, leftBranch)
	}
	return 1 + max(rd, ld)
}
