package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/tree/layout"
)

func joinInts(values []int) string {
	return strings.Join(lo.Map(values, func(v int, _ int) string {
		return strconv.Itoa(v)
	}), " ")
}

func collect(walk func(visit tree.Visitor[int])) []int {
	res := make([]int, 0, 32)
	walk(func(node tree.BinaryTreeNode[int]) {
		res = append(res, node.Value())
	})
	return res
}

/*
writeReport prints the information panel of a tree:

	height: 3
	nodes: 7
	levels: 1 2 4
	range: 1..7
	preorder: 4 2 1 3 6 5 7
	inorder: 1 2 3 4 5 6 7
	postorder: 1 3 2 5 7 6 4
	levelorder: 4 2 6 1 3 5 7
*/
func writeReport(w io.Writer, t tree.OrderedTree[int]) error {
	b := &strings.Builder{}
	writeField(b, "height", strconv.Itoa(t.Height()))
	writeField(b, "nodes", strconv.Itoa(t.NodeCount()))
	writeField(b, "levels", joinInts(t.LevelInfo()))
	if _min, err := t.Min(); err == nil {
		_max, _ := t.Max()
		writeField(b, "range", fmt.Sprintf("%d..%d", _min, _max))
	} else {
		writeField(b, "range", "-")
	}
	writeField(b, "preorder", joinInts(collect(t.PreOrder)))
	writeField(b, "inorder", joinInts(collect(t.InOrder)))
	writeField(b, "postorder", joinInts(collect(t.PostOrder)))
	writeField(b, "levelorder", joinInts(collect(t.LevelOrder)))
	_, err := io.WriteString(w, b.String())
	return err
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteByte(':')
	if value != "" {
		b.WriteByte(' ')
		b.WriteString(value)
	}
	b.WriteByte('\n')
}

// writeLayout prints one "node" row per circle and one "edge" row per
// connector, coordinates rounded to one decimal. Every value of finds
// adds a "find" row with the level order indexes its search visits.
func writeLayout(w io.Writer, t tree.OrderedTree[int], finds []int, opts ...layout.LocatorOption) error {
	l := layout.NewLocator[int](t, opts...)
	values := collect(t.LevelOrder)
	b := &strings.Builder{}
	for i, p := range l.Points() {
		fmt.Fprintf(b, "node %d: (%.1f, %.1f)\n", values[i], p.X, p.Y)
	}
	for _, line := range l.Lines() {
		fmt.Fprintf(b, "edge: (%.1f, %.1f) -> (%.1f, %.1f)\n", line.X1, line.Y1, line.X2, line.Y2)
	}
	for _, v := range finds {
		writeField(b, "find "+strconv.Itoa(v), joinInts(l.FindPath(v)))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type viewCfg struct {
	draw   bool
	layout bool
	width  float64
	height float64
	radius float64
}

// writeView prints the report of t, followed by the drawing and the
// layout if cfg asks for them. A non empty title heads the block.
func writeView(w io.Writer, title string, t tree.OrderedTree[int], cfg viewCfg, beginFrom float64, finds []int) error {
	if title != "" {
		if _, err := io.WriteString(w, title+":\n"); err != nil {
			return err
		}
	}
	if err := writeReport(w, t); err != nil {
		return err
	}
	if cfg.draw {
		_, _ = io.WriteString(w, "\n")
		tree.Fprint[int](w, t)
	}
	if !cfg.layout {
		return nil
	}
	_, _ = io.WriteString(w, "\n")
	return writeLayout(w, t, finds,
		layout.WithLocatorCanvas(cfg.width, cfg.height),
		layout.WithLocatorRadius(cfg.radius),
		layout.WithLocatorBeginFrom(beginFrom),
	)
}
