package layout

import (
	"math"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

const (
	defaultRadius = 35
	defaultHeight = 1000
	defaultWidth  = 1400
	// Vertical room kept free below the deepest level.
	bottomMargin = 120
)

type Point struct {
	X, Y float64
}

// Line is the connector between a parent circle and a child circle.
type Line struct {
	X1, Y1, X2, Y2 float64
}

type locatorCfg struct {
	radius    float64
	height    float64
	width     float64
	beginFrom float64
}

type LocatorOption func(*locatorCfg)

func WithLocatorRadius(radius float64) LocatorOption {
	return func(cfg *locatorCfg) {
		if radius > 0 {
			cfg.radius = radius
		}
	}
}

func WithLocatorCanvas(width, height float64) LocatorOption {
	return func(cfg *locatorCfg) {
		if width > 0 {
			cfg.width = width
		}
		if height > bottomMargin {
			cfg.height = height
		}
	}
}

// WithLocatorBeginFrom shifts every x coordinate to the right,
// used to place two trees side by side.
func WithLocatorBeginFrom(x float64) LocatorOption {
	return func(cfg *locatorCfg) {
		cfg.beginFrom = x
	}
}

// Locator assigns 2D coordinates to the nodes of a tree. It reads the
// tree through LevelOrder and LevelInfo only, the coordinates are
// computed once, so the tree must not be changed while the locator is
// in use.
type Locator[T infra.OrderedKey] struct {
	tree   tree.OrderedTree[T]
	cfg    locatorCfg
	points []Point
	lines  []Line
}

// Points returns one circle centre per node, in level order.
func (l *Locator[T]) Points() []Point {
	return l.points
}

// Lines returns one connector per parent-child edge, in level order
// of the child.
func (l *Locator[T]) Lines() []Line {
	return l.lines
}

/*
Every level i is split into 2^i+1 equal gaps. The parent at gap k
places its children at gaps 2k-1 (left) and 2k (right) of the level below.

	level 0:   |     |     |          (width / 2)
	level 1:   |  |  |  |  |          (width / 3 ...)

A child overlapping its left neighbour on the same row is pushed right
by at least two radiuses.
*/
func (l *Locator[T]) prepare() {
	levelInfo := l.tree.LevelInfo()
	l.points = make([]Point, 0, l.tree.Len())
	l.lines = make([]Line, 0, l.tree.Len())
	if len(levelInfo) == 0 {
		return
	}

	r := l.cfg.radius
	dHeight := (l.cfg.height - bottomMargin) / float64(len(levelInfo))
	l.points = append(l.points, Point{X: l.cfg.beginFrom + l.cfg.width/2, Y: 0})

	levelNo, levelCnt := 0, 0
	dist, lowDist := l.levelDist(levelNo), l.levelDist(levelNo+1)
	l.tree.LevelOrder(func(node tree.BinaryTreeNode[T]) {
		levelCnt++
		// Index of the current node in the points.
		parent := l.points[lo.Sum(levelInfo[:levelNo])+levelCnt-1]
		upLevelTimes := int(math.Round((parent.X - l.cfg.beginFrom) / dist))
		childY := dHeight * float64(levelNo+1)

		if node.Left() != nil {
			child := l.placeChild(Point{
				X: l.cfg.beginFrom + float64(upLevelTimes<<1-1)*lowDist,
				Y: childY,
			})
			distance := parent.X - child.X
			hypotenuse := math.Hypot(distance, dHeight-r)
			l.lines = append(l.lines, Line{
				X1: parent.X - distance*r/hypotenuse,
				Y1: parent.Y + (dHeight-r)*r/hypotenuse,
				X2: child.X,
				Y2: parent.Y + dHeight - r,
			})
		}
		if node.Right() != nil {
			child := l.placeChild(Point{
				X: l.cfg.beginFrom + float64(upLevelTimes<<1)*lowDist,
				Y: childY,
			})
			distance := child.X - parent.X
			hypotenuse := math.Hypot(distance, dHeight-r)
			l.lines = append(l.lines, Line{
				X1: parent.X + distance*r/hypotenuse,
				Y1: parent.Y + (dHeight-r)*r/hypotenuse,
				X2: child.X,
				Y2: parent.Y + dHeight - r,
			})
		}

		if /* current level is done */ levelCnt == levelInfo[levelNo] {
			levelNo++
			dist, lowDist = l.levelDist(levelNo), l.levelDist(levelNo+1)
			levelCnt = 0
		}
	})
}

func (l *Locator[T]) levelDist(levelNo int) float64 {
	return l.cfg.width / float64(int(1)<<levelNo+1)
}

func (l *Locator[T]) placeChild(child Point) Point {
	if prev := l.points[len(l.points)-1]; prev.Y == child.Y && child.X-prev.X < 2*l.cfg.radius {
		child.X = prev.X + 2*l.cfg.radius
	}
	l.points = append(l.points, child)
	return child
}

// FindPath returns the level order indexes of the nodes a search for v
// passes through. The last index is the node holding v, or the last
// node before the search fell off the tree.
func (l *Locator[T]) FindPath(v T) []int {
	indexes := make(map[T]int, len(l.points))
	cnt := 0
	l.tree.LevelOrder(func(node tree.BinaryTreeNode[T]) {
		indexes[node.Value()] = cnt
		cnt++
	})

	path := make([]int, 0, len(l.points))
	for aux := l.tree.Root(); aux != nil; {
		path = append(path, indexes[aux.Value()])
		res := infra.CompareOrderedKey[T](v, aux.Value())
		if res == 0 {
			break
		} else if res < 0 {
			aux = aux.Left()
		} else {
			aux = aux.Right()
		}
	}
	return path
}

func NewLocator[T infra.OrderedKey](t tree.OrderedTree[T], opts ...LocatorOption) *Locator[T] {
	l := &Locator[T]{
		tree: t,
		cfg: locatorCfg{
			radius: defaultRadius,
			height: defaultHeight,
			width:  defaultWidth,
		},
	}
	for _, o := range opts {
		o(&l.cfg)
	}
	l.prepare()
	return l
}
