package bsp

import (
	"fmt"
	"math"
)

// aabb is the edge form of a rectangle (left, bottom, right, top) the tree
// works in. Splitting and growing an aabb only ever copies edges, so child
// areas tile their parent exactly.
type aabb struct {
	l, b, r, t float64
}

func toAABB(r Rect) aabb {
	r = r.Canon()
	return aabb{r.X, r.Y, r.Right(), r.Top()}
}

func (a aabb) rect() Rect {
	return Rect{a.l, a.b, a.r - a.l, a.t - a.b}
}

func (a aabb) String() string {
	return fmt.Sprintf("%v %v %v %v", a.l, a.b, a.r, a.t)
}

func (a aabb) width() float64 {
	return a.r - a.l
}

func (a aabb) height() float64 {
	return a.t - a.b
}

// contains returns true if other lies completely within a.
func (a aabb) contains(other aabb) bool {
	return a.l <= other.l && a.r >= other.r && a.b <= other.b && a.t >= other.t
}

// touches is the closed overlap used to prune query traversal. Sharing a
// single point is enough.
func (a aabb) touches(b aabb) bool {
	return a.l <= b.r && b.l <= a.r && a.b <= b.t && b.b <= a.t
}

// reaches is the overlap used to route objects into nodes. A box with
// length on an axis must share some of it; a degenerate one only has to
// touch.
func (a aabb) reaches(b aabb) bool {
	return spans(a.l, a.r, b.l, b.r) && spans(a.b, a.t, b.b, b.t)
}

func spans(lo, hi, blo, bhi float64) bool {
	if blo == bhi {
		return lo <= blo && blo <= hi
	}
	return lo < bhi && blo < hi
}

// clip returns the part of b inside a. The result may be degenerate.
func (a aabb) clip(b aabb) aabb {
	c := aabb{
		math.Max(a.l, b.l),
		math.Max(a.b, b.b),
		math.Min(a.r, b.r),
		math.Min(a.t, b.t),
	}
	c.r = math.Max(c.l, c.r)
	c.t = math.Max(c.b, c.t)
	return c
}

// merge returns a box that holds both boxes.
func (a aabb) merge(b aabb) aabb {
	return aabb{
		math.Min(a.l, b.l),
		math.Min(a.b, b.b),
		math.Max(a.r, b.r),
		math.Max(a.t, b.t),
	}
}
