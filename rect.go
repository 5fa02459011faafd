package bsp

import (
	"fmt"
	"math"

	"github.com/setanarut/vec"
)

// Rect is an axis-aligned 2D rectangle. (x, y, width, height)
//
// The canonical form has non-negative width and height; NewRect and Canon
// produce it. Right is X+W and Top is Y+H.
type Rect struct {
	X, Y, W, H float64
}

// NewRect is convenience constructor for canonical Rect values.
// Negative sizes move the origin so the result covers the same area.
func NewRect(x, y, w, h float64) Rect {
	return Rect{x, y, w, h}.Canon()
}

// NewRectForExtents constructs a Rect centered on a point with the given extents (half sizes).
func NewRectForExtents(c vec.Vec2, hw, hh float64) Rect {
	return NewRect(c.X-hw, c.Y-hh, 2*hw, 2*hh)
}

// NewRectForCircle constructs a Rect for a circle with the given position and radius.
func NewRectForCircle(p vec.Vec2, r float64) Rect {
	return NewRectForExtents(p, r, r)
}

func (r Rect) String() string {
	return fmt.Sprintf("%v %v %v %v", r.X, r.Y, r.W, r.H)
}

// Canon returns r with negative sizes flipped.
func (r Rect) Canon() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

func (r Rect) Right() float64 {
	return r.X + r.W
}

func (r Rect) Top() float64 {
	return r.Y + r.H
}

// Contains returns true if other lies completely within r.
func (r Rect) Contains(other Rect) bool {
	return r.X <= other.X && r.Y <= other.Y && r.Top() >= other.Top() && r.Right() >= other.Right()
}

// ContainsPoint returns true if r contains p. Points on the edge count.
func (r Rect) ContainsPoint(p vec.Vec2) bool {
	return r.X <= p.X && r.Right() >= p.X && r.Y <= p.Y && r.Top() >= p.Y
}

// Intersects returns true if a and b overlap. Rectangles that only share an
// edge do not intersect.
func (r Rect) Intersects(b Rect) bool {
	return r.X < b.Right() && b.X < r.Right() && r.Y < b.Top() && b.Y < r.Top()
}

// Intersection returns the overlap of a and b. It reports false when the
// overlap is empty or has zero area.
func Intersection(a, b Rect) (Rect, bool) {
	ix := math.Max(a.X, b.X)
	ir := math.Min(a.Right(), b.Right())
	iy := math.Max(a.Y, b.Y)
	it := math.Min(a.Top(), b.Top())
	if ix >= ir || iy >= it {
		return Rect{}, false
	}
	return Rect{ix, iy, ir - ix, it - iy}, true
}

// Union returns a rectangle that holds both rectangles.
func (r Rect) Union(b Rect) Rect {
	x := math.Min(r.X, b.X)
	y := math.Min(r.Y, b.Y)
	return Rect{x, y, math.Max(r.Right(), b.Right()) - x, math.Max(r.Top(), b.Top()) - y}
}

// Center returns the center of a rectangle.
func (r Rect) Center() vec.Vec2 {
	return vec.Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Area returns the area of the rectangle.
func (r Rect) Area() float64 {
	return r.W * r.H
}

// IsFinite reports whether every component is a finite number.
func (r Rect) IsFinite() bool {
	return isFinite(r.X) && isFinite(r.Y) && isFinite(r.W) && isFinite(r.H)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
