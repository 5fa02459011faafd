package bsp

import (
	"math"

	"github.com/setanarut/vec"
)

// Predicate filters the objects a query visits.
type Predicate interface {
	Match(obj Object) bool
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(obj Object) bool

func (f PredicateFunc) Match(obj Object) bool {
	return f(obj)
}

type conjunction []Predicate

func (c conjunction) Match(obj Object) bool {
	for _, p := range c {
		if !p.Match(obj) {
			return false
		}
	}
	return true
}

// And matches objects accepted by every predicate. Nil predicates are
// skipped.
func And(preds ...Predicate) Predicate {
	c := make(conjunction, 0, len(preds))
	for _, p := range preds {
		if p == nil {
			continue
		}
		if inner, ok := p.(conjunction); ok {
			c = append(c, inner...)
			continue
		}
		c = append(c, p)
	}
	if len(c) == 1 {
		return c[0]
	}
	return c
}

type classPredicate[T any] struct{}

func (classPredicate[T]) Match(obj Object) bool {
	_, ok := obj.(T)
	return ok
}

// OfClass matches objects whose dynamic type is, or implements, T.
func OfClass[T any]() Predicate {
	return classPredicate[T]{}
}

type excludePredicate struct {
	obj Object
}

func (p excludePredicate) Match(obj Object) bool {
	return obj != p.obj
}

// Excluding matches every object except obj.
func Excluding(obj Object) Predicate {
	return excludePredicate{obj}
}

type pointPredicate struct {
	p vec.Vec2
}

func (p pointPredicate) Match(obj Object) bool {
	return obj.Bounds().Canon().ContainsPoint(p.p)
}

// AtPoint matches objects whose bounds contain p, edges included.
func AtPoint(p vec.Vec2) Predicate {
	return pointPredicate{p}
}

type rectPredicate struct {
	r Rect
}

func (p rectPredicate) Match(obj Object) bool {
	return obj.Bounds().Canon().Intersects(p.r)
}

// IntersectingRect matches objects whose bounds intersect r. Touching edges
// do not count.
func IntersectingRect(r Rect) Predicate {
	return rectPredicate{r.Canon()}
}

type circlePredicate struct {
	c vec.Vec2
	r float64
}

func (p circlePredicate) Match(obj Object) bool {
	return referencePoint(obj).Sub(p.c).Mag() <= p.r
}

// WithinCircle matches objects whose reference point is at most r away from
// c. An object exactly r away matches.
func WithinCircle(c vec.Vec2, r float64) Predicate {
	return circlePredicate{c, r}
}

type neighborPredicate struct {
	c        vec.Vec2
	d        float64
	diagonal bool
}

func (p neighborPredicate) Match(obj Object) bool {
	o := referencePoint(obj)
	dx := math.Abs(o.X - p.c.X)
	dy := math.Abs(o.Y - p.c.Y)
	if p.diagonal {
		return dx <= p.d && dy <= p.d
	}
	return dx+dy <= p.d
}

// NeighborOf matches objects whose reference point lies in the square of
// half size d around c, or in the diamond of radius d when diagonal is false.
func NeighborOf(c vec.Vec2, d float64, diagonal bool) Predicate {
	return neighborPredicate{c, d, diagonal}
}
