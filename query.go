package bsp

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/setanarut/vec"
)

// QueryFunc receives each object a query finds. Returning false stops the
// query.
type QueryFunc func(obj Object) bool

// Query calls f for every object in the tree that pred accepts, visiting only
// the subtrees that touch region. pred may be nil. Each object is reported at
// most once. f must not modify the index.
func (ix *Index) Query(region Rect, pred Predicate, f QueryFunc) {
	bb := toAABB(region)
	ix.query(&bb, pred, f)
}

// Each calls f for every object in the index.
func (ix *Index) Each(f func(obj Object)) {
	ix.query(nil, nil, func(obj Object) bool {
		f(obj)
		return true
	})
}

// PointQuery returns the objects whose bounds contain p.
func (ix *Index) PointQuery(p vec.Vec2, filters ...Predicate) []Object {
	return ix.collect(pointRegion(p), with(AtPoint(p), filters))
}

// RegionQuery returns the objects whose bounds intersect r.
func (ix *Index) RegionQuery(r Rect, filters ...Predicate) []Object {
	return ix.collect(toAABB(r), with(IntersectingRect(r), filters))
}

// IntersectionQuery returns the objects whose bounds intersect the bounds of
// obj, obj excluded. obj does not need to be in the index.
func (ix *Index) IntersectionQuery(obj Object, filters ...Predicate) []Object {
	bb := obj.Bounds()
	return ix.collect(toAABB(bb), with(And(IntersectingRect(bb), Excluding(obj)), filters))
}

// RangeQuery returns the objects whose reference point lies within r of c.
// Objects exactly r away are included.
func (ix *Index) RangeQuery(c vec.Vec2, r float64, filters ...Predicate) []Object {
	if r < 0 {
		return nil
	}
	return ix.collect(square(c, r), with(WithinCircle(c, r), filters))
}

// NeighborQuery returns the objects whose reference point is at most
// distance away from the reference point of obj, measured along both axes
// when diagonal is set and as the sum of both axes otherwise. obj itself is
// excluded.
func (ix *Index) NeighborQuery(obj Object, distance float64, diagonal bool, filters ...Predicate) []Object {
	if distance < 0 {
		return nil
	}
	c := referencePoint(obj)
	return ix.collect(square(c, distance),
		with(And(NeighborOf(c, distance, diagonal), Excluding(obj)), filters))
}

// DirectionQuery would cast from obj along dir. It is not supported and
// always returns an error of type ErrTypeUnsupportedOperation.
func (ix *Index) DirectionQuery(obj Object, dir vec.Vec2, filters ...Predicate) ([]Object, error) {
	return nil, errors.New("direction queries are not supported").
		WithType(ErrTypeUnsupportedOperation).
		WithTag("dir_x", dir.X).
		WithTag("dir_y", dir.Y)
}

// AllObjects returns every object in the index that passes the filters.
func (ix *Index) AllObjects(filters ...Predicate) []Object {
	var res []Object
	ix.query(nil, with(nil, filters), func(obj Object) bool {
		res = append(res, obj)
		return true
	})
	return res
}

// FindOne returns any object that passes the filters.
func (ix *Index) FindOne(filters ...Predicate) (Object, bool) {
	return ix.first(nil, with(nil, filters))
}

// FindOneAt returns an object whose bounds contain p.
func (ix *Index) FindOneAt(p vec.Vec2, filters ...Predicate) (Object, bool) {
	region := pointRegion(p)
	return ix.first(&region, with(AtPoint(p), filters))
}

// FindOneInRegion returns an object whose bounds intersect r.
func (ix *Index) FindOneInRegion(r Rect, filters ...Predicate) (Object, bool) {
	region := toAABB(r)
	return ix.first(&region, with(IntersectingRect(r), filters))
}

// FindOneInRange returns an object whose reference point lies within r of c.
func (ix *Index) FindOneInRange(c vec.Vec2, r float64, filters ...Predicate) (Object, bool) {
	if r < 0 {
		return nil, false
	}
	region := square(c, r)
	return ix.first(&region, with(WithinCircle(c, r), filters))
}

// FindOneNeighbor returns an object NeighborQuery would report.
func (ix *Index) FindOneNeighbor(obj Object, distance float64, diagonal bool, filters ...Predicate) (Object, bool) {
	if distance < 0 {
		return nil, false
	}
	c := referencePoint(obj)
	region := square(c, distance)
	return ix.first(&region, with(And(NeighborOf(c, distance, diagonal), Excluding(obj)), filters))
}

// FindOneIntersecting returns an object whose bounds intersect those of obj.
//
// When obj is in the index the search starts from the nodes obj is anchored
// in: it looks down each of their subtrees and up through their ancestors,
// which together hold every object that can overlap obj.
func (ix *Index) FindOneIntersecting(obj Object, filters ...Predicate) (Object, bool) {
	pred := with(And(IntersectingRect(obj.Bounds()), Excluding(obj)), filters)
	bb := toAABB(obj.Bounds())

	slot := obj.IndexSlot()
	if slot.owner != ix || len(slot.edges) == 0 {
		return ix.first(&bb, pred)
	}

	var found Object
	stop := func(o Object) bool {
		found = o
		return false
	}
	seen, owned := ix.acquireSeen()
	defer ix.releaseSeen(owned)
	for _, e := range slot.edges {
		if ix.pool.resolve(e) == nil {
			continue
		}
		ix.settlePath(e.ref)
		if !ix.subtreeQuery(e.ref, &bb, pred, seen, stop) {
			return found, true
		}
		for up := ix.pool.get(e.ref).parent; up != noNode; up = ix.pool.get(up).parent {
			if !ix.visitMembers(up, pred, seen, stop) {
				return found, true
			}
		}
	}
	return nil, false
}

func (ix *Index) collect(region aabb, pred Predicate) []Object {
	var res []Object
	ix.query(&region, pred, func(obj Object) bool {
		res = append(res, obj)
		return true
	})
	return res
}

func (ix *Index) first(region *aabb, pred Predicate) (Object, bool) {
	var found Object
	ix.query(region, pred, func(obj Object) bool {
		found = obj
		return false
	})
	return found, found != nil
}

// query walks the tree top-down. A nil region visits everything.
func (ix *Index) query(region *aabb, pred Predicate, f QueryFunc) {
	if ix.root == noNode {
		return
	}
	seen, owned := ix.acquireSeen()
	defer ix.releaseSeen(owned)
	ix.subtreeQuery(ix.root, region, pred, seen, f)
}

// acquireSeen hands out the index's dedup set. A query started from inside
// another query's callback gets a set of its own and owned is false.
func (ix *Index) acquireSeen() (seen map[Object]struct{}, owned bool) {
	if ix.seenBusy {
		return make(map[Object]struct{}), false
	}
	if ix.seen == nil {
		ix.seen = make(map[Object]struct{})
	}
	ix.seenBusy = true
	return ix.seen, true
}

func (ix *Index) releaseSeen(owned bool) {
	if owned {
		clear(ix.seen)
		ix.seenBusy = false
	}
}

// subtreeQuery reports false once f asked to stop.
func (ix *Index) subtreeQuery(ref nodeRef, region *aabb, pred Predicate, seen map[Object]struct{}, f QueryFunc) bool {
	n := ix.pool.get(ref)
	if region != nil && !n.area.touches(*region) {
		return true
	}
	if !ix.visitMembers(ref, pred, seen, f) {
		return false
	}

	ix.settle(ref)
	if n.left != noNode && !ix.subtreeQuery(n.left, region, pred, seen, f) {
		return false
	}
	if n.right != noNode && !ix.subtreeQuery(n.right, region, pred, seen, f) {
		return false
	}
	return true
}

func (ix *Index) visitMembers(ref nodeRef, pred Predicate, seen map[Object]struct{}, f QueryFunc) bool {
	for _, obj := range ix.pool.get(ref).members {
		if _, ok := seen[obj]; ok {
			continue
		}
		seen[obj] = struct{}{}
		if pred != nil && !pred.Match(obj) {
			continue
		}
		if !f(obj) {
			return false
		}
	}
	return true
}

// pointRegion is the unit box centered on p used to prune point queries.
func pointRegion(p vec.Vec2) aabb {
	return square(p, 0.5)
}

// square is the box of half size d around c.
func square(c vec.Vec2, d float64) aabb {
	return aabb{c.X - d, c.Y - d, c.X + d, c.Y + d}
}

// with joins a query's own predicate with the caller's filters.
func with(p Predicate, filters []Predicate) Predicate {
	if len(filters) == 0 {
		return p
	}
	preds := make([]Predicate, 0, len(filters)+1)
	preds = append(preds, p)
	preds = append(preds, filters...)
	pred := And(preds...)
	if c, ok := pred.(conjunction); ok && len(c) == 0 {
		return nil
	}
	return pred
}
