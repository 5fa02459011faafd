package bsp

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// AddObject inserts obj into the index. Adding an object that is already in
// the index re-evaluates its placement like UpdateObjectLocation.
func (ix *Index) AddObject(obj Object) {
	slot := obj.IndexSlot()
	if slot.owner != nil && slot.owner != ix {
		logs.WithTag("bounds", obj.Bounds().String()).
			Warn(errors.New("object already belongs to another index"))
		return
	}
	if len(slot.edges) > 0 {
		ix.updateObject(obj, "add")
		return
	}

	bb, ok := ix.boundsOf(obj)
	if !ok {
		return
	}
	ix.count++
	ix.addObject(obj, bb)
	ix.verify("add")
}

func (ix *Index) addObject(obj Object, bb aabb) {
	slot := obj.IndexSlot()
	slot.owner = ix
	slot.edges = slot.edges[:0]

	if ix.root == noNode {
		ix.root = ix.pool.acquire(bb)
		ix.pool.get(ix.root).addMember(obj)
		slot.edges = append(slot.edges, ix.pool.edgeTo(ix.root))
		return
	}

	wrappers := ix.grow(bb)

	touched := ix.insertObject(ix.root, obj, bb, bb, ix.touched[:0])
	for _, ref := range touched {
		slot.edges = append(slot.edges, ix.pool.edgeTo(ref))
	}
	ix.touched = touched[:0]

	// Roots added while growing that did not receive the object route to a
	// single child and collapse right away.
	for _, e := range wrappers {
		if ix.pool.resolve(e) != nil {
			ix.checkRemoveNode(e.ref)
		}
	}
}

// grow wraps the root in new parents until its area contains bb. Each step
// doubles the root toward a violated side and places the split on the old
// root's edge. It returns the nodes it created, innermost first.
func (ix *Index) grow(bb aabb) []edge {
	var wrappers []edge
	for !ix.pool.get(ix.root).area.contains(bb) {
		if a := ix.pool.get(ix.root).area; bb.l < a.l {
			d := growth(a.width(), a.l-bb.l)
			wrappers = append(wrappers, ix.wrapRoot(aabb{a.l - d, a.b, a.r, a.t}, AxisX, a.l, rightSide))
		}
		if a := ix.pool.get(ix.root).area; bb.r > a.r {
			d := growth(a.width(), bb.r-a.r)
			wrappers = append(wrappers, ix.wrapRoot(aabb{a.l, a.b, a.r + d, a.t}, AxisX, a.r, leftSide))
		}
		if a := ix.pool.get(ix.root).area; bb.b < a.b {
			d := growth(a.height(), a.b-bb.b)
			wrappers = append(wrappers, ix.wrapRoot(aabb{a.l, a.b - d, a.r, a.t}, AxisY, a.b, rightSide))
		}
		if a := ix.pool.get(ix.root).area; bb.t > a.t {
			d := growth(a.height(), bb.t-a.t)
			wrappers = append(wrappers, ix.wrapRoot(aabb{a.l, a.b, a.r, a.t + d}, AxisY, a.t, leftSide))
		}
	}
	return wrappers
}

// growth is how far a root of the given extent grows toward a gap. Roots
// double; a root with no extent on that axis jumps straight to the gap.
func growth(extent, gap float64) float64 {
	if extent > 0 {
		return extent
	}
	return gap
}

// wrapRoot makes a new root over area with the old root as child s.
func (ix *Index) wrapRoot(area aabb, axis Axis, split float64, s side) edge {
	old := ix.root
	ref := ix.pool.acquire(area)
	n := ix.pool.get(ref)
	n.axis = axis
	n.split = split
	n.setChild(s, old)
	ix.pool.get(old).parent = ref
	ix.root = ref
	return ix.pool.edgeTo(ref)
}

// insertObject anchors obj in the subtree at ref. full is the object's whole
// box and bb the part of it inside the node. Every node that holds obj
// afterwards, new or not, is appended to touched.
func (ix *Index) insertObject(ref nodeRef, obj Object, full, bb aabb, touched []nodeRef) []nodeRef {
	n := ix.pool.get(ref)
	if n.hasMember(obj) {
		return append(touched, ref)
	}

	// Empty nodes take anything. Nodes no larger than the whole box gain
	// nothing from subdividing further.
	if len(n.members) == 0 || (n.area.width() <= full.width() && n.area.height() <= full.height()) {
		n.addMember(obj)
		return append(touched, ref)
	}

	ix.settle(ref)
	for _, s := range sides {
		area := n.childArea(s)
		if !area.reaches(bb) {
			continue
		}

		child := n.child(s)
		if child == noNode {
			child = ix.pool.acquire(area)
			ix.pool.get(child).parent = ref
			n.setChild(s, child)
		}
		touched = ix.insertObject(child, obj, full, area.clip(bb), touched)
	}
	return touched
}
