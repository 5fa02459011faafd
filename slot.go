package bsp

import "github.com/setanarut/vec"

// Object is anything with a bounding box that can be stored in an Index.
//
// Objects are compared by identity, so implementations should be pointer
// types. The easiest way to satisfy the interface is to embed a Slot:
//
//	type Box struct {
//		bsp.Slot
//		bb bsp.Rect
//	}
//
//	func (b *Box) Bounds() bsp.Rect { return b.bb }
type Object interface {
	// Bounds returns the current bounding box of the object.
	Bounds() Rect
	// IndexSlot returns the storage the index keeps for this object.
	IndexSlot() *Slot
}

// Positioned objects supply their own reference point for range and neighbor
// queries. The point must lie inside the bounds. Other objects use the center
// of their bounds.
type Positioned interface {
	Position() vec.Vec2
}

// edge is one membership of an object in a tree node.
type edge struct {
	ref nodeRef
	gen uint32
}

// Slot holds the memberships of an object inside an Index. Its contents are
// private to the index.
type Slot struct {
	owner *Index
	edges []edge
}

// IndexSlot lets a struct embedding Slot satisfy Object.
func (s *Slot) IndexSlot() *Slot {
	return s
}

// Indexed reports whether the slot currently belongs to an index.
func (s *Slot) Indexed() bool {
	return s.owner != nil && len(s.edges) > 0
}

func (s *Slot) hasEdge(ref nodeRef) bool {
	for _, e := range s.edges {
		if e.ref == ref {
			return true
		}
	}
	return false
}

func (s *Slot) reset() {
	s.owner = nil
	s.edges = s.edges[:0]
}

func referencePoint(obj Object) vec.Vec2 {
	if p, ok := obj.(Positioned); ok {
		return p.Position()
	}
	return obj.Bounds().Canon().Center()
}
