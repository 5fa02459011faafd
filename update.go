package bsp

// UpdateObjectLocation re-indexes obj after it moved.
func (ix *Index) UpdateObjectLocation(obj Object) {
	ix.updateObject(obj, "update_location")
}

// UpdateObjectSize re-indexes obj after it was resized.
func (ix *Index) UpdateObjectSize(obj Object) {
	ix.updateObject(obj, "update_size")
}

// updateObject moves the memberships of obj to match its current bounds.
// Objects that are not in this index are ignored.
func (ix *Index) updateObject(obj Object, op string) {
	slot := obj.IndexSlot()
	if slot.owner != ix || len(slot.edges) == 0 {
		return
	}
	bb, ok := ix.boundsOf(obj)
	if !ok {
		return
	}

	if !ix.pool.get(ix.root).area.contains(bb) {
		ix.detachAll(obj)
		ix.addObject(obj, bb)
		ix.verify(op)
		return
	}

	// Keep the memberships that may still be needed. A node that holds the
	// whole box is enough on its own.
	kept := ix.kept[:0]
	for i, e := range slot.edges {
		n := ix.pool.resolve(e)
		if n == nil {
			continue
		}
		ix.settlePath(e.ref)
		if n.area.contains(bb) {
			for _, o := range kept {
				ix.detach(obj, o)
			}
			for _, o := range slot.edges[i+1:] {
				ix.detach(obj, o)
			}
			kept = append(kept[:0], e)
			break
		}
		if !n.area.reaches(bb) {
			ix.detach(obj, e)
			continue
		}
		kept = append(kept, e)
	}

	if ix.root == noNode {
		// obj was alone and every membership went away
		ix.kept = kept[:0]
		slot.edges = slot.edges[:0]
		ix.addObject(obj, bb)
		ix.verify(op)
		return
	}

	start := ix.root
	if len(kept) > 0 {
		start = kept[0].ref
	}
	for start != noNode && !ix.pool.get(start).area.contains(bb) {
		start = ix.pool.get(start).parent
	}
	if start == noNode {
		start = ix.root
	}

	touched := ix.insertObject(start, obj, bb, bb, ix.touched[:0])

	// Whatever the insertion did not reach is stale.
	for _, e := range kept {
		if !containsRef(touched, e.ref) {
			ix.detach(obj, e)
		}
	}

	slot.edges = slot.edges[:0]
	for _, ref := range touched {
		slot.edges = append(slot.edges, ix.pool.edgeTo(ref))
	}
	ix.touched = touched[:0]
	ix.kept = kept[:0]
	ix.verify(op)
}

func containsRef(refs []nodeRef, ref nodeRef) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
