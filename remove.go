package bsp

// RemoveObject takes obj out of the index. Removing an object that is not in
// the index does nothing.
func (ix *Index) RemoveObject(obj Object) {
	slot := obj.IndexSlot()
	if slot.owner != ix {
		return
	}
	ix.detachAll(obj)
	slot.reset()
	ix.count--
	ix.verify("remove")
}

// detachAll drops every membership of obj, compacting as it goes. The slot
// keeps its owner.
func (ix *Index) detachAll(obj Object) {
	slot := obj.IndexSlot()
	for len(slot.edges) > 0 {
		last := len(slot.edges) - 1
		e := slot.edges[last]
		slot.edges = slot.edges[:last]
		ix.detach(obj, e)
	}
}

// detach removes obj from the node an edge points at and compacts the tree
// above it.
func (ix *Index) detach(obj Object, e edge) {
	n := ix.pool.resolve(e)
	if n == nil {
		return
	}
	if n.removeMember(obj) {
		ix.checkRemoveNode(e.ref)
	}
}

// checkRemoveNode collapses empty nodes from ref upward. A node without
// members hands its area to its only child, or disappears when it has none.
// Nodes with two children always stay.
func (ix *Index) checkRemoveNode(ref nodeRef) {
	for ref != noNode {
		n := ix.pool.get(ref)
		if n.stable() {
			return
		}

		child := n.left
		if child == noNode {
			child = n.right
		}
		parent := n.parent

		if child != noNode {
			ix.setArea(child, n.area)
			ix.pool.get(child).parent = parent
		}
		if parent == noNode {
			ix.root = child
		} else {
			ix.pool.get(parent).replaceChild(ref, child)
		}

		ix.pool.release(ref)
		ref = parent
	}
}
