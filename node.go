package bsp

// Axis is the direction a node splits its area along.
type Axis uint8

const (
	// AxisX splits with a vertical line at x = split.
	AxisX Axis = iota
	// AxisY splits with a horizontal line at y = split.
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// nodeRef addresses a node in the pool. The zero value means no node.
type nodeRef uint32

const noNode nodeRef = 0

type side uint8

const (
	leftSide side = iota
	rightSide
)

var sides = [2]side{leftSide, rightSide}

// node is one rectangular region of the tree. The left child covers the part
// of area below split on the split axis, the right child the rest.
type node struct {
	area   aabb
	axis   Axis
	split  float64
	parent nodeRef
	left   nodeRef
	right  nodeRef

	members []Object
	lookup  map[Object]int

	gen  uint32
	live bool
	// ripple is set when area changed and the children still carry areas
	// derived from the old one.
	ripple bool
}

// splitFor halves the longer side of area.
func splitFor(area aabb) (Axis, float64) {
	if area.width() >= area.height() {
		return AxisX, area.l + area.width()/2
	}
	return AxisY, area.b + area.height()/2
}

func (n *node) hasMember(obj Object) bool {
	_, ok := n.lookup[obj]
	return ok
}

// addMember links obj to the node. Callers check hasMember first.
func (n *node) addMember(obj Object) {
	if n.lookup == nil {
		n.lookup = make(map[Object]int)
	}
	n.lookup[obj] = len(n.members)
	n.members = append(n.members, obj)
}

func (n *node) removeMember(obj Object) bool {
	i, ok := n.lookup[obj]
	if !ok {
		return false
	}
	delete(n.lookup, obj)

	last := len(n.members) - 1
	if i < last {
		moved := n.members[last]
		n.members[i] = moved
		n.lookup[moved] = i
	}
	n.members[last] = nil
	n.members = n.members[:last]
	return true
}

func (n *node) leftArea() aabb {
	a := n.area
	if n.axis == AxisX {
		a.r = n.split
	} else {
		a.t = n.split
	}
	return a
}

func (n *node) rightArea() aabb {
	a := n.area
	if n.axis == AxisX {
		a.l = n.split
	} else {
		a.b = n.split
	}
	return a
}

func (n *node) childArea(s side) aabb {
	if s == leftSide {
		return n.leftArea()
	}
	return n.rightArea()
}

func (n *node) child(s side) nodeRef {
	if s == leftSide {
		return n.left
	}
	return n.right
}

func (n *node) setChild(s side, ref nodeRef) {
	if s == leftSide {
		n.left = ref
	} else {
		n.right = ref
	}
}

// replaceChild swaps the child slot holding old for value.
func (n *node) replaceChild(old, value nodeRef) {
	if n.left == old {
		n.left = value
	} else {
		n.right = value
	}
}

func (n *node) isLeaf() bool {
	return n.left == noNode && n.right == noNode
}

// stable reports whether the node may stay in the tree: it either anchors
// some objects or routes to two subtrees.
func (n *node) stable() bool {
	return len(n.members) > 0 || (n.left != noNode && n.right != noNode)
}
