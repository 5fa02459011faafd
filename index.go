package bsp

import (
	"fmt"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

const pooledBufferSize int = 256

// Index is a binary space partitioning index over object bounding boxes.
//
// The tree grows outward as objects leave it and subdivides only where
// objects crowd. An object whose box straddles a split is anchored in every
// node it touches.
//
// Index does no locking. Mutations and queries must not run concurrently.
type Index struct {
	pool   *nodePool
	root   nodeRef
	count  int
	checks bool

	// scratch buffers reused across updates
	touched []nodeRef
	kept    []edge
	path    []nodeRef

	// dedup set shared by queries
	seen     map[Object]struct{}
	seenBusy bool
}

// Option configures an Index.
type Option func(*Index)

// WithInvariantChecks makes the index verify its invariants after every
// mutation and panic on the first violation. Meant for tests.
func WithInvariantChecks(enabled bool) Option {
	return func(ix *Index) {
		ix.checks = enabled
	}
}

// WithPoolChunk sets how many nodes the pool allocates at once.
func WithPoolChunk(n int) Option {
	return func(ix *Index) {
		ix.pool = newNodePool(n)
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	ix := &Index{
		pool: newNodePool(pooledBufferSize),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Count returns the number of objects in the index.
func (ix *Index) Count() int {
	return ix.count
}

// Contains reports whether obj is stored in the index.
func (ix *Index) Contains(obj Object) bool {
	slot := obj.IndexSlot()
	return slot.owner == ix && len(slot.edges) > 0
}

// Area returns the area covered by the root of the tree. It is empty when the
// index holds no objects.
func (ix *Index) Area() (Rect, bool) {
	if ix.root == noNode {
		return Rect{}, false
	}
	return ix.pool.get(ix.root).area.rect(), true
}

// Stats describes the shape of the tree.
type Stats struct {
	Objects   int
	Edges     int
	Nodes     int
	FreeNodes int
	Depth     int
}

// Stats walks the tree and reports its size.
func (ix *Index) Stats() Stats {
	s := Stats{
		Objects:   ix.count,
		Nodes:     ix.pool.live,
		FreeNodes: ix.pool.capacity() - ix.pool.live,
	}
	ix.walk(ix.root, 1, func(ref nodeRef, depth int) {
		s.Edges += len(ix.pool.get(ref).members)
		if depth > s.Depth {
			s.Depth = depth
		}
	})
	return s
}

// NodeInfo describes one node of the partition.
type NodeInfo struct {
	Area    Rect
	Axis    Axis
	Split   float64
	Members int
	Depth   int
	Leaf    bool
}

// EachNode calls f for every node of the tree, parents before children.
func (ix *Index) EachNode(f func(n NodeInfo)) {
	ix.walk(ix.root, 0, func(ref nodeRef, depth int) {
		n := ix.pool.get(ref)
		f(NodeInfo{
			Area:    n.area.rect(),
			Axis:    n.axis,
			Split:   n.split,
			Members: len(n.members),
			Depth:   depth,
			Leaf:    n.isLeaf(),
		})
	})
}

func (ix *Index) String() string {
	var b strings.Builder
	ix.walk(ix.root, 0, func(ref nodeRef, depth int) {
		n := ix.pool.get(ref)
		fmt.Fprintf(&b, "%s#%d [%v] split %v@%v members %d\n",
			strings.Repeat("  ", depth), ref, n.area, n.axis, n.split, len(n.members))
	})
	return b.String()
}

// walk visits the subtree in pre-order, settling areas on the way.
func (ix *Index) walk(ref nodeRef, depth int, f func(ref nodeRef, depth int)) {
	if ref == noNode {
		return
	}
	f(ref, depth)
	ix.settle(ref)
	n := ix.pool.get(ref)
	ix.walk(n.left, depth+1, f)
	ix.walk(n.right, depth+1, f)
}

// setArea moves a node to a new area. Its children catch up on the next
// settle.
func (ix *Index) setArea(ref nodeRef, area aabb) {
	n := ix.pool.get(ref)
	n.area = area
	if !n.isLeaf() {
		n.ripple = true
	}
}

// settle derives the children areas of ref from its area and split.
func (ix *Index) settle(ref nodeRef) {
	n := ix.pool.get(ref)
	if !n.ripple {
		return
	}
	n.ripple = false
	if n.left != noNode {
		ix.setArea(n.left, n.leftArea())
	}
	if n.right != noNode {
		ix.setArea(n.right, n.rightArea())
	}
}

// settlePath brings the area of ref up to date by settling its ancestors
// from the root down.
func (ix *Index) settlePath(ref nodeRef) {
	path := ix.path[:0]
	for up := ix.pool.get(ref).parent; up != noNode; up = ix.pool.get(up).parent {
		path = append(path, up)
	}
	for i := len(path) - 1; i >= 0; i-- {
		ix.settle(path[i])
	}
	ix.path = path[:0]
}

// boundsOf returns the bounds of obj in edge form, or false when they cannot
// be indexed.
func (ix *Index) boundsOf(obj Object) (aabb, bool) {
	r := obj.Bounds()
	bb := toAABB(r)
	if !r.IsFinite() || !isFinite(bb.r) || !isFinite(bb.t) {
		logs.WithTag("bounds", r.String()).
			Warn(errors.New("ignoring object with non-finite bounds"))
		return aabb{}, false
	}
	return bb, true
}

// verify runs the invariant checks when they are enabled.
func (ix *Index) verify(op string) {
	if !debugChecks && !ix.checks {
		return
	}
	if err := ix.CheckInvariants(); err != nil {
		panic(errors.New("index invariants broken").
			WithTag("op", op).
			Wrap(err))
	}
}
