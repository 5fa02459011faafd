package bsp

// nodePool is an arena of tree nodes with a free list threaded through the
// parent handle of released nodes. Handles stay valid until released;
// release bumps the generation so stale edges can be told apart.
type nodePool struct {
	nodes []*node
	free  nodeRef
	chunk int
	live  int
}

func newNodePool(chunk int) *nodePool {
	if chunk <= 0 {
		chunk = pooledBufferSize
	}
	return &nodePool{
		// slot 0 is the noNode sentinel
		nodes: []*node{{}},
		chunk: chunk,
	}
}

// acquire takes a node from the pool and sets it up to cover area.
func (p *nodePool) acquire(area aabb) nodeRef {
	if p.free == noNode {
		p.grow()
	}

	ref := p.free
	n := p.nodes[ref]
	p.free = n.parent

	n.area = area
	n.axis, n.split = splitFor(area)
	n.parent = noNode
	n.left = noNode
	n.right = noNode
	n.ripple = false
	n.live = true
	p.live++
	return ref
}

// release returns a node to the pool.
func (p *nodePool) release(ref nodeRef) {
	n := p.nodes[ref]
	clear(n.lookup)
	clear(n.members)
	n.members = n.members[:0]
	n.left = noNode
	n.right = noNode
	n.live = false
	n.gen++
	n.parent = p.free
	p.free = ref
	p.live--
}

func (p *nodePool) grow() {
	// Pool is exhausted make more
	block := make([]node, p.chunk)
	base := len(p.nodes)
	for i := range block {
		p.nodes = append(p.nodes, &block[i])
	}
	// Thread the new block so lower handles are handed out first.
	for i := len(p.nodes) - 1; i >= base; i-- {
		p.nodes[i].parent = p.free
		p.free = nodeRef(i)
	}
}

func (p *nodePool) get(ref nodeRef) *node {
	return p.nodes[ref]
}

// resolve returns the node an edge points at, or nil when the edge is stale.
func (p *nodePool) resolve(e edge) *node {
	if e.ref == noNode || int(e.ref) >= len(p.nodes) {
		return nil
	}
	n := p.nodes[e.ref]
	if !n.live || n.gen != e.gen {
		return nil
	}
	return n
}

func (p *nodePool) edgeTo(ref nodeRef) edge {
	return edge{ref: ref, gen: p.nodes[ref].gen}
}

func (p *nodePool) capacity() int {
	return len(p.nodes) - 1
}
