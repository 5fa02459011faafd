package bsp

import "github.com/aukilabs/go-tooling/pkg/errors"

// CheckInvariants walks the whole tree and returns the first inconsistency
// it finds, typed ErrTypeInvariantViolation. It costs a full traversal and is
// meant for tests and debug builds.
func (ix *Index) CheckInvariants() error {
	if ix.root == noNode {
		if ix.count != 0 || ix.pool.live != 0 {
			return errors.New("empty tree still accounts for objects or nodes").
				WithType(ErrTypeInvariantViolation).
				WithTag("objects", ix.count).
				WithTag("nodes", ix.pool.live)
		}
		return nil
	}

	root := ix.pool.get(ix.root)
	if root.parent != noNode {
		return errors.New("root has a parent").
			WithType(ErrTypeInvariantViolation).
			WithTag("node", ix.root)
	}

	c := checker{
		ix:      ix,
		rootBB:  root.area,
		objects: make(map[Object]struct{}),
	}
	if err := c.check(ix.root); err != nil {
		return err
	}

	if c.nodes != ix.pool.live {
		return errors.New("pool accounts for nodes the tree does not reach").
			WithType(ErrTypeInvariantViolation).
			WithTag("reachable", c.nodes).
			WithTag("live", ix.pool.live)
	}
	if len(c.objects) != ix.count {
		return errors.New("object count out of sync").
			WithType(ErrTypeInvariantViolation).
			WithTag("reachable", len(c.objects)).
			WithTag("count", ix.count)
	}

	for obj := range c.objects {
		for _, e := range obj.IndexSlot().edges {
			n := ix.pool.resolve(e)
			if n == nil || !n.hasMember(obj) {
				return errors.New("object keeps a dangling membership").
					WithType(ErrTypeInvariantViolation).
					WithTag("node", e.ref).
					WithTag("bounds", obj.Bounds().String())
			}
		}
	}
	return nil
}

type checker struct {
	ix      *Index
	rootBB  aabb
	objects map[Object]struct{}
	nodes   int
}

func (c *checker) check(ref nodeRef) error {
	ix := c.ix
	n := ix.pool.get(ref)
	c.nodes++

	if !n.live {
		return errors.New("released node still linked").
			WithType(ErrTypeInvariantViolation).
			WithTag("node", ref)
	}
	if !n.stable() {
		return errors.New("node without members routes to fewer than two children").
			WithType(ErrTypeInvariantViolation).
			WithTag("node", ref).
			WithTag("area", n.area.String())
	}
	if len(n.members) != len(n.lookup) {
		return errors.New("member list and lookup disagree").
			WithType(ErrTypeInvariantViolation).
			WithTag("node", ref)
	}

	for i, obj := range n.members {
		if n.lookup[obj] != i {
			return errors.New("member lookup points at the wrong slot").
				WithType(ErrTypeInvariantViolation).
				WithTag("node", ref)
		}
		bb := toAABB(obj.Bounds())
		if !c.rootBB.contains(bb) {
			return errors.New("root does not contain member").
				WithType(ErrTypeInvariantViolation).
				WithTag("root", c.rootBB.String()).
				WithTag("bounds", bb.String())
		}
		if !n.area.touches(bb) {
			return errors.New("member lies outside its node").
				WithType(ErrTypeInvariantViolation).
				WithTag("node", ref).
				WithTag("area", n.area.String()).
				WithTag("bounds", bb.String())
		}
		slot := obj.IndexSlot()
		if slot.owner != ix || !slot.hasEdge(ref) {
			return errors.New("member does not link back to its node").
				WithType(ErrTypeInvariantViolation).
				WithTag("node", ref).
				WithTag("bounds", bb.String())
		}
		c.objects[obj] = struct{}{}
	}

	ix.settle(ref)
	for _, s := range sides {
		child := n.child(s)
		if child == noNode {
			continue
		}
		cn := ix.pool.get(child)
		if cn.parent != ref {
			return errors.New("child does not point back at its parent").
				WithType(ErrTypeInvariantViolation).
				WithTag("node", child).
				WithTag("parent", ref)
		}
		if want := n.childArea(s); cn.area != want {
			return errors.New("child area differs from its parent's split").
				WithType(ErrTypeInvariantViolation).
				WithTag("node", child).
				WithTag("area", cn.area.String()).
				WithTag("want", want.String())
		}
		if err := c.check(child); err != nil {
			return err
		}
	}
	return nil
}
