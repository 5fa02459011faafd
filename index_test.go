package bsp

import (
	"testing"

	"github.com/setanarut/vec"
	"github.com/stretchr/testify/require"
)

func TestIndexScenarios(t *testing.T) {
	t.Run("single object", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 0, 0, 10, 10)
		ix.AddObject(a)

		requireNames(t, []string{"a"}, ix.PointQuery(vec.Vec2{X: 5, Y: 5}))
		requireNames(t, nil, ix.PointQuery(vec.Vec2{X: 20, Y: 20}))
	})

	t.Run("two distant objects", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 0, 0, 10, 10)
		b := newBox("b", 100, 100, 10, 10)
		ix.AddObject(a)
		ix.AddObject(b)

		area, ok := ix.Area()
		require.True(t, ok)
		require.True(t, area.Contains(a.bb))
		require.True(t, area.Contains(b.bb))
		requireNames(t, []string{"a"}, ix.RangeQuery(vec.Vec2{X: 5, Y: 5}, 50))
	})

	t.Run("remove", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 0, 0, 10, 10)
		b := newBox("b", 100, 100, 10, 10)
		ix.AddObject(a)
		ix.AddObject(b)

		ix.RemoveObject(a)
		requireNames(t, []string{"b"}, ix.AllObjects())
		requireNames(t, nil, ix.PointQuery(vec.Vec2{X: 5, Y: 5}))
	})

	t.Run("move onto another object", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 0, 0, 10, 10)
		b := newBox("b", 100, 100, 10, 10)
		ix.AddObject(a)
		ix.AddObject(b)

		b.moveTo(0, 0)
		ix.UpdateObjectLocation(b)
		requireNames(t, []string{"a", "b"}, ix.PointQuery(vec.Vec2{X: 5, Y: 5}))
		requireNames(t, nil, ix.PointQuery(vec.Vec2{X: 105, Y: 105}))
	})

	t.Run("direction query", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 0, 0, 10, 10)
		ix.AddObject(a)

		res, err := ix.DirectionQuery(a, vec.Vec2{X: 1})
		require.Error(t, err)
		require.True(t, IsUnsupported(err))
		require.Nil(t, res)
	})
}

func TestIndexAddObject(t *testing.T) {
	t.Run("point query finds object anywhere inside", func(t *testing.T) {
		ix := newTestIndex()
		objs := []*box{
			newBox("a", 0, 0, 10, 10),
			newBox("b", 3, 3, 40, 2),
			newBox("c", -50, 20, 5, 80),
			newBox("d", 7, -9, 1, 1),
		}
		for _, o := range objs {
			ix.AddObject(o)
		}
		require.Equal(t, len(objs), ix.Count())

		for _, o := range objs {
			for i := 0; i <= 4; i++ {
				for j := 0; j <= 4; j++ {
					p := vec.Vec2{
						X: o.bb.X + o.bb.W*float64(i)/4,
						Y: o.bb.Y + o.bb.H*float64(j)/4,
					}
					require.Contains(t, names(ix.PointQuery(p)), o.name, "point %v", p)
				}
			}
		}
	})

	t.Run("adding twice changes nothing", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 0, 0, 10, 10)
		b := newBox("b", 4, 4, 30, 3)
		ix.AddObject(a)
		ix.AddObject(b)

		before := ix.Stats()
		ix.AddObject(b)
		ix.AddObject(a)

		require.Equal(t, before, ix.Stats())
		requireNames(t, []string{"a", "b"}, ix.AllObjects())
		require.Equal(t, 2, ix.Count())
	})

	t.Run("root grows to contain everything", func(t *testing.T) {
		ix := newTestIndex()
		objs := []*box{
			newBox("a", 0, 0, 1, 1),
			newBox("b", -300, 2, 1, 1),
			newBox("c", 2, 900, 1, 1),
			newBox("d", 500, -700, 3, 3),
		}
		for _, o := range objs {
			ix.AddObject(o)
			area, ok := ix.Area()
			require.True(t, ok)
			require.True(t, area.Contains(o.bb))
		}

		area, _ := ix.Area()
		for _, o := range objs {
			require.True(t, area.Contains(o.bb))
		}
	})

	t.Run("object straddling a split is anchored on both sides", func(t *testing.T) {
		ix := newTestIndex()
		ix.AddObject(newBox("world", 0, 0, 100, 100))
		ix.AddObject(newBox("left", 10, 10, 5, 5))
		wide := newBox("wide", 40, 40, 20, 2)
		ix.AddObject(wide)

		require.Greater(t, len(wide.edges), 1)
		require.Equal(t, 3, ix.Count())
		requireNames(t, []string{"wide", "world"}, ix.PointQuery(vec.Vec2{X: 45, Y: 41}))
		requireNames(t, []string{"wide", "world"}, ix.PointQuery(vec.Vec2{X: 55, Y: 41}))
	})

	t.Run("nodes no larger than the whole box stop subdividing", func(t *testing.T) {
		ix := newTestIndex()
		ix.AddObject(newBox("a", 0, 0, 16, 16))
		ix.AddObject(newBox("c", 0, 0, 8, 8))
		d := newBox("d", 4, 0, 12, 16)
		ix.AddObject(d)

		// the left half is 8x16, no larger than d, so d sits in it directly
		require.Len(t, d.edges, 2)
		require.Equal(t, 3, ix.Stats().Nodes)
		requireNames(t, []string{"a", "c", "d"}, ix.PointQuery(vec.Vec2{X: 6, Y: 4}))
		requireNames(t, []string{"a", "d"}, ix.PointQuery(vec.Vec2{X: 12, Y: 12}))

		d.moveTo(3.5, 0)
		ix.UpdateObjectLocation(d)
		require.Len(t, d.edges, 2)
		require.Equal(t, 3, ix.Stats().Nodes)
	})

	t.Run("degenerate objects", func(t *testing.T) {
		ix := newTestIndex()
		ix.AddObject(newBox("world", 0, 0, 100, 100))
		ix.AddObject(newBox("other", 10, 10, 30, 30))
		dot := newBox("dot", 50, 50, 0, 0)
		line := newBox("line", 25, 0, 0, 100)
		ix.AddObject(dot)
		ix.AddObject(line)

		require.Contains(t, names(ix.PointQuery(vec.Vec2{X: 50, Y: 50})), "dot")
		require.Contains(t, names(ix.PointQuery(vec.Vec2{X: 25, Y: 75})), "line")
		require.Contains(t, names(ix.RegionQuery(Rect{40, 40, 20, 20})), "dot")
		require.NotContains(t, names(ix.PointQuery(vec.Vec2{X: 26, Y: 75})), "line")
	})

	t.Run("inverted rectangles are canonicalized", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 10, 10, -10, -10)
		ix.AddObject(a)

		requireNames(t, []string{"a"}, ix.PointQuery(vec.Vec2{X: 5, Y: 5}))
		requireNames(t, nil, ix.PointQuery(vec.Vec2{X: 15, Y: 15}))
	})

	t.Run("non-finite bounds are ignored", func(t *testing.T) {
		ix := newTestIndex()
		ix.AddObject(newBox("inf", 0, 0, inf, 1))
		ix.AddObject(newBox("nan", nan, 0, 1, 1))

		require.Equal(t, 0, ix.Count())
		require.Empty(t, ix.AllObjects())
	})

	t.Run("object of another index is ignored", func(t *testing.T) {
		ix1 := newTestIndex()
		ix2 := newTestIndex()
		a := newBox("a", 0, 0, 1, 1)
		ix1.AddObject(a)
		ix2.AddObject(a)

		require.True(t, ix1.Contains(a))
		require.False(t, ix2.Contains(a))
		require.Equal(t, 0, ix2.Count())
	})
}

func TestIndexRemoveObject(t *testing.T) {
	t.Run("removed objects never come back", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 0, 0, 10, 10)
		b := newBox("b", 5, 5, 10, 10)
		c := newBox("c", 40, 40, 3, 3)
		ix.AddObject(a)
		ix.AddObject(b)
		ix.AddObject(c)

		ix.RemoveObject(b)

		require.False(t, ix.Contains(b))
		require.False(t, b.Indexed())
		require.Empty(t, b.edges)
		require.NotContains(t, names(ix.PointQuery(vec.Vec2{X: 7, Y: 7})), "b")
		require.NotContains(t, names(ix.RangeQuery(vec.Vec2{X: 10, Y: 10}, 100)), "b")
		require.NotContains(t, names(ix.AllObjects()), "b")
		requireNames(t, []string{"a", "c"}, ix.AllObjects())
	})

	t.Run("removing an unknown object is a no-op", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 0, 0, 10, 10)
		ix.AddObject(a)

		ix.RemoveObject(newBox("x", 0, 0, 1, 1))
		ix.RemoveObject(a)
		ix.RemoveObject(a)

		require.Equal(t, 0, ix.Count())
	})

	t.Run("removing everything releases every node", func(t *testing.T) {
		ix := newTestIndex()
		var objs []*box
		for i := 0; i < 20; i++ {
			o := newBox("o", float64(i*7), float64(i*i), 3, 2)
			objs = append(objs, o)
			ix.AddObject(o)
		}
		for _, o := range objs {
			ix.RemoveObject(o)
		}

		_, ok := ix.Area()
		require.False(t, ok)
		s := ix.Stats()
		require.Equal(t, 0, s.Objects)
		require.Equal(t, 0, s.Nodes)
		require.Equal(t, 0, s.Edges)
		require.Equal(t, ix.pool.capacity(), s.FreeNodes)
		require.NoError(t, ix.CheckInvariants())
	})

	t.Run("add remove cycles reuse nodes", func(t *testing.T) {
		ix := newTestIndex()
		ix.AddObject(newBox("world", 0, 0, 64, 64))
		a := newBox("a", 1, 1, 2, 2)
		b := newBox("b", 50, 50, 2, 2)

		ix.AddObject(a)
		ix.AddObject(b)
		capacity := ix.pool.capacity()

		for i := 0; i < 100; i++ {
			ix.RemoveObject(a)
			ix.RemoveObject(b)
			ix.AddObject(a)
			ix.AddObject(b)
		}
		require.Equal(t, capacity, ix.pool.capacity())
	})
}

func TestIndexUpdateObject(t *testing.T) {
	t.Run("move far away", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 0, 0, 10, 10)
		b := newBox("b", 20, 20, 10, 10)
		ix.AddObject(a)
		ix.AddObject(b)

		a.moveTo(5000, -3000)
		ix.UpdateObjectLocation(a)

		requireNames(t, []string{"a"}, ix.PointQuery(vec.Vec2{X: 5005, Y: -2995}))
		requireNames(t, nil, ix.PointQuery(vec.Vec2{X: 5, Y: 5}))
		area, _ := ix.Area()
		require.True(t, area.Contains(a.bb))
	})

	t.Run("small moves inside the tree", func(t *testing.T) {
		ix := newTestIndex()
		ix.AddObject(newBox("world", 0, 0, 128, 128))
		ix.AddObject(newBox("anchor", 100, 100, 4, 4))
		a := newBox("a", 10, 10, 4, 4)
		ix.AddObject(a)

		for i := 0; i < 50; i++ {
			a.moveTo(10+float64(i)*1.7, 10+float64(i)*0.9)
			ix.UpdateObjectLocation(a)

			c := a.bb.Center()
			require.Contains(t, names(ix.PointQuery(c)), "a")
		}
		require.NotContains(t, names(ix.PointQuery(vec.Vec2{X: 12, Y: 12})), "a")
		require.Equal(t, 3, ix.Count())
	})

	t.Run("resize", func(t *testing.T) {
		ix := newTestIndex()
		ix.AddObject(newBox("world", 0, 0, 128, 128))
		ix.AddObject(newBox("anchor", 100, 100, 4, 4))
		a := newBox("a", 10, 10, 4, 4)
		ix.AddObject(a)

		a.resize(80, 60)
		ix.UpdateObjectSize(a)
		requireNames(t, []string{"a", "world"}, ix.PointQuery(vec.Vec2{X: 85, Y: 65}))

		a.resize(1, 1)
		ix.UpdateObjectSize(a)
		requireNames(t, []string{"world"}, ix.PointQuery(vec.Vec2{X: 85, Y: 65}))
		requireNames(t, []string{"a", "world"}, ix.PointQuery(vec.Vec2{X: 10.5, Y: 10.5}))
	})

	t.Run("lone object", func(t *testing.T) {
		ix := newTestIndex()
		a := newBox("a", 0, 0, 10, 10)
		ix.AddObject(a)

		a.moveTo(3, 3)
		ix.UpdateObjectLocation(a)
		a.resize(2, 2)
		ix.UpdateObjectSize(a)

		requireNames(t, []string{"a"}, ix.PointQuery(vec.Vec2{X: 4, Y: 4}))
		requireNames(t, nil, ix.PointQuery(vec.Vec2{X: 8, Y: 8}))
		require.Equal(t, 1, ix.Count())
	})

	t.Run("unknown objects are ignored", func(t *testing.T) {
		ix := newTestIndex()
		ix.UpdateObjectLocation(newBox("x", 0, 0, 1, 1))
		require.Equal(t, 0, ix.Count())
	})
}

func TestIndexStats(t *testing.T) {
	ix := newTestIndex()
	require.Equal(t, Stats{}, ix.Stats())

	ix.AddObject(newBox("a", 0, 0, 100, 100))
	ix.AddObject(newBox("b", 1, 1, 1, 1))
	ix.AddObject(newBox("c", 90, 90, 1, 1))

	s := ix.Stats()
	require.Equal(t, 3, s.Objects)
	require.GreaterOrEqual(t, s.Edges, 3)
	require.GreaterOrEqual(t, s.Nodes, 2)
	require.GreaterOrEqual(t, s.Depth, 2)
	require.NotEmpty(t, ix.String())
}

func TestIndexEachNode(t *testing.T) {
	ix := newTestIndex()
	ix.AddObject(newBox("a", 0, 0, 100, 100))
	ix.AddObject(newBox("b", 1, 1, 1, 1))
	ix.AddObject(newBox("c", 90, 90, 1, 1))

	var nodes []NodeInfo
	ix.EachNode(func(n NodeInfo) {
		nodes = append(nodes, n)
	})
	require.Len(t, nodes, ix.Stats().Nodes)

	root := nodes[0]
	require.Equal(t, 0, root.Depth)
	area, _ := ix.Area()
	require.Equal(t, area, root.Area)

	members := 0
	for _, n := range nodes {
		members += n.Members
		require.True(t, root.Area.Contains(n.Area))
	}
	require.Equal(t, ix.Stats().Edges, members)
}
