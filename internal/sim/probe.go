package sim

import (
	"time"

	"github.com/setanarut/bsp"
	"github.com/setanarut/vec"
)

// QueryStat is the outcome of one probe query.
type QueryStat struct {
	Name     string
	Duration time.Duration
	Results  int
}

// moving matches bodies that are not static.
var moving = bsp.PredicateFunc(func(obj bsp.Object) bool {
	b, ok := obj.(*Body)
	return ok && !b.static
})

// Probe runs a batch of queries against the index: what lies at p, what lies
// within r of p, which bodies touch another one, and how many overlapping
// pairs exist. It also refreshes the Touching flag of every body.
func (w *World) Probe(p vec.Vec2, r float64) []QueryStat {
	w.mu.Lock()
	defer w.mu.Unlock()

	stats := make([]QueryStat, 0, 5)
	timed := func(name string, f func() int) {
		start := time.Now()
		n := f()
		stats = append(stats, QueryStat{
			Name:     name,
			Duration: time.Since(start),
			Results:  n,
		})
	}

	timed("point", func() int {
		return len(w.index.PointQuery(p))
	})

	timed("range", func() int {
		return len(w.index.RangeQuery(p, r, moving))
	})

	timed("contacts", func() int {
		n := 0
		for _, b := range w.bodies {
			_, b.touching = w.index.FindOneIntersecting(b)
			if b.touching {
				n++
			}
		}
		return n
	})

	timed("pairs", func() int {
		n := 0
		for _, b := range w.bodies {
			n += len(w.index.IntersectionQuery(b))
		}
		return n / 2
	})

	if len(w.bodies) > 0 {
		timed("neighbors", func() int {
			return len(w.index.NeighborQuery(w.bodies[0], r, true))
		})
	}
	return stats
}

// BodiesAt returns the bodies whose box contains p.
func (w *World) BodiesAt(p vec.Vec2) []*Body {
	w.mu.Lock()
	defer w.mu.Unlock()
	return bodies(w.index.PointQuery(p, bsp.OfClass[*Body]()))
}

// BodiesIn returns the bodies overlapping region.
func (w *World) BodiesIn(region bsp.Rect) []*Body {
	w.mu.Lock()
	defer w.mu.Unlock()
	return bodies(w.index.RegionQuery(region, bsp.OfClass[*Body]()))
}

func bodies(objs []bsp.Object) []*Body {
	res := make([]*Body, 0, len(objs))
	for _, o := range objs {
		res = append(res, o.(*Body))
	}
	return res
}
