package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/setanarut/bsp/internal/featureflag"
	"github.com/setanarut/bsp/internal/metrics"
	"github.com/setanarut/bsp/internal/sim"
	"github.com/setanarut/bsp/internal/view"
	"github.com/setanarut/vec"
)

// runner drives the world one frame per tick and publishes what each frame
// did.
type runner struct {
	world  *sim.World
	view   *view.View
	flags  featureflag.FeatureFlag
	frame  time.Duration
	frames int
	radius float64
	rnd    *rand.Rand
}

func (r *runner) run(ctx context.Context, cancel func()) {
	redraw := make(chan struct{}, 1)
	if r.view != nil {
		go r.view.Listen(ctx, cancel, redraw)
	}

	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-redraw:
			r.view.Draw()

		case <-ticker.C:
			r.step()
			if r.view != nil {
				r.view.Draw()
			}
			if r.frames > 0 && int(r.world.Stamp()) >= r.frames {
				return
			}
		}
	}
}

// step advances the world one frame and runs the probe queries at a random
// spot of the arena.
func (r *runner) step() {
	s := r.world.Step(r.frame.Seconds())
	metrics.ObserveFrame(s.Duration)
	metrics.CountOperation("update_location", s.Moved)
	metrics.CountOperation("update_size", s.Resized)

	tree := r.world.Stats()
	metrics.SetTree(tree)

	status := fmt.Sprintf("frame %d  moved %d  resized %d  %v",
		r.world.Stamp(), s.Moved, s.Resized, s.Duration)

	r.flags.IfNotSet(featureflag.FlagDisableQueries, func() {
		arena := r.world.Arena()
		p := vec.Vec2{
			X: arena.X + r.rnd.Float64()*arena.W,
			Y: arena.Y + r.rnd.Float64()*arena.H,
		}
		for _, q := range r.world.Probe(p, r.radius) {
			metrics.ObserveQuery(q.Name, q.Duration, q.Results)
			if q.Name == "contacts" {
				status += fmt.Sprintf("  contacts %d", q.Results)
			}
		}
	})

	if r.view != nil {
		r.view.SetStatus(status)
	}

	logs.WithTag("frame", r.world.Stamp()).
		WithTag("moved", s.Moved).
		WithTag("resized", s.Resized).
		WithTag("nodes", tree.Nodes).
		WithTag("duration", s.Duration).
		Debug("frame done")
}
