// Package sim moves boxes around an arena and keeps a bsp index in sync with
// them, one frame at a time.
package sim

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/setanarut/bsp"
	"github.com/setanarut/vec"
)

// World owns a set of bodies and the index that stores them. All methods are
// safe for concurrent use; each frame runs under one lock.
type World struct {
	mu     sync.Mutex
	arena  bsp.Rect
	index  *bsp.Index
	bodies []*Body
	time   float64
	stamp  uint
}

// NewWorld creates an empty world whose bodies bounce inside arena.
func NewWorld(arena bsp.Rect, opts ...bsp.Option) *World {
	return &World{
		arena: arena.Canon(),
		index: bsp.New(opts...),
	}
}

// Arena returns the area bodies are kept in.
func (w *World) Arena() bsp.Rect {
	return w.arena
}

// AddBody puts b into the world.
func (w *World) AddBody(b *Body) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.arena.Contains(b.Bounds()) {
		return errors.New("body outside the arena").
			WithType(ErrTypeOutOfArena).
			WithTag("body", b.ID).
			WithTag("bounds", b.Bounds().String()).
			WithTag("arena", w.arena.String())
	}
	if w.index.Contains(b) {
		return nil
	}
	w.index.AddObject(b)
	w.bodies = append(w.bodies, b)

	logs.WithTag("body", b.ID).
		WithTag("bounds", b.Bounds().String()).
		Debug("body added")
	return nil
}

// RemoveBody takes b out of the world.
func (w *World) RemoveBody(b *Body) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.index.Contains(b) {
		return
	}
	w.index.RemoveObject(b)
	for i, o := range w.bodies {
		if o == b {
			last := len(w.bodies) - 1
			w.bodies[i] = w.bodies[last]
			w.bodies[last] = nil
			w.bodies = w.bodies[:last]
			break
		}
	}

	logs.WithTag("body", b.ID).Debug("body removed")
}

// Len returns the number of bodies in the world.
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.bodies)
}

// Populate adds n bodies at random places with random velocities. Roughly
// one body in eight is static and one in four moving ones pulse. Sizes and
// positions are snapped to a quarter grid.
func (w *World) Populate(rnd *rand.Rand, n int, maxHalf, maxSpeed float64) error {
	for i := 0; i < n; i++ {
		hw := quarter(maxHalf * (0.2 + 0.8*rnd.Float64()))
		hh := quarter(maxHalf * (0.2 + 0.8*rnd.Float64()))
		p := vec.Vec2{
			X: w.arena.X + hw + quarter(rnd.Float64()*(w.arena.W-2*hw)),
			Y: w.arena.Y + hh + quarter(rnd.Float64()*(w.arena.H-2*hh)),
		}

		var b *Body
		switch {
		case rnd.Intn(8) == 0:
			b = NewStaticBody(p, hw, hh)
		default:
			b = NewBody(p, hw, hh)
			b.SetVelocity(vec.Vec2{
				X: (2*rnd.Float64() - 1) * maxSpeed,
				Y: (2*rnd.Float64() - 1) * maxSpeed,
			})
			if rnd.Intn(4) == 0 {
				b.SetPulse(0.5*rnd.Float64(), 2*rnd.Float64())
			}
		}

		if err := w.AddBody(b); err != nil {
			return errors.New("populating world failed").
				WithTag("body_count", i).
				Wrap(err)
		}
	}
	return nil
}

// quarter rounds f down to a multiple of 0.25, at least 0.25, so spawn
// boxes land exactly inside the arena.
func quarter(f float64) float64 {
	return math.Max(0.25, math.Floor(f*4)/4)
}

// StepStats describes what one frame did to the index. A body that moved
// and resized counts in both Moved and Resized but is re-indexed once.
type StepStats struct {
	Moved    int
	Resized  int
	Duration time.Duration
}

// Step advances the world by dt seconds: it integrates positions, keeps
// bodies inside the arena, applies pulses and tells the index about every
// body that changed.
func (w *World) Step(dt float64) StepStats {
	var s StepStats
	if dt == 0 {
		return s
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.stamp++
	w.time += dt
	start := time.Now()

	for _, b := range w.bodies {
		resized := b.updateSize(w.time)
		moved := b.updatePosition(dt)
		if b.bounce(w.arena) {
			moved = true
		}

		if moved {
			s.Moved++
		}
		switch {
		case resized:
			w.index.UpdateObjectSize(b)
			s.Resized++
		case moved:
			w.index.UpdateObjectLocation(b)
		}
	}

	s.Duration = time.Since(start)
	return s
}

// Stamp returns the number of frames stepped so far.
func (w *World) Stamp() uint {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stamp
}

// Stats returns the shape of the world's index.
func (w *World) Stats() bsp.Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index.Stats()
}

// CheckInvariants verifies the world's index.
func (w *World) CheckInvariants() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.index.CheckInvariants()
}

// Inspect calls f with the bodies and index under the world lock. f must not
// keep either after it returns or modify them.
func (w *World) Inspect(f func(bodies []*Body, index *bsp.Index)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	f(w.bodies, w.index)
}
