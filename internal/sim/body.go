package sim

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/setanarut/bsp"
	"github.com/setanarut/vec"
)

// Body is a moving box stored in the world's index.
type Body struct {
	bsp.Slot

	ID uuid.UUID

	position vec.Vec2
	velocity vec.Vec2
	half     vec.Vec2

	// pulsing bodies scale their half size by 1 + pulse*sin(time + phase)
	base  vec.Vec2
	pulse float64
	phase float64

	static   bool
	touching bool
}

// NewBody creates a body centered on p with the given half sizes.
func NewBody(p vec.Vec2, hw, hh float64) *Body {
	return &Body{
		ID:       uuid.New(),
		position: p,
		half:     vec.Vec2{X: hw, Y: hh},
		base:     vec.Vec2{X: hw, Y: hh},
	}
}

// NewStaticBody creates a body that never moves.
func NewStaticBody(p vec.Vec2, hw, hh float64) *Body {
	b := NewBody(p, hw, hh)
	b.static = true
	return b
}

func (b *Body) String() string {
	return fmt.Sprintf("Body %v %v", b.ID, b.Bounds())
}

// Bounds returns the box the body occupies.
func (b *Body) Bounds() bsp.Rect {
	return bsp.NewRectForExtents(b.position, b.half.X, b.half.Y)
}

// Position returns the center of the body.
func (b *Body) Position() vec.Vec2 {
	return b.position
}

// SetPosition moves the body. Call it before the body joins a world or
// between frames under the world lock.
func (b *Body) SetPosition(p vec.Vec2) {
	b.position = p
}

// Velocity returns the velocity of the body.
func (b *Body) Velocity() vec.Vec2 {
	return b.velocity
}

// SetVelocity sets the velocity of the body. Static bodies ignore it.
func (b *Body) SetVelocity(v vec.Vec2) {
	if b.static {
		return
	}
	b.velocity = v
}

// SetPulse makes the body grow and shrink by amplitude around its size.
func (b *Body) SetPulse(amplitude, phase float64) {
	b.pulse = amplitude
	b.phase = phase
}

// Static reports whether the body never moves.
func (b *Body) Static() bool {
	return b.static
}

// Touching reports whether the last probe found the body overlapping
// another one.
func (b *Body) Touching() bool {
	return b.touching
}

// updatePosition integrates the position and reports whether it changed.
func (b *Body) updatePosition(dt float64) bool {
	if b.static || b.velocity == (vec.Vec2{}) {
		return false
	}
	b.position = b.position.Add(b.velocity.Scale(dt))
	return true
}

// updateSize applies the pulse at time t and reports whether the size
// changed.
func (b *Body) updateSize(t float64) bool {
	if b.pulse == 0 {
		return false
	}
	half := b.base.Scale(1 + b.pulse*math.Sin(t+b.phase))
	if half == b.half {
		return false
	}
	b.half = half
	return true
}

// bounce keeps the body inside arena by mirroring it off the walls it
// crossed. It reports whether the body had to be moved.
func (b *Body) bounce(arena bsp.Rect) bool {
	bb := b.Bounds()
	moved := false
	if d := arena.X - bb.X; d > 0 {
		b.position.X += d
		b.velocity.X = math.Abs(b.velocity.X)
		moved = true
	} else if d := bb.Right() - arena.Right(); d > 0 {
		b.position.X -= d
		b.velocity.X = -math.Abs(b.velocity.X)
		moved = true
	}
	if d := arena.Y - bb.Y; d > 0 {
		b.position.Y += d
		b.velocity.Y = math.Abs(b.velocity.Y)
		moved = true
	} else if d := bb.Top() - arena.Top(); d > 0 {
		b.position.Y -= d
		b.velocity.Y = -math.Abs(b.velocity.Y)
		moved = true
	}
	return moved
}
