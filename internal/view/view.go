// Package view draws a simulated world and the partition of its index to a
// terminal.
package view

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/setanarut/bsp"
	"github.com/setanarut/bsp/internal/sim"
)

var (
	styleSplit    = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	styleMoving   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStatic   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTouching = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// View renders a world on a screen. The last line of the screen holds a
// status bar; the rest shows the arena scaled to fit.
type View struct {
	screen    tcell.Screen
	world     *sim.World
	partition atomic.Bool
	status    string
}

// New creates a view of world on screen. The screen must be initialized.
func New(screen tcell.Screen, world *sim.World) *View {
	v := &View{
		screen: screen,
		world:  world,
	}
	v.partition.Store(true)
	return v
}

// TogglePartition shows or hides the split lines of the tree.
func (v *View) TogglePartition() {
	for {
		old := v.partition.Load()
		if v.partition.CompareAndSwap(old, !old) {
			return
		}
	}
}

// SetStatus sets the text shown after the tree stats in the status bar.
func (v *View) SetStatus(s string) {
	v.status = s
}

// Draw renders one frame.
func (v *View) Draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	if width <= 0 || height <= 1 {
		v.screen.Show()
		return
	}

	p := projection{
		arena: v.world.Arena(),
		cols:  width,
		rows:  height - 1,
	}

	var stats bsp.Stats
	v.world.Inspect(func(bodies []*sim.Body, index *bsp.Index) {
		if v.partition.Load() {
			index.EachNode(func(n bsp.NodeInfo) {
				v.drawSplit(p, n)
			})
		}
		for _, b := range bodies {
			v.drawBody(p, b)
		}
		stats = index.Stats()
	})

	line := fmt.Sprintf(" objects %d  nodes %d  edges %d  depth %d  %s",
		stats.Objects, stats.Nodes, stats.Edges, stats.Depth, v.status)
	v.drawText(0, height-1, width, line, styleStatus)
	v.screen.Show()
}

// drawSplit draws the line a node splits its area along. Leaves are not
// split.
func (v *View) drawSplit(p projection, n bsp.NodeInfo) {
	if n.Leaf {
		return
	}
	a := n.Area
	if n.Axis == bsp.AxisX {
		x := p.col(n.Split)
		for y := p.row(a.Top()); y <= p.row(a.Y); y++ {
			v.set(x, y, '│', styleSplit)
		}
		return
	}
	y := p.row(n.Split)
	for x := p.col(a.X); x <= p.col(a.Right()); x++ {
		v.set(x, y, '─', styleSplit)
	}
}

func (v *View) drawBody(p projection, b *sim.Body) {
	style := styleMoving
	switch {
	case b.Touching():
		style = styleTouching
	case b.Static():
		style = styleStatic
	}

	bb := b.Bounds()
	for y := p.row(bb.Top()); y <= p.row(bb.Y); y++ {
		for x := p.col(bb.X); x <= p.col(bb.Right()); x++ {
			v.set(x, y, '█', style)
		}
	}
}

func (v *View) drawText(x, y, width int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (v *View) set(x, y int, r rune, style tcell.Style) {
	width, height := v.screen.Size()
	if x < 0 || y < 0 || x >= width || y >= height-1 {
		return
	}
	v.screen.SetContent(x, y, r, nil, style)
}

// projection maps arena coordinates to screen cells. World y grows upward,
// screen rows grow downward.
type projection struct {
	arena      bsp.Rect
	cols, rows int
}

func (p projection) col(x float64) int {
	return cell((x-p.arena.X)/p.arena.W, p.cols)
}

func (p projection) row(y float64) int {
	return cell((p.arena.Top()-y)/p.arena.H, p.rows)
}

func cell(f float64, n int) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// off-screen coordinates land one cell outside the screen
	f = math.Max(-1, math.Min(f, 2))
	i := int(math.Floor(f * float64(n)))
	if i >= n {
		i = n - 1
	}
	return max(i, -1)
}
