package view

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/setanarut/bsp"
	"github.com/setanarut/bsp/internal/sim"
	"github.com/setanarut/vec"
	"github.com/stretchr/testify/require"
)

func newTestScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(width, height)
	return screen
}

func cellAt(screen tcell.SimulationScreen, x, y int) rune {
	cells, width, _ := screen.GetContents()
	c := cells[y*width+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func rowText(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		c := cells[y*width+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return b.String()
}

func TestViewDraw(t *testing.T) {
	screen := newTestScreen(t, 80, 11)
	world := sim.NewWorld(bsp.Rect{X: 0, Y: 0, W: 20, H: 10})
	require.NoError(t, world.AddBody(sim.NewStaticBody(vec.Vec2{X: 2.5, Y: 7.5}, 1, 1)))

	v := New(screen, world)
	v.SetStatus("frame 1")
	v.Draw()

	// four columns and one row per unit, rows counted from the top
	require.Equal(t, '█', cellAt(screen, 10, 2))
	require.Equal(t, '█', cellAt(screen, 6, 3))
	require.Equal(t, ' ', cellAt(screen, 60, 8))

	status := rowText(screen, 10)
	require.Contains(t, status, "objects 1")
	require.Contains(t, status, "frame 1")
}

func TestViewDrawsPartition(t *testing.T) {
	screen := newTestScreen(t, 40, 21)
	world := sim.NewWorld(bsp.Rect{X: 0, Y: 0, W: 40, H: 20})
	require.NoError(t, world.AddBody(sim.NewStaticBody(vec.Vec2{X: 5, Y: 5}, 1, 1)))
	require.NoError(t, world.AddBody(sim.NewStaticBody(vec.Vec2{X: 35, Y: 15}, 1, 1)))

	splits := 0
	world.Inspect(func(_ []*sim.Body, index *bsp.Index) {
		index.EachNode(func(n bsp.NodeInfo) {
			if !n.Leaf {
				splits++
			}
		})
	})
	require.Positive(t, splits)

	v := New(screen, world)
	v.Draw()
	require.Positive(t, countRunes(screen, '│')+countRunes(screen, '─'))

	v.TogglePartition()
	v.Draw()
	require.Zero(t, countRunes(screen, '│')+countRunes(screen, '─'))
}

func countRunes(screen tcell.SimulationScreen, r rune) int {
	cells, _, _ := screen.GetContents()
	n := 0
	for _, c := range cells {
		if len(c.Runes) > 0 && c.Runes[0] == r {
			n++
		}
	}
	return n
}

func TestViewListen(t *testing.T) {
	screen := newTestScreen(t, 20, 11)
	world := sim.NewWorld(bsp.Rect{X: 0, Y: 0, W: 20, H: 10})
	v := New(screen, world)

	redraw := make(chan struct{}, 1)
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		v.Listen(context.Background(), func() { close(quit) }, redraw)
	}()

	screen.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	select {
	case <-redraw:
	case <-time.After(time.Second):
		t.Fatal("no redraw after toggling the partition")
	}
	require.False(t, v.partition.Load())

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-quit:
	case <-time.After(time.Second):
		t.Fatal("q did not quit")
	}
	<-done
}

func TestPollEventsStopsWithContext(t *testing.T) {
	screen := newTestScreen(t, 20, 11)
	ctx, cancel := context.WithCancel(context.Background())

	// nobody reads events, so the forwarded key blocks until ctx is done
	events := make(chan tcell.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		pollEvents(ctx, screen, events)
	}()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("event pump kept blocking after the context was done")
	}
}
