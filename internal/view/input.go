package view

import (
	"context"

	"github.com/gdamore/tcell/v2"
)

// Listen handles terminal input until ctx is done or the screen is
// finalized. Escape, Ctrl-C and q call quit. p toggles the partition and a
// resize syncs the screen; both then ask for a new frame on redraw without
// blocking.
func (v *View) Listen(ctx context.Context, quit func(), redraw chan<- struct{}) {
	events := make(chan tcell.Event, 16)
	go pollEvents(ctx, v.screen, events)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if !v.handleInput(ev, redraw) {
				quit()
				return
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalized, which
// closes events, or ctx is done.
func pollEvents(ctx context.Context, screen tcell.Screen, events chan<- tcell.Event) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			close(events)
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (v *View) handleInput(ev tcell.Event, redraw chan<- struct{}) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'p' {
			v.TogglePartition()
			requestRedraw(redraw)
		}

	case *tcell.EventResize:
		v.screen.Sync()
		requestRedraw(redraw)
	}
	return true
}

func requestRedraw(redraw chan<- struct{}) {
	select {
	case redraw <- struct{}{}:
	default:
	}
}
