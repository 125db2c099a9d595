package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/game"
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/systems"
	"github.com/didibear/road-on-road/wreck"
)

// cellWidth is the number of terminal columns per board cell.
const cellWidth = 2

type tui struct {
	screen tcell.Screen
	g      *game.Game
	wrecks *wreck.Stage
	pilot  *game.Autopilot

	pending game.Input
}

// loop runs the game at a fixed tick until the user quits.
func (t *tui) loop(dt float64) {
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				in, quit := keyInput(ev.Key(), ev.Rune())
				if quit {
					return
				}
				// Keep the first direction of the tick.
				if in.Ok && !t.pending.Ok {
					t.pending.Dir, t.pending.Ok = in.Dir, true
				}
				t.pending.Restart = t.pending.Restart || in.Restart
			case *tcell.EventResize:
				t.screen.Sync()
			}

		case <-ticker.C:
			in := t.pending
			t.pending = game.Input{}
			if t.pilot != nil {
				v := t.g.View()
				if pin := t.pilot.Next(dt, &v); pin.Ok || pin.Restart {
					in = pin
				}
			}
			t.g.Step(dt, in)
			t.wrecks.Update(dt)
			t.draw()
		}
	}
}

// keyInput maps a key press to game input. quit is set for Esc, Ctrl-C and q.
func keyInput(key tcell.Key, r rune) (in game.Input, quit bool) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.Input{}, true
	case tcell.KeyUp:
		return game.Move(grid.Up), false
	case tcell.KeyDown:
		return game.Move(grid.Down), false
	case tcell.KeyLeft:
		return game.Move(grid.Left), false
	case tcell.KeyRight:
		return game.Move(grid.Right), false
	case tcell.KeyEnter:
		return game.Input{Restart: true}, false
	case tcell.KeyRune:
		switch r {
		case 'q':
			return game.Input{}, true
		case 'w', 'k':
			return game.Move(grid.Up), false
		case 's', 'j':
			return game.Move(grid.Down), false
		case 'a', 'h':
			return game.Move(grid.Left), false
		case 'd', 'l':
			return game.Move(grid.Right), false
		case ' ':
			return game.Input{Restart: true}, false
		}
	}
	return game.Input{}, false
}

// layout places the board centred in a terminal of w x h cells, leaving two
// rows above it for the score and hint.
type layout struct {
	left, top int
	size      grid.Size
}

func newLayout(w, h int, size grid.Size) layout {
	return layout{
		left: max(0, (w-size.W*cellWidth)/2),
		top:  max(2, (h-size.H)/2),
		size: size,
	}
}

// cell returns the terminal column and row of a board cell. Board y grows
// upward, terminal rows grow downward.
func (l layout) cell(c grid.Cell) (col, row int) {
	return l.left + c.X*cellWidth, l.top + l.size.H - 1 - c.Y
}

func rgb(c config.RGBA, alpha float32) tcell.Color {
	return tcell.NewRGBColor(int32(float32(c.R)*alpha), int32(float32(c.G)*alpha), int32(float32(c.B)*alpha))
}

func (t *tui) draw() {
	v := t.g.View()
	w, h := t.screen.Size()
	l := newLayout(w, h, v.Geometry.Size)

	t.screen.Clear()

	base := tcell.StyleDefault.Background(tcell.NewRGBColor(32, 32, 42))
	for _, c := range v.Geometry.Cells() {
		t.put(l, c, "  ", base)
	}

	for _, j := range v.Journeys {
		trail := base.Background(rgb(j.Appearance.Color, 0.35*j.Appearance.Alpha))
		for _, c := range j.Path {
			t.put(l, c, "  ", trail)
		}
		marker := tcell.StyleDefault.Foreground(rgb(j.Appearance.Color, 1))
		t.put(l, j.Start, "()", marker)
		t.put(l, j.Target, "[]", marker)
	}

	for _, a := range v.Actors {
		c := a.Cell
		if a.Moving {
			c = grid.Cell{X: int(a.Point.X + 0.5), Y: int(a.Point.Y + 0.5)}
		}
		glyph := "<>"
		if a.Role == components.RolePlayer {
			glyph = "@@"
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(rgb(a.Appearance.Color, a.Appearance.Alpha))
		if a.Grace {
			style = style.Blink(true)
		}
		t.put(l, c, glyph, style)
	}

	for _, p := range t.wrecks.Pieces() {
		if c, ok := v.Geometry.WorldToCell(p.World); ok {
			t.put(l, c, "**", tcell.StyleDefault.Foreground(rgb(p.Color, 1)))
		}
	}

	t.text(l.left, l.top-2, v.Score.String(), tcell.StyleDefault)
	if v.Hint != nil {
		col, row := l.cell(v.Hint.Cell)
		t.text(col, row-1, v.Hint.Text, tcell.StyleDefault.Bold(true))
	}
	if v.Mode == systems.ModeEndGame {
		t.text(l.left, l.top+l.size.H+1, "Game ended", tcell.StyleDefault.Bold(true))
		t.text(l.left, l.top+l.size.H+2, "Press space to restart", tcell.StyleDefault)
	}

	t.screen.Show()
}

func (t *tui) put(l layout, c grid.Cell, s string, style tcell.Style) {
	col, row := l.cell(c)
	t.text(col, row, s, style)
}

func (t *tui) text(col, row int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(col+i, row, r, nil, style)
	}
}
