package game

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/grid"
)

// Tutorial hint texts.
const (
	HintGoHere = "Go here"
	HintGoBack = "Go back"
)

// Hint is a tutorial label anchored on a cell.
type Hint struct {
	Text  string
	Cell  grid.Cell
	World r2.Vec
}

// tutorialHint returns the hint for the first player of a game: its target
// until reached, then its start. It disappears with that player.
func (g *Game) tutorialHint() *Hint {
	if !g.tutorialActive || !g.hasPlayer {
		return nil
	}
	if g.actorMap.Get(g.player).ID != g.tutorialID {
		g.tutorialActive = false
		return nil
	}

	journey := g.journeyMap.Get(g.player)
	h := &Hint{Text: HintGoHere, Cell: journey.Target}
	if slices.Contains(journey.Path, journey.Target) {
		h = &Hint{Text: HintGoBack, Cell: journey.Start}
	}
	h.World = g.geom.CellToWorld(h.Cell)
	return h
}
