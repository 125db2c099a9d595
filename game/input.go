package game

import (
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/systems"
)

// Input is the resolved input for one tick. At most one direction is
// accepted per tick.
type Input struct {
	Dir     grid.Direction
	Ok      bool // Dir is set
	Restart bool
}

// Move returns an input requesting one step in dir.
func Move(dir grid.Direction) Input {
	return Input{Dir: dir, Ok: true}
}

// SoundSink plays a clip for an audio signal.
type SoundSink interface {
	Play(s systems.Signal)
}

// WreckSink receives actors entering the destroyed role. The simulation has
// no further interest in them. Clear drops pending wrecks on restart.
type WreckSink interface {
	Accept(w Wreck)
	Clear()
}

// handleInput applies a restart or a player move. It reports the move taken,
// if any.
func (g *Game) handleInput(in Input) (from, to grid.Cell, moved bool) {
	if in.Restart && !g.ctx.Playing() {
		g.restart()
		return grid.Cell{}, grid.Cell{}, false
	}
	if !in.Ok || !g.ctx.Playing() || !g.hasPlayer {
		return grid.Cell{}, grid.Cell{}, false
	}
	// Moves are only accepted while the player is idle.
	if g.transitionMap.Has(g.player) {
		return grid.Cell{}, grid.Cell{}, false
	}

	from = g.posMap.Get(g.player).Cell
	to = g.geom.Step(from, in.Dir)
	if to == from {
		return from, to, false
	}
	g.startTransition(g.player, from, to)
	return from, to, true
}
