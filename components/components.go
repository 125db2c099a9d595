// Package components defines ECS components for the simulation.
package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/grid"
)

// Position is an actor's authoritative discrete cell while idle.
type Position struct {
	Cell grid.Cell
}

// Transition is attached while an actor moves between two cells.
// Current is a continuous grid point that starts at Start.
type Transition struct {
	Start   grid.Cell
	End     grid.Cell
	Current r2.Vec
}

// NewTransition creates a transition positioned at its start cell.
func NewTransition(start, end grid.Cell) Transition {
	return Transition{Start: start, End: end, Current: start.Vec()}
}

// Journey is an actor's spawn cell, assigned target and recorded path.
// Start and Target never change after spawn. Path is append-only while the
// actor is a player and frozen once it is automated.
type Journey struct {
	Start    grid.Cell
	Target   grid.Cell
	Path     []grid.Cell
	BotIndex int // replay cursor; -1 while the actor is a player
}

// NewJourney creates a journey with an empty path and no replay cursor.
func NewJourney(start, target grid.Cell) Journey {
	return Journey{Start: start, Target: target, BotIndex: -1}
}

// JustSpawned marks an actor in its spawn grace period. It is removed when the
// actor's first transition completes.
type JustSpawned struct{}

// Render is the reconciled world position handed to renderers each tick.
type Render struct {
	World r2.Vec
}
