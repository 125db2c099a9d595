package game

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/systems"
)

// ActorView is one actor as seen by renderers.
type ActorView struct {
	ID         uint32
	Role       components.Role
	Cell       grid.Cell // discrete cell, the transition start while moving
	Dest       grid.Cell // transition end, valid while Moving
	Point      r2.Vec    // continuous grid point
	World      r2.Vec
	Rotation   float64
	Moving     bool
	Grace      bool
	Appearance components.Appearance
}

// JourneyView is one journey as seen by renderers.
type JourneyView struct {
	ActorID    uint32
	Role       components.Role
	Start      grid.Cell
	Target     grid.Cell
	Path       []grid.Cell
	Appearance components.Appearance
}

// View is a read-only snapshot of the game for renderers and frontends.
type View struct {
	Geometry grid.Geometry
	Tick     int32
	Actors   []ActorView
	Journeys []JourneyView
	Score    systems.Score
	Mode     systems.Mode
	Hint     *Hint
}

// Player returns the player's actor and journey views. ok is false when no
// player exists.
func (v *View) Player() (actor ActorView, journey JourneyView, ok bool) {
	for i, a := range v.Actors {
		if a.Role == components.RolePlayer {
			return a, v.Journeys[i], true
		}
	}
	return ActorView{}, JourneyView{}, false
}

// Occupied reports whether a live actor holds or is entering cell.
func (v *View) Occupied(cell grid.Cell) bool {
	for _, a := range v.Actors {
		if a.Cell == cell || a.Moving && a.Dest == cell {
			return true
		}
	}
	return false
}

// Wreck is a destroyed actor handed to the destroyed-effect stage.
type Wreck struct {
	World    r2.Vec
	Rotation float64 // travel angle in radians
	Color    config.RGBA
	Scale    float32
}

// View returns a snapshot of the current state. Actors and Journeys are
// index-aligned. Paths are copies.
func (g *Game) View() View {
	v := View{
		Geometry: g.geom,
		Tick:     g.tick,
		Score:    g.ctx.Score,
		Mode:     g.ctx.Mode,
	}

	query := g.actorFilter.Query()
	for query.Next() {
		actor, pos, journey, app, render := query.Get()
		if !actor.Live() {
			continue
		}
		e := query.Entity()
		moving := g.transitionMap.Has(e)
		dest := pos.Cell
		if moving {
			dest = g.transitionMap.Get(e).End
		}
		v.Actors = append(v.Actors, ActorView{
			ID:         actor.ID,
			Role:       actor.Role,
			Cell:       pos.Cell,
			Dest:       dest,
			Point:      g.point(e),
			World:      render.World,
			Rotation:   g.heading(e),
			Moving:     moving,
			Grace:      g.graceMap.Has(e),
			Appearance: *app,
		})
		v.Journeys = append(v.Journeys, JourneyView{
			ActorID:    actor.ID,
			Role:       actor.Role,
			Start:      journey.Start,
			Target:     journey.Target,
			Path:       slices.Clone(journey.Path),
			Appearance: *app,
		})
	}

	v.Hint = g.tutorialHint()
	return v
}
