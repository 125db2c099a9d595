package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/systems"
)

// startTransition attaches a transition from one cell to another.
func (g *Game) startTransition(e ecs.Entity, from, to grid.Cell) {
	tr := components.NewTransition(from, to)
	g.transitionMap.Add(e, &tr)
}

// commitTransition snaps an actor to its transition end and ends its grace
// period.
func (g *Game) commitTransition(e ecs.Entity) {
	tr := g.transitionMap.Get(e)
	g.posMap.Get(e).Cell = tr.End
	g.transitionMap.Remove(e)
	if g.graceMap.Has(e) {
		g.graceMap.Remove(e)
	}
}

// recordPlayerMove appends the move to the player's journey and applies the
// resulting effects.
func (g *Game) recordPlayerMove(from, to grid.Cell) {
	player := g.player
	id := g.actorMap.Get(player).ID
	res := systems.RecordStep(g.journeyMap.Get(player), from, to)

	g.recordMoveTelemetry(id, to, res)
	g.applyEffects(systems.MoveEffects(player, res))
}

// replayBots advances every automated actor one step along its frozen path.
// Bots still in transit are snapped to their pending end first.
func (g *Game) replayBots() {
	var bots []ecs.Entity
	query := g.actorFilter.Query()
	for query.Next() {
		actor, _, _, _, _ := query.Get()
		if actor.Role != components.RoleAutomated {
			continue
		}
		e := query.Entity()
		if _, skip := g.convertedThisTick[e]; skip {
			continue
		}
		bots = append(bots, e)
	}

	for _, e := range bots {
		if g.transitionMap.Has(e) {
			g.commitTransition(e)
		}
		next, ok := systems.NextReplayStep(g.journeyMap.Get(e))
		if !ok {
			continue
		}
		g.startTransition(e, g.posMap.Get(e).Cell, next)
	}
}

// advanceTransitions moves every in-transit actor and commits arrivals.
func (g *Game) advanceTransitions(dt float64) {
	speed := g.cfg.Derived.Speed
	arrival := g.cfg.Motion.ArrivalDistance

	var arrived []ecs.Entity
	query := g.transitFilter.Query()
	for query.Next() {
		_, tr := query.Get()
		if systems.AdvanceTransition(tr, speed, arrival, dt) {
			arrived = append(arrived, query.Entity())
		}
	}

	for _, e := range arrived {
		g.commitTransition(e)
	}
}

// point returns the continuous grid point of an actor.
func (g *Game) point(e ecs.Entity) r2.Vec {
	pos := g.posMap.Get(e)
	if g.transitionMap.Has(e) {
		return systems.TransitionPoint(*pos, g.transitionMap.Get(e))
	}
	return systems.TransitionPoint(*pos, nil)
}

// heading returns the travel angle of an actor in radians, 0 while idle.
func (g *Game) heading(e ecs.Entity) float64 {
	if !g.transitionMap.Has(e) {
		return 0
	}
	tr := g.transitionMap.Get(e)
	d := r2.Sub(tr.End.Vec(), tr.Start.Vec())
	return math.Atan2(d.Y, d.X)
}

// colliders snapshots every live actor at its current world position.
func (g *Game) colliders() []systems.Collider {
	var cs []systems.Collider
	query := g.actorFilter.Query()
	for query.Next() {
		actor, _, _, _, _ := query.Get()
		if !actor.Live() {
			continue
		}
		e := query.Entity()
		cs = append(cs, systems.Collider{
			Entity: e,
			ID:     actor.ID,
			Role:   actor.Role,
			Grace:  g.graceMap.Has(e),
			World:  g.geom.PointToWorld(g.point(e)),
		})
	}
	return cs
}

// reconcile writes each actor's world position for renderers.
func (g *Game) reconcile() {
	query := g.actorFilter.Query()
	for query.Next() {
		_, _, _, _, render := query.Get()
		render.World = g.geom.PointToWorld(g.point(query.Entity()))
	}
}
