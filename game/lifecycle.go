package game

import (
	"errors"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/systems"
	"github.com/didibear/road-on-road/telemetry"
)

// startGame spawns the first player of a game. It carries the tutorial hint.
func (g *Game) startGame() {
	if err := g.spawnPlayer(); err != nil {
		g.endGame("no_room")
		return
	}
	g.tutorialID = g.actorMap.Get(g.player).ID
	g.tutorialActive = true
}

// restart discards every actor and resets the score.
func (g *Game) restart() {
	var all []ecs.Entity
	query := g.actorFilter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		g.world.RemoveEntity(e)
	}

	g.hasPlayer = false
	g.tutorialActive = false
	g.colorIndex = 0
	g.destroyed = g.destroyed[:0]
	if g.wrecks != nil {
		g.wrecks.Clear()
	}
	g.ctx.Reset()
	g.resetTelemetry()

	slog.Info("game_restarted", "tick", g.tick)
	g.collector.Record(telemetry.NewRestartEvent(g.tick))

	g.startGame()
}

// endGame moves the game to its end state.
func (g *Game) endGame(reason string) {
	g.ctx.End()
	slog.Info("game_ended",
		"reason", reason,
		"tick", g.tick,
		"journeys", g.ctx.Score.Journeys,
		"remaining_attempts", g.ctx.Score.RemainingAttempts,
	)
	g.collector.Record(telemetry.NewGameEndedEvent(g.tick))
	g.saveSnapshot(nil)
}

// occupancy returns every cell a new start must avoid: cells held or being
// entered by live actors, and every journey start.
func (g *Game) occupancy() map[grid.Cell]struct{} {
	avoid := make(map[grid.Cell]struct{})
	query := g.actorFilter.Query()
	for query.Next() {
		actor, pos, journey, _, _ := query.Get()
		if !actor.Live() {
			continue
		}
		avoid[pos.Cell] = struct{}{}
		avoid[journey.Start] = struct{}{}
		if e := query.Entity(); g.transitionMap.Has(e) {
			avoid[g.transitionMap.Get(e).End] = struct{}{}
		}
	}
	return avoid
}

// nextAppearance cycles the palette and draws a random trail scale.
func (g *Game) nextAppearance() components.Appearance {
	palette := g.cfg.Derived.Palette
	color := palette[g.colorIndex%len(palette)]
	g.colorIndex++

	lo, hi := g.cfg.Display.ScaleMin, g.cfg.Display.ScaleMax
	return components.Appearance{
		Color: color,
		Scale: float32(lo + g.rng.Float64()*(hi-lo)),
		Alpha: 1,
	}
}

// spawnActor creates an idle actor at cell in its grace period.
func (g *Game) spawnActor(role components.Role, cell grid.Cell, journey components.Journey, app components.Appearance) ecs.Entity {
	actor := components.Actor{ID: g.nextID, Role: role}
	g.nextID++

	pos := components.Position{Cell: cell}
	render := components.Render{World: g.geom.CellToWorld(cell)}
	e := g.actorMapper.NewEntity(&actor, &pos, &journey, &app, &render)
	g.graceMap.Add(e, &components.JustSpawned{})
	return e
}

// spawnPlayer places a new player with an empty path. It returns
// systems.ErrNoRoom when placement is exhausted.
func (g *Game) spawnPlayer() error {
	placed, err := g.placement.PickJourney(g.occupancy())
	if err != nil {
		if errors.Is(err, systems.ErrNoRoom) {
			slog.Info("spawn_failed", "tick", g.tick, "max_attempts", g.placement.MaxAttempts)
			g.collector.Record(telemetry.NewSpawnFailedEvent(g.tick, g.placement.MaxAttempts))
		}
		return err
	}

	journey := components.NewJourney(placed.Start, placed.Target)
	e := g.spawnActor(components.RolePlayer, placed.Start, journey, g.nextAppearance())
	g.player = e
	g.hasPlayer = true

	id := g.actorMap.Get(e).ID
	g.recordSpawnTelemetry(id, components.RolePlayer, placed)
	return nil
}

// spawnBotCopy replaces an automated actor with a fresh copy at its start.
func (g *Game) spawnBotCopy(src ecs.Entity) {
	if !g.journeyMap.Has(src) {
		panic("game: automated actor has no journey")
	}
	journey := systems.CopyForReplay(g.journeyMap.Get(src))
	app := g.appearanceMap.Get(src).Dimmed(float32(g.cfg.Display.BotAlpha))
	e := g.spawnActor(components.RoleAutomated, journey.Start, journey, app)

	id := g.actorMap.Get(e).ID
	g.recordSpawnTelemetry(id, components.RoleAutomated, systems.Placed{Start: journey.Start, Target: journey.Target})
}

// convertToBot turns the player into an automated actor replaying its path.
func (g *Game) convertToBot(e ecs.Entity) {
	actor := g.actorMap.Get(e)
	if actor.Role != components.RolePlayer {
		panic("game: converting an actor that is not the player")
	}
	actor.Role = components.RoleAutomated
	journey := g.journeyMap.Get(e)
	systems.Freeze(journey)

	app := g.appearanceMap.Get(e)
	*app = app.Dimmed(float32(g.cfg.Display.BotAlpha))

	if e == g.player {
		g.hasPlayer = false
	}
	g.convertedThisTick[e] = struct{}{}

	slog.Info("journey_finished",
		"actor", actor.ID,
		"tick", g.tick,
		"loop_len", len(journey.Path),
		"journeys", g.ctx.Score.Journeys,
	)
	g.finishLifetime(actor.ID, telemetry.OutcomeFinished)
}

// destroy applies the destruction of a collision victim.
func (g *Game) destroy(v systems.Collider) {
	if !g.world.Alive(v.Entity) {
		panic("game: destroying a removed actor")
	}
	if !g.actorMap.Get(v.Entity).Live() {
		return
	}
	g.recordDestroyedTelemetry(v)
	g.applyEffects(systems.DestructionEffects(v, g.ctx.Score.RemainingAttempts))
}

// wreck moves an actor to the destroyed role. It leaves the world at the end
// of the tick.
func (g *Game) wreck(e ecs.Entity) {
	if !g.journeyMap.Has(e) {
		panic("game: destroyed actor has no journey")
	}
	actor := g.actorMap.Get(e)
	if actor.Role == components.RolePlayer {
		slog.Info("player_destroyed",
			"actor", actor.ID,
			"tick", g.tick,
			"remaining_attempts", g.ctx.Score.RemainingAttempts-1,
		)
	}
	actor.Role = components.RoleDestroyed
	if e == g.player {
		g.hasPlayer = false
	}
	g.destroyed = append(g.destroyed, e)
}

// handOffDestroyed passes destroyed actors to the wreck sink and removes them.
func (g *Game) handOffDestroyed() {
	for _, e := range g.destroyed {
		if g.wrecks != nil {
			app := g.appearanceMap.Get(e)
			g.wrecks.Accept(Wreck{
				World:    g.geom.PointToWorld(g.point(e)),
				Rotation: g.heading(e),
				Color:    app.Color,
				Scale:    app.Scale,
			})
		}
		g.world.RemoveEntity(e)
	}
	g.destroyed = g.destroyed[:0]
}
