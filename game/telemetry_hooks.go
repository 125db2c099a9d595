package game

import (
	"log/slog"
	"path/filepath"

	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/systems"
	"github.com/didibear/road-on-road/telemetry"
)

// recordMoveTelemetry records a player move and its journey predicates.
func (g *Game) recordMoveTelemetry(id uint32, to grid.Cell, res systems.StepResult) {
	g.collector.Record(telemetry.NewMoveEvent(g.tick, id, to))
	g.lifetimeTracker.RecordMove(id)
	if res.ReachedTarget {
		g.collector.Record(telemetry.NewGoalEvent(g.tick, id, to))
		g.lifetimeTracker.RecordGoal(id, g.tick)
	}
	if res.Finished {
		g.collector.Record(telemetry.NewJourneyEvent(g.tick, id, to))
	}
}

// recordSpawnTelemetry records a new actor. Players are tracked until their
// journey ends.
func (g *Game) recordSpawnTelemetry(id uint32, role components.Role, placed systems.Placed) {
	g.collector.Record(telemetry.NewSpawnEvent(g.tick, id, role, placed.Start, placed.Attempts, placed.Fallback))
	if role == components.RolePlayer {
		g.lifetimeTracker.Register(id, g.tick, placed.Start, placed.Target, placed.Attempts)
	}
}

// recordDestroyedTelemetry records a collision victim.
func (g *Game) recordDestroyedTelemetry(v systems.Collider) {
	cell := g.posMap.Get(v.Entity).Cell
	g.collector.Record(telemetry.NewDestroyedEvent(g.tick, v.ID, v.Role, cell))
	if v.Role == components.RolePlayer {
		g.finishLifetime(v.ID, telemetry.OutcomeDestroyed)
	}
}

// finishLifetime writes a player's journey record.
func (g *Game) finishLifetime(id uint32, outcome string) {
	rec, ok := g.lifetimeTracker.Finish(id, g.tick, outcome)
	if !ok {
		return
	}
	if err := g.outputManager.WriteJourney(rec); err != nil {
		slog.Error("failed to write journey", "error", err)
	}
}

// resetTelemetry drops per-game telemetry state on restart.
func (g *Game) resetTelemetry() {
	g.lifetimeTracker.Clear()
	g.bookmarkDetector.Reset()
}

// samplePopulation counts actors and frozen loop lengths.
func (g *Game) samplePopulation() telemetry.Population {
	pop := telemetry.Population{
		RemainingAttempts: g.ctx.Score.RemainingAttempts,
		TotalJourneys:     g.ctx.Score.Journeys,
	}
	query := g.actorFilter.Query()
	for query.Next() {
		actor, _, journey, _, _ := query.Get()
		switch actor.Role {
		case components.RolePlayer:
			pop.Players++
		case components.RoleAutomated:
			pop.Bots++
			pop.LoopLengths = append(pop.LoopLengths, float64(len(journey.Path)))
		}
	}
	return pop
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		g.saveSnapshot(&bm)
	}
}

// Snapshot captures every live actor and the score.
func (g *Game) Snapshot() *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:           telemetry.SnapshotVersion,
		RNGSeed:           g.rngSeed,
		GridWidth:         g.geom.Size.W,
		GridHeight:        g.geom.Size.H,
		Tick:              g.tick,
		Journeys:          g.ctx.Score.Journeys,
		RemainingAttempts: g.ctx.Score.RemainingAttempts,
		Ended:             g.ctx.Mode == systems.ModeEndGame,
	}
	query := g.actorFilter.Query()
	for query.Next() {
		actor, pos, journey, _, _ := query.Get()
		if !actor.Live() {
			continue
		}
		e := query.Entity()
		s.Actors = append(s.Actors, telemetry.NewActorState(*actor, pos.Cell, *journey, g.transitionMap.Has(e), g.graceMap.Has(e)))
	}
	return s
}

// saveSnapshot writes a snapshot under the output directory, if any.
func (g *Game) saveSnapshot(bm *telemetry.Bookmark) {
	if g.outputManager == nil {
		return
	}
	s := g.Snapshot()
	s.Bookmark = bm
	path, err := telemetry.SaveSnapshot(s, filepath.Join(g.outputManager.Dir(), "snapshots"))
	if err != nil {
		slog.Error("failed to write snapshot", "error", err)
		return
	}
	slog.Info("snapshot_saved", "path", path, "tick", g.tick)
}
