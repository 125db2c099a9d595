// Package game runs the cycle simulation: one player walks from its start to
// its target and back, then becomes a bot replaying that loop forever.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/systems"
	"github.com/didibear/road-on-road/telemetry"
)

// Game holds the complete game state.
type Game struct {
	world *ecs.World
	rng   *rand.Rand
	cfg   *config.Config
	geom  grid.Geometry

	ctx        *systems.Context
	placement  *systems.Placement
	collisions *systems.CollisionResolver

	// Entity mapper for the components every actor carries
	actorMapper *ecs.Map5[
		components.Actor,
		components.Position,
		components.Journey,
		components.Appearance,
		components.Render,
	]
	actorFilter *ecs.Filter5[
		components.Actor,
		components.Position,
		components.Journey,
		components.Appearance,
		components.Render,
	]
	transitFilter *ecs.Filter2[components.Position, components.Transition]

	// Individual component mappers for lookups
	actorMap      *ecs.Map[components.Actor]
	posMap        *ecs.Map[components.Position]
	journeyMap    *ecs.Map[components.Journey]
	appearanceMap *ecs.Map[components.Appearance]
	transitionMap *ecs.Map[components.Transition]
	graceMap      *ecs.Map[components.JustSpawned]

	// Player tracking
	player    ecs.Entity
	hasPlayer bool

	// Actors converted this tick skip replay until the next move
	convertedThisTick map[ecs.Entity]struct{}

	// Destroyed actors waiting for hand-off at the end of the tick
	destroyed []ecs.Entity

	// Tutorial
	tutorialID     uint32
	tutorialActive bool

	// Collaborators
	sound  SoundSink
	wrecks WreckSink

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool

	// State
	tick       int32
	nextID     uint32
	colorIndex int
	rngSeed    int64
}

// NewGame creates a game with default options.
func NewGame() *Game {
	return NewGameWithOptions(Options{Seed: 42})
}

// NewGameWithOptions creates a new game and spawns the first player.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))
	size := grid.Size{W: cfg.Grid.Width, H: cfg.Grid.Height}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	g := &Game{
		world: world,
		rng:   rng,
		cfg:   cfg,
		geom:  grid.NewGeometry(size.W, size.H, cfg.Derived.CellSize),

		ctx:        systems.NewContext(cfg.Score.Attempts, cfg.Score.RefillOnJourney),
		placement:  systems.NewPlacement(size, cfg.Spawn.FallbackAttempts, cfg.Spawn.MaxAttempts, rng),
		collisions: systems.NewCollisionResolver(cfg.Derived.CollisionRadius),

		actorMapper: ecs.NewMap5[
			components.Actor,
			components.Position,
			components.Journey,
			components.Appearance,
			components.Render,
		](world),
		actorFilter: ecs.NewFilter5[
			components.Actor,
			components.Position,
			components.Journey,
			components.Appearance,
			components.Render,
		](world),
		transitFilter: ecs.NewFilter2[components.Position, components.Transition](world),

		actorMap:      ecs.NewMap[components.Actor](world),
		posMap:        ecs.NewMap[components.Position](world),
		journeyMap:    ecs.NewMap[components.Journey](world),
		appearanceMap: ecs.NewMap[components.Appearance](world),
		transitionMap: ecs.NewMap[components.Transition](world),
		graceMap:      ecs.NewMap[components.JustSpawned](world),

		convertedThisTick: make(map[ecs.Entity]struct{}),

		sound:  opts.Sound,
		wrecks: opts.Wrecks,

		collector:        telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		lifetimeTracker:  telemetry.NewLifetimeTracker(cfg.Physics.DT),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		outputManager:    opts.OutputManager,
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,

		rngSeed: opts.Seed,
	}

	g.startGame()
	return g
}

// Step runs one simulation tick of length dt seconds.
//
// Stages run in a fixed order: input, journey bookkeeping, bot replay,
// transitions, collisions, destruction and respawn, reconciliation and
// telemetry. Each stage sees the fully updated state of the previous one.
func (g *Game) Step(dt float64, in Input) {
	g.perfCollector.StartTick()
	clear(g.convertedThisTick)

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	from, to, moved := g.handleInput(in)

	g.perfCollector.StartPhase(telemetry.PhaseBookkeeping)
	if moved {
		g.recordPlayerMove(from, to)
	}

	g.perfCollector.StartPhase(telemetry.PhaseReplay)
	if moved {
		g.replayBots()
	}

	g.perfCollector.StartPhase(telemetry.PhaseTransitions)
	g.advanceTransitions(dt)

	g.perfCollector.StartPhase(telemetry.PhaseCollisions)
	var victims []systems.Collider
	if g.ctx.Playing() {
		victims = g.collisions.Resolve(g.colliders())
	}

	g.perfCollector.StartPhase(telemetry.PhaseRespawn)
	for _, v := range victims {
		g.destroy(v)
	}

	g.perfCollector.StartPhase(telemetry.PhaseReconcile)
	g.handOffDestroyed()
	g.reconcile()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// RecordFrame records frame timing for graphical runs.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// PerfStats returns tick timing over the perf window.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Mode returns the current game mode.
func (g *Game) Mode() systems.Mode {
	return g.ctx.Mode
}

// Score returns the current score.
func (g *Game) Score() systems.Score {
	return g.ctx.Score
}

// Geometry returns the board geometry.
func (g *Game) Geometry() grid.Geometry {
	return g.geom
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 {
	return g.rngSeed
}

// Unload flushes telemetry output.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
