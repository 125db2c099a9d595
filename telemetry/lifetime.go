package telemetry

import "github.com/didibear/road-on-road/grid"

// LifetimeStats tracks one player actor from spawn to journey end or death.
type LifetimeStats struct {
	SpawnTick    int32
	Start        grid.Cell
	Target       grid.Cell
	Moves        int
	GoalTick     int32 // -1 until the target is reached
	SpawnRetries int
}

// JourneyRecord is one finished or failed journey, written to journeys.csv.
type JourneyRecord struct {
	ActorID     uint32  `csv:"actor_id"`
	SpawnTick   int32   `csv:"spawn_tick"`
	EndTick     int32   `csv:"end_tick"`
	Outcome     string  `csv:"outcome"` // "finished" or "destroyed"
	Start       string  `csv:"start"`
	Target      string  `csv:"target"`
	Moves       int     `csv:"moves"`
	DurationSec float64 `csv:"duration_sec"`
	GoalSec     float64 `csv:"goal_sec"` // time to reach the target, 0 if never reached
	Placement   int     `csv:"placement_attempts"`
}

// Journey outcomes.
const (
	OutcomeFinished  = "finished"
	OutcomeDestroyed = "destroyed"
)

// LifetimeTracker manages per-player lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
	dt    float64
}

// NewLifetimeTracker creates a new lifetime tracker. dt converts ticks to seconds.
func NewLifetimeTracker(dt float64) *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
		dt:    dt,
	}
}

// Register creates lifetime stats for a newly spawned player.
func (lt *LifetimeTracker) Register(actorID uint32, spawnTick int32, start, target grid.Cell, placement int) {
	lt.stats[actorID] = &LifetimeStats{
		SpawnTick:    spawnTick,
		Start:        start,
		Target:       target,
		GoalTick:     -1,
		SpawnRetries: placement,
	}
}

// Get returns the lifetime stats for an actor, or nil if not found.
func (lt *LifetimeTracker) Get(actorID uint32) *LifetimeStats {
	return lt.stats[actorID]
}

// RecordMove increments the move count.
func (lt *LifetimeTracker) RecordMove(actorID uint32) {
	if s := lt.stats[actorID]; s != nil {
		s.Moves++
	}
}

// RecordGoal stores the tick the target was first reached.
func (lt *LifetimeTracker) RecordGoal(actorID uint32, tick int32) {
	if s := lt.stats[actorID]; s != nil && s.GoalTick < 0 {
		s.GoalTick = tick
	}
}

// Finish removes an actor's stats and returns its journey record.
// ok is false for unknown actors.
func (lt *LifetimeTracker) Finish(actorID uint32, endTick int32, outcome string) (rec JourneyRecord, ok bool) {
	s := lt.stats[actorID]
	if s == nil {
		return JourneyRecord{}, false
	}
	delete(lt.stats, actorID)

	rec = JourneyRecord{
		ActorID:     actorID,
		SpawnTick:   s.SpawnTick,
		EndTick:     endTick,
		Outcome:     outcome,
		Start:       s.Start.String(),
		Target:      s.Target.String(),
		Moves:       s.Moves,
		DurationSec: float64(endTick-s.SpawnTick) * lt.dt,
		Placement:   s.SpawnRetries,
	}
	if s.GoalTick >= 0 {
		rec.GoalSec = float64(s.GoalTick-s.SpawnTick) * lt.dt
	}
	return rec, true
}

// Clear drops all tracked actors.
func (lt *LifetimeTracker) Clear() {
	clear(lt.stats)
}

// Count returns the number of tracked actors.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
