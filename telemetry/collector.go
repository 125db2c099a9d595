package telemetry

import "github.com/didibear/road-on-road/components"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	moves            int
	goals            int
	journeys         int
	playersDestroyed int
	botsDestroyed    int
	spawns           int
	spawnFallbacks   int
	spawnFailures    int
	placementTries   []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventMove:
		c.moves++
	case EventGoal:
		c.goals++
	case EventJourney:
		c.journeys++
	case EventDestroyed:
		if ev.Role == components.RolePlayer {
			c.playersDestroyed++
		} else {
			c.botsDestroyed++
		}
	case EventSpawn:
		c.spawns++
		if ev.Fallback {
			c.spawnFallbacks++
		}
		if ev.Attempts > 0 {
			c.placementTries = append(c.placementTries, float64(ev.Attempts))
		}
	case EventSpawnFailed:
		c.spawnFailures++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population holds actor counts and score sampled at window end.
type Population struct {
	Players           int
	Bots              int
	RemainingAttempts int
	TotalJourneys     int
	LoopLengths       []float64 // frozen path length per bot
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop Population) WindowStats {
	loopMean, loopP50, loopP90 := ComputeDistribution(pop.LoopLengths)
	triesMean, _, triesP90 := ComputeDistribution(c.placementTries)

	var survival float64
	if total := c.playersDestroyed + c.journeys; total > 0 {
		survival = float64(c.journeys) / float64(total)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Players:           pop.Players,
		Bots:              pop.Bots,
		RemainingAttempts: pop.RemainingAttempts,
		TotalJourneys:     pop.TotalJourneys,

		Moves:            c.moves,
		Goals:            c.goals,
		Journeys:         c.journeys,
		PlayersDestroyed: c.playersDestroyed,
		BotsDestroyed:    c.botsDestroyed,
		SurvivalRate:     survival,

		Spawns:         c.spawns,
		SpawnFallbacks: c.spawnFallbacks,
		SpawnFailures:  c.spawnFailures,
		PlacementMean:  triesMean,
		PlacementP90:   triesP90,

		LoopLenMean: loopMean,
		LoopLenP50:  loopP50,
		LoopLenP90:  loopP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.moves = 0
	c.goals = 0
	c.journeys = 0
	c.playersDestroyed = 0
	c.botsDestroyed = 0
	c.spawns = 0
	c.spawnFallbacks = 0
	c.spawnFailures = 0
	c.placementTries = c.placementTries[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
