// Package telemetry provides game statistics, bookmarks and experiment output.
package telemetry

import (
	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/grid"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventMove EventType = iota
	EventGoal
	EventJourney
	EventDestroyed
	EventSpawn
	EventSpawnFailed
	EventGameEnded
	EventRestart
)

// Event represents a single telemetry event.
type Event struct {
	Type    EventType
	Tick    int32
	ActorID uint32
	Role    components.Role
	Cell    grid.Cell

	// Optional fields depending on event type
	Attempts int  // placement candidates drawn (spawn)
	Fallback bool // placement used the whole grid (spawn)
}

// NewMoveEvent creates a player move event.
func NewMoveEvent(tick int32, actorID uint32, to grid.Cell) Event {
	return Event{Type: EventMove, Tick: tick, ActorID: actorID, Role: components.RolePlayer, Cell: to}
}

// NewGoalEvent creates a target-reached event.
func NewGoalEvent(tick int32, actorID uint32, target grid.Cell) Event {
	return Event{Type: EventGoal, Tick: tick, ActorID: actorID, Role: components.RolePlayer, Cell: target}
}

// NewJourneyEvent creates a journey-finished event.
func NewJourneyEvent(tick int32, actorID uint32, start grid.Cell) Event {
	return Event{Type: EventJourney, Tick: tick, ActorID: actorID, Role: components.RolePlayer, Cell: start}
}

// NewDestroyedEvent creates a destruction event. Role is the role held
// before destruction.
func NewDestroyedEvent(tick int32, actorID uint32, role components.Role, at grid.Cell) Event {
	return Event{Type: EventDestroyed, Tick: tick, ActorID: actorID, Role: role, Cell: at}
}

// NewSpawnEvent creates a spawn event.
func NewSpawnEvent(tick int32, actorID uint32, role components.Role, start grid.Cell, attempts int, fallback bool) Event {
	return Event{
		Type:     EventSpawn,
		Tick:     tick,
		ActorID:  actorID,
		Role:     role,
		Cell:     start,
		Attempts: attempts,
		Fallback: fallback,
	}
}

// NewSpawnFailedEvent creates a placement exhaustion event.
func NewSpawnFailedEvent(tick int32, attempts int) Event {
	return Event{Type: EventSpawnFailed, Tick: tick, Attempts: attempts}
}

// NewGameEndedEvent creates a game-over event.
func NewGameEndedEvent(tick int32) Event {
	return Event{Type: EventGameEnded, Tick: tick}
}

// NewRestartEvent creates a restart event.
func NewRestartEvent(tick int32) Event {
	return Event{Type: EventRestart, Tick: tick}
}
