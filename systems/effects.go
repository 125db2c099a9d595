package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/didibear/road-on-road/components"
)

// Signal is an instantaneous audio cue.
type Signal uint8

const (
	SignalMove Signal = iota // player moved one cell
	SignalGoal               // target reached for the first time
	SignalCoin               // journey finished
	SignalHurt               // actor destroyed
)

// String returns the pool name for a Signal.
func (s Signal) String() string {
	switch s {
	case SignalMove:
		return "move"
	case SignalGoal:
		return "goal"
	case SignalCoin:
		return "coin"
	case SignalHurt:
		return "hurt"
	}
	return "unknown"
}

// EffectKind identifies what an Effect asks the tick loop to do.
type EffectKind uint8

const (
	EffectSound          EffectKind = iota // play Signal
	EffectScoreJourney                     // count a finished journey
	EffectConvertToBot                     // Entity becomes automated
	EffectSpawnPlayer                      // place a new player
	EffectSpawnBot                         // replace Entity with a fresh automated copy
	EffectLoseAttempt                      // player destroyed
	EffectWreck                            // hand Entity to the destroyed stage
	EffectRefillAttempts                   // restore attempts after a placed successor
)

var effectNames = [...]string{"sound", "score_journey", "convert_to_bot", "spawn_player", "spawn_bot", "lose_attempt", "wreck", "refill_attempts"}

// String returns the display name for an EffectKind.
func (k EffectKind) String() string {
	if int(k) < len(effectNames) {
		return effectNames[k]
	}
	return "unknown"
}

// Effect is one outbound action of a state transition. Effects are applied in
// slice order.
type Effect struct {
	Kind   EffectKind
	Entity ecs.Entity
	Signal Signal
}

func sound(s Signal) Effect {
	return Effect{Kind: EffectSound, Signal: s}
}

// MoveEffects returns the effects of a recorded player move.
func MoveEffects(e ecs.Entity, res StepResult) []Effect {
	effects := []Effect{sound(SignalMove)}
	if res.ReachedTarget {
		effects = append(effects, sound(SignalGoal))
	}
	if res.Finished {
		effects = append(effects, JourneyCompletedEffects(e)...)
	}
	return effects
}

// JourneyCompletedEffects returns the effects of a player finishing its
// journey. Attempts are refilled last, so a successor that cannot be placed
// ends the game with the attempts it had.
func JourneyCompletedEffects(e ecs.Entity) []Effect {
	return []Effect{
		sound(SignalCoin),
		{Kind: EffectScoreJourney},
		{Kind: EffectConvertToBot, Entity: e},
		{Kind: EffectSpawnPlayer},
		{Kind: EffectRefillAttempts},
	}
}

// DestructionEffects returns the effects of destroying v. remaining is the
// attempt count before the loss; a player destroyed on its last attempt gets
// no replacement. An automated replacement is spawned before the wreck so it
// can copy the original journey.
func DestructionEffects(v Collider, remaining int) []Effect {
	effects := []Effect{sound(SignalHurt)}
	switch v.Role {
	case components.RolePlayer:
		effects = append(effects,
			Effect{Kind: EffectWreck, Entity: v.Entity},
			Effect{Kind: EffectLoseAttempt},
		)
		if remaining > 1 {
			effects = append(effects, Effect{Kind: EffectSpawnPlayer})
		}
	case components.RoleAutomated:
		effects = append(effects,
			Effect{Kind: EffectSpawnBot, Entity: v.Entity},
			Effect{Kind: EffectWreck, Entity: v.Entity},
		)
	default:
		panic("game: destruction of an actor that is not live")
	}
	return effects
}
