package game

import (
	"github.com/didibear/road-on-road/systems"
)

// applyEffects executes effect descriptors in order.
func (g *Game) applyEffects(effects []systems.Effect) {
	for _, eff := range effects {
		switch eff.Kind {
		case systems.EffectSound:
			if g.sound != nil {
				g.sound.Play(eff.Signal)
			}
		case systems.EffectScoreJourney:
			g.ctx.CompleteJourney()
		case systems.EffectConvertToBot:
			g.convertToBot(eff.Entity)
		case systems.EffectSpawnPlayer:
			if !g.ctx.Playing() {
				continue
			}
			if err := g.spawnPlayer(); err != nil {
				g.endGame("no_room")
			}
		case systems.EffectSpawnBot:
			g.spawnBotCopy(eff.Entity)
		case systems.EffectLoseAttempt:
			if !g.ctx.LoseAttempt() {
				g.endGame("attempts_exhausted")
			}
		case systems.EffectWreck:
			g.wreck(eff.Entity)
		case systems.EffectRefillAttempts:
			g.ctx.RefillAttempts()
		default:
			panic("game: unknown effect " + eff.Kind.String())
		}
	}
}
