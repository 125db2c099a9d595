package main

import (
	"math"
	"sync"

	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/game"
	"github.com/didibear/road-on-road/systems"
	"github.com/didibear/road-on-road/telemetry"
)

// qualityWarmupWindows is how many leading stats windows quality ignores.
const qualityWarmupWindows = 1

// FitnessEvaluator scores a parameter vector by playing autopilot games,
// one per seed, in parallel.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu           sync.Mutex
	lastQuality  float64
	lastJourneys float64
}

// NewFitnessEvaluator returns an evaluator playing games of at most maxTicks.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10,
	}
}

// LastQuality is the mean quality of the latest Evaluate call.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastJourneys is the mean journey count of the latest Evaluate call.
func (fe *FitnessEvaluator) LastJourneys() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastJourneys
}

// gameOutcome is what one autopilot game produced.
type gameOutcome struct {
	journeys int
	windows  []telemetry.WindowStats
}

// Evaluate returns the mean fitness of x over all seeds. Lower is better.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	outcomes := make([]gameOutcome, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Go(func() {
			outcomes[i] = fe.play(x, seed)
		})
	}
	wg.Wait()

	var fitness, quality, journeys float64
	for _, o := range outcomes {
		q := fe.computeQuality(o.windows)
		fitness += computeFitness(o.journeys, q)
		quality += q
		journeys += float64(o.journeys)
	}

	n := float64(len(outcomes))
	fe.mu.Lock()
	fe.lastQuality, fe.lastJourneys = quality/n, journeys/n
	fe.mu.Unlock()
	return fitness / n
}

// play runs one game with x applied until it ends or hits the tick cap.
func (fe *FitnessEvaluator) play(x []float64, seed int64) gameOutcome {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	var out gameOutcome
	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		Config:         &cfg,
		StatsCallback: func(w telemetry.WindowStats) {
			out.windows = append(out.windows, w)
		},
	})
	defer g.Unload()

	pilot := game.NewAutopilot(cfg.Autopilot.MoveInterval, cfg.Autopilot.Wander, seed)
	dt := cfg.Physics.DT
	for g.Mode() == systems.ModeInGame && g.Tick() < fe.maxTicks {
		v := g.View()
		g.Step(dt, pilot.Next(dt, &v))
	}

	out.journeys = g.Score().Journeys
	return out
}

// computeFitness is -(journeys * (1 + 0.2*quality)). Journeys dominate and
// quality breaks ties.
func computeFitness(journeys int, quality float64) float64 {
	return -float64(journeys) * (1 + 0.2*quality)
}

// computeQuality is the mean survival rate over the post-warmup windows in
// which a journey finished or a player was lost, bounded to [0, 1].
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	var sum float64
	var n int
	for _, w := range windows[qualityWarmupWindows:] {
		if w.Journeys == 0 && w.PlayersDestroyed == 0 {
			continue
		}
		sum += w.SurvivalRate
		n++
	}
	if n == 0 {
		return 0
	}
	return clamp01(sum / float64(n))
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return min(max(x, 0), 1)
}
