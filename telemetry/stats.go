package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population and score at window end
	Players           int `csv:"players"`
	Bots              int `csv:"bots"`
	RemainingAttempts int `csv:"remaining_attempts"`
	TotalJourneys     int `csv:"total_journeys"`

	// Events during window
	Moves            int     `csv:"moves"`
	Goals            int     `csv:"goals"`
	Journeys         int     `csv:"journeys"`
	PlayersDestroyed int     `csv:"players_destroyed"`
	BotsDestroyed    int     `csv:"bots_destroyed"`
	SurvivalRate     float64 `csv:"survival_rate"` // journeys / (journeys + player deaths)

	// Placement
	Spawns         int     `csv:"spawns"`
	SpawnFallbacks int     `csv:"spawn_fallbacks"`
	SpawnFailures  int     `csv:"spawn_failures"`
	PlacementMean  float64 `csv:"placement_mean"`
	PlacementP90   float64 `csv:"placement_p90"`

	// Frozen loop lengths (sampled at window end)
	LoopLenMean float64 `csv:"loop_len_mean"`
	LoopLenP50  float64 `csv:"loop_len_p50"`
	LoopLenP90  float64 `csv:"loop_len_p90"`
}

// ComputeDistribution calculates the mean and the empirical median and 90th
// percentile of values. Returns zeros for an empty slice.
func ComputeDistribution(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("players", s.Players),
		slog.Int("bots", s.Bots),
		slog.Int("remaining_attempts", s.RemainingAttempts),
		slog.Int("total_journeys", s.TotalJourneys),
		slog.Int("moves", s.Moves),
		slog.Int("goals", s.Goals),
		slog.Int("journeys", s.Journeys),
		slog.Int("players_destroyed", s.PlayersDestroyed),
		slog.Int("bots_destroyed", s.BotsDestroyed),
		slog.Float64("survival_rate", s.SurvivalRate),
		slog.Int("spawns", s.Spawns),
		slog.Int("spawn_fallbacks", s.SpawnFallbacks),
		slog.Int("spawn_failures", s.SpawnFailures),
		slog.Float64("placement_mean", s.PlacementMean),
		slog.Float64("placement_p90", s.PlacementP90),
		slog.Float64("loop_len_mean", s.LoopLenMean),
		slog.Float64("loop_len_p50", s.LoopLenP50),
		slog.Float64("loop_len_p90", s.LoopLenP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
