package telemetry

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Tick phases, named after the step that runs in them.
const (
	PhaseInput       = "input"
	PhaseBookkeeping = "bookkeeping"
	PhaseReplay      = "replay"
	PhaseTransitions = "transitions"
	PhaseCollisions  = "collisions"
	PhaseRespawn     = "respawn"
	PhaseReconcile   = "reconcile"
	PhaseTelemetry   = "telemetry"
)

// Phases lists the tick phases in execution order.
var Phases = []string{
	PhaseInput, PhaseBookkeeping, PhaseReplay, PhaseTransitions,
	PhaseCollisions, PhaseRespawn, PhaseReconcile, PhaseTelemetry,
}

type span struct {
	phase string
	took  time.Duration
}

// tickTrace is the timing of one game step.
type tickTrace struct {
	took  time.Duration
	spans []span
}

// PerfCollector keeps the timing of the last N game steps.
// It is driven from the game loop and is not safe for concurrent use.
type PerfCollector struct {
	ring  []tickTrace
	next  int
	count int

	open    tickTrace
	mark    time.Time
	begun   time.Time
	current string

	prevFrame time.Time
	frame     time.Duration
}

// NewPerfCollector returns a collector averaging over window steps.
// A window below one falls back to 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickTrace, window)}
}

// StartTick opens a new step.
func (p *PerfCollector) StartTick() {
	p.begun = time.Now()
	p.mark = p.begun
	p.current = ""
	p.open = tickTrace{spans: p.open.spans[:0]}
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closeSpan(now)
	p.current = phase
	p.mark = now
}

func (p *PerfCollector) closeSpan(now time.Time) {
	if p.current == "" {
		return
	}
	p.open.spans = append(p.open.spans, span{phase: p.current, took: now.Sub(p.mark)})
}

// EndTick closes the step and stores it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closeSpan(now)
	p.current = ""

	slot := &p.ring[p.next]
	slot.took = now.Sub(p.begun)
	slot.spans = append(slot.spans[:0], p.open.spans...)

	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame marks a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.prevFrame.IsZero() {
		p.frame = now.Sub(p.prevFrame)
	}
	p.prevFrame = now
}

// PerfStats summarises the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// PhaseAvg is the mean time per step spent in each phase.
	PhaseAvg map[string]time.Duration
	// PhasePct is PhaseAvg as a percentage of AvgTickDuration.
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats summarises the steps currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      map[string]time.Duration{},
		PhasePct:      map[string]float64{},
		FrameDuration: p.frame,
		FPS:           perSecond(p.frame),
	}
	if p.count == 0 {
		return out
	}

	ticks := make([]float64, p.count)
	perPhase := map[string]float64{}
	for i, tr := range p.ring[:p.count] {
		ticks[i] = float64(tr.took)
		for _, s := range tr.spans {
			perPhase[s.phase] += float64(s.took)
		}
	}

	mean := stat.Mean(ticks, nil)
	out.AvgTickDuration = time.Duration(mean)
	out.MinTickDuration = time.Duration(floats.Min(ticks))
	out.MaxTickDuration = time.Duration(floats.Max(ticks))
	out.TicksPerSecond = perSecond(out.AvgTickDuration)

	n := float64(p.count)
	for phase, total := range perPhase {
		avg := total / n
		out.PhaseAvg[phase] = time.Duration(avg)
		if mean > 0 {
			out.PhasePct[phase] = 100 * avg / mean
		}
	}
	return out
}

func perSecond(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(time.Second) / float64(d)
}

// LogStats writes the summary as one "perf" record. Phases under 0.1% are
// left out.
func (s PerfStats) LogStats() {
	args := []any{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		args = append(args, slog.Int("fps", int(s.FPS)))
	}

	var phases []any
	for _, phase := range Phases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			phases = append(phases, slog.Float64(phase, math.Round(pct*10)/10))
		}
	}
	if len(phases) > 0 {
		args = append(args, slog.Group("pct", phases...))
	}

	slog.Info("perf", args...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	InputPct       float64 `csv:"input_pct"`
	BookkeepingPct float64 `csv:"bookkeeping_pct"`
	ReplayPct      float64 `csv:"replay_pct"`
	TransitionsPct float64 `csv:"transitions_pct"`
	CollisionsPct  float64 `csv:"collisions_pct"`
	RespawnPct     float64 `csv:"respawn_pct"`
	ReconcilePct   float64 `csv:"reconcile_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary into a perf.csv row ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		InputPct:       pct[PhaseInput],
		BookkeepingPct: pct[PhaseBookkeeping],
		ReplayPct:      pct[PhaseReplay],
		TransitionsPct: pct[PhaseTransitions],
		CollisionsPct:  pct[PhaseCollisions],
		RespawnPct:     pct[PhaseRespawn],
		ReconcilePct:   pct[PhaseReconcile],
		TelemetryPct:   pct[PhaseTelemetry],
	}
}
