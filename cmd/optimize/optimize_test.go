package main

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/telemetry"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestClamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-1, 9})
	for i, spec := range pv.Specs {
		want := spec.Min
		if i == 1 {
			want = spec.Max
		}
		if got[i] != want {
			t.Errorf("%s = %v, want %v", spec.Name, got[i], want)
		}
	}
}

func TestApplyAndExtract(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	if got := pv.ExtractFromConfig(cfg); got[0] != cfg.Autopilot.MoveInterval || got[1] != cfg.Autopilot.Wander {
		t.Errorf("ExtractFromConfig = %v, want defaults", got)
	}

	pv.ApplyToConfig(cfg, []float64{0.5, 0.3})
	if cfg.Autopilot.MoveInterval != 0.5 || cfg.Autopilot.Wander != 0.3 {
		t.Errorf("autopilot = %+v, want 0.5/0.3", cfg.Autopilot)
	}

	pv.ApplyToConfig(cfg, []float64{5, 5})
	if cfg.Autopilot.MoveInterval != 1.0 || cfg.Autopilot.Wander != 0.5 {
		t.Errorf("autopilot = %+v, want clamped 1.0/0.5", cfg.Autopilot)
	}
}

func TestComputeQuality(t *testing.T) {
	fe := &FitnessEvaluator{}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"empty", nil, 0},
		{"warmup only", []telemetry.WindowStats{{Journeys: 1, SurvivalRate: 1}}, 0},
		{
			name: "skips idle windows",
			windows: []telemetry.WindowStats{
				{},
				{Journeys: 1, SurvivalRate: 1},
				{},
				{Journeys: 1, PlayersDestroyed: 1, SurvivalRate: 0.5},
			},
			want: 0.75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fe.computeQuality(tt.windows); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("computeQuality = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateShortRun(t *testing.T) {
	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 600, []int64{1, 2}, config.Default())

	fitness := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(fitness) || fitness > 0 {
		t.Errorf("fitness = %v, want a non-positive number", fitness)
	}
	if j := fe.LastJourneys(); j < 0 || -fitness < j {
		t.Errorf("journeys = %v with fitness %v", j, fitness)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{65, "1m05s"},
		{3725, "1h02m05s"},
	}
	for _, tt := range tests {
		if got := formatDuration(time.Duration(tt.secs) * time.Second); got != tt.want {
			t.Errorf("formatDuration(%ds) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestEvalLogWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	l := &evalLog{w: &buf}
	for i := 1; i <= 2; i++ {
		if err := l.append(EvalRecord{Eval: i, Fitness: -float64(i)}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "eval,fitness,") {
		t.Errorf("header = %q", lines[0])
	}
	if l.rows != 2 {
		t.Errorf("rows = %d, want 2", l.rows)
	}
}
