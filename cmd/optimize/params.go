// Command optimize tunes the autopilot with CMA-ES over headless games.
package main

import (
	"github.com/didibear/road-on-road/config"
)

// ParamSpec is one tunable config value and its search bounds.
type ParamSpec struct {
	Name    string
	Path    string // YAML path, for logs
	Min     float64
	Max     float64
	Default float64

	field func(*config.Config) *float64
}

func (s ParamSpec) span() float64 { return s.Max - s.Min }

func (s ParamSpec) clamp(v float64) float64 { return min(max(v, s.Min), s.Max) }

// ParamVector maps between the optimizer's unit cube and config values.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the autopilot search space.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		{
			Name: "move_interval", Path: "autopilot.move_interval",
			Min: 0.05, Max: 1.0, Default: 0.2,
			field: func(c *config.Config) *float64 { return &c.Autopilot.MoveInterval },
		},
		{
			Name: "wander", Path: "autopilot.wander",
			Min: 0, Max: 0.5, Default: 0.15,
			field: func(c *config.Config) *float64 { return &c.Autopilot.Wander },
		},
	}}
}

// Dim is the search space dimension.
func (pv *ParamVector) Dim() int { return len(pv.Specs) }

// DefaultVector returns each parameter's default.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(func(_ int, s ParamSpec) float64 { return s.Default })
}

// Normalize maps raw values onto [0,1] per parameter.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(func(i int, s ParamSpec) float64 { return (raw[i] - s.Min) / s.span() })
}

// Denormalize is the inverse of Normalize. Values outside [0,1] map outside
// the bounds; Clamp them before use.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	return pv.each(func(i int, s ParamSpec) float64 { return s.Min + unit[i]*s.span() })
}

// Clamp bounds each value to its spec.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	return pv.each(func(i int, s ParamSpec) float64 { return s.clamp(v[i]) })
}

// ApplyToConfig writes clamped values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, s := range pv.Specs {
		*s.field(cfg) = s.clamp(values[i])
	}
}

// ExtractFromConfig reads the current values out of cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.each(func(_ int, s ParamSpec) float64 { return *s.field(cfg) })
}

func (pv *ParamVector) each(f func(int, ParamSpec) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = f(i, s)
	}
	return out
}
