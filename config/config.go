// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Motion    MotionConfig    `yaml:"motion"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Score     ScoreConfig     `yaml:"score"`
	Collision CollisionConfig `yaml:"collision"`
	Display   DisplayConfig   `yaml:"display"`
	Destroyed DestroyedConfig `yaml:"destroyed"`
	Audio     AudioConfig     `yaml:"audio"`
	Autopilot AutopilotConfig `yaml:"autopilot"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// GridConfig holds the board dimensions.
type GridConfig struct {
	Width    int     `yaml:"width"`     // Cells along X
	Height   int     `yaml:"height"`    // Cells along Y
	CellSize float64 `yaml:"cell_size"` // World units per cell (0 = screen width / 10)
}

// PhysicsConfig holds the fixed tick length used by headless runs.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// MotionConfig holds transition parameters.
type MotionConfig struct {
	SpeedDivisor    float64 `yaml:"speed_divisor"`    // speed = cell_size / speed_divisor grid units per second
	ArrivalDistance float64 `yaml:"arrival_distance"` // Grid units travelled before snapping to the end cell
}

// SpawnConfig holds spawn placement retry bounds.
type SpawnConfig struct {
	FallbackAttempts int `yaml:"fallback_attempts"` // Border-only attempts before any cell may be a start
	MaxAttempts      int `yaml:"max_attempts"`      // Attempts before placement gives up
}

// ScoreConfig holds attempt accounting.
type ScoreConfig struct {
	Attempts        int  `yaml:"attempts"`
	RefillOnJourney bool `yaml:"refill_on_journey"` // Completing a journey restores all attempts
}

// CollisionConfig holds overlap detection parameters.
type CollisionConfig struct {
	RadiusFactor float64 `yaml:"radius_factor"` // Collision distance as a fraction of cell_size
}

// DisplayConfig holds colours and sizes handed to renderers.
type DisplayConfig struct {
	Palette   []string `yaml:"palette"`    // Hex colours cycled per new player
	ScaleMin  float64  `yaml:"scale_min"`  // Random trail scale range
	ScaleMax  float64  `yaml:"scale_max"`
	BotAlpha  float64  `yaml:"bot_alpha"`  // Alpha applied to automated actors
	PathAlpha float64  `yaml:"path_alpha"` // Alpha of trail cells
}

// DestroyedConfig holds the destroyed-actor visual effect parameters.
type DestroyedConfig struct {
	SpeedFactor  float64 `yaml:"speed_factor"`  // Fly-out speed in cells per second
	Rotation     float64 `yaml:"rotation"`      // Half-turns per second
	MarginFactor float64 `yaml:"margin_factor"` // Cull margin around the grid in cells
}

// AudioConfig holds sound sink parameters.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"` // Linear gain, 0..1
}

// AutopilotConfig holds the scripted input source parameters.
type AutopilotConfig struct {
	MoveInterval float64 `yaml:"move_interval"` // Seconds between moves
	Wander       float64 `yaml:"wander"`        // Probability of a random direction
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// RGBA is a parsed palette entry.
type RGBA struct {
	R, G, B, A uint8
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CellSize        float64 // Effective cell size in world units
	Speed           float64 // Transition speed in grid units per second
	CollisionRadius float64 // World-unit distance at which two actors overlap
	Palette         []RGBA  // Parsed Display.Palette
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults. Panics if they fail to parse.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	// Border sides exclude corners, so each side needs at least one inner cell.
	if c.Grid.Width < 3 || c.Grid.Height < 3 {
		return fmt.Errorf("grid must be at least 3x3, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Spawn.FallbackAttempts < 0 || c.Spawn.MaxAttempts <= 0 {
		return fmt.Errorf("invalid spawn attempts: fallback=%d max=%d", c.Spawn.FallbackAttempts, c.Spawn.MaxAttempts)
	}
	if c.Score.Attempts <= 0 {
		return fmt.Errorf("score.attempts must be positive, got %d", c.Score.Attempts)
	}
	if c.Motion.SpeedDivisor <= 0 {
		return fmt.Errorf("motion.speed_divisor must be positive, got %v", c.Motion.SpeedDivisor)
	}
	if len(c.Display.Palette) == 0 {
		return fmt.Errorf("display.palette must not be empty")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	cellSize := c.Grid.CellSize
	if cellSize == 0 {
		cellSize = float64(c.Screen.Width) / 10
	}
	c.Derived.CellSize = cellSize
	c.Derived.Speed = cellSize / c.Motion.SpeedDivisor
	c.Derived.CollisionRadius = cellSize * c.Collision.RadiusFactor

	c.Derived.Palette = make([]RGBA, 0, len(c.Display.Palette))
	for _, hex := range c.Display.Palette {
		rgba, err := ParseHex(hex)
		if err != nil {
			return fmt.Errorf("display.palette: %w", err)
		}
		c.Derived.Palette = append(c.Derived.Palette, rgba)
	}
	return nil
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return RGBA{}, fmt.Errorf("bad colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
