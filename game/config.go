package game

import (
	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/telemetry"
)

// Options configures a new Game.
type Options struct {
	Config   *config.Config // nil = config.Cfg()
	Seed     int64
	LogStats bool

	// StatsWindowSec overrides telemetry.stats_window when positive.
	StatsWindowSec float64

	// OutputManager receives CSV telemetry. May be nil.
	OutputManager *telemetry.OutputManager

	// StatsCallback is called with every flushed stats window.
	StatsCallback func(telemetry.WindowStats)

	// External collaborators. Either may be nil.
	Sound  SoundSink
	Wrecks WreckSink
}
