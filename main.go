package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/didibear/road-on-road/audio"
	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/game"
	"github.com/didibear/road-on-road/telemetry"
)

type cliFlags struct {
	configPath  string
	headless    bool
	autopilot   bool
	mute        bool
	logStats    bool
	statsWindow float64
	outputDir   string
	seed        int64
	maxTicks    int
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.BoolVar(&f.headless, "headless", false, "Run without graphics, driven by the autopilot")
	flag.BoolVar(&f.autopilot, "autopilot", false, "Let the autopilot play in graphical mode")
	flag.BoolVar(&f.mute, "mute", false, "Disable sound")
	flag.BoolVar(&f.logStats, "log-stats", false, "Log window stats and tick timing via slog")
	flag.Float64Var(&f.statsWindow, "stats-window", 0, "Stats window in seconds (0 = use config)")
	flag.StringVar(&f.outputDir, "output-dir", "", "Directory for CSV logs, snapshots and the config used")
	flag.Int64Var(&f.seed, "seed", 0, "RNG seed (0 = from the clock)")
	flag.IntVar(&f.maxTicks, "max-ticks", 0, "Quit after this many ticks (0 = never)")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(f.configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	seed := f.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(f.outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Config:         cfg,
		Seed:           seed,
		LogStats:       f.logStats,
		StatsWindowSec: f.statsWindow,
		OutputManager:  output,
	}
	if f.headless {
		runHeadless(cfg, opts, seed, f.maxTicks)
		return
	}
	runWindowed(cfg, opts, f, seed)
}

// runWindowed opens the raylib window and plays until it is closed.
func runWindowed(cfg *config.Config, opts game.Options, f cliFlags, seed int64) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	var sound *audio.Manager
	if cfg.Audio.Enabled && !f.mute {
		sound = audio.NewManager(cfg.Audio, seed)
		if err := sound.Init(); err != nil {
			slog.Warn("audio initialization failed, continuing muted", "error", err)
			sound = nil
		} else {
			defer sound.Close()
			opts.Sound = sound
		}
	}

	a := newApp(cfg, opts, f.autopilot, seed)
	a.sound = sound
	defer a.g.Unload()

	for !rl.WindowShouldClose() {
		a.frame()
		if f.maxTicks > 0 && int(a.g.Tick()) >= f.maxTicks {
			return
		}
	}
}

// runHeadless steps the game at the configured fixed dt under the
// autopilot, restarting whenever a game ends.
func runHeadless(cfg *config.Config, opts game.Options, seed int64, maxTicks int) {
	g := game.NewGameWithOptions(opts)
	defer g.Unload()

	pilot := game.NewAutopilot(cfg.Autopilot.MoveInterval, cfg.Autopilot.Wander, seed)
	pilot.RestartOnEnd = true

	slog.Info("headless run", "seed", seed, "grid", g.Geometry().Size, "max_ticks", maxTicks)

	for dt := cfg.Physics.DT; ; {
		v := g.View()
		g.Step(dt, pilot.Next(dt, &v))

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "journeys", g.Score().Journeys)
			return
		}
	}
}
