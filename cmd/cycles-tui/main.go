// Command cycles-tui plays the cycle game in a terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/didibear/road-on-road/audio"
	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/game"
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/wreck"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	autopilot := flag.Bool("autopilot", false, "Let the autopilot play")
	mute := flag.Bool("mute", false, "Disable sound")
	logFile := flag.String("log", "", "Write JSON logs to this file (default: discard)")
	flag.Parse()

	if err := run(*configPath, *seed, *autopilot, *mute, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, autopilot, mute bool, logFile string) error {
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// The terminal owns stdout, so logs go to a file or nowhere.
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return fmt.Errorf("creating log file: %w", err)
		}
		defer f.Close()
		logger = slog.New(slog.NewJSONHandler(f, nil))
	}
	slog.SetDefault(logger)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	geom := grid.NewGeometry(cfg.Grid.Width, cfg.Grid.Height, cfg.Derived.CellSize)
	wrecks := wreck.NewStage(geom, cfg.Destroyed)
	opts := game.Options{Config: cfg, Seed: seed, Wrecks: wrecks}

	if cfg.Audio.Enabled && !mute {
		sound := audio.NewManager(cfg.Audio, seed)
		if err := sound.Init(); err != nil {
			slog.Warn("audio initialization failed", "error", err)
		} else {
			defer sound.Close()
			opts.Sound = sound
		}
	}

	t := &tui{
		screen: screen,
		g:      game.NewGameWithOptions(opts),
		wrecks: wrecks,
	}
	defer t.g.Unload()
	if autopilot {
		t.pilot = game.NewAutopilot(cfg.Autopilot.MoveInterval, cfg.Autopilot.Wander, seed)
		t.pilot.RestartOnEnd = true
	}

	t.loop(cfg.Physics.DT)
	return nil
}
