package main

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/didibear/road-on-road/audio"
	"github.com/didibear/road-on-road/camera"
	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/game"
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/renderer"
	"github.com/didibear/road-on-road/ui"
	"github.com/didibear/road-on-road/wreck"
)

// maxFrameDT caps the simulated time of a single frame after a stall.
const maxFrameDT = 0.1

// app is the graphical frontend: raylib input, drawing and the wreck stage
// around a Game.
type app struct {
	g      *game.Game
	cam    *camera.Camera
	board  *renderer.BoardRenderer
	input  *renderer.InputReader
	hud    *ui.HUD
	perf   *ui.PerfPanel
	wrecks *wreck.Stage
	pilot  *game.Autopilot
	sound  *audio.Manager // nil when audio is off

	cellSize         float32
	screenW, screenH int32
	showPerf         bool
	restartClicked   bool
}

func newApp(cfg *config.Config, opts game.Options, autopilot bool, seed int64) *app {
	geom := grid.NewGeometry(cfg.Grid.Width, cfg.Grid.Height, cfg.Derived.CellSize)
	ext := geom.Extent()

	a := &app{
		cam:      camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), float32(ext.X), float32(ext.Y)),
		input:    renderer.NewInputReader(),
		hud:      ui.NewHUD(),
		perf:     ui.NewPerfPanel(10, 40),
		wrecks:   wreck.NewStage(geom, cfg.Destroyed),
		cellSize: float32(geom.CellSize),
		screenW:  int32(cfg.Screen.Width),
		screenH:  int32(cfg.Screen.Height),
	}
	a.board = renderer.NewBoardRenderer(a.cam, cfg.Display)

	if autopilot {
		a.pilot = game.NewAutopilot(cfg.Autopilot.MoveInterval, cfg.Autopilot.Wander, seed)
		a.pilot.RestartOnEnd = true
	}

	opts.Wrecks = a.wrecks
	a.g = game.NewGameWithOptions(opts)
	return a
}

// frame runs one simulation step and draws it.
func (a *app) frame() {
	dt := min(float64(rl.GetFrameTime()), maxFrameDT)

	if rl.IsKeyPressed(rl.KeyF3) {
		a.showPerf = !a.showPerf
	}
	if rl.IsKeyPressed(rl.KeyM) && a.sound != nil {
		slog.Info("audio_muted", "muted", a.sound.ToggleMuted())
	}

	if rl.IsWindowResized() {
		a.screenW, a.screenH = int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
		a.cam.Resize(float32(a.screenW), float32(a.screenH))
	}
	a.input.ControlCamera(a.cam, a.cellSize/2)

	in := a.input.Read()
	if a.restartClicked {
		in.Restart = true
		a.restartClicked = false
	}
	if a.pilot != nil {
		v := a.g.View()
		if pin := a.pilot.Next(dt, &v); pin.Ok || pin.Restart {
			in = pin
		}
	}

	a.g.Step(dt, in)
	a.wrecks.Update(dt)
	a.g.RecordFrame()

	v := a.g.View()

	rl.BeginDrawing()
	rl.ClearBackground(renderer.BackgroundColor)

	a.board.Draw(&v, a.wrecks)
	a.hud.Draw(&v, a.screenW)
	a.hud.DrawHint(&v, a.cam)
	if a.hud.DrawEnd(&v, a.screenW, a.screenH) {
		a.restartClicked = true
	}
	if a.showPerf {
		a.perf.Draw(a.g.PerfStats())
	}

	rl.EndDrawing()
}
