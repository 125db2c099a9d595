package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/didibear/road-on-road/camera"
	"github.com/didibear/road-on-road/game"
	"github.com/didibear/road-on-road/systems"
	"github.com/didibear/road-on-road/telemetry"
)

// End overlay texts.
const (
	EndTitle   = "Game ended"
	EndPrompt  = "Press space to restart"
	RestartBtn = "Restart"
)

// HUD renders the score line, tutorial hints and the end overlay.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the score line at the top of the screen.
func (h *HUD) Draw(v *game.View, screenW int32) {
	th := h.renderer.Theme
	h.renderer.DrawCentered(v.Score.String(), screenW/2, th.Padding, th.FontSize, th.ValueColor)
}

// DrawHint renders the tutorial label just above its cell.
func (h *HUD) DrawHint(v *game.View, cam *camera.Camera) {
	if v.Hint == nil {
		return
	}
	th := h.renderer.Theme
	sx, sy := cam.WorldToScreen(float32(v.Hint.World.X), float32(v.Hint.World.Y))
	lift := cam.Scale(float32(v.Geometry.CellSize) * 0.75)
	h.renderer.DrawCenteredAt(v.Hint.Text, int32(sx), int32(sy-lift), th.HintFontSize, th.HintColor)
}

// DrawEnd renders the end overlay. It reports whether the restart button was
// clicked this frame.
func (h *HUD) DrawEnd(v *game.View, screenW, screenH int32) bool {
	if v.Mode != systems.ModeEndGame {
		return false
	}
	th := h.renderer.Theme
	rl.DrawRectangle(0, 0, screenW, screenH, rl.Color{A: 160})

	cy := screenH / 2
	h.renderer.DrawCenteredAt(EndTitle, screenW/2, cy-th.TitleFontSize, th.TitleFontSize, th.TitleColor)
	h.renderer.DrawCenteredAt(EndPrompt, screenW/2, cy+th.LineHeight/2, th.FontSize, th.LabelColor)

	btn := rl.Rectangle{
		X:      float32(screenW)/2 - th.ButtonWidth/2,
		Y:      float32(cy + 2*th.LineHeight),
		Width:  th.ButtonWidth,
		Height: th.ButtonHeight,
	}
	return gui.Button(btn, RestartBtn)
}

// PerfPanel renders per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y
	lines := int32(len(telemetry.Phases) + 2)
	p.renderer.DrawPanel(x-4, y-4, 260, lines*14+8)

	rl.DrawText(fmt.Sprintf("Tick: %s | FPS: %.0f", stats.AvgTickDuration.Round(time.Microsecond), stats.FPS), x, y, 12, rl.White)
	y += 18

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
