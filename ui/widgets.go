package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws themed UI primitives.
type Renderer struct {
	Theme Theme
}

// NewRenderer returns a Renderer using DefaultTheme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a bordered box.
func (r *Renderer) DrawPanel(x, y, w, h int32) {
	rl.DrawRectangle(x, y, w, h, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, w, h, r.Theme.PanelBorder)
}

// DrawCentered draws text centred on cx with its top edge at top.
func (r *Renderer) DrawCentered(text string, cx, top, size int32, color rl.Color) {
	rl.DrawText(text, cx-rl.MeasureText(text, size)/2, top, size, color)
}

// DrawCenteredAt draws text centred on (cx, cy) in both axes.
func (r *Renderer) DrawCenteredAt(text string, cx, cy, size int32, color rl.Color) {
	r.DrawCentered(text, cx, cy-size/2, size, color)
}
