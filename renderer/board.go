// Package renderer draws the board with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/camera"
	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/game"
	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/wreck"
)

// Board colours.
var (
	BackgroundColor = rl.Color{R: 18, G: 18, B: 24, A: 255}
	CellColor       = rl.Color{R: 32, G: 32, B: 42, A: 255}
	GridLineColor   = rl.Color{R: 48, G: 48, B: 60, A: 255}
)

// BoardRenderer draws cells, journeys, actors and wrecks.
type BoardRenderer struct {
	cam       *camera.Camera
	pathAlpha float32
}

// NewBoardRenderer creates a board renderer drawing through cam.
func NewBoardRenderer(cam *camera.Camera, display config.DisplayConfig) *BoardRenderer {
	return &BoardRenderer{cam: cam, pathAlpha: float32(display.PathAlpha)}
}

// Color converts a palette entry to a raylib colour with the given alpha.
func Color(c config.RGBA, alpha float32) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: uint8(float32(c.A) * alpha)}
}

// Draw renders the full board for one frame.
func (b *BoardRenderer) Draw(v *game.View, wrecks *wreck.Stage) {
	b.drawCells(v.Geometry)
	for i := range v.Journeys {
		b.drawJourney(v.Geometry, &v.Journeys[i])
	}
	for i := range v.Actors {
		b.drawActor(v.Geometry, &v.Actors[i])
	}
	if wrecks != nil {
		for _, p := range wrecks.Pieces() {
			if !b.visible(p.World, v.Geometry.CellSize) {
				continue
			}
			b.drawSquare(p.World, v.Geometry.CellSize*float64(p.Scale), p.Rotation, Color(p.Color, 1))
		}
	}
}

func (b *BoardRenderer) drawCells(geom grid.Geometry) {
	for _, c := range geom.Cells() {
		x, y, size := b.cellRect(geom, c, 1)
		rl.DrawRectangleV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: size, Y: size}, CellColor)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: size, Height: size}, 1, GridLineColor)
	}
}

// drawJourney draws the trail cells and the start and target markers.
func (b *BoardRenderer) drawJourney(geom grid.Geometry, j *game.JourneyView) {
	trail := Color(j.Appearance.Color, b.pathAlpha)
	for _, c := range j.Path {
		x, y, size := b.cellRect(geom, c, j.Appearance.Scale)
		rl.DrawRectangleV(rl.Vector2{X: x, Y: y}, rl.Vector2{X: size, Y: size}, trail)
	}

	marker := Color(j.Appearance.Color, j.Appearance.Alpha)
	sx, sy := b.screen(geom.CellToWorld(j.Start))
	rl.DrawCircleLines(int32(sx), int32(sy), b.cam.Scale(float32(geom.CellSize)*0.35), marker)
	tx, ty := b.screen(geom.CellToWorld(j.Target))
	rl.DrawRing(rl.Vector2{X: tx, Y: ty},
		b.cam.Scale(float32(geom.CellSize)*0.25), b.cam.Scale(float32(geom.CellSize)*0.35),
		0, 360, 24, marker)
}

func (b *BoardRenderer) drawActor(geom grid.Geometry, a *game.ActorView) {
	if !b.visible(a.World, geom.CellSize) {
		return
	}
	col := Color(a.Appearance.Color, a.Appearance.Alpha)
	if a.Grace {
		// Blink while in the grace period.
		if int(rl.GetTime()*6)%2 == 0 {
			col.A /= 3
		}
	}
	b.drawSquare(a.World, geom.CellSize*0.6, a.Rotation, col)
}

// drawSquare draws a square of world side length size centred on world,
// rotated counterclockwise by rot radians.
func (b *BoardRenderer) drawSquare(world r2.Vec, size, rot float64, col rl.Color) {
	sx, sy := b.screen(world)
	side := b.cam.Scale(float32(size))
	rl.DrawRectanglePro(
		rl.Rectangle{X: sx, Y: sy, Width: side, Height: side},
		rl.Vector2{X: side / 2, Y: side / 2},
		float32(-rot*180/math.Pi),
		col,
	)
}

// cellRect returns the screen top-left corner and side of a cell drawn at
// scale, centred in the cell.
func (b *BoardRenderer) cellRect(geom grid.Geometry, c grid.Cell, scale float32) (x, y, size float32) {
	origin := geom.CellOrigin(c)
	side := geom.CellSize * float64(scale)
	inset := (geom.CellSize - side) / 2
	// Screen y grows downward, so the top-left corner is the world upper-left.
	x, y = b.screen(r2.Vec{X: origin.X + inset, Y: origin.Y + inset + side})
	return x, y, b.cam.Scale(float32(side))
}

func (b *BoardRenderer) screen(v r2.Vec) (float32, float32) {
	return b.cam.WorldToScreen(float32(v.X), float32(v.Y))
}

func (b *BoardRenderer) visible(world r2.Vec, radius float64) bool {
	return b.cam.IsVisible(float32(world.X), float32(world.Y), float32(radius))
}
