package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/camera"
	"github.com/didibear/road-on-road/game"
	"github.com/didibear/road-on-road/grid"
)

const (
	// SwipeThreshold is the minimum drag in pixels recognised as a swipe.
	SwipeThreshold = 30
	// WheelZoomStep is the zoom factor per mouse wheel notch.
	WheelZoomStep = 1.1
)

var keyDirections = []struct {
	keys []int32
	dir  grid.Direction
}{
	{[]int32{rl.KeyUp, rl.KeyW}, grid.Up},
	{[]int32{rl.KeyDown, rl.KeyS}, grid.Down},
	{[]int32{rl.KeyLeft, rl.KeyA}, grid.Left},
	{[]int32{rl.KeyRight, rl.KeyD}, grid.Right},
}

// InputReader turns keyboard presses and mouse or touch swipes into game
// input.
type InputReader struct {
	dragging  bool
	dragStart rl.Vector2
}

// NewInputReader creates an input reader.
func NewInputReader() *InputReader {
	return &InputReader{}
}

// Read returns the input for this frame. Keys take precedence over swipes.
func (r *InputReader) Read() game.Input {
	in := game.Input{
		Restart: rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyEnter),
	}

	for _, kd := range keyDirections {
		for _, k := range kd.keys {
			if rl.IsKeyPressed(k) {
				in.Dir, in.Ok = kd.dir, true
				return in
			}
		}
	}

	if dir, ok := r.swipe(); ok {
		in.Dir, in.Ok = dir, true
	}
	return in
}

// swipe tracks a left-button drag and reports its direction on release.
func (r *InputReader) swipe() (grid.Direction, bool) {
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		r.dragging = true
		r.dragStart = rl.GetMousePosition()
		return grid.Up, false
	}
	if !r.dragging || !rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		return grid.Up, false
	}
	r.dragging = false
	end := rl.GetMousePosition()
	return SwipeDirection(r.dragStart, end)
}

// SwipeDirection maps a screen-space drag to a board direction. Screen y
// grows downward.
func SwipeDirection(from, to rl.Vector2) (grid.Direction, bool) {
	d := r2.Vec{X: float64(to.X - from.X), Y: float64(from.Y - to.Y)}
	if r2.Norm(d) < SwipeThreshold {
		return grid.Up, false
	}
	return grid.Closest(d)
}

// ControlCamera applies view input to cam: the wheel zooms, a right-button
// drag pans, F fits the board with fitMargin around it and Home resets.
func (r *InputReader) ControlCamera(cam *camera.Camera, fitMargin float32) {
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(float32(math.Pow(WheelZoomStep, float64(wheel))))
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		cam.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyF) {
		cam.Fit(fitMargin)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}
