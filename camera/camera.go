// Package camera maps the origin-centred, y-up game world onto screen pixels.
package camera

// Default zoom bounds for New.
const (
	DefaultMinZoom = 0.25
	DefaultMaxZoom = 4.0
)

// Camera is a pan and zoom view of a board of half-size ExtentX by ExtentY.
// X and Y are the world point shown at the middle of the viewport; Zoom is
// pixels per world unit.
type Camera struct {
	X, Y float32
	Zoom float32

	ViewportW, ViewportH float32
	ExtentX, ExtentY     float32

	MinZoom, MaxZoom float32
}

// New returns a 1:1 camera looking at the board centre.
func New(viewportW, viewportH, extentX, extentY float32) *Camera {
	return &Camera{
		Zoom:      1,
		ViewportW: viewportW,
		ViewportH: viewportH,
		ExtentX:   extentX,
		ExtentY:   extentY,
		MinZoom:   DefaultMinZoom,
		MaxZoom:   DefaultMaxZoom,
	}
}

func (cam *Camera) halfViewport() (float32, float32) {
	return cam.ViewportW / 2, cam.ViewportH / 2
}

// WorldToScreen maps a world point to pixels. Screen y grows downward.
func (cam *Camera) WorldToScreen(wx, wy float32) (float32, float32) {
	hw, hh := cam.halfViewport()
	return hw + cam.Scale(wx-cam.X), hh - cam.Scale(wy-cam.Y)
}

// ScreenToWorld is the inverse of WorldToScreen.
func (cam *Camera) ScreenToWorld(sx, sy float32) (float32, float32) {
	hw, hh := cam.halfViewport()
	return cam.X + (sx-hw)/cam.Zoom, cam.Y + (hh-sy)/cam.Zoom
}

// Scale converts a world length to pixels.
func (cam *Camera) Scale(length float32) float32 { return length * cam.Zoom }

// IsVisible reports whether a circle of the given world radius around
// (wx, wy) overlaps the viewport.
func (cam *Camera) IsVisible(wx, wy, radius float32) bool {
	hw, hh := cam.halfViewport()
	reachX := hw/cam.Zoom + radius
	reachY := hh/cam.Zoom + radius
	dx, dy := wx-cam.X, wy-cam.Y
	return -reachX <= dx && dx <= reachX && -reachY <= dy && dy <= reachY
}

// Fit recentres and zooms so the board plus margin on every side just fills
// the viewport.
func (cam *Camera) Fit(margin float32) {
	cam.X, cam.Y = 0, 0
	hw, hh := cam.halfViewport()
	cam.SetZoom(min(hw/(cam.ExtentX+margin), hh/(cam.ExtentY+margin)))
}

// Resize changes the viewport size in pixels.
func (cam *Camera) Resize(viewportW, viewportH float32) {
	cam.ViewportW, cam.ViewportH = viewportW, viewportH
}

// Pan shifts the view by a screen-space delta. The centre stays over the
// board.
func (cam *Camera) Pan(dx, dy float32) {
	cam.X = bound(cam.X+dx/cam.Zoom, -cam.ExtentX, cam.ExtentX)
	cam.Y = bound(cam.Y-dy/cam.Zoom, -cam.ExtentY, cam.ExtentY)
}

// SetZoom sets the zoom within [MinZoom, MaxZoom].
func (cam *Camera) SetZoom(zoom float32) {
	cam.Zoom = bound(zoom, cam.MinZoom, cam.MaxZoom)
}

// ZoomBy scales the current zoom by factor.
func (cam *Camera) ZoomBy(factor float32) { cam.SetZoom(cam.Zoom * factor) }

// Reset restores the view New started with.
func (cam *Camera) Reset() {
	cam.X, cam.Y, cam.Zoom = 0, 0, 1
}

func bound(v, lo, hi float32) float32 { return min(max(v, lo), hi) }
