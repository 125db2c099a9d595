package components

import "github.com/didibear/road-on-road/config"

// Appearance holds display attributes. Simulation logic carries them along but
// never reads them.
type Appearance struct {
	Color config.RGBA
	Scale float32 // trail cell size as a fraction of a cell
	Alpha float32
}

// Dimmed returns a copy with the given alpha.
func (a Appearance) Dimmed(alpha float32) Appearance {
	a.Alpha = alpha
	return a
}
