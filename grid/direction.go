package grid

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// Direction is one of the four cardinal moves.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists all cardinal directions.
var Directions = [4]Direction{Up, Down, Left, Right}

// Delta returns the unit cell offset for d. Up is +Y.
func (d Direction) Delta() Cell {
	switch d {
	case Up:
		return Cell{Y: 1}
	case Down:
		return Cell{Y: -1}
	case Left:
		return Cell{X: -1}
	case Right:
		return Cell{X: 1}
	}
	return Cell{}
}

// String returns the display name for a Direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// Closest returns the cardinal direction nearest to v.
// ok is false for the zero vector.
func Closest(v r2.Vec) (d Direction, ok bool) {
	if v.X == 0 && v.Y == 0 {
		return Up, false
	}
	u := r2.Unit(v)
	best := -2.0
	for _, dir := range Directions {
		dot := r2.Dot(u, dir.Delta().Vec())
		if dot > best {
			best = dot
			d = dir
		}
	}
	return d, true
}

// Side is one edge of the board.
type Side uint8

const (
	Top Side = iota
	Bottom
	LeftSide
	RightSide
)

// Sides lists all board edges.
var Sides = [4]Side{Top, Bottom, LeftSide, RightSide}

// RandomCell picks a uniformly random cell along the side, excluding both corners.
// The board must be at least 3 cells along the side.
func (s Side) RandomCell(size Size, rng *rand.Rand) Cell {
	switch s {
	case Top:
		return Cell{X: 1 + rng.Intn(size.W-2), Y: size.H - 1}
	case Bottom:
		return Cell{X: 1 + rng.Intn(size.W-2), Y: 0}
	case LeftSide:
		return Cell{X: 0, Y: 1 + rng.Intn(size.H-2)}
	default:
		return Cell{X: size.W - 1, Y: 1 + rng.Intn(size.H-2)}
	}
}

// RandomCell picks a uniformly random cell anywhere on the board.
func RandomCell(size Size, rng *rand.Rand) Cell {
	return Cell{X: rng.Intn(size.W), Y: rng.Intn(size.H)}
}
