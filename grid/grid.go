// Package grid converts between discrete board cells and continuous world space.
//
// World space is centred on the origin with Y growing upward; one cell spans
// CellSize world units. Continuous "grid points" use the same axes as cells,
// so a point exactly on a cell's coordinates sits at that cell's centre.
package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Cell is a discrete board coordinate in [0, W) x [0, H).
type Cell struct {
	X, Y int
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Vec returns the cell as a continuous grid point.
func (c Cell) Vec() r2.Vec {
	return r2.Vec{X: float64(c.X), Y: float64(c.Y)}
}

// Add returns the cell offset by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

// Size is the board dimension in cells.
type Size struct {
	W, H int
}

// Geometry maps cells to world coordinates. It holds no state beyond constants.
type Geometry struct {
	Size     Size
	CellSize float64
}

// NewGeometry builds a geometry for a w x h board.
func NewGeometry(w, h int, cellSize float64) Geometry {
	return Geometry{Size: Size{W: w, H: h}, CellSize: cellSize}
}

// GridToOrigin maps a grid point to the world position of its cell's lower-left corner.
func (g Geometry) GridToOrigin(p r2.Vec) r2.Vec {
	half := r2.Vec{
		X: float64(g.Size.W) * g.CellSize / 2,
		Y: float64(g.Size.H) * g.CellSize / 2,
	}
	return r2.Sub(r2.Scale(g.CellSize, p), half)
}

// PointToWorld maps a continuous grid point to the world position of a cell-sized
// sprite centred on it.
func (g Geometry) PointToWorld(p r2.Vec) r2.Vec {
	o := g.GridToOrigin(p)
	return r2.Vec{X: o.X + g.CellSize/2, Y: o.Y + g.CellSize/2}
}

// CellToWorld maps a cell to the centre of that cell in world space.
func (g Geometry) CellToWorld(c Cell) r2.Vec {
	return g.PointToWorld(c.Vec())
}

// CellOrigin maps a cell to its lower-left corner, for corner-anchored drawing.
func (g Geometry) CellOrigin(c Cell) r2.Vec {
	return g.GridToOrigin(c.Vec())
}

// WorldToCell maps a world position to the cell containing it.
// ok is false when the position lies outside the board.
func (g Geometry) WorldToCell(v r2.Vec) (c Cell, ok bool) {
	x := (v.X + float64(g.Size.W)*g.CellSize/2) / g.CellSize
	y := (v.Y + float64(g.Size.H)*g.CellSize/2) / g.CellSize
	c = Cell{X: int(math.Floor(x)), Y: int(math.Floor(y))}
	return c, g.Contains(c)
}

// Extent returns the half-width and half-height of the board in world units.
func (g Geometry) Extent() r2.Vec {
	return r2.Vec{
		X: float64(g.Size.W) * g.CellSize / 2,
		Y: float64(g.Size.H) * g.CellSize / 2,
	}
}

// Contains reports whether c lies on the board.
func (g Geometry) Contains(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Size.W && c.Y < g.Size.H
}

// Clamp pulls c back onto the board.
func (g Geometry) Clamp(c Cell) Cell {
	return Cell{
		X: min(max(c.X, 0), g.Size.W-1),
		Y: min(max(c.Y, 0), g.Size.H-1),
	}
}

// Step moves c one cell in dir, clamped to the board. The result equals c when
// the move would leave the board.
func (g Geometry) Step(c Cell, dir Direction) Cell {
	return g.Clamp(c.Add(dir.Delta()))
}

// Cells returns every board cell in row-major order.
func (g Geometry) Cells() []Cell {
	cells := make([]Cell, 0, g.Size.W*g.Size.H)
	for y := 0; y < g.Size.H; y++ {
		for x := 0; x < g.Size.W; x++ {
			cells = append(cells, Cell{X: x, Y: y})
		}
	}
	return cells
}
