package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type bucket struct {
	col, row int
}

// SpatialGrid buckets indexed points by square cells so that radius queries
// only visit neighbouring cells. Buckets are sparse; any world extent works.
type SpatialGrid struct {
	cellSize float64
	cells    map[bucket][]int
}

// NewSpatialGrid creates an empty grid with the given cell size.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[bucket][]int),
	}
}

// Clear removes all points from the grid.
func (g *SpatialGrid) Clear() {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
}

// Insert adds index i at position p.
func (g *SpatialGrid) Insert(i int, p r2.Vec) {
	b := g.bucketOf(p)
	g.cells[b] = append(g.cells[b], i)
}

// QueryInto appends to dst every index whose bucket could hold a point within
// radius of p. Callers check the exact distance. Reuse dst across calls to
// avoid allocations.
func (g *SpatialGrid) QueryInto(dst []int, p r2.Vec, radius float64) []int {
	reach := int(math.Ceil(radius / g.cellSize))
	center := g.bucketOf(p)

	for dc := -reach; dc <= reach; dc++ {
		for dr := -reach; dr <= reach; dr++ {
			dst = append(dst, g.cells[bucket{center.col + dc, center.row + dr}]...)
		}
	}
	return dst
}

func (g *SpatialGrid) bucketOf(p r2.Vec) bucket {
	return bucket{
		col: int(math.Floor(p.X / g.cellSize)),
		row: int(math.Floor(p.Y / g.cellSize)),
	}
}
