package game

import "github.com/didibear/road-on-road/grid"

// manhattan returns the grid distance between two cells.
func manhattan(a, b grid.Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// abs returns the absolute value of x.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
