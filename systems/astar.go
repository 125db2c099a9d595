package systems

import (
	"container/heap"

	"github.com/didibear/road-on-road/grid"
)

// AStarPlanner finds shortest 4-connected routes across the board. Its
// scratch maps are reused between searches.
type AStarPlanner struct {
	open     openSet
	closed   map[grid.Cell]struct{}
	cameFrom map[grid.Cell]grid.Cell
	gScore   map[grid.Cell]int
}

// frontier is a queued cell with its estimated total route length.
type frontier struct {
	cell grid.Cell
	est  int
}

// openSet is a min-heap of frontier cells. Stale entries are skipped on pop.
type openSet []frontier

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].est < o[j].est }
func (o openSet) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
func (o *openSet) Push(x any)        { *o = append(*o, x.(frontier)) }
func (o *openSet) Pop() any {
	last := (*o)[len(*o)-1]
	*o = (*o)[:len(*o)-1]
	return last
}

// NewAStarPlanner returns a planner with empty scratch space.
func NewAStarPlanner() *AStarPlanner {
	return &AStarPlanner{
		closed:   make(map[grid.Cell]struct{}, 64),
		cameFrom: make(map[grid.Cell]grid.Cell, 64),
		gScore:   make(map[grid.Cell]int, 64),
	}
}

// FindPath returns the cells visited after start up to and including goal,
// or nil when goal equals start or cannot be reached. Blocked cells are
// never entered; start itself may be blocked.
func (a *AStarPlanner) FindPath(geom grid.Geometry, start, goal grid.Cell, blocked func(grid.Cell) bool) []grid.Cell {
	if start == goal || !geom.Contains(start) || !geom.Contains(goal) || blocked(goal) {
		return nil
	}

	a.reset()
	a.gScore[start] = 0
	heap.Push(&a.open, frontier{cell: start, est: manhattan(start, goal)})

	for a.open.Len() > 0 {
		at := heap.Pop(&a.open).(frontier).cell
		if at == goal {
			return a.reconstructPath(goal)
		}
		if _, done := a.closed[at]; done {
			continue
		}
		a.closed[at] = struct{}{}

		for _, d := range grid.Directions {
			next := geom.Step(at, d)
			if next == at || blocked(next) {
				continue
			}
			if _, done := a.closed[next]; done {
				continue
			}
			g := a.gScore[at] + 1
			if old, seen := a.gScore[next]; seen && g >= old {
				continue
			}
			a.gScore[next] = g
			a.cameFrom[next] = at
			heap.Push(&a.open, frontier{cell: next, est: g + manhattan(next, goal)})
		}
	}
	return nil
}

func (a *AStarPlanner) reset() {
	a.open = a.open[:0]
	clear(a.closed)
	clear(a.cameFrom)
	clear(a.gScore)
}

// reconstructPath walks cameFrom back from goal.
func (a *AStarPlanner) reconstructPath(goal grid.Cell) []grid.Cell {
	path := make([]grid.Cell, a.gScore[goal])
	c := goal
	for i := len(path) - 1; i >= 0; i-- {
		path[i] = c
		c = a.cameFrom[c]
	}
	return path
}

// manhattan returns the grid distance between two cells.
func manhattan(a, b grid.Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
