package game

import (
	"math/rand"
	"slices"

	"github.com/didibear/road-on-road/grid"
	"github.com/didibear/road-on-road/systems"
)

// Autopilot is a scripted input source. It walks the player along a shortest
// route around occupied cells to its target and back, occasionally wandering.
// With no route it falls back to the greedy neighbour that is free.
type Autopilot struct {
	Interval     float64 // seconds between moves
	Wander       float64 // probability of a random direction
	RestartOnEnd bool

	rng     *rand.Rand
	planner *systems.AStarPlanner
	elapsed float64
}

// NewAutopilot creates an autopilot with its own RNG.
func NewAutopilot(interval, wander float64, seed int64) *Autopilot {
	return &Autopilot{
		Interval: interval,
		Wander:   wander,
		rng:      rand.New(rand.NewSource(seed)),
		planner:  systems.NewAStarPlanner(),
	}
}

// Next returns the input for a tick of length dt.
func (a *Autopilot) Next(dt float64, v *View) Input {
	a.elapsed += dt
	if a.elapsed < a.Interval {
		return Input{}
	}

	if v.Mode == systems.ModeEndGame {
		if a.RestartOnEnd {
			a.elapsed = 0
			return Input{Restart: true}
		}
		return Input{}
	}

	player, journey, ok := v.Player()
	if !ok || player.Moving {
		return Input{}
	}
	a.elapsed = 0

	goal := journey.Target
	if slices.Contains(journey.Path, journey.Target) {
		goal = journey.Start
	}

	wander := a.rng.Float64() < a.Wander
	if !wander {
		if route := a.planner.FindPath(v.Geometry, player.Cell, goal, v.Occupied); len(route) > 0 {
			for _, d := range grid.Directions {
				if v.Geometry.Step(player.Cell, d) == route[0] {
					return Move(d)
				}
			}
		}
	}

	dirs := a.rank(v.Geometry, player.Cell, goal, wander)
	for _, d := range dirs {
		next := v.Geometry.Step(player.Cell, d)
		if next != player.Cell && !v.Occupied(next) {
			return Move(d)
		}
	}
	return Move(dirs[0])
}

// rank orders directions by how much they shorten the Manhattan distance to
// goal, or shuffles them when wandering.
func (a *Autopilot) rank(geom grid.Geometry, from, goal grid.Cell, wander bool) []grid.Direction {
	dirs := grid.Directions
	a.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	if wander {
		return dirs[:]
	}

	dist := func(d grid.Direction) int {
		return manhattan(geom.Step(from, d), goal)
	}
	slices.SortStableFunc(dirs[:], func(x, y grid.Direction) int {
		return dist(x) - dist(y)
	})
	return dirs[:]
}
