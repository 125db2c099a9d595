package systems

import (
	"errors"
	"math/rand"

	"github.com/didibear/road-on-road/grid"
)

// ErrNoRoom is returned when placement exhausts its attempt budget.
var ErrNoRoom = errors.New("no room left to spawn")

// Placed is the result of a successful placement.
type Placed struct {
	Start    grid.Cell
	Target   grid.Cell
	Attempts int  // candidates drawn, including the accepted one
	Fallback bool // start was drawn from the whole grid
}

// Placement picks (start, target) pairs on the board border.
//
// Candidates draw two distinct sides and one non-corner cell on each. After
// FallbackAttempts rejected candidates the start may be any cell on the grid.
// After MaxAttempts candidates placement fails with ErrNoRoom.
type Placement struct {
	Size             grid.Size
	FallbackAttempts int
	MaxAttempts      int

	rng *rand.Rand
}

// NewPlacement creates a placement search over a board of the given size.
func NewPlacement(size grid.Size, fallback, max int, rng *rand.Rand) *Placement {
	return &Placement{
		Size:             size,
		FallbackAttempts: fallback,
		MaxAttempts:      max,
		rng:              rng,
	}
}

// PickJourney finds a start outside avoid and a distinct border target.
func (p *Placement) PickJourney(avoid map[grid.Cell]struct{}) (Placed, error) {
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		first, second := p.pickSides()
		start := first.RandomCell(p.Size, p.rng)
		target := second.RandomCell(p.Size, p.rng)

		fallback := attempt > p.FallbackAttempts
		if fallback {
			start = grid.RandomCell(p.Size, p.rng)
		}

		if _, taken := avoid[start]; taken || start == target {
			continue
		}
		return Placed{Start: start, Target: target, Attempts: attempt, Fallback: fallback}, nil
	}
	return Placed{}, ErrNoRoom
}

// pickSides draws two distinct sides without replacement.
func (p *Placement) pickSides() (grid.Side, grid.Side) {
	i := p.rng.Intn(len(grid.Sides))
	j := p.rng.Intn(len(grid.Sides) - 1)
	if j >= i {
		j++
	}
	return grid.Sides[i], grid.Sides[j]
}
