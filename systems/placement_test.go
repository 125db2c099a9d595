package systems

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/didibear/road-on-road/grid"
)

var board = grid.Size{W: 6, H: 6}

func onBorderNoCorner(c grid.Cell, s grid.Size) bool {
	onX := c.X == 0 || c.X == s.W-1
	onY := c.Y == 0 || c.Y == s.H-1
	return onX != onY
}

func borderCells(s grid.Size) map[grid.Cell]struct{} {
	cells := make(map[grid.Cell]struct{})
	for _, c := range grid.NewGeometry(s.W, s.H, 1).Cells() {
		if onBorderNoCorner(c, s) {
			cells[c] = struct{}{}
		}
	}
	return cells
}

func TestPickJourneyRespectsAvoidSet(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := NewPlacement(board, 1000, 1_000_000, rng)

	avoid := map[grid.Cell]struct{}{
		{X: 0, Y: 1}: {}, {X: 0, Y: 2}: {}, {X: 0, Y: 3}: {},
		{X: 2, Y: 0}: {}, {X: 3, Y: 5}: {},
	}
	for i := 0; i < 500; i++ {
		got, err := p.PickJourney(avoid)
		if err != nil {
			t.Fatalf("PickJourney() error = %v", err)
		}
		if _, bad := avoid[got.Start]; bad {
			t.Fatalf("start %v is in the avoid set", got.Start)
		}
		if got.Start == got.Target {
			t.Fatalf("start == target == %v", got.Start)
		}
		if got.Fallback {
			t.Fatalf("fallback used with a sparse avoid set")
		}
		if !onBorderNoCorner(got.Start, board) || !onBorderNoCorner(got.Target, board) {
			t.Fatalf("got %v -> %v, want non-corner border cells", got.Start, got.Target)
		}
	}
}

func TestPickJourneyFallsBackToWholeGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := NewPlacement(board, 10, 1_000_000, rng)

	got, err := p.PickJourney(borderCells(board))
	if err != nil {
		t.Fatalf("PickJourney() error = %v", err)
	}
	if !got.Fallback {
		t.Errorf("Fallback = false, want true")
	}
	if got.Attempts <= 10 {
		t.Errorf("Attempts = %d, want > 10", got.Attempts)
	}
	if onBorderNoCorner(got.Start, board) {
		t.Errorf("start %v should be off the avoided border", got.Start)
	}
	if !onBorderNoCorner(got.Target, board) {
		t.Errorf("target %v should stay on the border", got.Target)
	}
}

func TestPickJourneyExhausts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := NewPlacement(board, 10, 500, rng)

	avoid := make(map[grid.Cell]struct{})
	for _, c := range grid.NewGeometry(board.W, board.H, 1).Cells() {
		avoid[c] = struct{}{}
	}
	_, err := p.PickJourney(avoid)
	if !errors.Is(err, ErrNoRoom) {
		t.Errorf("PickJourney() error = %v, want %v", err, ErrNoRoom)
	}
}

func TestPickJourneyEmptyAvoid(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	p := NewPlacement(grid.Size{W: 3, H: 3}, 1000, 1_000_000, rng)

	got, err := p.PickJourney(nil)
	if err != nil {
		t.Fatalf("PickJourney() error = %v", err)
	}
	if got.Start == got.Target {
		t.Errorf("start == target == %v", got.Start)
	}
}

func TestPickSidesDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := NewPlacement(board, 1, 1, rng)
	seen := make(map[[2]grid.Side]bool)
	for i := 0; i < 2000; i++ {
		a, b := p.pickSides()
		if a == b {
			t.Fatalf("pickSides() returned %v twice", a)
		}
		seen[[2]grid.Side{a, b}] = true
	}
	if len(seen) != 12 {
		t.Errorf("distinct ordered side pairs = %d, want 12", len(seen))
	}
}
