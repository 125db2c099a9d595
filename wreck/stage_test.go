package wreck

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/game"
	"github.com/didibear/road-on-road/grid"
)

const dt = 1.0 / 60

func testStage() (*Stage, grid.Geometry) {
	geom := grid.NewGeometry(6, 6, 60)
	return NewStage(geom, config.DestroyedConfig{SpeedFactor: 8, Rotation: 10, MarginFactor: 1.5}), geom
}

func TestPieceFliesOutward(t *testing.T) {
	s, geom := testStage()
	start := geom.CellToWorld(grid.Cell{X: 4, Y: 4})
	s.Accept(game.Wreck{World: start, Scale: 0.8})

	dist := 0.0
	rot := 0.0
	for i := 0; i < 10 && s.Len() > 0; i++ {
		s.Update(dt)
		if s.Len() == 0 {
			break
		}
		p := s.Pieces()[0]
		d := r2.Norm(r2.Sub(p.World, start))
		if d < dist {
			t.Fatalf("step %d: distance from start fell from %v to %v", i, dist, d)
		}
		if p.Rotation >= rot {
			t.Fatalf("step %d: rotation %v did not decrease from %v", i, p.Rotation, rot)
		}
		dist, rot = d, p.Rotation

		// Along the ray from the origin through the start.
		if cross := p.World.X*start.Y - p.World.Y*start.X; math.Abs(cross) > 1e-6 {
			t.Fatalf("step %d: piece at %v left the outward ray", i, p.World)
		}
	}
}

func TestPieceAtOriginFliesRight(t *testing.T) {
	s, _ := testStage()
	s.Accept(game.Wreck{})
	for i := 0; i < 30 && s.Len() > 0; i++ {
		s.Update(dt)
	}
	if s.Len() == 0 {
		return
	}
	if p := s.Pieces()[0]; p.World.X <= 0 || p.World.Y != 0 {
		t.Errorf("piece at %v, want on the positive x axis", p.World)
	}
}

func TestPiecesAreCulled(t *testing.T) {
	s, geom := testStage()
	for _, c := range geom.Cells() {
		s.Accept(game.Wreck{World: geom.CellToWorld(c)})
	}
	if s.Len() != 36 {
		t.Fatalf("Len() = %d, want 36", s.Len())
	}

	// reach/speed bounds the flight time.
	limit := int(s.reach/s.speed/dt) + 2
	for i := 0; i < limit && s.Len() > 0; i++ {
		s.Update(dt)
		for _, p := range s.Pieces() {
			if s.outside(p.World) {
				t.Fatalf("piece at %v kept outside the margin", p.World)
			}
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after %d ticks, want 0", s.Len(), limit)
	}
}

func TestClear(t *testing.T) {
	s, _ := testStage()
	s.Accept(game.Wreck{World: r2.Vec{X: 10}})
	s.Accept(game.Wreck{World: r2.Vec{Y: -10}})
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", s.Len())
	}
}
