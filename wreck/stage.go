// Package wreck animates destroyed actors flying off the board.
package wreck

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/game"
	"github.com/didibear/road-on-road/grid"
)

// Piece is a wreck in flight.
type Piece struct {
	World    r2.Vec
	Rotation float64
	Color    config.RGBA
	Scale    float32

	origin r2.Vec
	dir    r2.Vec
	travel *gween.Tween
}

// Stage receives wrecks from the game and moves them outward from the board
// center while spinning. A piece is dropped once it leaves the board plus a
// margin.
type Stage struct {
	extent r2.Vec
	margin float64
	speed  float64 // world units per second
	spin   float64 // radians per second, clockwise
	reach  float64 // tween distance, enough to leave the board from anywhere

	pieces []*Piece
}

// NewStage creates a stage for the given board.
func NewStage(geom grid.Geometry, cfg config.DestroyedConfig) *Stage {
	extent := geom.Extent()
	margin := cfg.MarginFactor * geom.CellSize
	return &Stage{
		extent: extent,
		margin: margin,
		speed:  cfg.SpeedFactor * geom.CellSize,
		spin:   math.Pi * cfg.Rotation,
		reach:  2 * (r2.Norm(extent) + margin),
	}
}

// Accept implements game.WreckSink.
func (s *Stage) Accept(w game.Wreck) {
	dir := r2.Vec{X: 1}
	if r2.Norm(w.World) > 0 {
		dir = r2.Unit(w.World)
	}
	duration := float32(s.reach / s.speed)
	s.pieces = append(s.pieces, &Piece{
		World:    w.World,
		Rotation: w.Rotation,
		Color:    w.Color,
		Scale:    w.Scale,
		origin:   w.World,
		dir:      dir,
		travel:   gween.New(0, float32(s.reach), duration, ease.InQuad),
	})
}

// Update advances every piece by dt seconds and culls those off the board.
func (s *Stage) Update(dt float64) {
	kept := s.pieces[:0]
	for _, p := range s.pieces {
		dist, finished := p.travel.Update(float32(dt))
		p.World = r2.Add(p.origin, r2.Scale(float64(dist), p.dir))
		p.Rotation -= s.spin * dt
		if finished || s.outside(p.World) {
			continue
		}
		kept = append(kept, p)
	}
	clear(s.pieces[len(kept):])
	s.pieces = kept
}

func (s *Stage) outside(v r2.Vec) bool {
	return math.Abs(v.X) > s.extent.X+s.margin || math.Abs(v.Y) > s.extent.Y+s.margin
}

// Pieces returns the pieces in flight.
func (s *Stage) Pieces() []*Piece {
	return s.pieces
}

// Len returns the number of pieces in flight.
func (s *Stage) Len() int {
	return len(s.pieces)
}

// Clear implements game.WreckSink. It drops every piece.
func (s *Stage) Clear() {
	clear(s.pieces)
	s.pieces = s.pieces[:0]
}
