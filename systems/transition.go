package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/components"
)

// AdvanceTransition moves the transition toward its end cell at speed grid
// units per second. It reports arrival once the distance travelled from the
// start reaches arrival grid units; the caller commits the end cell and
// removes the transition. A zero-length transition arrives immediately.
func AdvanceTransition(tr *components.Transition, speed, arrival, dt float64) bool {
	start := tr.Start.Vec()
	delta := r2.Sub(tr.End.Vec(), start)
	length := r2.Norm(delta)
	if length == 0 {
		tr.Current = start
		return true
	}

	step := r2.Scale(speed*dt/length, delta)
	tr.Current = r2.Add(tr.Current, step)

	if r2.Norm(r2.Sub(tr.Current, start)) >= min(arrival, length) {
		tr.Current = tr.End.Vec()
		return true
	}
	return false
}

// TransitionPoint returns the continuous grid point of an actor: the
// transition's current point while moving, otherwise its cell.
func TransitionPoint(pos components.Position, tr *components.Transition) r2.Vec {
	if tr != nil {
		return tr.Current
	}
	return pos.Cell.Vec()
}
