package systems

import (
	"slices"

	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/grid"
)

// JustReachedTarget reports whether cur is the target and the target has not
// appeared in the path yet. It only drives a one-time cue.
func JustReachedTarget(j *components.Journey, cur grid.Cell) bool {
	return cur == j.Target && !slices.Contains(j.Path, j.Target)
}

// JourneyFinished reports whether the target has been visited and the actor
// is back at its start. Visit order is not otherwise checked.
func JourneyFinished(j *components.Journey, cur grid.Cell) bool {
	return cur == j.Start && slices.Contains(j.Path, j.Target)
}

// StepResult holds the journey predicates for one recorded move.
type StepResult struct {
	ReachedTarget bool
	Finished      bool
}

// RecordStep appends a move from one cell to another and evaluates both
// predicates. The first move also records the cell the actor left, so the
// path always starts at the spawn cell and ends at the current cell.
func RecordStep(j *components.Journey, from, to grid.Cell) StepResult {
	if len(j.Path) == 0 {
		j.Path = append(j.Path, from)
	}
	var res StepResult
	res.ReachedTarget = JustReachedTarget(j, to)
	j.Path = append(j.Path, to)
	res.Finished = JourneyFinished(j, to)
	return res
}

// Freeze turns a finished journey into a replay loop. The trailing start cell
// is dropped so the loop closes on itself, and the cursor is placed on the
// start cell.
func Freeze(j *components.Journey) {
	if n := len(j.Path); n > 1 && j.Path[n-1] == j.Start && j.Path[0] == j.Start {
		j.Path = j.Path[:n-1]
	}
	j.Path = slices.Clip(j.Path)
	j.BotIndex = 0
}

// CopyForReplay returns a frozen copy of j that shares no storage with it.
func CopyForReplay(j *components.Journey) components.Journey {
	return components.Journey{
		Start:    j.Start,
		Target:   j.Target,
		Path:     slices.Clone(j.Path),
		BotIndex: 0,
	}
}
