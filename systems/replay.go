package systems

import (
	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/grid"
)

// NextReplayStep advances an automated journey's cursor by one and returns
// the cell to move to. ok is false when the path has fewer than two cells,
// in which case the cursor is left alone.
func NextReplayStep(j *components.Journey) (next grid.Cell, ok bool) {
	n := len(j.Path)
	if n < 2 {
		if n == 1 {
			j.BotIndex = 0
		}
		return grid.Cell{}, false
	}
	j.BotIndex = (j.BotIndex + 1) % n
	return j.Path[j.BotIndex], true
}
