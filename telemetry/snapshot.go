package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/didibear/road-on-road/components"
	"github.com/didibear/road-on-road/grid"
)

// SnapshotVersion is the current snapshot file format.
const SnapshotVersion = 1

// Snapshot holds the board state at a notable moment.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`

	Tick              int32 `json:"tick"`
	Journeys          int   `json:"journeys"`
	RemainingAttempts int   `json:"remaining_attempts"`
	Ended             bool  `json:"ended"`

	Actors []ActorState `json:"actors"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ActorState holds one live actor's state.
type ActorState struct {
	ID   uint32 `json:"id"`
	Role string `json:"role"`

	Cell   CellJSON   `json:"cell"`
	Moving bool       `json:"moving"`
	Grace  bool       `json:"grace"`
	Start  CellJSON   `json:"start"`
	Target CellJSON   `json:"target"`
	Path   []CellJSON `json:"path"`

	BotIndex int `json:"bot_index"`
}

// CellJSON is the JSON form of a grid cell.
type CellJSON [2]int

// NewCellJSON converts a cell.
func NewCellJSON(c grid.Cell) CellJSON {
	return CellJSON{c.X, c.Y}
}

// Cell converts back to a grid cell.
func (c CellJSON) Cell() grid.Cell {
	return grid.Cell{X: c[0], Y: c[1]}
}

// NewActorState converts an actor and its journey.
func NewActorState(actor components.Actor, cell grid.Cell, journey components.Journey, moving, grace bool) ActorState {
	path := make([]CellJSON, len(journey.Path))
	for i, c := range journey.Path {
		path[i] = NewCellJSON(c)
	}
	return ActorState{
		ID:       actor.ID,
		Role:     actor.Role.String(),
		Cell:     NewCellJSON(cell),
		Moving:   moving,
		Grace:    grace,
		Start:    NewCellJSON(journey.Start),
		Target:   NewCellJSON(journey.Target),
		Path:     path,
		BotIndex: journey.BotIndex,
	}
}

// Filename is snapshot_<tick>.json, suffixed with the bookmark type or
// "ended" when either applies.
func (s *Snapshot) Filename() string {
	var suffix string
	switch {
	case s.Bookmark != nil:
		suffix = "_" + strings.ReplaceAll(string(s.Bookmark.Type), " ", "_")
	case s.Ended:
		suffix = "_ended"
	}
	return fmt.Sprintf("snapshot_%d%s.json", s.Tick, suffix)
}

// SaveSnapshot writes s as indented JSON under dir, creating dir if needed,
// and returns the file path.
func SaveSnapshot(s *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}
	path := filepath.Join(dir, s.Filename())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating snapshot: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot. Snapshots of
// another format version are rejected.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	s := new(Snapshot)
	if err := json.NewDecoder(f).Decode(s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	return s, nil
}
