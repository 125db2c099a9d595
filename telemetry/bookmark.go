package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType names a kind of notable moment.
type BookmarkType string

const (
	BookmarkJourneyStreak BookmarkType = "journey_streak"
	BookmarkLastAttempt   BookmarkType = "last_attempt"
	BookmarkCrowded       BookmarkType = "crowded"
	BookmarkCleanRun      BookmarkType = "clean_run"
)

// Detection thresholds.
const (
	minStreakHistory  = 3
	minStreakJourneys = 3
	streakFactor      = 2.0
	cleanRunWindows   = 5
)

// Bookmark marks a notable moment, one row of bookmarks.csv.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs b at info level.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark", "type", string(b.Type), "tick", b.Tick, "description", b.Description)
}

// BookmarkDetector watches stats windows for notable moments.
type BookmarkDetector struct {
	journeys []float64 // ring of recent per-window journey counts
	next     int
	filled   int

	lastAttempts    int
	crowdedReported bool
	cleanWindows    int
}

// NewBookmarkDetector remembers the last size windows, at least three.
func NewBookmarkDetector(size int) *BookmarkDetector {
	return &BookmarkDetector{journeys: make([]float64, max(size, minStreakHistory))}
}

// Check inspects the window that just closed and returns the bookmarks it
// triggers, in a fixed order.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	rules := []func(WindowStats) (BookmarkType, string, bool){
		bd.journeyStreak,
		bd.lastAttempt,
		bd.crowded,
		bd.cleanRun,
	}

	var out []Bookmark
	for _, rule := range rules {
		if typ, desc, ok := rule(stats); ok {
			out = append(out, Bookmark{Type: typ, Tick: stats.WindowEndTick, Description: desc})
		}
	}

	bd.journeys[bd.next] = float64(stats.Journeys)
	bd.next = (bd.next + 1) % len(bd.journeys)
	bd.filled = min(bd.filled+1, len(bd.journeys))
	bd.lastAttempts = stats.RemainingAttempts
	return out
}

// Reset forgets per-game state after a restart.
func (bd *BookmarkDetector) Reset() {
	*bd = BookmarkDetector{journeys: bd.journeys}
}

// journeyStreak fires when a window completes more than twice the recent
// average.
func (bd *BookmarkDetector) journeyStreak(s WindowStats) (BookmarkType, string, bool) {
	if bd.filled < minStreakHistory || s.Journeys < minStreakJourneys {
		return "", "", false
	}
	avg := stat.Mean(bd.journeys[:bd.filled], nil)
	if float64(s.Journeys) <= streakFactor*avg {
		return "", "", false
	}
	return BookmarkJourneyStreak, fmt.Sprintf("%d journeys in one window, average %.1f", s.Journeys, avg), true
}

func (bd *BookmarkDetector) lastAttempt(s WindowStats) (BookmarkType, string, bool) {
	if s.RemainingAttempts != 1 || bd.lastAttempts <= 1 {
		return "", "", false
	}
	return BookmarkLastAttempt, fmt.Sprintf("Down to the last attempt with %d journeys", s.TotalJourneys), true
}

// crowded fires once per game, the first time spawning had to use the
// whole grid.
func (bd *BookmarkDetector) crowded(s WindowStats) (BookmarkType, string, bool) {
	if bd.crowdedReported || s.SpawnFallbacks == 0 {
		return "", "", false
	}
	bd.crowdedReported = true
	return BookmarkCrowded, fmt.Sprintf("Border full: spawn fell back to the whole grid with %d bots", s.Bots), true
}

// cleanRun fires once a streak of active windows without a player loss
// reaches cleanRunWindows.
func (bd *BookmarkDetector) cleanRun(s WindowStats) (BookmarkType, string, bool) {
	if s.Moves == 0 || s.PlayersDestroyed > 0 {
		bd.cleanWindows = 0
		return "", "", false
	}
	bd.cleanWindows++
	if bd.cleanWindows != cleanRunWindows {
		return "", "", false
	}
	return BookmarkCleanRun, fmt.Sprintf("No player lost over %d windows among %d bots", cleanRunWindows, s.Bots), true
}
