package systems

import "fmt"

// Mode is the overall game state.
type Mode uint8

const (
	ModeInGame Mode = iota
	ModeEndGame
)

// String returns the display name for a Mode.
func (m Mode) String() string {
	if m == ModeEndGame {
		return "EndGame"
	}
	return "InGame"
}

// Score holds the process-wide counters.
type Score struct {
	Journeys          int
	RemainingAttempts int
}

// String returns the HUD status line.
func (s Score) String() string {
	return fmt.Sprintf("Remaining Attempts: %d, Journeys: %d", s.RemainingAttempts, s.Journeys)
}

// Context is the mutable simulation state shared between tick stages.
// Each stage writes to it only through the methods below.
type Context struct {
	Score Score
	Mode  Mode

	initialAttempts int
	refill          bool
}

// NewContext creates a context in ModeInGame with full attempts.
func NewContext(attempts int, refillOnJourney bool) *Context {
	c := &Context{initialAttempts: attempts, refill: refillOnJourney}
	c.Reset()
	return c
}

// Reset restores the initial counters and mode.
func (c *Context) Reset() {
	c.Score = Score{RemainingAttempts: c.initialAttempts}
	c.Mode = ModeInGame
}

// Playing reports whether the game is in ModeInGame.
func (c *Context) Playing() bool {
	return c.Mode == ModeInGame
}

// CompleteJourney counts a finished journey.
func (c *Context) CompleteJourney() {
	c.Score.Journeys++
}

// RefillAttempts restores the initial attempts when refilling is enabled
// and the game is still running.
func (c *Context) RefillAttempts() {
	if c.refill && c.Playing() {
		c.Score.RemainingAttempts = c.initialAttempts
	}
}

// LoseAttempt decrements the remaining attempts and ends the game when none
// remain. It reports whether the game is still running.
func (c *Context) LoseAttempt() bool {
	if c.Score.RemainingAttempts > 0 {
		c.Score.RemainingAttempts--
	}
	if c.Score.RemainingAttempts == 0 {
		c.Mode = ModeEndGame
	}
	return c.Playing()
}

// End moves the game to ModeEndGame.
func (c *Context) End() {
	c.Mode = ModeEndGame
}
