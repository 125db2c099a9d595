// Package audio plays synthesized clips for game signals through the beep
// speaker.
package audio

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/didibear/road-on-road/config"
	"github.com/didibear/road-on-road/systems"
)

// Manager implements game.SoundSink. It is safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	volume float64
	muted  bool
	rng    *rand.Rand
	pools  map[systems.Signal][]clip

	// play hands a stream to the output; nil until Init succeeds.
	play func(beep.Streamer)
}

// NewManager creates a manager. No sound is played until Init is called.
func NewManager(cfg config.AudioConfig, seed int64) *Manager {
	return &Manager{
		rate:   beep.SampleRate(cfg.SampleRate),
		volume: cfg.Volume,
		muted:  !cfg.Enabled,
		rng:    rand.New(rand.NewSource(seed)),
		pools: map[systems.Signal][]clip{
			systems.SignalMove: moveClips,
			systems.SignalHurt: hurtClips,
			systems.SignalCoin: coinClips,
			systems.SignalGoal: goalClips,
		},
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.play != nil {
		return nil
	}
	if err := speaker.Init(m.rate, m.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	m.play = func(s beep.Streamer) { speaker.Play(s) }
	return nil
}

// Close releases the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.play == nil {
		return
	}
	speaker.Close()
	m.play = nil
}

// SetMuted turns playback off or back on.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()
}

// ToggleMuted flips the mute state and returns the new one.
func (m *Manager) ToggleMuted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = !m.muted
	return m.muted
}

// Play plays a random clip from the pool for s.
func (m *Manager) Play(s systems.Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.muted || m.play == nil {
		return
	}
	c, ok := m.pick(s)
	if !ok {
		return
	}
	stream, err := c.stream(m.rate, m.volume)
	if err != nil {
		slog.Warn("audio_clip_failed", "signal", s.String(), "error", err)
		return
	}
	m.play(stream)
}

func (m *Manager) pick(s systems.Signal) (clip, bool) {
	pool := m.pools[s]
	if len(pool) == 0 {
		return clip{}, false
	}
	return pool[m.rng.Intn(len(pool))], true
}
