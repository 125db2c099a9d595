package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// note is a single sine tone.
type note struct {
	freq     float64
	duration time.Duration
}

// clip is one variant of a sound: notes played in sequence, each note a
// chord of its frequencies.
type clip struct {
	chords [][]note
	gain   float64
}

// Duration returns the total length of the clip.
func (c clip) Duration() time.Duration {
	var d time.Duration
	for _, chord := range c.chords {
		var longest time.Duration
		for _, n := range chord {
			longest = max(longest, n.duration)
		}
		d += longest
	}
	return d
}

func single(freq float64, d time.Duration, gain float64) clip {
	return clip{chords: [][]note{{{freq: freq, duration: d}}}, gain: gain}
}

// Pools of clip variants per signal. Move and hurt pick a random variant.
var (
	moveClips = []clip{
		single(392.00, 40*time.Millisecond, 0.35),
		single(440.00, 40*time.Millisecond, 0.35),
		single(493.88, 40*time.Millisecond, 0.35),
		single(523.25, 40*time.Millisecond, 0.35),
	}
	hurtClips = []clip{
		single(110.00, 180*time.Millisecond, 0.8),
		single(98.00, 200*time.Millisecond, 0.8),
		single(87.31, 220*time.Millisecond, 0.8),
	}
	coinClips = []clip{{
		chords: [][]note{
			{{freq: 987.77, duration: 80 * time.Millisecond}},
			{{freq: 1318.51, duration: 160 * time.Millisecond}},
		},
		gain: 0.5,
	}}
	goalClips = []clip{{
		chords: [][]note{{
			{freq: 523.25, duration: 250 * time.Millisecond},
			{freq: 659.25, duration: 250 * time.Millisecond},
			{freq: 783.99, duration: 250 * time.Millisecond},
		}},
		gain: 0.4,
	}}
)

// stream synthesizes c at the given rate and master volume.
func (c clip) stream(rate beep.SampleRate, volume float64) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(c.chords))
	for _, chord := range c.chords {
		voices := make([]beep.Streamer, 0, len(chord))
		for _, n := range chord {
			tone, err := generators.SineTone(rate, n.freq)
			if err != nil {
				return nil, err
			}
			voices = append(voices, newFade(beep.Take(rate.N(n.duration), tone), rate.N(n.duration), rate.N(5*time.Millisecond)))
		}
		if len(voices) == 1 {
			parts = append(parts, voices[0])
			continue
		}
		parts = append(parts, newVolume(beep.Mix(voices...), 1/float64(len(voices))))
	}
	return newVolume(beep.Seq(parts...), c.gain*volume), nil
}

// newVolume scales s linearly; zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// fade ramps the first and last edge samples of a fixed-length stream to
// avoid clicks.
type fade struct {
	streamer beep.Streamer
	pos      int
	total    int
	edge     int
}

func newFade(s beep.Streamer, total, edge int) *fade {
	return &fade{streamer: s, total: total, edge: min(edge, total/2)}
}

func (f *fade) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if f.edge > 0 {
			if f.pos < f.edge {
				gain = float64(f.pos) / float64(f.edge)
			} else if rest := f.total - f.pos; rest < f.edge {
				gain = float64(rest) / float64(f.edge)
			}
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.pos++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }
