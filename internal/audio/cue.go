package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/kitty-madness/internal/game"
)

// Note is one tone of a cue.
type Note struct {
	Freq     float64 // Hz; 0 is a rest
	Duration time.Duration
}

// Cue is a short sequence of notes.
type Cue struct {
	Notes  []Note
	Volume float64 // Peak amplitude in [0, 1]
}

// Duration returns the total length of the cue.
func (c Cue) Duration() time.Duration {
	var d time.Duration
	for _, n := range c.Notes {
		d += n.Duration
	}
	return d
}

// Streamer renders the cue at the given sample rate.
func (c Cue) Streamer(sr beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(c.Notes))
	for _, n := range c.Notes {
		parts = append(parts, beep.Take(sr.N(n.Duration), NewToneGenerator(sr, n.Freq, c.Volume, sr.N(n.Duration))))
	}
	return beep.Seq(parts...)
}

var cues = map[game.EventKind]Cue{
	game.EventStarted: {Volume: 0.2, Notes: []Note{
		{Freq: 523.25, Duration: 80 * time.Millisecond},
		{Freq: 659.25, Duration: 80 * time.Millisecond},
	}},
	game.EventFishCollected: {Volume: 0.25, Notes: []Note{
		{Freq: 880, Duration: 60 * time.Millisecond},
		{Freq: 1318.5, Duration: 90 * time.Millisecond},
	}},
	game.EventDelivered: {Volume: 0.25, Notes: []Note{
		{Freq: 659.25, Duration: 70 * time.Millisecond},
		{Freq: 783.99, Duration: 70 * time.Millisecond},
		{Freq: 1046.5, Duration: 120 * time.Millisecond},
	}},
	game.EventLevelUp: {Volume: 0.25, Notes: []Note{
		{Freq: 523.25, Duration: 90 * time.Millisecond},
		{Freq: 659.25, Duration: 90 * time.Millisecond},
		{Freq: 783.99, Duration: 90 * time.Millisecond},
		{Freq: 1046.5, Duration: 180 * time.Millisecond},
	}},
	game.EventWon: {Volume: 0.3, Notes: []Note{
		{Freq: 783.99, Duration: 120 * time.Millisecond},
		{Freq: 0, Duration: 40 * time.Millisecond},
		{Freq: 783.99, Duration: 120 * time.Millisecond},
		{Freq: 1046.5, Duration: 300 * time.Millisecond},
	}},
	game.EventTimeUp: {Volume: 0.3, Notes: []Note{
		{Freq: 392, Duration: 150 * time.Millisecond},
		{Freq: 261.63, Duration: 300 * time.Millisecond},
	}},
}

// CueFor returns the cue played for an event kind.
func CueFor(kind game.EventKind) (Cue, bool) {
	c, ok := cues[kind]
	return c, ok
}

// ToneGenerator generates a sine tone with a short attack and release
// so consecutive notes don't click.
type ToneGenerator struct {
	sr      beep.SampleRate
	freq    float64
	volume  float64
	pos     int
	samples int
}

// NewToneGenerator creates a tone generator lasting samples frames.
func NewToneGenerator(sr beep.SampleRate, freq, volume float64, samples int) *ToneGenerator {
	return &ToneGenerator{sr: sr, freq: freq, volume: volume, samples: samples}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.samples {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.samples {
			return i, true
		}
		v := 0.0
		if g.freq > 0 {
			t := float64(g.pos) / float64(g.sr)
			v = g.volume * g.envelope() * math.Sin(2*math.Pi*g.freq*t)
		}
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// envelope ramps the first and last 5 ms linearly.
func (g *ToneGenerator) envelope() float64 {
	ramp := g.sr.N(5 * time.Millisecond)
	if ramp <= 0 {
		return 1
	}
	switch {
	case g.pos < ramp:
		return float64(g.pos) / float64(ramp)
	case g.samples-g.pos < ramp:
		return float64(g.samples-g.pos) / float64(ramp)
	default:
		return 1
	}
}
