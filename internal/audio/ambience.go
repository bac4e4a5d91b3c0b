// Package audio synthesizes the night ambience from the feedback loop's
// levels: a low rumble on the oscillator frequency with slow tremolo, and a
// band of filtered hiss.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"nightwalk/internal/feedback"
	pkgcore "nightwalk/pkg/core"
)

// SampleRate is the rate every stream in this package runs at.
const SampleRate = beep.SampleRate(44100)

const (
	tremoloHz   = 0.23
	hissCutoff  = 0.08
	levelGlide  = 30 * time.Millisecond
	rumbleGain  = 0.55
	overtoneMix = 0.3
	hissGain    = 0.35
)

// Ambience is an endless beep.Streamer. SetLevels may be called from any
// goroutine; the stream glides toward the new levels instead of clicking.
type Ambience struct {
	mu     sync.Mutex
	sr     beep.SampleRate
	target feedback.AudioLevels
	cur    feedback.AudioLevels
	glide  float64

	phase   float64
	tremolo float64
	hissL   float64
	hissR   float64
	rng     *pkgcore.RNG
}

// NewAmbience starts silent; noise is drawn from a generator seeded by seed.
func NewAmbience(sr beep.SampleRate, seed int64) *Ambience {
	if sr <= 0 {
		sr = SampleRate
	}
	n := float64(sr.N(levelGlide))
	if n < 1 {
		n = 1
	}
	return &Ambience{
		sr:    sr,
		glide: 1 - math.Exp(-1/n),
		rng:   pkgcore.NewRNG(seed),
	}
}

// SetLevels sets the levels the stream heads toward.
func (a *Ambience) SetLevels(l feedback.AudioLevels) {
	a.mu.Lock()
	a.target = l
	a.mu.Unlock()
}

// Levels returns the levels currently sounding.
func (a *Ambience) Levels() feedback.AudioLevels {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cur
}

// Stream fills samples; it never ends.
func (a *Ambience) Stream(samples [][2]float64) (n int, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	rate := float64(a.sr)
	for i := range samples {
		a.cur.Rumble += (a.target.Rumble - a.cur.Rumble) * a.glide
		a.cur.Hiss += (a.target.Hiss - a.cur.Hiss) * a.glide
		a.cur.OscillatorHz += (a.target.OscillatorHz - a.cur.OscillatorHz) * a.glide

		trem := 0.75 + 0.25*math.Sin(2*math.Pi*a.tremolo)
		body := math.Sin(2*math.Pi*a.phase) + overtoneMix*math.Sin(4*math.Pi*a.phase)
		rumble := a.cur.Rumble * rumbleGain * trem * body / (1 + overtoneMix)

		a.hissL += (a.rng.Float64()*2 - 1 - a.hissL) * hissCutoff
		a.hissR += (a.rng.Float64()*2 - 1 - a.hissR) * hissCutoff
		hiss := a.cur.Hiss * hissGain

		samples[i][0] = clampSample(rumble + hiss*a.hissL)
		samples[i][1] = clampSample(rumble + hiss*a.hissR)

		a.phase += math.Max(a.cur.OscillatorHz, 0) / rate
		a.phase -= math.Floor(a.phase)
		a.tremolo += tremoloHz / rate
		a.tremolo -= math.Floor(a.tremolo)
	}
	return len(samples), true
}

// Err always returns nil.
func (a *Ambience) Err() error { return nil }

// WithVolume applies a linear master gain; zero or less is silent.
func WithVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func clampSample(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
