package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"nightwalk/internal/feedback"
)

// Timeline replays recorded per-tick levels through an Ambience, holding
// each entry for one tick. It ends after the last entry.
type Timeline struct {
	amb     *Ambience
	levels  []feedback.AudioLevels
	perTick int
	pos     int
}

// NewTimeline plays levels at one entry per tick.
func NewTimeline(amb *Ambience, levels []feedback.AudioLevels, tick time.Duration) *Timeline {
	per := amb.sr.N(tick)
	if per < 1 {
		per = 1
	}
	return &Timeline{amb: amb, levels: levels, perTick: per}
}

// Len returns the total number of samples the timeline produces.
func (t *Timeline) Len() int { return len(t.levels) * t.perTick }

// Stream implements beep.Streamer.
func (t *Timeline) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		if t.pos >= t.Len() {
			return n, n > 0
		}
		idx := t.pos / t.perTick
		t.amb.SetLevels(t.levels[idx])
		chunk := (idx+1)*t.perTick - t.pos
		if rest := len(samples) - n; chunk > rest {
			chunk = rest
		}
		m, _ := t.amb.Stream(samples[n : n+chunk])
		n += m
		t.pos += m
	}
	return n, true
}

// Err always returns nil.
func (t *Timeline) Err() error { return nil }

// Format is the 16-bit stereo format WriteWAV produces.
func Format(sr beep.SampleRate) beep.Format {
	return beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}
}

// WriteWAV renders levels, one entry per tick, as a 16-bit stereo WAV file.
func WriteWAV(w io.WriteSeeker, levels []feedback.AudioLevels, tick time.Duration, volume float64, seed int64) error {
	amb := NewAmbience(SampleRate, seed)
	tl := NewTimeline(amb, levels, tick)
	if err := wav.Encode(w, WithVolume(tl, volume), Format(SampleRate)); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}
