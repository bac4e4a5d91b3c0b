package world

import (
	"math"

	"github.com/golang/geo/r3"

	"nightwalk/internal/mathx"
)

// MistConfig tunes the drifting particle field around the player.
type MistConfig struct {
	Count        int     `yaml:"count"`
	BoxSize      float64 `yaml:"box_size"`
	Height       float64 `yaml:"height"`
	DriftRadius  float64 `yaml:"drift_radius"`
	DriftSpeed   float64 `yaml:"drift_speed"`
	BobAmplitude float64 `yaml:"bob_amplitude"`
	BobSpeed     float64 `yaml:"bob_speed"`
	NearBand     float64 `yaml:"near_band"`
	FarBand      float64 `yaml:"far_band"`
	FloorOpacity float64 `yaml:"floor_opacity"`
}

// DefaultMistConfig returns the standard mist tuning.
func DefaultMistConfig() MistConfig {
	return MistConfig{
		Count:        120,
		BoxSize:      60,
		Height:       0.6,
		DriftRadius:  0.8,
		DriftSpeed:   0.2,
		BobAmplitude: 0.3,
		BobSpeed:     0.5,
		NearBand:     8,
		FarBand:      26,
		FloorOpacity: 0.15,
	}
}

type mistParticle struct {
	base  mathx.Vec2
	phase float64
	speed float64
}

// MistSample is one resolved particle.
type MistSample struct {
	Position r3.Vector
	Opacity  float64
}

// MistField wraps a fixed set of particles into a box centred on the player so
// the field never runs out.
type MistField struct {
	cfg       MistConfig
	particles []mistParticle
	samples   []MistSample
}

// NewMistField scatters cfg.Count particles through the box.
func NewMistField(cfg MistConfig, rng Source) *MistField {
	f := &MistField{cfg: cfg}
	if cfg.Count <= 0 || cfg.BoxSize <= 0 {
		return f
	}
	f.particles = make([]mistParticle, cfg.Count)
	f.samples = make([]MistSample, cfg.Count)
	half := cfg.BoxSize / 2
	for i := range f.particles {
		f.particles[i] = mistParticle{
			base:  mathx.Vec2{X: randRange(rng, -half, half), Z: randRange(rng, -half, half)},
			phase: rng.Float64() * 2 * math.Pi,
			speed: randRange(rng, 0.6, 1.4),
		}
	}
	return f
}

// Opacity maps distance from the player onto the fade band.
func (c MistConfig) Opacity(dist float64) float64 {
	if dist <= c.NearBand {
		return 1
	}
	if dist >= c.FarBand || c.FarBand <= c.NearBand {
		return c.FloorOpacity
	}
	t := (dist - c.NearBand) / (c.FarBand - c.NearBand)
	return mathx.Lerp(1, c.FloorOpacity, t)
}

// Sample resolves every particle at now around player. The returned slice is
// reused between calls.
func (f *MistField) Sample(now float64, player mathx.Vec2) []MistSample {
	if f == nil || len(f.particles) == 0 {
		return nil
	}
	box := f.cfg.BoxSize
	half := box / 2
	for i, p := range f.particles {
		rel := mathx.Vec2{
			X: wrap(p.base.X-player.X, half, box),
			Z: wrap(p.base.Z-player.Z, half, box),
		}
		t := now*f.cfg.DriftSpeed*p.speed + p.phase
		rel = rel.Add(mathx.Vec2{X: math.Cos(t) * f.cfg.DriftRadius, Z: math.Sin(t) * f.cfg.DriftRadius})
		y := f.cfg.Height + f.cfg.BobAmplitude*math.Sin(now*f.cfg.BobSpeed*p.speed+p.phase*1.7)

		f.samples[i] = MistSample{
			Position: r3.Vector{X: player.X + rel.X, Y: y, Z: player.Z + rel.Z},
			Opacity:  f.cfg.Opacity(rel.Len()),
		}
	}
	return f.samples
}

func wrap(v, half, box float64) float64 {
	v = math.Mod(v+half, box)
	if v < 0 {
		v += box
	}
	return v - half
}
