package world

import (
	"math"

	"nightwalk/internal/mathx"
)

// AmbientConfig tunes the idle motion layer and the global atmosphere.
type AmbientConfig struct {
	// Radius is the near field where instances sway; strength falls off
	// linearly to zero at the edge.
	Radius         float64 `yaml:"radius"`
	PulseAmplitude float64 `yaml:"pulse_amplitude"`
	PulseFrequency float64 `yaml:"pulse_frequency"`
	LeanAmplitude  float64 `yaml:"lean_amplitude"`
	LeanFrequency  float64 `yaml:"lean_frequency"`
	ColorAmplitude float64 `yaml:"color_amplitude"`
	ColorFrequency float64 `yaml:"color_frequency"`
	DriftAmplitude float64 `yaml:"drift_amplitude"`
	DriftFrequency float64 `yaml:"drift_frequency"`

	SkyRotationSpeed float64 `yaml:"sky_rotation_speed"`

	FogColor        mathx.RGB `yaml:"fog_color"`
	BackgroundColor mathx.RGB `yaml:"background_color"`
	BreathPeriod    float64   `yaml:"breath_period"`
	BreathAmplitude float64   `yaml:"breath_amplitude"`
	// BackgroundBreath scales the pulse applied to the background relative to fog.
	BackgroundBreath float64 `yaml:"background_breath"`
}

// DefaultAmbientConfig returns the standard idle-motion tuning.
func DefaultAmbientConfig() AmbientConfig {
	return AmbientConfig{
		Radius:           18,
		PulseAmplitude:   0.08,
		PulseFrequency:   1.3,
		LeanAmplitude:    0.05,
		LeanFrequency:    0.7,
		ColorAmplitude:   0.25,
		ColorFrequency:   0.9,
		DriftAmplitude:   0.12,
		DriftFrequency:   0.35,
		SkyRotationSpeed: 0.004,
		FogColor:         mathx.RGB{R: 0.05, G: 0.07, B: 0.09},
		BackgroundColor:  mathx.RGB{R: 0.02, G: 0.03, B: 0.04},
		BreathPeriod:     7.5,
		BreathAmplitude:  0.18,
		BackgroundBreath: 0.5,
	}
}

// AmbientOffsets is the continuous idle contribution for one instance.
type AmbientOffsets struct {
	VerticalPulse float64
	Lean          float64
	ColorPulse    float64
	Drift         mathx.Vec2
}

// ComputeAmbientOffsets evaluates the near-field sway for inst at now. index
// phase-offsets the waves so neighbours never move in lockstep.
func ComputeAmbientOffsets(inst *Instance, now float64, index int, player mathx.Vec2, cfg AmbientConfig) AmbientOffsets {
	if inst == nil || cfg.Radius <= 0 {
		return AmbientOffsets{}
	}
	dist := math.Sqrt(inst.Anchor.Dist2(player))
	if !(dist < cfg.Radius) {
		return AmbientOffsets{}
	}
	k := 1 - dist/cfg.Radius
	phase := float64(index)

	return AmbientOffsets{
		VerticalPulse: k * cfg.PulseAmplitude * math.Sin(now*cfg.PulseFrequency+phase*0.37),
		Lean:          k * cfg.LeanAmplitude * math.Sin(now*cfg.LeanFrequency+phase*0.53),
		ColorPulse:    k * cfg.ColorAmplitude * (0.5 + 0.5*math.Sin(now*cfg.ColorFrequency+phase*0.91)),
		Drift: mathx.Vec2{
			X: k * cfg.DriftAmplitude * math.Cos(now*cfg.DriftFrequency+phase*1.13),
			Z: k * cfg.DriftAmplitude * math.Sin(now*cfg.DriftFrequency+phase*0.77),
		},
	}
}

// Atmosphere is the global presentation state: sky rotation and the breathing
// fog/background colors.
type Atmosphere struct {
	SkyRotation float64
	Pulse       float64
	Fog         mathx.RGB
	Background  mathx.RGB
}

// ComputeAtmosphere evaluates the global breathing at simulation time now.
func ComputeAtmosphere(now float64, cfg AmbientConfig) Atmosphere {
	pulse := 0.0
	if cfg.BreathPeriod > 0 {
		pulse = cfg.BreathAmplitude * math.Sin(2*math.Pi*now/cfg.BreathPeriod)
	}
	return Atmosphere{
		SkyRotation: math.Mod(now*cfg.SkyRotationSpeed, 2*math.Pi),
		Pulse:       pulse,
		Fog:         cfg.FogColor.Scale(1 + pulse),
		Background:  cfg.BackgroundColor.Scale(1 + pulse*cfg.BackgroundBreath),
	}
}

// Resolve composes the anchor, spawn offsets and ambient offsets into the
// final transform.
func Resolve(inst *Instance, so SpawnOffsets, ao AmbientOffsets) Transform {
	pos := inst.Anchor.Add(so.Lateral).Add(ao.Drift)
	t := Transform{
		Scale: inst.BaseScale * so.Scale,
		Yaw:   inst.Yaw + so.Twist,
		Roll:  ao.Lean,
		Tint:  mathx.Clamp01(ao.ColorPulse),
	}
	t.Position.X = pos.X
	t.Position.Y = inst.BaseHeight + so.Rise + ao.VerticalPulse
	t.Position.Z = pos.Z
	return t
}
