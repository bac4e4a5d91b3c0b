package world

import (
	"math"

	"nightwalk/internal/mathx"
)

// SpawnConfig parameterizes the rise animation that masks a reassignment.
//
// The curve is a two-phase family: a slow power-law creep over the first
// CreepSplit of progress that covers CreepShare of the distance, then an
// ease-out-back into place. Setting CreepSplit to 0 gives a plain
// ease-out-back; StutterAmplitude adds a high-frequency tremor on top.
type SpawnConfig struct {
	Duration float64 `yaml:"duration"`
	MinScale float64 `yaml:"min_scale"`

	CreepSplit    float64 `yaml:"creep_split"`
	CreepShare    float64 `yaml:"creep_share"`
	CreepExponent float64 `yaml:"creep_exponent"`
	Overshoot     float64 `yaml:"overshoot"`

	ScaleOvershoot float64 `yaml:"scale_overshoot"`
	RiseDepth      float64 `yaml:"rise_depth"`
	TwistAmplitude float64 `yaml:"twist_amplitude"`
	DriftDistance  float64 `yaml:"drift_distance"`

	StutterAmplitude float64 `yaml:"stutter_amplitude"`
	StutterFreqA     float64 `yaml:"stutter_freq_a"`
	StutterFreqB     float64 `yaml:"stutter_freq_b"`

	// Spawns closer than NearDistance get NearFactor of the rise and drift;
	// beyond FarDistance they get the full amount.
	NearDistance float64 `yaml:"near_distance"`
	FarDistance  float64 `yaml:"far_distance"`
	NearFactor   float64 `yaml:"near_factor"`
}

// DefaultSpawnConfig returns the slow creep-and-stutter tuning.
func DefaultSpawnConfig() SpawnConfig {
	return SpawnConfig{
		Duration:         10.5,
		MinScale:         0.001,
		CreepSplit:       0.5,
		CreepShare:       0.12,
		CreepExponent:    0.6,
		Overshoot:        1.70158,
		ScaleOvershoot:   1.2,
		RiseDepth:        6,
		TwistAmplitude:   0.6,
		DriftDistance:    3.5,
		StutterAmplitude: 0.025,
		StutterFreqA:     23,
		StutterFreqB:     41,
		NearDistance:     10,
		FarDistance:      30,
		NearFactor:       0.35,
	}
}

// BriskSpawnConfig returns the short plain ease-out-back tuning.
func BriskSpawnConfig() SpawnConfig {
	c := DefaultSpawnConfig()
	c.Duration = 3
	c.CreepSplit = 0
	c.CreepShare = 0
	c.StutterAmplitude = 0
	c.TwistAmplitude = 0
	c.ScaleOvershoot = 1.15
	c.RiseDepth = 4
	return c
}

// SpawnOffsets is the transient contribution of a spawn animation. The neutral
// value has Scale 1 and every other field zero.
type SpawnOffsets struct {
	// Scale multiplies the instance's base scale.
	Scale   float64
	Rise    float64
	Twist   float64
	Lateral mathx.Vec2
}

// NeutralSpawn is the settled offset.
var NeutralSpawn = SpawnOffsets{Scale: 1}

// Ease returns the eased progress for normalized time u and the overshoot
// hump, a sine bump over the settle phase that is zero at both ends.
func (c SpawnConfig) Ease(u float64) (eased, hump float64) {
	u = mathx.Clamp01(u)
	split := mathx.Clamp(c.CreepSplit, 0, 0.95)
	share := mathx.Clamp01(c.CreepShare)
	if split <= 0 {
		share = 0
	}
	exp := c.CreepExponent
	if exp <= 0 {
		exp = 1
	}

	if u < split {
		eased = share * math.Pow(u/split, exp)
	} else {
		v := (u - split) / (1 - split)
		eased = share + (1-share)*mathx.EaseOutBack(v, c.Overshoot)
		hump = math.Sin(math.Pi * v)
	}

	if c.StutterAmplitude > 0 {
		env := math.Sin(math.Pi * u)
		eased += c.StutterAmplitude * env * (math.Sin(2*math.Pi*c.StutterFreqA*u) + 0.5*math.Sin(2*math.Pi*c.StutterFreqB*u+1.3))
	}
	return eased, hump
}

// NearScale returns the rise/drift damping for a spawn at distance d.
func (c SpawnConfig) NearScale(d float64) float64 {
	if c.FarDistance <= c.NearDistance {
		return 1
	}
	return mathx.Lerp(c.NearFactor, 1, mathx.Smoothstep(c.NearDistance, c.FarDistance, d))
}

// ComputeSpawnOffsets evaluates inst's spawn animation at now. Once the
// animation has run its course (or was never armed) it returns NeutralSpawn.
func ComputeSpawnOffsets(inst *Instance, now float64, cfg SpawnConfig) SpawnOffsets {
	if inst == nil || inst.Anim.Done(now) {
		return NeutralSpawn
	}
	age := inst.Anim.Age(now)
	if age < 0 {
		age = 0
	}
	u := age / inst.Anim.Duration
	return cfg.offsetsAt(inst, u, age)
}

func (c SpawnConfig) offsetsAt(inst *Instance, u, age float64) SpawnOffsets {
	eased, hump := c.Ease(u)
	near := c.NearScale(inst.SpawnDistance)

	grow := mathx.Clamp(eased, 0, 1)
	scale := mathx.Lerp(c.MinScale, 1, grow) * (1 + (c.ScaleOvershoot-1)*hump)
	if scale < c.MinScale {
		scale = c.MinScale
	}

	return SpawnOffsets{
		Scale:   scale,
		Rise:    -c.RiseDepth * (1 - eased) * near,
		Twist:   c.TwistAmplitude * math.Sin(math.Pi*u) * math.Sin(inst.SpinPhase+inst.SpinSpeed*age),
		Lateral: inst.Radial.Scale(c.DriftDistance * (1 - u) * near),
	}
}
