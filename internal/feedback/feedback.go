// Package feedback turns the encounter's threat and the player's movement into
// the focus resource and the smoothed presentation signals (head bob, audio
// levels, whisper display).
package feedback

import (
	"math"

	"nightwalk/internal/mathx"
)

// Config tunes focus dynamics and presentation mapping.
type Config struct {
	// Threat above ActivationThreshold drains focus; anything at or below
	// lets it regenerate.
	ActivationThreshold float64 `yaml:"activation_threshold"`
	BaseDrain           float64 `yaml:"base_drain"`
	ThreatDrainFactor   float64 `yaml:"threat_drain_factor"`
	RegenRate           float64 `yaml:"regen_rate"`

	WhisperDuration float64 `yaml:"whisper_duration"`

	Bob   BobConfig   `yaml:"bob"`
	Audio AudioConfig `yaml:"audio"`
}

// BobConfig tunes the camera head bob.
type BobConfig struct {
	WalkAmplitude   float64 `yaml:"walk_amplitude"`
	SprintAmplitude float64 `yaml:"sprint_amplitude"`
	WalkFrequency   float64 `yaml:"walk_frequency"`
	SprintFrequency float64 `yaml:"sprint_frequency"`
	// Ramp is the time constant for amplitude changes.
	Ramp float64 `yaml:"ramp"`
}

// AudioConfig maps (threat, focus) onto ambience levels.
type AudioConfig struct {
	RumbleBase   float64 `yaml:"rumble_base"`
	RumbleThreat float64 `yaml:"rumble_threat"`
	HissBase     float64 `yaml:"hiss_base"`
	HissFocus    float64 `yaml:"hiss_focus"`
	HissThreat   float64 `yaml:"hiss_threat"`
	OscBaseHz    float64 `yaml:"osc_base_hz"`
	OscThreatHz  float64 `yaml:"osc_threat_hz"`
	OscFocusHz   float64 `yaml:"osc_focus_hz"`
	// Ramp is the time constant every level follows its target with.
	Ramp float64 `yaml:"ramp"`
}

// DefaultConfig returns the standard feedback tuning.
func DefaultConfig() Config {
	return Config{
		ActivationThreshold: 0.1,
		BaseDrain:           0.05,
		ThreatDrainFactor:   0.35,
		RegenRate:           0.04,
		WhisperDuration:     2.2,
		Bob: BobConfig{
			WalkAmplitude:   0.035,
			SprintAmplitude: 0.065,
			WalkFrequency:   1.9,
			SprintFrequency: 2.8,
			Ramp:            0.15,
		},
		Audio: AudioConfig{
			RumbleBase:   0.12,
			RumbleThreat: 0.65,
			HissBase:     0.04,
			HissFocus:    0.22,
			HissThreat:   0.3,
			OscBaseHz:    42,
			OscThreatHz:  26,
			OscFocusHz:   -8,
			Ramp:         0.35,
		},
	}
}

// StepFocus advances focus by dt under threat. The result is always in [0, 1].
func StepFocus(focus, threat, dt float64, cfg Config) float64 {
	focus = mathx.Clamp01(focus)
	threat = mathx.Clamp01(threat)
	dt = mathx.SanitizeDelta(dt, 0)
	if threat > cfg.ActivationThreshold {
		return mathx.Clamp01(focus - (cfg.BaseDrain+threat*cfg.ThreatDrainFactor)*dt)
	}
	return mathx.Clamp01(focus + cfg.RegenRate*dt)
}

// Movement is the input collaborator's per-tick movement summary.
type Movement struct {
	// Intensity is the length of the normalized movement vector, in [0, 1].
	Intensity float64
	Sprint    bool
}

// Bob is the camera head-bob state.
type Bob struct {
	Offset    float64
	Sway      float64
	Amplitude float64
	Frequency float64
	Phase     float64
}

// AudioLevels is what the audio collaborator consumes.
type AudioLevels struct {
	Rumble       float64
	Hiss         float64
	OscillatorHz float64
}

// Targets returns the levels the ramps head toward for (threat, focus).
func (c AudioConfig) Targets(threat, focus float64) AudioLevels {
	threat = mathx.Clamp01(threat)
	focus = mathx.Clamp01(focus)
	return AudioLevels{
		Rumble:       mathx.Clamp01(c.RumbleBase + threat*c.RumbleThreat),
		Hiss:         mathx.Clamp01(c.HissBase + (1-focus)*c.HissFocus + threat*c.HissThreat),
		OscillatorHz: math.Max(1, c.OscBaseHz+threat*c.OscThreatHz+(1-focus)*c.OscFocusHz),
	}
}

// Signals is the per-tick presentation output.
type Signals struct {
	Focus   float64
	Threat  float64
	Bob     Bob
	Audio   AudioLevels
	Whisper string
}

// Loop holds the focus resource and all smoothed presentation state.
type Loop struct {
	cfg Config

	focus float64
	bob   Bob
	audio AudioLevels

	whisper    string
	whisperTTL float64
}

// NewLoop starts at full focus with audio settled at its calm targets.
func NewLoop(cfg Config) *Loop {
	return &Loop{
		cfg:   cfg,
		focus: 1,
		audio: cfg.Audio.Targets(0, 1),
	}
}

// Config returns the active configuration.
func (l *Loop) Config() Config { return l.cfg }

// SetConfig swaps tunables without disturbing state.
func (l *Loop) SetConfig(cfg Config) { l.cfg = cfg }

// Focus returns the current focus.
func (l *Loop) Focus() float64 { return l.focus }

// SetFocus overrides focus, clamped to [0, 1].
func (l *Loop) SetFocus(v float64) { l.focus = mathx.Clamp01(v) }

// Whisper returns the text currently on display, if any.
func (l *Loop) Whisper() string { return l.whisper }

// Update consumes this tick's threat and whisper and returns the presentation
// signals. A non-empty whisper replaces whatever is shown and restarts the
// display timer.
func (l *Loop) Update(dt, threat float64, whisper string, mv Movement) Signals {
	dt = mathx.SanitizeDelta(dt, 0)
	threat = mathx.Clamp01(threat)

	l.focus = StepFocus(l.focus, threat, dt, l.cfg)
	l.stepBob(dt, mv)
	l.stepAudio(dt, threat)
	l.stepWhisper(dt, whisper)

	return Signals{
		Focus:   l.focus,
		Threat:  threat,
		Bob:     l.bob,
		Audio:   l.audio,
		Whisper: l.whisper,
	}
}

func (l *Loop) stepBob(dt float64, mv Movement) {
	cfg := l.cfg.Bob
	intensity := mathx.Clamp01(mv.Intensity)
	amp, freq := cfg.WalkAmplitude, cfg.WalkFrequency
	if mv.Sprint {
		amp, freq = cfg.SprintAmplitude, cfg.SprintFrequency
	}
	l.bob.Amplitude = mathx.Approach(l.bob.Amplitude, amp*intensity, dt, cfg.Ramp)
	l.bob.Frequency = freq
	if intensity > 0 {
		l.bob.Phase = math.Mod(l.bob.Phase+2*math.Pi*freq*dt, 4*math.Pi)
	}
	l.bob.Offset = l.bob.Amplitude * math.Sin(l.bob.Phase)
	l.bob.Sway = 0.5 * l.bob.Amplitude * math.Sin(l.bob.Phase/2)
}

func (l *Loop) stepAudio(dt, threat float64) {
	tau := l.cfg.Audio.Ramp
	target := l.cfg.Audio.Targets(threat, l.focus)
	l.audio.Rumble = mathx.Approach(l.audio.Rumble, target.Rumble, dt, tau)
	l.audio.Hiss = mathx.Approach(l.audio.Hiss, target.Hiss, dt, tau)
	l.audio.OscillatorHz = mathx.Approach(l.audio.OscillatorHz, target.OscillatorHz, dt, tau)
}

func (l *Loop) stepWhisper(dt float64, whisper string) {
	if whisper != "" {
		l.whisper = whisper
		l.whisperTTL = l.cfg.WhisperDuration
		return
	}
	if l.whisperTTL <= 0 {
		return
	}
	l.whisperTTL -= dt
	if l.whisperTTL <= 0 {
		l.whisper = ""
		l.whisperTTL = 0
	}
}
