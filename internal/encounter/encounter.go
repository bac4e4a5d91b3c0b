// Package encounter drives the single roaming presence: a dormant/active state
// machine gated by a cooldown and a focus-weighted per-second trigger rate,
// reporting a continuous threat level derived from distance.
package encounter

import (
	"math"

	"github.com/golang/geo/r3"

	"nightwalk/internal/mathx"
)

// Source is the randomness the machine draws from. *core.RNG satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Phase enumerates the presence states.
type Phase uint8

const (
	// Dormant is the initial phase; the cooldown runs and triggers are rolled.
	Dormant Phase = iota
	// Active means the presence is in the world near the player.
	Active
)

func (p Phase) String() string {
	switch p {
	case Dormant:
		return "dormant"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// EndReason records why an activation ended.
type EndReason uint8

const (
	EndNone EndReason = iota
	// EndTimeout means the active window ran out.
	EndTimeout
	// EndCaught means the player closed to within the catch radius.
	EndCaught
	// EndDismissed means the presence was removed by an explicit call.
	EndDismissed
)

func (r EndReason) String() string {
	switch r {
	case EndTimeout:
		return "timeout"
	case EndCaught:
		return "caught"
	case EndDismissed:
		return "dismissed"
	default:
		return "none"
	}
}

// Config tunes trigger odds, timing and spawn geometry.
type Config struct {
	// BaseChance and FocusWeight form the per-second trigger rate
	// BaseChance + (1-focus)*FocusWeight.
	BaseChance  float64 `yaml:"base_chance"`
	FocusWeight float64 `yaml:"focus_weight"`

	InitialCooldown float64 `yaml:"initial_cooldown"`
	CooldownMin     float64 `yaml:"cooldown_min"`
	CooldownMax     float64 `yaml:"cooldown_max"`
	ActiveMin       float64 `yaml:"active_min"`
	ActiveMax       float64 `yaml:"active_max"`

	SpawnRadiusMin float64 `yaml:"spawn_radius_min"`
	SpawnRadiusMax float64 `yaml:"spawn_radius_max"`
	SideAngleMin   float64 `yaml:"side_angle_min"`
	SideAngleMax   float64 `yaml:"side_angle_max"`
	Height         float64 `yaml:"height"`
	HeightJitter   float64 `yaml:"height_jitter"`

	ThreatRadius float64 `yaml:"threat_radius"`
	CatchRadius  float64 `yaml:"catch_radius"`

	Phrases []string `yaml:"phrases"`
}

// DefaultPhrases is the whisper pool.
var DefaultPhrases = []string{
	"don't look back",
	"it knows your name",
	"you were here before",
	"keep walking",
	"the trees are closer now",
	"it's right behind you",
	"nobody is coming",
	"stay on the path",
	"why did you stop",
	"it followed you in",
}

// DefaultConfig returns the standard encounter tuning.
func DefaultConfig() Config {
	return Config{
		BaseChance:      0.04,
		FocusWeight:     0.22,
		InitialCooldown: 12,
		CooldownMin:     10,
		CooldownMax:     25,
		ActiveMin:       3,
		ActiveMax:       6,
		SpawnRadiusMin:  5,
		SpawnRadiusMax:  15,
		SideAngleMin:    0.9,
		SideAngleMax:    1.3,
		Height:          0,
		HeightJitter:    0.25,
		ThreatRadius:    16,
		CatchRadius:     1.2,
		Phrases:         append([]string(nil), DefaultPhrases...),
	}
}

// Normalize repairs inverted ranges and negative values in place.
func (c *Config) Normalize() {
	orderRange(&c.CooldownMin, &c.CooldownMax)
	orderRange(&c.ActiveMin, &c.ActiveMax)
	orderRange(&c.SpawnRadiusMin, &c.SpawnRadiusMax)
	orderRange(&c.SideAngleMin, &c.SideAngleMax)
	if c.BaseChance < 0 {
		c.BaseChance = 0
	}
	if c.FocusWeight < 0 {
		c.FocusWeight = 0
	}
	if c.CatchRadius < 0 {
		c.CatchRadius = 0
	}
}

// Rate returns the per-second trigger rate at the given focus.
func (c Config) Rate(focus float64) float64 {
	return c.BaseChance + (1-mathx.Clamp01(focus))*c.FocusWeight
}

// Threat maps a distance onto [0, 1]: 1 on top of the player, 0 at and beyond
// ThreatRadius.
func (c Config) Threat(distance float64) float64 {
	if c.ThreatRadius <= 0 {
		return 0
	}
	return mathx.Clamp01(1 - distance/c.ThreatRadius)
}

func orderRange(lo, hi *float64) {
	if *lo < 0 {
		*lo = 0
	}
	if *hi < *lo {
		*lo, *hi = *hi, *lo
		if *lo < 0 {
			*lo = 0
		}
	}
}

// State is the presence's full mutable state.
type State struct {
	Phase               Phase
	CooldownRemaining   float64
	ActiveTimeRemaining float64
	Position            r3.Vector
	// Yaw turns the presence toward the player while active.
	Yaw         float64
	Distance    float64
	LastMessage string
	Activations int
	Catches     int
}

// Result is what one Update reports downstream.
type Result struct {
	Threat float64
	// Whisper is non-empty only on the tick the presence appears.
	Whisper   string
	Activated bool
	Ended     EndReason
}

// Observer is told about phase changes. It is optional.
type Observer interface {
	EncounterStarted(s State)
	EncounterEnded(s State, reason EndReason)
}

// Machine owns the one presence. There is never more than one.
type Machine struct {
	cfg      Config
	state    State
	observer Observer
}

// New returns a dormant machine with the initial cooldown armed.
func New(cfg Config) *Machine {
	cfg.Normalize()
	return &Machine{cfg: cfg, state: State{Phase: Dormant, CooldownRemaining: cfg.InitialCooldown}}
}

// SetObserver installs o; nil removes it.
func (m *Machine) SetObserver(o Observer) { m.observer = o }

// Config returns the active configuration.
func (m *Machine) Config() Config { return m.cfg }

// SetConfig swaps tunables without disturbing the current state.
func (m *Machine) SetConfig(cfg Config) {
	cfg.Normalize()
	m.cfg = cfg
}

// State returns a copy of the current state.
func (m *Machine) State() State { return m.state }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.state.Phase }

// SetCooldown overrides the remaining cooldown (clamped at 0).
func (m *Machine) SetCooldown(v float64) {
	if !mathx.Finite(v) || v < 0 {
		v = 0
	}
	m.state.CooldownRemaining = v
}

// Reset returns the machine to its initial dormant state.
func (m *Machine) Reset() {
	m.state = State{Phase: Dormant, CooldownRemaining: m.cfg.InitialCooldown}
}

// Update advances the machine by dt. player is the camera position and yaw its
// facing (0 looks down -z). focus is the current focus in [0, 1].
func (m *Machine) Update(dt, focus float64, player r3.Vector, yaw float64, rng Source) Result {
	dt = mathx.SanitizeDelta(dt, 0)
	switch m.state.Phase {
	case Dormant:
		m.state.CooldownRemaining -= dt
		if m.state.CooldownRemaining > 0 {
			return Result{}
		}
		m.state.CooldownRemaining = 0
		p := m.cfg.Rate(focus) * dt
		if p <= 0 || rng.Float64() >= p {
			return Result{}
		}
		whisper := m.activate(player, yaw, rng)
		res := m.track(player)
		res.Activated = true
		res.Whisper = whisper
		return res
	case Active:
		m.state.ActiveTimeRemaining -= dt
		res := m.track(player)
		switch {
		case m.state.Distance < m.cfg.CatchRadius:
			m.state.Catches++
			m.end(EndCaught)
			res.Ended = EndCaught
		case m.state.ActiveTimeRemaining <= 0:
			m.end(EndTimeout)
			res.Ended = EndTimeout
		}
		return res
	}
	return Result{}
}

// Trigger forces an activation regardless of cooldown, returning the whisper.
// It does nothing while already active.
func (m *Machine) Trigger(player r3.Vector, yaw float64, rng Source) (string, bool) {
	if m.state.Phase == Active {
		return "", false
	}
	return m.activate(player, yaw, rng), true
}

// Dismiss ends an active presence immediately.
func (m *Machine) Dismiss() bool {
	if m.state.Phase != Active {
		return false
	}
	m.end(EndDismissed)
	return true
}

func (m *Machine) activate(player r3.Vector, yaw float64, rng Source) string {
	cfg := m.cfg
	s := &m.state
	s.Phase = Active
	s.Activations++
	s.ActiveTimeRemaining = between(rng, cfg.ActiveMin, cfg.ActiveMax)
	s.CooldownRemaining = between(rng, cfg.CooldownMin, cfg.CooldownMax)

	radius := between(rng, cfg.SpawnRadiusMin, cfg.SpawnRadiusMax)
	side := 1.0
	if rng.Float64() < 0.5 {
		side = -1
	}
	angle := yaw + side*between(rng, cfg.SideAngleMin, cfg.SideAngleMax)
	// Facing yaw 0 looks down -z, so the forward vector is (-sin, -cos).
	s.Position = r3.Vector{
		X: player.X - math.Sin(angle)*radius,
		Y: cfg.Height + (rng.Float64()*2-1)*cfg.HeightJitter,
		Z: player.Z - math.Cos(angle)*radius,
	}

	s.LastMessage = ""
	if n := len(cfg.Phrases); n > 0 {
		s.LastMessage = cfg.Phrases[rng.IntN(n)]
	}
	if m.observer != nil {
		m.observer.EncounterStarted(*s)
	}
	return s.LastMessage
}

func (m *Machine) track(player r3.Vector) Result {
	s := &m.state
	dx := player.X - s.Position.X
	dz := player.Z - s.Position.Z
	s.Yaw = math.Atan2(dx, dz)
	s.Distance = math.Hypot(dx, dz)
	return Result{Threat: m.cfg.Threat(s.Distance)}
}

func (m *Machine) end(reason EndReason) {
	m.state.Phase = Dormant
	m.state.ActiveTimeRemaining = 0
	if m.observer != nil {
		m.observer.EncounterEnded(m.state, reason)
	}
}

func between(rng Source, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
