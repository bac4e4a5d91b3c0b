// Package sim ties the recycled forest, the encounter and the feedback loop
// into one tick-driven simulation. All mutable state lives on Simulation; a
// tick never blocks and never fails.
package sim

import (
	"log/slog"
	"math"
	"time"

	"github.com/golang/geo/r3"

	"nightwalk/internal/core"
	"nightwalk/internal/encounter"
	"nightwalk/internal/feedback"
	"nightwalk/internal/mathx"
	"nightwalk/internal/world"
	pkgcore "nightwalk/pkg/core"
)

const maxPitch = 1.45

// Input is what the input collaborator hands over once per tick.
type Input struct {
	// Move is in the player's frame: X strafes right, Z walks forward. Vectors
	// longer than one are clamped.
	Move   mathx.Vec2
	Sprint bool
	// Yaw and Pitch are absolute look angles. Yaw 0 looks down -z.
	Yaw   float64
	Pitch float64
	// ToggleFlashlight flips the flashlight once for this tick.
	ToggleFlashlight bool
}

// Player is the walker's state.
type Player struct {
	Position            r3.Vector
	Yaw                 float64
	Pitch               float64
	FlashlightOn        bool
	TotalDistanceMeters float64
}

// Planar returns the ground-plane position.
func (p Player) Planar() mathx.Vec2 {
	return mathx.Vec2{X: p.Position.X, Z: p.Position.Z}
}

// Presence is the renderer's view of the encounter entity.
type Presence struct {
	Visible  bool
	Position r3.Vector
	Yaw      float64
	// Attention drives an emissive cue; it equals the threat while visible.
	Attention float64
}

// Frame is everything produced by one tick. Slices are owned by the
// simulation and stay valid only until the next tick.
type Frame struct {
	Time float64
	Dt   float64

	Player     Player
	Trees      []world.Transform
	Tiles      []mathx.Vec2
	Mist       []world.MistSample
	Atmosphere world.Atmosphere
	Presence   Presence
	Recycled   int

	Threat    float64
	Focus     float64
	Whisper   string
	Activated bool
	Ended     encounter.EndReason
	Bob       feedback.Bob
	Audio     feedback.AudioLevels
}

// Options carries optional collaborators.
type Options struct {
	// Logger receives debug records for encounter transitions.
	Logger *slog.Logger
	// RNG overrides the generator seeded from Config.Seed.
	RNG *pkgcore.RNG
	// Now stamps session snapshots; defaults to time.Now.
	Now func() time.Time
}

// Simulation is the whole per-session state.
type Simulation struct {
	cfg  Config
	opts Options
	seed int64
	rng  *pkgcore.RNG

	now    float64
	player Player

	pool    *world.Pool
	tiles   *world.TileGrid
	mist    *world.MistField
	machine *encounter.Machine
	loop    *feedback.Loop

	input          Input
	pendingWhisper string

	trees []world.Transform
	frame Frame

	radar      *core.ByteGrid
	radarDirty bool
}

// New builds a simulation with every instance scattered around the origin.
func New(cfg Config, opts Options) *Simulation {
	cfg.Normalize()
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Simulation{
		cfg:     cfg,
		opts:    opts,
		seed:    cfg.Seed,
		rng:     opts.RNG,
		machine: encounter.New(cfg.Encounter),
		radar:   core.NewByteGrid(cfg.Radar.Width, cfg.Radar.Height),
	}
	if s.rng == nil {
		s.rng = pkgcore.NewRNG(cfg.Seed)
	}
	if opts.Logger != nil {
		s.machine.SetObserver(logObserver{log: opts.Logger})
	}
	s.build()
	return s
}

// Name returns the simulation identifier.
func (s *Simulation) Name() string { return "nightwalk" }

// Size reports the radar raster dimensions.
func (s *Simulation) Size() core.Size { return core.Size{W: s.radar.W, H: s.radar.H} }

// Reset rebuilds the session from seed; zero falls back to Config.Seed.
func (s *Simulation) Reset(seed int64) {
	if seed == 0 {
		seed = s.cfg.Seed
	}
	s.seed = seed
	s.rng.Reseed(seed)
	s.build()
}

// SetInput stores the input consumed by the next Step.
func (s *Simulation) SetInput(in Input) { s.input = in }

// Step advances by dt using the input from SetInput. One-shot toggles are
// consumed.
func (s *Simulation) Step(dt float64) {
	s.Tick(dt, s.input)
	s.input.ToggleFlashlight = false
}

// Cells returns the radar raster, redrawn lazily after each tick.
func (s *Simulation) Cells() []uint8 {
	if s.radarDirty {
		s.rasterize()
		s.radarDirty = false
	}
	return s.radar.Cells()
}

// Config returns the active configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Seed returns the seed of the current session.
func (s *Simulation) Seed() int64 { return s.seed }

// Time returns the simulation clock in seconds.
func (s *Simulation) Time() float64 { return s.now }

// Player returns the walker's state.
func (s *Simulation) Player() Player { return s.player }

// Focus returns the current focus.
func (s *Simulation) Focus() float64 { return s.loop.Focus() }

// Frame returns the most recent tick's output.
func (s *Simulation) Frame() Frame { return s.frame }

// Encounter returns a copy of the encounter state.
func (s *Simulation) Encounter() encounter.State { return s.machine.State() }

// Instances exposes the tree pool. Callers must not modify it.
func (s *Simulation) Instances() []world.Instance { return s.pool.Instances() }

// Tick advances the whole simulation by dt. The order is fixed: clock and
// player, recycling, animation, encounter, focus, then presentation.
func (s *Simulation) Tick(dt float64, in Input) Frame {
	dt = mathx.SanitizeDelta(dt, s.cfg.MaxDelta)

	s.now += dt
	mv := s.move(dt, in)
	planar := s.player.Planar()

	recycled := s.pool.Recycle(planar, s.now, s.cfg.Spawn.Duration, s.rng)
	s.trees = s.pool.Animate(s.now, planar, s.cfg.Spawn, s.cfg.Ambient, s.trees)

	res := s.machine.Update(dt, s.loop.Focus(), s.player.Position, s.player.Yaw, s.rng)
	whisper := res.Whisper
	if whisper == "" {
		whisper = s.pendingWhisper
	}
	s.pendingWhisper = ""

	sig := s.loop.Update(dt, res.Threat, whisper, mv)

	st := s.machine.State()
	presence := Presence{Visible: st.Phase == encounter.Active}
	if presence.Visible {
		presence.Position = st.Position
		presence.Yaw = st.Yaw
		presence.Attention = res.Threat
	}

	s.frame = Frame{
		Time:       s.now,
		Dt:         dt,
		Player:     s.player,
		Trees:      s.trees,
		Tiles:      s.tiles.Layout(planar),
		Mist:       s.mist.Sample(s.now, planar),
		Atmosphere: world.ComputeAtmosphere(s.now, s.cfg.Ambient),
		Presence:   presence,
		Recycled:   recycled,
		Threat:     sig.Threat,
		Focus:      sig.Focus,
		Whisper:    sig.Whisper,
		Activated:  res.Activated,
		Ended:      res.Ended,
		Bob:        sig.Bob,
		Audio:      sig.Audio,
	}
	s.radarDirty = true
	return s.frame
}

// TriggerEncounter forces the presence to appear now. Its whisper is shown on
// the next tick.
func (s *Simulation) TriggerEncounter() bool {
	whisper, ok := s.machine.Trigger(s.player.Position, s.player.Yaw, s.rng)
	if ok {
		s.pendingWhisper = whisper
	}
	return ok
}

// DismissEncounter ends an active presence.
func (s *Simulation) DismissEncounter() bool { return s.machine.Dismiss() }

func (s *Simulation) move(dt float64, in Input) feedback.Movement {
	if mathx.Finite(in.Yaw) {
		s.player.Yaw = mathx.WrapAngle(in.Yaw)
	}
	if mathx.Finite(in.Pitch) {
		s.player.Pitch = mathx.Clamp(in.Pitch, -maxPitch, maxPitch)
	}
	if in.ToggleFlashlight {
		s.player.FlashlightOn = !s.player.FlashlightOn
	}

	dir := in.Move
	if !mathx.Finite(dir.X) || !mathx.Finite(dir.Z) {
		dir = mathx.Vec2{}
	}
	dir = dir.ClampLen(1)
	intensity := dir.Len()
	sprint := in.Sprint && intensity > 0
	speed := s.cfg.Player.WalkSpeed
	if sprint {
		speed = s.cfg.Player.SprintSpeed
	}

	yaw := s.player.Yaw
	forward := mathx.Vec2{X: -math.Sin(yaw), Z: -math.Cos(yaw)}
	right := mathx.Vec2{X: math.Cos(yaw), Z: -math.Sin(yaw)}
	step := right.Scale(dir.X).Add(forward.Scale(dir.Z)).Scale(speed * dt)
	s.player.Position.X += step.X
	s.player.Position.Z += step.Z
	s.player.TotalDistanceMeters += step.Len()

	return feedback.Movement{Intensity: intensity, Sprint: sprint}
}

func (s *Simulation) build() {
	s.now = 0
	s.player = Player{Position: r3.Vector{Y: s.cfg.Player.EyeHeight}}
	s.input = Input{}
	s.pendingWhisper = ""
	s.rebuildPool()
	s.tiles = world.NewTileGrid(s.cfg.Tiles)
	s.mist = world.NewMistField(s.cfg.Mist, s.rng)
	s.machine.Reset()
	s.loop = feedback.NewLoop(s.cfg.Feedback)
	s.Tick(0, Input{})
}

func (s *Simulation) rebuildPool() {
	s.pool = world.NewPool(s.cfg.Trees, s.cfg.Recycler, s.rng)
	s.pool.Scatter(s.player.Planar(), s.rng)
	s.trees = s.trees[:0]
	s.radarDirty = true
}

func (s *Simulation) applyConfig(cfg Config) {
	cfg.Normalize()
	s.cfg = cfg
	s.machine.SetConfig(cfg.Encounter)
	s.loop.SetConfig(cfg.Feedback)
}

type logObserver struct {
	log *slog.Logger
}

func (o logObserver) EncounterStarted(st encounter.State) {
	o.log.Debug("encounter started",
		"x", st.Position.X,
		"z", st.Position.Z,
		"active_for", st.ActiveTimeRemaining,
		"next_cooldown", st.CooldownRemaining,
		"whisper", st.LastMessage,
	)
}

func (o logObserver) EncounterEnded(st encounter.State, reason encounter.EndReason) {
	o.log.Debug("encounter ended",
		"reason", reason.String(),
		"distance", st.Distance,
		"activations", st.Activations,
		"catches", st.Catches,
	)
}
