package world

import (
	"math"

	"nightwalk/internal/mathx"
)

// RecyclerConfig tunes anchor reassignment for one pool.
type RecyclerConfig struct {
	// MaxDistance is the horizon: anchors farther than this from the player
	// are reassigned.
	MaxDistance float64 `yaml:"max_distance"`
	MinRadius   float64 `yaml:"min_radius"`
	MaxRadius   float64 `yaml:"max_radius"`
	// ScatterRadius is the inner radius used when the pool is first laid out.
	ScatterRadius float64 `yaml:"scatter_radius"`
	MinSpacing    float64 `yaml:"min_spacing"`
	MaxAttempts   int     `yaml:"max_attempts"`
	AngleJitter   float64 `yaml:"angle_jitter"`
	YawSway       float64 `yaml:"yaw_sway"`

	ScaleMin     float64 `yaml:"scale_min"`
	ScaleMax     float64 `yaml:"scale_max"`
	SpinSpeedMin float64 `yaml:"spin_speed_min"`
	SpinSpeedMax float64 `yaml:"spin_speed_max"`
	HeightJitter float64 `yaml:"height_jitter"`
}

// DefaultRecyclerConfig returns the tree pool tuning.
func DefaultRecyclerConfig() RecyclerConfig {
	return RecyclerConfig{
		MaxDistance:   42,
		MinRadius:     6,
		MaxRadius:     40,
		ScatterRadius: 2,
		MinSpacing:    2.6,
		MaxAttempts:   7,
		AngleJitter:   0.3,
		YawSway:       0.35,
		ScaleMin:      0.8,
		ScaleMax:      1.35,
		SpinSpeedMin:  0.6,
		SpinSpeedMax:  1.6,
		HeightJitter:  0.12,
	}
}

// Normalize repairs inverted or negative ranges in place.
func (c *RecyclerConfig) Normalize() {
	if c.MinRadius < 0 {
		c.MinRadius = 0
	}
	if c.MaxRadius < c.MinRadius {
		c.MinRadius, c.MaxRadius = c.MaxRadius, c.MinRadius
	}
	if c.MaxDistance > 0 && c.MaxRadius > c.MaxDistance {
		c.MaxRadius = c.MaxDistance
		if c.MinRadius > c.MaxRadius {
			c.MinRadius = c.MaxRadius
		}
	}
	if c.ScatterRadius < 0 || c.ScatterRadius > c.MaxRadius {
		c.ScatterRadius = 0
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.MinSpacing < 0 {
		c.MinSpacing = 0
	}
	if c.ScaleMax < c.ScaleMin {
		c.ScaleMin, c.ScaleMax = c.ScaleMax, c.ScaleMin
	}
	if c.SpinSpeedMax < c.SpinSpeedMin {
		c.SpinSpeedMin, c.SpinSpeedMax = c.SpinSpeedMax, c.SpinSpeedMin
	}
}

// OutOfRange reports whether anchor is beyond the horizon around player.
func (c RecyclerConfig) OutOfRange(anchor, player mathx.Vec2) bool {
	return anchor.Dist2(player) > c.MaxDistance*c.MaxDistance
}

// SampleRadius maps a uniform draw onto the reassignment band. The floor at 35%
// of the band keeps fresh anchors out of the player's immediate vicinity while
// the 0.8 exponent pushes mass toward the outer edge.
func (c RecyclerConfig) SampleRadius(u float64) float64 {
	return c.MinRadius + (c.MaxRadius-c.MinRadius)*(0.35+0.65*math.Pow(u, 0.8))
}

// Reposition reassigns inst's anchor when it has drifted beyond the horizon.
// index seeds the golden-angle base direction; all is the pool used for the
// spacing check (inst itself is skipped). It reports whether a reassignment
// happened, in which case a spawn animation starting at now is armed.
func Reposition(inst *Instance, player mathx.Vec2, index int, all []Instance, now float64, cfg RecyclerConfig, spawnDuration float64, rng Source) bool {
	if inst == nil || cfg.MaxDistance <= 0 {
		return false
	}
	if !cfg.OutOfRange(inst.Anchor, player) {
		return false
	}

	anchor, radius := pickAnchor(player, index, all, cfg, rng, cfg.SampleRadius)
	place(inst, player, anchor, radius, index, cfg)
	inst.Anim = SpawnAnim{Start: now, Duration: spawnDuration, Active: spawnDuration > 0}
	return true
}

func pickAnchor(player mathx.Vec2, index int, all []Instance, cfg RecyclerConfig, rng Source, radiusFn func(float64) float64) (mathx.Vec2, float64) {
	base := float64(index) * mathx.GoldenAngle
	spacing2 := cfg.MinSpacing * cfg.MinSpacing
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var candidate mathx.Vec2
	var radius float64
	for attempt := 0; attempt < attempts; attempt++ {
		angle := base + (rng.Float64()*2-1)*cfg.AngleJitter
		radius = radiusFn(rng.Float64())
		candidate = player.Add(mathx.Polar(angle, radius))
		if spacing2 <= 0 || spacingOK(candidate, index, all, spacing2) {
			return candidate, radius
		}
	}
	// Spacing is best effort: the last candidate stands.
	return candidate, radius
}

func spacingOK(candidate mathx.Vec2, self int, all []Instance, spacing2 float64) bool {
	for i := range all {
		if i == self {
			continue
		}
		if all[i].Anchor.Dist2(candidate) < spacing2 {
			return false
		}
	}
	return true
}

func place(inst *Instance, player, anchor mathx.Vec2, radius float64, index int, cfg RecyclerConfig) {
	inst.Anchor = anchor
	inst.SpawnDistance = radius
	inst.Radial = anchor.Sub(player).Normalize()
	inst.Generation++
	sway := cfg.YawSway * math.Sin(float64(index)*1.7+float64(inst.Generation)*0.61)
	inst.Yaw = mathx.WrapAngle(inst.Radial.Heading() + sway)
}

// Pool is a fixed-size set of recyclable instances stored contiguously.
type Pool struct {
	cfg   RecyclerConfig
	items []Instance

	reassigned int
}

// NewPool allocates size instances with per-instance random parameters. The
// instances start unplaced; call Scatter to lay them out.
func NewPool(size int, cfg RecyclerConfig, rng Source) *Pool {
	if size < 0 {
		size = 0
	}
	cfg.Normalize()
	p := &Pool{cfg: cfg, items: make([]Instance, size)}
	for i := range p.items {
		inst := &p.items[i]
		inst.ID = i
		inst.BaseScale = randRange(rng, cfg.ScaleMin, cfg.ScaleMax)
		inst.SpinPhase = rng.Float64() * 2 * math.Pi
		inst.SpinSpeed = randRange(rng, cfg.SpinSpeedMin, cfg.SpinSpeedMax)
		inst.BaseHeight = (rng.Float64()*2 - 1) * cfg.HeightJitter
	}
	return p
}

// Config returns the pool's recycler configuration.
func (p *Pool) Config() RecyclerConfig { return p.cfg }

// Len returns the fixed pool size.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// Instances exposes the backing slice; callers must not append to it.
func (p *Pool) Instances() []Instance {
	if p == nil {
		return nil
	}
	return p.items
}

// At returns the instance in slot i.
func (p *Pool) At(i int) *Instance { return &p.items[i] }

// Reassigned returns the total number of reassignments since construction.
func (p *Pool) Reassigned() int { return p.reassigned }

// Scatter lays every instance out around player with area-uniform density and
// no spawn animation.
func (p *Pool) Scatter(player mathx.Vec2, rng Source) {
	if p == nil || len(p.items) == 0 || p.cfg.MaxRadius <= 0 {
		return
	}
	inner := p.cfg.ScatterRadius
	outer := p.cfg.MaxRadius
	radiusFn := func(u float64) float64 {
		return math.Sqrt(inner*inner + (outer*outer-inner*inner)*u)
	}
	for i := range p.items {
		inst := &p.items[i]
		// Park unplaced instances far away so they never block spacing.
		inst.Anchor = mathx.Vec2{X: math.Inf(1), Z: math.Inf(1)}
	}
	for i := range p.items {
		inst := &p.items[i]
		anchor, radius := pickAnchor(player, i, p.items, p.cfg, rng, radiusFn)
		place(inst, player, anchor, radius, i, p.cfg)
		inst.Anim = SpawnAnim{}
	}
}

// Recycle runs Reposition over every instance against player and returns how
// many were reassigned this call.
func (p *Pool) Recycle(player mathx.Vec2, now, spawnDuration float64, rng Source) int {
	if p == nil || len(p.items) == 0 {
		return 0
	}
	n := 0
	for i := range p.items {
		if Reposition(&p.items[i], player, i, p.items, now, p.cfg, spawnDuration, rng) {
			n++
		}
	}
	p.reassigned += n
	return n
}

// Animate resolves every instance's transform at now and writes them into
// out (grown as needed). Finished spawn animations are retired.
func (p *Pool) Animate(now float64, player mathx.Vec2, spawn SpawnConfig, ambient AmbientConfig, out []Transform) []Transform {
	out = out[:0]
	if p == nil {
		return out
	}
	for i := range p.items {
		inst := &p.items[i]
		so := ComputeSpawnOffsets(inst, now, spawn)
		if inst.Anim.Active && inst.Anim.Done(now) {
			inst.Anim.Active = false
		}
		ao := ComputeAmbientOffsets(inst, now, i, player, ambient)
		inst.Transform = Resolve(inst, so, ao)
		out = append(out, inst.Transform)
	}
	return out
}
