package encounter

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightwalk/pkg/core"
)

// scriptSource replays draws from a fixed list, repeating the last one.
type scriptSource struct {
	floats []float64
	ints   []int
}

func (s *scriptSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	if len(s.floats) > 1 {
		s.floats = s.floats[1:]
	}
	return v
}

func (s *scriptSource) IntN(n int) int {
	if len(s.ints) == 0 || n <= 0 {
		return 0
	}
	v := s.ints[0]
	if len(s.ints) > 1 {
		s.ints = s.ints[1:]
	}
	return v % n
}

type recorder struct {
	started int
	ended   []EndReason
}

func (r *recorder) EncounterStarted(State) { r.started++ }
func (r *recorder) EncounterEnded(_ State, e EndReason) { r.ended = append(r.ended, e) }

func TestForcedTriggerActivates(t *testing.T) {
	cfg := DefaultConfig()
	m := New(cfg)
	m.SetCooldown(0)

	res := m.Update(0.016, 1, r3.Vector{}, 0, &scriptSource{floats: []float64{0}, ints: []int{3}})

	require.Equal(t, Active, m.Phase())
	assert.True(t, res.Activated)
	assert.Equal(t, cfg.Phrases[3], res.Whisper)
	assert.Contains(t, cfg.Phrases, m.State().LastMessage)
	s := m.State()
	assert.GreaterOrEqual(t, s.ActiveTimeRemaining, cfg.ActiveMin)
	assert.LessOrEqual(t, s.ActiveTimeRemaining, cfg.ActiveMax)
	assert.GreaterOrEqual(t, s.CooldownRemaining, cfg.CooldownMin)
	assert.LessOrEqual(t, s.CooldownRemaining, cfg.CooldownMax)
}

func TestCertainRateTriggersWithSeededRNG(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseChance = 1 / 0.016
	m := New(cfg)
	m.SetCooldown(0)
	rng := core.NewRNG(42)

	res := m.Update(0.016, 1, r3.Vector{X: 3, Z: -4}, 0.7, rng)
	require.True(t, res.Activated)
	assert.NotEmpty(t, res.Whisper)
	s := m.State()
	assert.True(t, s.ActiveTimeRemaining >= 3 && s.ActiveTimeRemaining <= 6)

	d := math.Hypot(s.Position.X-3, s.Position.Z+4)
	assert.GreaterOrEqual(t, d, cfg.SpawnRadiusMin)
	assert.LessOrEqual(t, d, cfg.SpawnRadiusMax)
}

func TestSpawnSitsOffToOneSide(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeightJitter = 0
	for _, side := range []float64{0.1, 0.9} {
		for _, spread := range []float64{0, 0.5, 0.999} {
			m := New(cfg)
			// draws: active, cooldown, radius, side, angle, height
			src := &scriptSource{floats: []float64{0.5, 0.5, 0.5, side, spread, 0.5}}
			m.Trigger(r3.Vector{}, 0, src)
			pos := m.State().Position
			// Yaw 0 looks down -z, so this is the signed angle off straight ahead.
			angle := math.Atan2(-pos.X, -pos.Z)
			if side < 0.5 {
				assert.Less(t, angle, 0.0, "side %v spread %v", side, spread)
			} else {
				assert.Greater(t, angle, 0.0, "side %v spread %v", side, spread)
			}
			assert.GreaterOrEqual(t, math.Abs(angle), cfg.SideAngleMin-1e-9, "side %v spread %v", side, spread)
			assert.LessOrEqual(t, math.Abs(angle), cfg.SideAngleMax+1e-9, "side %v spread %v", side, spread)
		}
	}
}

func TestSidesAreBalanced(t *testing.T) {
	rng := core.NewRNG(9)
	left, right := 0, 0
	for i := 0; i < 400; i++ {
		m := New(DefaultConfig())
		m.Trigger(r3.Vector{}, 0, rng)
		if m.State().Position.X < 0 {
			left++
		} else {
			right++
		}
	}
	assert.InDelta(t, 200, left, 60)
	assert.InDelta(t, 200, right, 60)
}

func TestCatchEndsEncounter(t *testing.T) {
	cfg := DefaultConfig()
	m := New(cfg)
	rec := &recorder{}
	m.SetObserver(rec)
	_, ok := m.Trigger(r3.Vector{}, 0, core.NewRNG(1))
	require.True(t, ok)

	p := m.State().Position
	dir := r3.Vector{X: p.X, Z: p.Z}.Normalize()
	catchThreat := cfg.Threat(cfg.CatchRadius)

	near := p.Sub(dir.Mul(0.5))
	near.Y = 0
	res := m.Update(0.016, 0.5, near, 0, core.NewRNG(1))

	assert.Equal(t, Dormant, m.Phase())
	assert.Equal(t, EndCaught, res.Ended)
	assert.GreaterOrEqual(t, res.Threat, catchThreat)
	assert.InDelta(t, 1-0.5/cfg.ThreatRadius, res.Threat, 1e-9)
	assert.Equal(t, 1, m.State().Catches)
	assert.Equal(t, 1, rec.started)
	assert.Equal(t, []EndReason{EndCaught}, rec.ended)
}

func TestTimeoutEndsEncounter(t *testing.T) {
	m := New(DefaultConfig())
	m.Trigger(r3.Vector{}, 0, core.NewRNG(4))
	remaining := m.State().ActiveTimeRemaining

	ticks := 0
	for m.Phase() == Active {
		res := m.Update(0.05, 1, r3.Vector{}, 0, core.NewRNG(4))
		ticks++
		if m.Phase() == Dormant {
			assert.Equal(t, EndTimeout, res.Ended)
		}
		require.Less(t, ticks, 1000)
	}
	assert.InDelta(t, remaining/0.05, float64(ticks), 1.0)
}

func TestThreatIsMonotonicInDistance(t *testing.T) {
	cfg := DefaultConfig()
	prev := 2.0
	for d := 0.0; d <= 20; d += 0.25 {
		th := cfg.Threat(d)
		assert.GreaterOrEqual(t, th, 0.0)
		assert.LessOrEqual(t, th, 1.0)
		assert.LessOrEqual(t, th, prev)
		prev = th
	}
	assert.Equal(t, 0.0, cfg.Threat(cfg.ThreatRadius))
	assert.Equal(t, 1.0, cfg.Threat(0))
}

func TestActivePresenceFacesPlayer(t *testing.T) {
	m := New(DefaultConfig())
	m.Trigger(r3.Vector{}, 0, core.NewRNG(6))
	player := r3.Vector{X: 0.3, Z: 0.1}
	m.Update(0.016, 1, player, 0, core.NewRNG(6))
	s := m.State()
	want := math.Atan2(player.X-s.Position.X, player.Z-s.Position.Z)
	assert.InDelta(t, want, s.Yaw, 1e-12)
}

func TestCooldownIsMonotonic(t *testing.T) {
	m := New(DefaultConfig())
	rng := core.NewRNG(77)
	prev := m.State().CooldownRemaining
	for i := 0; i < 2000 && m.Phase() == Dormant; i++ {
		m.Update(0.016, 1, r3.Vector{}, 0, rng)
		cur := m.State().CooldownRemaining
		if m.Phase() == Dormant {
			require.LessOrEqual(t, cur, prev)
			require.GreaterOrEqual(t, cur, 0.0)
		}
		prev = cur
	}
}

func TestNoTriggerDuringCooldown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseChance = 1000
	m := New(cfg)
	for i := 0; i < 100; i++ {
		res := m.Update(0.016, 0, r3.Vector{}, 0, &scriptSource{floats: []float64{0}})
		require.False(t, res.Activated)
	}
	assert.Equal(t, Dormant, m.Phase())
}

func TestLowFocusRaisesRate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Greater(t, cfg.Rate(0), cfg.Rate(1))
	assert.InDelta(t, cfg.BaseChance, cfg.Rate(1), 1e-12)
	assert.InDelta(t, cfg.BaseChance+cfg.FocusWeight, cfg.Rate(0), 1e-12)
}

func TestSinglePresence(t *testing.T) {
	m := New(DefaultConfig())
	_, ok := m.Trigger(r3.Vector{}, 0, core.NewRNG(2))
	require.True(t, ok)
	first := m.State().Position
	_, ok = m.Trigger(r3.Vector{X: 50}, 0, core.NewRNG(3))
	assert.False(t, ok, "a second activation must be refused while active")
	assert.Equal(t, first, m.State().Position)
	assert.Equal(t, 1, m.State().Activations)

	assert.True(t, m.Dismiss())
	assert.False(t, m.Dismiss())
}

func TestEmptyPhrasePoolYieldsNoWhisper(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Phrases = nil
	m := New(cfg)
	w, ok := m.Trigger(r3.Vector{}, 0, core.NewRNG(5))
	assert.True(t, ok)
	assert.Empty(t, w)
}

func TestBadDeltaIsIgnored(t *testing.T) {
	m := New(DefaultConfig())
	before := m.State().CooldownRemaining
	m.Update(math.NaN(), 1, r3.Vector{}, 0, core.NewRNG(1))
	m.Update(-3, 1, r3.Vector{}, 0, core.NewRNG(1))
	assert.Equal(t, before, m.State().CooldownRemaining)
}
