package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightwalk/internal/mathx"
	"nightwalk/pkg/core"
)

// constSource always returns the same draw.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func TestRepositionFarInstanceOnNextTick(t *testing.T) {
	cfg := DefaultRecyclerConfig()
	rng := core.NewRNG(3)
	pool := NewPool(40, cfg, rng)
	pool.Scatter(mathx.Vec2{}, rng)

	far := pool.At(7)
	far.Anchor = mathx.Vec2{X: 50}

	origin := mathx.Vec2{}
	now := 0.0
	for tick := 0; tick < 100; tick++ {
		now += 0.016
		pool.Recycle(origin, now, 3, rng)
		d := math.Sqrt(far.Anchor.Dist2(origin))
		require.GreaterOrEqual(t, d, cfg.MinRadius-1e-9, "tick %d", tick)
		require.LessOrEqual(t, d, cfg.MaxRadius+1e-9, "tick %d", tick)
		if tick == 0 {
			assert.True(t, far.Anim.Active, "reassignment must arm the spawn animation")
			assert.InDelta(t, 0.016, far.Anim.Start, 1e-12)
		}
	}
}

func TestRecycleRadiusInvariantWhileWalking(t *testing.T) {
	cfg := DefaultRecyclerConfig()
	rng := core.NewRNG(11)
	pool := NewPool(220, cfg, rng)
	pool.Scatter(mathx.Vec2{}, rng)

	player := mathx.Vec2{}
	heading := 0.0
	now := 0.0
	max2 := cfg.MaxDistance * cfg.MaxDistance
	for tick := 0; tick < 3000; tick++ {
		now += 0.016
		heading += (rng.Float64() - 0.5) * 0.2
		player = player.Add(mathx.Polar(heading, 4.2*0.016))
		pool.Recycle(player, now, 10.5, rng)
		for i, inst := range pool.Instances() {
			require.LessOrEqual(t, inst.Anchor.Dist2(player), max2, "instance %d at tick %d", i, tick)
		}
	}
	assert.Positive(t, pool.Reassigned(), "walking must trigger reassignments")
}

func TestRepositionKeepsInRangeInstances(t *testing.T) {
	cfg := DefaultRecyclerConfig()
	inst := Instance{Anchor: mathx.Vec2{X: 10, Z: 10}}
	moved := Reposition(&inst, mathx.Vec2{}, 0, []Instance{inst}, 1, cfg, 3, constSource(0.5))
	assert.False(t, moved)
	assert.Equal(t, mathx.Vec2{X: 10, Z: 10}, inst.Anchor)
	assert.False(t, inst.Anim.Active)
}

func TestRepositionFallsBackWhenSpacingImpossible(t *testing.T) {
	cfg := DefaultRecyclerConfig()
	cfg.MinSpacing = 1000
	all := make([]Instance, 3)
	all[0].Anchor = mathx.Vec2{X: 100}
	all[1].Anchor = mathx.Vec2{X: 1}
	all[2].Anchor = mathx.Vec2{Z: 1}

	moved := Reposition(&all[0], mathx.Vec2{}, 0, all, 0, cfg, 3, core.NewRNG(5))
	require.True(t, moved, "an unsatisfiable spacing constraint must not block reassignment")
	d := all[0].Anchor.Len()
	assert.GreaterOrEqual(t, d, cfg.MinRadius)
	assert.LessOrEqual(t, d, cfg.MaxRadius)
}

func TestRepositionUsesGoldenAngleBase(t *testing.T) {
	cfg := DefaultRecyclerConfig()
	cfg.MinSpacing = 0
	// A draw of 0.5 cancels the jitter, leaving the pure golden-angle direction.
	for _, index := range []int{0, 1, 5} {
		inst := Instance{Anchor: mathx.Vec2{X: 100}}
		require.True(t, Reposition(&inst, mathx.Vec2{}, index, nil, 0, cfg, 3, constSource(0.5)))
		want := mathx.WrapAngle(float64(index) * mathx.GoldenAngle)
		assert.InDelta(t, want, inst.Anchor.Heading(), 1e-9, "index %d", index)
		assert.InDelta(t, cfg.SampleRadius(0.5), inst.Anchor.Len(), 1e-9)
	}
}

func TestRepositionFacesOutward(t *testing.T) {
	cfg := DefaultRecyclerConfig()
	cfg.YawSway = 0
	inst := Instance{Anchor: mathx.Vec2{X: -90}}
	player := mathx.Vec2{X: 3, Z: -2}
	require.True(t, Reposition(&inst, player, 4, nil, 0, cfg, 3, constSource(0.2)))
	assert.InDelta(t, inst.Anchor.Sub(player).Heading(), inst.Yaw, 1e-9)
	assert.Equal(t, 1, inst.Generation)
}

func TestSampleRadiusBand(t *testing.T) {
	cfg := DefaultRecyclerConfig()
	lo := cfg.MinRadius + 0.35*(cfg.MaxRadius-cfg.MinRadius)
	assert.InDelta(t, lo, cfg.SampleRadius(0), 1e-12)
	assert.InDelta(t, cfg.MaxRadius, cfg.SampleRadius(1), 1e-12)
}

func TestScatterRespectsSpacingWhenRoomy(t *testing.T) {
	cfg := DefaultRecyclerConfig()
	cfg.MinSpacing = 1.5
	rng := core.NewRNG(21)
	pool := NewPool(60, cfg, rng)
	pool.Scatter(mathx.Vec2{X: 5, Z: 5}, rng)

	violations := 0
	items := pool.Instances()
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if items[i].Anchor.Dist2(items[j].Anchor) < cfg.MinSpacing*cfg.MinSpacing {
				violations++
			}
		}
		assert.False(t, items[i].Anim.Active, "scatter must not animate")
	}
	assert.LessOrEqual(t, violations, 2, "sparse pool should almost never violate spacing")
}

func TestEmptyAndDegeneratePools(t *testing.T) {
	rng := core.NewRNG(1)
	empty := NewPool(0, DefaultRecyclerConfig(), rng)
	empty.Scatter(mathx.Vec2{}, rng)
	assert.Equal(t, 0, empty.Recycle(mathx.Vec2{X: 1000}, 1, 3, rng))
	assert.Empty(t, empty.Animate(1, mathx.Vec2{}, DefaultSpawnConfig(), DefaultAmbientConfig(), nil))

	var nilPool *Pool
	assert.Equal(t, 0, nilPool.Len())
	assert.Equal(t, 0, nilPool.Recycle(mathx.Vec2{}, 1, 3, rng))

	cfg := DefaultRecyclerConfig()
	cfg.MaxDistance = 0
	inst := Instance{Anchor: mathx.Vec2{X: 1e6}}
	assert.False(t, Reposition(&inst, mathx.Vec2{}, 0, nil, 0, cfg, 3, rng))
}

func TestNormalizeRepairsRanges(t *testing.T) {
	cfg := RecyclerConfig{MaxDistance: 30, MinRadius: 50, MaxRadius: 10, MaxAttempts: 0, ScaleMin: 2, ScaleMax: 1}
	cfg.Normalize()
	assert.Equal(t, 10.0, cfg.MinRadius)
	assert.Equal(t, 30.0, cfg.MaxRadius)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 1.0, cfg.ScaleMin)
}
