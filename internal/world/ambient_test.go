package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"nightwalk/internal/mathx"
	"nightwalk/pkg/core"
)

func TestAmbientOnlyInsideNearField(t *testing.T) {
	cfg := DefaultAmbientConfig()
	inst := Instance{Anchor: mathx.Vec2{X: cfg.Radius + 1}}
	assert.Equal(t, AmbientOffsets{}, ComputeAmbientOffsets(&inst, 3.3, 4, mathx.Vec2{}, cfg))

	inst.Anchor = mathx.Vec2{X: 2}
	moved := false
	for i := 0; i < 50; i++ {
		o := ComputeAmbientOffsets(&inst, float64(i)*0.1, 4, mathx.Vec2{}, cfg)
		assert.LessOrEqual(t, math.Abs(o.VerticalPulse), cfg.PulseAmplitude)
		assert.LessOrEqual(t, math.Abs(o.Lean), cfg.LeanAmplitude)
		if o.VerticalPulse != 0 {
			moved = true
		}
	}
	assert.True(t, moved)
}

func TestAmbientScalesWithProximity(t *testing.T) {
	cfg := DefaultAmbientConfig()
	cfg.ColorFrequency = 0
	nearInst := Instance{Anchor: mathx.Vec2{X: 1}}
	farInst := Instance{Anchor: mathx.Vec2{X: 15}}
	near := ComputeAmbientOffsets(&nearInst, 0, 0, mathx.Vec2{}, cfg)
	far := ComputeAmbientOffsets(&farInst, 0, 0, mathx.Vec2{}, cfg)
	assert.Greater(t, near.ColorPulse, far.ColorPulse)
}

func TestAmbientPhaseDiffersByIndex(t *testing.T) {
	cfg := DefaultAmbientConfig()
	inst := Instance{Anchor: mathx.Vec2{X: 1}}
	a := ComputeAmbientOffsets(&inst, 1, 0, mathx.Vec2{}, cfg)
	b := ComputeAmbientOffsets(&inst, 1, 1, mathx.Vec2{}, cfg)
	assert.NotEqual(t, a.VerticalPulse, b.VerticalPulse)
}

func TestAtmosphereBreathing(t *testing.T) {
	cfg := DefaultAmbientConfig()
	quarter := cfg.BreathPeriod / 4
	peak := ComputeAtmosphere(quarter, cfg)
	trough := ComputeAtmosphere(3*quarter, cfg)
	assert.Greater(t, peak.Fog.R, trough.Fog.R)

	fogSwing := peak.Fog.B - trough.Fog.B
	bgSwing := peak.Background.B - trough.Background.B
	assert.Less(t, bgSwing/cfg.BackgroundColor.B, fogSwing/cfg.FogColor.B, "background pulse is scaled down")

	assert.InDelta(t, 100*cfg.SkyRotationSpeed, ComputeAtmosphere(100, cfg).SkyRotation, 1e-12)
}

func TestTileLayoutFollowsPlayer(t *testing.T) {
	g := NewTileGrid(DefaultTileConfig())
	tiles := g.Layout(mathx.Vec2{X: 30, Z: -5})
	assert.Len(t, tiles, 9)
	// floor(30/24)*24 = 24, floor(-5/24)*24 = -24
	assert.Equal(t, mathx.Vec2{X: 24, Z: -24}, tiles[4])
	assert.Equal(t, mathx.Vec2{X: 0, Z: -48}, tiles[0])
	assert.Equal(t, mathx.Vec2{X: 48, Z: 0}, tiles[8])

	seen := map[mathx.Vec2]bool{}
	for _, tile := range tiles {
		assert.False(t, seen[tile], "lattice tiles must not overlap")
		seen[tile] = true
	}
}

func TestTileGridDegenerate(t *testing.T) {
	for _, cfg := range []TileConfig{{Size: 0, N: 3}, {Size: 10, N: 0}, {Size: math.NaN(), N: 2}} {
		g := NewTileGrid(cfg)
		assert.Empty(t, g.Layout(mathx.Vec2{X: 3}))
	}
}

func TestMistStaysAroundPlayerAndFades(t *testing.T) {
	cfg := DefaultMistConfig()
	field := NewMistField(cfg, core.NewRNG(8))
	player := mathx.Vec2{X: 1000, Z: -730}
	samples := field.Sample(12.5, player)
	assert.Len(t, samples, cfg.Count)
	limit := cfg.BoxSize/2 + cfg.DriftRadius + 1e-9
	for _, s := range samples {
		assert.LessOrEqual(t, math.Abs(s.Position.X-player.X), limit)
		assert.LessOrEqual(t, math.Abs(s.Position.Z-player.Z), limit)
		assert.GreaterOrEqual(t, s.Opacity, cfg.FloorOpacity)
		assert.LessOrEqual(t, s.Opacity, 1.0)
	}

	assert.Equal(t, 1.0, cfg.Opacity(cfg.NearBand/2))
	assert.Equal(t, cfg.FloorOpacity, cfg.Opacity(cfg.FarBand+5))
	mid := cfg.Opacity((cfg.NearBand + cfg.FarBand) / 2)
	assert.InDelta(t, (1+cfg.FloorOpacity)/2, mid, 1e-12)

	assert.Nil(t, NewMistField(MistConfig{}, core.NewRNG(1)).Sample(1, player))
}
