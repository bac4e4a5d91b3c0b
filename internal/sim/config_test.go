package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightwalk/internal/world"
)

func TestPresets(t *testing.T) {
	dread, err := Preset(PresetDread)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), dread)

	brisk, err := Preset(PresetBrisk)
	require.NoError(t, err)
	assert.Equal(t, world.BriskSpawnConfig(), brisk.Spawn)
	assert.Less(t, brisk.Spawn.Duration, dread.Spawn.Duration)

	_, err = Preset("cheerful")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"preset":       "brisk",
		"seed":         "99",
		"trees":        "40",
		"base_chance":  "0.3",
		"walk_speed":   "not-a-number",
		"catch_radius": "-2",
		"unknown":      "1",
	})
	assert.Equal(t, PresetBrisk, cfg.Preset)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, 40, cfg.Trees)
	assert.Equal(t, 0.3, cfg.Encounter.BaseChance)
	assert.Equal(t, DefaultConfig().Player.WalkSpeed, cfg.Player.WalkSpeed)
	assert.Equal(t, DefaultConfig().Encounter.CatchRadius, cfg.Encounter.CatchRadius)

	assert.Equal(t, DefaultConfig(), FromMap(nil))
	assert.Equal(t, PresetDread, FromMap(map[string]string{"preset": "bogus"}).Preset)
}

func TestParseConfigOverlaysPreset(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
preset: brisk
trees: 64
encounter:
  base_chance: 0.5
  cooldown_min: 30
  cooldown_max: 5
  phrases: ["behind you"]
feedback:
  regen_rate: 0.1
`))
	require.NoError(t, err)
	assert.Equal(t, PresetBrisk, cfg.Preset)
	assert.Equal(t, world.BriskSpawnConfig().Duration, cfg.Spawn.Duration)
	assert.Equal(t, 64, cfg.Trees)
	assert.Equal(t, 0.5, cfg.Encounter.BaseChance)
	assert.Equal(t, []string{"behind you"}, cfg.Encounter.Phrases)
	assert.Equal(t, 0.1, cfg.Feedback.RegenRate)
	assert.LessOrEqual(t, cfg.Encounter.CooldownMin, cfg.Encounter.CooldownMax, "inverted range is repaired")
	assert.Equal(t, DefaultConfig().Encounter.ThreatRadius, cfg.Encounter.ThreatRadius)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("trees: [1, 2"))
	assert.Error(t, err)

	_, err = ParseConfig([]byte("preset: sunny"))
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestLoadConfigRoundTrip(t *testing.T) {
	want := DefaultConfig()
	want.Trees = 77
	want.Encounter.BaseChance = 0.07
	data, err := want.YAML()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "night.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNormalizeRepairsDegenerateValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDelta = -1
	cfg.Trees = -5
	cfg.Radar.Width = 0
	cfg.Radar.CellSize = 0
	cfg.Player.SprintSpeed = 1
	cfg.Normalize()
	assert.Equal(t, 0.05, cfg.MaxDelta)
	assert.Equal(t, 0, cfg.Trees)
	assert.Equal(t, 1, cfg.Radar.Width)
	assert.Equal(t, 1.0, cfg.Radar.CellSize)
	assert.Equal(t, cfg.Player.WalkSpeed, cfg.Player.SprintSpeed)
}
