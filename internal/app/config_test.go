package app

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightwalk/internal/sim"
)

func TestBindOverridesDefaults(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-preset", "brisk", "-seed", "7", "-mute", "-log-level", "debug"}))

	assert.Equal(t, sim.PresetBrisk, cfg.Preset)
	assert.True(t, cfg.Mute)
	sc, err := cfg.SimConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(7), sc.Seed)
	assert.Equal(t, sim.PresetBrisk, sc.Preset)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestSimConfigErrors(t *testing.T) {
	cfg := NewConfig()
	cfg.Preset = "cheerful"
	_, err := cfg.SimConfig()
	assert.ErrorIs(t, err, sim.ErrUnknownPreset)

	cfg.LogLevel = "loud"
	_, err = cfg.Level()
	assert.Error(t, err)
}

func TestSimConfigFromFile(t *testing.T) {
	base, err := sim.Preset(sim.PresetBrisk)
	require.NoError(t, err)
	data, err := base.YAML()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "walk.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg := NewConfig()
	cfg.ConfigPath = path
	cfg.Seed = 99
	sc, err := cfg.SimConfig()
	require.NoError(t, err)
	assert.Equal(t, base.Trees, sc.Trees)
	assert.Equal(t, int64(99), sc.Seed)
}
