package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightwalk/internal/save"
	"nightwalk/internal/sim"
)

func TestRunWalksAndSaves(t *testing.T) {
	dir := t.TempDir()
	wav := filepath.Join(dir, "walk.wav")
	var out, errb bytes.Buffer
	err := run(context.Background(), []string{
		"-ticks", "120",
		"-wav", wav,
		"-save", "end",
		"-save-dir", dir,
		"-log-level", "warn",
	}, &out, &errb)
	require.NoError(t, err, errb.String())
	assert.Contains(t, out.String(), "ticks=120")

	info, err := os.Stat(wav)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44), "more than a bare header")

	store, err := save.Open(dir)
	require.NoError(t, err)
	var sess sim.Session
	require.NoError(t, store.Load("end", &sess))
	assert.Greater(t, sess.TotalDistanceMeters, 0.0)

	// Resume from the saved slot.
	out.Reset()
	require.NoError(t, run(context.Background(), []string{
		"-ticks", "1", "-load", "end", "-save-dir", dir, "-log-level", "warn",
	}, &out, &errb))
	assert.Contains(t, out.String(), "ticks=1")
}

func TestRunDumpConfig(t *testing.T) {
	var out, errb bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-preset", "brisk", "-dump-config"}, &out, &errb))
	cfg, err := sim.ParseConfig(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, sim.PresetBrisk, cfg.Preset)
}

func TestParseRejects(t *testing.T) {
	var errb bytes.Buffer
	_, err := parse([]string{"-ticks", "0"}, &errb)
	assert.Error(t, err)

	err = run(context.Background(), []string{"-preset", "sunny"}, &bytes.Buffer{}, &errb)
	assert.ErrorIs(t, err, sim.ErrUnknownPreset)

	_, err = parse([]string{"-bogus"}, &errb)
	assert.Error(t, err)
	assert.True(t, strings.Contains(errb.String(), "bogus"))
}

func TestBudgetStopsAtTickLimit(t *testing.T) {
	assert.Equal(t, 3, budget(3, 0, 10))
	assert.Equal(t, 1, budget(4, 9, 10), "a batch never runs past -ticks")
	assert.Equal(t, 0, budget(2, 10, 10))
	assert.Equal(t, 4, budget(4, 1000, 0), "no limit when running until interrupted")
}

func TestRealtimeRunHonoursTickLimit(t *testing.T) {
	var out, errb bytes.Buffer
	require.NoError(t, run(context.Background(), []string{
		"-ticks", "5", "-realtime", "-tps", "240", "-log-level", "warn",
	}, &out, &errb))
	assert.Contains(t, out.String(), "ticks=5 ")
}
