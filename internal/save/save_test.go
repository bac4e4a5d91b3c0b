package save

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightwalk/internal/sim"
)

func TestSessionRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "saves"))
	require.NoError(t, err)

	want := sim.Session{
		Yaw:                 0.7,
		Pitch:               -0.2,
		FlashlightOn:        true,
		TotalDistanceMeters: 1234.5,
		Focus:               0.42,
		SavedAt:             time.Date(2024, 10, 31, 23, 59, 0, 0, time.UTC),
	}
	want.Position.X = 88.25
	want.Position.Z = -17

	require.NoError(t, store.Save("slot-1", want))
	var got sim.Session
	require.NoError(t, store.Load("slot-1", &got))
	assert.Equal(t, want.Position, got.Position)
	assert.Equal(t, want.TotalDistanceMeters, got.TotalDistanceMeters)
	assert.True(t, want.SavedAt.Equal(got.SavedAt))
	assert.Equal(t, want.FlashlightOn, got.FlashlightOn)

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"slot-1"}, keys)
}

func TestOverwriteAndDelete(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save("a", map[string]int{"n": 1}))
	require.NoError(t, store.Save("a", map[string]int{"n": 2}))

	var got map[string]int
	require.NoError(t, store.Load("a", &got))
	assert.Equal(t, 2, got["n"])

	require.NoError(t, store.Delete("a"))
	require.NoError(t, store.Delete("a"))
	assert.ErrorIs(t, store.Load("a", &got), ErrNotFound)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "no temp files are left behind")
}

func TestInvalidKeys(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	for _, key := range []string{"", "../escape", "a/b", "dot.key"} {
		assert.ErrorIs(t, store.Save(key, 1), ErrInvalidKey, key)
	}
}

func TestCorruptAndFutureRecords(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "bad.yaml"), []byte("format_version: [oops"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "new.yaml"), []byte("format_version: 9\ndata: {}\n"), 0o600))

	var v map[string]any
	assert.Error(t, store.Load("bad", &v))
	assert.ErrorIs(t, store.Load("new", &v), ErrVersion)
}
