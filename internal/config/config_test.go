package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStackMissingFileUsesDefaults(t *testing.T) {
	s, err := LoadStack(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultStack(), s)
	assert.Zero(t, s.Gap())
	assert.InDelta(t, 0.35, s.AdvanceTable().Factor("queso"), 1e-7)
	assert.InDelta(t, 0.4, s.AdvanceTable().Factor("pepinillo"), 1e-7)
}

func TestLoadStackOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
advance:
  queso: 0.2
layer_gap: 0.05
target_height: 3
hide_decoration: false
`), 0644))

	s, err := LoadStack(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, s.AdvanceTable().Factor("queso"), 1e-7)
	assert.InDelta(t, 0.55, s.AdvanceTable().Factor("carne"), 1e-7)
	assert.InDelta(t, 0.05, s.Gap(), 1e-7)
	assert.InDelta(t, 3, s.TargetHeight, 1e-7)
	assert.Empty(t, s.NormalizeOptions().HideSubstrings)
	assert.Equal(t, "models/burger/carne.glb", s.Assets["carne"])
}

func TestLoadStackRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target_height: -1\nfov: 200\n"), 0644))
	_, err := LoadStack(path)
	assert.ErrorContains(t, err, "target_height")
	assert.ErrorContains(t, err, "fov")

	require.NoError(t, os.WriteFile(path, []byte("advance: [1, 2"), 0644))
	_, err = LoadStack(path)
	assert.Error(t, err)
}

func TestPrefsRoundTripAndFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "viewer.json")
	p, err := LoadPrefs(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPrefs(), p)

	p.GridVisible = true
	p.RotateSpeed = 0.05
	require.NoError(t, SavePrefs(path, p))
	got, err := LoadPrefs(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	got, err = LoadPrefs(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPrefs(), got)
}

func TestWatchStackReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "burger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("zoom: 2\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan Stack, 4)
	require.NoError(t, WatchStack(ctx, path, func(s Stack) { changes <- s }, nil))

	require.NoError(t, os.WriteFile(path, []byte("zoom: 2.5\n"), 0644))
	select {
	case s := <-changes:
		assert.InDelta(t, 2.5, s.Zoom, 1e-7)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}
