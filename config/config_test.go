package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20000, cfg.Campus.GrassCount)
	assert.Equal(t, float32(60), cfg.Camera.FOV)
	assert.Equal(t, [3]float32{35, 25, 35}, cfg.Camera.Position)
	assert.True(t, cfg.Controls.EnableDamping)
	assert.Equal(t, float32(0.05), cfg.Controls.DampingFactor)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  width: 800
  height: 600
  fullscreen: true
campus:
  grass_count: 500
  seed: 7
log:
  level: debug
models:
  - path: statue.glb
    position: [1, 0, -2]
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.True(t, cfg.Window.Fullscreen)
	assert.Equal(t, "Campus", cfg.Window.Title, "untouched keys keep defaults")
	assert.Equal(t, 500, cfg.Campus.GrassCount)
	assert.Equal(t, int64(7), cfg.Campus.Seed)
	require.Len(t, cfg.Models, 1)
	assert.Equal(t, [3]float32{1, 0, -2}, cfg.Models[0].Position)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  width: 0
camera:
  near: 10
  far: 1
log:
  level: loud
`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "clip planes")
	assert.Contains(t, err.Error(), "log level")
}

func TestValidateDampingFactor(t *testing.T) {
	cfg := Default()
	cfg.Controls.DampingFactor = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "damping factor")

	cfg.Controls.DampingFactor = 1.5
	assert.Error(t, cfg.Validate())

	cfg.Controls.DampingFactor = 1
	assert.NoError(t, cfg.Validate())

	// The factor is unused without damping.
	cfg.Controls.EnableDamping = false
	cfg.Controls.DampingFactor = 0
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
