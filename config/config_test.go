package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orrery/math"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orrery.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float32(50), cfg.Camera.Far)
	assert.Equal(t, float32(1.0/24.0), cfg.Simulation.TimeStep)
	assert.Equal(t, "spaceship.off", cfg.Assets.VehicleModel)
	assert.Equal(t, 16*time.Millisecond, cfg.Simulation.TickInterval())
	assert.Nil(t, cfg.Path.Points())
}

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
[window]
width = 800
title = "test"

[assets]
texture_dir = "tex"
shader_dir = "/abs/shaders"

[camera]
far = 80.0

[path]
control_points = [[1.0, 0.0, 0.0], [0.0, 0.0, 1.0], [-1.0, 0.0, 0.0], [0.0, 0.0, -1.0]]

[log]
level = "debug"
format = "json"

[metrics]
addr = "127.0.0.1:9100"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 768, cfg.Window.Height, "unset fields keep defaults")
	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "tex"), cfg.Assets.TextureDir)
	assert.Equal(t, "/abs/shaders", cfg.Assets.ShaderDir)
	assert.Equal(t, float32(80), cfg.Camera.Far)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Addr)

	pts := cfg.Path.Points()
	require.Len(t, pts, 4)
	assert.Equal(t, math.Vec3{Z: 1}, pts[1])
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[window]\nwidht = 10\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "widht")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
[camera]
near = 10.0
far = 5.0

[path]
control_points = [[0.0, 0.0, 0.0], [1.0, 0.0, 0.0]]

[log]
format = "xml"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "near < far")
	assert.ErrorContains(t, err, "control_points")
	assert.ErrorContains(t, err, "xml")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "[window\n"))
	assert.Error(t, err)
}

func TestModelPath(t *testing.T) {
	a := Assets{TextureDir: filepath.Join("data", "textures"), VehicleModel: "ship.glb"}
	assert.Equal(t, filepath.Join("data", "textures", "ship.glb"), a.ModelPath())

	abs := filepath.Join(t.TempDir(), "ship.obj")
	a.VehicleModel = abs
	assert.Equal(t, abs, a.ModelPath())
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeYAML(t, `
window:
  width: 640
simulation:
  paused: true
path:
  control_points:
    - [2, 0, 0]
    - [0, 1, 2]
    - [-2, 0, 0]
    - [0, -1, -2]
world:
  seed: 42
`))
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 768, cfg.Window.Height)
	assert.True(t, cfg.Simulation.Paused)
	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Equal(t, math.Vec3{Y: 1, Z: 2}, cfg.Path.Points()[1])
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeYAML(t, "window:\n  widht: 10\n"))
	assert.ErrorContains(t, err, "widht")
}

func TestLoadEmptyYAMLGivesDefaults(t *testing.T) {
	path := writeYAML(t, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Window, cfg.Window)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "textures"), cfg.Assets.TextureDir)
}
