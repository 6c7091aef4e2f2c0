package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDefaults(t *testing.T) {
	var out bytes.Buffer
	env, err := Setup(context.Background(), "solar", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "info", env.Config.Log.Level)
	assert.NotNil(t, env.Metrics)

	w, err := env.WatchShaders(context.Background())
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestSetupFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orrery.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\nformat = \"json\"\n"), 0o644))

	var out bytes.Buffer
	env, err := Setup(context.Background(), "world", []string{"-config", path, "-log-level", "debug"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "debug", env.Config.Log.Level)
	assert.Equal(t, "json", env.Config.Log.Format)

	env.Log.Debug(context.Background(), "hello")
	assert.Contains(t, out.String(), `"app":"world"`)
}

func TestSetupErrors(t *testing.T) {
	var out bytes.Buffer
	_, err := Setup(context.Background(), "solar", []string{"-nope"}, &out)
	assert.Error(t, err)

	_, err = Setup(context.Background(), "solar", []string{"extra"}, &out)
	assert.ErrorContains(t, err, "unexpected arguments")

	_, err = Setup(context.Background(), "solar", []string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, &out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetupServesMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	_, err := Setup(ctx, "solar", []string{"-metrics-addr", "127.0.0.1:0"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "metrics endpoint listening")
}

func TestWatchShadersEnabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	env, err := Setup(ctx, "solar", nil, &out)
	require.NoError(t, err)
	env.Config.Assets.WatchShaders = true
	env.Config.Assets.ShaderDir = t.TempDir()

	w, err := env.WatchShaders(ctx)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.NoError(t, w.Close())
}
