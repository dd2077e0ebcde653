package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/confgrid/config"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{"run.cfg"}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "run.cfg", cfg.ConfigPath)
	assert.False(t, cfg.Interpolate)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Order)
}

func TestParse_AllFlags(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse([]string{
		"-c", "conf/",
		"-interpolate",
		"-o", "training.batch=64",
		"-o", "model.name=tok2vec",
		"-order", "model, training",
		"-log-level", "debug",
		"-log-format", "json",
	}, out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "conf/", cfg.ConfigPath)
	assert.True(t, cfg.Interpolate)
	assert.Equal(t, []string{"model", "training"}, cfg.Order)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	require.Len(t, cfg.Overrides, 2)
	batch, ok := cfg.Overrides["training.batch"].(config.Value)
	require.True(t, ok)
	assert.Equal(t, config.KindInt, batch.Kind())
	name, ok := cfg.Overrides["model.name"].(config.Value)
	require.True(t, ok)
	assert.Equal(t, config.KindString, name.Kind())
}

func TestParse_NoPathPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	t.Run("bad log level", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"-log-level", "loud", "run.cfg"}, out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("bad log format", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"-log-format", "xml", "run.cfg"}, out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("malformed override", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"-o", "nokey", "run.cfg"}, out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
	})
}
