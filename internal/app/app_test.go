package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/confgrid/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func runApp(t *testing.T, cfg Config) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	appCfg, err := NewConfig(cfg)
	require.NoError(t, err)
	a := NewApp(out, logs, appCfg)
	err = a.Run(context.Background())
	return out.String(), logs.String(), err
}

func TestRun_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "run.cfg", "[a]\nx = 1\n")

	out, _, err := runApp(t, Config{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "[a]\nx = 1\n", out)
}

func TestRun_DirectoryMergesInOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "10-base.cfg", "[training]\nbatch = 32\nepochs = 10\n")
	writeFile(t, dir, "20-site.cfg", "[training]\nbatch = 64\n")

	out, _, err := runApp(t, Config{ConfigPath: dir})
	require.NoError(t, err)

	tree, err := config.Parse(out, config.Options{})
	require.NoError(t, err)
	v, _ := tree.GetPath("training.batch")
	assert.Equal(t, config.KindInt, v.Kind())
	assert.Contains(t, out, "batch = 64")
	assert.Contains(t, out, "epochs = 10")
}

func TestRun_MergeDiagnosticsAreLogged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "10-base.cfg", "[training]\ndropout = ${hp.dropout}\n[hp]\ndropout = 0.2\n")
	writeFile(t, dir, "20-site.cfg", "[training]\ndropout = 0.5\n")

	out, logs, err := runApp(t, Config{ConfigPath: dir, LogLevel: "warn"})
	require.NoError(t, err)
	assert.Contains(t, out, "dropout = ${hp.dropout}", "base placeholder must win the merge")
	assert.Contains(t, logs, "placeholder-kept")
}

func TestRun_OverridesAndInterpolation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "run.cfg", "[hp]\nlr = 0.01\n[opt]\nlr = ${hp.lr}\n")

	out, _, err := runApp(t, Config{
		ConfigPath:  path,
		Interpolate: true,
		Overrides:   map[string]any{"hp.lr": 0.5},
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "${hp.lr}")
	assert.Contains(t, out, "lr = 0.5")
}

func TestRun_HCLFrontEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "run.hcl", "training {\n  batch = 32\n  rate  = hp.rate\n}\nhp {\n  rate = 0.1\n}\n")

	out, _, err := runApp(t, Config{ConfigPath: path, Interpolate: true})
	require.NoError(t, err)
	assert.Contains(t, out, "batch = 32")
	assert.NotContains(t, out, "${hp.rate}")
}

func TestRun_Order(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "run.cfg", "[alpha]\nx = 1\n[zeta]\ny = 2\n")

	out, _, err := runApp(t, Config{ConfigPath: path, Order: []string{"zeta"}})
	require.NoError(t, err)
	assert.Equal(t, "[zeta]\ny = 2\n\n[alpha]\nx = 1\n", out)
}

func TestRun_MissingPath(t *testing.T) {
	t.Parallel()

	_, _, err := runApp(t, Config{ConfigPath: filepath.Join(t.TempDir(), "nope.cfg")})
	require.Error(t, err)
}

func TestRun_EmptyDirectory(t *testing.T) {
	t.Parallel()

	_, _, err := runApp(t, Config{ConfigPath: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .cfg or .hcl files")
}

func TestNewConfig_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(Config{})
	require.Error(t, err)
}
