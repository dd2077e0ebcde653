package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_RendersConfig(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "run.cfg")
	err := os.WriteFile(filePath, []byte("[a]\nx = 1\n"), 0600)
	require.NoError(t, err, "failed to set up test file")

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	runErr := run(out, logs, []string{filePath})

	require.NoError(t, runErr)
	require.Equal(t, "[a]\nx = 1\n", out.String())
}

func TestRun_ParseErrorSurfaces(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "broken.cfg")
	err := os.WriteFile(filePath, []byte("[unclosed\n"), 0600)
	require.NoError(t, err, "failed to set up test file")

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	runErr := run(out, logs, []string{filePath})

	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "malformed section header")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, args)

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, logs.String(), "Usage:", "Expected help text to be printed to the log writer")
}
