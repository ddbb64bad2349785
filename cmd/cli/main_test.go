package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/naosoccer/internal/bootstrap"
)

func TestRun_PrintsParameters(t *testing.T) {
	t.Parallel()

	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(context.Background(), out, logs, []string{"-log-level", "debug"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "FieldLength")
	require.Contains(t, out.String(), "RobotTypeCount")
	require.Contains(t, logs.String(), "Bootstrap finished")
}

func TestRun_BootstrapFailure(t *testing.T) {
	t.Parallel()

	// A scene import of an unknown scene fails the run.
	tempDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tempDir, "soccer.hcl"), []byte(`description = "no scenes"`), 0o600)
	require.NoError(t, err, "failed to set up test file")

	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	runErr := run(context.Background(), out, logs, []string{"-bundles", tempDir})

	require.Error(t, runErr)
	require.ErrorContains(t, runErr, "bootstrap failed")
	var stepErr *bootstrap.StepError
	require.ErrorAs(t, runErr, &stepErr)
	require.Equal(t, 5, stepErr.Step)
	require.Empty(t, out.String())
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
