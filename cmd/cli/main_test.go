package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/heurconf/internal/cli"
)

func TestRun_StartupError(t *testing.T) {
	t.Parallel()

	// A settings file with a syntax error fails before any command runs.
	filePath := filepath.Join(t.TempDir(), "heurconf.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte("space {\n  max_depth = 3\n"), 0o600))

	out := &bytes.Buffer{}
	err := run(out, []string{"tree", "--config", filePath})

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load settings")
	require.Contains(t, err.Error(), "failed to parse settings file")
	require.Empty(t, out.String())
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})

	require.NoError(t, err, "help is not an error")
	require.Contains(t, out.String(), "Usage:")
	require.Contains(t, out.String(), "irace")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_Build(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"build", "IteratedGreedy{destruction=\"random\", constructive=RandomConstructive{}}"})

	require.NoError(t, err)
	require.Equal(t, "IteratedGreedy{destruction=\"random\", constructive=RandomConstructive{}}\n", out.String())
}
