package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/heurconf/internal/builder"
	"github.com/vk/heurconf/internal/config"
	"github.com/vk/heurconf/internal/parser"
	"github.com/vk/heurconf/internal/registry"
	"github.com/vk/heurconf/internal/tuner"
	"github.com/vk/heurconf/modules/construct"
	"github.com/vk/heurconf/modules/grasp"
	"github.com/vk/heurconf/modules/improve"
)

func TestNewApp(t *testing.T) {
	t.Run("defaults discover every core module", func(t *testing.T) {
		a, logs := SetupAppTest(t, nil)
		assert.True(t, a.Registry().Frozen())
		_, ok := a.Registry().ByName("SimulatedAnnealing")
		assert.True(t, ok)
		assert.Equal(t, "VNS", a.Registry().Aliases()["BasicVNS"])
		assert.Contains(t, logs.String(), "Registry discovery finished.")
	})

	t.Run("settings select modules and aliases", func(t *testing.T) {
		s := config.Default()
		s.Modules = []string{"construct", "improve", "grasp"}
		s.Aliases = map[string]string{"Classic": "GRASP"}
		a, _ := SetupAppTest(t, s)

		_, ok := a.Registry().ByName("VNS")
		assert.False(t, ok)
		assert.Equal(t, map[string]string{"Classic": "GRASP"}, a.Registry().Aliases())
	})

	testCases := []struct {
		name    string
		mutate  func(s *config.Settings)
		wantErr error
		wantMsg string
	}{
		{
			name:    "unknown module",
			mutate:  func(s *config.Settings) { s.Modules = []string{"construct", "nope"} },
			wantMsg: "unknown module 'nope'",
		},
		{
			name:    "alias to unknown target",
			mutate:  func(s *config.Settings) { s.Aliases = map[string]string{"X": "Missing"} },
			wantErr: registry.ErrUnknownTarget,
		},
		{
			name:    "alias shadowing a component",
			mutate:  func(s *config.Settings) { s.Aliases = map[string]string{"GRASP": "VNS"} },
			wantErr: registry.ErrAliasCollision,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := config.Default()
			tc.mutate(s)
			_, err := NewApp(&bytes.Buffer{}, s)
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestNewApp_JSONLogs(t *testing.T) {
	s := config.Default()
	s.Logging = config.Logging{Level: "debug", Format: "json"}
	var out bytes.Buffer
	_, err := NewApp(&out, s, &construct.Module{})
	require.NoError(t, err)

	first, _, _ := strings.Cut(out.String(), "\n")
	assert.True(t, strings.HasPrefix(first, "{"), "expected a JSON record, got %q", first)
	assert.Contains(t, first, `"msg":"Logger configured successfully."`)
}

func TestBuildAlgorithmFromString(t *testing.T) {
	s := config.Default()
	s.Aliases = map[string]string{"Classic": "GRASP"}
	a, _ := SetupAppTest(t, s)
	ctx := context.Background()

	alg, err := a.BuildAlgorithmFromString(ctx, "Classic{iterations=7, constructive=RandomConstructive{}, improver=NullImprover{}}")
	require.NoError(t, err)
	g, ok := alg.(*grasp.GRASP)
	require.True(t, ok)
	assert.Equal(t, 7, g.Iterations)
	assert.Equal(t, "GRASP{iterations=7, constructive=RandomConstructive{}, improver=NullImprover{}}", alg.String())

	_, err = a.BuildAlgorithmFromString(ctx, "RandomConstructive{}")
	assert.ErrorIs(t, err, ErrNotAlgorithm)

	_, err = a.BuildAlgorithmFromString(ctx, "GRASP{iterations=}")
	var syntaxErr *parser.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
	assert.Contains(t, err.Error(), "could not build component from string")

	_, err = a.BuildAlgorithmFromString(ctx, "GRASP{speed=1}")
	assert.ErrorIs(t, err, builder.ErrUnknownParameter)
}

func TestBuildComponentByName(t *testing.T) {
	a, _ := SetupAppTest(t, nil)

	v, err := a.BuildComponentByName(context.Background(), "RandomShake", map[string]any{"strength": 3})
	require.NoError(t, err)
	assert.Equal(t, "RandomShake{strength=3}", v.(interface{ String() string }).String())

	_, err = a.BuildComponentByName(context.Background(), "RandomShake", map[string]any{"strength": "3"})
	assert.ErrorIs(t, err, builder.ErrTypeMismatch)
}

func TestComponents(t *testing.T) {
	a, _ := SetupAppTest(t, nil)

	constructives := a.Components("Constructive")
	names := make([]string, len(constructives))
	for i, c := range constructives {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"BestOfConstructive", "GreedyRandomConstructive", "ManualConstructive", "RandomConstructive"}, names)
	for _, c := range constructives {
		if c.Name == "ManualConstructive" {
			assert.False(t, c.Autoconfigurable())
			assert.Contains(t, c.Reason, "not autoconfigurable")
		} else {
			assert.True(t, c.Autoconfigurable(), c.Name)
		}
	}

	var sa *ComponentInfo
	for _, c := range a.Components("") {
		c := c
		if c.Name == "SimulatedAnnealing" {
			sa = &c
		}
	}
	require.NotNil(t, sa)
	assert.True(t, sa.Factory)
	assert.Len(t, sa.Params, 3)
	assert.Contains(t, sa.Capabilities, "Algorithm")

	assert.Empty(t, a.Components("Unknown"))
}

func TestSpaceAndExport(t *testing.T) {
	a, _ := SetupAppTest(t, nil)
	ctx := context.Background()

	f, err := a.Space(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"GRASP", "IteratedGreedy", "SimulatedAnnealing", "VNS"}, f.RootNames())

	again, err := a.Space(ctx)
	require.NoError(t, err)
	assert.Same(t, f, again)

	var out bytes.Buffer
	require.NoError(t, a.ExportParameters(ctx, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Contains(t, lines, `ROOT "--ROOT=" c (GRASP, IteratedGreedy, SimulatedAnnealing, VNS)`)
	assert.Contains(t, lines, `ROOT_GRASP.iterations "--ROOT_GRASP.iterations=" i (1, 1000) | ROOT == "GRASP"`)
	assert.Contains(t, lines, `ROOT_GRASP.constructive "--ROOT_GRASP.constructive=" c (BestOfConstructive, GreedyRandomConstructive, RandomConstructive) | ROOT == "GRASP"`)
	assert.Contains(t, lines, `ROOT_SimulatedAnnealing.cooling "--ROOT_SimulatedAnnealing.cooling=" o (0.8, 0.9, 0.95, 0.99) | ROOT == "SimulatedAnnealing"`)
	assert.Contains(t, lines, `ROOT_IteratedGreedy.destruction "--ROOT_IteratedGreedy.destruction=" c ("random", "worst", "related") | ROOT == "IteratedGreedy"`)
	assert.NotContains(t, out.String(), "ManualConstructive")
	assert.NotContains(t, out.String(), "instance")
}

func TestExport_NothingWithinBounds(t *testing.T) {
	s := config.Default()
	s.Space.MaxDepth = 1
	a, _ := SetupAppTest(t, s)

	err := a.ExportParameters(context.Background(), &bytes.Buffer{})
	assert.ErrorIs(t, err, tuner.ErrEmptyChoice)
}

func TestDecodeAssignment_RoundTrip(t *testing.T) {
	a, _ := SetupAppTest(t, nil)
	ctx := context.Background()

	expr, err := a.DecodeAssignment(ctx, []string{
		"config-1", "instance-1", "42",
		"--ROOT=GRASP",
		"--ROOT_GRASP.iterations=10",
		"--ROOT_GRASP.constructive=GreedyRandomConstructive",
		"--ROOT_GRASP.constructive_GreedyRandomConstructive.alpha=0.75",
		"--ROOT_GRASP.improver=NullImprover",
	})
	require.NoError(t, err)
	assert.Equal(t, "GRASP{iterations=10, constructive=GreedyRandomConstructive{alpha=0.75}, improver=NullImprover{}}", expr)

	alg, err := a.BuildAlgorithmFromString(ctx, expr)
	require.NoError(t, err)
	assert.Equal(t, expr, alg.String())

	_, err = a.DecodeAssignment(ctx, []string{"--ROOT=Nope"})
	assert.ErrorIs(t, err, tuner.ErrBadAssignment)
}

func TestConfig_Settings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heurconf.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
space {
  max_depth  = 6
  max_repeat = 2
}
logging { level = "warn" }
`), 0o644))

	t.Run("flags override the file", func(t *testing.T) {
		cfg := &Config{SettingsPaths: []string{path}, MaxDepth: 3, LogFormat: "json"}
		s, err := cfg.Settings(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, s.Space.MaxDepth)
		assert.Equal(t, 2, s.Space.MaxRepeat)
		assert.Equal(t, "warn", s.Logging.Level)
		assert.Equal(t, "json", s.Logging.Format)
	})

	t.Run("overrides are validated", func(t *testing.T) {
		cfg := &Config{SettingsPaths: []string{path}, LogLevel: "loud"}
		_, err := cfg.Settings(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logging.level")
	})

	t.Run("broken file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.hcl")
		require.NoError(t, os.WriteFile(bad, []byte(`space {`), 0o644))
		_, err := (&Config{SettingsPaths: []string{bad}}).Settings(context.Background())
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "failed to load settings"), err.Error())
	})
}

func TestModuleNames(t *testing.T) {
	assert.Equal(t, []string{"annealing", "construct", "grasp", "improve", "shake", "vns"}, ModuleNames())
}

func TestNewApp_ExplicitModules(t *testing.T) {
	a, _ := SetupAppTest(t, nil, &construct.Module{}, &improve.Module{})
	_, ok := a.Registry().ByName("GRASP")
	assert.False(t, ok)

	_, err := a.Space(context.Background())
	require.NoError(t, err)
	err = a.ExportParameters(context.Background(), &bytes.Buffer{})
	assert.True(t, errors.Is(err, tuner.ErrEmptyChoice), "no algorithm means no root choice")
}
