package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/heurconf/internal/ctxlog"
	"github.com/vk/heurconf/internal/fsutil"
)

// fileRoot is the top-level schema of a settings file.
type fileRoot struct {
	Discovery *discoveryBlock `hcl:"discovery,block"`
	Aliases   []*aliasBlock   `hcl:"alias,block"`
	Space     *spaceBlock     `hcl:"space,block"`
	Logging   *loggingBlock   `hcl:"logging,block"`
}

type discoveryBlock struct {
	Modules []string `hcl:"modules,optional"`
}

type aliasBlock struct {
	Name   string `hcl:"name,label"`
	Target string `hcl:"target"`
}

type spaceBlock struct {
	RootCapability *string `hcl:"root_capability,optional"`
	MaxDepth       *int    `hcl:"max_depth,optional"`
	MaxRepeat      *int    `hcl:"max_repeat,optional"`
	Workers        *int    `hcl:"workers,optional"`
	CacheSize      *int    `hcl:"cache_size,optional"`
}

type loggingBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

// Load reads every .hcl file found under paths, in order, on top of the
// defaults. Later files override scalar settings of earlier ones; aliases
// accumulate. Paths that do not exist are skipped. The result is validated.
func Load(ctx context.Context, paths ...string) (*Settings, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered settings files.", "count", len(files))

	s := Default()
	parser := hclparse.NewParser()
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", file, diags)
		}
		if err := s.merge(f.Body); err != nil {
			return nil, fmt.Errorf("failed to decode settings file %s: %w", file, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Settings loaded.", "modules", s.Modules, "aliases", len(s.Aliases), "max_depth", s.Space.MaxDepth, "max_repeat", s.Space.MaxRepeat)
	return s, nil
}

// Parse decodes a single settings document on top of the defaults.
func Parse(src []byte, filename string) (*Settings, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse settings: %w", diags)
	}
	s := Default()
	if err := s.merge(f.Body); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) merge(body hcl.Body) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, evalContext(), &root); diags.HasErrors() {
		return diags
	}

	if d := root.Discovery; d != nil && d.Modules != nil {
		s.Modules = d.Modules
	}
	for _, a := range root.Aliases {
		if prev, ok := s.Aliases[a.Name]; ok && prev != a.Target {
			return fmt.Errorf("alias %q declared with targets %q and %q", a.Name, prev, a.Target)
		}
		s.Aliases[a.Name] = a.Target
	}
	if sp := root.Space; sp != nil {
		set(&s.Space.RootCapability, sp.RootCapability)
		set(&s.Space.MaxDepth, sp.MaxDepth)
		set(&s.Space.MaxRepeat, sp.MaxRepeat)
		set(&s.Space.Workers, sp.Workers)
		set(&s.Space.CacheSize, sp.CacheSize)
	}
	if l := root.Logging; l != nil {
		set(&s.Logging.Level, l.Level)
		set(&s.Logging.Format, l.Format)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// evalContext exposes the process environment as env.NAME plus a few
// functions to settings expressions.
func evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !validEnvName(name) {
			continue
		}
		env[name] = cty.StringVal(value)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
		Functions: map[string]function.Function{
			"upper":    stdlib.UpperFunc,
			"lower":    stdlib.LowerFunc,
			"min":      stdlib.MinFunc,
			"max":      stdlib.MaxFunc,
			"coalesce": stdlib.CoalesceFunc,
		},
	}
}

// validEnvName reports whether name can be written as env.NAME.
func validEnvName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found. Files inside a directory are returned in lexical order.
func findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}

		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	return allFiles, nil
}
