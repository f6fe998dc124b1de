package config

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Settings is the resolved configuration of one application instance.
type Settings struct {
	// Modules selects catalog modules by identifier. Empty means all.
	Modules []string
	// Aliases maps alias names to their targets.
	Aliases map[string]string
	Space   Space
	Logging Logging
}

// Space holds the candidate-space explorer settings.
type Space struct {
	RootCapability string
	MaxDepth       int
	MaxRepeat      int
	Workers        int
	CacheSize      int
}

// Logging holds the logger settings.
type Logging struct {
	Level  string
	Format string
}

// Default returns the settings used when no file is given.
func Default() *Settings {
	return &Settings{
		Aliases: map[string]string{},
		Space: Space{
			RootCapability: "Algorithm",
			MaxDepth:       4,
			MaxRepeat:      1,
			Workers:        4,
			CacheSize:      16,
		},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

var (
	identifier   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"text": true, "json": true}
)

// Validate reports every invalid setting at once.
func (s *Settings) Validate() error {
	var problems []string
	if !identifier.MatchString(s.Space.RootCapability) {
		problems = append(problems, fmt.Sprintf("space.root_capability %q is not a valid capability name", s.Space.RootCapability))
	}
	if s.Space.MaxDepth < 1 {
		problems = append(problems, fmt.Sprintf("space.max_depth must be positive, got %d", s.Space.MaxDepth))
	}
	if s.Space.MaxRepeat < 1 {
		problems = append(problems, fmt.Sprintf("space.max_repeat must be positive, got %d", s.Space.MaxRepeat))
	}
	if s.Space.Workers < 1 {
		problems = append(problems, fmt.Sprintf("space.workers must be positive, got %d", s.Space.Workers))
	}
	if s.Space.CacheSize < 0 {
		problems = append(problems, fmt.Sprintf("space.cache_size must not be negative, got %d", s.Space.CacheSize))
	}
	if !validLevels[s.Logging.Level] {
		problems = append(problems, fmt.Sprintf("logging.level %q must be one of debug, info, warn, error", s.Logging.Level))
	}
	if !validFormats[s.Logging.Format] {
		problems = append(problems, fmt.Sprintf("logging.format %q must be text or json", s.Logging.Format))
	}
	seen := make(map[string]bool, len(s.Modules))
	for _, m := range s.Modules {
		if seen[m] {
			problems = append(problems, fmt.Sprintf("discovery.modules lists %q more than once", m))
		}
		seen[m] = true
	}
	for _, alias := range s.AliasNames() {
		if s.Aliases[alias] == "" {
			problems = append(problems, fmt.Sprintf("alias %q has an empty target", alias))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	errs := make([]error, len(problems))
	for i, p := range problems {
		errs[i] = errors.New("- " + p)
	}
	return fmt.Errorf("invalid settings:\n%w", errors.Join(errs...))
}

// AliasNames returns the alias names in sorted order.
func (s *Settings) AliasNames() []string {
	names := make([]string, 0, len(s.Aliases))
	for name := range s.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
