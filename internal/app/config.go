package app

import (
	"context"
	"fmt"

	"github.com/vk/heurconf/internal/config"
)

// Config holds the entrypoint-level inputs of an App: where the settings
// files live and the values given on the command line. Zero values leave
// the file settings untouched.
type Config struct {
	SettingsPaths []string

	LogLevel  string
	LogFormat string
	MaxDepth  int
	MaxRepeat int
	Workers   int
}

// Settings loads the settings files and applies the overrides on top.
func (c *Config) Settings(ctx context.Context) (*config.Settings, error) {
	s, err := config.Load(ctx, c.SettingsPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	override(&s.Logging.Level, c.LogLevel)
	override(&s.Logging.Format, c.LogFormat)
	override(&s.Space.MaxDepth, c.MaxDepth)
	override(&s.Space.MaxRepeat, c.MaxRepeat)
	override(&s.Space.Workers, c.Workers)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func override[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
