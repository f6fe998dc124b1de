package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/heurconf/internal/builder"
	"github.com/vk/heurconf/internal/config"
	"github.com/vk/heurconf/internal/ctxlog"
	"github.com/vk/heurconf/internal/metadata"
	"github.com/vk/heurconf/internal/registry"
	"github.com/vk/heurconf/internal/space"
)

// App encapsulates the application's dependencies and configuration. After
// NewApp returns, everything it holds is read-only and the App is safe for
// concurrent use.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	settings *config.Settings
	registry *registry.Registry
	meta     *metadata.Extractor
	builder  *builder.Builder
	explorer *space.Explorer
}

// NewApp is the constructor for the main application. It discovers the
// modules selected by the settings (or the given modules, when any),
// registers the configured aliases, freezes the registry and extracts
// parameter metadata. The App gets its own logger writing to outW.
func NewApp(outW io.Writer, settings *config.Settings, modules ...registry.Module) (*App, error) {
	if settings == nil {
		settings = config.Default()
	}
	logger := newLogger(settings.Logging, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		var err error
		if modules, err = registry.Lookup(coreModules, settings.Modules...); err != nil {
			return nil, fmt.Errorf("failed to select modules: %w", err)
		}
	}

	reg, err := registry.Discover(ctx, modules...)
	if err != nil {
		return nil, err
	}

	var aliasErrs []error
	for _, alias := range settings.AliasNames() {
		if err := reg.RegisterAlias(alias, settings.Aliases[alias]); err != nil {
			aliasErrs = append(aliasErrs, err)
		}
	}
	if err := errors.Join(aliasErrs...); err != nil {
		return nil, fmt.Errorf("failed to register aliases: %w", err)
	}
	reg.Freeze()
	logger.Debug("Registry frozen.", "components", len(reg.AllComponents()), "aliases", len(reg.Aliases()))

	meta := metadata.New(ctx, reg)
	explorer, err := space.NewExplorer(reg, meta,
		space.WithRootCapability(settings.Space.RootCapability),
		space.WithWorkers(settings.Space.Workers),
		space.WithCacheSize(settings.Space.CacheSize),
	)
	if err != nil {
		return nil, err
	}

	return &App{
		outW:     outW,
		logger:   logger,
		settings: settings,
		registry: reg,
		meta:     meta,
		builder:  builder.New(reg),
		explorer: explorer,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Settings returns the settings the App was created with.
func (a *App) Settings() *config.Settings {
	return a.settings
}

// Context returns ctx carrying the App's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
