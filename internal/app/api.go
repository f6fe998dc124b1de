package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vk/heurconf/internal/heuristic"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/registry"
	"github.com/vk/heurconf/internal/space"
	"github.com/vk/heurconf/internal/tuner"
)

// ErrNotAlgorithm is returned when a configuration string builds something
// that is not an algorithm.
var ErrNotAlgorithm = errors.New("component is not an algorithm")

// ComponentInfo describes one discovered component.
type ComponentInfo struct {
	Name         string
	Capabilities []string
	Description  string
	Factory      bool
	// Params is empty when the component is not autoconfigurable; Reason
	// then says why.
	Params []params.Param
	Reason string
}

// Autoconfigurable reports whether the component takes part in the
// candidate space.
func (c ComponentInfo) Autoconfigurable() bool { return c.Reason == "" }

// BuildComponentByName builds a component from host values. A string given
// for a component parameter is parsed as a configuration expression.
func (a *App) BuildComponentByName(ctx context.Context, name string, args map[string]any) (any, error) {
	return a.builder.BuildComponent(a.Context(ctx), name, args)
}

// BuildFromString parses and builds any configuration expression, including
// plain literals.
func (a *App) BuildFromString(ctx context.Context, s string) (any, error) {
	v, err := a.builder.BuildString(a.Context(ctx), s)
	if err != nil {
		return nil, fmt.Errorf("could not build component from string %q: %w", s, err)
	}
	return v, nil
}

// BuildAlgorithmFromString parses and builds a configuration string whose
// top-level component must be an algorithm.
func (a *App) BuildAlgorithmFromString(ctx context.Context, s string) (heuristic.Algorithm, error) {
	v, err := a.BuildFromString(ctx, s)
	if err != nil {
		return nil, err
	}
	alg, ok := v.(heuristic.Algorithm)
	if !ok {
		return nil, fmt.Errorf("could not build component from string %q: %w: got %T", s, ErrNotAlgorithm, v)
	}
	return alg, nil
}

// Components lists the discovered components with the capability, ordered
// by name. An empty capability lists every component.
func (a *App) Components(capability string) []ComponentInfo {
	var types []registry.ComponentType
	if capability == "" {
		types = a.registry.AllComponents()
	} else {
		types = a.registry.ByCapability(capability)
	}

	out := make([]ComponentInfo, 0, len(types))
	for _, t := range types {
		_, factory := a.registry.Factory(t.Name)
		info := ComponentInfo{
			Name:         t.Name,
			Capabilities: a.registry.Capabilities(t.Name),
			Description:  t.Description,
			Factory:      factory,
		}
		ps, err := a.meta.ParametersOf(t.Name)
		if err != nil {
			info.Reason = err.Error()
		} else {
			info.Params = ps
		}
		out = append(out, info)
	}
	return out
}

// Bounds returns the exploration bounds from the settings.
func (a *App) Bounds() space.Bounds {
	return space.Bounds{MaxDepth: a.settings.Space.MaxDepth, MaxRepeat: a.settings.Space.MaxRepeat}
}

// Space explores the candidate space within the configured bounds.
func (a *App) Space(ctx context.Context) (*space.Forest, error) {
	return a.explorer.Explore(a.Context(ctx), a.Bounds())
}

// ExportParameters writes the tuner parameter file of the candidate space.
func (a *App) ExportParameters(ctx context.Context, w io.Writer) error {
	f, err := a.Space(ctx)
	if err != nil {
		return err
	}
	if err := tuner.Write(w, f); err != nil {
		return fmt.Errorf("failed to export parameters: %w", err)
	}
	a.logger.Info("Tuner parameters exported.", "roots", len(f.Roots), "nodes", f.Size())
	return nil
}

// DecodeAssignment turns the "--name=value" arguments of a tuner run back
// into the configuration string of the chosen algorithm.
func (a *App) DecodeAssignment(ctx context.Context, args []string) (string, error) {
	assignment, err := tuner.ParseArgs(args)
	if err != nil {
		return "", err
	}
	f, err := a.Space(ctx)
	if err != nil {
		return "", err
	}
	return tuner.DecodeString(f, assignment)
}
