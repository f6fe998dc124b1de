package metadata

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vk/heurconf/internal/ctxlog"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/registry"
)

var (
	// ErrUnresolvable marks a component that cannot be configured automatically.
	ErrUnresolvable = errors.New("component is not autoconfigurable")
	// ErrUnknownComponent is returned for names the extractor never saw.
	ErrUnknownComponent = errors.New("unknown component")
)

// UnresolvableError explains why a component was dropped.
type UnresolvableError struct {
	Component string
	Reason    string
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("component '%s' is not autoconfigurable: %s", e.Component, e.Reason)
}

func (e *UnresolvableError) Is(target error) bool { return target == ErrUnresolvable }

type result struct {
	params []params.Param
	err    error
}

// Extractor resolves the construction parameters of every registered
// component once, and serves them read-only afterwards.
type Extractor struct {
	results map[string]result
}

// New extracts metadata for every component in reg. Unresolvable types are
// logged and kept as errors; they never fail construction.
func New(ctx context.Context, reg *registry.Registry) *Extractor {
	logger := ctxlog.FromContext(ctx)
	e := &Extractor{results: make(map[string]result)}

	for _, t := range reg.AllComponents() {
		ps, err := extract(reg, t)
		if err != nil {
			if errors.Is(err, ErrUnresolvable) {
				logger.Debug("Component is not autoconfigurable, skipping.", "component", t.Name, "reason", err)
			} else {
				logger.Warn("Component has invalid parameter metadata.", "component", t.Name, "error", err)
			}
		}
		e.results[t.Name] = result{params: ps, err: err}
	}

	logger.Debug("Parameter metadata extracted.", "components", len(e.results), "autoconfigurable", len(e.Autoconfigurable()))
	return e
}

func extract(reg *registry.Registry, t registry.ComponentType) ([]params.Param, error) {
	var declared []params.Param
	if f, ok := reg.Factory(t.Name); ok {
		declared = f.Params()
	} else if t.Constructor != nil {
		declared = t.Constructor.Params
	} else {
		return nil, &UnresolvableError{Component: t.Name, Reason: "no autoconfig constructor or factory"}
	}

	out := make([]params.Param, 0, len(declared))
	for _, p := range declared {
		switch {
		case p.Kind == params.KindComponent || (p.Kind == params.KindUndeclared && p.Type == params.TypeComponent && p.Capability != ""):
			if !reg.HasCapability(p.Capability) {
				return nil, &UnresolvableError{Component: t.Name, Reason: fmt.Sprintf("parameter '%s' has unknown capability '%s'", p.Name, p.Capability)}
			}
			p.Kind = params.KindComponent
			p.Type = params.TypeComponent
		case p.Kind == params.KindUndeclared:
			return nil, &UnresolvableError{Component: t.Name, Reason: fmt.Sprintf("parameter '%s' of type %s has no metadata", p.Name, p.Type)}
		}
		p.Choices = append([]string(nil), p.Choices...)
		out = append(out, p)
	}

	if err := params.Validate(t.Name, out); err != nil {
		return nil, err
	}
	return out, nil
}

func clone(ps []params.Param) []params.Param {
	out := make([]params.Param, len(ps))
	for i, p := range ps {
		p.Choices = append([]string(nil), p.Choices...)
		out[i] = p
	}
	return out
}

// ParametersOf returns the resolved parameters of a component. The error is
// ErrUnresolvable (via errors.Is) for types that cannot be configured, a
// *params.InvalidParameterError for broken declarations, and
// ErrUnknownComponent for names that were never registered.
func (e *Extractor) ParametersOf(name string) ([]params.Param, error) {
	r, ok := e.results[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownComponent, name)
	}
	if r.err != nil {
		return nil, r.err
	}
	return clone(r.params), nil
}

// Resolvable reports whether ParametersOf would succeed for name.
func (e *Extractor) Resolvable(name string) bool {
	r, ok := e.results[name]
	return ok && r.err == nil
}

// Autoconfigurable returns the names of all resolvable components, sorted.
func (e *Extractor) Autoconfigurable() []string {
	var names []string
	for name, r := range e.results {
		if r.err == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
