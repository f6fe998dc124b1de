package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/heurconf/internal/ctxlog"
)

// Discover builds a fresh registry from the given modules. Every module is
// registered even when an earlier one failed; all problems are returned
// together as a *DiscoveryError. The returned registry is not frozen so
// that aliases can still be added.
func Discover(ctx context.Context, modules ...Module) (*Registry, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry discovery started.", "module_count", len(modules))

	r := New()
	r.logger = logger

	var problems []error
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			for _, p := range flatten(err) {
				problems = append(problems, fmt.Errorf("module '%s': %w", m.Name(), p))
			}
			continue
		}
		logger.Debug("Module registered.", "module", m.Name())
	}

	if len(problems) > 0 {
		return nil, &DiscoveryError{Problems: problems}
	}

	logger.Info("Registry discovery finished.", "components", len(r.components), "factories", len(r.factories), "capabilities", len(r.capabilities))
	return r, nil
}

// Lookup selects modules from a catalog by identifier, preserving the order
// of ids. Unknown identifiers are reported together.
func Lookup(catalog map[string]Module, ids ...string) ([]Module, error) {
	if len(ids) == 0 {
		for id := range catalog {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}

	var problems []error
	out := make([]Module, 0, len(ids))
	for _, id := range ids {
		m, ok := catalog[id]
		if !ok {
			problems = append(problems, fmt.Errorf("unknown module '%s'", id))
			continue
		}
		out = append(out, m)
	}
	if len(problems) > 0 {
		return nil, &DiscoveryError{Problems: problems}
	}
	return out, nil
}
