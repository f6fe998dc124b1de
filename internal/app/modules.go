package app

import (
	"sort"

	"github.com/vk/heurconf/internal/registry"
	"github.com/vk/heurconf/modules/annealing"
	"github.com/vk/heurconf/modules/construct"
	"github.com/vk/heurconf/modules/grasp"
	"github.com/vk/heurconf/modules/improve"
	"github.com/vk/heurconf/modules/shake"
	"github.com/vk/heurconf/modules/vns"
)

// coreModules is the definitive list of all modules that are compiled into
// the heurconf binary, keyed by the identifier used in settings files.
var coreModules = catalog(
	&construct.Module{},
	&improve.Module{},
	&shake.Module{},
	&grasp.Module{},
	&vns.Module{},
	&annealing.Module{},
)

func catalog(modules ...registry.Module) map[string]registry.Module {
	out := make(map[string]registry.Module, len(modules))
	for _, m := range modules {
		out[m.Name()] = m
	}
	return out
}

// ModuleNames lists the identifiers of the compiled-in modules.
func ModuleNames() []string {
	names := make([]string, 0, len(coreModules))
	for name := range coreModules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
