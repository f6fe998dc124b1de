// Package grasp provides the Greedy Randomized Adaptive Search Procedure.
package grasp

import (
	"errors"

	"github.com/vk/heurconf/internal/heuristic"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Name() string { return "grasp" }

// Register registers GRASP.
func (m *Module) Register(r *registry.Registry) error {
	if err := heuristic.RegisterCapabilities(r); err != nil {
		return err
	}
	return r.Register(registry.ComponentType{
		Name:         "GRASP",
		Capabilities: []string{heuristic.CapAlgorithm},
		Description:  "Repeats randomized construction followed by improvement.",
		Constructor: &registry.Constructor{
			Params: []params.Param{
				params.Int("iterations", 1, 1000).WithDefault("100"),
				params.Component("constructive", heuristic.CapConstructive),
				params.Component("improver", heuristic.CapImprover),
				params.Provided("instance"),
			},
			New: newGRASP,
		},
	})
}

// GRASP runs Iterations construct-and-improve rounds on Instance.
type GRASP struct {
	heuristic.IsAlgorithm
	Iterations   int
	Constructive heuristic.Constructive
	Improver     heuristic.Improver
	Instance     *heuristic.Instance
}

func newGRASP(args params.Args) (any, error) {
	c, err := params.Get[heuristic.Constructive](args, "constructive")
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.New("GRASP needs a constructive")
	}
	imp, err := params.Get[heuristic.Improver](args, "improver")
	if err != nil {
		return nil, err
	}
	inst, err := params.Get[*heuristic.Instance](args, "instance")
	if err != nil {
		return nil, err
	}
	return &GRASP{
		Iterations:   args.Int("iterations"),
		Constructive: c,
		Improver:     imp,
		Instance:     inst,
	}, nil
}

func (g *GRASP) String() string {
	return heuristic.Expr("GRASP",
		"iterations", g.Iterations,
		"constructive", g.Constructive,
		"improver", g.Improver,
	)
}
