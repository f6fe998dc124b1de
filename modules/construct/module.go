// Package construct provides constructive heuristics that build an initial
// solution from scratch.
package construct

import (
	"fmt"

	"github.com/vk/heurconf/internal/heuristic"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Name() string { return "construct" }

// Register registers the constructive components.
func (m *Module) Register(r *registry.Registry) error {
	if err := heuristic.RegisterCapabilities(r); err != nil {
		return err
	}
	return r.RegisterAll(
		registry.ComponentType{
			Name:         "RandomConstructive",
			Capabilities: []string{heuristic.CapConstructive},
			Description:  "Builds a solution by adding random feasible elements.",
			Constructor: &registry.Constructor{
				New: func(params.Args) (any, error) { return &Random{}, nil },
			},
		},
		registry.ComponentType{
			Name:         "GreedyRandomConstructive",
			Capabilities: []string{heuristic.CapConstructive},
			Description:  "Picks elements from a restricted candidate list.",
			Constructor: &registry.Constructor{
				Params: []params.Param{params.Real("alpha", 0, 1).WithDefault("0.5")},
				New:    newGreedyRandom,
			},
		},
		registry.ComponentType{
			Name:         "BestOfConstructive",
			Capabilities: []string{heuristic.CapConstructive},
			Description:  "Runs two constructives and keeps the better solution.",
			Constructor: &registry.Constructor{
				Params: []params.Param{
					params.Component("first", heuristic.CapConstructive),
					params.Component("second", heuristic.CapConstructive),
				},
				New: newBestOf,
			},
		},
		// Built from code only; it has no autoconfig constructor.
		registry.ComponentType{
			Name:         "ManualConstructive",
			Capabilities: []string{heuristic.CapConstructive},
			Description:  "Replays a fixed solution supplied in code.",
		},
	)
}

// Random adds random feasible elements until the solution is complete.
type Random struct{ heuristic.IsConstructive }

func (c *Random) String() string { return heuristic.Expr("RandomConstructive") }

// GreedyRandom is the GRASP construction: alpha 0 is pure greedy, 1 pure random.
type GreedyRandom struct {
	heuristic.IsConstructive
	Alpha float64
}

func newGreedyRandom(args params.Args) (any, error) {
	return &GreedyRandom{Alpha: args.Float("alpha")}, nil
}

func (c *GreedyRandom) String() string {
	return heuristic.Expr("GreedyRandomConstructive", "alpha", c.Alpha)
}

// BestOf runs both constructives.
type BestOf struct {
	heuristic.IsConstructive
	First, Second heuristic.Constructive
}

func newBestOf(args params.Args) (any, error) {
	first, err := params.Get[heuristic.Constructive](args, "first")
	if err != nil {
		return nil, err
	}
	second, err := params.Get[heuristic.Constructive](args, "second")
	if err != nil {
		return nil, err
	}
	if first == nil || second == nil {
		return nil, fmt.Errorf("best of constructive needs two constructives")
	}
	return &BestOf{First: first, Second: second}, nil
}

func (c *BestOf) String() string {
	return heuristic.Expr("BestOfConstructive", "first", c.First, "second", c.Second)
}
