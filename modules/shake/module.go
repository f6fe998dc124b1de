// Package shake provides perturbations used to escape local optima.
package shake

import (
	"github.com/vk/heurconf/internal/heuristic"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Name() string { return "shake" }

// Register registers the shake components.
func (m *Module) Register(r *registry.Registry) error {
	if err := heuristic.RegisterCapabilities(r); err != nil {
		return err
	}
	return r.RegisterAll(
		registry.ComponentType{
			Name:         "RandomShake",
			Capabilities: []string{heuristic.CapShake},
			Description:  "Applies a number of random moves.",
			Constructor: &registry.Constructor{
				Params: []params.Param{params.Int("strength", 1, 5)},
				New: func(args params.Args) (any, error) {
					return &Random{Strength: args.Int("strength")}, nil
				},
			},
		},
		registry.ComponentType{
			Name:         "DestroyRepair",
			Capabilities: []string{heuristic.CapShake},
			Description:  "Removes a share of the solution and rebuilds it.",
			Constructor: &registry.Constructor{
				Params: []params.Param{
					params.Real("ratio", 0.05, 0.5),
					params.Component("constructive", heuristic.CapConstructive),
				},
				New: newDestroyRepair,
			},
		},
	)
}

// Random applies Strength random moves.
type Random struct {
	heuristic.IsShake
	Strength int
}

func (s *Random) String() string {
	return heuristic.Expr("RandomShake", "strength", s.Strength)
}

// DestroyRepair removes Ratio of the elements and lets Constructive rebuild.
type DestroyRepair struct {
	heuristic.IsShake
	Ratio        float64
	Constructive heuristic.Constructive
}

func newDestroyRepair(args params.Args) (any, error) {
	c, err := params.Get[heuristic.Constructive](args, "constructive")
	if err != nil {
		return nil, err
	}
	return &DestroyRepair{Ratio: args.Float("ratio"), Constructive: c}, nil
}

func (s *DestroyRepair) String() string {
	return heuristic.Expr("DestroyRepair", "ratio", s.Ratio, "constructive", s.Constructive)
}
