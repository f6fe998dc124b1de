// Package improve provides local searches, their neighborhoods, and
// improver combinators.
package improve

import (
	"github.com/vk/heurconf/internal/heuristic"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Name() string { return "improve" }

// Register registers the improvement components.
func (m *Module) Register(r *registry.Registry) error {
	if err := heuristic.RegisterCapabilities(r); err != nil {
		return err
	}
	return r.RegisterAll(
		registry.ComponentType{
			Name:         "NullImprover",
			Capabilities: []string{heuristic.CapImprover},
			Description:  "Leaves the solution untouched.",
			Constructor: &registry.Constructor{
				New: func(params.Args) (any, error) { return &Null{}, nil },
			},
		},
		registry.ComponentType{
			Name:         "FirstImprovement",
			Capabilities: []string{heuristic.CapLocalSearch},
			Description:  "Applies the first improving move found.",
			Constructor: &registry.Constructor{
				Params: []params.Param{params.Component("neighborhood", heuristic.CapNeighborhood)},
				New:    newLocalSearch("FirstImprovement"),
			},
		},
		registry.ComponentType{
			Name:         "BestImprovement",
			Capabilities: []string{heuristic.CapLocalSearch},
			Description:  "Applies the best move of the whole neighborhood.",
			Constructor: &registry.Constructor{
				Params: []params.Param{params.Component("neighborhood", heuristic.CapNeighborhood)},
				New:    newLocalSearch("BestImprovement"),
			},
		},
		registry.ComponentType{
			Name:         "VND",
			Capabilities: []string{heuristic.CapLocalSearch},
			Description:  "Variable neighborhood descent over two local searches.",
			Constructor: &registry.Constructor{
				Params: []params.Param{
					params.Component("first", heuristic.CapLocalSearch),
					params.Component("second", heuristic.CapLocalSearch),
				},
				New: newVND,
			},
		},
		registry.ComponentType{
			Name:         "SequentialImprover",
			Capabilities: []string{heuristic.CapImprover},
			Description:  "Runs two improvers one after the other.",
			Constructor: &registry.Constructor{
				Params: []params.Param{
					params.Component("first", heuristic.CapImprover),
					params.Component("second", heuristic.CapImprover),
				},
				New: newSequential,
			},
		},
		registry.ComponentType{
			Name:         "SwapNeighborhood",
			Capabilities: []string{heuristic.CapNeighborhood},
			Description:  "Exchanges two elements.",
			Constructor: &registry.Constructor{
				New: func(params.Args) (any, error) { return &Swap{}, nil },
			},
		},
		registry.ComponentType{
			Name:         "InsertNeighborhood",
			Capabilities: []string{heuristic.CapNeighborhood},
			Description:  "Moves one element to another position.",
			Constructor: &registry.Constructor{
				Params: []params.Param{params.Int("maxDistance", 1, 10).WithDefault("3")},
				New: func(args params.Args) (any, error) {
					return &Insert{MaxDistance: args.Int("maxDistance")}, nil
				},
			},
		},
	)
}

// Null never changes the solution.
type Null struct{ heuristic.IsImprover }

func (*Null) String() string { return heuristic.Expr("NullImprover") }

// LocalSearch explores one neighborhood with a fixed move strategy.
type LocalSearch struct {
	heuristic.IsLocalSearch
	Strategy     string
	Neighborhood heuristic.Neighborhood
}

func newLocalSearch(strategy string) func(params.Args) (any, error) {
	return func(args params.Args) (any, error) {
		n, err := params.Get[heuristic.Neighborhood](args, "neighborhood")
		if err != nil {
			return nil, err
		}
		return &LocalSearch{Strategy: strategy, Neighborhood: n}, nil
	}
}

func (ls *LocalSearch) String() string {
	return heuristic.Expr(ls.Strategy, "neighborhood", ls.Neighborhood)
}

// VND restarts from the first local search whenever the second improves.
type VND struct {
	heuristic.IsLocalSearch
	First, Second heuristic.LocalSearch
}

func newVND(args params.Args) (any, error) {
	first, err := params.Get[heuristic.LocalSearch](args, "first")
	if err != nil {
		return nil, err
	}
	second, err := params.Get[heuristic.LocalSearch](args, "second")
	if err != nil {
		return nil, err
	}
	return &VND{First: first, Second: second}, nil
}

func (v *VND) String() string {
	return heuristic.Expr("VND", "first", v.First, "second", v.Second)
}

type Sequential struct {
	heuristic.IsImprover
	First, Second heuristic.Improver
}

func newSequential(args params.Args) (any, error) {
	first, err := params.Get[heuristic.Improver](args, "first")
	if err != nil {
		return nil, err
	}
	second, err := params.Get[heuristic.Improver](args, "second")
	if err != nil {
		return nil, err
	}
	return &Sequential{First: first, Second: second}, nil
}

func (s *Sequential) String() string {
	return heuristic.Expr("SequentialImprover", "first", s.First, "second", s.Second)
}

type Swap struct{ heuristic.IsNeighborhood }

func (*Swap) String() string { return heuristic.Expr("SwapNeighborhood") }

type Insert struct {
	heuristic.IsNeighborhood
	MaxDistance int
}

func (n *Insert) String() string {
	return heuristic.Expr("InsertNeighborhood", "maxDistance", n.MaxDistance)
}
