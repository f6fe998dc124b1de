// Package annealing provides simulated annealing and iterated greedy.
//
// SimulatedAnnealing is declared here without a constructor and built
// through annealingFactory, which the registry adopts for it.
package annealing

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/vk/heurconf/internal/heuristic"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/registry"
)

// Cooling rates accepted by SimulatedAnnealing, slowest last.
var coolingRates = []string{"0.8", "0.9", "0.95", "0.99"}

// Destruction strategies of IteratedGreedy.
const (
	DestroyRandom  = "random"
	DestroyWorst   = "worst"
	DestroyRelated = "related"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Name() string { return "annealing" }

// Register registers SimulatedAnnealing with its factory and IteratedGreedy.
func (m *Module) Register(r *registry.Registry) error {
	if err := heuristic.RegisterCapabilities(r); err != nil {
		return err
	}
	f := annealingFactory{}
	if err := r.Register(f.Produces()); err != nil {
		return err
	}
	if err := r.RegisterFactory(f); err != nil {
		return err
	}
	return r.Register(registry.ComponentType{
		Name:         "IteratedGreedy",
		Capabilities: []string{heuristic.CapAlgorithm},
		Description:  "Alternates partial destruction with greedy reconstruction.",
		Constructor: &registry.Constructor{
			Params: []params.Param{
				params.Categorical("destruction", params.TypeString, quote(DestroyRandom), quote(DestroyWorst), quote(DestroyRelated)),
				params.Component("constructive", heuristic.CapConstructive),
			},
			New: newIteratedGreedy,
		},
	})
}

func quote(s string) string { return strconv.Quote(s) }

type annealingFactory struct{}

func (annealingFactory) Produces() registry.ComponentType {
	return registry.ComponentType{
		Name:         "SimulatedAnnealing",
		Capabilities: []string{heuristic.CapAlgorithm},
		Description:  "Accepts worsening moves with a temperature-controlled probability.",
	}
}

func (annealingFactory) Params() []params.Param {
	return []params.Param{
		params.Real("initialTemp", 1, 1000),
		params.Ordinal("cooling", params.TypeReal, coolingRates...),
		params.Component("neighborhood", heuristic.CapNeighborhood),
	}
}

func (annealingFactory) New(args params.Args) (any, error) {
	n, err := params.Get[heuristic.Neighborhood](args, "neighborhood")
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errors.New("simulated annealing needs a neighborhood")
	}
	cooling := args.Float("cooling")
	if cooling <= 0 || cooling >= 1 {
		return nil, fmt.Errorf("cooling rate %g outside (0, 1)", cooling)
	}
	return &SimulatedAnnealing{
		InitialTemp:  args.Float("initialTemp"),
		Cooling:      cooling,
		Neighborhood: n,
	}, nil
}

type SimulatedAnnealing struct {
	heuristic.IsAlgorithm
	InitialTemp  float64
	Cooling      float64
	Neighborhood heuristic.Neighborhood
}

func (sa *SimulatedAnnealing) String() string {
	return heuristic.Expr("SimulatedAnnealing",
		"initialTemp", sa.InitialTemp,
		"cooling", sa.Cooling,
		"neighborhood", sa.Neighborhood,
	)
}

type IteratedGreedy struct {
	heuristic.IsAlgorithm
	Destruction  string
	Constructive heuristic.Constructive
}

func newIteratedGreedy(args params.Args) (any, error) {
	c, err := params.Get[heuristic.Constructive](args, "constructive")
	if err != nil {
		return nil, err
	}
	return &IteratedGreedy{Destruction: args.Text("destruction"), Constructive: c}, nil
}

func (ig *IteratedGreedy) String() string {
	return heuristic.Expr("IteratedGreedy", "destruction", ig.Destruction, "constructive", ig.Constructive)
}
