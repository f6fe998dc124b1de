// Package vns provides General Variable Neighborhood Search.
package vns

import (
	"github.com/vk/heurconf/internal/heuristic"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func (m *Module) Name() string { return "vns" }

// Register registers VNS and its BasicVNS alias.
func (m *Module) Register(r *registry.Registry) error {
	if err := heuristic.RegisterCapabilities(r); err != nil {
		return err
	}
	err := r.Register(registry.ComponentType{
		Name:         "VNS",
		Capabilities: []string{heuristic.CapAlgorithm},
		Description:  "Shakes in growing neighborhoods until maxK, improving after each shake.",
		Constructor: &registry.Constructor{
			Params: []params.Param{
				params.Int("maxK", 1, 10),
				params.Component("constructive", heuristic.CapConstructive),
				params.Component("improver", heuristic.CapImprover),
				params.Component("shake", heuristic.CapShake),
			},
			New: newVNS,
		},
	})
	if err != nil {
		return err
	}
	return r.RegisterAlias("BasicVNS", "VNS")
}

type VNS struct {
	heuristic.IsAlgorithm
	MaxK         int
	Constructive heuristic.Constructive
	Improver     heuristic.Improver
	Shake        heuristic.Shake
}

func newVNS(args params.Args) (any, error) {
	v := &VNS{MaxK: args.Int("maxK")}
	var err error
	if v.Constructive, err = params.Get[heuristic.Constructive](args, "constructive"); err != nil {
		return nil, err
	}
	if v.Improver, err = params.Get[heuristic.Improver](args, "improver"); err != nil {
		return nil, err
	}
	if v.Shake, err = params.Get[heuristic.Shake](args, "shake"); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *VNS) String() string {
	return heuristic.Expr("VNS",
		"maxK", v.MaxK,
		"constructive", v.Constructive,
		"improver", v.Improver,
		"shake", v.Shake,
	)
}
