// Package heuristic declares the capabilities of the built-in component
// catalog and the Go interfaces that go with them.
//
// Components in modules/ satisfy an interface by embedding the matching
// marker (Algorithm, Constructive, ...). The markers carry no behavior;
// algorithms themselves run outside this repository.
package heuristic

import (
	"fmt"
	"strings"

	"github.com/vk/heurconf/internal/ast"
	"github.com/vk/heurconf/internal/registry"
)

// Capability names.
const (
	CapAlgorithm    = "Algorithm"
	CapConstructive = "Constructive"
	CapImprover     = "Improver"
	CapLocalSearch  = "LocalSearch"
	CapShake        = "Shake"
	CapNeighborhood = "Neighborhood"
)

// RegisterCapabilities declares the capability hierarchy.
func RegisterCapabilities(r *registry.Registry) error {
	for _, c := range []struct {
		name    string
		parents []string
	}{
		{CapAlgorithm, nil},
		{CapConstructive, nil},
		{CapImprover, nil},
		{CapLocalSearch, []string{CapImprover}},
		{CapShake, nil},
		{CapNeighborhood, nil},
	} {
		if err := r.RegisterCapability(c.name, c.parents...); err != nil {
			return err
		}
	}
	return nil
}

// Component is implemented by every catalog component. String returns the
// configuration expression that builds an equal component.
type Component interface {
	fmt.Stringer
}

type (
	Algorithm interface {
		Component
		algorithm()
	}
	Constructive interface {
		Component
		constructive()
	}
	Improver interface {
		Component
		improver()
	}
	LocalSearch interface {
		Improver
		localSearch()
	}
	Shake interface {
		Component
		shake()
	}
	Neighborhood interface {
		Component
		neighborhood()
	}
)

// Markers, embedded by components to satisfy the interfaces above.
type (
	IsAlgorithm    struct{}
	IsConstructive struct{}
	IsImprover     struct{}
	IsLocalSearch  struct{ IsImprover }
	IsShake        struct{}
	IsNeighborhood struct{}
)

func (IsAlgorithm) algorithm()       {}
func (IsConstructive) constructive() {}
func (IsImprover) improver()         {}
func (IsLocalSearch) localSearch()   {}
func (IsShake) shake()               {}
func (IsNeighborhood) neighborhood() {}

// Instance is the problem instance handed to algorithms by the caller.
type Instance struct {
	Name string
	Size int
}

// Expr renders a component expression from a name and alternating
// parameter names and values, e.g. Expr("VNS", "maxK", 3, "shake", s).
func Expr(name string, kv ...any) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('{')
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%v=%s", kv[i], value(kv[i+1]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func value(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case Component:
		return v.String()
	case int:
		return ast.Format(&ast.Int{Value: int64(v)})
	case float64:
		return ast.Format(&ast.Float{Value: v})
	case bool:
		return ast.Format(&ast.Bool{Value: v})
	case rune:
		return ast.Format(&ast.Char{Value: v})
	case string:
		return ast.Format(&ast.String{Value: v})
	}
	return fmt.Sprint(v)
}
