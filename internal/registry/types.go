package registry

import "github.com/vk/heurconf/internal/params"

// Object is the universal root capability. It is never indexed.
const Object = "Object"

// ComponentType describes a concrete component implementation.
type ComponentType struct {
	Name string
	// Capabilities lists the direct capabilities; ancestors are added by
	// the registry from the capability hierarchy.
	Capabilities []string
	// Abstract types are not instantiable and are skipped on registration.
	Abstract    bool
	Description string
	// Constructor is the autoconfig entry point. Nil means the type can
	// only be built through a factory.
	Constructor *Constructor
}

// Constructor builds a component from converted arguments.
type Constructor struct {
	Params []params.Param
	New    func(args params.Args) (any, error)
}

// Factory is an external constructor for one component type.
type Factory interface {
	// Produces returns the type this factory builds.
	Produces() ComponentType
	Params() []params.Param
	New(args params.Args) (any, error)
}

// Module is a package of components scanned during discovery.
type Module interface {
	Name() string
	Register(r *Registry) error
}

// Resolved is the outcome of looking a configuration name up.
type Resolved struct {
	Type ComponentType
	// Factory is set when the type is built through a factory.
	Factory Factory
	// Alias holds the name that was looked up when it was an alias.
	Alias string
}

// Params returns the declared construction parameters, preferring the factory.
func (r Resolved) Params() ([]params.Param, bool) {
	if r.Factory != nil {
		return r.Factory.Params(), true
	}
	if r.Type.Constructor != nil {
		return r.Type.Constructor.Params, true
	}
	return nil, false
}

// New invokes the factory or constructor.
func (r Resolved) New(args params.Args) (any, error) {
	if r.Factory != nil {
		return r.Factory.New(args)
	}
	return r.Type.Constructor.New(args)
}
