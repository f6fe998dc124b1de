package params

import "fmt"

// Kind classifies how a parameter's value is chosen.
type Kind int

const (
	// KindUndeclared marks a parameter with neither metadata nor a capability
	// type. A constructor holding one cannot be configured automatically.
	KindUndeclared Kind = iota
	KindInteger
	KindReal
	KindCategorical
	KindOrdinal
	// KindProvided values are supplied by the runtime caller, e.g. the
	// problem instance, and are invisible to the tuner.
	KindProvided
	// KindComponent values are themselves built from a component expression.
	KindComponent
)

var kindNames = [...]string{
	KindUndeclared:  "undeclared",
	KindInteger:     "integer",
	KindReal:        "real",
	KindCategorical: "categorical",
	KindOrdinal:     "ordinal",
	KindProvided:    "provided",
	KindComponent:   "component",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Type is the host value type a constructor receives for a parameter.
type Type int

const (
	TypeAny Type = iota
	TypeInt
	TypeReal
	TypeBool
	TypeChar
	TypeString
	TypeIntList
	TypeRealList
	TypeStringList
	TypeComponent
)

var typeNames = [...]string{
	TypeAny:        "any",
	TypeInt:        "int",
	TypeReal:       "real",
	TypeBool:       "bool",
	TypeChar:       "char",
	TypeString:     "string",
	TypeIntList:    "list(int)",
	TypeRealList:   "list(real)",
	TypeStringList: "list(string)",
	TypeComponent:  "component",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Primitive reports whether the type has no null value.
func (t Type) Primitive() bool {
	switch t {
	case TypeInt, TypeReal, TypeBool, TypeChar:
		return true
	}
	return false
}

// Param describes one formal parameter of a component's construction.
type Param struct {
	Name string
	Kind Kind
	Type Type

	// Min and Max bound integer and real parameters, inclusive.
	Min, Max float64

	// Choices holds the literal source text of each categorical or ordinal
	// value, in declaration order.
	Choices []string

	// Capability is the tag every value of a component parameter satisfies.
	Capability string

	Nullable bool

	// Default is a configuration-language literal used when the argument is
	// omitted. Empty means no default.
	Default string
}

// Int declares an integer parameter in [min, max].
func Int(name string, min, max int) Param {
	return Param{Name: name, Kind: KindInteger, Type: TypeInt, Min: float64(min), Max: float64(max)}
}

// Real declares a real parameter in [min, max].
func Real(name string, min, max float64) Param {
	return Param{Name: name, Kind: KindReal, Type: TypeReal, Min: min, Max: max}
}

// Categorical declares an unordered choice between literal values of type t.
func Categorical(name string, t Type, choices ...string) Param {
	return Param{Name: name, Kind: KindCategorical, Type: t, Choices: choices}
}

// Ordinal declares an ordered choice between literal values of type t.
func Ordinal(name string, t Type, choices ...string) Param {
	return Param{Name: name, Kind: KindOrdinal, Type: t, Choices: choices}
}

// Provided declares a parameter whose value comes from the caller.
func Provided(name string) Param {
	return Param{Name: name, Kind: KindProvided, Type: TypeAny, Nullable: true}
}

// Component declares a parameter built from another component satisfying capability.
func Component(name, capability string) Param {
	return Param{Name: name, Kind: KindComponent, Type: TypeComponent, Capability: capability, Nullable: true}
}

// Undeclared declares a parameter that only has a host type.
func Undeclared(name string, t Type) Param {
	return Param{Name: name, Kind: KindUndeclared, Type: t, Nullable: !t.Primitive()}
}

// WithDefault returns a copy of p that falls back to the literal when omitted.
func (p Param) WithDefault(literal string) Param {
	p.Default = literal
	return p
}

// OrNull returns a copy of p that accepts null and may be omitted.
func (p Param) OrNull() Param {
	p.Nullable = true
	return p
}

// Recursive reports whether the parameter expands into child components.
func (p Param) Recursive() bool {
	return p.Kind == KindComponent
}

func (p Param) String() string {
	switch p.Kind {
	case KindInteger:
		return fmt.Sprintf("%s integer[%d, %d]", p.Name, int64(p.Min), int64(p.Max))
	case KindReal:
		return fmt.Sprintf("%s real[%g, %g]", p.Name, p.Min, p.Max)
	case KindCategorical, KindOrdinal:
		return fmt.Sprintf("%s %s%v", p.Name, p.Kind, p.Choices)
	case KindComponent:
		return fmt.Sprintf("%s component(%s)", p.Name, p.Capability)
	default:
		return fmt.Sprintf("%s %s(%s)", p.Name, p.Kind, p.Type)
	}
}
