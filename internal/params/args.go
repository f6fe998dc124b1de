package params

import (
	"fmt"
	"sort"
)

// Args holds the converted argument values handed to a constructor or
// factory. Omitted nullable parameters are present with a nil value.
type Args struct {
	values map[string]any
}

// NewArgs wraps a value map. The map is not copied.
func NewArgs(values map[string]any) Args {
	if values == nil {
		values = map[string]any{}
	}
	return Args{values: values}
}

// Has reports whether an argument was bound, even to nil.
func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// Value returns the raw bound value.
func (a Args) Value(name string) any {
	return a.values[name]
}

// Names returns the bound argument names, sorted.
func (a Args) Names() []string {
	names := make([]string, 0, len(a.values))
	for k := range a.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (a Args) Int(name string) int { v, _ := a.values[name].(int); return v }
func (a Args) Float(name string) float64 { v, _ := a.values[name].(float64); return v }
func (a Args) Bool(name string) bool { v, _ := a.values[name].(bool); return v }
func (a Args) Char(name string) rune { v, _ := a.values[name].(rune); return v }
func (a Args) Text(name string) string { v, _ := a.values[name].(string); return v }
func (a Args) Ints(name string) []int { v, _ := a.values[name].([]int); return v }
func (a Args) Floats(name string) []float64 { v, _ := a.values[name].([]float64); return v }
func (a Args) Strings(name string) []string { v, _ := a.values[name].([]string); return v }

// Get returns the argument as T. A missing or nil argument yields the zero
// value; a value of another type is an error naming the argument.
func Get[T any](a Args, name string) (T, error) {
	var zero T
	v, ok := a.values[name]
	if !ok || v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("argument %q has unexpected type %T", name, v)
	}
	return t, nil
}
