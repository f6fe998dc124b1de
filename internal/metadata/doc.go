// Package metadata decides how each registered component is constructed.
//
// A factory-backed type takes its parameters straight from the factory. A
// constructor-backed type keeps each explicitly described parameter, turns a
// parameter typed with a known capability into a recursive component
// parameter, and is dropped as unresolvable as soon as one parameter has
// neither. Unresolvable types are logged, not fatal: they simply never
// appear in the candidate space.
package metadata
