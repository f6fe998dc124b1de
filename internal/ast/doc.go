// Package ast declares the syntax tree of the component configuration
// language, e.g. `GRASP{alpha=0.5, improver=VND{}}`.
//
// Node is a closed sum type: the literal kinds plus Component. Consumers
// switch over the concrete pointer types. Trees are never modified after
// the parser returns them.
package ast
