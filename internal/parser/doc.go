// Package parser turns configuration strings into ast trees.
//
// The grammar is small:
//
//	expr      = literal | array | component
//	array     = "[" [ expr { "," expr } ] "]"
//	component = Ident "{" [ arg { "," arg } ] "}"
//	arg       = Ident "=" expr
//
// Literals are null, true, false, integers, floats, double-quoted strings
// and single-quoted characters. Parsing stops at the first error.
package parser
