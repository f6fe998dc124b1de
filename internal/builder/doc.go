/*
Package builder turns parsed configuration expressions into live component
values.

A component expression is resolved through the registry (one alias hop,
factory before constructor), its arguments are built depth-first and left to
right, and only then is the constructor invoked. This makes an error in a
nested component surface before any outer construction is attempted.

Literal arguments are converted with go-cty: the literal becomes a cty.Value,
is converted to the parameter's cty type using only safe conversions, and is
decoded into the Go value the constructor receives:

	int        <- integer literal
	float64    <- integer or float literal
	bool       <- true, false
	rune       <- one-character literal
	string     <- string literal
	[]int, []float64, []string <- array literal

A Builder holds no mutable state and may be used from many goroutines.
*/
package builder
