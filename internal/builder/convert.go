package builder

import (
	"fmt"
	"unicode/utf8"

	"github.com/vk/heurconf/internal/ast"
	"github.com/vk/heurconf/internal/params"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ctyTypes covers the numeric and boolean host types. Strings and
// characters never go through cty; see text.
var ctyTypes = map[params.Type]cty.Type{
	params.TypeInt:      cty.Number,
	params.TypeReal:     cty.Number,
	params.TypeBool:     cty.Bool,
	params.TypeIntList:  cty.List(cty.Number),
	params.TypeRealList: cty.List(cty.Number),
}

// literalValue converts a literal node into a cty.Value. Components are not
// literals, even inside arrays.
func literalValue(n ast.Node) (cty.Value, error) {
	switch n := n.(type) {
	case *ast.Null:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case *ast.Bool:
		return cty.BoolVal(n.Value), nil
	case *ast.Int:
		return cty.NumberIntVal(n.Value), nil
	case *ast.Float:
		return cty.NumberFloatVal(n.Value), nil
	case *ast.String:
		return cty.StringVal(n.Value), nil
	case *ast.Char:
		return cty.StringVal(string(n.Value)), nil
	case *ast.Array:
		if len(n.Elements) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(n.Elements))
		for i, e := range n.Elements {
			v, err := literalValue(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = v
		}
		return cty.TupleVal(elems), nil
	}
	return cty.NilVal, mismatch("%s is not a literal", ast.Format(n))
}

// hostValue converts a Go value handed in by a caller into a cty.Value.
func hostValue(v any) (cty.Value, error) {
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, mismatch("unsupported value of type %T", v)
	}
	val, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return cty.NilVal, mismatch("%v", err)
	}
	return val, nil
}

// decode converts val to the parameter's host type. Only conversions cty
// considers safe are applied, so "5" never becomes 5 while 5 may become 5.0.
func decode(val cty.Value, t params.Type) (any, error) {
	want, ok := ctyTypes[t]
	if !ok {
		return nil, mismatch("parameter of type %s does not take a literal", t)
	}
	converted := val
	if !val.Type().Equals(want) {
		conv := convert.GetConversion(val.Type(), want)
		if conv == nil {
			return nil, mismatch("cannot use %s as %s", val.Type().FriendlyName(), t)
		}
		var err error
		if converted, err = conv(val); err != nil {
			return nil, mismatch("cannot use %s as %s: %v", val.Type().FriendlyName(), t, err)
		}
	}

	switch t {
	case params.TypeInt:
		return into[int](converted, t)
	case params.TypeReal:
		return into[float64](converted, t)
	case params.TypeBool:
		return into[bool](converted, t)
	case params.TypeIntList:
		return into[[]int](converted, t)
	default:
		return into[[]float64](converted, t)
	}
}

func into[T any](val cty.Value, t params.Type) (any, error) {
	var out T
	if err := gocty.FromCtyValue(val, &out); err != nil {
		return nil, mismatch("cannot use value as %s: %v", t, err)
	}
	return out, nil
}

// textual reports whether t is bound by text and hostText.
func textual(t params.Type) bool {
	return t == params.TypeString || t == params.TypeChar || t == params.TypeStringList
}

// text binds a string, char or string list parameter. Only quoted literals
// are accepted and their contents are kept byte for byte.
func text(n ast.Node, t params.Type) (any, error) {
	switch t {
	case params.TypeStringList:
		arr, ok := n.(*ast.Array)
		if !ok {
			break
		}
		out := make([]string, len(arr.Elements))
		for i, e := range arr.Elements {
			v, err := text(e, params.TypeString)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = v.(string)
		}
		return out, nil
	case params.TypeChar:
		switch n := n.(type) {
		case *ast.Char:
			return n.Value, nil
		case *ast.String:
			return char(n.Value)
		}
	default:
		switch n := n.(type) {
		case *ast.String:
			return n.Value, nil
		case *ast.Char:
			return string(n.Value), nil
		}
	}
	return nil, mismatch("cannot use %s as %s", ast.Format(n), t)
}

// hostText is text for Go values.
func hostText(v any, t params.Type) (any, error) {
	switch t {
	case params.TypeStringList:
		switch v := v.(type) {
		case []string:
			return append([]string(nil), v...), nil
		case []any:
			out := make([]string, len(v))
			for i, e := range v {
				s, ok := e.(string)
				if !ok {
					return nil, mismatch("element %d: cannot use %T as string", i, e)
				}
				out[i] = s
			}
			return out, nil
		}
	case params.TypeChar:
		switch v := v.(type) {
		case rune:
			return v, nil
		case string:
			return char(v)
		}
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return nil, mismatch("cannot use %T as %s", v, t)
}

func char(s string) (any, error) {
	if utf8.RuneCountInString(s) != 1 {
		return nil, mismatch("%q is not a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
