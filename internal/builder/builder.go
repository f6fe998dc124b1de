package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/heurconf/internal/ast"
	"github.com/vk/heurconf/internal/ctxlog"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/parser"
	"github.com/vk/heurconf/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Builder builds component values from configuration expressions.
type Builder struct {
	reg *registry.Registry
}

// New creates a builder over a populated registry.
func New(reg *registry.Registry) *Builder {
	return &Builder{reg: reg}
}

// Build evaluates a parsed expression. Literals evaluate to their natural Go
// value (int, float64, bool, rune, string, []any or nil); components are
// constructed.
func (b *Builder) Build(ctx context.Context, n ast.Node) (any, error) {
	return b.native(ctx, "", n)
}

// BuildString parses and builds a configuration string.
func (b *Builder) BuildString(ctx context.Context, s string) (any, error) {
	n, err := parser.Parse(s)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, n)
}

// BuildComponent builds a component from already evaluated Go values. A
// string given for a component parameter is parsed as a configuration
// expression; any other value is passed through unchanged.
func (b *Builder) BuildComponent(ctx context.Context, name string, values map[string]any) (any, error) {
	res, declared, err := b.resolve("", name)
	if err != nil {
		return nil, err
	}

	byName := index(declared)
	supplied := make(map[string]any, len(values))
	for _, argName := range params.NewArgs(values).Names() {
		p, ok := byName[argName]
		if !ok {
			return nil, &ResolutionError{Path: name, Name: argName, Err: ErrUnknownParameter}
		}
		v, err := b.bindHost(ctx, name, p, values[argName])
		if err != nil {
			return nil, err
		}
		supplied[argName] = v
	}
	return b.invoke(ctx, "", name, res, declared, supplied)
}

func (b *Builder) resolve(path, name string) (registry.Resolved, []params.Param, error) {
	res, ok := b.reg.Resolve(name)
	if !ok {
		return registry.Resolved{}, nil, &ResolutionError{Path: path, Name: name, Err: ErrUnknownComponent}
	}
	declared, ok := res.Params()
	if !ok {
		return registry.Resolved{}, nil, &ResolutionError{Path: path, Name: name, Err: ErrNotInstantiable}
	}
	return res, declared, nil
}

func (b *Builder) component(ctx context.Context, path string, c *ast.Component) (any, error) {
	res, declared, err := b.resolve(path, c.Name)
	if err != nil {
		return nil, err
	}

	here := join(path, c.Name)
	byName := index(declared)
	supplied := make(map[string]any, len(c.Args))
	for _, a := range c.Args {
		p, ok := byName[a.Name]
		if !ok {
			return nil, &ResolutionError{Path: here, Name: a.Name, Err: ErrUnknownParameter}
		}
		v, err := b.bind(ctx, here, p, a.Value)
		if err != nil {
			return nil, err
		}
		supplied[a.Name] = v
	}
	return b.invoke(ctx, path, c.Name, res, declared, supplied)
}

// invoke fills omitted parameters and calls the constructor or factory.
func (b *Builder) invoke(ctx context.Context, path, name string, res registry.Resolved, declared []params.Param, supplied map[string]any) (any, error) {
	here := join(path, name)
	for _, p := range declared {
		if _, ok := supplied[p.Name]; ok {
			continue
		}
		switch {
		case p.Default != "":
			def, err := parser.Parse(p.Default)
			if err != nil {
				return nil, &ResolutionError{Path: here, Name: p.Name, Err: fmt.Errorf("invalid default %q: %w", p.Default, err)}
			}
			v, err := b.bind(ctx, here, p, def)
			if err != nil {
				return nil, err
			}
			supplied[p.Name] = v
		case p.Nullable:
			supplied[p.Name] = nil
		default:
			return nil, &ResolutionError{Path: here, Name: p.Name, Err: ErrMissingParameter}
		}
	}

	ctxlog.FromContext(ctx).Debug("Constructing component.", "component", res.Type.Name, "alias", res.Alias, "path", here, "factory", res.Factory != nil)
	v, err := res.New(params.NewArgs(supplied))
	if err != nil {
		return nil, &ResolutionError{Path: path, Name: name, Err: fmt.Errorf("%w: %w", ErrConstructorFailed, err)}
	}
	return v, nil
}

// bind evaluates the argument for parameter p of the component at path.
func (b *Builder) bind(ctx context.Context, path string, p params.Param, n ast.Node) (any, error) {
	switch n := n.(type) {
	case *ast.Null:
		if !p.Nullable {
			return nil, &ResolutionError{Path: path, Name: p.Name, Err: mismatch("null given for %s parameter", p.Type)}
		}
		return nil, nil
	case *ast.Component:
		if p.Type != params.TypeComponent && p.Type != params.TypeAny {
			return nil, &ResolutionError{Path: path, Name: p.Name, Err: mismatch("component %s given for %s parameter", n.Name, p.Type)}
		}
		return b.component(ctx, join(path, p.Name), n)
	}

	switch p.Type {
	case params.TypeAny:
		return b.native(ctx, join(path, p.Name), n)
	case params.TypeComponent:
		return nil, &ResolutionError{Path: path, Name: p.Name, Err: mismatch("literal %s given for component parameter", ast.Format(n))}
	}

	var v any
	var err error
	if textual(p.Type) {
		v, err = text(n, p.Type)
	} else {
		var val cty.Value
		if val, err = literalValue(n); err == nil {
			v, err = decode(val, p.Type)
		}
	}
	if err != nil {
		return nil, &ResolutionError{Path: path, Name: p.Name, Err: err}
	}
	return v, nil
}

// bindHost is bind for values that are already Go values.
func (b *Builder) bindHost(ctx context.Context, path string, p params.Param, v any) (any, error) {
	if v == nil {
		if !p.Nullable {
			return nil, &ResolutionError{Path: path, Name: p.Name, Err: mismatch("nil given for %s parameter", p.Type)}
		}
		return nil, nil
	}

	switch p.Type {
	case params.TypeAny:
		return v, nil
	case params.TypeComponent:
		s, ok := v.(string)
		if !ok {
			return v, nil
		}
		n, err := parser.Parse(s)
		if err != nil {
			return nil, &ResolutionError{Path: path, Name: p.Name, Err: err}
		}
		return b.bind(ctx, path, p, n)
	}

	var out any
	var err error
	if textual(p.Type) {
		out, err = hostText(v, p.Type)
	} else {
		var val cty.Value
		if val, err = hostValue(v); err == nil {
			out, err = decode(val, p.Type)
		}
	}
	if err != nil {
		return nil, &ResolutionError{Path: path, Name: p.Name, Err: err}
	}
	return out, nil
}

// native evaluates a node without a declared parameter type.
func (b *Builder) native(ctx context.Context, path string, n ast.Node) (any, error) {
	switch n := n.(type) {
	case *ast.Component:
		return b.component(ctx, path, n)
	case *ast.Null:
		return nil, nil
	case *ast.Bool:
		return n.Value, nil
	case *ast.Int:
		return int(n.Value), nil
	case *ast.Float:
		return n.Value, nil
	case *ast.Char:
		return n.Value, nil
	case *ast.String:
		return n.Value, nil
	case *ast.Array:
		out := make([]any, len(n.Elements))
		for i, e := range n.Elements {
			v, err := b.native(ctx, path, e)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, fmt.Errorf("unexpected node %T", n)
}

func index(ps []params.Param) map[string]params.Param {
	m := make(map[string]params.Param, len(ps))
	for _, p := range ps {
		m[p.Name] = p
	}
	return m
}

func join(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}
