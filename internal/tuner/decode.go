package tuner

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/heurconf/internal/ast"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/parser"
	"github.com/vk/heurconf/internal/space"
)

// ErrBadAssignment means a tuner assignment is missing, malformed, or
// names a choice the forest does not offer.
var ErrBadAssignment = errors.New("invalid parameter assignment")

// ParseArgs reads the "--name=value" arguments a tuner passes to the target
// runner. Arguments that are not of that form are ignored.
func ParseArgs(args []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, a := range args {
		rest, ok := strings.CutPrefix(a, "--")
		if !ok {
			continue
		}
		name, value, ok := strings.Cut(rest, "=")
		if !ok || name == "" {
			continue
		}
		if prev, dup := out[name]; dup && prev != value {
			return nil, fmt.Errorf("%w: %s given as %q and %q", ErrBadAssignment, name, prev, value)
		}
		out[name] = value
	}
	return out, nil
}

// Decode turns one tuner assignment back into a component expression. It
// follows the same naming as Lines; only the parameters on the chosen
// branch are read, so unrelated assignments are ignored.
func Decode(f *space.Forest, assignment map[string]string) (*ast.Component, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: no forest", ErrBadAssignment)
	}
	choice, ok := assignment[RootParam]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not set", ErrBadAssignment, RootParam)
	}
	for _, root := range f.Roots {
		if root.Component == choice {
			return decodeNode(root, RootParam+choiceSep+root.Component, assignment)
		}
	}
	return nil, fmt.Errorf("%w: %s=%s is not one of %v", ErrBadAssignment, RootParam, choice, f.RootNames())
}

// DecodeString is Decode followed by ast.Format.
func DecodeString(f *space.Forest, assignment map[string]string) (string, error) {
	c, err := Decode(f, assignment)
	if err != nil {
		return "", err
	}
	return ast.Format(c), nil
}

func decodeNode(n *space.TreeNode, prefix string, assignment map[string]string) (*ast.Component, error) {
	c := &ast.Component{Name: n.Component}
	for _, p := range n.Params {
		if p.Kind == params.KindProvided {
			continue
		}
		name := prefix + paramSep + p.Name
		raw, ok := assignment[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s is not set", ErrBadAssignment, name)
		}

		var value ast.Node
		var err error
		switch p.Kind {
		case params.KindComponent:
			value, err = decodeChild(n.Children[p.Name], name, raw, assignment)
		case params.KindCategorical, params.KindOrdinal:
			value, err = decodeChoice(p, name, raw)
		default:
			value, err = decodeLiteral(name, raw)
		}
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, ast.Arg{Name: p.Name, Value: value})
	}
	return c, nil
}

func decodeChild(children []*space.TreeNode, name, raw string, assignment map[string]string) (ast.Node, error) {
	names := make([]string, 0, len(children))
	for _, child := range children {
		if child.Component == raw {
			return decodeNode(child, name+choiceSep+child.Component, assignment)
		}
		names = append(names, child.Component)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("%w: %s=%s is not one of %v", ErrBadAssignment, name, raw, names)
}

// decodeChoice matches raw against the declared choices. Tuners strip the
// quotes of string choices, so both forms are accepted.
func decodeChoice(p params.Param, name, raw string) (ast.Node, error) {
	for _, choice := range p.Choices {
		if choice == raw || choice == `"`+raw+`"` || choice == "'"+raw+"'" {
			return decodeLiteral(name, choice)
		}
	}
	return nil, fmt.Errorf("%w: %s=%s is not one of %v", ErrBadAssignment, name, raw, p.Choices)
}

func decodeLiteral(name, raw string) (ast.Node, error) {
	n, err := parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%s: %w", ErrBadAssignment, name, raw, err)
	}
	if _, ok := n.(ast.Literal); !ok {
		return nil, fmt.Errorf("%w: %s=%s is not a literal", ErrBadAssignment, name, raw)
	}
	return n, nil
}
