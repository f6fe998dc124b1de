package tuner

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/space"
)

const (
	// RootParam is the parameter choosing the top-level algorithm.
	RootParam = "ROOT"

	choiceSep = "_"
	paramSep  = "."
)

var (
	// ErrEmptyChoice means a categorical line would have no values. The
	// explorer prunes such nodes, so this indicates a malformed forest.
	ErrEmptyChoice = errors.New("categorical parameter without choices")
	// ErrNotTunable is returned for parameters with no tuner representation.
	ErrNotTunable = errors.New("parameter kind cannot be tuned")
)

type exporter struct {
	lines []string
}

// Lines renders the forest as sorted irace parameter lines.
func Lines(f *space.Forest) ([]string, error) {
	if f == nil || len(f.Roots) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyChoice, RootParam)
	}

	x := &exporter{}
	x.add(RootParam, "c", "("+strings.Join(f.RootNames(), ", ")+")", "")
	for _, root := range f.Roots {
		cond := condition(RootParam, root.Component)
		if err := x.node(root, RootParam+choiceSep+root.Component, cond); err != nil {
			return nil, err
		}
	}

	sort.Strings(x.lines)
	return x.lines, nil
}

// Write writes the parameter file, one line per parameter.
func Write(w io.Writer, f *space.Forest) error {
	lines, err := Lines(f)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := io.WriteString(w, l+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (x *exporter) node(n *space.TreeNode, prefix, cond string) error {
	for _, p := range n.Params {
		name := prefix + paramSep + p.Name
		switch p.Kind {
		case params.KindProvided:
			continue
		case params.KindInteger:
			x.add(name, "i", fmt.Sprintf("(%d, %d)", int64(p.Min), int64(p.Max)), cond)
		case params.KindReal:
			x.add(name, "r", "("+formatReal(p.Min)+", "+formatReal(p.Max)+")", cond)
		case params.KindCategorical, params.KindOrdinal:
			if len(p.Choices) == 0 {
				return fmt.Errorf("%w: %s", ErrEmptyChoice, name)
			}
			typ := "c"
			if p.Kind == params.KindOrdinal {
				typ = "o"
			}
			x.add(name, typ, "("+strings.Join(p.Choices, ", ")+")", cond)
		case params.KindComponent:
			children := n.Children[p.Name]
			if len(children) == 0 {
				return fmt.Errorf("%w: %s", ErrEmptyChoice, name)
			}
			choices := make([]string, len(children))
			for i, c := range children {
				choices[i] = c.Component
			}
			x.add(name, "c", "("+strings.Join(choices, ", ")+")", cond)
			for _, c := range children {
				if err := x.node(c, name+choiceSep+c.Component, condition(name, c.Component)); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("%w: %s is %s", ErrNotTunable, name, p.Kind)
		}
	}
	return nil
}

func (x *exporter) add(name, typ, values, cond string) {
	line := fmt.Sprintf("%s %q %s %s", name, "--"+name+"=", typ, values)
	if cond != "" {
		line += " " + cond
	}
	x.lines = append(x.lines, line)
}

func condition(param, value string) string {
	return fmt.Sprintf("| %s == %q", param, value)
}

func formatReal(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
