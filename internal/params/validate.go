package params

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/vk/heurconf/internal/ast"
	"github.com/vk/heurconf/internal/parser"
)

// namePattern is shared by component and parameter names.
var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// ValidName reports whether s is a valid component or parameter name.
func ValidName(s string) bool {
	return namePattern.MatchString(s)
}

// InvalidParameterError reports a parameter descriptor that breaks its own
// metadata rules.
type InvalidParameterError struct {
	Component string
	Param     string
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("component '%s', parameter '%s': %s", e.Component, e.Param, e.Reason)
}

// Validate checks every descriptor of a component. All problems are returned
// joined so a broken declaration is reported in one pass.
func Validate(component string, ps []Param) error {
	var errs []error
	seen := make(map[string]struct{}, len(ps))

	for _, p := range ps {
		invalid := func(format string, args ...any) {
			errs = append(errs, &InvalidParameterError{Component: component, Param: p.Name, Reason: fmt.Sprintf(format, args...)})
		}

		if !ValidName(p.Name) {
			invalid("name does not match %s", namePattern)
		}
		if _, dup := seen[p.Name]; dup {
			invalid("declared more than once")
		}
		seen[p.Name] = struct{}{}

		switch p.Kind {
		case KindInteger, KindReal:
			if p.Min > p.Max {
				invalid("min %g is greater than max %g", p.Min, p.Max)
			}
			if p.Kind == KindInteger && p.Type != TypeInt {
				invalid("integer range on %s value", p.Type)
			}
		case KindCategorical, KindOrdinal:
			if len(p.Choices) == 0 {
				invalid("%s parameter has no choices", p.Kind)
			}
			for _, c := range p.Choices {
				if err := checkChoice(c, p.Type); err != nil {
					invalid("choice %s: %v", c, err)
				}
			}
		case KindComponent:
			if p.Capability == "" {
				invalid("component parameter without capability")
			}
		}
	}
	return errors.Join(errs...)
}

// checkChoice reports whether a choice parses back as a literal of type t.
func checkChoice(choice string, t Type) error {
	n, err := parser.Parse(choice)
	if err != nil {
		return err
	}
	var ok bool
	switch n := n.(type) {
	case *ast.Int:
		ok = t == TypeInt || t == TypeReal || t == TypeAny
	case *ast.Float:
		ok = t == TypeReal || t == TypeAny
	case *ast.Bool:
		ok = t == TypeBool || t == TypeAny
	case *ast.Char:
		ok = t == TypeChar || t == TypeString || t == TypeAny
	case *ast.String:
		ok = t == TypeString || t == TypeAny || (t == TypeChar && utf8.RuneCountInString(n.Value) == 1)
	}
	if !ok {
		return fmt.Errorf("not a literal of type %s", t)
	}
	return nil
}
