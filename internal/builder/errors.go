package builder

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownComponent  = errors.New("unknown component")
	ErrNotInstantiable   = errors.New("component has neither a factory nor a constructor")
	ErrUnknownParameter  = errors.New("unknown parameter")
	ErrMissingParameter  = errors.New("missing required parameter")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrConstructorFailed = errors.New("constructor failed")
)

// ResolutionError reports where in a configuration a build failed. Path is
// the dotted chain of component and parameter names leading to the
// component being built, e.g. "GRASP.improver.VND"; it is empty for the
// outermost component.
type ResolutionError struct {
	Path string
	Name string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("'%s': %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: '%s': %v", e.Path, e.Name, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))
}
