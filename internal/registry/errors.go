package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateName    = errors.New("name already registered")
	ErrInvalidName      = errors.New("invalid name")
	ErrUnknownTarget    = errors.New("unknown alias target")
	ErrAliasCollision   = errors.New("alias collision")
	ErrDuplicateFactory = errors.New("factory already registered for product")
	ErrAmbiguousSource  = errors.New("product already has its own constructor")
	ErrFrozen           = errors.New("registry is frozen")
)

// RegistrationError reports a rejected Register, RegisterAlias,
// RegisterFactory or RegisterCapability call.
type RegistrationError struct {
	Op   string
	Name string
	Err  error
	// Detail adds context such as the colliding name.
	Detail string
}

func (e *RegistrationError) Error() string {
	msg := fmt.Sprintf("%s '%s': %v", e.Op, e.Name, e.Err)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// DiscoveryError collects every problem found during a discovery pass.
type DiscoveryError struct {
	Problems []error
}

func (e *DiscoveryError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return fmt.Sprintf("component discovery failed:\n- %s", strings.Join(msgs, "\n- "))
}

func (e *DiscoveryError) Unwrap() []error { return e.Problems }

// flatten expands joined errors so every problem is listed on its own line.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
