package parser

import (
	"fmt"

	"github.com/vk/heurconf/internal/ast"
)

// SyntaxError is the first lexical or grammatical error in a configuration
// string. Parsing never continues past it.
type SyntaxError struct {
	Pos ast.Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

func errorf(pos ast.Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
