package parser

import (
	"fmt"

	"github.com/vk/heurconf/internal/ast"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNull
	tokTrue
	tokFalse
	tokInt
	tokFloat
	tokString
	tokChar
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokComma
	tokAssign
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of input",
	tokIdent:    "identifier",
	tokNull:     "'null'",
	tokTrue:     "'true'",
	tokFalse:    "'false'",
	tokInt:      "integer",
	tokFloat:    "float",
	tokString:   "string",
	tokChar:     "character",
	tokLBrace:   "'{'",
	tokRBrace:   "'}'",
	tokLBracket: "'['",
	tokRBracket: "']'",
	tokComma:    "','",
	tokAssign:   "'='",
}

func (k tokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(k))
}

var keywords = map[string]tokenKind{
	"null":  tokNull,
	"true":  tokTrue,
	"false": tokFalse,
}

type token struct {
	kind tokenKind
	pos  ast.Pos
	// text is the raw source of the token.
	text string

	// Decoded values, set by kind.
	intVal   int64
	floatVal float64
	strVal   string
	charVal  rune
}

func (t token) describe() string {
	switch t.kind {
	case tokIdent, tokInt, tokFloat, tokString, tokChar:
		return fmt.Sprintf("%s %s", t.kind, t.text)
	}
	return t.kind.String()
}
