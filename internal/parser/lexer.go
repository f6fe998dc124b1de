package parser

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/vk/heurconf/internal/ast"
)

const eof rune = -1

// lexer produces tokens on demand, so the first bad character stops the
// parse before anything after it is looked at.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) pos() ast.Pos {
	return ast.Pos{Offset: l.off, Line: l.line, Column: l.col}
}

func (l *lexer) peek() (rune, int) {
	if l.off >= len(l.src) {
		return eof, 0
	}
	return utf8.DecodeRuneInString(l.src[l.off:])
}

func (l *lexer) advance() rune {
	r, size := l.peek()
	if size == 0 {
		return eof
	}
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpace() {
	for {
		switch r, _ := l.peek(); r {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }

func (l *lexer) next() (token, error) {
	l.skipSpace()
	start := l.pos()
	r, size := l.peek()
	if size == 0 {
		return token{kind: tokEOF, pos: start}, nil
	}
	if r == utf8.RuneError && size == 1 {
		return token{}, errorf(start, "invalid UTF-8 encoding")
	}

	if kind, ok := punctuation[r]; ok {
		l.advance()
		return token{kind: kind, pos: start, text: string(r)}, nil
	}

	switch {
	case isLetter(r) || r == '_':
		return l.lexIdent(start), nil
	case isDigit(r) || r == '+' || r == '-' || r == '.':
		return l.lexNumber(start)
	case r == '"':
		return l.lexString(start)
	case r == '\'':
		return l.lexChar(start)
	}
	return token{}, errorf(start, "unexpected character %q", r)
}

var punctuation = map[rune]tokenKind{
	'{': tokLBrace,
	'}': tokRBrace,
	'[': tokLBracket,
	']': tokRBracket,
	',': tokComma,
	'=': tokAssign,
}

func (l *lexer) lexIdent(start ast.Pos) token {
	begin := l.off
	for {
		r, _ := l.peek()
		if !isLetter(r) && !isDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	text := l.src[begin:l.off]
	if kind, ok := keywords[text]; ok {
		return token{kind: kind, pos: start, text: text}
	}
	return token{kind: tokIdent, pos: start, text: text}
}

func (l *lexer) digits() int {
	n := 0
	for {
		r, _ := l.peek()
		if !isDigit(r) {
			return n
		}
		l.advance()
		n++
	}
}

func (l *lexer) lexNumber(start ast.Pos) (token, error) {
	begin := l.off
	if r, _ := l.peek(); r == '+' || r == '-' {
		l.advance()
	}

	isFloat := false
	intDigits := l.digits()
	if r, _ := l.peek(); r == '.' {
		l.advance()
		isFloat = true
		if l.digits() == 0 && intDigits == 0 {
			return token{}, errorf(start, "malformed number %q", l.src[begin:l.off])
		}
	} else if intDigits == 0 {
		return token{}, errorf(start, "malformed number %q", l.src[begin:l.off])
	}

	if r, _ := l.peek(); r == 'e' || r == 'E' {
		l.advance()
		isFloat = true
		if r, _ := l.peek(); r == '+' || r == '-' {
			l.advance()
		}
		if l.digits() == 0 {
			return token{}, errorf(start, "malformed exponent in %q", l.src[begin:l.off])
		}
	}

	if r, _ := l.peek(); isLetter(r) || r == '_' || r == '.' {
		return token{}, errorf(l.pos(), "unexpected character %q in number", r)
	}

	text := l.src[begin:l.off]
	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, errorf(start, "float literal %s is out of range", text)
		}
		return token{kind: tokFloat, pos: start, text: text, floatVal: v}, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token{}, errorf(start, "integer literal %s is out of range", text)
	}
	return token{kind: tokInt, pos: start, text: text, intVal: v}, nil
}

func (l *lexer) lexString(start ast.Pos) (token, error) {
	begin := l.off
	l.advance()

	var sb strings.Builder
	for {
		r, size := l.peek()
		switch {
		case size == 0:
			return token{}, errorf(start, "unterminated string literal")
		case r == '\n':
			return token{}, errorf(l.pos(), "newline in string literal")
		case r == utf8.RuneError && size == 1:
			return token{}, errorf(l.pos(), "invalid UTF-8 encoding")
		case r == '"':
			l.advance()
			return token{kind: tokString, pos: start, text: l.src[begin:l.off], strVal: sb.String()}, nil
		case r == '\\':
			v, err := l.escapedRune()
			if err != nil {
				return token{}, err
			}
			sb.WriteRune(v)
		default:
			l.advance()
			sb.WriteRune(r)
		}
	}
}

func (l *lexer) lexChar(start ast.Pos) (token, error) {
	begin := l.off
	l.advance()

	var v rune
	r, size := l.peek()
	switch {
	case size == 0:
		return token{}, errorf(start, "unterminated character literal")
	case r == '\'':
		return token{}, errorf(start, "empty character literal")
	case r == '\n':
		return token{}, errorf(l.pos(), "newline in character literal")
	case r == utf8.RuneError && size == 1:
		return token{}, errorf(l.pos(), "invalid UTF-8 encoding")
	case r == '\\':
		escaped, err := l.escapedRune()
		if err != nil {
			return token{}, err
		}
		v = escaped
	default:
		l.advance()
		v = r
	}

	r, size = l.peek()
	if size == 0 {
		return token{}, errorf(start, "unterminated character literal")
	}
	if r != '\'' {
		return token{}, errorf(start, "character literal must contain exactly one character")
	}
	l.advance()
	return token{kind: tokChar, pos: start, text: l.src[begin:l.off], charVal: v}, nil
}

// escapedRune decodes one escape sequence starting at a backslash. A UTF-16
// surrogate pair written as two \u escapes decodes to a single rune.
func (l *lexer) escapedRune() (rune, error) {
	pos := l.pos()
	v, err := l.escape()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(v) {
		return v, nil
	}
	if v >= 0xDC00 {
		return 0, errorf(pos, "unpaired surrogate in unicode escape")
	}
	if r, _ := l.peek(); r != '\\' {
		return 0, errorf(pos, "unpaired surrogate in unicode escape")
	}
	low, err := l.escape()
	if err != nil {
		return 0, err
	}
	combined := utf16.DecodeRune(v, low)
	if combined == utf8.RuneError {
		return 0, errorf(pos, "invalid surrogate pair in unicode escape")
	}
	return combined, nil
}

func (l *lexer) escape() (rune, error) {
	pos := l.pos()
	l.advance() // backslash
	switch r := l.advance(); r {
	case 'b':
		return '\b', nil
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'f':
		return '\f', nil
	case 'r':
		return '\r', nil
	case '"', '\'', '\\':
		return r, nil
	case 'u':
		var v rune
		for i := 0; i < 4; i++ {
			h, _ := l.peek()
			d := hexValue(h)
			if d < 0 {
				return 0, errorf(pos, "invalid unicode escape: want 4 hex digits")
			}
			l.advance()
			v = v<<4 | d
		}
		return v, nil
	case eof:
		return 0, errorf(pos, "unterminated escape sequence")
	default:
		return 0, errorf(pos, "unknown escape sequence \\%c", r)
	}
}

func hexValue(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r - '0'
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10
	case r >= 'A' && r <= 'F':
		return r - 'A' + 10
	}
	return -1
}
