package parser

import (
	"github.com/vk/heurconf/internal/ast"
)

type parser struct {
	lex *lexer
	tok token
}

// Parse parses a complete configuration expression: a literal, an array or
// a component. Anything after the expression other than whitespace is an
// error. The returned error is always a *SyntaxError.
func Parse(src string) (ast.Node, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, errorf(p.tok.pos, "unexpected %s after expression", p.tok.describe())
	}
	return n, nil
}

// ParseComponent is Parse restricted to component expressions.
func ParseComponent(src string) (*ast.Component, error) {
	n, err := Parse(src)
	if err != nil {
		return nil, err
	}
	c, ok := n.(*ast.Component)
	if !ok {
		return nil, errorf(n.Position(), "expected component expression, found %s", ast.Format(n))
	}
	return c, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(kind tokenKind, context string) error {
	if p.tok.kind != kind {
		return errorf(p.tok.pos, "expected %s %s, found %s", kind, context, p.tok.describe())
	}
	return p.advance()
}

func (p *parser) parseExpr() (ast.Node, error) {
	t := p.tok
	var n ast.Node
	switch t.kind {
	case tokIdent:
		return p.parseComponent()
	case tokLBracket:
		return p.parseArray()
	case tokNull:
		n = &ast.Null{Pos: t.pos}
	case tokTrue, tokFalse:
		n = &ast.Bool{Pos: t.pos, Value: t.kind == tokTrue}
	case tokInt:
		n = &ast.Int{Pos: t.pos, Value: t.intVal, Text: t.text}
	case tokFloat:
		n = &ast.Float{Pos: t.pos, Value: t.floatVal, Text: t.text}
	case tokString:
		n = &ast.String{Pos: t.pos, Value: t.strVal}
	case tokChar:
		n = &ast.Char{Pos: t.pos, Value: t.charVal}
	default:
		return nil, errorf(t.pos, "expected expression, found %s", t.describe())
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) parseComponent() (ast.Node, error) {
	name := p.tok
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokLBrace, "after component name "+name.text); err != nil {
		return nil, err
	}

	c := &ast.Component{Pos: name.pos, Name: name.text}
	if p.tok.kind == tokRBrace {
		return c, p.advance()
	}

	seen := make(map[string]struct{})
	for {
		arg := p.tok
		if arg.kind != tokIdent {
			return nil, errorf(arg.pos, "expected parameter name in %s, found %s", name.text, arg.describe())
		}
		if _, dup := seen[arg.text]; dup {
			return nil, errorf(arg.pos, "parameter %s given more than once in %s", arg.text, name.text)
		}
		seen[arg.text] = struct{}{}

		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(tokAssign, "after parameter name "+arg.text); err != nil {
			return nil, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Args = append(c.Args, ast.Arg{Pos: arg.pos, Name: arg.text, Value: v})

		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokRBrace:
			return c, p.advance()
		default:
			return nil, errorf(p.tok.pos, "expected ',' or '}' in %s, found %s", name.text, p.tok.describe())
		}
	}
}

func (p *parser) parseArray() (ast.Node, error) {
	a := &ast.Array{Pos: p.tok.pos}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokRBracket {
		return a, p.advance()
	}
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		a.Elements = append(a.Elements, e)

		switch p.tok.kind {
		case tokComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokRBracket:
			return a, p.advance()
		default:
			return nil, errorf(p.tok.pos, "expected ',' or ']' in array, found %s", p.tok.describe())
		}
	}
}
