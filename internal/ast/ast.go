package ast

import "fmt"

// Pos is a position in the configuration source.
type Pos struct {
	Offset int // byte offset, starting at 0
	Line   int // starting at 1
	Column int // rune column, starting at 1
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is either a literal or a component expression.
type Node interface {
	Position() Pos
	node()
}

// Literal is implemented by every literal node.
type Literal interface {
	Node
	literal()
}

type (
	Null struct {
		Pos Pos
	}

	Bool struct {
		Pos   Pos
		Value bool
	}

	Char struct {
		Pos   Pos
		Value rune
	}

	Int struct {
		Pos   Pos
		Value int64
		// Text is the literal as written, e.g. "+5".
		Text string
	}

	Float struct {
		Pos   Pos
		Value float64
		Text  string
	}

	String struct {
		Pos   Pos
		Value string
	}

	Array struct {
		Pos      Pos
		Elements []Node
	}
)

// Arg is one named argument of a component expression.
type Arg struct {
	Pos   Pos
	Name  string
	Value Node
}

// Component is `Name{arg=value, ...}`. Args keep their source order.
type Component struct {
	Pos  Pos
	Name string
	Args []Arg
}

// Arg returns the argument with the given name.
func (c *Component) Arg(name string) (Node, bool) {
	for _, a := range c.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

func (n *Null) Position() Pos      { return n.Pos }
func (n *Bool) Position() Pos      { return n.Pos }
func (n *Char) Position() Pos      { return n.Pos }
func (n *Int) Position() Pos       { return n.Pos }
func (n *Float) Position() Pos     { return n.Pos }
func (n *String) Position() Pos    { return n.Pos }
func (n *Array) Position() Pos     { return n.Pos }
func (n *Component) Position() Pos { return n.Pos }

func (*Null) node()      {}
func (*Bool) node()      {}
func (*Char) node()      {}
func (*Int) node()       {}
func (*Float) node()     {}
func (*String) node()    {}
func (*Array) node()     {}
func (*Component) node() {}

func (*Null) literal()   {}
func (*Bool) literal()   {}
func (*Char) literal()   {}
func (*Int) literal()    {}
func (*Float) literal()  {}
func (*String) literal() {}
func (*Array) literal()  {}
