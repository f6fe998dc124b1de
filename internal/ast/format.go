package ast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Format prints a node in canonical configuration syntax. The output parses
// back to an equivalent tree.
func Format(n Node) string {
	var sb strings.Builder
	write(&sb, n)
	return sb.String()
}

func write(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:
		sb.WriteString("null")
	case *Null:
		sb.WriteString("null")
	case *Bool:
		sb.WriteString(strconv.FormatBool(n.Value))
	case *Char:
		sb.WriteByte('\'')
		writeEscaped(sb, n.Value, '\'')
		sb.WriteByte('\'')
	case *Int:
		sb.WriteString(strconv.FormatInt(n.Value, 10))
	case *Float:
		s := strconv.FormatFloat(n.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		sb.WriteString(s)
	case *String:
		sb.WriteByte('"')
		for _, r := range n.Value {
			writeEscaped(sb, r, '"')
		}
		sb.WriteByte('"')
	case *Array:
		sb.WriteByte('[')
		for i, e := range n.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, e)
		}
		sb.WriteByte(']')
	case *Component:
		sb.WriteString(n.Name)
		sb.WriteByte('{')
		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.Name)
			sb.WriteByte('=')
			write(sb, a.Value)
		}
		sb.WriteByte('}')
	default:
		panic(fmt.Sprintf("ast: unexpected node %T", n))
	}
}

func writeEscaped(sb *strings.Builder, r rune, quote rune) {
	switch r {
	case '\\':
		sb.WriteString(`\\`)
	case '\n':
		sb.WriteString(`\n`)
	case '\t':
		sb.WriteString(`\t`)
	case '\r':
		sb.WriteString(`\r`)
	case '\b':
		sb.WriteString(`\b`)
	case '\f':
		sb.WriteString(`\f`)
	case quote:
		sb.WriteByte('\\')
		sb.WriteRune(r)
	default:
		if r < 0x10000 && !unicode.IsPrint(r) {
			fmt.Fprintf(sb, `\u%04x`, r)
			return
		}
		sb.WriteRune(r)
	}
}
