// Package dslfmt prints IR trees as canonical schema DSL text.
//
// Output always uses the canonical spellings (int, number, bool, enum,
// [T]) and named min=/max= constraints, so parsing the output yields a tree
// equal to the input under ir.Equal.
package dslfmt

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/reoring/strschema/ir"
)

// Format renders n on a single line. A top-level object is printed as a
// bare field list.
func Format(n ir.Node) string {
	p := &printer{}
	p.root(n)
	return p.b.String()
}

// Indent renders n with one field per line, nesting objects by indent
// spaces.
func Indent(n ir.Node, indent int) string {
	if indent <= 0 {
		indent = 2
	}
	p := &printer{multiline: true, indent: strings.Repeat(" ", indent)}
	p.root(n)
	return p.b.String()
}

type printer struct {
	b         strings.Builder
	multiline bool
	indent    string
	depth     int
}

func (p *printer) root(n ir.Node) {
	obj, ok := n.(*ir.Object)
	if !ok || len(obj.Fields) == 0 {
		p.node(n)
		return
	}
	p.fields(obj.Fields)
}

func (p *printer) newline() {
	p.b.WriteByte('\n')
	for i := 0; i < p.depth; i++ {
		p.b.WriteString(p.indent)
	}
}

func (p *printer) fields(fields []ir.Field) {
	for i, f := range fields {
		if i > 0 {
			if p.multiline {
				p.newline()
			} else {
				p.b.WriteString(", ")
			}
		}
		p.b.WriteString(quoteIfNeeded(f.Name))
		p.b.WriteByte(':')
		p.node(f.Type)
		if !f.Required {
			p.b.WriteByte('?')
		}
	}
}

func (p *printer) node(n ir.Node) {
	switch t := n.(type) {
	case *ir.Scalar:
		p.b.WriteString(t.Name())
		p.constraints(t.Constraints)
	case *ir.Object:
		if len(t.Fields) == 0 {
			p.b.WriteString("{}")
			return
		}
		p.b.WriteByte('{')
		if p.multiline {
			p.depth++
			p.newline()
			p.fields(t.Fields)
			p.depth--
			p.newline()
		} else {
			p.fields(t.Fields)
		}
		p.b.WriteByte('}')
	case *ir.Array:
		p.b.WriteByte('[')
		p.node(t.Item)
		p.b.WriteByte(']')
		p.constraints(t.Constraints)
	case *ir.Enum:
		p.b.WriteString("enum(")
		for i, v := range t.Values {
			if i > 0 {
				p.b.WriteByte(',')
			}
			p.b.WriteString(enumValue(v))
		}
		p.b.WriteByte(')')
	case *ir.Union:
		for i, m := range t.Members {
			if i > 0 {
				p.b.WriteByte('|')
			}
			p.node(m)
		}
		if t.Nullable {
			p.b.WriteString("|null")
		}
	}
}

func (p *printer) constraints(cs ir.Constraints) {
	if cs.IsZero() {
		return
	}
	p.b.WriteByte('(')
	for i, name := range cs.Names() {
		if i > 0 {
			p.b.WriteByte(',')
		}
		if name.IsMin() {
			p.b.WriteString("min=")
		} else {
			p.b.WriteString("max=")
		}
		v, _ := cs.Get(name)
		p.b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	p.b.WriteByte(')')
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && '0' <= r && r <= '9') {
			continue
		}
		return false
	}
	return true
}

func quoteIfNeeded(s string) string {
	if isIdent(s) {
		return s
	}
	return quote(s)
}

func enumValue(s string) string {
	if isIdent(s) || isPlainNumber(s) {
		return s
	}
	return quote(s)
}

// isPlainNumber reports whether s lexes as exactly one number token with s
// as its text.
func isPlainNumber(s string) bool {
	t := strings.TrimPrefix(s, "-")
	if t == "" || strings.ContainsAny(t, "eE") {
		return false
	}
	whole, frac, hasFrac := strings.Cut(t, ".")
	return allDigits(whole) && (!hasFrac || allDigits(frac))
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quote(s string) string { return `"` + quoter.Replace(s) + `"` }
