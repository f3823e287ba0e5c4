// Package parser implements the recursive-descent grammar of the schema DSL.
//
//	Schema      := FieldList | ObjectType | ArrayType | TypeExpr
//	FieldList   := Field ((',' | NEWLINE) Field)* ','?
//	ObjectType  := '{' FieldList? '}'
//	Field       := Name '?'? (':' TypeExpr)? '?'?
//	TypeExpr    := PrimaryType ('|' PrimaryType)*
//	PrimaryType := ScalarType | ObjectType | ArrayType | EnumType | AltArray | 'null'
//	ScalarType  := Identifier ConstraintGroup?
//	ArrayType   := '[' (TypeExpr | FieldList) ','? ']' ConstraintGroup?
//	AltArray    := ('array'|'list') '(' TypeExpr (',' ConstraintArgs?)? ')'
//	EnumType    := ('enum'|'choice'|'select') '(' Value (',' Value)* ','? ')'
//	ConstraintGroup := '(' ConstraintArgs ')'
//	ConstraintArgs  := Arg (',' Arg)* ','?
//	Arg         := Identifier '=' Value | Value
//
// Parsing stops at the first error; there is no recovery.
package parser

import (
	"fmt"
	"strings"

	"github.com/reoring/strschema/internal/constraint"
	"github.com/reoring/strschema/internal/lexer"
	"github.com/reoring/strschema/internal/suggest"
	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/report"
)

// Parse compiles DSL text into its IR. Errors are report.Issues holding a
// single issue.
func Parse(src string) (ir.Node, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parseSchema()
}

// ParseField parses def as the type part of a field definition, e.g.
// "int(0,120)?" or "[email](max=3)". An empty def is a plain string.
func ParseField(name, def string) (ir.Field, error) {
	p, err := newParser(def)
	if err != nil {
		return ir.Field{}, err
	}
	f := ir.Field{Name: name, Required: true}
	if p.peek().Kind == lexer.EOF {
		f.Type = &ir.Scalar{Base: ir.String}
		return f, nil
	}
	if _, ok := p.accept("?"); ok {
		f.Required = false
		f.Type = &ir.Scalar{Base: ir.String}
		return f, p.expectEOF()
	}
	typ, err := p.parseTypeExpr()
	if err != nil {
		return ir.Field{}, err
	}
	f.Type = typ
	if _, ok := p.accept("?"); ok {
		f.Required = false
	}
	if err := p.expectEOF(); err != nil {
		return ir.Field{}, err
	}
	return f, nil
}

type parser struct {
	src  string
	toks []lexer.Token
	i    int
}

func newParser(src string) (*parser, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	return &parser{src: src, toks: toks}, nil
}

// ---- token helpers ----

func (p *parser) peek() lexer.Token { return p.toks[p.i] }

// peekAt looks n tokens ahead, clamping to the trailing EOF.
func (p *parser) peekAt(n int) lexer.Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) next() lexer.Token {
	t := p.toks[p.i]
	if t.Kind != lexer.EOF {
		p.i++
	}
	return t
}

func (p *parser) accept(punct string) (lexer.Token, bool) {
	if t := p.peek(); t.Is(punct) {
		return p.next(), true
	}
	return lexer.Token{}, false
}

// prevEnd is the byte offset just past the last consumed token.
func (p *parser) prevEnd() int {
	if p.i == 0 {
		return 0
	}
	return p.toks[p.i-1].End
}

func (p *parser) errorAt(t lexer.Token, kind report.Kind, code, format string, args ...any) report.Issues {
	return report.Errorf(kind, code, t.Pos, t.Len(), format, args...)
}

// spanError reports an issue covering everything from start to the last
// consumed token.
func (p *parser) spanError(start lexer.Token, kind report.Kind, code, format string, args ...any) report.Issues {
	return report.Errorf(kind, code, start.Pos, p.prevEnd()-start.Pos.Offset, format, args...)
}

func (p *parser) spanText(start lexer.Token) string {
	return p.src[start.Pos.Offset:p.prevEnd()]
}

func (p *parser) expectClose(closer, what string, open lexer.Token) error {
	if _, ok := p.accept(closer); ok {
		return nil
	}
	t := p.peek()
	iss := p.errorAt(t, report.Syntactic, report.CodeUnbalanced,
		"expected '%s' to close %s opened at %s, found %s", closer, what, open.Pos, t.Describe())
	if closer == "}" && (t.Kind == lexer.Ident || t.Kind == lexer.String) {
		iss = iss.WithHint("separate fields with ',' or a line break")
	}
	return iss
}

func (p *parser) expectEOF() error {
	t := p.peek()
	switch {
	case t.Kind == lexer.EOF:
		return nil
	case t.Is("}"), t.Is("]"), t.Is(")"):
		return p.errorAt(t, report.Syntactic, report.CodeUnbalanced, "unmatched '%s'", t.Text)
	case t.Kind == lexer.Ident || t.Kind == lexer.String:
		return p.errorAt(t, report.Syntactic, report.CodeUnexpectedToken,
			"unexpected %s after end of schema", t.Describe()).
			WithHint("separate fields with ',' or a line break")
	}
	return p.errorAt(t, report.Syntactic, report.CodeUnexpectedToken,
		"unexpected %s after end of schema", t.Describe())
}

func isValue(t lexer.Token) bool {
	return t.Kind == lexer.Ident || t.Kind == lexer.Number || t.Kind == lexer.String
}

// ---- schema and fields ----

func (p *parser) parseSchema() (ir.Node, error) {
	if t := p.peek(); t.Kind == lexer.EOF {
		return nil, p.errorAt(t, report.Syntactic, report.CodeEmptySchema, "schema is empty")
	}
	var (
		root ir.Node
		err  error
	)
	if p.startsFieldList() {
		root, err = p.parseFieldList("")
	} else {
		root, err = p.parseTypeExpr()
	}
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return root, nil
}

// startsFieldList decides whether top-level input is a brace-less field list
// or a lone type expression such as "email" or "[string]".
func (p *parser) startsFieldList() bool {
	t := p.peek()
	if t.Kind == lexer.String {
		return true
	}
	if t.Kind != lexer.Ident {
		return false
	}
	next := p.peekAt(1)
	switch {
	case next.Is(":"), next.Is(","), next.Is("?"):
		return true
	case next.Is("("), next.Is("|"):
		return false
	case next.Kind == lexer.EOF:
		return !isTypeWord(t.Text)
	case next.Newline:
		return true
	}
	return !isTypeWord(t.Text)
}

// startsImplicitObject reports whether bracket contents are a field list, as
// in [name:string, age:int].
func (p *parser) startsImplicitObject() bool {
	t := p.peek()
	if t.Kind == lexer.String {
		return true
	}
	if t.Kind != lexer.Ident {
		return false
	}
	next := p.peekAt(1)
	if next.Is(":") || next.Is("?") {
		return true
	}
	return next.Is(",") && !isTypeWord(t.Text)
}

// parseFieldList parses fields until closer (or EOF when closer is "").
func (p *parser) parseFieldList(closer string) (ir.Node, error) {
	obj := &ir.Object{}
	seen := map[string]report.Pos{}
	for {
		t := p.peek()
		if t.Kind == lexer.EOF || (closer != "" && t.Is(closer)) {
			return obj, nil
		}
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[f.Name]; dup {
			return nil, p.errorAt(t, report.Semantic, report.CodeDuplicateField,
				"duplicate field %q (first declared at %s)", f.Name, prev)
		}
		seen[f.Name] = f.Pos
		obj.Fields = append(obj.Fields, f)

		if _, ok := p.accept(","); ok {
			continue
		}
		if next := p.peek(); next.Newline && (next.Kind == lexer.Ident || next.Kind == lexer.String) {
			continue
		}
		return obj, nil
	}
}

func (p *parser) parseField() (ir.Field, error) {
	name := p.peek()
	if name.Kind != lexer.Ident && name.Kind != lexer.String {
		return ir.Field{}, p.errorAt(name, report.Syntactic, report.CodeUnexpectedToken,
			"expected field name, found %s", name.Describe())
	}
	if name.Value == "" {
		return ir.Field{}, p.errorAt(name, report.Syntactic, report.CodeUnexpectedToken,
			"field name cannot be empty")
	}
	p.next()
	f := ir.Field{Name: name.Value, Required: true, Pos: name.Pos}
	if _, ok := p.accept("?"); ok {
		f.Required = false
	}
	if _, ok := p.accept(":"); ok {
		typ, err := p.parseTypeExpr()
		if err != nil {
			return ir.Field{}, err
		}
		f.Type = typ
		if _, ok := p.accept("?"); ok {
			f.Required = false
		}
		return f, nil
	}

	// A bare name is a string field; anything but a separator on the same
	// line means the ':' was forgotten.
	t := p.peek()
	switch {
	case t.Kind == lexer.EOF, t.Newline, t.Is(","), t.Is("}"), t.Is("]"):
		f.Type = &ir.Scalar{Base: ir.String}
		return f, nil
	}
	return ir.Field{}, p.errorAt(t, report.Syntactic, report.CodeMissingPunct,
		"expected ':' after field name %q, found %s", name.Value, t.Describe())
}

// ---- type expressions ----

func (p *parser) parseTypeExpr() (ir.Node, error) {
	start := p.peek()
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.peek().Is("|") {
		if first == nil {
			return nil, p.spanError(start, report.Semantic, report.CodeNullOutsideUnion,
				"null is only allowed as a union member").WithHint("write T|null for a nullable T")
		}
		return first, nil
	}

	u := &ir.Union{}
	add := func(n ir.Node, tok lexer.Token) error {
		if n == nil {
			if u.Nullable {
				return p.spanError(tok, report.Semantic, report.CodeInvalidUnion,
					"null appears more than once in union")
			}
			u.Nullable = true
			return nil
		}
		for _, m := range u.Members {
			if ir.Equal(m, n) {
				return p.spanError(tok, report.Semantic, report.CodeInvalidUnion,
					"union member %s repeats an earlier member", p.spanText(tok)).
					WithHint("union members must be distinct types")
			}
		}
		u.Members = append(u.Members, n)
		return nil
	}
	if err := add(first, start); err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept("|"); !ok {
			break
		}
		tok := p.peek()
		n, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		if err := add(n, tok); err != nil {
			return nil, err
		}
	}
	if len(u.Members) == 0 {
		return nil, p.spanError(start, report.Semantic, report.CodeInvalidUnion,
			"union needs at least one member besides null")
	}
	return u, nil
}

// parsePrimary parses one union member. A nil node with a nil error is the
// null sentinel.
func (p *parser) parsePrimary() (ir.Node, error) {
	t := p.peek()
	switch {
	case t.Is("{"):
		return p.parseObject()
	case t.Is("["):
		return p.parseBracketArray()
	case t.Kind == lexer.Ident:
		word := strings.ToLower(t.Text)
		switch {
		case word == kwNull:
			p.next()
			return nil, nil
		case enumKeywords[word] && p.peekAt(1).Is("("):
			return p.parseEnum()
		case arrayKeywords[word] && p.peekAt(1).Is("("):
			return p.parseAltArray()
		}
		return p.parseScalar()
	case t.Kind == lexer.EOF:
		return nil, p.errorAt(t, report.Syntactic, report.CodeUnexpectedToken,
			"expected a type, found end of input")
	}
	return nil, p.errorAt(t, report.Syntactic, report.CodeUnexpectedToken,
		"expected a type, found %s", t.Describe())
}

func (p *parser) parseObject() (ir.Node, error) {
	open := p.next()
	obj, err := p.parseFieldList("}")
	if err != nil {
		return nil, err
	}
	if err := p.expectClose("}", "object", open); err != nil {
		return nil, err
	}
	return obj, nil
}

func (p *parser) parseScalar() (ir.Node, error) {
	t := p.next()
	spec, ok := lookupScalar(t.Text)
	if !ok {
		word := strings.ToLower(t.Text)
		switch {
		case enumKeywords[word]:
			return nil, p.errorAt(t, report.Syntactic, report.CodeMissingPunct,
				"%s needs a parenthesized value list", t.Text).WithHint(fmt.Sprintf("write %s(a,b)", t.Text))
		case arrayKeywords[word]:
			return nil, p.errorAt(t, report.Syntactic, report.CodeMissingPunct,
				"%s needs a parenthesized item type", t.Text).WithHint(fmt.Sprintf("write %s(string)", t.Text))
		}
		return nil, p.errorAt(t, report.Semantic, report.CodeUnknownType,
			"unknown type %q", t.Text).WithHint(suggest.Hint(t.Text, knownTypeNames))
	}

	s := &ir.Scalar{Base: spec.base, Format: spec.format, Text: spec.text, Alias: t.Text}
	if !p.peek().Is("(") {
		return s, nil
	}
	args, open, err := p.parseConstraintGroup()
	if err != nil {
		return nil, err
	}
	dim, ok := s.Dimension()
	if !ok {
		return nil, p.errorAt(open, report.Semantic, report.CodeConstraintNotAllowed,
			"%s does not accept constraints", t.Text)
	}
	cs, err := constraint.Resolve(args, constraint.Target{
		Dimension: dim,
		Integer:   spec.base == ir.Integer,
		TypeName:  strings.ToLower(t.Text),
	})
	if err != nil {
		return nil, err
	}
	s.Constraints = cs
	return s, nil
}

var itemsTarget = constraint.Target{Dimension: ir.DimItems, TypeName: "array"}

func (p *parser) parseBracketArray() (ir.Node, error) {
	open := p.next()
	if t := p.peek(); t.Is("]") {
		return nil, p.errorAt(t, report.Syntactic, report.CodeUnexpectedToken,
			"array item type is missing").WithHint("write [string] or [{name:string}]")
	}
	var (
		item ir.Node
		err  error
	)
	if p.startsImplicitObject() {
		item, err = p.parseFieldList("]")
	} else {
		item, err = p.parseTypeExpr()
	}
	if err != nil {
		return nil, err
	}
	if p.peek().Is(",") && p.peekAt(1).Is("]") {
		p.next()
	}
	if err := p.expectClose("]", "array", open); err != nil {
		return nil, err
	}

	arr := &ir.Array{Item: item}
	if p.peek().Is("(") {
		args, _, err := p.parseConstraintGroup()
		if err != nil {
			return nil, err
		}
		if arr.Constraints, err = constraint.Resolve(args, itemsTarget); err != nil {
			return nil, err
		}
	}
	return arr, nil
}

func (p *parser) parseAltArray() (ir.Node, error) {
	kw := p.next()
	open := p.next()
	if t := p.peek(); t.Is(")") {
		return nil, p.errorAt(t, report.Syntactic, report.CodeUnexpectedToken,
			"%s needs an item type", kw.Text).WithHint(fmt.Sprintf("write %s(string)", kw.Text))
	}
	item, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	var args []constraint.Arg
	if _, ok := p.accept(","); ok {
		if args, err = p.parseConstraintArgs(); err != nil {
			return nil, err
		}
	}
	if err := p.expectClose(")", kw.Text, open); err != nil {
		return nil, err
	}
	cs, err := constraint.Resolve(args, itemsTarget)
	if err != nil {
		return nil, err
	}
	return &ir.Array{Item: item, Constraints: cs, Spelling: strings.ToLower(kw.Text)}, nil
}

func (p *parser) parseEnum() (ir.Node, error) {
	kw := p.next()
	open := p.next()
	if t := p.peek(); t.Is(")") {
		return nil, p.errorAt(t, report.Syntactic, report.CodeUnexpectedToken,
			"%s needs at least one value", kw.Text)
	}
	e := &ir.Enum{Spelling: strings.ToLower(kw.Text)}
	seen := map[string]report.Pos{}
	for {
		t := p.peek()
		if t.Is(")") {
			break
		}
		if !isValue(t) {
			return nil, p.errorAt(t, report.Syntactic, report.CodeUnexpectedToken,
				"expected an enum value, found %s", t.Describe())
		}
		p.next()
		if prev, dup := seen[t.Value]; dup {
			return nil, p.errorAt(t, report.Semantic, report.CodeDuplicateEnumValue,
				"duplicate enum value %q (first listed at %s)", t.Value, prev)
		}
		seen[t.Value] = t.Pos
		e.Values = append(e.Values, t.Value)
		if _, ok := p.accept(","); !ok {
			break
		}
	}
	if err := p.expectClose(")", kw.Text+" value list", open); err != nil {
		return nil, err
	}
	return e, nil
}

// ---- constraint groups ----

func (p *parser) parseConstraintGroup() ([]constraint.Arg, lexer.Token, error) {
	open := p.next()
	if t := p.peek(); t.Is(")") {
		return nil, open, p.errorAt(t, report.Syntactic, report.CodeEmptyConstraints,
			"empty constraint list").WithHint("remove the parentheses or write e.g. (min=1,max=10)")
	}
	args, err := p.parseConstraintArgs()
	if err != nil {
		return nil, open, err
	}
	if err := p.expectClose(")", "constraint list", open); err != nil {
		return nil, open, err
	}
	return args, open, nil
}

func (p *parser) parseConstraintArgs() ([]constraint.Arg, error) {
	var args []constraint.Arg
	for {
		if p.peek().Is(")") {
			return args, nil
		}
		a, err := p.parseArg()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if _, ok := p.accept(","); !ok {
			return args, nil
		}
	}
}

func (p *parser) parseArg() (constraint.Arg, error) {
	t := p.peek()
	if t.Kind == lexer.Ident && p.peekAt(1).Is("=") {
		p.next()
		p.next()
		v := p.peek()
		if !isValue(v) {
			return constraint.Arg{}, p.errorAt(v, report.Syntactic, report.CodeUnexpectedToken,
				"expected a value after '%s=', found %s", t.Text, v.Describe())
		}
		p.next()
		return constraint.Arg{
			Name:    t.Text,
			Value:   v.Value,
			Numeric: v.Kind == lexer.Number,
			Pos:     t.Pos,
			Len:     v.End - t.Pos.Offset,
		}, nil
	}
	if isValue(t) {
		p.next()
		return constraint.Arg{Value: t.Value, Numeric: t.Kind == lexer.Number, Pos: t.Pos, Len: t.Len()}, nil
	}
	return constraint.Arg{}, p.errorAt(t, report.Syntactic, report.CodeUnexpectedToken,
		"expected a constraint, found %s", t.Describe())
}
