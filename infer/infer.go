// Package infer derives a schema from sample JSON data.
//
// Objects keep the key order of the first sample that mentions a key.
// Elements of an array are merged into one item type: a key missing from
// some elements, or null in any of them, becomes an optional field, int and
// number widen to number, and strings with different formats fall back to a
// plain string. Values that still disagree form a union.
package infer

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reoring/strschema/ir"
)

// ErrNull is returned for a document that is null at the top level.
var ErrNull = errors.New("infer: cannot infer a type from null")

// JSON infers an IR tree from a JSON document.
func JSON(data []byte) (ir.Node, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("infer: invalid JSON: %w", err)
	}
	n, err := value(data, "$")
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrNull
	}
	return finalize(n), nil
}

// value infers the type of one JSON value. A nil node stands for null.
func value(raw []byte, path string) (ir.Node, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("infer: %s: empty value", path)
	}
	switch raw[0] {
	case '{':
		return object(raw, path)
	case '[':
		return array(raw, path)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("infer: %s: %w", path, err)
		}
		return &ir.Scalar{Base: ir.String, Format: formatOf(s)}, nil
	case 't', 'f':
		return &ir.Scalar{Base: ir.Boolean}, nil
	case 'n':
		return nil, nil
	}
	if bytes.ContainsAny(raw, ".eE") {
		return &ir.Scalar{Base: ir.Number}, nil
	}
	return &ir.Scalar{Base: ir.Integer}, nil
}

func object(raw []byte, path string) (ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("infer: %s: %w", path, err)
	}
	obj := &ir.Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("infer: %s: %w", path, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("infer: %s: unexpected key %v", path, tok)
		}
		if name == "" {
			return nil, fmt.Errorf("infer: %s: empty property name", path)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("infer: %s.%s: %w", path, name, err)
		}
		n, err := value(v, path+"."+name)
		if err != nil {
			return nil, err
		}
		obj.Fields = addField(obj.Fields, ir.Field{Name: name, Type: n, Required: n != nil})
	}
	return obj, nil
}

func array(raw []byte, path string) (ir.Node, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("infer: %s: %w", path, err)
	}
	var item ir.Node
	for i, e := range elems {
		n, err := value(e, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if n == nil {
			n = &ir.Union{Nullable: true}
		}
		item = merge(item, n)
	}
	return &ir.Array{Item: item}, nil
}

// addField appends f, merging it into an earlier field of the same name.
func addField(fields []ir.Field, f ir.Field) []ir.Field {
	for i, g := range fields {
		if g.Name == f.Name {
			fields[i].Type = merge(g.Type, f.Type)
			fields[i].Required = g.Required && f.Required
			return fields
		}
	}
	return append(fields, f)
}

// merge returns a type accepting both a and b. A nil operand is a type not
// observed yet.
func merge(a, b ir.Node) ir.Node {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	ua, ok := a.(*ir.Union)
	if !ok {
		if _, bu := b.(*ir.Union); !bu {
			if c, ok := combine(a, b); ok {
				return c
			}
		}
		ua = &ir.Union{Members: []ir.Node{a}}
	}
	out := &ir.Union{Nullable: ua.Nullable, Members: append([]ir.Node(nil), ua.Members...)}
	if ub, ok := b.(*ir.Union); ok {
		out.Nullable = out.Nullable || ub.Nullable
		for _, m := range ub.Members {
			out.Members = addMember(out.Members, m)
		}
		return out
	}
	out.Members = addMember(out.Members, b)
	return out
}

func addMember(members []ir.Node, n ir.Node) []ir.Node {
	for i, m := range members {
		if c, ok := combine(m, n); ok {
			members[i] = c
			return members
		}
	}
	return append(members, n)
}

// combine merges two types of the same shape.
func combine(a, b ir.Node) (ir.Node, bool) {
	switch x := a.(type) {
	case *ir.Scalar:
		y, ok := b.(*ir.Scalar)
		if !ok {
			return nil, false
		}
		switch {
		case x.Base == y.Base && x.Format == y.Format:
			return x, true
		case x.Base == ir.String && y.Base == ir.String:
			return &ir.Scalar{Base: ir.String}, true
		case numeric(x) && numeric(y):
			return &ir.Scalar{Base: ir.Number}, true
		}
	case *ir.Object:
		if y, ok := b.(*ir.Object); ok {
			return mergeObjects(x, y), true
		}
	case *ir.Array:
		if y, ok := b.(*ir.Array); ok {
			return &ir.Array{Item: merge(x.Item, y.Item)}, true
		}
	}
	return nil, false
}

func numeric(s *ir.Scalar) bool { return s.Base == ir.Integer || s.Base == ir.Number }

func mergeObjects(x, y *ir.Object) *ir.Object {
	out := &ir.Object{}
	for _, f := range x.Fields {
		if g, ok := y.Lookup(f.Name); ok {
			out.Fields = append(out.Fields, ir.Field{
				Name:     f.Name,
				Type:     merge(f.Type, g.Type),
				Required: f.Required && g.Required,
			})
			continue
		}
		f.Required = false
		out.Fields = append(out.Fields, f)
	}
	for _, g := range y.Fields {
		if _, ok := x.Lookup(g.Name); !ok {
			g.Required = false
			out.Fields = append(out.Fields, g)
		}
	}
	return out
}

// finalize replaces types that were only ever observed as null (or in empty
// arrays) with string, and unwraps single-member unions.
func finalize(n ir.Node) ir.Node {
	switch t := n.(type) {
	case nil:
		return &ir.Scalar{Base: ir.String}
	case *ir.Object:
		for i := range t.Fields {
			t.Fields[i].Type = finalize(t.Fields[i].Type)
		}
	case *ir.Array:
		t.Item = finalize(t.Item)
	case *ir.Union:
		for i, m := range t.Members {
			t.Members[i] = finalize(m)
		}
		if len(t.Members) == 0 {
			t.Members = []ir.Node{&ir.Scalar{Base: ir.String}}
		}
		if len(t.Members) == 1 && !t.Nullable {
			return t.Members[0]
		}
	}
	return n
}

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// formatOf guesses the special format of a sample string.
func formatOf(s string) ir.Format {
	switch {
	case uuidPattern.MatchString(s):
		return ir.FormatUUID
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return ir.FormatURL
	case datePattern.MatchString(s):
		if _, err := time.Parse(time.DateOnly, s); err == nil {
			return ir.FormatDate
		}
	case len(s) > 10 && datePattern.MatchString(s[:10]):
		if _, err := time.Parse(time.RFC3339, s); err == nil {
			return ir.FormatDateTime
		}
	case isEmail(s):
		return ir.FormatEmail
	}
	return ir.FormatNone
}

func isEmail(s string) bool {
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
