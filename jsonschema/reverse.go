package jsonschema

import (
	"fmt"

	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/report"
)

var formatsByName = map[string]ir.Format{
	"email":     ir.FormatEmail,
	"uri":       ir.FormatURL,
	"url":       ir.FormatURL,
	"date-time": ir.FormatDateTime,
	"date":      ir.FormatDate,
	"uuid":      ir.FormatUUID,
}

// ToIR projects a schema written in the emitted vocabulary back to IR. It
// accepts the OpenAPI nullable keyword as well. Keywords the DSL cannot
// express are reported as unsupported_schema issues whose Path names the
// offending location.
func ToIR(s *Schema) (ir.Node, error) {
	return toIR(s, "$")
}

func unsupported(path, format string, args ...any) report.Issues {
	iss := report.Errorf(report.Semantic, report.CodeUnsupportedSchema, report.Pos{}, 0, format, args...)
	iss[0].Path = path
	iss[0].Message = path + ": " + iss[0].Message
	return iss
}

func toIR(s *Schema, path string) (ir.Node, error) {
	if s == nil {
		return nil, unsupported(path, "missing schema")
	}
	n, err := toIRBase(s, path)
	if err != nil {
		return nil, err
	}
	if !s.Nullable {
		return n, nil
	}
	if u, ok := n.(*ir.Union); ok {
		u.Nullable = true
		return u, nil
	}
	return &ir.Union{Members: []ir.Node{n}, Nullable: true}, nil
}

func toIRBase(s *Schema, path string) (ir.Node, error) {
	if len(s.AnyOf) > 0 {
		return unionToIR(s, path)
	}
	if len(s.Enum) > 0 {
		if s.Type != "" && s.Type != TypeString {
			return nil, unsupported(path, "enum of type %q", s.Type)
		}
		return &ir.Enum{Values: append([]string(nil), s.Enum...), Spelling: "enum"}, nil
	}

	switch s.Type {
	case TypeObject:
		return objectToIR(s, path)
	case TypeArray:
		if s.Items == nil {
			return nil, unsupported(path, "array without items")
		}
		item, err := toIR(s.Items, path+".items")
		if err != nil {
			return nil, err
		}
		cs, err := constraintsOf(s, ir.DimItems, path)
		if err != nil {
			return nil, err
		}
		return &ir.Array{Item: item, Constraints: cs}, nil
	case TypeString:
		sc := &ir.Scalar{Base: ir.String}
		switch {
		case s.Format != "":
			f, ok := formatsByName[s.Format]
			if !ok {
				return nil, unsupported(path, "string format %q", s.Format)
			}
			sc.Format = f
		case s.FormatHint == "phone":
			sc.Format = ir.FormatPhone
		case s.FormatHint != "":
			return nil, unsupported(path, "x-format %q", s.FormatHint)
		}
		cs, err := constraintsOf(s, ir.DimLength, path)
		if err != nil {
			return nil, err
		}
		sc.Constraints = cs
		return sc, nil
	case TypeInteger, TypeNumber:
		sc := &ir.Scalar{Base: ir.Number}
		if s.Type == TypeInteger {
			sc.Base = ir.Integer
		}
		cs, err := constraintsOf(s, ir.DimValue, path)
		if err != nil {
			return nil, err
		}
		sc.Constraints = cs
		return sc, nil
	case TypeBoolean:
		if _, err := constraintsOf(s, -1, path); err != nil {
			return nil, err
		}
		return &ir.Scalar{Base: ir.Boolean}, nil
	case TypeNull:
		return nil, unsupported(path, "null is only expressible as a union member")
	case "":
		return nil, unsupported(path, "schema without type")
	}
	return nil, unsupported(path, "type %q", s.Type)
}

func unionToIR(s *Schema, path string) (ir.Node, error) {
	u := &ir.Union{}
	for i, m := range s.AnyOf {
		mp := fmt.Sprintf("%s.anyOf[%d]", path, i)
		if m != nil && m.Type == TypeNull && len(m.AnyOf) == 0 {
			if u.Nullable {
				return nil, unsupported(mp, "null listed twice")
			}
			u.Nullable = true
			continue
		}
		n, err := toIR(m, mp)
		if err != nil {
			return nil, err
		}
		for _, prev := range u.Members {
			if ir.Equal(prev, n) {
				return nil, unsupported(mp, "duplicate union member")
			}
		}
		u.Members = append(u.Members, n)
	}
	if len(u.Members) == 0 {
		return nil, unsupported(path, "anyOf without a non-null member")
	}
	if len(u.Members) == 1 && !u.Nullable && !s.Nullable {
		return u.Members[0], nil
	}
	return u, nil
}

func objectToIR(s *Schema, path string) (ir.Node, error) {
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		if _, ok := s.Properties.Lookup(name); !ok {
			return nil, unsupported(path, "required property %q is not declared", name)
		}
		required[name] = true
	}
	obj := &ir.Object{}
	for _, p := range s.Properties {
		typ, err := toIR(p.Schema, path+"."+p.Name)
		if err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, ir.NewField(p.Name, typ, required[p.Name]))
	}
	return obj, nil
}

// constraintsOf collects the numeric keywords of s, rejecting those that do
// not belong to dim. A negative dim accepts none.
func constraintsOf(s *Schema, dim ir.Dimension, path string) (ir.Constraints, error) {
	var cs ir.Constraints
	set := func(name ir.ConstraintName, keyword string, v float64) error {
		if name.Dimension() != dim {
			return unsupported(path, "%s is not valid for type %q", keyword, s.Type)
		}
		cs = cs.With(name, v)
		return nil
	}
	ints := []struct {
		name    ir.ConstraintName
		keyword string
		v       *int
	}{
		{ir.MinLength, "minLength", s.MinLength},
		{ir.MaxLength, "maxLength", s.MaxLength},
		{ir.MinItems, "minItems", s.MinItems},
		{ir.MaxItems, "maxItems", s.MaxItems},
	}
	for _, c := range ints {
		if c.v != nil {
			if err := set(c.name, c.keyword, float64(*c.v)); err != nil {
				return cs, err
			}
		}
	}
	if s.Minimum != nil {
		if err := set(ir.Minimum, "minimum", *s.Minimum); err != nil {
			return cs, err
		}
	}
	if s.Maximum != nil {
		if err := set(ir.Maximum, "maximum", *s.Maximum); err != nil {
			return cs, err
		}
	}
	return cs, nil
}
