package jsonschema

import (
	"fmt"

	"github.com/reoring/strschema/ir"
)

// formats maps special string formats to the standard JSON Schema format
// keyword. Formats missing here (phone) are emitted as a FormatHint.
var formats = map[ir.Format]string{
	ir.FormatEmail:    "email",
	ir.FormatURL:      "uri",
	ir.FormatDateTime: "date-time",
	ir.FormatDate:     "date",
	ir.FormatUUID:     "uuid",
}

// Emit renders an IR tree as a canonical schema. It is total over valid IR
// and panics on a nil node.
func Emit(n ir.Node) *Schema {
	if n == nil {
		panic("jsonschema: Emit called with a nil node")
	}
	switch t := n.(type) {
	case *ir.Scalar:
		return emitScalar(t)
	case *ir.Object:
		s := &Schema{Type: TypeObject}
		for _, f := range t.Fields {
			s.Properties = append(s.Properties, Property{Name: f.Name, Schema: Emit(f.Type)})
		}
		s.Required = t.RequiredNames()
		return s
	case *ir.Array:
		s := &Schema{Type: TypeArray, Items: Emit(t.Item)}
		applyConstraints(s, t.Constraints)
		return s
	case *ir.Enum:
		return &Schema{Type: TypeString, Enum: append([]string(nil), t.Values...)}
	case *ir.Union:
		s := &Schema{}
		for _, m := range t.Members {
			s.AnyOf = append(s.AnyOf, Emit(m))
		}
		if t.Nullable {
			s.AnyOf = append(s.AnyOf, &Schema{Type: TypeNull})
		}
		return s
	}
	panic(fmt.Sprintf("jsonschema: unknown IR node %T", n))
}

func emitScalar(t *ir.Scalar) *Schema {
	s := &Schema{}
	switch t.Base {
	case ir.Integer:
		s.Type = TypeInteger
	case ir.Number:
		s.Type = TypeNumber
	case ir.Boolean:
		s.Type = TypeBoolean
	default:
		s.Type = TypeString
	}
	if t.Format != ir.FormatNone {
		if f, ok := formats[t.Format]; ok {
			s.Format = f
		} else {
			s.FormatHint = t.Format.Name()
		}
	}
	applyConstraints(s, t.Constraints)
	return s
}

func applyConstraints(s *Schema, cs ir.Constraints) {
	for _, name := range cs.Names() {
		v, _ := cs.Get(name)
		switch name {
		case ir.MinLength:
			s.MinLength = intPtr(v)
		case ir.MaxLength:
			s.MaxLength = intPtr(v)
		case ir.Minimum:
			s.Minimum = &v
		case ir.Maximum:
			s.Maximum = &v
		case ir.MinItems:
			s.MinItems = intPtr(v)
		case ir.MaxItems:
			s.MaxItems = intPtr(v)
		}
	}
}

func intPtr(v float64) *int {
	i := int(v)
	return &i
}
