// Package ir defines the intermediate representation produced by the DSL
// parser and consumed by the emitter, the diagnostics engine and the
// formatter.
//
// The node set is closed: Scalar, Object, Array, Enum and Union are the only
// implementations of Node. Consumers switch over Kind (or a type switch) and
// never re-inspect type name strings.
package ir

import (
	"fmt"

	"github.com/reoring/strschema/report"
)

// NodeKind identifies an IR node type.
type NodeKind int

const (
	NodeScalar NodeKind = iota
	NodeObject
	NodeArray
	NodeEnum
	NodeUnion
)

func (k NodeKind) String() string {
	switch k {
	case NodeScalar:
		return "scalar"
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	case NodeEnum:
		return "enum"
	case NodeUnion:
		return "union"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is the root IR node interface.
type Node interface {
	Kind() NodeKind
	isNode()
}

// Base is the JSON base type of a scalar.
type Base int

const (
	String Base = iota
	Integer
	Number
	Boolean
)

func (b Base) String() string {
	switch b {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	}
	return fmt.Sprintf("Base(%d)", int(b))
}

// Format is a special-format tag carried by string scalars.
type Format int

const (
	FormatNone Format = iota
	FormatEmail
	FormatURL
	FormatDateTime
	FormatDate
	FormatUUID
	FormatPhone
)

// Name is the canonical DSL spelling of the format ("" for FormatNone).
func (f Format) Name() string {
	switch f {
	case FormatEmail:
		return "email"
	case FormatURL:
		return "url"
	case FormatDateTime:
		return "datetime"
	case FormatDate:
		return "date"
	case FormatUUID:
		return "uuid"
	case FormatPhone:
		return "phone"
	}
	return ""
}

func (f Format) String() string {
	if f == FormatNone {
		return "none"
	}
	return f.Name()
}

// Scalar represents string/integer/number/boolean values, optionally tagged
// with a special format.
type Scalar struct {
	Base        Base
	Format      Format
	Text        bool // "text": a string with long-form text semantics
	Constraints Constraints
	Alias       string // spelling used in the source, e.g. "str" or "float"
}

func (*Scalar) Kind() NodeKind { return NodeScalar }
func (*Scalar) isNode()        {}

// Dimension returns the constraint dimension of the scalar, and false for
// booleans which accept no constraints.
func (s *Scalar) Dimension() (Dimension, bool) {
	switch s.Base {
	case String:
		return DimLength, true
	case Integer, Number:
		return DimValue, true
	}
	return 0, false
}

// Name is the canonical DSL type name of the scalar.
func (s *Scalar) Name() string {
	if s.Format != FormatNone {
		return s.Format.Name()
	}
	switch s.Base {
	case Integer:
		return "int"
	case Number:
		return "number"
	case Boolean:
		return "bool"
	}
	if s.Text {
		return "text"
	}
	return "string"
}

// Object represents an object with ordered, uniquely named fields.
type Object struct {
	Fields []Field
}

func (*Object) Kind() NodeKind { return NodeObject }
func (*Object) isNode()        {}

// Lookup returns the field with the given name.
func (o *Object) Lookup(name string) (Field, bool) {
	for _, f := range o.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RequiredNames lists the names of required fields in declaration order.
func (o *Object) RequiredNames() []string {
	var out []string
	for _, f := range o.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// NewObject builds an object from fields, rejecting duplicate names.
func NewObject(fields ...Field) (*Object, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return nil, report.Errorf(report.Semantic, report.CodeDuplicateField, f.Pos, len(f.Name),
				"duplicate field %q", f.Name)
		}
		if f.Type == nil {
			return nil, fmt.Errorf("ir: field %q has no type", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return &Object{Fields: append([]Field(nil), fields...)}, nil
}

// Field maps a property name to its type and presence.
type Field struct {
	Name     string
	Type     Node
	Required bool
	Pos      report.Pos // position of the field name (zero when built in code)
}

// NewField builds a field from an already constructed type.
func NewField(name string, typ Node, required bool) Field {
	return Field{Name: name, Type: typ, Required: required}
}

// Constraints returns the constraints attached to the field's own type
// dimension: length for strings, value range for numbers, item count for
// arrays. Other types carry none.
func (f Field) Constraints() Constraints {
	switch t := f.Type.(type) {
	case *Scalar:
		return t.Constraints
	case *Array:
		return t.Constraints
	}
	return Constraints{}
}

// Array represents an array of items with item-count constraints.
type Array struct {
	Item        Node
	Constraints Constraints
	Spelling    string // "" for [T], otherwise "array" or "list"
}

func (*Array) Kind() NodeKind { return NodeArray }
func (*Array) isNode()        {}

// Enum represents a closed set of string values.
type Enum struct {
	Values   []string
	Spelling string // "enum", "choice" or "select"
}

func (*Enum) Kind() NodeKind { return NodeEnum }
func (*Enum) isNode()        {}

// Union represents alternative types. A null member is recorded as Nullable
// rather than stored in Members.
type Union struct {
	Members  []Node
	Nullable bool
}

func (*Union) Kind() NodeKind { return NodeUnion }
func (*Union) isNode()        {}
