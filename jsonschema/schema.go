package jsonschema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Draft202012 is the meta-schema URL the CLI stamps into $schema by default.
const Draft202012 = "https://json-schema.org/draft/2020-12/schema"

// JSON type names used by the emitter.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeNull    = "null"
)

// Schema is the canonical JSON-Schema shaped document produced by Emit.
// Only the vocabulary the DSL can express is modeled; field order here is
// the key order of encoded output.
type Schema struct {
	Draft string `json:"$schema,omitempty" yaml:"$schema,omitempty"`

	// Core
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`
	FormatHint string `json:"x-format,omitempty" yaml:"x-format,omitempty"`
	Nullable   bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"` // OpenAPI 3.0 only

	// Enum
	Enum []string `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Object
	Properties Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string   `json:"required,omitempty" yaml:"required,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty" yaml:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`

	// String
	MinLength *int `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`

	// Numeric
	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`

	// Union
	AnyOf []*Schema `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
}

// encoded mirrors Schema field for field. Properties is a pointer so an
// object without fields still encodes "properties": {}.
type encoded struct {
	Draft      string      `json:"$schema,omitempty" yaml:"$schema,omitempty"`
	Type       string      `json:"type,omitempty" yaml:"type,omitempty"`
	Format     string      `json:"format,omitempty" yaml:"format,omitempty"`
	FormatHint string      `json:"x-format,omitempty" yaml:"x-format,omitempty"`
	Nullable   bool        `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Enum       []string    `json:"enum,omitempty" yaml:"enum,omitempty"`
	Properties *Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string    `json:"required,omitempty" yaml:"required,omitempty"`
	Items      *Schema     `json:"items,omitempty" yaml:"items,omitempty"`
	MinItems   *int        `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems   *int        `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	MinLength  *int        `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength  *int        `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Minimum    *float64    `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum    *float64    `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	AnyOf      []*Schema   `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
}

func (s Schema) encoded() encoded {
	e := encoded{
		Draft:      s.Draft,
		Type:       s.Type,
		Format:     s.Format,
		FormatHint: s.FormatHint,
		Nullable:   s.Nullable,
		Enum:       s.Enum,
		Required:   s.Required,
		Items:      s.Items,
		MinItems:   s.MinItems,
		MaxItems:   s.MaxItems,
		MinLength:  s.MinLength,
		MaxLength:  s.MaxLength,
		Minimum:    s.Minimum,
		Maximum:    s.Maximum,
		AnyOf:      s.AnyOf,
	}
	if len(s.Properties) > 0 || s.Type == TypeObject {
		ps := s.Properties
		if ps == nil {
			ps = Properties{}
		}
		e.Properties = &ps
	}
	return e
}

func (s Schema) MarshalJSON() ([]byte, error) { return json.Marshal(s.encoded()) }

func (s Schema) MarshalYAML() (any, error) { return s.encoded(), nil }

// Property is a named entry of Properties.
type Property struct {
	Name   string
	Schema *Schema
}

// Properties is an ordered property map. It encodes as a JSON/YAML object
// whose keys keep declaration order.
type Properties []Property

// Lookup returns the schema of the named property.
func (ps Properties) Lookup(name string) (*Schema, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// Names lists property names in order.
func (ps Properties) Names() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func (ps Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Schema)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ps *Properties) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("jsonschema: properties must be an object, found %v", tok)
	}
	var out Properties
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("jsonschema: unexpected property key %v", tok)
		}
		var s Schema
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		out = append(out, Property{Name: name, Schema: &s})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*ps = out
	return nil
}

func (ps Properties) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range ps {
		v := &yaml.Node{}
		if err := v.Encode(p.Schema); err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Name, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Name}, v)
	}
	return n, nil
}

func (ps *Properties) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("jsonschema: line %d: properties must be a mapping", n.Line)
	}
	var out Properties
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		var s Schema
		if err := n.Content[i+1].Decode(&s); err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		out = append(out, Property{Name: name, Schema: &s})
	}
	*ps = out
	return nil
}

// Clone returns a deep copy of s.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Enum = cloneSlice(s.Enum)
	c.Required = cloneSlice(s.Required)
	if s.Properties != nil {
		c.Properties = make(Properties, len(s.Properties))
		for i, p := range s.Properties {
			c.Properties[i] = Property{Name: p.Name, Schema: p.Schema.Clone()}
		}
	}
	c.Items = s.Items.Clone()
	c.MinItems = clonePtr(s.MinItems)
	c.MaxItems = clonePtr(s.MaxItems)
	c.MinLength = clonePtr(s.MinLength)
	c.MaxLength = clonePtr(s.MaxLength)
	c.Minimum = clonePtr(s.Minimum)
	c.Maximum = clonePtr(s.Maximum)
	if s.AnyOf != nil {
		c.AnyOf = make([]*Schema, len(s.AnyOf))
		for i, m := range s.AnyOf {
			c.AnyOf[i] = m.Clone()
		}
	}
	return &c
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append([]T(nil), in...)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
