// Package openapi renders canonical schemas as OpenAPI 3.0 components and
// extracts component schemas from OpenAPI documents and Kubernetes CRDs.
package openapi

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/strschema/jsonschema"
)

// Version is the OpenAPI version stamped into generated documents.
const Version = "3.0.3"

// Info is the OpenAPI info object.
type Info struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Components holds named component schemas in declaration order.
type Components struct {
	Schemas jsonschema.Properties `json:"schemas" yaml:"schemas"`
}

// Doc is a minimal OpenAPI 3.0 document carrying only components.
type Doc struct {
	OpenAPI    string         `json:"openapi" yaml:"openapi"`
	Info       Info           `json:"info" yaml:"info"`
	Paths      map[string]any `json:"paths" yaml:"paths"`
	Components Components     `json:"components" yaml:"components"`
}

// FromSchema converts an emitted schema to the OpenAPI 3.0 dialect. The
// input is not modified. $schema is dropped, and a union containing null is
// folded into the nullable keyword: a single remaining member replaces the
// union, several remain under anyOf.
func FromSchema(s *jsonschema.Schema) *jsonschema.Schema {
	out := s.Clone()
	if out == nil {
		return nil
	}
	out.Draft = ""
	fold(out)
	return out
}

func fold(s *jsonschema.Schema) {
	for _, p := range s.Properties {
		fold(p.Schema)
	}
	if s.Items != nil {
		fold(s.Items)
	}
	for _, m := range s.AnyOf {
		fold(m)
	}
	if len(s.AnyOf) == 0 {
		return
	}

	var members []*jsonschema.Schema
	nullable := false
	for _, m := range s.AnyOf {
		if m.Type == jsonschema.TypeNull {
			nullable = true
			continue
		}
		members = append(members, m)
	}
	if !nullable {
		return
	}
	if len(members) == 1 {
		*s = *members[0]
		s.Nullable = true
		return
	}
	s.AnyOf = members
	s.Nullable = true
}

// Document builds an OpenAPI document whose components.schemas holds each
// given schema converted with FromSchema.
func Document(info Info, components jsonschema.Properties) *Doc {
	doc := &Doc{
		OpenAPI: Version,
		Info:    info,
		Paths:   map[string]any{},
	}
	for _, c := range components {
		doc.Components.Schemas = append(doc.Components.Schemas, jsonschema.Property{
			Name:   c.Name,
			Schema: FromSchema(c.Schema),
		})
	}
	return doc
}

// Marshal encodes doc as JSON. indent <= 0 produces compact output.
func Marshal(doc *Doc, indent int) ([]byte, error) {
	if indent <= 0 {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
}

// MarshalYAML encodes doc as YAML.
func MarshalYAML(doc *Doc, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
