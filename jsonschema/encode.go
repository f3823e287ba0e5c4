package jsonschema

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Marshal encodes s as JSON. indent <= 0 produces compact output.
func Marshal(s *Schema, indent int) ([]byte, error) {
	if indent <= 0 {
		return json.Marshal(s)
	}
	return json.MarshalIndent(s, "", strings.Repeat(" ", indent))
}

// MarshalYAML encodes s as YAML. indent <= 0 uses the yaml.v3 default.
func MarshalYAML(s *Schema, indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if indent > 0 {
		enc.SetIndent(indent)
	}
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON schema document.
func Unmarshal(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("jsonschema: decode json: %w", err)
	}
	return &s, nil
}

// UnmarshalYAML decodes a YAML schema document.
func UnmarshalYAML(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("jsonschema: decode yaml: %w", err)
	}
	return &s, nil
}
