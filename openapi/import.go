package openapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/reoring/strschema/jsonschema"
)

// ErrNotFound is returned by Import when no document defines the name.
var ErrNotFound = errors.New("openapi: schema not found")

// Import scans a (possibly multi-document) YAML or JSON input and returns
// the schema registered under name. Two shapes are recognized:
//
//   - an OpenAPI document with components.schemas.<name>;
//   - a Kubernetes CustomResourceDefinition whose spec.names.kind is name,
//     taken from spec.versions[].schema.openAPIV3Schema (served versions
//     first) or the legacy spec.validation.openAPIV3Schema.
//
// Keywords the canonical schema does not model are ignored.
func Import(data []byte, name string) (*jsonschema.Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("openapi: decode: %w", err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		root := doc.Content[0]
		n := componentSchema(root, name)
		if n == nil {
			n = crdSchema(root, name)
		}
		if n == nil {
			continue
		}
		var s jsonschema.Schema
		if err := n.Decode(&s); err != nil {
			return nil, fmt.Errorf("openapi: schema %q: %w", name, err)
		}
		return &s, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func componentSchema(root *yaml.Node, name string) *yaml.Node {
	return lookup(root, "components", "schemas", name)
}

func crdSchema(root *yaml.Node, kind string) *yaml.Node {
	if k := lookup(root, "kind"); k == nil || k.Value != "CustomResourceDefinition" {
		return nil
	}
	if k := lookup(root, "spec", "names", "kind"); k == nil || k.Value != kind {
		return nil
	}
	var fallback *yaml.Node
	if vers := lookup(root, "spec", "versions"); vers != nil && vers.Kind == yaml.SequenceNode {
		for _, v := range vers.Content {
			s := lookup(v, "schema", "openAPIV3Schema")
			if s == nil {
				continue
			}
			if served := lookup(v, "served"); served == nil || served.Value == "true" {
				return s
			}
			if fallback == nil {
				fallback = s
			}
		}
	}
	if fallback != nil {
		return fallback
	}
	return lookup(root, "spec", "validation", "openAPIV3Schema")
}

// lookup follows a chain of mapping keys, returning nil when any is absent.
func lookup(n *yaml.Node, path ...string) *yaml.Node {
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				next = n.Content[i+1]
				break
			}
		}
		n = next
	}
	return n
}
