package diag

import (
	"strings"

	"github.com/tidwall/btree"

	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/report"
)

// Feature names a DSL language feature found in a schema.
type Feature string

const (
	BasicTypes     Feature = "basic_types"
	SpecialTypes   Feature = "special_types"
	OptionalFields Feature = "optional_fields"
	Constraints    Feature = "constraints"
	Arrays         Feature = "arrays"
	ObjectArrays   Feature = "object_arrays"
	Enums          Feature = "enums"
	EnumAliases    Feature = "enum_aliases"
	AltArraySyntax Feature = "alt_array_syntax"
	Unions         Feature = "unions"
	Nullable       Feature = "nullable"
	NestedObjects  Feature = "nested_objects"
)

type featureSet struct {
	set btree.Set[string]
}

func (s *featureSet) add(f Feature) { s.set.Insert(string(f)) }

func (s *featureSet) sorted() []Feature {
	out := make([]Feature, 0, s.set.Len())
	s.set.Scan(func(k string) bool {
		out = append(out, Feature(k))
		return true
	})
	return out
}

var enumLikeNames = map[string]bool{
	"status": true, "state": true, "role": true, "priority": true,
	"kind": true, "type": true, "category": true,
}

// formatFor guesses the special type a plainly typed string field probably
// wants from its name.
func formatFor(name string) (ir.Format, bool) {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "email") || strings.HasSuffix(n, "mail"):
		return ir.FormatEmail, true
	case strings.Contains(n, "url") || strings.Contains(n, "website") || strings.Contains(n, "homepage"):
		return ir.FormatURL, true
	case strings.Contains(n, "phone") || strings.Contains(n, "mobile") || n == "tel":
		return ir.FormatPhone, true
	case strings.HasSuffix(n, "_at") || strings.Contains(n, "timestamp"):
		return ir.FormatDateTime, true
	}
	return ir.FormatNone, false
}

func enumLike(name string) bool {
	n := strings.ToLower(name)
	if enumLikeNames[n] {
		return true
	}
	return strings.HasSuffix(n, "_status") || strings.HasSuffix(n, "_state") || strings.HasSuffix(n, "_type")
}

func (in *inspector) fieldHeuristics(f ir.Field, path string) {
	s, ok := f.Type.(*ir.Scalar)
	if !ok || s.Base != ir.String || s.Format != ir.FormatNone {
		return
	}
	if format, ok := formatFor(f.Name); ok {
		in.warn(report.CodeSuggestFormat, f.Pos, len(f.Name), path,
			"use "+format.Name(),
			"field %q is a plain %s but its name suggests %s", f.Name, s.Name(), format.Name())
		return
	}
	if enumLike(f.Name) {
		in.warn(report.CodeSuggestEnum, f.Pos, len(f.Name), path,
			"list the allowed values, e.g. enum(active,inactive)",
			"field %q is typed %s; a fixed set of values is usually intended", f.Name, s.Name())
	}
}
