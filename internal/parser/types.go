package parser

import (
	"sort"
	"strings"

	"github.com/reoring/strschema/ir"
)

type scalarSpec struct {
	base   ir.Base
	format ir.Format
	text   bool
}

// scalarTypes maps every accepted type spelling to its normalized scalar.
var scalarTypes = map[string]scalarSpec{
	"string":  {base: ir.String},
	"str":     {base: ir.String},
	"text":    {base: ir.String, text: true},
	"int":     {base: ir.Integer},
	"integer": {base: ir.Integer},
	"number":  {base: ir.Number},
	"num":     {base: ir.Number},
	"float":   {base: ir.Number},
	"double":  {base: ir.Number},
	"decimal": {base: ir.Number},
	"bool":    {base: ir.Boolean},
	"boolean": {base: ir.Boolean},

	"email":    {base: ir.String, format: ir.FormatEmail},
	"url":      {base: ir.String, format: ir.FormatURL},
	"uri":      {base: ir.String, format: ir.FormatURL},
	"datetime": {base: ir.String, format: ir.FormatDateTime},
	"date":     {base: ir.String, format: ir.FormatDate},
	"uuid":     {base: ir.String, format: ir.FormatUUID},
	"phone":    {base: ir.String, format: ir.FormatPhone},
	"tel":      {base: ir.String, format: ir.FormatPhone},
}

const (
	kwNull = "null"
)

var enumKeywords = map[string]bool{"enum": true, "choice": true, "select": true}

var arrayKeywords = map[string]bool{"array": true, "list": true}

// knownTypeNames is the sorted suggestion table for unknown type names.
var knownTypeNames = func() []string {
	out := make([]string, 0, len(scalarTypes))
	for name := range scalarTypes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}()

func lookupScalar(name string) (scalarSpec, bool) {
	s, ok := scalarTypes[strings.ToLower(name)]
	return s, ok
}

// isTypeWord reports whether name can begin a type expression.
func isTypeWord(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := scalarTypes[lower]; ok {
		return true
	}
	return lower == kwNull || enumKeywords[lower] || arrayKeywords[lower]
}
