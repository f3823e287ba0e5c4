package strschema

import (
	"github.com/reoring/strschema/diag"
	"github.com/reoring/strschema/dslfmt"
	"github.com/reoring/strschema/infer"
	"github.com/reoring/strschema/internal/parser"
	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/jsonschema"
)

// Parse compiles DSL text into its IR. Errors are report.Issues.
func Parse(src string) (ir.Node, error) { return parser.Parse(src) }

// ParseField builds a field from a raw DSL type string such as
// "int(0,120)?". It converges with ir.NewField on the same ir.Field value.
func ParseField(name, def string) (ir.Field, error) { return parser.ParseField(name, def) }

// Compile parses src and emits its canonical schema. No partial schema is
// returned on error.
func Compile(src string) (*jsonschema.Schema, error) {
	n, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return jsonschema.Emit(n), nil
}

// CompileJSON compiles src and encodes the schema as JSON. indent <= 0
// produces compact output.
func CompileJSON(src string, indent int) ([]byte, error) {
	s, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return jsonschema.Marshal(s, indent)
}

// Diagnose validates src and reports errors, warnings and used features.
func Diagnose(src string, opts ...diag.Option) diag.Result {
	return diag.Diagnose(src, opts...)
}

// Format reprints src in canonical DSL form.
func Format(src string) (string, error) {
	n, err := parser.Parse(src)
	if err != nil {
		return "", err
	}
	return dslfmt.Format(n), nil
}

// Reverse converts a schema in the emitted vocabulary back to DSL text.
func Reverse(s *jsonschema.Schema) (string, error) {
	n, err := jsonschema.ToIR(s)
	if err != nil {
		return "", err
	}
	return dslfmt.Format(n), nil
}

// Infer derives DSL text from a JSON data sample. Keys that are null or
// missing from some elements of an array become optional fields.
func Infer(sample []byte) (string, error) {
	n, err := infer.JSON(sample)
	if err != nil {
		return "", err
	}
	return dslfmt.Format(n), nil
}
