// Package diag validates DSL text and reports errors, advisory warnings and
// the set of language features a schema uses.
package diag

import (
	"fmt"

	"github.com/reoring/strschema/internal/parser"
	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/report"
)

// Result is the outcome of Diagnose. Root is nil when Errors is non-empty.
type Result struct {
	Valid    bool
	Errors   report.Issues
	Warnings report.Issues
	Features []Feature
	Root     ir.Node
}

// Option tunes the warning heuristics.
type Option func(*options)

type options struct {
	maxFieldsWithoutOptional int
	maxTotalFields           int
	warningsAsErrors         bool
}

func defaultOptions() options {
	return options{maxFieldsWithoutOptional: 5, maxTotalFields: 20}
}

// MaxFieldsWithoutOptional sets how many fields an object may declare before
// the absence of any optional field is reported. Zero or less keeps the
// default.
func MaxFieldsWithoutOptional(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxFieldsWithoutOptional = n
		}
	}
}

// MaxTotalFields sets the total field count above which a schema is reported
// as too large. Zero or less keeps the default.
func MaxTotalFields(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTotalFields = n
		}
	}
}

// WarningsAsErrors makes any warning invalidate the result.
func WarningsAsErrors(on bool) Option {
	return func(o *options) { o.warningsAsErrors = on }
}

// Diagnose parses src and, when it is valid, inspects the resulting IR. The
// first fatal error stops parsing and becomes the single entry of Errors.
func Diagnose(src string, opts ...Option) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Errors: report.Errorf(report.Semantic, report.CodeInternal, report.Pos{}, 0,
				"internal error: %v", r)}
		}
	}()

	root, err := parser.Parse(src)
	if err != nil {
		iss, ok := report.AsIssues(err)
		if !ok {
			iss = report.Errorf(report.Semantic, report.CodeInternal, report.Pos{}, 0, "%v", err)
		}
		return Result{Errors: iss}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	warnings, features := inspect(root, o)
	res = Result{Valid: true, Warnings: warnings, Features: features, Root: root}
	if o.warningsAsErrors && len(warnings) > 0 {
		res.Valid = false
		res.Errors = report.Errorf(report.Advisory, report.CodeWarningsTreatedAsErrors, report.Pos{}, 0,
			"%d warning(s) treated as errors", len(warnings))
	}
	return res
}

// Inspect runs the warning heuristics and the feature inventory over an
// already parsed tree.
func Inspect(root ir.Node, opts ...Option) (report.Issues, []Feature) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return inspect(root, o)
}

func inspect(root ir.Node, o options) (report.Issues, []Feature) {
	in := &inspector{opts: o}
	in.walk(root, "", report.Pos{}, 0)
	if in.totalFields > o.maxTotalFields {
		in.warn(report.CodeManyFields, report.Pos{}, 0, "",
			"consider splitting the schema into smaller pieces",
			"schema declares %d fields (more than %d)", in.totalFields, o.maxTotalFields)
	}
	return in.warnings, in.features.sorted()
}

type inspector struct {
	opts        options
	features    featureSet
	warnings    report.Issues
	totalFields int
	arrayWarned bool
}

func (in *inspector) warn(code string, pos report.Pos, length int, path, hint, format string, args ...any) {
	in.warnings = report.AppendIssues(in.warnings, report.Issue{
		Kind:     report.Advisory,
		Severity: report.SeverityWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Hint:     hint,
		Pos:      pos,
		Len:      length,
		Path:     path,
	})
}

// walk visits n, which sits at path and is declared by the field name at
// pos (zero for the root).
func (in *inspector) walk(n ir.Node, path string, pos report.Pos, length int) {
	switch t := n.(type) {
	case *ir.Scalar:
		if t.Format != ir.FormatNone {
			in.features.add(SpecialTypes)
		} else {
			in.features.add(BasicTypes)
		}
		if !t.Constraints.IsZero() {
			in.features.add(Constraints)
		}
	case *ir.Object:
		in.object(t, path)
	case *ir.Array:
		in.features.add(Arrays)
		if t.Spelling != "" {
			in.features.add(AltArraySyntax)
		}
		if _, ok := t.Item.(*ir.Object); ok {
			in.features.add(ObjectArrays)
		}
		if t.Constraints.IsZero() {
			if !in.arrayWarned {
				in.arrayWarned = true
				in.warn(report.CodeSuggestArrayBounds, pos, length, path,
					"write e.g. [string](max=10)",
					"array has no item-count constraints; bounds give generators clearer limits")
			}
		} else {
			in.features.add(Constraints)
		}
		in.walk(t.Item, path+"[]", pos, length)
	case *ir.Enum:
		in.features.add(Enums)
		if t.Spelling == "choice" || t.Spelling == "select" {
			in.features.add(EnumAliases)
		}
		if len(t.Values) == 1 {
			in.warn(report.CodeSingleValueEnum, pos, length, path, "",
				"enum has a single value %q", t.Values[0])
		}
	case *ir.Union:
		in.features.add(Unions)
		if t.Nullable {
			in.features.add(Nullable)
		}
		for _, m := range t.Members {
			in.walk(m, path, pos, length)
		}
	}
}

func (in *inspector) object(o *ir.Object, path string) {
	optional := false
	for _, f := range o.Fields {
		in.totalFields++
		fp := f.Name
		if path != "" {
			fp = path + "." + f.Name
		}
		if !f.Required {
			optional = true
			in.features.add(OptionalFields)
		}
		if _, ok := f.Type.(*ir.Object); ok {
			in.features.add(NestedObjects)
		}
		in.fieldHeuristics(f, fp)
		in.walk(f.Type, fp, f.Pos, len(f.Name))
	}
	if len(o.Fields) > in.opts.maxFieldsWithoutOptional && !optional {
		var pos report.Pos
		if len(o.Fields) > 0 {
			pos = o.Fields[0].Pos
		}
		in.warn(report.CodeSuggestOptional, pos, 0, path,
			"mark fields that may be absent with '?'",
			"object has %d fields and none is optional", len(o.Fields))
	}
}
