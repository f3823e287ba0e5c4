// Package report defines the positioned issue model shared by every stage of
// the compiler: source positions, issue kinds and severities, stable issue
// codes, and the Issues error type.
package report

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Lexical
	CodeUnterminatedString = "unterminated_string"

	// Syntactic
	CodeEmptySchema      = "empty_schema"
	CodeUnexpectedToken  = "unexpected_token"
	CodeUnbalanced       = "unbalanced"
	CodeMissingPunct     = "missing_punctuation"
	CodeEmptyConstraints = "empty_constraints"

	// Semantic
	CodeUnknownType             = "unknown_type"
	CodeDuplicateField          = "duplicate_field"
	CodeDuplicateEnumValue      = "duplicate_enum_value"
	CodeUnknownConstraint       = "unknown_constraint"
	CodeConstraintConflict      = "constraint_conflict"
	CodeConstraintNotAllowed    = "constraint_not_allowed"
	CodeInvalidConstraintValue  = "invalid_constraint_value"
	CodeInvalidUnion            = "invalid_union"
	CodeNullOutsideUnion        = "null_outside_union"
	CodeUnsupportedSchema       = "unsupported_schema"
	CodeInternal                = "internal"
	CodeWarningsTreatedAsErrors = "warnings_as_errors"

	// Advisory (warnings)
	CodeSuggestFormat      = "suggest_format"
	CodeSuggestEnum        = "suggest_enum"
	CodeSuggestOptional    = "suggest_optional"
	CodeSuggestArrayBounds = "suggest_array_bounds"
	CodeManyFields         = "many_fields"
	CodeSingleValueEnum    = "single_value_enum"
)

// Kind classifies an issue by the compiler stage that detected it.
type Kind int

const (
	Lexical Kind = iota
	Syntactic
	Semantic
	Advisory
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntactic:
		return "syntactic"
	case Semantic:
		return "semantic"
	case Advisory:
		return "advisory"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Severity tells whether an issue blocks compilation.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Pos is a location in DSL source text.
type Pos struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, counted in runes
}

// IsValid reports whether the position was set.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Issue represents a single diagnostic entry.
type Issue struct {
	Kind     Kind
	Severity Severity
	Code     string // One of the codes listed above.
	Message  string
	Hint     string // Optional: remediation hint, e.g. a "did you mean" suggestion.
	Pos      Pos
	Len      int    // Length in bytes of the offending source span (0 when unknown).
	Path     string // Optional: dotted field path such as user.contact.email.
}

// Error renders the issue as "line:col: message".
func (it Issue) Error() string {
	b := &strings.Builder{}
	if it.Pos.IsValid() {
		fmt.Fprintf(b, "%s: ", it.Pos)
	}
	b.WriteString(it.Message)
	if it.Hint != "" {
		fmt.Fprintf(b, " (%s)", it.Hint)
	}
	return b.String()
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Errorf builds a single-issue error of the given kind at pos.
func Errorf(kind Kind, code string, pos Pos, length int, format string, args ...any) Issues {
	return Issues{{
		Kind:     kind,
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Len:      length,
	}}
}

// WithHint returns a copy of iss whose first issue carries hint.
func (iss Issues) WithHint(hint string) Issues {
	if len(iss) == 0 || hint == "" {
		return iss
	}
	out := append(Issues(nil), iss...)
	out[0].Hint = hint
	return out
}
