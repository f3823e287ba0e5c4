package i18n

import (
	"testing"

	"github.com/reoring/strschema/report"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T(report.CodeUnknownType, nil); msg != "unknown type" {
		t.Fatalf("expected a human message, got %q", msg)
	}
	if msg := T(LabelError, nil); msg != "error" {
		t.Fatalf("expected error label, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T(report.CodeUnknownType, nil); msg == "unknown type" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
	if msg := T(LabelWarning, nil); msg != "警告" {
		t.Fatalf("expected japanese label, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownLanguageFallsBack(t *testing.T) {
	SetLanguage("fr")
	defer SetLanguage("en")
	if msg := T(LabelHelp, nil); msg != "help" {
		t.Fatalf("expected english fallback, got %q", msg)
	}
}

func TestTranslator_UnknownCodeEchoes(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code echo, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T(report.CodeEmptySchema, nil); msg != "X:empty_schema" {
		t.Fatalf("custom translator not used: %q", msg)
	}
}

func TestEveryCodeHasEnglishTitle(t *testing.T) {
	codes := []string{
		report.CodeUnterminatedString, report.CodeEmptySchema, report.CodeUnexpectedToken,
		report.CodeUnbalanced, report.CodeMissingPunct, report.CodeEmptyConstraints,
		report.CodeUnknownType, report.CodeDuplicateField, report.CodeDuplicateEnumValue,
		report.CodeUnknownConstraint, report.CodeConstraintConflict, report.CodeConstraintNotAllowed,
		report.CodeInvalidConstraintValue, report.CodeInvalidUnion, report.CodeNullOutsideUnion,
		report.CodeUnsupportedSchema, report.CodeInternal, report.CodeWarningsTreatedAsErrors,
		report.CodeSuggestFormat, report.CodeSuggestEnum, report.CodeSuggestOptional,
		report.CodeSuggestArrayBounds, report.CodeManyFields, report.CodeSingleValueEnum,
	}
	for _, lang := range Languages() {
		for _, c := range codes {
			if _, ok := dictionaries[lang][c]; !ok {
				t.Errorf("%s: missing title for %s", lang, c)
			}
		}
	}
}

func TestTitle(t *testing.T) {
	if got := Title(report.CodeUnknownType); got != "" {
		t.Fatalf("english title should be empty, got %q", got)
	}
	SetLanguage("ja")
	defer SetLanguage("en")
	if got := Title(report.CodeUnknownType); got != "未知の型です" {
		t.Fatalf("got %q", got)
	}
	if got := Title("no_such_code"); got != "" {
		t.Fatalf("unknown code should have no title, got %q", got)
	}
}
