// Package i18n localizes diagnostic labels and issue-code titles.
package i18n

// Label keys used by diagnostic renderers.
const (
	LabelError   = "label.error"
	LabelWarning = "label.warning"
	LabelHelp    = "label.help"
	LabelValid   = "label.valid"
	LabelInvalid = "label.invalid"
	LabelFeature = "label.features"
)

// Translator retrieves localized messages for label keys and issue codes.
// data provides optional values to embed in the message (for example
// "count").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		LabelError:   "error",
		LabelWarning: "warning",
		LabelHelp:    "help",
		LabelValid:   "valid",
		LabelInvalid: "invalid",
		LabelFeature: "features used",

		"unterminated_string":      "unterminated string literal",
		"empty_schema":             "empty schema",
		"unexpected_token":         "unexpected token",
		"unbalanced":               "unbalanced brackets",
		"missing_punctuation":      "missing punctuation",
		"empty_constraints":        "empty constraint list",
		"unknown_type":             "unknown type",
		"duplicate_field":          "duplicate field",
		"duplicate_enum_value":     "duplicate enum value",
		"unknown_constraint":       "unknown constraint",
		"constraint_conflict":      "conflicting constraints",
		"constraint_not_allowed":   "constraint not allowed here",
		"invalid_constraint_value": "invalid constraint value",
		"invalid_union":            "invalid union",
		"null_outside_union":       "null outside a union",
		"unsupported_schema":       "unsupported schema construct",
		"internal":                 "internal error",
		"warnings_as_errors":       "warnings treated as errors",
		"suggest_format":           "consider a format type",
		"suggest_enum":             "consider an enum",
		"suggest_optional":         "consider optional fields",
		"suggest_array_bounds":     "consider array bounds",
		"many_fields":              "many fields",
		"single_value_enum":        "single-value enum",
	},
	"ja": {
		LabelError:   "エラー",
		LabelWarning: "警告",
		LabelHelp:    "ヒント",
		LabelValid:   "有効",
		LabelInvalid: "無効",
		LabelFeature: "使用機能",

		"unterminated_string":      "文字列リテラルが閉じられていません",
		"empty_schema":             "スキーマが空です",
		"unexpected_token":         "予期しないトークンです",
		"unbalanced":               "括弧の対応が取れていません",
		"missing_punctuation":      "記号が不足しています",
		"empty_constraints":        "制約リストが空です",
		"unknown_type":             "未知の型です",
		"duplicate_field":          "フィールドが重複しています",
		"duplicate_enum_value":     "列挙値が重複しています",
		"unknown_constraint":       "未知の制約です",
		"constraint_conflict":      "制約が矛盾しています",
		"constraint_not_allowed":   "この型には指定できない制約です",
		"invalid_constraint_value": "制約の値が不正です",
		"invalid_union":            "ユニオンが不正です",
		"null_outside_union":       "null はユニオンの中でのみ使えます",
		"unsupported_schema":       "変換できないスキーマ構文です",
		"internal":                 "内部エラー",
		"warnings_as_errors":       "警告をエラーとして扱いました",
		"suggest_format":           "書式型の利用を検討してください",
		"suggest_enum":             "列挙型の利用を検討してください",
		"suggest_optional":         "任意フィールドの利用を検討してください",
		"suggest_array_bounds":     "配列の要素数制約を検討してください",
		"many_fields":              "フィールドが多すぎます",
		"single_value_enum":        "値が一つだけの列挙型です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	if msg, ok := dictionaries[t.lang][code]; ok {
		return msg
	}
	if msg, ok := dictionaries["en"][code]; ok {
		return msg
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// Languages lists the built-in languages.
func Languages() []string { return []string{"en", "ja"} }

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// Title returns the localized title of an issue code. It is empty while the
// built-in English dictionary is active, since issue messages are English.
func Title(code string) string {
	if d, ok := currentTranslator.(dictTranslator); ok && d.lang == "en" {
		return ""
	}
	if msg := T(code, nil); msg != code {
		return msg
	}
	return ""
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
