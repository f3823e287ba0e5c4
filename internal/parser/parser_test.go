package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/report"
)

func mustObject(t *testing.T, src string) *ir.Object {
	t.Helper()
	n, err := Parse(src)
	require.NoError(t, err, src)
	obj, ok := n.(*ir.Object)
	require.True(t, ok, "expected object, got %T", n)
	return obj
}

func field(t *testing.T, obj *ir.Object, name string) ir.Field {
	t.Helper()
	f, ok := obj.Lookup(name)
	require.True(t, ok, "field %q not found", name)
	return f
}

func parseIssue(t *testing.T, src string) report.Issue {
	t.Helper()
	_, err := Parse(src)
	require.Error(t, err, src)
	iss, ok := report.AsIssues(err)
	require.True(t, ok, "expected report.Issues, got %T", err)
	require.Len(t, iss, 1)
	return iss[0]
}

func TestParseFieldList(t *testing.T) {
	t.Parallel()
	obj := mustObject(t, "name:string, age:int?, email:email")
	require.Len(t, obj.Fields, 3)
	assert.Equal(t, []string{"name", "email"}, obj.RequiredNames())

	age := field(t, obj, "age")
	assert.False(t, age.Required)
	assert.Equal(t, ir.Integer, age.Type.(*ir.Scalar).Base)
	assert.Equal(t, report.Pos{Offset: 13, Line: 1, Column: 14}, age.Pos)

	email := field(t, obj, "email").Type.(*ir.Scalar)
	assert.Equal(t, ir.FormatEmail, email.Format)
	assert.Equal(t, ir.String, email.Base)
}

func TestParseBracedAndBareEquivalent(t *testing.T) {
	t.Parallel()
	a, err := Parse("{name:string, age:int}")
	require.NoError(t, err)
	b, err := Parse("name:string, age:int")
	require.NoError(t, err)
	assert.True(t, ir.Equal(a, b))
}

func TestParseTypeAliases(t *testing.T) {
	t.Parallel()
	obj := mustObject(t, "a:str, b:integer, c:float, d:boolean, e:uri, f:tel, g:TEXT, h:Double")
	want := map[string]string{"a": "string", "b": "int", "c": "number", "d": "bool", "e": "url", "f": "phone", "g": "text", "h": "number"}
	for name, typ := range want {
		s := field(t, obj, name).Type.(*ir.Scalar)
		assert.Equal(t, typ, s.Name(), name)
	}
	assert.Equal(t, "str", field(t, obj, "a").Type.(*ir.Scalar).Alias)
}

func TestParseConstraintForms(t *testing.T) {
	t.Parallel()
	a := mustObject(t, "age:int(0,120)")
	b := mustObject(t, "age:int(min=0,max=120)")
	assert.True(t, ir.Equal(a, b))

	cs := field(t, a, "age").Constraints()
	lo, _ := cs.Get(ir.Minimum)
	hi, _ := cs.Get(ir.Maximum)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 120.0, hi)
}

func TestParseArrayConstraintPlacement(t *testing.T) {
	t.Parallel()
	outer := field(t, mustObject(t, "tags:[string](max=5)"), "tags").Type.(*ir.Array)
	n, ok := outer.Constraints.Int(ir.MaxItems)
	assert.True(t, ok)
	assert.Equal(t, 5, n)
	assert.True(t, outer.Item.(*ir.Scalar).Constraints.IsZero())

	inner := field(t, mustObject(t, "tags:[string(max=5)]"), "tags").Type.(*ir.Array)
	assert.True(t, inner.Constraints.IsZero())
	n, ok = inner.Item.(*ir.Scalar).Constraints.Int(ir.MaxLength)
	assert.True(t, ok)
	assert.Equal(t, 5, n)
}

func TestParseAltArraySyntax(t *testing.T) {
	t.Parallel()
	a := mustObject(t, "tags:list(string, min=1, max=3)")
	b := mustObject(t, "tags:[string](1,3)")
	assert.True(t, ir.Equal(a, b))
	assert.Equal(t, "list", field(t, a, "tags").Type.(*ir.Array).Spelling)

	c := mustObject(t, "ids:array(int)")
	assert.Equal(t, "array", field(t, c, "ids").Type.(*ir.Array).Spelling)
}

func TestParseObjectArrays(t *testing.T) {
	t.Parallel()
	a := mustObject(t, "users:[{name:string, email:email}]")
	b := mustObject(t, "users:[name:string, email:email]")
	assert.True(t, ir.Equal(a, b))

	item := field(t, a, "users").Type.(*ir.Array).Item.(*ir.Object)
	assert.Equal(t, []string{"name", "email"}, item.RequiredNames())
}

func TestParseEnumSynonyms(t *testing.T) {
	t.Parallel()
	e := mustObject(t, "s:enum(a,b,c)")
	c := mustObject(t, "s:choice(a,b,c)")
	s := mustObject(t, "s:select(a,b,c)")
	assert.True(t, ir.Equal(e, c))
	assert.True(t, ir.Equal(e, s))

	enum := field(t, c, "s").Type.(*ir.Enum)
	assert.Equal(t, []string{"a", "b", "c"}, enum.Values)
	assert.Equal(t, "choice", enum.Spelling)
}

func TestParseEnumLiteralValues(t *testing.T) {
	t.Parallel()
	enum := field(t, mustObject(t, `s:enum("in progress", done, 3,)`), "s").Type.(*ir.Enum)
	assert.Equal(t, []string{"in progress", "done", "3"}, enum.Values)
}

func TestParseUnions(t *testing.T) {
	t.Parallel()
	u := field(t, mustObject(t, "v:string|null"), "v").Type.(*ir.Union)
	assert.True(t, u.Nullable)
	require.Len(t, u.Members, 1)
	assert.Equal(t, ir.String, u.Members[0].(*ir.Scalar).Base)

	u = field(t, mustObject(t, "v:null|int|[string]"), "v").Type.(*ir.Union)
	assert.True(t, u.Nullable)
	require.Len(t, u.Members, 2)
	assert.Equal(t, ir.NodeArray, u.Members[1].Kind())
}

func TestParseOptionalForms(t *testing.T) {
	t.Parallel()
	obj := mustObject(t, "a:int?, b?:int, c?, d")
	assert.Equal(t, []string{"d"}, obj.RequiredNames())
	assert.Equal(t, "string", field(t, obj, "c").Type.(*ir.Scalar).Name())
	assert.Equal(t, "string", field(t, obj, "d").Type.(*ir.Scalar).Name())
}

func TestParseNewlineSeparatedFields(t *testing.T) {
	t.Parallel()
	obj := mustObject(t, `
		# user
		name:string
		age:int?
		"first name":string,
	`)
	require.Len(t, obj.Fields, 3)
	assert.Equal(t, "first name", obj.Fields[2].Name)
}

func TestParseNested(t *testing.T) {
	t.Parallel()
	obj := mustObject(t, "user:{name:string, contact:{email:email, phone:phone?}}")
	contact := field(t, field(t, obj, "user").Type.(*ir.Object), "contact").Type.(*ir.Object)
	assert.Equal(t, []string{"email"}, contact.RequiredNames())
}

func TestParseTopLevelTypes(t *testing.T) {
	t.Parallel()
	tests := map[string]ir.NodeKind{
		"email":           ir.NodeScalar,
		"string(max=10)":  ir.NodeScalar,
		"int|null":        ir.NodeUnion,
		"[string]":        ir.NodeArray,
		"list(int)":       ir.NodeArray,
		"enum(a,b)":       ir.NodeEnum,
		"{}":              ir.NodeObject,
		"name":            ir.NodeObject,
		"name\nemail":     ir.NodeObject,
		`"display name"`:  ir.NodeObject,
		"[name, email]":   ir.NodeArray,
		"[string,]":       ir.NodeArray,
		"{a:string,}":     ir.NodeObject,
	}
	for src, want := range tests {
		n, err := Parse(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, n.Kind(), src)
	}
}

func TestParseTrailingCommas(t *testing.T) {
	t.Parallel()
	a := mustObject(t, "a:int(1,2,), b:enum(x,y,), c:[string,],")
	b := mustObject(t, "a:int(1,2), b:enum(x,y), c:[string]")
	assert.True(t, ir.Equal(a, b))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		code string
		msg  string
	}{
		{"", report.CodeEmptySchema, "empty"},
		{"   # nothing", report.CodeEmptySchema, "empty"},
		{"[string", report.CodeUnbalanced, "']'"},
		{"{name:string", report.CodeUnbalanced, "'}'"},
		{"a:string}", report.CodeUnbalanced, "unmatched '}'"},
		{"a:string, a:int", report.CodeDuplicateField, `"a"`},
		{"s:enum(a,b,a)", report.CodeDuplicateEnumValue, `"a"`},
		{"a:strng", report.CodeUnknownType, `"strng"`},
		{"a:string()", report.CodeEmptyConstraints, "empty"},
		{"a:bool(1,2)", report.CodeConstraintNotAllowed, "bool"},
		{"a:string(maxx=3)", report.CodeUnknownConstraint, "maxx"},
		{"a:int(10,1)", report.CodeConstraintConflict, "exceeds"},
		{"a:string|string", report.CodeInvalidUnion, "repeats"},
		{"a:text|string", report.CodeInvalidUnion, "repeats"},
		{"a:null|null", report.CodeInvalidUnion, "null"},
		{"a:null", report.CodeNullOutsideUnion, "null"},
		{"a:[]", report.CodeUnexpectedToken, "item type"},
		{"a:enum()", report.CodeUnexpectedToken, "at least one value"},
		{"a:enum", report.CodeMissingPunct, "enum"},
		{"a:list", report.CodeMissingPunct, "list"},
		{"a string", report.CodeMissingPunct, "':'"},
		{"a:", report.CodeUnexpectedToken, "end of input"},
		{"a:int,,b:int", report.CodeUnexpectedToken, "field name"},
		{"a:int; b:int", report.CodeUnexpectedToken, "';'"},
		{`a:"open`, report.CodeUnterminatedString, "unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()
			is := parseIssue(t, tt.src)
			assert.Equal(t, tt.code, is.Code)
			assert.Contains(t, is.Error(), tt.msg)
			assert.True(t, is.Pos.IsValid(), "issue must carry a position")
		})
	}
}

func TestParseUnbalancedMessage(t *testing.T) {
	t.Parallel()
	is := parseIssue(t, "[string")
	assert.Equal(t, "expected ']' to close array opened at 1:1, found end of input", is.Message)
	assert.Equal(t, report.Syntactic, is.Kind)
	assert.Equal(t, 8, is.Pos.Column)
}

func TestParseUnknownTypeSuggestion(t *testing.T) {
	t.Parallel()
	is := parseIssue(t, "name:strin")
	assert.Equal(t, `did you mean "string"?`, is.Hint)
	assert.Equal(t, 6, is.Pos.Column)
	assert.Equal(t, 5, is.Len)
}

func TestParseMissingSeparatorHint(t *testing.T) {
	t.Parallel()
	is := parseIssue(t, "{a:string b:int}")
	assert.Equal(t, report.CodeUnbalanced, is.Code)
	assert.Contains(t, is.Hint, "separate fields")
}

func TestParseField(t *testing.T) {
	t.Parallel()
	f, err := ParseField("age", "int(0,120)?")
	require.NoError(t, err)
	assert.Equal(t, "age", f.Name)
	assert.False(t, f.Required)
	hi, _ := f.Constraints().Get(ir.Maximum)
	assert.Equal(t, 120.0, hi)

	f, err = ParseField("note", "")
	require.NoError(t, err)
	assert.True(t, f.Required)
	assert.Equal(t, "string", f.Type.(*ir.Scalar).Name())

	f, err = ParseField("tags", "[email](max=3)")
	require.NoError(t, err)
	n, _ := f.Constraints().Int(ir.MaxItems)
	assert.Equal(t, 3, n)

	_, err = ParseField("x", "int extra")
	require.Error(t, err)
}

func TestParseDeterministic(t *testing.T) {
	t.Parallel()
	const src = "user:{name:string(1,50), roles:[enum(admin,user)](max=3), note:text|null}"
	a, err := Parse(src)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		b, err := Parse(src)
		require.NoError(t, err)
		assert.True(t, ir.Equal(a, b))
	}
}
