package strschema_test

import (
	"strings"
	"testing"

	"github.com/reoring/strschema"
	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/jsonschema"
	"github.com/reoring/strschema/report"
)

func TestCompile_Deterministic(t *testing.T) {
	const src = "user:{name:string(1,50), email:email, roles:[enum(admin,user)](max=3)}, note:text|null?"
	first, err := strschema.CompileJSON(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		got, err := strschema.CompileJSON(src, 0)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(first) {
			t.Fatalf("compile %d differs:\n%s\n%s", i, got, first)
		}
	}
}

func TestCompile_PositionalEqualsNamed(t *testing.T) {
	a, err := strschema.CompileJSON("age:int(0,120)", 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := strschema.CompileJSON("age:int(min=0,max=120)", 0)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatalf("positional %s != named %s", a, b)
	}
}

func TestCompile_ArrayConstraintPlacement(t *testing.T) {
	s, err := strschema.Compile("[string](max=5)")
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxItems == nil || *s.MaxItems != 5 || s.Items.MaxLength != nil {
		t.Fatalf("[string](max=5) should bound item count: %+v", s)
	}

	s, err = strschema.Compile("[string(max=5)]")
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxItems != nil || s.Items.MaxLength == nil || *s.Items.MaxLength != 5 {
		t.Fatalf("[string(max=5)] should bound item length: %+v", s)
	}
}

func TestCompile_Required(t *testing.T) {
	s, err := strschema.Compile("name:string, age:int?")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Required) != 1 || s.Required[0] != "name" {
		t.Fatalf("required = %v, want [name]", s.Required)
	}
}

func TestCompile_SinglePositionalIsMax(t *testing.T) {
	s, err := strschema.Compile("code:string(10)")
	if err != nil {
		t.Fatal(err)
	}
	code, _ := s.Properties.Lookup("code")
	if code.MaxLength == nil || *code.MaxLength != 10 {
		t.Fatalf("maxLength not set: %+v", code)
	}
	if code.MinLength != nil {
		t.Fatalf("single positional value must not set minLength, got %d", *code.MinLength)
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		src  string
		code string
		want string
	}{
		{"[string", report.CodeUnbalanced, "]"},
		{"a:string, a:int", report.CodeDuplicateField, `"a"`},
		{"", report.CodeEmptySchema, "empty"},
	}
	for _, tt := range tests {
		s, err := strschema.Compile(tt.src)
		if s != nil {
			t.Fatalf("%q: partial schema returned", tt.src)
		}
		iss, ok := report.AsIssues(err)
		if !ok {
			t.Fatalf("%q: expected report.Issues, got %v", tt.src, err)
		}
		if iss[0].Code != tt.code || !strings.Contains(iss[0].Message, tt.want) {
			t.Fatalf("%q: unexpected issue %+v", tt.src, iss[0])
		}
	}
}

func TestParseField_ConvergesWithNewField(t *testing.T) {
	f, err := strschema.ParseField("age", "int?")
	if err != nil {
		t.Fatal(err)
	}
	g := ir.NewField("age", &ir.Scalar{Base: ir.Integer}, false)
	if f.Name != g.Name || f.Required != g.Required || !ir.Equal(f.Type, g.Type) {
		t.Fatalf("ParseField %+v != NewField %+v", f, g)
	}
}

func TestFormatAndReverse(t *testing.T) {
	got, err := strschema.Format("name:str(1,5),tags:list(string,max=3)?")
	if err != nil {
		t.Fatal(err)
	}
	if want := "name:string(min=1,max=5), tags:[string](max=3)?"; got != want {
		t.Fatalf("Format = %q, want %q", got, want)
	}

	s, err := strschema.Compile(got)
	if err != nil {
		t.Fatal(err)
	}
	back, err := strschema.Reverse(s)
	if err != nil {
		t.Fatal(err)
	}
	if back != got {
		t.Fatalf("Reverse = %q, want %q", back, got)
	}

	if _, err := strschema.Reverse(&jsonschema.Schema{Type: "null"}); err == nil {
		t.Fatal("expected unsupported schema error")
	}
}

func TestDiagnose_Facade(t *testing.T) {
	res := strschema.Diagnose("v:string|null")
	if !res.Valid || len(res.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestInfer_Compiles(t *testing.T) {
	src, err := strschema.Infer([]byte(`{"id":"123e4567-e89b-12d3-a456-426614174000","tags":["x"],"owner":{"email":"o@ex.com","phone":null}}`))
	if err != nil {
		t.Fatal(err)
	}
	if want := "id:uuid, tags:[string], owner:{email:email, phone:string?}"; src != want {
		t.Fatalf("Infer = %q, want %q", src, want)
	}
	s, err := strschema.Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	owner, ok := s.Properties.Lookup("owner")
	if !ok || strings.Join(owner.Required, ",") != "email" {
		t.Fatalf("unexpected owner schema: %+v", owner)
	}

	if _, err := strschema.Infer([]byte("null")); err == nil {
		t.Fatal("expected an error for a null sample")
	}
}

func TestCompile_RejectsOutOfRangeBounds(t *testing.T) {
	for _, src := range []string{"s:string(max=1e30)", "[string](1e19)", "n:int(max=9007199254740993)"} {
		_, err := strschema.CompileJSON(src, 0)
		iss, ok := report.AsIssues(err)
		if !ok {
			t.Fatalf("%s: expected issues, got %v", src, err)
		}
		if iss[0].Code != report.CodeInvalidConstraintValue {
			t.Fatalf("%s: code = %s", src, iss[0].Code)
		}
	}
	if _, err := strschema.CompileJSON("n:number(max=1e30)", 0); err != nil {
		t.Fatalf("number bounds may be large: %v", err)
	}
}
