package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/strschema/internal/app"
	"github.com/reoring/strschema/internal/config"
	"github.com/reoring/strschema/recipes"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, opts app.Options, stdin string) result {
	t.Helper()
	if opts.Config == (config.Config{}) {
		opts.Config = config.Default()
	}
	var out, errOut bytes.Buffer
	err := app.New(strings.NewReader(stdin), &out, &errOut, &opts).Run(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func compact() config.Config {
	c := config.Default()
	c.Indent = 0
	return c
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestCompile_Expr(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdCompile, Expr: "name:string, age:int?", Config: compact()}, "")
	require.NoError(t, r.err)
	assert.Equal(t,
		`{"type":"object","properties":{"name":{"type":"string"},"age":{"type":"integer"}},"required":["name"]}`+"\n",
		r.stdout)
	assert.Empty(t, r.stderr)
}

func TestCompile_Stdin(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdCompile, Config: compact()}, "[int](max=3)")
	require.NoError(t, r.err)
	assert.Equal(t, `{"type":"array","items":{"type":"integer"},"maxItems":3}`+"\n", r.stdout)
}

func TestCompile_Draft(t *testing.T) {
	cfg := compact()
	cfg.Draft = "https://json-schema.org/draft/2020-12/schema"
	r := run(t, app.Options{Command: app.CmdCompile, Expr: "id:int", Config: cfg}, "")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"object"`), r.stdout)
}

func TestCompile_Invalid(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdCompile, Expr: "[string"}, "")
	require.ErrorIs(t, r.err, app.ErrInvalid)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "error")
	assert.Contains(t, r.stderr, "<expr>:1:")
}

func TestCompile_WarningsAsErrors(t *testing.T) {
	cfg := config.Default()
	cfg.WarningsAsErrors = true
	r := run(t, app.Options{Command: app.CmdCompile, Expr: "status:string", Config: cfg}, "")
	require.ErrorIs(t, r.err, app.ErrInvalid)
	assert.Contains(t, r.stderr, "status")
}

func TestCompile_GlobToDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "user.sdl"), "name:string")
	writeFile(t, filepath.Join(dir, "in", "nested", "order.sdl"), "id:int, total:number(min=0)")
	writeFile(t, filepath.Join(dir, "in", "notes.txt"), "ignored")

	cfg := config.Default()
	cfg.Format = "yaml"
	cfg.Workers = 2
	out := filepath.Join(dir, "out")
	r := run(t, app.Options{
		Command: app.CmdCompile,
		Args:    []string{filepath.Join(dir, "in", "**", "*.sdl")},
		Output:  out,
		Config:  cfg,
	}, "")
	require.NoError(t, r.err, r.stderr)
	assert.Empty(t, r.stdout)

	user, err := os.ReadFile(filepath.Join(out, "user.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(user), "type: object")

	order, err := os.ReadFile(filepath.Join(out, "order.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(order), "total:")
}

func TestCompile_SingleOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schemas", "out.json")
	r := run(t, app.Options{Command: app.CmdCompile, Expr: "a:bool", Output: path, Config: compact()}, "")
	require.NoError(t, r.err)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"object","properties":{"a":{"type":"boolean"}},"required":["a"]}`+"\n", string(b))
}

func TestCompile_InputErrors(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdCompile, Args: []string{filepath.Join(t.TempDir(), "*.sdl")}}, "")
	require.ErrorIs(t, r.err, app.ErrUsage)

	r = run(t, app.Options{Command: app.CmdCompile, Expr: "a:int", Args: []string{"x.sdl"}}, "")
	require.ErrorIs(t, r.err, app.ErrUsage)

	r = run(t, app.Options{Command: app.CmdCompile, Args: []string{filepath.Join(t.TempDir(), "missing.sdl")}}, "")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "failed to read")
}

func TestCheck_JSON(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdCheck, Expr: "status:string", JSON: true}, "")
	require.NoError(t, r.err)

	var got struct {
		Valid    bool `json:"valid"`
		Warnings []struct {
			Code string `json:"code"`
		} `json:"warnings"`
		Features []string `json:"features_used"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	assert.True(t, got.Valid)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, "suggest_enum", got.Warnings[0].Code)
	assert.Equal(t, []string{"basic_types"}, got.Features)
}

func TestCheck_JSONMultiple(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.sdl")
	bad := filepath.Join(dir, "bad.sdl")
	writeFile(t, good, "a:int")
	writeFile(t, bad, "a:{")

	r := run(t, app.Options{Command: app.CmdCheck, Args: []string{good, bad}, JSON: true}, "")
	require.ErrorIs(t, r.err, app.ErrInvalid)

	var got []struct {
		File  string `json:"file"`
		Valid bool   `json:"valid"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	require.Len(t, got, 2)
	assert.Equal(t, good, got[0].File)
	assert.True(t, got[0].Valid)
	assert.Equal(t, bad, got[1].File)
	assert.False(t, got[1].Valid)
}

func TestCheck_Text(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdCheck, Expr: "tags:[string]"}, "")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "warning")
	assert.Contains(t, r.stdout, "<expr>: valid (features used: arrays, basic_types)")

	r = run(t, app.Options{Command: app.CmdCheck, Expr: "a:strin"}, "")
	require.ErrorIs(t, r.err, app.ErrInvalid)
	assert.Contains(t, r.stdout, "<expr>: invalid")
}

func TestFmt(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdFmt, Expr: "name:str(1,5), tags:list(string, max=3)?"}, "")
	require.NoError(t, r.err)
	assert.Equal(t, "name:string(min=1,max=5), tags:[string](max=3)?\n", r.stdout)

	r = run(t, app.Options{Command: app.CmdFmt, Expr: "user:{name:string}", Multiline: true}, "")
	require.NoError(t, r.err)
	assert.Equal(t, "user:{\n  name:string\n}\n", r.stdout)
}

func TestFmt_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.sdl")
	writeFile(t, path, "name:str(1,5)")

	r := run(t, app.Options{Command: app.CmdFmt, Args: []string{path}, Write: true}, "")
	require.NoError(t, r.err)
	assert.Empty(t, r.stdout)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name:string(min=1,max=5)\n", string(b))
}

func TestInfer(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdInfer}, `{"id":1,"email":"a@b.io","tags":[],"meta":{"note":null}}`)
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "id:int, email:email, tags:[string], meta:{note:string?}\n", r.stdout)

	r = run(t, app.Options{Command: app.CmdInfer, Multiline: true, Expr: `{"a":{"b":true}}`}, "")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "a:{\n  b:bool\n}\n", r.stdout)

	r = run(t, app.Options{Command: app.CmdInfer}, `{"a":`)
	require.ErrorIs(t, r.err, app.ErrInvalid)
	assert.Contains(t, r.stderr, "<stdin>: infer: invalid JSON")
}

func TestReverse(t *testing.T) {
	dir := t.TempDir()
	js := filepath.Join(dir, "a.json")
	writeFile(t, js, `{"type":"object","properties":{"a":{"type":"integer","minimum":1}},"required":["a"]}`)
	r := run(t, app.Options{Command: app.CmdReverse, Args: []string{js}}, "")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "a:int(min=1)\n", r.stdout)

	yml := filepath.Join(dir, "b.yaml")
	writeFile(t, yml, "type: array\nitems:\n  type: string\n  format: email\nmaxItems: 2\n")
	r = run(t, app.Options{Command: app.CmdReverse, Args: []string{yml}}, "")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "[email](max=2)\n", r.stdout)
}

func TestReverse_CRD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crd.yaml")
	writeFile(t, path, `apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
spec:
  names: {kind: Widget}
  versions:
    - name: v1
      served: true
      schema:
        openAPIV3Schema:
          type: object
          properties:
            spec:
              type: object
              properties:
                size: {type: integer, minimum: 1}
`)
	r := run(t, app.Options{Command: app.CmdReverse, Args: []string{path}, Name: "Widget"}, "")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "spec:{size:int(min=1)?}?\n", r.stdout)

	r = run(t, app.Options{Command: app.CmdReverse, Args: []string{path}, Name: "Gadget"}, "")
	require.ErrorIs(t, r.err, app.ErrInvalid)
	assert.Contains(t, r.stderr, "schema not found")
}

func TestReverse_Unsupported(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdReverse}, `{"type":"null"}`)
	require.ErrorIs(t, r.err, app.ErrInvalid)
	assert.Contains(t, r.stderr, "null is only expressible as a union member")
}

func TestOpenAPI(t *testing.T) {
	r := run(t, app.Options{
		Command:    app.CmdOpenAPI,
		Expr:       "id:int, note:string|null",
		Name:       "Thing",
		Title:      "Things",
		APIVersion: "2.0.0",
		Config:     compact(),
	}, "")
	require.NoError(t, r.err, r.stderr)

	var doc struct {
		OpenAPI    string `json:"openapi"`
		Info       struct{ Title, Version string }
		Components struct {
			Schemas map[string]map[string]any `json:"schemas"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &doc))
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	assert.Equal(t, "Things", doc.Info.Title)
	assert.Equal(t, "2.0.0", doc.Info.Version)
	require.Contains(t, doc.Components.Schemas, "Thing")
	assert.NotContains(t, r.stdout, "$schema")
	assert.Contains(t, r.stdout, `"nullable":true`)
}

func TestOpenAPI_ComponentsFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "User.sdl"), "name:string")
	writeFile(t, filepath.Join(dir, "Order.sdl"), "id:int")

	cfg := config.Default()
	cfg.Format = "yaml"
	r := run(t, app.Options{Command: app.CmdOpenAPI, Args: []string{filepath.Join(dir, "*.sdl")}, Config: cfg}, "")
	require.NoError(t, r.err, r.stderr)
	order := strings.Index(r.stdout, "Order:")
	user := strings.Index(r.stdout, "User:")
	require.True(t, order >= 0 && user >= 0, r.stdout)
	assert.Less(t, order, user, "components follow sorted glob order")

	r = run(t, app.Options{Command: app.CmdOpenAPI, Args: []string{filepath.Join(dir, "*.sdl")}, Name: "X"}, "")
	require.ErrorIs(t, r.err, app.ErrUsage)
}

func TestExamples(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdExamples}, "")
	require.NoError(t, r.err)
	for _, name := range recipes.Names() {
		assert.Contains(t, r.stdout, name)
	}

	first := recipes.All()[0]
	r = run(t, app.Options{Command: app.CmdExamples, Args: []string{first.Name}}, "")
	require.NoError(t, r.err)
	assert.Equal(t, "# "+first.Description+"\n"+first.Schema+"\n", r.stdout)

	r = run(t, app.Options{Command: app.CmdExamples, Args: []string{"nope"}}, "")
	require.ErrorIs(t, r.err, app.ErrUsage)
}

func TestSyntax(t *testing.T) {
	r := run(t, app.Options{Command: app.CmdSyntax}, "")
	require.NoError(t, r.err)
	assert.Equal(t, recipes.SyntaxHelp(), r.stdout)
}

func TestLogging(t *testing.T) {
	cfg := compact()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"
	r := run(t, app.Options{Command: app.CmdCompile, Expr: "a:int", Config: cfg}, "")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, `"msg":"Running command."`)
	assert.Contains(t, r.stderr, `"msg":"Compiled schema."`)
}
