// Package strschema compiles a compact schema notation into JSON Schema.
//
// Package strschema provides:
//
// - A DSL compiler: text -> tokens -> IR -> canonical JSON-Schema document
// - A stable error model via report.Issues (position, code, message, hint)
// - Diagnostics with advisory warnings and a feature inventory
// - Reverse projection from an emitted schema back to DSL text
// - Schema inference from JSON data samples (infer/)
//
// Design policy:
// - Keep only the façade in the root package; the lexer, constraint resolver
//   and parser live under internal/.
// - The IR (ir/), emitter (jsonschema/), diagnostics (diag/), formatter
//   (dslfmt/) and OpenAPI rendering (openapi/) are public packages.
// - The compiler is pure: no I/O, no logging, no shared state. Cache is the
//   only stateful type and is owned by the caller.
//
// Typical usage:
//
//	s, err := strschema.Compile("name:string(1,50), age:int(0,120)?, email:email")
//	b, err := strschema.CompileJSON("tags:[string](max=5)", 2)
//
//	res := strschema.Diagnose("status:string")
//	for _, w := range res.Warnings { ... }
//
//	text, err := strschema.Reverse(s) // schema -> DSL
//	text, err = strschema.Infer([]byte(`{"id":1,"email":"a@b.io"}`)) // "id:int, email:email"
package strschema
