// Package config holds the CLI settings and loads the optional HCL
// configuration file.
//
// A file may set any subset of:
//
//	workers  = 4
//	language = "en"
//
//	output {
//	  format = "json"
//	  indent = 2
//	  draft  = "https://json-schema.org/draft/2020-12/schema"
//	}
//
//	diagnostics {
//	  max_fields_without_optional = 5
//	  max_total_fields            = 20
//	  warnings_as_errors          = false
//	}
//
// Precedence is flags, then file, then Default.
package config

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/reoring/strschema/diag"
	"github.com/reoring/strschema/i18n"
)

// Config is the resolved set of options for one CLI invocation.
type Config struct {
	Workers  int
	Language string

	Format string // json | yaml
	Indent int
	Draft  string // value for $schema; empty omits it

	MaxFieldsWithoutOptional int
	MaxTotalFields           int
	WarningsAsErrors         bool

	LogLevel  string
	LogFormat string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Workers:                  runtime.GOMAXPROCS(0),
		Language:                 "en",
		Format:                   "json",
		Indent:                   2,
		MaxFieldsWithoutOptional: 5,
		MaxTotalFields:           20,
		LogLevel:                 "warn",
		LogFormat:                "text",
	}
}

// File mirrors the HCL layout. Unset attributes stay nil so they do not
// override defaults.
type File struct {
	Workers     *int              `hcl:"workers,optional"`
	Language    *string           `hcl:"language,optional"`
	Output      *OutputBlock      `hcl:"output,block"`
	Diagnostics *DiagnosticsBlock `hcl:"diagnostics,block"`
}

// OutputBlock is the `output` block.
type OutputBlock struct {
	Format *string `hcl:"format,optional"`
	Indent *int    `hcl:"indent,optional"`
	Draft  *string `hcl:"draft,optional"`
}

// DiagnosticsBlock is the `diagnostics` block.
type DiagnosticsBlock struct {
	MaxFieldsWithoutOptional *int  `hcl:"max_fields_without_optional,optional"`
	MaxTotalFields           *int  `hcl:"max_total_fields,optional"`
	WarningsAsErrors         *bool `hcl:"warnings_as_errors,optional"`
}

// Load parses the HCL file at path.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, diags)
	}
	return decode(hclFile.Body, path)
}

// Parse parses HCL source. filename is used in error messages only.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}
	return decode(hclFile.Body, filename)
}

func decode(body hcl.Body, filename string) (*File, error) {
	var f File
	if diags := gohcl.DecodeBody(body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}
	return &f, nil
}

// Apply overlays the values set in f onto c.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}
	set(&c.Workers, f.Workers)
	set(&c.Language, f.Language)
	if o := f.Output; o != nil {
		set(&c.Format, o.Format)
		set(&c.Indent, o.Indent)
		set(&c.Draft, o.Draft)
	}
	if d := f.Diagnostics; d != nil {
		set(&c.MaxFieldsWithoutOptional, d.MaxFieldsWithoutOptional)
		set(&c.MaxTotalFields, d.MaxTotalFields)
		set(&c.WarningsAsErrors, d.WarningsAsErrors)
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.Format != "json" && c.Format != "yaml":
		return fmt.Errorf("invalid output format %q: must be 'json' or 'yaml'", c.Format)
	case c.Indent < 0 || c.Indent > 8:
		return fmt.Errorf("indent must be between 0 and 8, got %d", c.Indent)
	case !slices.Contains(i18n.Languages(), c.Language):
		return fmt.Errorf("unsupported language %q", c.Language)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}
	return nil
}

// DiagOptions converts the diagnostics settings.
func (c Config) DiagOptions() []diag.Option {
	return []diag.Option{
		diag.MaxFieldsWithoutOptional(c.MaxFieldsWithoutOptional),
		diag.MaxTotalFields(c.MaxTotalFields),
		diag.WarningsAsErrors(c.WarningsAsErrors),
	}
}
