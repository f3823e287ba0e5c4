// Package cli turns command-line arguments into app.Options.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/reoring/strschema/internal/app"
	"github.com/reoring/strschema/internal/config"
)

// ExitError carries the process exit status for an error.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// FromError maps app errors to exit statuses: 2 for usage errors, 1 for
// invalid schemas and everything else.
func FromError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	if errors.Is(err, app.ErrUsage) {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

const usage = `strschema - compile the schema DSL to JSON Schema.

Usage:
  strschema compile [flags] [FILE|GLOB ...]   compile to a JSON/YAML schema
  strschema check   [flags] [FILE|GLOB ...]   report errors, warnings and features
  strschema fmt     [flags] [FILE|GLOB ...]   print canonical DSL
  strschema openapi [flags] [FILE|GLOB ...]   build an OpenAPI components document
  strschema reverse [flags] [FILE ...]        JSON Schema, OpenAPI or CRD -> DSL
  strschema infer   [flags] [FILE|GLOB ...]   JSON data sample -> DSL
  strschema examples [NAME ...]               list or print example schemas
  strschema syntax                            print the DSL reference

With no FILE, or FILE "-", input is read from stdin.
Run 'strschema COMMAND -h' for the flags of a command.
`

// commands lists the flags each command accepts besides the common ones.
var commands = map[string]struct {
	inputs   bool // -e, -o
	encoding bool // -format, -indent
	diag     bool // -w and thresholds
	draft    bool
	dsl      bool // -multiline
	name     bool
}{
	app.CmdCompile:  {inputs: true, encoding: true, diag: true, draft: true},
	app.CmdCheck:    {inputs: true, encoding: true, diag: true},
	app.CmdFmt:      {inputs: true, dsl: true},
	app.CmdOpenAPI:  {inputs: true, encoding: true, diag: true, name: true},
	app.CmdReverse:  {inputs: true, dsl: true, name: true},
	app.CmdInfer:    {inputs: true, dsl: true},
	app.CmdExamples: {},
	app.CmdSyntax:   {},
}

// Parse processes args (without the program name). It returns the options,
// whether the program should exit cleanly without running (help), or an
// *ExitError.
func Parse(args []string, output io.Writer) (*app.Options, bool, error) {
	if len(args) == 0 {
		fmt.Fprint(output, usage)
		return nil, false, &ExitError{Code: 2, Message: "missing command"}
	}
	cmd := args[0]
	switch cmd {
	case "-h", "-help", "--help", "help":
		fmt.Fprint(output, usage)
		return nil, true, nil
	}
	spec, ok := commands[cmd]
	if !ok {
		fmt.Fprint(output, usage)
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", cmd)}
	}

	fs := flag.NewFlagSet("strschema "+cmd, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "Usage of strschema %s:\n", cmd)
		fs.PrintDefaults()
	}

	cfg := config.Default()
	opts := &app.Options{Command: cmd}

	configPath := fs.String("config", "", "HCL configuration file")
	fs.StringVar(&cfg.Language, "lang", cfg.Language, "message language: en or ja")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.IntVar(&cfg.Workers, "j", cfg.Workers, "number of inputs processed in parallel")

	if spec.inputs {
		fs.StringVar(&opts.Expr, "e", "", "inline DSL `expression` instead of files")
		fs.StringVar(&opts.Output, "o", "", "output `path`: a file, or a directory for several inputs")
	}
	if spec.encoding {
		fs.StringVar(&cfg.Format, "format", cfg.Format, "output format: json or yaml")
		fs.IntVar(&cfg.Indent, "indent", cfg.Indent, "indentation width; 0 for compact JSON")
	}
	if spec.diag {
		fs.BoolVar(&cfg.WarningsAsErrors, "w", cfg.WarningsAsErrors, "treat warnings as errors")
		fs.IntVar(&cfg.MaxFieldsWithoutOptional, "max-required", cfg.MaxFieldsWithoutOptional,
			"warn when an object has more fields than this and none is optional")
		fs.IntVar(&cfg.MaxTotalFields, "max-fields", cfg.MaxTotalFields, "warn when the schema has more fields than this")
	}
	if spec.draft {
		fs.StringVar(&cfg.Draft, "draft", cfg.Draft, "`URL` emitted as $schema (empty omits it)")
	}
	if spec.dsl {
		fs.BoolVar(&opts.Multiline, "multiline", false, "print one field per line")
	}
	if spec.name {
		fs.StringVar(&opts.Name, "name", "", "component name (openapi) or schema to import from an OpenAPI document or CRD (reverse)")
	}
	switch cmd {
	case app.CmdCheck:
		fs.BoolVar(&opts.JSON, "json", false, "print a machine-readable summary")
	case app.CmdFmt:
		fs.BoolVar(&opts.Write, "write", false, "rewrite files in place")
	case app.CmdOpenAPI:
		fs.StringVar(&opts.Title, "title", "API", "info.title of the document")
		fs.StringVar(&opts.APIVersion, "version", "1.0.0", "info.version of the document")
	}

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	opts.Args = fs.Args()

	if *configPath != "" {
		if err := applyConfigFile(fs, &cfg, *configPath); err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.Format = strings.ToLower(cfg.Format)
	if err := cfg.Validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	opts.Config = cfg
	return opts, false, nil
}

// applyConfigFile loads path and applies it beneath the flags that were set
// explicitly.
func applyConfigFile(fs *flag.FlagSet, cfg *config.Config, path string) error {
	file, err := config.Load(path)
	if err != nil {
		return err
	}
	flagged := *cfg
	cfg.Apply(file)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lang":
			cfg.Language = flagged.Language
		case "log-level":
			cfg.LogLevel = flagged.LogLevel
		case "log-format":
			cfg.LogFormat = flagged.LogFormat
		case "j":
			cfg.Workers = flagged.Workers
		case "format":
			cfg.Format = flagged.Format
		case "indent":
			cfg.Indent = flagged.Indent
		case "w":
			cfg.WarningsAsErrors = flagged.WarningsAsErrors
		case "max-required":
			cfg.MaxFieldsWithoutOptional = flagged.MaxFieldsWithoutOptional
		case "max-fields":
			cfg.MaxTotalFields = flagged.MaxTotalFields
		case "draft":
			cfg.Draft = flagged.Draft
		}
	})
	return nil
}
