// Package app runs strschema CLI commands against resolved Options.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/reoring/strschema/i18n"
	"github.com/reoring/strschema/internal/config"
	"github.com/reoring/strschema/internal/ctxlog"
)

// ErrInvalid is wrapped by Run when at least one input failed to compile or
// check. The CLI maps it to exit status 1.
var ErrInvalid = errors.New("invalid schema")

// Command names.
const (
	CmdCompile  = "compile"
	CmdCheck    = "check"
	CmdFmt      = "fmt"
	CmdOpenAPI  = "openapi"
	CmdReverse  = "reverse"
	CmdInfer    = "infer"
	CmdExamples = "examples"
	CmdSyntax   = "syntax"
)

// Options is a fully parsed command line.
type Options struct {
	Command string
	Args    []string // files, globs, or recipe names for examples
	Expr    string   // inline DSL given with -e
	Output  string   // file, or directory when there are several inputs

	Name       string // openapi component name / reverse import lookup
	Title      string
	APIVersion string

	Multiline bool // fmt, reverse, infer
	Write     bool // fmt: rewrite files in place
	JSON      bool // check: machine-readable summary

	Config config.Config
}

// App executes one command.
type App struct {
	opts   *Options
	stdin  io.Reader
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
}

// New returns an App writing results to out and diagnostics and logs to
// errOut.
func New(stdin io.Reader, out, errOut io.Writer, opts *Options) *App {
	if stdin == nil {
		stdin = os.Stdin
	}
	return &App{
		opts:   opts,
		stdin:  stdin,
		out:    out,
		errOut: errOut,
		logger: newLogger(opts.Config.LogLevel, opts.Config.LogFormat, errOut),
	}
}

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	i18n.SetLanguage(a.opts.Config.Language)

	a.logger.Debug("Running command.", "command", a.opts.Command, "workers", a.opts.Config.Workers)

	switch a.opts.Command {
	case CmdCompile:
		return a.compile(ctx)
	case CmdCheck:
		return a.check(ctx)
	case CmdFmt:
		return a.format(ctx)
	case CmdOpenAPI:
		return a.openAPI(ctx)
	case CmdReverse:
		return a.reverse(ctx)
	case CmdInfer:
		return a.infer(ctx)
	case CmdExamples:
		return a.examples(ctx)
	case CmdSyntax:
		return a.syntax(ctx)
	}
	return fmt.Errorf("unknown command %q", a.opts.Command)
}
