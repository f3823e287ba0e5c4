package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/strschema/diag"
	"github.com/reoring/strschema/internal/ctxlog"
	"github.com/reoring/strschema/jsonschema"
	"github.com/reoring/strschema/report"
)

// rendered is the finished output for one source.
type rendered struct {
	src  source
	data []byte
}

// writeResults sends outputs to stdout when no -o was given, to the -o file
// for a single input, or to <dir>/<stem><ext> files for several inputs.
func (a *App) writeResults(ctx context.Context, results []rendered, total int, ext string) error {
	logger := ctxlog.FromContext(ctx)

	if a.opts.Output == "" {
		for _, r := range results {
			if _, err := a.out.Write(r.data); err != nil {
				return err
			}
		}
		return nil
	}

	if total == 1 {
		if len(results) == 0 {
			return nil
		}
		logger.Info("Writing output.", "path", a.opts.Output)
		return writeFile(a.opts.Output, results[0].data)
	}

	if err := os.MkdirAll(a.opts.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", a.opts.Output, err)
	}
	written := map[string]string{}
	for _, r := range results {
		path := filepath.Join(a.opts.Output, r.src.stem()+ext)
		if prev, dup := written[path]; dup {
			return fmt.Errorf("%w: %s and %s would both be written to %s", ErrUsage, prev, r.src.name, path)
		}
		written[path] = r.src.name
		logger.Info("Writing output.", "input", r.src.name, "path", path)
		if err := writeFile(path, r.data); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ext is the output file extension for the configured format.
func (a *App) ext() string {
	if a.opts.Config.Format == "yaml" {
		return ".yaml"
	}
	return ".json"
}

func (a *App) encodeSchema(s *jsonschema.Schema) ([]byte, error) {
	if a.opts.Config.Format == "yaml" {
		return jsonschema.MarshalYAML(s, a.opts.Config.Indent)
	}
	b, err := jsonschema.Marshal(s, a.opts.Config.Indent)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// encodeValue encodes v in the configured format.
func (a *App) encodeValue(v any) ([]byte, error) {
	if a.opts.Config.Format == "yaml" {
		return yaml.Marshal(v)
	}
	var (
		b   []byte
		err error
	)
	if a.opts.Config.Indent > 0 {
		b, err = json.MarshalIndent(v, "", strings.Repeat(" ", a.opts.Config.Indent))
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// renderIssues prints errors followed by warnings for src.
func renderIssues(w io.Writer, src source, res diag.Result) error {
	issues := report.AppendIssues(append(report.Issues(nil), res.Errors...), res.Warnings...)
	if len(issues) == 0 {
		return nil
	}
	return diag.Render(w, src.name, src.text, issues)
}

// renderError prints err as diagnostics when it carries issues. Other errors
// are returned unchanged.
func renderError(w io.Writer, src source, err error) error {
	iss, ok := report.AsIssues(err)
	if !ok {
		return err
	}
	return diag.Render(w, src.name, src.text, iss)
}
