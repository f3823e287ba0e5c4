package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/reoring/strschema/dslfmt"
	"github.com/reoring/strschema/infer"
	"github.com/reoring/strschema/internal/ctxlog"
	"github.com/reoring/strschema/internal/parser"
	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/jsonschema"
	"github.com/reoring/strschema/openapi"
	"github.com/reoring/strschema/recipes"
)

type converted struct {
	src  source
	data []byte
	err  error // schema problem; rendered, not fatal
}

func (a *App) printDSL(n ir.Node) []byte {
	if a.opts.Multiline {
		return []byte(dslfmt.Indent(n, 2) + "\n")
	}
	return []byte(dslfmt.Format(n) + "\n")
}

// finish renders per-input failures and writes the successful outputs.
func (a *App) finish(ctx context.Context, verb string, results []converted, ext string) error {
	var outs []rendered
	failed := 0
	for _, c := range results {
		if c.err != nil {
			failed++
			if err := renderError(a.errOut, c.src, c.err); err != nil {
				fmt.Fprintf(a.errOut, "%s: %v\n", c.src.name, err)
			}
			continue
		}
		outs = append(outs, rendered{src: c.src, data: c.data})
	}
	if err := a.writeResults(ctx, outs, len(results), ext); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d input(s) failed to %s: %w", failed, len(results), verb, ErrInvalid)
	}
	return nil
}

func (a *App) format(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	srcs, err := a.sources(ctx)
	if err != nil {
		return err
	}
	results, err := forEach(ctx, a.opts.Config.Workers, srcs, func(_ context.Context, s source) (converted, error) {
		s, err := s.load()
		if err != nil {
			return converted{}, err
		}
		n, perr := parser.Parse(s.text)
		if perr != nil {
			return converted{src: s, err: perr}, nil
		}
		return converted{src: s, data: a.printDSL(n)}, nil
	})
	if err != nil {
		return err
	}

	if !a.opts.Write {
		return a.finish(ctx, "format", results, ".sdl")
	}
	failed := 0
	for _, c := range results {
		if c.err != nil {
			failed++
			if err := renderError(a.errOut, c.src, c.err); err != nil {
				return err
			}
			continue
		}
		if c.src.path == "" {
			if _, err := a.out.Write(c.data); err != nil {
				return err
			}
			continue
		}
		if bytes.Equal(c.data, []byte(c.src.text)) {
			continue
		}
		logger.Info("Rewriting file.", "path", c.src.path)
		if err := os.WriteFile(c.src.path, c.data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.src.path, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d input(s) failed to format: %w", failed, len(results), ErrInvalid)
	}
	return nil
}

func (a *App) reverse(ctx context.Context) error {
	srcs, err := a.sources(ctx)
	if err != nil {
		return err
	}
	results, err := forEach(ctx, a.opts.Config.Workers, srcs, func(_ context.Context, s source) (converted, error) {
		s, err := s.load()
		if err != nil {
			return converted{}, err
		}
		schema, derr := a.decodeSchema([]byte(s.text))
		if derr != nil {
			return converted{src: s, err: derr}, nil
		}
		n, derr := jsonschema.ToIR(schema)
		if derr != nil {
			return converted{src: s, err: derr}, nil
		}
		return converted{src: s, data: a.printDSL(n)}, nil
	})
	if err != nil {
		return err
	}
	return a.finish(ctx, "convert", results, ".sdl")
}

// infer prints the DSL schema of JSON data samples.
func (a *App) infer(ctx context.Context) error {
	srcs, err := a.sources(ctx)
	if err != nil {
		return err
	}
	results, err := forEach(ctx, a.opts.Config.Workers, srcs, func(_ context.Context, s source) (converted, error) {
		s, err := s.load()
		if err != nil {
			return converted{}, err
		}
		n, ierr := infer.JSON([]byte(s.text))
		if ierr != nil {
			return converted{src: s, err: ierr}, nil
		}
		return converted{src: s, data: a.printDSL(n)}, nil
	})
	if err != nil {
		return err
	}
	return a.finish(ctx, "infer", results, ".sdl")
}

// decodeSchema reads a JSON or YAML schema, or with -name the named schema
// of an OpenAPI document or CRD.
func (a *App) decodeSchema(data []byte) (*jsonschema.Schema, error) {
	if a.opts.Name != "" {
		return openapi.Import(data, a.opts.Name)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return jsonschema.Unmarshal(data)
	}
	return jsonschema.UnmarshalYAML(data)
}

func (a *App) openAPI(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	srcs, err := a.sources(ctx)
	if err != nil {
		return err
	}
	if a.opts.Name != "" && len(srcs) > 1 {
		return fmt.Errorf("%w: -name applies to a single input; components are named after their files", ErrUsage)
	}

	results, err := forEach(ctx, a.opts.Config.Workers, srcs, func(_ context.Context, s source) (compiled, error) {
		return a.diagnose(s)
	})
	if err != nil {
		return err
	}

	var components jsonschema.Properties
	failed := 0
	for _, c := range results {
		if err := renderIssues(a.errOut, c.src, c.res); err != nil {
			return err
		}
		if !c.res.Valid {
			failed++
			continue
		}
		name := a.opts.Name
		if name == "" {
			name = c.src.stem()
		}
		if _, dup := components.Lookup(name); dup {
			return fmt.Errorf("%w: component %q is defined twice", ErrUsage, name)
		}
		components = append(components, jsonschema.Property{Name: name, Schema: jsonschema.Emit(c.res.Root)})
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d schema(s) failed to compile: %w", failed, len(srcs), ErrInvalid)
	}

	doc := openapi.Document(openapi.Info{Title: a.opts.Title, Version: a.opts.APIVersion}, components)
	var data []byte
	if a.opts.Config.Format == "yaml" {
		data, err = openapi.MarshalYAML(doc, a.opts.Config.Indent)
	} else {
		data, err = openapi.Marshal(doc, a.opts.Config.Indent)
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}
	logger.Debug("Built OpenAPI document.", "components", len(components))
	return a.writeResults(ctx, []rendered{{data: data}}, 1, a.ext())
}

func (a *App) examples(_ context.Context) error {
	if len(a.opts.Args) == 0 {
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, r := range recipes.All() {
			fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.Description)
		}
		return tw.Flush()
	}
	for i, name := range a.opts.Args {
		r, ok := recipes.Get(name)
		if !ok {
			return fmt.Errorf("%w: unknown example %q; run 'strschema examples' for the list", ErrUsage, name)
		}
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		fmt.Fprintf(a.out, "# %s\n%s\n", r.Description, r.Schema)
	}
	return nil
}

func (a *App) syntax(_ context.Context) error {
	_, err := fmt.Fprint(a.out, recipes.SyntaxHelp())
	return err
}
