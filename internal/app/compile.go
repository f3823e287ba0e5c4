package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/reoring/strschema/diag"
	"github.com/reoring/strschema/i18n"
	"github.com/reoring/strschema/internal/ctxlog"
	"github.com/reoring/strschema/jsonschema"
)

type compiled struct {
	src  source
	res  diag.Result
	data []byte
}

// diagnose loads s and runs the diagnostics engine with the configured
// thresholds.
func (a *App) diagnose(s source) (compiled, error) {
	s, err := s.load()
	if err != nil {
		return compiled{}, err
	}
	return compiled{src: s, res: diag.Diagnose(s.text, a.opts.Config.DiagOptions()...)}, nil
}

func (a *App) compile(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	srcs, err := a.sources(ctx)
	if err != nil {
		return err
	}

	results, err := forEach(ctx, a.opts.Config.Workers, srcs, func(_ context.Context, s source) (compiled, error) {
		c, err := a.diagnose(s)
		if err != nil || !c.res.Valid {
			return c, err
		}
		schema := jsonschema.Emit(c.res.Root)
		schema.Draft = a.opts.Config.Draft
		c.data, err = a.encodeSchema(schema)
		return c, err
	})
	if err != nil {
		return err
	}

	var outs []rendered
	failed := 0
	for _, c := range results {
		if err := renderIssues(a.errOut, c.src, c.res); err != nil {
			return err
		}
		if !c.res.Valid {
			failed++
			continue
		}
		logger.Debug("Compiled schema.", "input", c.src.name, "bytes", len(c.data), "warnings", len(c.res.Warnings))
		outs = append(outs, rendered{src: c.src, data: c.data})
	}
	if err := a.writeResults(ctx, outs, len(srcs), a.ext()); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d schema(s) failed to compile: %w", failed, len(srcs), ErrInvalid)
	}
	return nil
}

// fileSummary tags a diagnostics summary with its input.
type fileSummary struct {
	File         string `json:"file" yaml:"file"`
	diag.Summary `yaml:",inline"`
}

func (a *App) check(ctx context.Context) error {
	srcs, err := a.sources(ctx)
	if err != nil {
		return err
	}
	results, err := forEach(ctx, a.opts.Config.Workers, srcs, func(_ context.Context, s source) (compiled, error) {
		return a.diagnose(s)
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, c := range results {
		if !c.res.Valid {
			failed++
		}
	}

	if a.opts.JSON {
		var v any
		if len(results) == 1 {
			v = results[0].res.Summary()
		} else {
			list := make([]fileSummary, len(results))
			for i, c := range results {
				list[i] = fileSummary{File: c.src.name, Summary: c.res.Summary()}
			}
			v = list
		}
		b, err := a.encodeValue(v)
		if err != nil {
			return err
		}
		if _, err := a.out.Write(b); err != nil {
			return err
		}
	} else {
		for _, c := range results {
			if err := renderIssues(a.out, c.src, c.res); err != nil {
				return err
			}
			if c.res.Valid {
				features := make([]string, len(c.res.Features))
				for i, f := range c.res.Features {
					features[i] = string(f)
				}
				fmt.Fprintf(a.out, "%s: %s (%s: %s)\n", c.src.name, i18n.T(i18n.LabelValid, nil),
					i18n.T(i18n.LabelFeature, nil), strings.Join(features, ", "))
			} else {
				fmt.Fprintf(a.out, "%s: %s\n", c.src.name, i18n.T(i18n.LabelInvalid, nil))
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schema(s) invalid: %w", failed, len(srcs), ErrInvalid)
	}
	return nil
}
