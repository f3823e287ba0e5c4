package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/strschema/internal/ctxlog"
)

// ErrUsage is wrapped by errors caused by invalid arguments. The CLI maps it
// to exit status 2.
var ErrUsage = errors.New("usage error")

// source is one schema input. path is empty for -e and stdin.
type source struct {
	name string
	path string
	text string
}

// stem names outputs derived from s.
func (s source) stem() string {
	if s.path == "" {
		return "schema"
	}
	base := filepath.Base(s.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s source) load() (source, error) {
	if s.path == "" {
		return s, nil
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return s, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	s.text = string(b)
	return s, nil
}

// sources resolves -e, stdin or file arguments. Files are read lazily by
// the workers.
func (a *App) sources(ctx context.Context) ([]source, error) {
	logger := ctxlog.FromContext(ctx)

	if a.opts.Expr != "" {
		if len(a.opts.Args) > 0 {
			return nil, fmt.Errorf("%w: -e cannot be combined with file arguments", ErrUsage)
		}
		return []source{{name: "<expr>", text: a.opts.Expr}}, nil
	}
	if len(a.opts.Args) == 0 || (len(a.opts.Args) == 1 && a.opts.Args[0] == "-") {
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return []source{{name: "<stdin>", text: string(b)}}, nil
	}

	paths, err := expandPaths(a.opts.Args)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved input files.", "patterns", len(a.opts.Args), "files", len(paths))

	out := make([]source, len(paths))
	for i, p := range paths {
		out[i] = source{name: p, path: p}
	}
	return out, nil
}

// expandPaths expands doublestar patterns (e.g. "schemas/**/*.sdl") and
// keeps literal paths as given. Duplicates are dropped; order follows the
// arguments, with each pattern's matches sorted.
func expandPaths(args []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		if !hasMeta(arg) {
			add(arg)
			continue
		}
		if !doublestar.ValidatePathPattern(arg) {
			return nil, fmt.Errorf("%w: bad pattern %q", ErrUsage, arg)
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: no files match %q", ErrUsage, arg)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func hasMeta(p string) bool { return strings.ContainsAny(p, "*?[{") }

// forEach runs fn for every source with at most workers calls in flight.
// Results keep the order of srcs. An error from fn aborts the batch; schema
// problems belong in T, not in the error.
func forEach[T any](ctx context.Context, workers int, srcs []source, fn func(context.Context, source) (T, error)) ([]T, error) {
	out := make([]T, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, s := range srcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, s)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
