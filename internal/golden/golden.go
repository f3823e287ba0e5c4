// Package golden runs table-driven tests whose table lives in the file
// system: every input file under a root directory is one case, and each
// expected output sits next to it with an extra extension.
package golden

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus describes a directory of test cases.
type Corpus struct {
	// Root is the test data directory, relative to the calling test file.
	Root string

	// Refresh names an environment variable holding a glob. Cases whose
	// relative path matches it get their output files rewritten instead of
	// compared.
	Refresh string

	// Extension of input files, without the dot, e.g. "sdl".
	Extension string

	// Outputs produced per case. A missing output file is treated as an
	// expected empty string.
	Outputs []Output

	// Test runs one case and returns one string per element of Outputs.
	Test func(t *testing.T, path, text string) []string
}

// Output is one expected artifact of a case. For input "a.sdl" and
// Extension "json" the file is "a.sdl.json".
type Output struct {
	Extension string
	// Compare defaults to a byte comparison with a unified diff.
	Compare Compare
}

// Compare returns "" when got matches want and a description of the
// difference otherwise.
type Compare func(got, want string) string

// Run executes every case of the corpus as a subtest.
func (c Corpus) Run(t *testing.T) {
	t.Helper()
	testDir := callerDir()
	root := filepath.Join(testDir, c.Root)

	cases, err := doublestar.FilepathGlob(filepath.Join(root, "**", "*."+c.Extension))
	if err != nil {
		t.Fatalf("golden: listing %q: %v", root, err)
	}
	if len(cases) == 0 {
		t.Fatalf("golden: no *.%s files under %q", c.Extension, root)
	}
	sort.Strings(cases)

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if refresh != "" && !doublestar.ValidatePattern(refresh) {
			t.Fatalf("golden: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		t.Logf("golden: refreshing outputs matching %s=%s", c.Refresh, refresh)
	}

	for _, path := range cases {
		name, _ := filepath.Rel(root, path)
		name = filepath.ToSlash(name)
		t.Run(name, func(t *testing.T) {
			input, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("golden: reading %q: %v", path, err)
			}
			results := c.Test(t, name, string(input))
			if len(results) != len(c.Outputs) {
				t.Fatalf("golden: test returned %d results for %d outputs", len(results), len(c.Outputs))
			}

			rewrite := refresh != "" && matches(refresh, name)
			for i, out := range c.Outputs {
				outPath := fmt.Sprint(path, ".", out.Extension)
				if rewrite {
					if err := write(outPath, results[i]); err != nil {
						t.Errorf("golden: %v", err)
					}
					continue
				}
				want, err := os.ReadFile(outPath)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("golden: reading %q: %v", outPath, err)
					continue
				}
				cmp := out.Compare
				if cmp == nil {
					cmp = Diff
				}
				if msg := cmp(results[i], string(want)); msg != "" {
					t.Errorf("output mismatch for %s:\n%s", filepath.Base(outPath), msg)
				}
			}
		})
	}
}

func matches(pattern, name string) bool {
	ok, _ := doublestar.Match(pattern, name)
	return ok
}

func write(path, content string) error {
	if content == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %q: %w", path, err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}

// Diff compares byte-for-byte and renders mismatches as a unified diff.
func Diff(got, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	return strings.TrimRight(diff, "\n")
}

func callerDir() string {
	// Run -> caller
	_, file, _, ok := runtime.Caller(2)
	if !ok {
		panic("golden: could not determine the calling test file")
	}
	return filepath.Dir(file)
}
