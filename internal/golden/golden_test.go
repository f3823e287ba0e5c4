package golden_test

import (
	"strings"
	"testing"

	"github.com/reoring/strschema/internal/golden"
)

func TestDiff(t *testing.T) {
	if d := golden.Diff("a\nb\n", "a\nb\n"); d != "" {
		t.Fatalf("equal inputs produced a diff:\n%s", d)
	}
	d := golden.Diff("a\nc\n", "a\nb\n")
	for _, want := range []string{"--- want", "+++ got", "-b", "+c"} {
		if !strings.Contains(d, want) {
			t.Fatalf("diff lacks %q:\n%s", want, d)
		}
	}
}
