package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/reoring/strschema/i18n"
	"github.com/reoring/strschema/report"
)

const tabWidth = 4

// Render writes issues in a compiler-style layout:
//
//	error[unknown_type]: unknown type "strng"
//	 --> user.sdl:1:6
//	  |
//	1 | name:strng
//	  |      ^^^^^
//	  = help: did you mean "string"?
//
// Issues without a valid position are printed without the source excerpt.
// Labels are localized through i18n; outside English the header also carries
// the localized title of the issue code.
func Render(w io.Writer, filename, src string, issues report.Issues) error {
	lines := strings.Split(src, "\n")
	b := &strings.Builder{}
	for i, is := range issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := i18n.T(i18n.LabelError, nil)
		if is.Severity == report.SeverityWarning {
			label = i18n.T(i18n.LabelWarning, nil)
		}
		if title := i18n.Title(is.Code); title != "" {
			fmt.Fprintf(b, "%s[%s] %s: %s\n", label, is.Code, title, is.Message)
		} else {
			fmt.Fprintf(b, "%s[%s]: %s\n", label, is.Code, is.Message)
		}

		if !is.Pos.IsValid() || is.Pos.Line > len(lines) {
			if filename != "" {
				fmt.Fprintf(b, " --> %s\n", filename)
			}
			if is.Hint != "" {
				fmt.Fprintf(b, " = %s: %s\n", i18n.T(i18n.LabelHelp, nil), is.Hint)
			}
			continue
		}

		num := strconv.Itoa(is.Pos.Line)
		gutter := strings.Repeat(" ", len(num))
		loc := is.Pos.String()
		if filename != "" {
			loc = filename + ":" + loc
		}
		line := strings.TrimRight(lines[is.Pos.Line-1], "\r")
		pad, width := caret(line, is.Pos.Column, is.Len)

		fmt.Fprintf(b, "%s--> %s\n", gutter, loc)
		fmt.Fprintf(b, "%s |\n", gutter)
		fmt.Fprintf(b, "%s | %s\n", num, expandTabs(line))
		fmt.Fprintf(b, "%s | %s%s\n", gutter, strings.Repeat(" ", pad), strings.Repeat("^", width))
		if is.Hint != "" {
			fmt.Fprintf(b, "%s = %s: %s\n", gutter, i18n.T(i18n.LabelHelp, nil), is.Hint)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// caret returns the display column padding and the marker width for a span
// of length bytes starting at the 1-based rune column col of line.
func caret(line string, col, length int) (pad, width int) {
	runes := []rune(line)
	start := col - 1
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	before := string(runes[:start])
	rest := string(runes[start:])
	if length > len(rest) {
		length = len(rest)
	}
	if length < 0 {
		length = 0
	}
	width = uniseg.StringWidth(expandTabs(rest[:length]))
	if width < 1 {
		width = 1
	}
	return uniseg.StringWidth(expandTabs(before)), width
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
