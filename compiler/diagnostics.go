package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Variables controlling the style of diagnostics when colour is enabled.
var (
	errorHeaderBegin = "\033[31;1m"
	errorHeaderEnd   = "\033[m"
	caretBegin       = "\033[31m"
	caretEnd         = "\033[m"
)

// ShowDiagnostic renders err for humans. Diagnostics with a known line get a
// numbered excerpt of source around that line with a caret under the column;
// any other error is shown as a single line.
func ShowDiagnostic(err error, source []byte, color bool) string {
	header := "error:"
	if color {
		header = errorHeaderBegin + header + errorHeaderEnd
	}

	var d Diagnostic
	if !errors.As(err, &d) {
		return header + " " + err.Error() + "\n"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", header, d.Message()))
	span := d.Span()
	if span.Line == 0 {
		if span.File != "" {
			b.WriteString(fmt.Sprintf("  --> %s\n", span.File))
		}
		return b.String()
	}
	b.WriteString(fmt.Sprintf("  --> %s\n", span))
	if source != nil {
		b.WriteString(getContextLines(string(source), span, 2, color))
	}
	return b.String()
}

// getContextLines returns the lines around span, contextSize before and after,
// marking the span's line and pointing a caret at its column.
func getContextLines(source string, span Span, contextSize int, color bool) string {
	lines := strings.Split(source, "\n")
	if span.Line > len(lines) {
		return ""
	}

	startLine := span.Line - contextSize - 1 // -1 for 0-based indexing
	if startLine < 0 {
		startLine = 0
	}
	endLine := span.Line + contextSize
	if endLine > len(lines) {
		endLine = len(lines)
	}

	var result strings.Builder
	for i := startLine; i < endLine; i++ {
		lineNum := i + 1
		prefix := "  "
		if lineNum == span.Line {
			prefix = "> "
		}
		result.WriteString(fmt.Sprintf("%s%4d | %s\n", prefix, lineNum, lines[i]))

		if lineNum == span.Line && span.Col > 0 {
			caret := "^"
			if color {
				caret = caretBegin + caret + caretEnd
			}
			result.WriteString(fmt.Sprintf("       | %s%s\n", caretPadding(lines[i], span.Col), caret))
		}
	}
	return result.String()
}

// caretPadding returns the whitespace that lines a caret up under the 1-based
// column col of line. Tabs are kept so the caret follows the terminal's tab
// stops; other characters are replaced by spaces of their display width.
func caretPadding(line string, col int) string {
	var pad strings.Builder
	for i, r := range []rune(line) {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return pad.String()
}
