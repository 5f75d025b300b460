package compiler

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

const counterSource = `component: Counter
widgets:
  - name: window
    type: "*gtk.Window"
    properties:
      - name: title
        assign: '"Counter"'
`

func TestShowDiagnosticWithContext(t *testing.T) {
	err := &MissingRootError{Location: Span{File: "counter.view.yaml", Line: 2, Col: 1}}
	got := ShowDiagnostic(err, []byte(counterSource), false)
	want := "error: no root widget: mark exactly one top-level widget as root\n" +
		"  --> counter.view.yaml:2:1\n" +
		"     1 | component: Counter\n" +
		">    2 | widgets:\n" +
		"       | ^\n" +
		"     3 |   - name: window\n" +
		"     4 |     type: \"*gtk.Window\"\n"
	if got != want {
		t.Errorf("ShowDiagnostic mismatch.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestShowDiagnosticCaretColumn(t *testing.T) {
	err := &ValidationError{Location: Span{File: "v", Line: 6, Col: 15}, Msg: "bad"}
	got := ShowDiagnostic(err, []byte(counterSource), false)
	if !strings.Contains(got, ">    6 |       - name: title\n       |               ^\n") {
		t.Errorf("caret not under column 15:\n%s", got)
	}
	// The last context line is the empty line after the trailing newline.
	if !strings.HasSuffix(got, "     8 | \n") {
		t.Errorf("expected context to end at line 8:\n%s", got)
	}
}

func TestShowDiagnosticWideAndTabbedLines(t *testing.T) {
	src := "\tname: 窓 x\n"
	err := &ValidationError{Location: Span{File: "v", Line: 1, Col: 10}, Msg: "bad"}
	got := ShowDiagnostic(err, []byte(src), false)
	// Tab kept, then seven narrow runes and one double-width rune before column 10.
	if !strings.Contains(got, "       | \t         ^\n") {
		t.Errorf("caret misaligned:\n%q", got)
	}
}

func TestShowDiagnosticWithoutPosition(t *testing.T) {
	err := &ValidationError{Location: Span{File: "v.view.toml"}, Msg: "bad"}
	got := ShowDiagnostic(err, []byte(counterSource), false)
	if want := "error: bad\n  --> v.view.toml\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestShowDiagnosticPlainError(t *testing.T) {
	got := ShowDiagnostic(errors.New("disk full"), nil, false)
	if want := "error: disk full\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestShowDiagnosticUnwrapsAndColors(t *testing.T) {
	inner := &ValidationError{Location: Span{File: "v", Line: 1, Col: 1}, Msg: "bad"}
	err := fmt.Errorf("compiling: %w", inner)
	got := ShowDiagnostic(err, []byte("x\n"), true)
	if !strings.HasPrefix(got, errorHeaderBegin+"error:"+errorHeaderEnd+" bad\n") {
		t.Errorf("expected coloured header with the diagnostic message, got %q", got)
	}
	if !strings.Contains(got, caretBegin+"^"+caretEnd) {
		t.Errorf("expected coloured caret, got %q", got)
	}
}

func TestShowDiagnosticLineOutOfRange(t *testing.T) {
	err := &ValidationError{Location: Span{File: "v", Line: 99, Col: 1}, Msg: "bad"}
	got := ShowDiagnostic(err, []byte("one line"), false)
	if want := "error: bad\n  --> v:99:1\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
