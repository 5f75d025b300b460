package viewfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vcrobe/nojs-viewgen/compiler"
)

func parseTOML(name string, src []byte) (*compiler.View, error) {
	var rv rawView
	if _, err := toml.Decode(string(src), &rv); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	// The TOML decoder does not report positions, so they are recovered by
	// searching the source for each declaration in document order.
	f := newLineFinder(string(src))
	rv.pos = f.find(regexp.MustCompile(`^\s*(\[\[\s*widgets\s*\]\]|widgets\s*=)`))
	for i := range rv.Widgets {
		locateWidget(f, &rv.Widgets[i])
	}

	c := &converter{file: name}
	return c.view(&rv)
}

func locateWidget(f *lineFinder, w *rawWidget) {
	w.pos = f.find(nameRegex(w.Name))
	for i := range w.Properties {
		p := &w.Properties[i]
		p.pos = f.find(nameRegex(p.Name))
		if p.Widget != nil {
			locateWidget(f, p.Widget)
		}
	}
	if w.Returned != nil {
		locateWidget(f, w.Returned)
	}
}

func nameRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[\s{,])name\s*=\s*["']` + regexp.QuoteMeta(name) + `["']`)
}

// lineFinder locates declarations line by line. Searches continue after the
// previous match, so repeated names resolve to successive declarations.
type lineFinder struct {
	lines []string
	next  int
}

func newLineFinder(src string) *lineFinder {
	return &lineFinder{lines: strings.Split(src, "\n")}
}

// find returns the position of the first match at or after the previous one,
// falling back to a search from the top. An unmatched pattern yields the zero
// position.
func (f *lineFinder) find(re *regexp.Regexp) position {
	for _, start := range []int{f.next, 0} {
		for i := start; i < len(f.lines); i++ {
			loc := re.FindStringIndex(f.lines[i])
			if loc == nil {
				continue
			}
			f.next = i + 1
			col := loc[0]
			// Point at the declaration itself, not the separator before it.
			for col < len(f.lines[i]) && strings.ContainsRune(" \t{,", rune(f.lines[i][col])) {
				col++
			}
			return position{i + 1, len([]rune(f.lines[i][:col])) + 1}
		}
	}
	return position{}
}
