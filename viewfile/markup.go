package viewfile

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/vcrobe/nojs-viewgen/compiler"
	"golang.org/x/net/html"
)

// parseMarkup reads the HTML-like encoding:
//
//	<view component="Counter" model="*CounterModel" imports="example.com/gtk">
//	  <widget name="window" type="*gtk.Window" root>
//	    <property name="title" assign='"Counter"'></property>
//	    <property name="child">
//	      <widget name="label" type="*gtk.Label"></widget>
//	    </property>
//	    <signal name="close_request" params="" handler="closeHandler" handler-type="uint64">
//	      c.Quit()
//	    </signal>
//	  </widget>
//	</view>
//
// Elements must be closed explicitly; the HTML parser does not honor "/>" on
// custom tags.
func parseMarkup(name string, src []byte) (*compiler.View, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse markup: %w", name, err)
	}

	body := findBody(doc)
	if body == nil {
		return nil, fmt.Errorf("%s: no <body> element found after parsing", name)
	}
	viewNode := findElement(body, "view")
	if viewNode == nil {
		return nil, fmt.Errorf("%s: no <view> element found", name)
	}

	m := &markupReader{file: name, finder: newLineFinder(string(src))}
	rv, err := m.view(viewNode)
	if err != nil {
		return nil, err
	}
	c := &converter{file: name}
	return c.view(rv)
}

type markupReader struct {
	file   string
	finder *lineFinder
}

func (m *markupReader) errorf(p position, format string, args ...any) error {
	return &compiler.ValidationError{
		Location: compiler.Span{File: m.file, Line: p.line, Col: p.col},
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (m *markupReader) view(n *html.Node) (*rawView, error) {
	rv := &rawView{
		Component: attr(n, "component"),
		Model:     attr(n, "model"),
		Imports:   strings.Fields(attr(n, "imports")),
		pos:       m.finder.find(regexp.MustCompile(`<view\b`)),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data != "widget" {
			return nil, m.errorf(rv.pos, "unexpected <%s> in <view>; only <widget> is allowed", c.Data)
		}
		w, err := m.widget(c)
		if err != nil {
			return nil, err
		}
		rv.Widgets = append(rv.Widgets, *w)
	}
	return rv, nil
}

func (m *markupReader) widget(n *html.Node) (*rawWidget, error) {
	w := &rawWidget{
		Name:        attr(n, "name"),
		Type:        attr(n, "type"),
		Constructor: attr(n, "constructor"),
		Root:        hasAttr(n, "root"),
	}
	w.pos = m.finder.find(markupNameRegex(w.Name))

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "property":
			p, err := m.property(c)
			if err != nil {
				return nil, err
			}
			w.Properties = append(w.Properties, *p)
		case "signal":
			p, err := m.signal(c)
			if err != nil {
				return nil, err
			}
			w.Properties = append(w.Properties, *p)
		case "returned":
			if w.Returned != nil {
				return nil, m.errorf(w.pos, "widget %q has more than one <returned>", w.Name)
			}
			r, err := m.widget(c)
			if err != nil {
				return nil, err
			}
			w.Returned = r
		default:
			return nil, m.errorf(w.pos, "unexpected <%s> in widget %q", c.Data, w.Name)
		}
	}
	return w, nil
}

func (m *markupReader) property(n *html.Node) (*rawProperty, error) {
	p := &rawProperty{
		Name:   attr(n, "name"),
		Init:   attr(n, "init"),
		Assign: attr(n, "assign"),
		Watch:  attr(n, "watch"),
		Track:  attr(n, "track"),
	}
	p.pos = m.finder.find(markupNameRegex(p.Name))

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if c.Data != "widget" || p.Widget != nil {
			return nil, m.errorf(p.pos, "property %q can only hold a single <widget>", p.Name)
		}
		w, err := m.widget(c)
		if err != nil {
			return nil, err
		}
		p.Widget = w
	}
	return p, nil
}

// signal reads a signal and its callback body. The body is plain text: a "<"
// followed by a letter would start an element and swallow the rest of the
// code, so any element inside a signal is rejected.
func (m *markupReader) signal(n *html.Node) (*rawProperty, error) {
	p := &rawProperty{
		Name: attr(n, "name"),
		Signal: &rawSignal{
			Params:      attr(n, "params"),
			Body:        textContent(n),
			Handler:     attr(n, "handler"),
			HandlerType: attr(n, "handler-type"),
			Returns:     hasAttr(n, "returns"),
		},
	}
	p.pos = m.finder.find(markupNameRegex(p.Name))
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return nil, m.errorf(p.pos, "body of signal %q contains markup (<%s>); escape \"<\" as \"&lt;\"", p.Name, c.Data)
		}
	}
	return p, nil
}

func markupNameRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`\bname\s*=\s*["']` + regexp.QuoteMeta(name) + `["']`)
}

// findBody finds the <body> node in the parsed HTML.
func findBody(n *html.Node) *html.Node {
	return findElement(n, "body")
}

// findElement finds the first element named tag, depth first.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tag); result != nil {
			return result
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// textContent concatenates the text children of n, dropping the indentation
// they share.
func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return dedent(strings.Trim(b.String(), "\n"))
}

func dedent(s string) string {
	lines := strings.Split(s, "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first || !strings.HasPrefix(indent, prefix) {
			if first {
				prefix = indent
				first = false
			} else {
				prefix = commonPrefix(prefix, indent)
			}
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func commonPrefix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return a[:i]
}
