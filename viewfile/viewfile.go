// Package viewfile reads widget trees from view files.
//
// A view file describes one component's widgets. Three encodings are
// understood, chosen by file extension:
//
//	counter.view.yaml  (or .view.yml)
//	counter.view.toml
//	counter.view.html
//
// All three decode into the same *compiler.View, with spans pointing back
// into the file so diagnostics can show where a problem is.
package viewfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/vcrobe/nojs-viewgen/compiler"
)

// Extensions lists the recognized view file extensions.
var Extensions = []string{".view.yaml", ".view.yml", ".view.toml", ".view.html"}

// IsViewFile reports whether name has a view file extension.
func IsViewFile(name string) bool {
	return format(name) != ""
}

// TrimExtension returns name without its view file extension.
func TrimExtension(name string) string {
	for _, ext := range Extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

func format(name string) string {
	switch {
	case strings.HasSuffix(name, ".view.yaml"), strings.HasSuffix(name, ".view.yml"):
		return "yaml"
	case strings.HasSuffix(name, ".view.toml"):
		return "toml"
	case strings.HasSuffix(name, ".view.html"):
		return "html"
	}
	return ""
}

// Load reads and parses the view file at path.
func Load(path string) (*compiler.View, []byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read view file: %w", err)
	}
	v, err := Parse(path, src)
	return v, src, err
}

// Parse parses src, using name to choose the encoding and to label spans.
func Parse(name string, src []byte) (*compiler.View, error) {
	switch format(name) {
	case "yaml":
		return parseYAML(name, src)
	case "toml":
		return parseTOML(name, src)
	case "html":
		return parseMarkup(name, src)
	}
	return nil, fmt.Errorf("%s: unknown view file extension (want one of %s)", name, strings.Join(Extensions, ", "))
}

// position is where a raw declaration starts.
type position struct {
	line, col int
}

// rawView, rawWidget, rawProperty and rawSignal mirror the YAML and TOML
// encodings before they are checked and converted.
type rawView struct {
	Component string      `yaml:"component" toml:"component"`
	Model     string      `yaml:"model" toml:"model"`
	Imports   []string    `yaml:"imports" toml:"imports"`
	Widgets   []rawWidget `yaml:"widgets" toml:"widgets"`

	pos position // the widgets declaration
}

type rawWidget struct {
	Name        string        `yaml:"name" toml:"name"`
	Type        string        `yaml:"type" toml:"type"`
	Constructor string        `yaml:"constructor" toml:"constructor"`
	Root        bool          `yaml:"root" toml:"root"`
	Properties  []rawProperty `yaml:"properties" toml:"properties"`
	Returned    *rawWidget    `yaml:"returned" toml:"returned"`

	pos position
}

type rawProperty struct {
	Name   string     `yaml:"name" toml:"name"`
	Init   string     `yaml:"init" toml:"init"`
	Assign string     `yaml:"assign" toml:"assign"`
	Watch  string     `yaml:"watch" toml:"watch"`
	Track  string     `yaml:"track" toml:"track"`
	Widget *rawWidget `yaml:"widget" toml:"widget"`
	Signal *rawSignal `yaml:"signal" toml:"signal"`

	pos position
}

type rawSignal struct {
	Params      string `yaml:"params" toml:"params"`
	Body        string `yaml:"body" toml:"body"`
	Handler     string `yaml:"handler" toml:"handler"`
	HandlerType string `yaml:"handler_type" toml:"handler_type"`
	Returns     bool   `yaml:"returns" toml:"returns"`
}

// converter turns raw declarations into the compiler's model, rejecting the
// shapes the model cannot represent.
type converter struct {
	file string
}

func (c *converter) span(p position) compiler.Span {
	return compiler.Span{File: c.file, Line: p.line, Col: p.col}
}

func (c *converter) errorf(p position, format string, args ...any) error {
	return &compiler.ValidationError{Location: c.span(p), Msg: fmt.Sprintf(format, args...)}
}

func (c *converter) view(rv *rawView) (*compiler.View, error) {
	v := &compiler.View{
		Component: rv.Component,
		Model:     rv.Model,
		Imports:   rv.Imports,
		Span:      c.span(rv.pos),
	}
	for i := range rv.Widgets {
		rw := &rv.Widgets[i]
		w, err := c.widget(rw)
		if err != nil {
			return nil, err
		}
		v.Widgets = append(v.Widgets, compiler.TopLevelWidget{Root: rw.Root, Widget: *w})
	}
	return v, nil
}

func (c *converter) widget(rw *rawWidget) (*compiler.Widget, error) {
	props, err := c.properties(rw.Properties)
	if err != nil {
		return nil, err
	}
	w := &compiler.Widget{
		Name:        rw.Name,
		Type:        rw.Type,
		Constructor: rw.Constructor,
		Properties:  props,
		Span:        c.span(rw.pos),
	}
	if rr := rw.Returned; rr != nil {
		if rr.Root {
			return nil, c.errorf(rr.pos, "returned widget %q cannot be root", rr.Name)
		}
		if rr.Returned != nil {
			return nil, c.errorf(rr.Returned.pos, "returned widget %q cannot return another widget", rr.Name)
		}
		rprops, err := c.properties(rr.Properties)
		if err != nil {
			return nil, err
		}
		w.Returned = &compiler.ReturnedWidget{
			Name:        rr.Name,
			Type:        rr.Type,
			Constructor: rr.Constructor,
			Properties:  rprops,
			Span:        c.span(rr.pos),
		}
	}
	return w, nil
}

func (c *converter) properties(raws []rawProperty) ([]compiler.Property, error) {
	var props []compiler.Property
	for i := range raws {
		rp := &raws[i]
		prop := compiler.Property{Name: rp.Name, Span: c.span(rp.pos)}

		plain := rp.Init != "" || rp.Assign != "" || rp.Watch != ""
		kinds := 0
		for _, set := range []bool{plain, rp.Widget != nil, rp.Signal != nil} {
			if set {
				kinds++
			}
		}
		switch {
		case kinds == 0:
			return nil, c.errorf(rp.pos, "property %q needs init, assign, watch, widget or signal", rp.Name)
		case kinds > 1:
			return nil, c.errorf(rp.pos, "property %q mixes values, widgets and signals", rp.Name)
		case rp.Track != "" && rp.Watch == "":
			return nil, c.errorf(rp.pos, "property %q has track but no watch", rp.Name)
		}

		switch {
		case rp.Widget != nil:
			if rp.Widget.Root {
				return nil, c.errorf(rp.Widget.pos, "nested widget %q cannot be root; only top-level widgets can", rp.Widget.Name)
			}
			w, err := c.widget(rp.Widget)
			if err != nil {
				return nil, err
			}
			prop.Kind = compiler.WidgetValue{Widget: w}
		case rp.Signal != nil:
			rs := rp.Signal
			sig := compiler.Signal{Params: rs.Params, Body: rs.Body, ReturnsWidget: rs.Returns}
			if rs.Handler != "" {
				sig.Handler = &compiler.Field{Name: rs.Handler, Type: rs.HandlerType}
			}
			prop.Kind = sig
		default:
			prop.Kind = compiler.PlainValue{Init: rp.Init, Assign: rp.Assign, Watch: rp.Watch, Track: rp.Track}
		}
		props = append(props, prop)
	}
	return props, nil
}
