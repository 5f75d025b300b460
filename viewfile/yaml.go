package viewfile

import (
	"fmt"

	"github.com/vcrobe/nojs-viewgen/compiler"
	"gopkg.in/yaml.v3"
)

func parseYAML(name string, src []byte) (*compiler.View, error) {
	var rv rawView
	if err := yaml.Unmarshal(src, &rv); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	c := &converter{file: name}
	return c.view(&rv)
}

// UnmarshalYAML records where the widgets block starts.
func (v *rawView) UnmarshalYAML(n *yaml.Node) error {
	type plain rawView
	if err := n.Decode((*plain)(v)); err != nil {
		return err
	}
	v.pos = position{n.Line, n.Column}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if key := n.Content[i]; key.Value == "widgets" {
			v.pos = position{key.Line, key.Column}
			break
		}
	}
	return nil
}

// UnmarshalYAML records where the widget is declared.
func (w *rawWidget) UnmarshalYAML(n *yaml.Node) error {
	type plain rawWidget
	if err := n.Decode((*plain)(w)); err != nil {
		return err
	}
	w.pos = position{n.Line, n.Column}
	return nil
}

// UnmarshalYAML records where the property is declared.
func (p *rawProperty) UnmarshalYAML(n *yaml.Node) error {
	type plain rawProperty
	if err := n.Decode((*plain)(p)); err != nil {
		return err
	}
	p.pos = position{n.Line, n.Column}
	return nil
}
