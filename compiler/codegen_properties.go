package compiler

import (
	"fmt"
	"strings"
)

// owner is the widget a property is generated for.
type owner struct {
	name     string
	returned *ReturnedWidget
}

// initStream emits the property's own initialization statement, if any.
func (p *Property) initStream(s *Stream) {
	if v, ok := p.Kind.(PlainValue); ok && v.Init != "" {
		s.add(v.Init)
	}
}

// assignStream emits the one-time setter call: a plain value or the nested widget itself.
func (p *Property) assignStream(s *Stream, o owner) {
	switch v := p.Kind.(type) {
	case PlainValue:
		if v.Assign != "" {
			s.add(fmt.Sprintf("%s.%s(%s)", o.name, setterName(p.Name), v.Assign))
		}
	case WidgetValue:
		if v.Widget != nil {
			s.add(fmt.Sprintf("%s.%s(%s)", o.name, setterName(p.Name), v.Widget.Name))
		}
	}
}

// connectStream emits the signal connection, binding the handle to its field
// and returning the owner's returned widget when the signal declares so.
func (p *Property) connectStream(s *Stream, o owner) {
	sig, ok := p.Kind.(Signal)
	if !ok {
		return
	}

	var code strings.Builder
	if sig.Handler != nil {
		code.WriteString(sig.Handler.Name + " := ")
	}

	yields := sig.ReturnsWidget && o.returned != nil
	code.WriteString(fmt.Sprintf("%s.%s(func(%s)", o.name, connectName(p.Name), sig.Params))
	if yields {
		code.WriteString(" " + o.returned.Type)
	}
	code.WriteString(" {\n")
	if body := indentBody(sig.Body); body != "" {
		code.WriteString(body)
		code.WriteString("\n")
	}
	if yields {
		code.WriteString("\treturn " + o.returned.Name + "\n")
	}
	code.WriteString("})")

	s.add(code.String())
}

// updateViewStream emits the setter call re-run on every model change,
// guarded by the track condition when there is one.
func (p *Property) updateViewStream(s *Stream, o owner) {
	v, ok := p.Kind.(PlainValue)
	if !ok || v.Watch == "" {
		return
	}
	call := fmt.Sprintf("%s.%s(%s)", o.name, setterName(p.Name), v.Watch)
	if v.Track != "" {
		s.add(fmt.Sprintf("if %s {\n\t%s\n}", v.Track, call))
		return
	}
	s.add(call)
}

// The bookkeeping streams below cover fields a property adds on its own, i.e.
// signal handles. Nested widgets register themselves when they are emitted.

func (p *Property) structFieldsStream(s *Stream) {
	if f := p.handlerField(); f != nil {
		s.add(f.Name + " " + f.Type)
	}
}

func (p *Property) returnStream(s *Stream) {
	if f := p.handlerField(); f != nil {
		s.add(f.Name)
	}
}

func (p *Property) destructureStream(s *Stream) {
	if f := p.handlerField(); f != nil {
		s.add(f.Name)
	}
}

func (p *Property) handlerField() *Field {
	if sig, ok := p.Kind.(Signal); ok {
		return sig.Handler
	}
	return nil
}
