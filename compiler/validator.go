package compiler

import "fmt"

// reservedNames are identifiers the assembled component code already uses.
var reservedNames = map[string]bool{
	"c":       true, // method receiver
	"root":    true, // InitWidgets root parameter
	"model":   true, // model parameter
	"widgets": true, // UpdateView widgets parameter
}

// validator collects every problem in a view instead of stopping at the first.
type validator struct {
	errs   []error
	fields map[string]Span
}

// Validate checks the structural rules generation relies on: identifiers are
// valid and unique across the whole tree, every widget has a type, every
// property has a value, and returned widgets are yielded by exactly the
// signals that say so. Root problems are left to ResolveRoot.
func Validate(v *View) []error {
	val := &validator{fields: make(map[string]Span)}
	if v.Component == "" {
		val.errorf(v.Span, "view has no component name")
	} else if !identRegex.MatchString(v.Component) {
		val.errorf(v.Span, "component name %q is not a valid Go identifier", v.Component)
	}
	if len(v.Widgets) == 0 {
		val.errorf(v.Span, "view declares no widgets")
	}
	for i := range v.Widgets {
		val.widget(&v.Widgets[i].Widget)
	}
	return val.errs
}

func (val *validator) errorf(span Span, format string, args ...any) {
	val.errs = append(val.errs, &ValidationError{Location: span, Msg: fmt.Sprintf(format, args...)})
}

// field registers a persistent field name, reporting invalid and duplicate names.
func (val *validator) field(name string, span Span) {
	switch {
	case name == "":
		val.errorf(span, "missing name")
		return
	case !identRegex.MatchString(name):
		val.errorf(span, "name %q is not a valid Go identifier", name)
		return
	case reservedNames[name]:
		val.errorf(span, "name %q is reserved by the generated code", name)
		return
	}
	if first, dup := val.fields[name]; dup {
		val.errorf(span, "duplicate name %q (first declared at %s)", name, first)
		return
	}
	val.fields[name] = span
}

func (val *validator) widget(w *Widget) {
	val.node(widgetNode(w), w.Span, true)
	if w.Returned != nil {
		val.node(returnedNode(w.Returned), w.Returned.Span, false)
	}
}

func (val *validator) node(n node, span Span, canReturn bool) {
	val.field(n.name, span)
	if n.typ == "" {
		val.errorf(span, "widget %q has no type", n.name)
	}

	yielded := false
	for i := range n.properties {
		prop := &n.properties[i]
		if prop.Name == "" {
			val.errorf(prop.Span, "property of %q has no name", n.name)
		} else if _, isSignal := prop.Kind.(Signal); isSignal && !identRegex.MatchString(connectName(prop.Name)) {
			val.errorf(prop.Span, "signal name %q of %q does not map to a method name", prop.Name, n.name)
		} else if !isSignal && !identRegex.MatchString(setterName(prop.Name)) {
			val.errorf(prop.Span, "property name %q of %q does not map to a method name", prop.Name, n.name)
		}
		switch kind := prop.Kind.(type) {
		case nil:
			val.errorf(prop.Span, "property %q of %q has no value", prop.Name, n.name)
		case PlainValue:
			if kind.Track != "" && kind.Watch == "" {
				val.errorf(prop.Span, "property %q of %q has track but no watch", prop.Name, n.name)
			}
		case WidgetValue:
			if kind.Widget == nil {
				val.errorf(prop.Span, "property %q of %q has no widget", prop.Name, n.name)
				continue
			}
			val.widget(kind.Widget)
		case Signal:
			if kind.Handler != nil {
				val.field(kind.Handler.Name, prop.Span)
				if kind.Handler.Type == "" {
					val.errorf(prop.Span, "handler %q of signal %q has no type", kind.Handler.Name, prop.Name)
				}
			}
			if kind.ReturnsWidget {
				switch {
				case !canReturn:
					val.errorf(prop.Span, "signal %q of returned widget %q cannot return a widget", prop.Name, n.name)
				case n.returned == nil:
					val.errorf(prop.Span, "signal %q returns a widget but %q declares no returned widget", prop.Name, n.name)
				case yielded:
					val.errorf(prop.Span, "returned widget %q is already yielded by another signal of %q", n.returned.Name, n.name)
				}
				yielded = true
			}
		}
	}

	if canReturn && n.returned != nil && !yielded {
		val.errorf(n.returned.Span, "returned widget %q is not yielded by any signal of %q", n.returned.Name, n.name)
	}
}
