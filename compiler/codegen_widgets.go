package compiler

import "fmt"

// capabilities describes what a kind of widget node may do. Top-level widgets,
// nested widgets and returned widgets share one emission routine and differ
// only here.
type capabilities struct {
	canBeRoot bool // may be constructed through InitRoot
	canReturn bool // may own a returned widget
}

var (
	topLevelCaps = capabilities{canBeRoot: true, canReturn: true}
	nestedCaps   = capabilities{canReturn: true}
	returnedCaps = capabilities{}
)

// node is the common shape of Widget and ReturnedWidget.
type node struct {
	name       string
	typ        string
	ctor       string
	properties []Property
	returned   *ReturnedWidget
}

func widgetNode(w *Widget) node {
	return node{w.Name, w.Type, w.Constructor, w.Properties, w.Returned}
}

func returnedNode(r *ReturnedWidget) node {
	return node{name: r.Name, typ: r.Type, ctor: r.Constructor, properties: r.Properties}
}

// GenerateStreams walks the view once, depth-first in declaration order, and
// returns the populated streams. It never fails; root problems are reported by
// ResolveRoot.
func GenerateStreams(v *View, opts Options) *StreamSet {
	streams := &StreamSet{}
	for i := range v.Widgets {
		tl := &v.Widgets[i]
		emitWidget(streams, widgetNode(&tl.Widget), topLevelCaps, tl.Root && !opts.Standalone)
	}
	opts.logger().Printf("%s: generated %d widget fields, %d assignments, %d connections, %d view updates",
		v.Component, streams.StructFields.Len(), streams.Assign.Len(), streams.Connect.Len(), streams.UpdateView.Len())
	return streams
}

// emitWidget appends everything one node contributes, then recurses into the
// widgets nested in its properties and finally into its returned widget.
func emitWidget(s *StreamSet, n node, caps capabilities, generateAsRoot bool) {
	generateAsRoot = generateAsRoot && caps.canBeRoot

	// Step 1: Construction. The root is built by InitRoot and handed back to
	// InitWidgets as its root parameter; everything else is built in Init.
	ctor := n.ctor
	if ctor == "" {
		ctor = defaultConstructor(n.typ)
	}
	decl := fmt.Sprintf("%s := %s", n.name, ctor)
	if generateAsRoot {
		s.InitRoot.add(decl)
		s.InitRoot.add("return " + n.name)
	} else {
		s.Init.add(decl)
	}

	// Step 2: Every node is a persistent field, root or not.
	s.StructFields.add(n.name + " " + n.typ)
	s.ReturnFields.add(n.name)
	s.DestructureFields.add(n.name)

	// Step 3: Rename the generic root parameter to the widget's own name.
	if generateAsRoot {
		s.RenameRoot.add(n.name + " := root")
	}

	// Step 4: Properties, in declaration order.
	o := owner{name: n.name}
	if caps.canReturn {
		o.returned = n.returned
	}
	for i := range n.properties {
		prop := &n.properties[i]
		prop.initStream(&s.Init)
		prop.assignStream(&s.Assign, o)
		prop.connectStream(&s.Connect, o)
		prop.updateViewStream(&s.UpdateView, o)

		prop.structFieldsStream(&s.StructFields)
		prop.returnStream(&s.ReturnFields)
		prop.destructureStream(&s.DestructureFields)

		if wv, ok := prop.Kind.(WidgetValue); ok && wv.Widget != nil {
			emitWidget(s, widgetNode(wv.Widget), nestedCaps, false)
		}
	}

	// The returned widget follows the whole of its owner, so its code can
	// refer to anything the owner set up.
	if caps.canReturn && n.returned != nil {
		emitWidget(s, returnedNode(n.returned), returnedCaps, false)
	}
}
