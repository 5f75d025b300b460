package compiler

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// checkStreams compares every stream of s with want. Streams missing from
// want must be empty.
func checkStreams(t *testing.T, s *StreamSet, want map[string][]string) {
	t.Helper()
	for _, ns := range s.Named() {
		if diff := cmp.Diff(want[ns.Name], ns.Stream.Fragments()); diff != "" {
			t.Errorf("stream %s mismatch (-want +got):\n%s", ns.Name, diff)
		}
	}
}

func windowView() *View {
	return &View{
		Component: "App",
		Span:      Span{File: "app.view.yaml", Line: 3, Col: 1},
		Widgets: []TopLevelWidget{{
			Root: true,
			Widget: Widget{
				Name: "window",
				Type: "*gtk.Window",
				Properties: []Property{
					{Name: "title", Kind: PlainValue{Init: `title := "Hi"`, Assign: "title"}},
					{Name: "close_request", Kind: Signal{Body: "c.Quit()"}},
				},
			},
		}},
	}
}

func TestGenerateStreamsRootWithValueAndSignal(t *testing.T) {
	s := GenerateStreams(windowView(), Options{})

	checkStreams(t, s, map[string][]string{
		"init_root":          {"window := gtk.NewWindow()", "return window"},
		"rename_root":        {"window := root"},
		"struct_fields":      {"window *gtk.Window"},
		"init":               {`title := "Hi"`},
		"assign":             {"window.SetTitle(title)"},
		"connect":            {"window.ConnectCloseRequest(func() {\n\tc.Quit()\n})"},
		"return_fields":      {"window"},
		"destructure_fields": {"window"},
	})
}

// dialogView has a root window whose nested child yields a returned dialog
// from one of its signals.
func dialogView() *View {
	dialog := &ReturnedWidget{
		Name: "dialog",
		Type: "*adw.Dialog",
		Properties: []Property{
			{Name: "title", Kind: PlainValue{Assign: `"Dialog"`}},
			{Name: "response", Kind: Signal{Params: "id int", Body: "c.Respond(id)"}},
		},
	}
	child := &Widget{
		Name: "child",
		Type: "*gtk.Box",
		Properties: []Property{
			{Name: "label", Kind: PlainValue{Assign: `"a"`}},
			{Name: "open", Kind: Signal{Body: "c.Opened()", ReturnsWidget: true}},
			{Name: "tooltip", Kind: PlainValue{Assign: `"t"`}},
		},
		Returned: dialog,
	}
	return &View{
		Component: "App",
		Widgets: []TopLevelWidget{{
			Root: true,
			Widget: Widget{
				Name: "window",
				Type: "*gtk.Window",
				Properties: []Property{
					{Name: "title", Kind: PlainValue{Assign: `"Main"`}},
					{Name: "child", Kind: WidgetValue{Widget: child}},
					{Name: "subtitle", Kind: PlainValue{Assign: `"Sub"`, Watch: "model.Subtitle"}},
				},
			},
		}},
	}
}

func TestGenerateStreamsNestedAndReturnedWidgets(t *testing.T) {
	s := GenerateStreams(dialogView(), Options{})

	checkStreams(t, s, map[string][]string{
		"init_root":     {"window := gtk.NewWindow()", "return window"},
		"rename_root":   {"window := root"},
		"struct_fields": {"window *gtk.Window", "child *gtk.Box", "dialog *adw.Dialog"},
		"init":          {"child := gtk.NewBox()", "dialog := adw.NewDialog()"},
		"assign": {
			`window.SetTitle("Main")`,
			"window.SetChild(child)",
			`child.SetLabel("a")`,
			`child.SetTooltip("t")`,
			`dialog.SetTitle("Dialog")`,
			`window.SetSubtitle("Sub")`,
		},
		"connect": {
			"child.ConnectOpen(func() *adw.Dialog {\n\tc.Opened()\n\treturn dialog\n})",
			"dialog.ConnectResponse(func(id int) {\n\tc.Respond(id)\n})",
		},
		"return_fields":      {"window", "child", "dialog"},
		"destructure_fields": {"window", "child", "dialog"},
		"update_view":        {"window.SetSubtitle(model.Subtitle)"},
	})
}

// allNodes returns the name and type of every node in v, in any order.
func allNodes(v *View) map[string]string {
	nodes := make(map[string]string)
	var walk func(w *Widget)
	walk = func(w *Widget) {
		nodes[w.Name] = w.Type
		for _, p := range w.Properties {
			if wv, ok := p.Kind.(WidgetValue); ok {
				walk(wv.Widget)
			}
		}
		if r := w.Returned; r != nil {
			nodes[r.Name] = r.Type
			for _, p := range r.Properties {
				if wv, ok := p.Kind.(WidgetValue); ok {
					walk(wv.Widget)
				}
			}
		}
	}
	for i := range v.Widgets {
		walk(&v.Widgets[i].Widget)
	}
	return nodes
}

func bigView() *View {
	v := dialogView()
	// A second, non-root top-level widget with its own returned widget, and a
	// widget nested inside the returned dialog.
	dialog := v.Widgets[0].Widget.Properties[1].Kind.(WidgetValue).Widget.Returned
	dialog.Properties = append(dialog.Properties, Property{
		Name: "extra_child",
		Kind: WidgetValue{Widget: &Widget{Name: "extra", Type: "*gtk.Label", Constructor: `gtk.NewLabel("x")`}},
	})
	v.Widgets = append(v.Widgets, TopLevelWidget{Widget: Widget{
		Name: "popover",
		Type: "*gtk.Popover",
		Properties: []Property{
			{Name: "show", Kind: Signal{ReturnsWidget: true, Handler: &Field{Name: "showHandler", Type: "uint64"}}},
		},
		Returned: &ReturnedWidget{Name: "menu", Type: "*gtk.Menu"},
	}})
	return v
}

func TestEveryNodeRegisteredExactlyOnce(t *testing.T) {
	v := bigView()
	s := GenerateStreams(v, Options{})
	nodes := allNodes(v)
	if len(nodes) != 6 {
		t.Fatalf("Expected 6 nodes in the test view, got %d", len(nodes))
	}

	count := func(frags []string, want string) int {
		n := 0
		for _, f := range frags {
			if f == want {
				n++
			}
		}
		return n
	}

	for name, typ := range nodes {
		if got := count(s.StructFields.Fragments(), name+" "+typ); got != 1 {
			t.Errorf("struct_fields has %d entries for %s, want 1", got, name)
		}
		if got := count(s.ReturnFields.Fragments(), name); got != 1 {
			t.Errorf("return_fields has %d entries for %s, want 1", got, name)
		}
		if got := count(s.DestructureFields.Fragments(), name); got != 1 {
			t.Errorf("destructure_fields has %d entries for %s, want 1", got, name)
		}

		prefix := name + " := "
		inRoot, inInit := 0, 0
		for _, f := range s.InitRoot.Fragments() {
			if strings.HasPrefix(f, prefix) {
				inRoot++
			}
		}
		for _, f := range s.Init.Fragments() {
			if strings.HasPrefix(f, prefix) {
				inInit++
			}
		}
		wantRoot := 0
		if name == "window" {
			wantRoot = 1
		}
		if inRoot != wantRoot || inRoot+inInit != 1 {
			t.Errorf("%s constructed %d times in init_root and %d in init, want exactly once in %s",
				name, inRoot, inInit, map[int]string{0: "init", 1: "init_root"}[wantRoot])
		}
	}

	// The handler field is bookkeeping of the signal, not of a node.
	if got := count(s.ReturnFields.Fragments(), "showHandler"); got != 1 {
		t.Errorf("return_fields has %d entries for showHandler, want 1", got)
	}
}

func TestParentPrecedesNestedChildren(t *testing.T) {
	s := GenerateStreams(bigView(), Options{})
	fields := s.ReturnFields.Fragments()
	index := make(map[string]int)
	for i, f := range fields {
		index[f] = i
	}
	for _, pair := range [][2]string{{"window", "child"}, {"child", "dialog"}, {"dialog", "extra"}, {"popover", "menu"}} {
		if index[pair[0]] >= index[pair[1]] {
			t.Errorf("%s registered after %s: %v", pair[0], pair[1], fields)
		}
	}
}

func TestExplicitConstructor(t *testing.T) {
	v := &View{Widgets: []TopLevelWidget{{
		Root:   true,
		Widget: Widget{Name: "win", Type: "*ui.Window", Constructor: `ui.NewWindowWithTitle("x")`},
	}}}
	s := GenerateStreams(v, Options{})
	if diff := cmp.Diff([]string{`win := ui.NewWindowWithTitle("x")`, "return win"}, s.InitRoot.Fragments()); diff != "" {
		t.Errorf("init_root mismatch (-want +got):\n%s", diff)
	}
}

func TestStandaloneBuildsRootInInit(t *testing.T) {
	s := GenerateStreams(windowView(), Options{Standalone: true})
	if s.InitRoot.Len() != 0 || s.RenameRoot.Len() != 0 {
		t.Errorf("Expected no init_root or rename_root in standalone mode, got %q and %q",
			s.InitRoot.Fragments(), s.RenameRoot.Fragments())
	}
	want := []string{"window := gtk.NewWindow()", `title := "Hi"`}
	if diff := cmp.Diff(want, s.Init.Fragments()); diff != "" {
		t.Errorf("init mismatch (-want +got):\n%s", diff)
	}
}

func TestNonRootTopLevelWidgetGoesToInit(t *testing.T) {
	v := windowView()
	v.Widgets[0].Root = false
	s := GenerateStreams(v, Options{})
	if s.InitRoot.Len() != 0 {
		t.Errorf("Expected empty init_root, got %q", s.InitRoot.Fragments())
	}
	if got := s.Init.Fragments()[0]; got != "window := gtk.NewWindow()" {
		t.Errorf("Expected window construction first in init, got %q", got)
	}
}

func TestStreamsReturnCopies(t *testing.T) {
	s := GenerateStreams(windowView(), Options{})
	frags := s.StructFields.Fragments()
	frags[0] = "mutated"
	if got := s.StructFields.Fragments()[0]; got != "window *gtk.Window" {
		t.Errorf("Fragments exposed internal storage: got %q after mutation", got)
	}
	if got := s.InitRoot.String(); got != "window := gtk.NewWindow()\nreturn window" {
		t.Errorf("String() = %q", got)
	}
}
