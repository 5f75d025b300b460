package compiler

import (
	"errors"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"
	"testing"
)

func assemble(t *testing.T, v *View, standalone bool) string {
	t.Helper()
	res := Generate(v, Options{Standalone: standalone})
	out, err := Assemble(res, v, AssembleOptions{
		Package:    "ui",
		Filename:   filepath.Join(t.TempDir(), "app.generated.go"),
		Source:     "app.view.yaml",
		Standalone: standalone,
	})
	if err != nil {
		t.Fatalf("Assemble failed: %v\n%s", err, out)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "app.generated.go", out, parser.AllErrors); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, out)
	}
	return string(out)
}

func checkContains(t *testing.T, code string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(code, part) {
			t.Errorf("generated code is missing %q:\n%s", part, code)
		}
	}
}

func TestAssembleComponent(t *testing.T) {
	v := windowView()
	v.Imports = []string{"example.com/gtk"}
	code := assemble(t, v, false)

	checkContains(t, code,
		"// Code generated by nojs-viewgen from app.view.yaml. DO NOT EDIT.",
		"package ui",
		`"example.com/gtk"`,
		"type AppWidgets struct {\n\twindow *gtk.Window\n}",
		"func (c *App) InitRoot() *gtk.Window {\n\twindow := gtk.NewWindow()\n\treturn window\n}",
		"func (c *App) InitWidgets(model *AppModel, root *gtk.Window) *AppWidgets {\n\twindow := root\n\ttitle := \"Hi\"\n\twindow.SetTitle(title)\n",
		"\twindow.ConnectCloseRequest(func() {\n\t\tc.Quit()\n\t})\n",
		"\treturn &AppWidgets{\n\t\twindow: window,\n\t}\n}",
		"func (c *App) UpdateView(widgets *AppWidgets, model *AppModel) {\n\twindow := widgets.window\n\t_ = window\n}",
	)
}

func TestAssembleNestedWidgetsAndUpdates(t *testing.T) {
	v := dialogView()
	v.Model = "AppState"
	v.Imports = []string{"example.com/adw", "example.com/gtk"}
	code := assemble(t, v, false)

	checkContains(t, code,
		"func (c *App) InitWidgets(model AppState, root *gtk.Window) *AppWidgets {",
		"\tchild := gtk.NewBox()\n\tdialog := adw.NewDialog()\n",
		"\tchild.ConnectOpen(func() *adw.Dialog {\n\t\tc.Opened()\n\t\treturn dialog\n\t})\n",
		"\twindow, child, dialog := widgets.window, widgets.child, widgets.dialog\n",
		"\t_, _, _ = window, child, dialog\n",
		"\twindow.SetSubtitle(model.Subtitle)\n}",
	)
	// Construction happens before any assignment, and assignment before connection.
	init := strings.Index(code, "dialog := adw.NewDialog()")
	assign := strings.Index(code, `window.SetTitle("Main")`)
	connect := strings.Index(code, "child.ConnectOpen(")
	if !(init < assign && assign < connect) {
		t.Errorf("unexpected statement order (init %d, assign %d, connect %d):\n%s", init, assign, connect, code)
	}
}

func TestAssembleStandalone(t *testing.T) {
	v := windowView()
	v.Widgets[0].Root = false
	v.Imports = []string{"example.com/gtk"}
	code := assemble(t, v, true)

	if strings.Contains(code, "InitRoot") {
		t.Errorf("standalone view must not have InitRoot:\n%s", code)
	}
	checkContains(t, code,
		"func (c *App) InitWidgets(model *AppModel) *AppWidgets {\n\twindow := gtk.NewWindow()\n",
	)
}

func TestAssembleRefusesMissingRoot(t *testing.T) {
	v := windowView()
	v.Widgets[0].Root = false
	res := Generate(v, Options{})
	_, err := Assemble(res, v, AssembleOptions{Package: "ui", Filename: "app.generated.go"})
	var missing *MissingRootError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected *MissingRootError, got %v", err)
	}
}
