package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"
)

// AssembleOptions describes the file the streams are assembled into.
type AssembleOptions struct {
	Package    string // Package clause of the generated file
	Filename   string // Path of the generated file, used to resolve imports
	Source     string // Provenance shown in the generated header (e.g., the view file)
	Standalone bool   // Build the root in InitWidgets instead of InitRoot
}

// Assemble arranges the nine streams of res into a complete Go file for the
// view's component: a <Component>Widgets struct plus InitRoot, InitWidgets
// and UpdateView methods. A root resolution error in res is returned as is,
// since the file cannot be built without the root type.
func Assemble(res *Result, v *View, opts AssembleOptions) ([]byte, error) {
	if res.RootErr != nil && !opts.Standalone {
		return nil, res.RootErr
	}
	s := res.Streams

	model := v.Model
	if model == "" {
		model = "*" + v.Component + "Model"
	}
	widgetsType := v.Component + "Widgets"

	var code strings.Builder
	code.WriteString(fmt.Sprintf("// Code generated by nojs-viewgen from %s. DO NOT EDIT.\n\n", opts.Source))
	code.WriteString(fmt.Sprintf("package %s\n\n", opts.Package))

	if len(v.Imports) > 0 {
		code.WriteString("import (\n")
		for _, imp := range v.Imports {
			code.WriteString("\t" + strconv.Quote(imp) + "\n")
		}
		code.WriteString(")\n\n")
	}

	// 1. The persistent widgets struct.
	code.WriteString(fmt.Sprintf("// %s holds the widgets of %s that outlive initialization.\n", widgetsType, v.Component))
	code.WriteString(fmt.Sprintf("type %s struct {\n", widgetsType))
	writeFragments(&code, &s.StructFields)
	code.WriteString("}\n\n")

	// 2. Root construction, unless the view is standalone.
	if !opts.Standalone {
		code.WriteString(fmt.Sprintf("// InitRoot constructs the root widget of %s.\n", v.Component))
		code.WriteString(fmt.Sprintf("func (c *%s) InitRoot() %s {\n", v.Component, res.RootType))
		writeFragments(&code, &s.InitRoot)
		code.WriteString("}\n\n")
	}

	// 3. Initialization: construct, assign, connect, then hand the handles back.
	code.WriteString(fmt.Sprintf("// InitWidgets builds the widgets of %s and wires their signals.\n", v.Component))
	if opts.Standalone {
		code.WriteString(fmt.Sprintf("func (c *%s) InitWidgets(model %s) *%s {\n", v.Component, model, widgetsType))
	} else {
		code.WriteString(fmt.Sprintf("func (c *%s) InitWidgets(model %s, root %s) *%s {\n", v.Component, model, res.RootType, widgetsType))
	}
	for _, stream := range []*Stream{&s.RenameRoot, &s.Init, &s.Assign, &s.Connect} {
		writeFragments(&code, stream)
	}
	code.WriteString(fmt.Sprintf("\treturn &%s{\n", widgetsType))
	for _, name := range s.ReturnFields.frags {
		code.WriteString(fmt.Sprintf("\t\t%s: %s,\n", name, name))
	}
	code.WriteString("\t}\n}\n\n")

	// 4. View updates over the destructured handles.
	code.WriteString(fmt.Sprintf("// UpdateView applies the watched properties of model to the widgets of %s.\n", v.Component))
	code.WriteString(fmt.Sprintf("func (c *%s) UpdateView(widgets *%s, model %s) {\n", v.Component, widgetsType, model))
	if names := s.DestructureFields.frags; len(names) > 0 {
		fields := make([]string, len(names))
		blanks := make([]string, len(names))
		for i, name := range names {
			fields[i] = "widgets." + name
			blanks[i] = "_"
		}
		code.WriteString(fmt.Sprintf("\t%s := %s\n", strings.Join(names, ", "), strings.Join(fields, ", ")))
		code.WriteString(fmt.Sprintf("\t%s = %s\n", strings.Join(blanks, ", "), strings.Join(names, ", ")))
	}
	writeFragments(&code, &s.UpdateView)
	code.WriteString("}\n")

	src := []byte(code.String())
	formatted, err := imports.Process(opts.Filename, src, &imports.Options{Comments: true, TabIndent: true, TabWidth: 8})
	if err != nil {
		return src, fmt.Errorf("failed to format generated code for %s: %w", v.Component, err)
	}
	return formatted, nil
}

// writeFragments writes each fragment of s as indented statements.
func writeFragments(code *strings.Builder, s *Stream) {
	for _, frag := range s.frags {
		for _, line := range strings.Split(frag, "\n") {
			code.WriteString("\t" + line + "\n")
		}
	}
}
