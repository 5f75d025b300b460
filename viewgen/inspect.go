package viewgen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// declaredTypes parses the package's Go files and returns the names of the
// types declared at package level. Generated files are skipped, since they
// are about to be rewritten.
func declaredTypes(goFiles []string, outputSuffix string) (map[string]bool, error) {
	types := make(map[string]bool)
	fset := token.NewFileSet()
	for _, path := range goFiles {
		if strings.HasSuffix(path, outputSuffix) {
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, err
		}
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				if typeSpec, ok := spec.(*ast.TypeSpec); ok {
					types[typeSpec.Name.Name] = true
				}
			}
		}
	}
	return types, nil
}

// packageName returns the package clause of the first hand-written Go file
// of the package in dir. A stale generated file may still carry an old
// clause; the loader then reports whichever name it saw first and may list
// the hand-written files as invalid, so the directory is scanned as well.
func packageName(loaded, dir string, goFiles []string, outputSuffix string) string {
	candidates := append([]string(nil), goFiles...)
	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			name := e.Name()
			if !e.IsDir() && strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go") {
				candidates = append(candidates, filepath.Join(dir, name))
			}
		}
	}

	fset := token.NewFileSet()
	for _, path := range candidates {
		if strings.HasSuffix(path, outputSuffix) {
			continue
		}
		file, err := parser.ParseFile(fset, path, nil, parser.PackageClauseOnly)
		if err == nil {
			return file.Name.Name
		}
	}
	return loaded
}
