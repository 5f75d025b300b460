package viewgen

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vcrobe/nojs-viewgen/viewfile"
	"golang.org/x/tools/go/packages"
)

// viewInfo holds what is known about a discovered view file.
type viewInfo struct {
	Path        string // Absolute path of the view file
	PackageName string // Package the generated file belongs to
	ImportPath  string // Full import path of that package
	GoFiles     []string
}

// discoverViews finds the view files that sit next to the Go files of the
// packages under rootDir.
func discoverViews(rootDir string, opts CompileOptions) ([]viewInfo, error) {
	var views []viewInfo

	// Step 1: Load all packages in the module.
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  rootDir,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Step 2: Scan each package's directory for view files.
	seen := make(map[string]bool)
	for _, pkg := range pkgs {
		if len(pkg.GoFiles) == 0 {
			continue // Nothing to attach generated code to.
		}

		// All files in a package share the same directory.
		packageDir := filepath.Dir(pkg.GoFiles[0])
		if seen[packageDir] {
			continue // Test variants of the same package.
		}
		seen[packageDir] = true

		files, err := os.ReadDir(packageDir)
		if err != nil {
			opts.logger().Printf("Warning: could not read directory %s: %v", packageDir, err)
			continue
		}
		for _, file := range files {
			if file.IsDir() || !viewfile.IsViewFile(file.Name()) {
				continue
			}
			views = append(views, viewInfo{
				Path:        filepath.Join(packageDir, file.Name()),
				PackageName: packageName(pkg.Name, packageDir, pkg.GoFiles, opts.OutputSuffix),
				ImportPath:  pkg.PkgPath,
				GoFiles:     pkg.GoFiles,
			})
		}
	}

	sort.Slice(views, func(i, j int) bool { return views[i].Path < views[j].Path })

	if len(views) == 0 {
		opts.logger().Printf("Warning: no view files (%v) were found in any Go package under %s", viewfile.Extensions, rootDir)
	}
	return views, nil
}
