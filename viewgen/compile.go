// Package viewgen drives view compilation for a whole module: it discovers
// view files, validates and generates each one, and writes the generated Go
// files next to them.
package viewgen

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vcrobe/nojs-viewgen/compiler"
	"github.com/vcrobe/nojs-viewgen/internal/cache"
	"github.com/vcrobe/nojs-viewgen/viewfile"
)

// generatorVersion is part of every cache digest. Bump it whenever the
// generated code changes, so existing outputs are regenerated.
const generatorVersion = "nojs-viewgen/2"

// DigestCache remembers which inputs were already compiled.
type DigestCache interface {
	Fresh(key string, digest []byte) (bool, error)
	Store(key string, digest []byte) error
	Forget(key string) error
}

// CompileOptions holds compiler-wide options passed from CLI flags and the
// project configuration.
type CompileOptions struct {
	ModulePath   string      // Module path, used to key cache entries independently of the checkout location
	ModuleRoot   string      // Module root directory; cache keys are relative to it. Defaults to srcDir
	Standalone   bool        // Generate standalone views (no InitRoot)
	OutputSuffix string      // Suffix replacing the view extension; defaults to ".generated.go"
	Cache        DigestCache // Optional; nil compiles every view
	Refresh      bool        // Forget cached digests and regenerate every view
	Dump         io.Writer   // When set, streams are printed here and no files are written
	Diagnostics  io.Writer   // Where diagnostics are shown; defaults to os.Stderr
	Color        bool        // Colour diagnostics
	Logger       *log.Logger // Progress messages; nil discards them
}

var discardLogger = log.New(io.Discard, "", 0)

func (o CompileOptions) logger() *log.Logger {
	if o.Logger == nil {
		return discardLogger
	}
	return o.Logger
}

func (o CompileOptions) diagnostics() io.Writer {
	if o.Diagnostics == nil {
		return os.Stderr
	}
	return o.Diagnostics
}

// ErrViewsFailed is returned by Compile when at least one view failed. The
// individual diagnostics have already been shown.
var ErrViewsFailed = errors.New("some views failed to compile")

// Compile discovers every view file under srcDir and compiles it. A failing
// view does not stop the others; their diagnostics are all shown before
// Compile returns ErrViewsFailed.
func Compile(srcDir string, opts CompileOptions) error {
	absSrcDir, err := filepath.Abs(srcDir)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path for srcDir: %w", err)
	}
	if opts.OutputSuffix == "" {
		opts.OutputSuffix = ".generated.go"
	}

	views, err := discoverViews(absSrcDir, opts)
	if err != nil {
		return fmt.Errorf("failed to discover views: %w", err)
	}
	opts.logger().Printf("Discovered %d view files.", len(views))

	keyRoot := absSrcDir
	if opts.ModuleRoot != "" {
		if keyRoot, err = filepath.Abs(opts.ModuleRoot); err != nil {
			return fmt.Errorf("failed to resolve absolute path for module root: %w", err)
		}
	}

	failed := 0
	for _, view := range views {
		if !compileView(view, keyRoot, opts) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrViewsFailed, failed, len(views))
	}
	return nil
}

// compileView compiles one view file, showing its diagnostics. It reports
// whether the view compiled cleanly.
func compileView(view viewInfo, rootDir string, opts CompileOptions) bool {
	logger := opts.logger()
	show := func(err error, src []byte) {
		fmt.Fprint(opts.diagnostics(), compiler.ShowDiagnostic(err, src, opts.Color))
	}

	rel, err := filepath.Rel(rootDir, view.Path)
	if err != nil {
		rel = view.Path
	}

	// Step 1: Parse.
	v, src, err := viewfile.Load(view.Path)
	if err != nil {
		show(err, src)
		return false
	}

	// Step 2: Validate the whole tree before generating anything.
	if errs := compiler.Validate(v); len(errs) > 0 {
		for _, err := range errs {
			show(err, src)
		}
		return false
	}

	// The generated methods attach to the component type, which the package
	// itself has to declare.
	if types, err := declaredTypes(view.GoFiles, opts.OutputSuffix); err != nil {
		logger.Printf("Warning: could not inspect package %s: %v", view.ImportPath, err)
	} else if !types[v.Component] {
		logger.Printf("Warning: %s: type %s is not declared in package %s", rel, v.Component, view.PackageName)
	}

	outPath := viewfile.TrimExtension(view.Path) + opts.OutputSuffix
	key := opts.ModulePath + ":" + filepath.ToSlash(rel)
	digest := cache.Digest(
		[]byte(generatorVersion),
		src,
		[]byte(view.PackageName),
		[]byte(strconv.FormatBool(opts.Standalone)),
		[]byte(opts.OutputSuffix),
	)

	// Step 3: Skip views whose input and output are unchanged.
	if opts.Cache != nil && opts.Dump == nil && opts.Refresh {
		if err := opts.Cache.Forget(key); err != nil {
			logger.Printf("Warning: could not drop cache entry for %s: %v", rel, err)
		}
	} else if opts.Cache != nil && opts.Dump == nil {
		fresh, err := opts.Cache.Fresh(key, digest)
		if err != nil {
			logger.Printf("Warning: cache lookup for %s failed: %v", rel, err)
		} else if _, statErr := os.Stat(outPath); fresh && statErr == nil {
			logger.Printf("%s is up to date.", rel)
			return true
		}
	}

	// Step 4: Generate. A root error is kept next to the streams.
	res := compiler.Generate(v, compiler.Options{Standalone: opts.Standalone, Logger: logger})
	if opts.Dump != nil {
		dumpResult(opts.Dump, rel, v, res)
		if res.RootErr != nil {
			show(res.RootErr, src)
			return false
		}
		return true
	}

	// Step 5: Assemble and write.
	out, err := compiler.Assemble(res, v, compiler.AssembleOptions{
		Package:    view.PackageName,
		Filename:   outPath,
		Source:     filepath.Base(view.Path),
		Standalone: opts.Standalone,
	})
	if err != nil {
		show(err, src)
		return false
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		show(fmt.Errorf("failed to write %s: %w", outPath, err), nil)
		return false
	}
	logger.Printf("Compiled %s (%s.%s) to %s.", rel, view.ImportPath, v.Component, filepath.Base(outPath))

	if opts.Cache != nil {
		if err := opts.Cache.Store(key, digest); err != nil {
			logger.Printf("Warning: could not cache %s: %v", rel, err)
		}
	}
	return true
}

// dumpResult prints every stream of res, then the root type or its error.
func dumpResult(w io.Writer, name string, v *compiler.View, res *compiler.Result) {
	fmt.Fprintf(w, "== %s (%s)\n", name, v.Component)
	for _, ns := range res.Streams.Named() {
		fmt.Fprintf(w, "-- %s\n", ns.Name)
		for _, frag := range ns.Stream.Fragments() {
			fmt.Fprintln(w, frag)
		}
	}
	switch {
	case res.RootErr != nil:
		fmt.Fprintf(w, "-- root_type\nerror: %v\n", res.RootErr)
	case res.RootType != "":
		fmt.Fprintf(w, "-- root_type\n%s\n", res.RootType)
	}
}
