package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/vcrobe/nojs-viewgen/internal/cache"
	"github.com/vcrobe/nojs-viewgen/internal/config"
	"github.com/vcrobe/nojs-viewgen/viewgen"
)

func main() {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, color))
}

// run is the whole CLI. Streams dumped with -dump are the only thing written
// to stdout in that mode; progress messages then go to stderr.
func run(args []string, stdout, stderr io.Writer, color bool) int {
	logger := log.New(stderr, "", 0)

	// --- CLI Flags ---
	fs := flag.NewFlagSet("nojs-viewgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	// The '-in' flag specifies the source directory to scan for view files.
	inDir := fs.String("in", ".", "The source directory to scan for *.view.{yaml,toml,html} files.")
	// The '-dump' flag prints the generated streams instead of writing files.
	dump := fs.Bool("dump", false, "Print the generated code streams of every view instead of writing files.")
	standalone := fs.Bool("standalone", false, "Generate standalone views without an InitRoot method.")
	noCache := fs.Bool("nocache", false, "Regenerate every view, dropping its build cache entry.")
	verbose := fs.Bool("v", false, "Log progress to stderr.")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	root, err := config.FindProjectRoot(*inDir)
	if err != nil {
		logger.Printf("Error: %v", err)
		return 1
	}
	cfg, err := config.Resolve(root)
	if err != nil {
		logger.Printf("Error: failed to load config: %v", err)
		return 1
	}

	opts := viewgen.CompileOptions{
		ModulePath:   cfg.ModulePath,
		ModuleRoot:   cfg.Root,
		Standalone:   cfg.Standalone || *standalone,
		OutputSuffix: cfg.OutputSuffix,
		Refresh:      *noCache,
		Diagnostics:  stderr,
		Color:        color,
	}
	if *verbose {
		opts.Logger = log.New(stderr, "nojs-viewgen: ", 0)
	}
	banner := stdout
	if *dump {
		opts.Dump = stdout
		banner = stderr
	}

	fmt.Fprintf(banner, "Starting compilation...\nModule: %s\nSource directory: %s\n", cfg.ModulePath, *inDir)
	if opts.Standalone {
		fmt.Fprintf(banner, "Standalone views: ENABLED\n")
	}
	if err := compile(*inDir, opts, cfg, logger); err != nil {
		logger.Printf("Compilation failed: %v", err)
		return 1
	}

	fmt.Fprintf(banner, "Compilation completed successfully!\n")
	return 0
}

// compile runs the compiler, with the build cache open for the duration
// unless the cache is disabled or nothing is written.
func compile(inDir string, opts viewgen.CompileOptions, cfg *config.Resolved, logger *log.Logger) error {
	if opts.Dump == nil && !cfg.CacheDisabled {
		c, err := cache.Open(cfg.CachePath)
		if err != nil {
			logger.Printf("Warning: %v; compiling without cache", err)
		} else {
			defer c.Close()
			opts.Cache = c
		}
	}
	return viewgen.Compile(inDir, opts)
}
