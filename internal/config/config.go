// Package config loads the optional nojs-view.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the optional configuration file at the module root.
const FileName = "nojs-view.yaml"

// Config represents the optional nojs-view.yaml configuration.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Output    OutputConfig    `yaml:"output"`
	Cache     CacheConfig     `yaml:"cache"`
}

// GeneratorConfig contains code generation settings.
type GeneratorConfig struct {
	Standalone bool `yaml:"standalone,omitempty"`
}

// OutputConfig contains settings for the generated files.
type OutputConfig struct {
	Suffix string `yaml:"suffix,omitempty"`
}

// CacheConfig contains build cache settings.
type CacheConfig struct {
	Disabled bool   `yaml:"disabled,omitempty"`
	Path     string `yaml:"path,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root          string
	ModulePath    string
	Standalone    bool
	OutputSuffix  string
	CacheDisabled bool
	CachePath     string
}

// LoadOptional reads nojs-view.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads nojs-view.yaml (if present) from the module root dir and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	suffix := strings.TrimSpace(cfg.Output.Suffix)
	if suffix == "" {
		suffix = ".generated.go"
	}
	if !strings.HasSuffix(suffix, ".go") {
		return nil, fmt.Errorf("output.suffix must end in .go (got %q)", suffix)
	}

	cachePath := strings.TrimSpace(cfg.Cache.Path)
	if cachePath == "" {
		cachePath = ".nojs-view.cache"
	}
	if !filepath.IsAbs(cachePath) {
		cachePath = filepath.Join(dir, cachePath)
	}

	return &Resolved{
		Root:          dir,
		ModulePath:    modulePath,
		Standalone:    cfg.Generator.Standalone,
		OutputSuffix:  suffix,
		CacheDisabled: cfg.Cache.Disabled,
		CachePath:     cachePath,
	}, nil
}

// FindProjectRoot walks up from start to find go.mod.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found above %s)", start)
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}
