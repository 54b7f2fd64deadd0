/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides configuration loading for netpat.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/netpat/elaborate"
	"bennypowers.dev/netpat/pattern"
	"bennypowers.dev/netpat/resolver"
)

// Config represents the netpat configuration.
type Config struct {
	// MaxAtoms caps the atoms produced by a single expansion.
	MaxAtoms int `yaml:"maxAtoms" json:"maxAtoms"`

	// Strict makes warnings fail the check command.
	Strict bool `yaml:"strict" json:"strict"`

	// FoldCase compares names case-insensitively when checking collisions.
	FoldCase bool `yaml:"foldCase" json:"foldCase"`

	// Files specifies design files to check (paths or globs).
	Files []FileSpec `yaml:"files" json:"files"`

	// Patterns are named patterns visible to every design file.
	Patterns map[string]PatternSpec `yaml:"patterns" json:"patterns"`
}

// FileSpec represents a design file specification.
// It can be specified as a simple string path or as an object with overrides.
type FileSpec struct {
	// Path is the file path (supports globs).
	Path string `yaml:"path" json:"path"`

	// MaxAtoms overrides the global atom cap for matching files.
	MaxAtoms int `yaml:"maxAtoms" json:"maxAtoms"`
}

// UnmarshalYAML handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Path = node.Value
		return nil
	}

	type rawFileSpec FileSpec
	return node.Decode((*rawFileSpec)(f))
}

// UnmarshalJSON handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Path = s
		return nil
	}

	type rawFileSpec FileSpec
	return json.Unmarshal(data, (*rawFileSpec)(f))
}

// PatternSpec is a named pattern declared in config.
// It can be specified as the bare expression or as an object with a tag.
type PatternSpec struct {
	Expr string `yaml:"expr" json:"expr"`
	// Tag names an axis shared with other patterns carrying the same tag.
	Tag string `yaml:"tag" json:"tag"`
}

// UnmarshalYAML handles both string and object forms for PatternSpec.
func (p *PatternSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Expr = node.Value
		return nil
	}

	type rawPatternSpec PatternSpec
	return node.Decode((*rawPatternSpec)(p))
}

// UnmarshalJSON handles both string and object forms for PatternSpec.
func (p *PatternSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		p.Expr = s
		return nil
	}

	type rawPatternSpec PatternSpec
	return json.Unmarshal(data, (*rawPatternSpec)(p))
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		MaxAtoms: pattern.DefaultMaxAtoms,
	}
}

// Validate reports settings no command could honour.
func (c *Config) Validate() error {
	if c.MaxAtoms < 0 {
		return fmt.Errorf("maxAtoms must not be negative, got %d", c.MaxAtoms)
	}
	for _, spec := range c.Files {
		if spec.Path == "" {
			return fmt.Errorf("file entry has no path")
		}
		if spec.MaxAtoms < 0 {
			return fmt.Errorf("maxAtoms for %s must not be negative, got %d", spec.Path, spec.MaxAtoms)
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(spec.Path)) {
			return fmt.Errorf("invalid file pattern %q", spec.Path)
		}
	}
	for name, p := range c.Patterns {
		if p.Expr == "" {
			return fmt.Errorf("pattern %s has no expression", name)
		}
	}
	return nil
}

// Definitions returns the configured named patterns sorted by name.
func (c *Config) Definitions() []resolver.Definition {
	names := make([]string, 0, len(c.Patterns))
	for name := range c.Patterns {
		names = append(names, name)
	}
	slices.Sort(names)

	defs := make([]resolver.Definition, 0, len(names))
	for _, name := range names {
		p := c.Patterns[name]
		defs = append(defs, resolver.Definition{Name: name, Expr: p.Expr, Tag: p.Tag})
	}
	return defs
}

// OptionsForFile returns elaborate.Options with configuration applied.
// The first file spec whose path or glob matches path overrides the
// global atom cap. Relative specs are resolved against rootDir.
func (c *Config) OptionsForFile(rootDir, path string) elaborate.Options {
	opts := elaborate.Options{
		MaxAtoms: c.MaxAtoms,
		FoldCase: c.FoldCase,
		Patterns: c.Definitions(),
	}

	target := filepath.ToSlash(absolute(rootDir, path))
	for _, spec := range c.Files {
		glob := filepath.ToSlash(absolute(rootDir, spec.Path))
		if glob != target && !matchDoublestar(glob, target) {
			continue
		}
		if spec.MaxAtoms > 0 {
			opts.MaxAtoms = spec.MaxAtoms
		}
		break
	}

	return opts
}

// FilePaths returns the list of file paths from all FileSpecs.
func (c *Config) FilePaths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, spec := range c.Files {
		paths = append(paths, spec.Path)
	}
	return paths
}

func absolute(rootDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(rootDir, path)
}
