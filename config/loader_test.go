/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"slices"
	"testing"

	"bennypowers.dev/netpat/pattern"
	"bennypowers.dev/netpat/testutil"
)

func TestLoad_SimpleYAML(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/simple", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if cfg.MaxAtoms != 500 {
		t.Errorf("expected maxAtoms 500, got %d", cfg.MaxAtoms)
	}

	if !cfg.Strict {
		t.Error("expected strict to be set")
	}

	if len(cfg.Files) != 1 || cfg.Files[0].Path != "./top.yaml" {
		t.Fatalf("expected file './top.yaml', got %v", cfg.Files)
	}

	if got := cfg.Patterns["BIT"]; got.Expr != "<3:0>" || got.Tag != "" {
		t.Errorf("expected BIT from string form, got %+v", got)
	}

	if got := cfg.Patterns["LANE"]; got.Expr != "<P|N>" || got.Tag != "diff" {
		t.Errorf("expected LANE from object form, got %+v", got)
	}
}

func TestLoad_JSONC(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/jsonc", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if !cfg.FoldCase {
		t.Error("expected foldCase to be set")
	}

	if cfg.MaxAtoms != pattern.DefaultMaxAtoms {
		t.Errorf("expected default maxAtoms, got %d", cfg.MaxAtoms)
	}

	if len(cfg.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(cfg.Files))
	}

	if cfg.Files[0].Path != "designs/*.json" {
		t.Errorf("expected path 'designs/*.json', got %q", cfg.Files[0].Path)
	}
	if cfg.Files[1].Path != "designs/huge.json" || cfg.Files[1].MaxAtoms != 100000 {
		t.Errorf("expected huge.json override, got %+v", cfg.Files[1])
	}

	if cfg.Patterns["WORD"].Expr != "<15:0>" || cfg.Patterns["SIDE"].Expr != "<L|R>" {
		t.Errorf("unexpected patterns %+v", cfg.Patterns)
	}
}

func TestLoad_Invalid(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/invalid", "/project")

	cfg, err := Load(mfs, "/project")
	if err == nil {
		t.Fatalf("expected error, got %+v", cfg)
	}
}

func TestLoad_NotFound(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/none", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg != nil {
		t.Errorf("expected nil config when not found, got %+v", cfg)
	}
}

func TestLoadOrDefault(t *testing.T) {
	tests := []struct {
		name     string
		fixture  string
		maxAtoms int
	}{
		{"found", "fixtures/config/simple", 500},
		{"not found", "fixtures/config/none", pattern.DefaultMaxAtoms},
		{"invalid", "fixtures/config/invalid", pattern.DefaultMaxAtoms},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := testutil.NewFixtureFS(t, tt.fixture, "/project")

			cfg := LoadOrDefault(mfs, "/project")
			if cfg == nil {
				t.Fatal("expected config, got nil")
			}
			if cfg.MaxAtoms != tt.maxAtoms {
				t.Errorf("expected maxAtoms %d, got %d", tt.maxAtoms, cfg.MaxAtoms)
			}
		})
	}
}

func TestConfig_ExpandFiles(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/globs", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	files, err := cfg.ExpandFiles(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"/project/designs/alu/add.yaml",
		"/project/designs/alu/sub.yaml",
		"/project/designs/regs/regfile.yaml",
	}
	if !slices.Equal(files, expected) {
		t.Errorf("expected %v, got %v", expected, files)
	}
}

func TestConfig_ExpandFiles_Literal(t *testing.T) {
	cfg := &Config{Files: []FileSpec{{Path: "missing.yaml"}, {Path: "/abs/top.yaml"}}}

	files, err := cfg.ExpandFiles(testutil.NewFixtureFS(t, "fixtures/config/none", "/project"), "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"/project/missing.yaml", "/abs/top.yaml"}
	if !slices.Equal(files, expected) {
		t.Errorf("expected %v, got %v", expected, files)
	}
}

func TestConfig_OptionsForFile(t *testing.T) {
	cfg := &Config{
		MaxAtoms: 1000,
		FoldCase: true,
		Files: []FileSpec{
			{Path: "designs/alu/*.yaml", MaxAtoms: 64},
			{Path: "designs/**/*.yaml"},
			{Path: "/abs/huge.yaml", MaxAtoms: 100000},
		},
		Patterns: map[string]PatternSpec{
			"LANE": {Expr: "<P|N>", Tag: "diff"},
			"BIT":  {Expr: "<3:0>"},
		},
	}

	tests := []struct {
		name     string
		path     string
		maxAtoms int
	}{
		{"glob override", "/project/designs/alu/add.yaml", 64},
		{"relative path", "designs/alu/sub.yaml", 64},
		{"first match wins", "/project/designs/regs/regfile.yaml", 1000},
		{"absolute spec", "/abs/huge.yaml", 100000},
		{"no match", "/elsewhere/top.yaml", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := cfg.OptionsForFile("/project", tt.path)
			if opts.MaxAtoms != tt.maxAtoms {
				t.Errorf("expected maxAtoms %d, got %d", tt.maxAtoms, opts.MaxAtoms)
			}
			if !opts.FoldCase {
				t.Error("expected foldCase to carry over")
			}
			if len(opts.Patterns) != 2 || opts.Patterns[0].Name != "BIT" || opts.Patterns[1].Tag != "diff" {
				t.Errorf("expected sorted pattern definitions, got %+v", opts.Patterns)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *Default(), false},
		{"negative cap", Config{MaxAtoms: -1}, true},
		{"empty path", Config{Files: []FileSpec{{MaxAtoms: 3}}}, true},
		{"negative file cap", Config{Files: []FileSpec{{Path: "a.yaml", MaxAtoms: -3}}}, true},
		{"bad glob", Config{Files: []FileSpec{{Path: "designs/[a.yaml"}}}, true},
		{"empty pattern", Config{Patterns: map[string]PatternSpec{"BIT": {Tag: "x"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_FilePaths(t *testing.T) {
	cfg := &Config{
		Files: []FileSpec{
			{Path: "./top.yaml"},
			{Path: "./designs/**/*.yaml", MaxAtoms: 5},
		},
	}

	paths := cfg.FilePaths()
	expected := []string{"./top.yaml", "./designs/**/*.yaml"}
	if !slices.Equal(paths, expected) {
		t.Errorf("expected %v, got %v", expected, paths)
	}
}
