/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package design_test

import (
	"strings"
	"testing"

	"bennypowers.dev/netpat/design"
	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/testutil"
)

func TestLoader_YAML(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/design/basic", "/test")

	doc, err := design.NewLoader().LoadFile(mfs, "/test/design.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Patterns) != 2 {
		t.Fatalf("expected 2 patterns, got %d", len(doc.Patterns))
	}
	lane := doc.Patterns[1]
	if lane.Name != "LANE" || lane.Expr != "<P|N>" || lane.Tag != "diff" {
		t.Errorf("LANE = %+v", lane)
	}

	if len(doc.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(doc.Modules))
	}
	inv, ok := doc.Module("inv")
	if !ok {
		t.Fatal("module inv not found")
	}
	if len(inv.Instances) != 2 || inv.Instances[0].Name.Raw != "MN<P|N>" || inv.Instances[0].Ref != "nmos" {
		t.Errorf("instances = %+v", inv.Instances)
	}

	names := make([]string, len(inv.Nets))
	for i, n := range inv.Nets {
		names[i] = n.Name.Raw
	}
	if got, want := strings.Join(names, " "), "IN<@LANE> OUT<@LANE> VDD GND"; got != want {
		t.Errorf("nets = %q, want %q", got, want)
	}
	if !inv.Nets[0].Port || inv.Nets[2].Port {
		t.Error("expected only $-prefixed nets to be ports")
	}
	if len(inv.Nets[2].Endpoints) != 1 || inv.Nets[2].Endpoints[0].Raw != "MP<P|N>.S" {
		t.Errorf("VDD endpoints = %+v", inv.Nets[2].Endpoints)
	}

	if empty, _ := doc.Module("empty"); len(empty.Instances)+len(empty.Nets) != 0 {
		t.Errorf("empty module = %+v", empty)
	}
}

func TestLoader_Spans(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/design/basic", "/test")

	doc, err := design.NewLoader().LoadFile(mfs, "/test/design.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inv, _ := doc.Module("inv")

	tests := []struct {
		name     string
		span     *diag.Span
		expected diag.Span
	}{
		{"quoted pattern", doc.Patterns[0].Span, diag.Span{File: "/test/design.yaml", Line: 2, Col: 9, EndCol: 14}},
		{"instance key", inv.Instances[0].Name.Span, diag.Span{File: "/test/design.yaml", Line: 10, Col: 7, EndCol: 14}},
		{"port without prefix", inv.Nets[0].Name.Span, diag.Span{File: "/test/design.yaml", Line: 13, Col: 8, EndCol: 17}},
		{"endpoint item", inv.Nets[0].Endpoints[1].Span, diag.Span{File: "/test/design.yaml", Line: 15, Col: 11, EndCol: 22}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.span == nil {
				t.Fatal("span is nil")
			}
			if *tt.span != tt.expected {
				t.Errorf("span = %+v, want %+v", *tt.span, tt.expected)
			}
		})
	}
}

func TestLoader_JSONC(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/design/jsonc", "/test")

	doc, err := design.NewLoader().LoadFile(mfs, "/test/design.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reg, ok := doc.Module("reg")
	if !ok {
		t.Fatal("module reg not found")
	}
	if len(reg.Nets) != 2 || reg.Nets[0].Name.Raw != "D<@BIT>" || !reg.Nets[0].Port {
		t.Errorf("nets = %+v", reg.Nets)
	}
	// the comment line is blanked, not removed
	if span := reg.Instances[0].Name.Span; span.Line != 6 {
		t.Errorf("instance line = %d, want 6", span.Line)
	}
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		message string
	}{
		{"root is a list", "- a\n- b\n", "design root must be a mapping"},
		{"unknown key", "devices: {}\n", `unknown top-level key "devices"`},
		{"module is a list", "modules:\n  top: [a]\n", `module "top" must be a mapping`},
		{"net is a mapping", "modules:\n  top:\n    nets:\n      A: {b: c}\n", `net "A" must list its endpoints`},
		{"pattern without expr", "patterns:\n  BIT: {tag: x}\n", `pattern "BIT" has no expr`},
		{"malformed yaml", "modules: [\n", "invalid document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := design.NewLoader().Parse([]byte(tt.data), "bad.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error = %q, want it to contain %q", err, tt.message)
			}
		})
	}
}

func TestLoader_InvalidFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/design/invalid", "/test")

	_, err := design.NewLoader().LoadFile(mfs, "/test/design.yaml")
	if err == nil || !strings.Contains(err.Error(), "/test/design.yaml") {
		t.Errorf("error = %v, want it to name the file", err)
	}

	if _, err := design.NewLoader().LoadFile(mfs, "/test/missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
