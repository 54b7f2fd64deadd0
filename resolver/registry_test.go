/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver_test

import (
	"slices"
	"strings"
	"testing"

	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/pattern"
	"bennypowers.dev/netpat/resolver"
)

func codes(diags diag.List) []diag.Code {
	var out []diag.Code
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestBuildRegistry(t *testing.T) {
	defs := []resolver.Definition{
		{Name: "WIDE", Expr: "<@BIT>"},
		{Name: "BIT", Expr: "<3:0>", Tag: "bit"},
		{Name: "LANE", Expr: "<P|N>"},
	}

	reg, diags := resolver.BuildRegistry(defs)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	bit, ok := reg.Lookup("BIT")
	if !ok {
		t.Fatal("BIT missing from registry")
	}
	if bit.Kind != pattern.Range || len(bit.Labels) != 4 || bit.AxisID() != "bit" {
		t.Errorf("BIT = %+v", bit)
	}

	wide, ok := reg.Lookup("WIDE")
	if !ok {
		t.Fatal("WIDE missing from registry")
	}
	if !slices.Equal(wide.Labels, bit.Labels) {
		t.Errorf("WIDE labels = %v, want %v", wide.Labels, bit.Labels)
	}
	if wide.AxisID() != "WIDE" {
		t.Errorf("WIDE axis = %q, want its own axis", wide.AxisID())
	}

	if lane, _ := reg.Lookup("LANE"); lane.Kind != pattern.Enum {
		t.Errorf("LANE kind = %v, want enum", lane.Kind)
	}
}

func TestBuildRegistry_Errors(t *testing.T) {
	tests := []struct {
		name     string
		defs     []resolver.Definition
		expected []diag.Code
		valid    []string
	}{
		{
			name: "duplicate",
			defs: []resolver.Definition{
				{Name: "BIT", Expr: "<1:0>"},
				{Name: "BIT", Expr: "<3:0>"},
			},
			expected: []diag.Code{diag.NamedPatternDuplicate},
			valid:    []string{"BIT"},
		},
		{
			name: "not a single group",
			defs: []resolver.Definition{
				{Name: "BUS", Expr: "D<1:0>"},
				{Name: "OK", Expr: "<a>"},
			},
			expected: []diag.Code{diag.NamedPatternInvalid},
			valid:    []string{"OK"},
		},
		{
			name: "bad name",
			defs: []resolver.Definition{
				{Name: "A B", Expr: "<1:0>"},
			},
			expected: []diag.Code{diag.NamedPatternInvalid},
		},
		{
			name: "bad tag",
			defs: []resolver.Definition{
				{Name: "A", Expr: "<1:0>", Tag: "#0"},
			},
			expected: []diag.Code{diag.NamedPatternInvalid},
		},
		{
			name: "cycle and its dependents",
			defs: []resolver.Definition{
				{Name: "A", Expr: "<@B>"},
				{Name: "B", Expr: "<@A>"},
				{Name: "C", Expr: "<@A>"},
				{Name: "D", Expr: "<1|2>"},
			},
			expected: []diag.Code{diag.NamedPatternCycle, diag.NamedPatternInvalid},
			valid:    []string{"D"},
		},
		{
			name: "self reference",
			defs: []resolver.Definition{
				{Name: "A", Expr: "<@A>"},
			},
			expected: []diag.Code{diag.NamedPatternCycle},
		},
		{
			name: "pattern syntax error",
			defs: []resolver.Definition{
				{Name: "A", Expr: "<3:3>"},
			},
			expected: []diag.Code{diag.PatternInvalidRange},
		},
		{
			name: "unknown reference",
			defs: []resolver.Definition{
				{Name: "A", Expr: "<@MISSING>"},
			},
			expected: []diag.Code{diag.PatternUnknownAxis},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, diags := resolver.BuildRegistry(tt.defs)
			if got := codes(diags); !slices.Equal(got, tt.expected) {
				t.Errorf("codes = %v, want %v", got, tt.expected)
			}
			var names []string
			for name := range reg {
				names = append(names, name)
			}
			slices.Sort(names)
			if !slices.Equal(names, tt.valid) {
				t.Errorf("registry = %v, want %v", names, tt.valid)
			}
		})
	}
}

func TestBuildRegistry_CycleMessage(t *testing.T) {
	span := &diag.Span{File: "patterns.yaml", Line: 2, Col: 3}
	_, diags := resolver.BuildRegistry([]resolver.Definition{
		{Name: "A", Expr: "<@B>", Span: span},
		{Name: "B", Expr: "<@A>"},
	})

	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	if !strings.Contains(diags[0].Message, "A -> B -> A") {
		t.Errorf("message = %q, want it to name the cycle", diags[0].Message)
	}
	if diags[0].Span != span {
		t.Errorf("span = %v, want %v", diags[0].Span, span)
	}
}
