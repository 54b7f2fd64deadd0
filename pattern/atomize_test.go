/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/pattern"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"DATA<3:0>", []string{"DATA3", "DATA2", "DATA1", "DATA0"}},
		{"DATA<0:3>", []string{"DATA0", "DATA1", "DATA2", "DATA3"}},
		{"MN<1|2>.D<0|1>", []string{"MN1.D0", "MN1.D1", "MN2.D0", "MN2.D1"}},
		{"OUT<P|N>;CLK<1:0>", []string{"OUTP", "OUTN", "CLK1", "CLK0"}},
		{"A;B<1|2>", []string{"A", "B1", "B2"}},
		{"<a|b>_<x|y>_<0:1>", []string{"a_x_0", "a_x_1", "a_y_0", "a_y_1", "b_x_0", "b_x_1", "b_y_0", "b_y_1"}},
		{"X<only>", []string{"Xonly"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, pattern.Expand(mustParse(t, tt.raw)))
		})
	}
}

func TestAtomize_Splice(t *testing.T) {
	atoms, diags := pattern.Atomize(mustParse(t, "OUT<P|N>;CLK<1:0>"), 0)
	require.Empty(t, diags)

	want := []pattern.Atom{
		{Literal: "OUTP", SegmentIndex: 0, BaseName: "OUT", Parts: []pattern.Label{pattern.TextLabel("P")}},
		{Literal: "OUTN", SegmentIndex: 0, BaseName: "OUT", Parts: []pattern.Label{pattern.TextLabel("N")}},
		{Literal: "CLK1", SegmentIndex: 1, BaseName: "CLK", Parts: []pattern.Label{pattern.IntLabel(1)}},
		{Literal: "CLK0", SegmentIndex: 1, BaseName: "CLK", Parts: []pattern.Label{pattern.IntLabel(0)}},
	}
	assert.Equal(t, want, atoms)
}

func TestAtomize_PartsFollowGroups(t *testing.T) {
	reg := registry(t, "", "BIT", "<1:0>")
	atoms, diags := pattern.Atomize(mustParse(t, "Q<@BIT>_<a|b>_<@BIT>", pattern.WithRegistry(reg)), 0)
	require.Empty(t, diags)

	require.Len(t, atoms, 4)
	assert.Equal(t, "Q1_a_1", atoms[0].Literal)
	assert.Equal(t, "Q1_b_1", atoms[1].Literal)
	assert.Equal(t, "Q0_a_0", atoms[2].Literal)
	assert.Equal(t, "Q__", atoms[0].BaseName)
	assert.Equal(t,
		[]pattern.Label{pattern.IntLabel(1), pattern.TextLabel("b"), pattern.IntLabel(1)},
		atoms[1].Parts)
}

func TestAtomize_Duplicate(t *testing.T) {
	atoms, diags := pattern.Atomize(mustParse(t, "OUT<P|P>"), 0)

	assert.Nil(t, atoms)
	assert.Equal(t, []diag.Code{diag.PatternDuplicateAtom}, codes(diags))
}

func TestAtomize_DuplicateAcrossSegments(t *testing.T) {
	atoms, diags := pattern.Atomize(mustParse(t, "A<1|2>;A<2|3>;A<3:1>"), 0)

	assert.Nil(t, atoms)
	assert.Len(t, diags.WithCode(diag.PatternDuplicateAtom), 3)
}

func TestAtomize_Limits(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		maxAtoms int
		want     []diag.Code
	}{
		{"at cap", "D<3:0>", 4, nil},
		{"over cap", "D<3:0>", 3, []diag.Code{diag.PatternTooLarge}},
		{"default cap", "D<0:9999>", 0, nil},
		{"over default cap", "D<0:10000>", -1, []diag.Code{diag.PatternTooLarge}},
		{"spliced total", "A<1|2>;B<1|2>", 3, []diag.Code{diag.PatternTooLarge}},
		{"huge product", "A<0:1000><0:1000><0:1000><0:1000>", 0, []diag.Code{diag.PatternTooLarge}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atoms, diags := pattern.Atomize(mustParse(t, tt.raw), tt.maxAtoms)
			assert.Equal(t, tt.want, codes(diags))
			if tt.want == nil {
				assert.NotNil(t, atoms)
			} else {
				assert.Nil(t, atoms)
			}
		})
	}
}

func TestAtomize_Unexpanded(t *testing.T) {
	atoms, diags := pattern.Atomize(pattern.LiteralExpr("VDD"), 0)
	assert.Nil(t, atoms)
	assert.Equal(t, []diag.Code{diag.PatternUnexpanded}, codes(diags))

	atoms, diags = pattern.Atomize(nil, 0)
	assert.Nil(t, atoms)
	assert.Equal(t, []diag.Code{diag.PatternUnexpanded}, codes(diags))
}

func TestAtomize_Stable(t *testing.T) {
	e := mustParse(t, "R<7:0>_<a|b|c>;S<x|y>")

	first, diags := pattern.Atomize(e, 0)
	require.Empty(t, diags)
	second, diags := pattern.Atomize(e, 0)
	require.Empty(t, diags)
	assert.Equal(t, first, second)

	reparsed, diags := pattern.Atomize(mustParse(t, e.String()), 0)
	require.Empty(t, diags)
	assert.Equal(t, first, reparsed)
}

func TestExpandString(t *testing.T) {
	names, diags := pattern.ExpandString("D<1:0>", 0)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"D1", "D0"}, names)

	names, diags = pattern.ExpandString("OUT<P|P>", 0)
	assert.Nil(t, names)
	assert.Equal(t, []diag.Code{diag.PatternDuplicateAtom}, codes(diags))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 6, pattern.Count(mustParse(t, "A<1|2>;B<0:3>"), 0))
	assert.Equal(t, 11, pattern.Count(mustParse(t, "A<0:99>"), 10))
	assert.Equal(t, 1, pattern.Count(pattern.LiteralExpr("VDD"), 0))
}
