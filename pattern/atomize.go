/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pattern

import (
	"strings"

	"bennypowers.dev/netpat/diag"
)

// DefaultMaxAtoms is the atom cap applied when callers pass maxAtoms <= 0.
const DefaultMaxAtoms = 10000

// Atom is one concrete name produced by atomization.
type Atom struct {
	Literal      string `json:"literal" yaml:"literal"`
	SegmentIndex int    `json:"segment" yaml:"segment"`
	// BaseName is the segment's literal text with every group removed.
	BaseName string `json:"baseName" yaml:"baseName"`
	// Parts holds the label selected for each group of the segment, left to right.
	Parts []Label `json:"parts" yaml:"parts"`
}

// Atomize enumerates the names denoted by e.
//
// Segments are expanded in order. Within a segment the axes vary as an
// odometer: the axis declared first varies slowest. A nil slice is returned
// alongside any error diagnostic.
func Atomize(e *Expr, maxAtoms int) ([]Atom, diag.List) {
	if e == nil || !e.HasGroups() {
		return nil, diag.List{unexpanded(e)}
	}
	limit := atomLimit(maxAtoms)

	segAxes := e.allSegmentAxes()
	n := countAtoms(segAxes, limit)
	if n > limit {
		return nil, diag.List{tooLarge(e, limit)}
	}

	atoms := make([]Atom, 0, n)
	for i, seg := range e.Segments {
		base := seg.BaseName()
		od := newOdometer(segAxes[i])
		for ok := true; ok; ok = od.next() {
			lit, parts := od.render(seg.Tokens)
			atoms = append(atoms, Atom{
				Literal:      lit,
				SegmentIndex: i,
				BaseName:     base,
				Parts:        parts,
			})
		}
	}

	literals := make([]string, len(atoms))
	for i, a := range atoms {
		literals[i] = a.Literal
	}
	if diags := duplicates(e, literals, func(l string) string { return l }); diags.HasErrors() {
		return nil, diags
	}
	return atoms, nil
}

// Expand returns the literal names of e in atomization order, or nil when
// e cannot be atomized under DefaultMaxAtoms.
func Expand(e *Expr) []string {
	atoms, diags := Atomize(e, DefaultMaxAtoms)
	if diags.HasErrors() {
		return nil
	}
	names := make([]string, len(atoms))
	for i, a := range atoms {
		names[i] = a.Literal
	}
	return names
}

// ExpandString parses raw and expands it, returning every diagnostic raised
// along the way.
func ExpandString(raw string, maxAtoms int, opts ...Option) ([]string, diag.List) {
	e, diags := Parse(raw, opts...)
	if e == nil {
		return nil, diags
	}
	atoms, more := Atomize(e, maxAtoms)
	diags.Extend(more)
	if atoms == nil {
		return nil, diags
	}
	names := make([]string, len(atoms))
	for i, a := range atoms {
		names[i] = a.Literal
	}
	return names, diags
}

// Count returns the number of atoms e denotes, saturating at limit+1.
func Count(e *Expr, limit int) int {
	return countAtoms(e.allSegmentAxes(), atomLimit(limit))
}

func atomLimit(maxAtoms int) int {
	if maxAtoms <= 0 {
		return DefaultMaxAtoms
	}
	return maxAtoms
}

func (e *Expr) allSegmentAxes() [][]AxisSpec {
	out := make([][]AxisSpec, len(e.Segments))
	for i, seg := range e.Segments {
		out[i] = e.segmentAxes(seg)
	}
	return out
}

// countAtoms sums the per-segment axis products without overflowing,
// returning limit+1 as soon as the total exceeds limit.
func countAtoms(segAxes [][]AxisSpec, limit int) int {
	total := 0
	for _, axes := range segAxes {
		n := 1
		for _, a := range axes {
			n = mulCapped(n, a.Size(), limit)
		}
		total += n
		if total > limit {
			return limit + 1
		}
	}
	return total
}

func mulCapped(a, b, limit int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > limit/b {
		return limit + 1
	}
	return a * b
}

// odometer steps through every label combination of a set of axes.
// The last axis is the fastest digit.
type odometer struct {
	axes []AxisSpec
	pos  map[AxisID]int
	idx  []int
}

func newOdometer(axes []AxisSpec) *odometer {
	pos := make(map[AxisID]int, len(axes))
	for i, a := range axes {
		pos[a.ID] = i
	}
	return &odometer{axes: axes, pos: pos, idx: make([]int, len(axes))}
}

// next advances to the following combination and reports false once every
// combination has been visited.
func (o *odometer) next() bool {
	for i := len(o.idx) - 1; i >= 0; i-- {
		o.idx[i]++
		if o.idx[i] < o.axes[i].Size() {
			return true
		}
		o.idx[i] = 0
	}
	return false
}

// index returns the current label index of axis id.
func (o *odometer) index(id AxisID) int {
	return o.idx[o.pos[id]]
}

func (o *odometer) label(id AxisID) Label {
	i := o.pos[id]
	return o.axes[i].Labels[o.idx[i]]
}

// render splices the current labels into tokens.
func (o *odometer) render(tokens []Token) (string, []Label) {
	var sb strings.Builder
	var parts []Label
	for _, t := range tokens {
		switch t := t.(type) {
		case Literal:
			sb.WriteString(t.Text)
		case *Group:
			l := o.label(t.Axis)
			sb.WriteString(l.Text)
			parts = append(parts, l)
		}
	}
	return sb.String(), parts
}

// duplicates reports each literal produced more than once.
// duplicates reports every key produced more than once, in first-seen order.
func duplicates[K comparable](e *Expr, keys []K, show func(K) string) diag.List {
	counts := make(map[K]int, len(keys))
	for _, k := range keys {
		counts[k]++
	}
	var diags diag.List
	for _, l := range keys {
		n := counts[l]
		if n < 2 {
			continue
		}
		diags.Add(diag.Errorf(diag.PatternDuplicateAtom, e.Span,
			"%q is produced %d times by %q", show(l), n, e.Raw).
			WithHint("every atom of a pattern must be a distinct name"))
		counts[l] = 0
	}
	return diags
}

func unexpanded(e *Expr) diag.Diagnostic {
	if e == nil {
		return diag.Errorf(diag.PatternUnexpanded, nil, "no pattern to expand")
	}
	return diag.Errorf(diag.PatternUnexpanded, e.Span, "%q has no pattern groups to expand", e.Raw)
}

func tooLarge(e *Expr, limit int) diag.Diagnostic {
	return diag.Errorf(diag.PatternTooLarge, e.Span,
		"%q expands to more than %d atoms", e.Raw, limit).
		WithHint("raise maxAtoms or split the pattern")
}
