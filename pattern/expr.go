/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pattern

import (
	"slices"
	"strconv"
	"strings"

	"bennypowers.dev/netpat/diag"
)

// GroupKind is the label-sequence kind of a group or axis.
type GroupKind int

const (
	// Enum groups list their labels explicitly: <a|b|c>.
	Enum GroupKind = iota

	// Range groups enumerate integers between two bounds: <3:0>.
	Range
)

// String returns the string representation of the kind.
func (k GroupKind) String() string {
	switch k {
	case Enum:
		return "enum"
	case Range:
		return "range"
	default:
		return "unknown"
	}
}

// Form is the source form a group was written in.
type Form int

const (
	FormEnum Form = iota
	FormRange
	FormNamed
)

// AxisID identifies an axis within an expression, or across expressions for
// named axes.
type AxisID string

// Named reports whether the axis comes from a named pattern reference.
// Anonymous axes are local to the expression that declared them.
func (id AxisID) Named() bool {
	return !strings.HasPrefix(string(id), "#")
}

func anonymousAxis(n int) AxisID {
	return AxisID("#" + strconv.Itoa(n))
}

// anonymousIndex returns n for an anonymous id "#n".
func (id AxisID) anonymousIndex() (int, bool) {
	if id.Named() {
		return 0, false
	}
	n, err := strconv.Atoi(string(id[1:]))
	return n, err == nil
}

// Label is one selectable value of a group.
type Label struct {
	// Text is spliced verbatim into expanded names.
	Text string `json:"text" yaml:"text"`
	// Value holds the integer value when Numeric is set.
	Value   int  `json:"value,omitempty" yaml:"value,omitempty"`
	Numeric bool `json:"numeric,omitempty" yaml:"numeric,omitempty"`
}

// IntLabel returns a numeric label.
func IntLabel(v int) Label {
	return Label{Text: strconv.Itoa(v), Value: v, Numeric: true}
}

// TextLabel returns a label, marking it numeric when the text is a pure integer.
func TextLabel(s string) Label {
	if v, err := strconv.Atoi(s); err == nil {
		return Label{Text: s, Value: v, Numeric: true}
	}
	return Label{Text: s}
}

// Token is one element of a segment: either a Literal or a *Group.
type Token interface {
	isToken()
}

// Literal is verbatim text that never expands.
type Literal struct {
	Text string
}

func (Literal) isToken() {}

// Group is an expandable bracketed sub-pattern.
type Group struct {
	Kind   GroupKind
	Labels []Label
	Axis   AxisID
	// Ref is the named pattern this group was written as (<@Ref>), if any.
	Ref string
}

func (*Group) isToken() {}

// Form reports which of the three source forms the group was written in.
func (g *Group) Form() Form {
	switch {
	case g.Ref != "":
		return FormNamed
	case g.Kind == Range:
		return FormRange
	default:
		return FormEnum
	}
}

// Size returns the number of labels.
func (g *Group) Size() int {
	return len(g.Labels)
}

// String returns the canonical source text of the group.
func (g *Group) String() string {
	switch g.Form() {
	case FormNamed:
		return "<@" + g.Ref + ">"
	case FormRange:
		lo, hi := g.Labels[0], g.Labels[len(g.Labels)-1]
		return "<" + strconv.Itoa(lo.Value) + ":" + strconv.Itoa(hi.Value) + ">"
	default:
		texts := make([]string, len(g.Labels))
		for i, l := range g.Labels {
			texts[i] = l.Text
		}
		return "<" + strings.Join(texts, "|") + ">"
	}
}

// Segment is one splice-separated unit of an expression.
type Segment struct {
	Tokens []Token
}

// Groups returns the segment's groups in token order.
func (s Segment) Groups() []*Group {
	var groups []*Group
	for _, t := range s.Tokens {
		if g, ok := t.(*Group); ok {
			groups = append(groups, g)
		}
	}
	return groups
}

// BaseName returns the literal skeleton of the segment with groups removed.
func (s Segment) BaseName() string {
	var sb strings.Builder
	for _, t := range s.Tokens {
		if lit, ok := t.(Literal); ok {
			sb.WriteString(lit.Text)
		}
	}
	return sb.String()
}

// String returns the canonical source text of the segment.
func (s Segment) String() string {
	var sb strings.Builder
	for _, t := range s.Tokens {
		switch t := t.(type) {
		case Literal:
			sb.WriteString(t.Text)
		case *Group:
			sb.WriteString(t.String())
		}
	}
	return sb.String()
}

// AxisSpec describes one axis of an expression.
type AxisSpec struct {
	ID     AxisID
	Kind   GroupKind
	Labels []Label
	// Order is the index of first appearance within the owning expression.
	Order int
}

// Size returns the number of labels on the axis.
func (a AxisSpec) Size() int {
	return len(a.Labels)
}

// Named reports whether the axis can be shared with other expressions.
func (a AxisSpec) Named() bool {
	return a.ID.Named()
}

// Expr is a parsed pattern expression. It is immutable once returned.
type Expr struct {
	// Raw is the original text.
	Raw      string
	Segments []Segment
	// Axes lists every referenced axis in order of first appearance.
	Axes []AxisSpec
	Span *diag.Span
}

// LiteralExpr returns a group-free expression denoting exactly raw.
// Binding accepts it as a single-atom side; Atomize does not.
func LiteralExpr(raw string) *Expr {
	return &Expr{
		Raw:      raw,
		Segments: []Segment{{Tokens: []Token{Literal{Text: raw}}}},
	}
}

// AxisOrder returns the axis ids in order of first appearance.
func (e *Expr) AxisOrder() []AxisID {
	ids := make([]AxisID, len(e.Axes))
	for i, a := range e.Axes {
		ids[i] = a.ID
	}
	return ids
}

// Axis looks up an axis by id.
func (e *Expr) Axis(id AxisID) (AxisSpec, bool) {
	for _, a := range e.Axes {
		if a.ID == id {
			return a, true
		}
	}
	return AxisSpec{}, false
}

// HasGroups reports whether any segment holds an expandable group.
func (e *Expr) HasGroups() bool {
	for _, s := range e.Segments {
		if len(s.Groups()) > 0 {
			return true
		}
	}
	return false
}

// Single returns the lone group of an expression made of exactly one group
// and nothing else.
func (e *Expr) Single() (*Group, bool) {
	if len(e.Segments) != 1 || len(e.Segments[0].Tokens) != 1 {
		return nil, false
	}
	g, ok := e.Segments[0].Tokens[0].(*Group)
	return g, ok
}

// String reconstitutes canonical source text. Parsing it yields an Equal expression.
func (e *Expr) String() string {
	parts := make([]string, len(e.Segments))
	for i, s := range e.Segments {
		parts[i] = s.String()
	}
	return strings.Join(parts, ";")
}

// Equal reports whether two expressions have identical structure.
// Raw text and spans are not compared.
func (e *Expr) Equal(o *Expr) bool {
	if e == nil || o == nil {
		return e == o
	}
	if len(e.Segments) != len(o.Segments) || len(e.Axes) != len(o.Axes) {
		return false
	}
	for i := range e.Axes {
		a, b := e.Axes[i], o.Axes[i]
		if a.ID != b.ID || a.Kind != b.Kind || a.Order != b.Order || !slices.Equal(a.Labels, b.Labels) {
			return false
		}
	}
	for i := range e.Segments {
		if !slices.EqualFunc(e.Segments[i].Tokens, o.Segments[i].Tokens, tokenEqual) {
			return false
		}
	}
	return true
}

func tokenEqual(a, b Token) bool {
	switch a := a.(type) {
	case Literal:
		bl, ok := b.(Literal)
		return ok && a.Text == bl.Text
	case *Group:
		bg, ok := b.(*Group)
		return ok && a.Kind == bg.Kind && a.Axis == bg.Axis && a.Ref == bg.Ref && slices.Equal(a.Labels, bg.Labels)
	default:
		return false
	}
}

// segmentAxes returns the axes a segment references, sorted by expression order.
func (e *Expr) segmentAxes(s Segment) []AxisSpec {
	seen := make(map[AxisID]bool)
	var axes []AxisSpec
	for _, g := range s.Groups() {
		if seen[g.Axis] {
			continue
		}
		seen[g.Axis] = true
		if a, ok := e.Axis(g.Axis); ok {
			axes = append(axes, a)
		}
	}
	slices.SortFunc(axes, func(a, b AxisSpec) int { return a.Order - b.Order })
	return axes
}

// anonymousCount returns one more than the highest anonymous axis index.
func (e *Expr) anonymousCount() int {
	n := 0
	for _, a := range e.Axes {
		if i, ok := a.ID.anonymousIndex(); ok && i+1 > n {
			n = i + 1
		}
	}
	return n
}

// renumber returns a copy whose anonymous axis ids are shifted by offset.
func (e *Expr) renumber(offset int) *Expr {
	if offset == 0 {
		return e
	}
	shift := func(id AxisID) AxisID {
		if i, ok := id.anonymousIndex(); ok {
			return anonymousAxis(i + offset)
		}
		return id
	}
	out := &Expr{Raw: e.Raw, Span: e.Span}
	for _, a := range e.Axes {
		a.ID = shift(a.ID)
		out.Axes = append(out.Axes, a)
	}
	for _, s := range e.Segments {
		tokens := make([]Token, len(s.Tokens))
		for i, t := range s.Tokens {
			if g, ok := t.(*Group); ok {
				cp := *g
				cp.Axis = shift(g.Axis)
				t = &cp
			}
			tokens[i] = t
		}
		out.Segments = append(out.Segments, Segment{Tokens: tokens})
	}
	return out
}
