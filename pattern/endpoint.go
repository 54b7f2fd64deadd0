/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pattern

import (
	"slices"

	"bennypowers.dev/netpat/diag"
)

// EndpointAtom is one concrete (instance, pin) pair.
type EndpointAtom struct {
	Inst         string `json:"inst" yaml:"inst"`
	Port         string `json:"port" yaml:"port"`
	SegmentIndex int    `json:"segment" yaml:"segment"`
	BaseName     string `json:"baseName" yaml:"baseName"`
	// Parts holds the instance-side selections followed by the pin-side ones.
	Parts []Label `json:"parts" yaml:"parts"`
}

// String returns "inst.pin".
func (a EndpointAtom) String() string {
	return a.Inst + "." + a.Port
}

// endpointKey identifies an endpoint atom by its two sides, so "A1"+"2.3"
// and "A1.2"+"3" stay distinct.
type endpointKey struct{ inst, pin string }

func (k endpointKey) String() string { return k.inst + "." + k.pin }

// endpoint holds both parsed sides of a connection and their join.
type endpoint struct {
	inst   *Expr
	pin    *Expr // anonymous axes renumbered past the instance side
	joined *Expr
}

// parseEndpoint parses each side leniently, allowing either to be a plain
// literal, and joins them. Spans given via WithSpan locate instRaw + "." + pinRaw.
func parseEndpoint(instRaw, pinRaw string, opts []Option) (*endpoint, diag.List) {
	o := newOptions(opts)
	inst, diags := parse(instRaw, o)
	pin, more := parse(pinRaw, o.withBase(len(instRaw)+1))
	diags.Extend(more)
	if inst == nil || pin == nil {
		return nil, diags
	}

	if instRaw == "" || pinRaw == "" {
		diags.Add(diag.Errorf(diag.PatternUnexpanded, o.spanAt(0, len(instRaw)+1+len(pinRaw)),
			"endpoint %q has an empty side", instRaw+"."+pinRaw))
		return nil, diags
	}
	if !inst.HasGroups() && !pin.HasGroups() {
		diags.Add(diag.Errorf(diag.PatternUnexpanded, o.spanAt(0, len(instRaw)+1+len(pinRaw)),
			"endpoint %q has no pattern groups to expand", instRaw+"."+pinRaw).
			WithHint("plain endpoints do not go through the pattern engine"))
		return nil, diags
	}

	ep, more := join(inst, pin)
	diags.Extend(more)
	if ep == nil {
		return nil, diags
	}
	return ep, diags
}

// join concatenates every instance segment with every pin segment.
func join(inst, pin *Expr) (*endpoint, diag.List) {
	var diags diag.List
	pin = pin.renumber(inst.anonymousCount())

	joined := &Expr{Raw: inst.Raw + "." + pin.Raw, Span: joinSpan(inst.Span, pin.Span)}
	index := make(map[AxisID]int)
	for _, a := range slices.Concat(inst.Axes, pin.Axes) {
		if i, ok := index[a.ID]; ok {
			prev := joined.Axes[i]
			switch {
			case !slices.Equal(prev.Labels, a.Labels):
				diags.Add(diag.Errorf(diag.PatternAxisConflict, joined.Span,
					"axis %q is used with labels %s and %s in %q",
					a.ID, labelsString(prev.Labels), labelsString(a.Labels), joined.Raw))
			case prev.Kind != a.Kind:
				diags.Add(diag.Warnf(diag.PatternAxisKindMismatch, joined.Span,
					"axis %q is used as both %s and %s with identical labels in %q",
					a.ID, prev.Kind, a.Kind, joined.Raw))
			}
			continue
		}
		a.Order = len(joined.Axes)
		index[a.ID] = a.Order
		joined.Axes = append(joined.Axes, a)
	}
	if diags.HasErrors() {
		return nil, diags
	}

	for _, is := range inst.Segments {
		for _, ps := range pin.Segments {
			tokens := slices.Concat(is.Tokens, []Token{Literal{Text: "."}}, ps.Tokens)
			joined.Segments = append(joined.Segments, Segment{Tokens: mergeLiterals(tokens)})
		}
	}
	return &endpoint{inst: inst, pin: pin, joined: joined}, diags
}

// ParseEndpoint parses an instance side and a pin side into the single
// expression "inst.pin". Its atomization order matches AtomizeEndpoint.
func ParseEndpoint(instRaw, pinRaw string, opts ...Option) (*Expr, diag.List) {
	ep, diags := parseEndpoint(instRaw, pinRaw, opts)
	if ep == nil {
		return nil, diags
	}
	return ep.joined, diags
}

// JoinEndpoint joins two already-parsed sides. Either side may be a LiteralExpr.
func JoinEndpoint(inst, pin *Expr) (*Expr, diag.List) {
	ep, diags := join(inst, pin)
	if ep == nil {
		return nil, diags
	}
	return ep.joined, diags
}

// AtomizeEndpoint expands instRaw and pinRaw as one cross product:
// instance groups vary slower than pin groups. maxAtoms bounds the combined
// count.
func AtomizeEndpoint(instRaw, pinRaw string, maxAtoms int, opts ...Option) ([]EndpointAtom, diag.List) {
	ep, diags := parseEndpoint(instRaw, pinRaw, opts)
	if ep == nil {
		return nil, diags
	}

	limit := atomLimit(maxAtoms)
	joined := ep.joined
	segAxes := joined.allSegmentAxes()
	n := countAtoms(segAxes, limit)
	if n > limit {
		diags.Add(tooLarge(joined, limit))
		return nil, diags
	}

	atoms := make([]EndpointAtom, 0, n)
	keys := make([]endpointKey, 0, n)
	k := 0
	for _, is := range ep.inst.Segments {
		instBase := is.BaseName()
		for _, ps := range ep.pin.Segments {
			base := instBase + "." + ps.BaseName()
			od := newOdometer(segAxes[k])
			for ok := true; ok; ok = od.next() {
				inst, instParts := od.render(is.Tokens)
				pin, pinParts := od.render(ps.Tokens)
				atoms = append(atoms, EndpointAtom{
					Inst:         inst,
					Port:         pin,
					SegmentIndex: k,
					BaseName:     base,
					Parts:        slices.Concat(instParts, pinParts),
				})
				keys = append(keys, endpointKey{inst, pin})
			}
			k++
		}
	}

	if dups := duplicates(joined, keys, endpointKey.String); dups.HasErrors() {
		diags.Extend(dups)
		return nil, diags
	}
	return atoms, diags
}

func mergeLiterals(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		lit, ok := t.(Literal)
		if !ok {
			out = append(out, t)
			continue
		}
		if lit.Text == "" {
			continue
		}
		if n := len(out); n > 0 {
			if prev, ok := out[n-1].(Literal); ok {
				out[n-1] = Literal{Text: prev.Text + lit.Text}
				continue
			}
		}
		out = append(out, lit)
	}
	return out
}

func joinSpan(inst, pin *diag.Span) *diag.Span {
	if inst == nil {
		return pin
	}
	s := *inst
	if pin != nil && pin.EndCol > 0 {
		s.EndCol = pin.EndCol
	}
	return &s
}
