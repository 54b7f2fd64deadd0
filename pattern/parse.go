/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pattern

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"bennypowers.dev/netpat/diag"
)

// MaxGroupSize bounds the number of labels the groups of one expression may
// declare together. It is checked before any label is allocated.
const MaxGroupSize = 1 << 20

// Option configures parsing.
type Option func(*options)

type options struct {
	registry Registry
	span     *diag.Span
	// base is the byte offset of the parsed text within the spanned source.
	base int
}

// WithRegistry resolves <@NAME> references against r.
func WithRegistry(r Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithSpan attaches the source location of the raw text to the expression
// and to every diagnostic raised for it.
func WithSpan(s diag.Span) Option {
	return func(o *options) {
		o.span = &s
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) withBase(base int) *options {
	cp := *o
	cp.base = base
	return &cp
}

func (o *options) spanAt(offset, width int) *diag.Span {
	if o.span == nil {
		return nil
	}
	s := o.span.Shift(o.base+offset, width)
	return &s
}

// Parse parses raw into an expression.
//
// Text without any group is rejected with PATTERN_UNEXPANDED; callers must
// not route plain literal names through the engine.
func Parse(raw string, opts ...Option) (*Expr, diag.List) {
	o := newOptions(opts)
	e, diags := parse(raw, o)
	if e == nil {
		return nil, diags
	}
	if !e.HasGroups() {
		diags.Add(diag.Errorf(diag.PatternUnexpanded, o.spanAt(0, len(raw)),
			"%q has no pattern groups to expand", raw).
			WithHint("plain names do not go through the pattern engine"))
		return nil, diags
	}
	return e, diags
}

// parse parses raw without requiring a group.
func parse(raw string, o *options) (*Expr, diag.List) {
	tokens, err := lex(raw)
	if err != nil {
		return nil, diag.List{diag.Errorf(diag.PatternUnbalancedGroup, o.spanAt(0, len(raw)),
			"cannot tokenize %q: %v", raw, err)}
	}

	p := &parser{raw: raw, opts: o, index: make(map[AxisID]int)}
	p.run(tokens)
	if p.diags.HasErrors() {
		return nil, p.diags
	}
	return &Expr{
		Raw:      raw,
		Segments: p.segments,
		Axes:     p.axes,
		Span:     o.spanAt(0, len(raw)),
	}, p.diags
}

type parser struct {
	raw   string
	opts  *options
	diags diag.List

	segments []Segment
	axes     []AxisSpec
	index    map[AxisID]int
	anon     int
	// labels counts the labels declared so far.
	labels int

	// current segment state
	tokens   []Token
	text     strings.Builder
	touched  bool
	spliced  bool
	segStart int
}

func (p *parser) run(tokens []lexer.Token) {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Type {
		case tokOpen:
			end := p.closing(tokens, i)
			if end < 0 {
				return
			}
			p.flushText()
			p.touched = true
			start := tok.Pos.Offset
			if g := p.group(tokens[i+1:end], start, tokens[end].Pos.Offset+1-start); g != nil {
				p.tokens = append(p.tokens, g)
			}
			i = end
		case tokClose:
			p.touched = true
			p.errorf(diag.PatternUnbalancedGroup, tok.Pos.Offset, 1,
				"unexpected '>' without a matching '<' in %q", p.raw)
		case tokSplice:
			p.spliced = true
			p.endSegment(tok.Pos.Offset)
		default:
			p.text.WriteString(tok.Value)
		}
	}
	p.endSegment(len(p.raw))
}

// closing returns the index of the Close token matching the Open at i, or -1.
func (p *parser) closing(tokens []lexer.Token, i int) int {
	for j := i + 1; j < len(tokens); j++ {
		switch tokens[j].Type {
		case tokClose:
			return j
		case tokOpen:
			p.errorf(diag.PatternUnbalancedGroup, tokens[j].Pos.Offset, 1,
				"nested '<' inside a group in %q", p.raw)
			return -1
		}
	}
	start := tokens[i].Pos.Offset
	p.errorf(diag.PatternUnbalancedGroup, start, len(p.raw)-start,
		"unterminated group in %q", p.raw)
	return -1
}

func (p *parser) flushText() {
	if p.text.Len() == 0 {
		return
	}
	p.tokens = append(p.tokens, Literal{Text: p.text.String()})
	p.text.Reset()
	p.touched = true
}

func (p *parser) endSegment(offset int) {
	p.flushText()
	if !p.touched && p.spliced {
		p.errorf(diag.PatternEmptySplice, p.segStart, offset-p.segStart,
			"empty segment between ';' separators in %q", p.raw)
	}
	p.segments = append(p.segments, Segment{Tokens: p.tokens})
	p.tokens = nil
	p.touched = false
	p.segStart = offset + 1
}

// group parses a group body spanning raw[start:start+width].
func (p *parser) group(body []lexer.Token, start, width int) *Group {
	if len(body) == 0 {
		p.errorf(diag.PatternEmptyEnum, start, width, "empty group <> in %q", p.raw)
		return nil
	}

	var g *Group
	switch {
	case body[0].Type == tokAt:
		g = p.named(body[1:], start, width)
	case hasType(body, tokPipe):
		g = p.enum(body, start, width)
	case hasType(body, tokColon):
		g = p.rangeGroup(body, start, width)
	default:
		g = &Group{Kind: Enum, Labels: []Label{TextLabel(joinValues(body))}}
	}
	if g == nil {
		return nil
	}
	if g.Ref == "" {
		g.Axis = anonymousAxis(p.anon)
		p.anon++
	}
	p.register(g, start, width)
	return g
}

func (p *parser) enum(body []lexer.Token, start, width int) *Group {
	text := p.raw[start : start+width]
	items := splitValues(body, tokPipe)
	labels := make([]Label, 0, len(items))
	empty := 0
	for _, item := range items {
		if item == "" {
			empty++
			continue
		}
		labels = append(labels, TextLabel(item))
	}
	switch {
	case empty == len(items):
		p.errorf(diag.PatternEmptyEnum, start, width, "group %s has only empty items", text)
		return nil
	case empty > 0:
		p.errorf(diag.PatternEmptyEnum, start, width, "group %s has an empty item", text)
		return nil
	}
	if !p.reserve(len(labels), start, width) {
		return nil
	}
	return &Group{Kind: Enum, Labels: labels}
}

// reserve charges n labels against the expression's label budget.
func (p *parser) reserve(n, start, width int) bool {
	if p.labels+n > MaxGroupSize {
		p.errorf(diag.PatternTooLarge, start, width,
			"groups of %q declare more than %d labels in total", p.raw, MaxGroupSize)
		return false
	}
	p.labels += n
	return true
}

func (p *parser) rangeGroup(body []lexer.Token, start, width int) *Group {
	text := p.raw[start : start+width]
	bounds := splitValues(body, tokColon)
	if len(bounds) != 2 {
		p.errorf(diag.PatternInvalidRange, start, width, "range %s must have exactly two bounds", text)
		return nil
	}

	var vals [2]int
	for i, b := range bounds {
		b = strings.TrimSpace(b)
		if b == "" {
			p.errorf(diag.PatternInvalidRange, start, width, "range %s is missing a bound", text)
			return nil
		}
		v, err := strconv.Atoi(b)
		if err != nil {
			p.errorf(diag.PatternInvalidRange, start, width, "range %s has non-integer bound %q", text, b)
			return nil
		}
		vals[i] = v
	}

	lo, hi := vals[0], vals[1]
	if lo == hi {
		p.errorf(diag.PatternInvalidRange, start, width,
			"range %s has equal bounds; write a single value as a literal", text)
		return nil
	}
	// The distance is taken in uint64 so extreme bounds cannot wrap.
	step, dist := 1, uint64(hi)-uint64(lo)
	if lo > hi {
		step, dist = -1, uint64(lo)-uint64(hi)
	}
	if dist >= MaxGroupSize {
		p.errorf(diag.PatternTooLarge, start, width,
			"range %s declares more than %d labels", text, MaxGroupSize)
		return nil
	}
	size := int(dist) + 1
	if !p.reserve(size, start, width) {
		return nil
	}

	labels := make([]Label, 0, size)
	for v := lo; ; v += step {
		labels = append(labels, IntLabel(v))
		if v == hi {
			break
		}
	}
	return &Group{Kind: Range, Labels: labels}
}

func (p *parser) named(rest []lexer.Token, start, width int) *Group {
	name := strings.TrimSpace(joinValues(rest))
	if name == "" {
		p.errorf(diag.PatternUnknownAxis, start, width, "named reference in %q has no name", p.raw)
		return nil
	}
	if p.opts.registry == nil {
		p.errorf(diag.PatternUnknownAxis, start, width, "unknown named pattern %q", name)
		return nil
	}
	np, ok := p.opts.registry.Lookup(name)
	if !ok {
		p.errorf(diag.PatternUnknownAxis, start, width, "unknown named pattern %q", name)
		return nil
	}
	if !p.reserve(len(np.Labels), start, width) {
		return nil
	}
	if len(np.Labels) == 0 {
		p.errorf(diag.PatternEmptyEnum, start, width, "named pattern %q has no labels", name)
		return nil
	}
	return &Group{Kind: np.Kind, Labels: np.Labels, Axis: np.AxisID(), Ref: name}
}

// register records the group's axis, checking reuse against earlier groups.
func (p *parser) register(g *Group, start, width int) {
	if i, ok := p.index[g.Axis]; ok {
		prev := p.axes[i]
		switch {
		case !slices.Equal(prev.Labels, g.Labels):
			p.errorf(diag.PatternAxisConflict, start, width,
				"axis %q is used with labels %s and %s in %q",
				g.Axis, labelsString(prev.Labels), labelsString(g.Labels), p.raw)
		case prev.Kind != g.Kind:
			p.diags.Add(diag.Warnf(diag.PatternAxisKindMismatch, p.opts.spanAt(start, width),
				"axis %q is used as both %s and %s with identical labels in %q",
				g.Axis, prev.Kind, g.Kind, p.raw))
		}
		return
	}
	p.index[g.Axis] = len(p.axes)
	p.axes = append(p.axes, AxisSpec{
		ID:     g.Axis,
		Kind:   g.Kind,
		Labels: g.Labels,
		Order:  len(p.axes),
	})
}

func (p *parser) errorf(code diag.Code, offset, width int, format string, args ...any) {
	p.diags.Add(diag.Errorf(code, p.opts.spanAt(offset, width), format, args...))
}

func hasType(tokens []lexer.Token, typ lexer.TokenType) bool {
	for _, t := range tokens {
		if t.Type == typ {
			return true
		}
	}
	return false
}

func joinValues(tokens []lexer.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Value)
	}
	return sb.String()
}

// splitValues joins token values into items separated by tokens of type sep.
func splitValues(tokens []lexer.Token, sep lexer.TokenType) []string {
	items := []string{""}
	for _, t := range tokens {
		if t.Type == sep {
			items = append(items, "")
			continue
		}
		items[len(items)-1] += t.Value
	}
	return items
}

func labelsString(labels []Label) string {
	texts := make([]string, len(labels))
	for i, l := range labels {
		texts[i] = l.Text
	}
	return fmt.Sprintf("[%s]", strings.Join(texts, " "))
}
