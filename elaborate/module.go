/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package elaborate

import (
	"golang.org/x/text/cases"

	"bennypowers.dev/netpat/design"
	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/pattern"
)

// elaborator flattens a single module. It is not safe for concurrent use.
type elaborator struct {
	mod  *design.Module
	reg  pattern.Registry
	opts Options
	// folder is per elaborator since a Caser must not be shared.
	folder cases.Caser

	out   Module
	diags diag.List

	instances map[string]int
	nets      map[string]int
	// bound maps an endpoint key to the net it is connected to.
	bound   map[string]string
	unknown map[string]bool
}

func newElaborator(mod *design.Module, reg pattern.Registry, opts Options) *elaborator {
	return &elaborator{
		mod:       mod,
		reg:       reg,
		opts:      opts,
		folder:    cases.Fold(),
		out:       Module{Name: mod.Name},
		instances: make(map[string]int),
		nets:      make(map[string]int),
		bound:     make(map[string]string),
		unknown:   make(map[string]bool),
	}
}

// expansion is the outcome of expanding one declared name.
type expansion struct {
	// expr is nil for plain literal names.
	expr  *pattern.Expr
	names []string
	span  *diag.Span
}

func (x expansion) literal() bool {
	return x.expr == nil
}

// netExpr returns the expression a net declaration binds through.
func (x expansion) netExpr() *pattern.Expr {
	if x.expr != nil {
		return x.expr
	}
	e := pattern.LiteralExpr(x.names[0])
	e.Span = x.span
	return e
}

func (e *elaborator) run() (Module, diag.List) {
	insts := make([]expansion, len(e.mod.Instances))
	for i, inst := range e.mod.Instances {
		insts[i] = e.expand(inst.Name)
	}
	accepted := e.claim(insts, diag.InstanceLiteralCollision, "instance")
	for i, x := range insts {
		for j, name := range x.names {
			if !accepted[i][j] {
				continue
			}
			e.instances[e.key(name)] = len(e.out.Instances)
			e.out.Instances = append(e.out.Instances, Instance{
				Name: name,
				Ref:  e.mod.Instances[i].Ref,
				Span: x.span,
			})
		}
	}

	nets := make([]expansion, len(e.mod.Nets))
	for i, net := range e.mod.Nets {
		nets[i] = e.expand(net.Name)
	}
	accepted = e.claim(nets, diag.NetLiteralCollision, "net")
	for i, x := range nets {
		for j, name := range x.names {
			if !accepted[i][j] {
				continue
			}
			e.nets[e.key(name)] = len(e.out.Nets)
			e.out.Nets = append(e.out.Nets, Net{
				Name:      name,
				Port:      e.mod.Nets[i].Port,
				Endpoints: []Endpoint{},
				Span:      x.span,
			})
		}
	}

	for i, x := range nets {
		if x.names == nil {
			continue
		}
		for _, ep := range e.mod.Nets[i].Endpoints {
			e.connect(x, accepted[i], ep)
		}
	}
	return e.out, e.diags
}

func (e *elaborator) key(name string) string {
	if e.opts.FoldCase {
		return e.folder.String(name)
	}
	return name
}

func (e *elaborator) parseOptions(span *diag.Span) []pattern.Option {
	opts := []pattern.Option{pattern.WithRegistry(e.reg)}
	if span != nil {
		opts = append(opts, pattern.WithSpan(*span))
	}
	return opts
}

// expand atomizes a declared name. Plain names are taken as written.
func (e *elaborator) expand(n design.Name) expansion {
	if !pattern.HasSyntax(n.Raw) {
		return expansion{names: []string{n.Raw}, span: n.Span}
	}

	expr, diags := pattern.Parse(n.Raw, e.parseOptions(n.Span)...)
	e.diags.Extend(diags)
	if expr == nil {
		return expansion{span: n.Span}
	}
	atoms, diags := pattern.Atomize(expr, e.opts.MaxAtoms)
	e.diags.Extend(diags)
	if atoms == nil {
		return expansion{span: n.Span}
	}

	names := make([]string, len(atoms))
	for i, a := range atoms {
		names[i] = a.Literal
	}
	return expansion{expr: expr, names: names, span: n.Span}
}

// claim reserves the names of every declaration in one namespace and reports
// which were accepted. Literal declarations claim first, so an atom that
// coincides with a literal name is reported against the pattern.
func (e *elaborator) claim(decls []expansion, collision diag.Code, kind string) [][]bool {
	accepted := make([][]bool, len(decls))
	owner := make(map[string]bool)
	literal := make(map[string]bool)

	for _, literalPass := range []bool{true, false} {
		for i, x := range decls {
			if x.literal() != literalPass {
				continue
			}
			accepted[i] = make([]bool, len(x.names))
			for j, name := range x.names {
				k := e.key(name)
				switch {
				case owner[k] && literal[k] && !x.literal():
					e.diags.Add(diag.Errorf(collision, x.span,
						"%s %q expanded from %q collides with a declared %s of the same name",
						kind, name, x.expr.Raw, kind))
				case owner[k]:
					e.diags.Add(diag.Errorf(diag.ElabDuplicateName, x.span,
						"%s %q is declared more than once in module %s", kind, name, e.mod.Name))
				default:
					owner[k] = true
					literal[k] = x.literal()
					accepted[i][j] = true
				}
			}
		}
	}
	return accepted
}

// connect binds one endpoint declaration to the atoms of its net.
func (e *elaborator) connect(net expansion, accepted []bool, ep design.Name) {
	inst, pin, ok := pattern.SplitEndpoint(ep.Raw)
	if !ok || inst == "" || pin == "" {
		e.diags.Add(diag.Errorf(diag.ElabInvalidEndpoint, ep.Span,
			"endpoint %q must be written as instance.pin", ep.Raw))
		return
	}

	var (
		epExpr *pattern.Expr
		atoms  []pattern.EndpointAtom
	)
	if pattern.HasSyntax(ep.Raw) {
		opts := e.parseOptions(ep.Span)
		var diags diag.List
		atoms, diags = pattern.AtomizeEndpoint(inst, pin, e.opts.MaxAtoms, opts...)
		e.diags.Extend(diags)
		if atoms == nil {
			return
		}
		// Same input as above, so its diagnostics were already reported.
		epExpr, _ = pattern.ParseEndpoint(inst, pin, opts...)
	} else {
		epExpr = pattern.LiteralExpr(ep.Raw)
		epExpr.Span = ep.Span
		atoms = []pattern.EndpointAtom{{Inst: inst, Port: pin}}
	}

	netExpr := net.netExpr()
	plan, diags := pattern.Bind(netExpr, epExpr, netExpr.Raw, ep.Raw)
	e.diags.Extend(diags)
	if plan == nil {
		return
	}

	for _, p := range plan.Pairs {
		if !accepted[p.Net] {
			continue
		}
		e.attach(net.names[p.Net], atoms[p.Endpoint], ep.Span)
	}
}

func (e *elaborator) attach(netName string, a pattern.EndpointAtom, span *diag.Span) {
	ik := e.key(a.Inst)
	if _, ok := e.instances[ik]; !ok {
		if !e.unknown[ik] {
			e.unknown[ik] = true
			e.diags.Add(diag.Errorf(diag.ElabUnknownInstance, span,
				"endpoint %s names unknown instance %q in module %s", a.String(), a.Inst, e.mod.Name))
		}
		return
	}

	ek := ik + "." + e.key(a.Port)
	if prev, ok := e.bound[ek]; ok {
		if e.key(prev) != e.key(netName) {
			e.diags.Add(diag.Errorf(diag.ElabEndpointConflict, span,
				"endpoint %s is connected to both %s and %s", a.String(), prev, netName))
		}
		return
	}
	e.bound[ek] = netName

	n := &e.out.Nets[e.nets[e.key(netName)]]
	n.Endpoints = append(n.Endpoints, Endpoint{Inst: a.Inst, Pin: a.Port})
}
