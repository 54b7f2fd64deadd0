/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"regexp"
	"strings"

	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/pattern"
)

// Definition declares a named pattern.
type Definition struct {
	Name string
	// Expr must denote a single group, e.g. "<3:0>" or "<@OTHER>".
	Expr string
	// Tag lets several named patterns share one axis.
	Tag  string
	Span *diag.Span
}

var validName = regexp.MustCompile(`^[^<>|,:;@\s]+$`)

// BuildRegistry resolves definitions in dependency order into a registry.
//
// Invalid, duplicate and cyclic definitions are reported and left out of the
// registry, as is every definition that references one of them. The
// returned registry always holds the definitions that resolved.
func BuildRegistry(defs []Definition) (pattern.MapRegistry, diag.List) {
	var diags diag.List
	reg := pattern.MapRegistry{}

	byName := make(map[string]Definition, len(defs))
	var unique []Definition
	for _, def := range defs {
		if prev, ok := byName[def.Name]; ok {
			d := diag.Errorf(diag.NamedPatternDuplicate, def.Span,
				"named pattern %q is declared more than once", def.Name)
			if prev.Span != nil {
				d = d.WithHint("first declared at " + prev.Span.String())
			}
			diags.Add(d)
			continue
		}
		byName[def.Name] = def
		unique = append(unique, def)
	}

	failed := make(map[string]bool)
	for _, def := range unique {
		switch {
		case !validName.MatchString(def.Name):
			diags.Add(diag.Errorf(diag.NamedPatternInvalid, def.Span,
				"%q is not a valid named pattern name", def.Name))
			failed[def.Name] = true
		case strings.HasPrefix(def.Tag, "#") || strings.ContainsAny(def.Tag, " \t<>;"):
			diags.Add(diag.Errorf(diag.NamedPatternInvalid, def.Span,
				"named pattern %q has invalid tag %q", def.Name, def.Tag))
			failed[def.Name] = true
		}
	}

	graph := BuildDependencyGraph(unique)
	for cycle := graph.FindCycle(); cycle != nil; cycle = graph.FindCycle() {
		head := byName[cycle[0]]
		diags.Add(diag.Errorf(diag.NamedPatternCycle, head.Span,
			"named patterns reference each other in a cycle: %s", strings.Join(cycle, " -> ")))
		for _, name := range cycle {
			failed[name] = true
		}
		graph.Remove(cycle...)
	}

	order, err := graph.TopologicalSort()
	if err != nil {
		diags.Add(diag.Errorf(diag.NamedPatternCycle, nil, "%v", err))
		return reg, diags
	}

	for _, name := range order {
		def := byName[name]
		if failed[name] {
			continue
		}
		if dep := failedDependency(def, failed); dep != "" {
			diags.Add(diag.Errorf(diag.NamedPatternInvalid, def.Span,
				"named pattern %q references %q, which is invalid", name, dep))
			failed[name] = true
			continue
		}

		opts := []pattern.Option{pattern.WithRegistry(reg)}
		if def.Span != nil {
			opts = append(opts, pattern.WithSpan(*def.Span))
		}
		e, more := pattern.Parse(def.Expr, opts...)
		diags.Extend(more)
		if e == nil {
			failed[name] = true
			continue
		}
		np, ok := pattern.Named(name, def.Tag, e)
		if !ok {
			diags.Add(diag.Errorf(diag.NamedPatternInvalid, def.Span,
				"named pattern %q must be a single group such as <3:0> or <a|b>, got %q", name, def.Expr))
			failed[name] = true
			continue
		}
		reg[name] = np
	}

	return reg, diags
}

// failedDependency returns the first referenced pattern that failed to resolve.
func failedDependency(def Definition, failed map[string]bool) string {
	for _, ref := range pattern.References(def.Expr) {
		if failed[ref] {
			return ref
		}
	}
	return ""
}
