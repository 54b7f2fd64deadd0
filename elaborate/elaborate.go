/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package elaborate expands the patterned names of a design into flat
// connectivity records.
package elaborate

import (
	"github.com/sourcegraph/conc"

	"bennypowers.dev/netpat/design"
	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/internal/logger"
	"bennypowers.dev/netpat/pattern"
	"bennypowers.dev/netpat/resolver"
)

// Options configures elaboration.
type Options struct {
	// MaxAtoms caps every single expansion. <= 0 means pattern.DefaultMaxAtoms.
	MaxAtoms int

	// FoldCase compares names case-insensitively when checking collisions.
	FoldCase bool

	// Patterns are named patterns visible to every document.
	// A document pattern with the same name takes precedence.
	Patterns []resolver.Definition
}

// Endpoint is one concrete instance pin.
type Endpoint struct {
	Inst string `json:"inst" yaml:"inst"`
	Pin  string `json:"pin" yaml:"pin"`
}

// String returns "inst.pin".
func (e Endpoint) String() string {
	return e.Inst + "." + e.Pin
}

// Instance is one concrete device instance.
type Instance struct {
	Name string     `json:"name" yaml:"name"`
	Ref  string     `json:"ref" yaml:"ref"`
	Span *diag.Span `json:"span,omitempty" yaml:"span,omitempty"`
}

// Net is one concrete net and the endpoints bound to it.
type Net struct {
	Name      string     `json:"name" yaml:"name"`
	Port      bool       `json:"port,omitempty" yaml:"port,omitempty"`
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints"`
	Span      *diag.Span `json:"span,omitempty" yaml:"span,omitempty"`
}

// Module is the flat form of a design module.
type Module struct {
	Name      string     `json:"name" yaml:"name"`
	Instances []Instance `json:"instances" yaml:"instances"`
	Nets      []Net      `json:"nets" yaml:"nets"`
}

// Result is the flat form of a design document.
type Result struct {
	File    string   `json:"file" yaml:"file"`
	Modules []Module `json:"modules" yaml:"modules"`
}

// Stats counts the records of a result.
func (r *Result) Stats() (modules, instances, nets, endpoints int) {
	for _, m := range r.Modules {
		instances += len(m.Instances)
		nets += len(m.Nets)
		for _, n := range m.Nets {
			endpoints += len(n.Endpoints)
		}
	}
	return len(r.Modules), instances, nets, endpoints
}

// Elaborate expands every module of doc.
//
// Modules are independent and elaborated concurrently. Diagnostics are
// collected from every module and returned in declaration order. The result
// always holds every record that could be built; callers decide whether
// error diagnostics make it unusable.
func Elaborate(doc *design.Document, opts Options) (*Result, diag.List) {
	reg, diags := buildRegistry(doc, opts)

	results := make([]Module, len(doc.Modules))
	moduleDiags := make([]diag.List, len(doc.Modules))

	var wg conc.WaitGroup
	for i := range doc.Modules {
		wg.Go(func() {
			e := newElaborator(&doc.Modules[i], reg, opts)
			results[i], moduleDiags[i] = e.run()
		})
	}
	wg.Wait()

	for i, d := range moduleDiags {
		logger.Debug("%s: module %s: %d instances, %d nets, %d diagnostics",
			doc.FilePath, results[i].Name, len(results[i].Instances), len(results[i].Nets), len(d))
		diags.Extend(d)
	}
	return &Result{File: doc.FilePath, Modules: results}, diags
}

// buildRegistry merges global and document patterns into one registry.
func buildRegistry(doc *design.Document, opts Options) (pattern.MapRegistry, diag.List) {
	local := make(map[string]bool, len(doc.Patterns))
	defs := make([]resolver.Definition, 0, len(opts.Patterns)+len(doc.Patterns))
	for _, p := range doc.Patterns {
		local[p.Name] = true
	}
	for _, def := range opts.Patterns {
		if local[def.Name] {
			logger.Debug("%s: pattern %s shadows the global definition", doc.FilePath, def.Name)
			continue
		}
		defs = append(defs, def)
	}
	for _, p := range doc.Patterns {
		defs = append(defs, resolver.Definition{Name: p.Name, Expr: p.Expr, Tag: p.Tag, Span: p.Span})
	}
	return resolver.BuildRegistry(defs)
}
