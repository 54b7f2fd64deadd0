/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pattern

import "slices"

// NamedPattern is a registered label sequence referenced as <@Name>.
type NamedPattern struct {
	Name   string
	Kind   GroupKind
	Labels []Label
	// Tag, when set, is the axis id shared by every pattern carrying it.
	Tag string
}

// AxisID returns the axis instantiated by references to the pattern.
func (p NamedPattern) AxisID() AxisID {
	if p.Tag != "" {
		return AxisID(p.Tag)
	}
	return AxisID(p.Name)
}

// Registry resolves named pattern references. Implementations must be
// safe for concurrent reads.
type Registry interface {
	Lookup(name string) (NamedPattern, bool)
}

// MapRegistry is a Registry backed by a map built once per compilation unit.
type MapRegistry map[string]NamedPattern

// Lookup implements Registry.
func (r MapRegistry) Lookup(name string) (NamedPattern, bool) {
	p, ok := r[name]
	if !ok {
		return NamedPattern{}, false
	}
	p.Labels = slices.Clone(p.Labels)
	return p, true
}

// Named builds a NamedPattern from an expression consisting of a single group.
func Named(name, tag string, e *Expr) (NamedPattern, bool) {
	g, ok := e.Single()
	if !ok {
		return NamedPattern{}, false
	}
	return NamedPattern{
		Name:   name,
		Kind:   g.Kind,
		Labels: slices.Clone(g.Labels),
		Tag:    tag,
	}, true
}
