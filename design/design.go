/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package design loads circuit design documents and extracts raw names with
// their source locations.
package design

import (
	"bennypowers.dev/netpat/diag"
)

// PortPrefix marks a net key as a module port.
const PortPrefix = "$"

// Name is a raw, possibly patterned, name as written in a design.
type Name struct {
	// Raw is the text as written, without any port prefix.
	Raw string `json:"raw" yaml:"raw"`

	// Span locates Raw in its document.
	Span *diag.Span `json:"span,omitempty" yaml:"span,omitempty"`
}

// Instance declares one or more device instances.
type Instance struct {
	Name Name `json:"name" yaml:"name"`

	// Ref names the device or module being instantiated.
	Ref string `json:"ref" yaml:"ref"`
}

// Net declares one or more nets and the endpoints they connect.
type Net struct {
	Name Name `json:"name" yaml:"name"`

	// Port is set for nets declared with the "$" prefix.
	Port bool `json:"port,omitempty" yaml:"port,omitempty"`

	// Endpoints are "inst.pin" strings.
	Endpoints []Name `json:"endpoints" yaml:"endpoints"`
}

// Module is a named collection of instances and nets.
type Module struct {
	Name      string     `json:"name" yaml:"name"`
	Span      *diag.Span `json:"span,omitempty" yaml:"span,omitempty"`
	Instances []Instance `json:"instances" yaml:"instances"`
	Nets      []Net      `json:"nets" yaml:"nets"`
}

// PatternDef declares a named pattern in a design document.
type PatternDef struct {
	Name string     `json:"name" yaml:"name"`
	Expr string     `json:"expr" yaml:"expr"`
	Tag  string     `json:"tag,omitempty" yaml:"tag,omitempty"`
	Span *diag.Span `json:"span,omitempty" yaml:"span,omitempty"`
}

// Document is one loaded design file.
type Document struct {
	// FilePath is the file this document was loaded from.
	FilePath string       `json:"file" yaml:"file"`
	Patterns []PatternDef `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Modules  []Module     `json:"modules" yaml:"modules"`
}

// Module returns the module with the given name.
func (d *Document) Module(name string) (*Module, bool) {
	for i := range d.Modules {
		if d.Modules[i].Name == name {
			return &d.Modules[i], true
		}
	}
	return nil, false
}
