/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package report renders engine output for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/elaborate"
	"bennypowers.dev/netpat/pattern"
)

// Format selects how records are rendered.
type Format string

const (
	// Table renders an aligned table.
	Table Format = "table"
	// JSON renders indented JSON.
	JSON Format = "json"
	// YAML renders a YAML document.
	YAML Format = "yaml"
	// Names renders one name per line.
	Names Format = "names"
)

// Formats lists every supported format.
var Formats = []Format{Table, JSON, YAML, Names}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (expected table, json, yaml or names)", s)
}

// Writer renders records to an output stream in one format.
type Writer struct {
	out    io.Writer
	format Format
	title  cases.Caser
}

// New returns a Writer rendering to out.
func New(out io.Writer, format Format) *Writer {
	return &Writer{out: out, format: format, title: cases.Title(language.English)}
}

// Atoms renders the atoms of one expression.
func (w *Writer) Atoms(atoms []pattern.Atom) error {
	if atoms == nil {
		atoms = []pattern.Atom{}
	}
	switch w.format {
	case JSON, YAML:
		return w.encode(atoms)
	case Names:
		for _, a := range atoms {
			fmt.Fprintln(w.out, a.Literal)
		}
		return nil
	}

	t := w.table("literal", "segment", "base name", "parts")
	for _, a := range atoms {
		t.AppendRow(table.Row{a.Literal, a.SegmentIndex, a.BaseName, labels(a.Parts)})
	}
	t.Render()
	return nil
}

// Endpoints renders the atoms of one endpoint expression.
func (w *Writer) Endpoints(atoms []pattern.EndpointAtom) error {
	if atoms == nil {
		atoms = []pattern.EndpointAtom{}
	}
	switch w.format {
	case JSON, YAML:
		return w.encode(atoms)
	case Names:
		for _, a := range atoms {
			fmt.Fprintln(w.out, a.String())
		}
		return nil
	}

	t := w.table("instance", "pin", "segment", "parts")
	for _, a := range atoms {
		t.AppendRow(table.Row{a.Inst, a.Port, a.SegmentIndex, labels(a.Parts)})
	}
	t.Render()
	return nil
}

// Binding is a plan together with the atoms it indexes.
type Binding struct {
	Net       string   `json:"net" yaml:"net"`
	Endpoint  string   `json:"endpoint" yaml:"endpoint"`
	Shared    []string `json:"shared,omitempty" yaml:"shared,omitempty"`
	Pairs     []string `json:"pairs" yaml:"pairs"`
	netNames  []string
	endpoints []string
}

// NewBinding resolves the indices of plan against the atoms they refer to.
func NewBinding(plan *pattern.Plan, nets []string, endpoints []pattern.EndpointAtom) Binding {
	b := Binding{
		Net:      plan.NetID,
		Endpoint: plan.EndpointID,
		Pairs:    make([]string, 0, plan.Len()),
	}
	for _, id := range plan.Shared {
		b.Shared = append(b.Shared, string(id))
	}
	for _, p := range plan.Pairs {
		net, ep := nets[p.Net], endpoints[p.Endpoint].String()
		b.netNames = append(b.netNames, net)
		b.endpoints = append(b.endpoints, ep)
		b.Pairs = append(b.Pairs, net+" "+ep)
	}
	return b
}

// Plan renders a binding.
func (w *Writer) Plan(b Binding) error {
	switch w.format {
	case JSON, YAML:
		return w.encode(b)
	case Names:
		for _, p := range b.Pairs {
			fmt.Fprintln(w.out, p)
		}
		return nil
	}

	t := w.table("net", "endpoint")
	if len(b.Shared) > 0 {
		t.SetCaption("shared axes: %s", strings.Join(b.Shared, ", "))
	}
	for i := range b.netNames {
		t.AppendRow(table.Row{b.netNames[i], b.endpoints[i]})
	}
	t.Render()
	return nil
}

// Diagnostics renders a diagnostic list.
func (w *Writer) Diagnostics(diags diag.List) error {
	if diags == nil {
		diags = diag.List{}
	}
	switch w.format {
	case JSON, YAML:
		return w.encode(diags)
	case Names:
		for _, d := range diags {
			fmt.Fprintln(w.out, d.Error())
		}
		return nil
	}

	if len(diags) == 0 {
		return nil
	}
	t := w.table("location", "severity", "code", "message")
	for _, d := range diags {
		loc := "-"
		if d.Span != nil && d.Span.IsValid() {
			loc = d.Span.String()
		}
		msg := d.Message
		if d.Hint != "" {
			msg += "\n" + d.Hint
		}
		t.AppendRow(table.Row{loc, d.Severity, d.Code, msg})
	}
	t.Render()
	return nil
}

// Result renders the flat connectivity of an elaborated document.
func (w *Writer) Result(res *elaborate.Result) error {
	switch w.format {
	case JSON, YAML:
		return w.encode(res)
	case Names:
		for _, m := range res.Modules {
			for _, n := range m.Nets {
				fmt.Fprintln(w.out, strings.TrimSpace(m.Name+"."+n.Name+" "+endpoints(n.Endpoints)))
			}
		}
		return nil
	}

	t := w.table("module", "net", "port", "endpoints")
	t.SetTitle("%s", res.File)
	for _, m := range res.Modules {
		for _, n := range m.Nets {
			port := ""
			if n.Port {
				port = "yes"
			}
			t.AppendRow(table.Row{m.Name, n.Name, port, endpoints(n.Endpoints)})
		}
	}
	t.Render()
	return nil
}

func (w *Writer) table(headers ...string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.Style().Format.Header = text.FormatDefault

	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = w.title.String(h)
	}
	t.AppendHeader(row)
	return t
}

func (w *Writer) encode(v any) error {
	if w.format == YAML {
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("error encoding yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func labels(parts []pattern.Label) string {
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.Text
	}
	return strings.Join(texts, ",")
}

func endpoints(eps []elaborate.Endpoint) string {
	texts := make([]string, len(eps))
	for i, ep := range eps {
		texts[i] = ep.String()
	}
	return strings.Join(texts, " ")
}
