/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package design

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/fs"
)

// Loader parses design documents written in YAML, JSON or JSON with comments.
//
//	patterns:
//	  BIT: "<3:0>"
//	  LANE: {expr: "<P|N>", tag: diff}
//	modules:
//	  inv:
//	    instances:
//	      MN<P|N>: nmos
//	    nets:
//	      $OUT<P|N>: [MN<P|N>.D]
type Loader struct{}

// NewLoader creates a new design loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads and parses the design file at path.
func (l *Loader) LoadFile(filesystem fs.FileSystem, path string) (*Document, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", path)
	}
	doc, err := l.Parse(data, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse file %s", path)
	}
	return doc, nil
}

// Parse parses design data. path is recorded in spans and error messages.
func (l *Loader) Parse(data []byte, path string) (*Document, error) {
	// jsonc.ToJSON blanks comments in place, so positions survive.
	if isLikelyJSON(data) {
		data = jsonc.ToJSON(data)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "invalid document")
	}

	doc := &Document{FilePath: path}
	if len(root.Content) == 0 {
		return doc, nil
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, nodeError(top, "design root must be a mapping")
	}

	w := &walker{path: path}
	for i := 0; i < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		var err error
		switch key.Value {
		case "patterns":
			doc.Patterns, err = w.patterns(value)
		case "modules":
			doc.Modules, err = w.modules(value)
		default:
			err = nodeError(key, "unknown top-level key %q", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// isLikelyJSON checks if data appears to be JSON rather than YAML.
func isLikelyJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case 0xEF, 0xBB, 0xBF: // UTF-8 BOM
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

type walker struct {
	path string
}

// span locates the text of a scalar node, skipping an opening quote.
func (w *walker) span(n *yaml.Node) *diag.Span {
	col := n.Column
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		col++
	}
	return &diag.Span{File: w.path, Line: n.Line, Col: col, EndCol: col + len(n.Value)}
}

func (w *walker) name(n *yaml.Node) Name {
	return Name{Raw: n.Value, Span: w.span(n)}
}

func (w *walker) patterns(n *yaml.Node) ([]PatternDef, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "patterns must be a mapping of name to pattern")
	}
	var defs []PatternDef
	for i := 0; i < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		def := PatternDef{Name: key.Value, Span: w.span(key)}
		switch value.Kind {
		case yaml.ScalarNode:
			def.Expr = value.Value
			def.Span = w.span(value)
		case yaml.MappingNode:
			var body struct {
				Expr string `yaml:"expr"`
				Tag  string `yaml:"tag"`
			}
			if err := value.Decode(&body); err != nil {
				return nil, errors.Wrapf(err, "pattern %q", key.Value)
			}
			if body.Expr == "" {
				return nil, nodeError(value, "pattern %q has no expr", key.Value)
			}
			def.Expr, def.Tag = body.Expr, body.Tag
			if expr := lookup(value, "expr"); expr != nil {
				def.Span = w.span(expr)
			}
		default:
			return nil, nodeError(value, "pattern %q must be a string or a mapping", key.Value)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (w *walker) modules(n *yaml.Node) ([]Module, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "modules must be a mapping of module name to module")
	}
	var mods []Module
	for i := 0; i < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		mod, err := w.module(key, value)
		if err != nil {
			return nil, err
		}
		mods = append(mods, mod)
	}
	return mods, nil
}

func (w *walker) module(key, n *yaml.Node) (Module, error) {
	mod := Module{Name: key.Value, Span: w.span(key)}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return mod, nil
	}
	if n.Kind != yaml.MappingNode {
		return mod, nodeError(n, "module %q must be a mapping", key.Value)
	}
	for i := 0; i < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		var err error
		switch k.Value {
		case "instances":
			mod.Instances, err = w.instances(mod.Name, v)
		case "nets":
			mod.Nets, err = w.nets(mod.Name, v)
		default:
			err = nodeError(k, "unknown key %q in module %q", k.Value, mod.Name)
		}
		if err != nil {
			return mod, err
		}
	}
	return mod, nil
}

func (w *walker) instances(module string, n *yaml.Node) ([]Instance, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "instances of module %q must be a mapping of name to device", module)
	}
	var insts []Instance
	for i := 0; i < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, nodeError(value, "instance %q must name a device", key.Value)
		}
		insts = append(insts, Instance{Name: w.name(key), Ref: value.Value})
	}
	return insts, nil
}

func (w *walker) nets(module string, n *yaml.Node) ([]Net, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeError(n, "nets of module %q must be a mapping of name to endpoints", module)
	}
	var nets []Net
	for i := 0; i < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		net := Net{Name: w.name(key)}
		if raw, ok := strings.CutPrefix(net.Name.Raw, PortPrefix); ok {
			net.Port = true
			net.Name.Raw = raw
			shifted := net.Name.Span.Shift(len(PortPrefix), len(raw))
			net.Name.Span = &shifted
		}

		switch value.Kind {
		case yaml.ScalarNode:
			if value.Tag != "!!null" {
				net.Endpoints = append(net.Endpoints, w.name(value))
			}
		case yaml.SequenceNode:
			for _, item := range value.Content {
				if item.Kind != yaml.ScalarNode {
					return nil, nodeError(item, "endpoints of net %q must be strings", key.Value)
				}
				net.Endpoints = append(net.Endpoints, w.name(item))
			}
		default:
			return nil, nodeError(value, "net %q must list its endpoints", key.Value)
		}
		nets = append(nets, net)
	}
	return nets, nil
}

// lookup returns the value node of key in a mapping node.
func lookup(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func nodeError(n *yaml.Node, format string, args ...any) error {
	return errors.Wrapf(errors.Errorf(format, args...), "line %d, column %d", n.Line, n.Column)
}
