/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package diag provides severity-tagged diagnostics with source spans.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Span locates a name in its source document.
// Line and columns are 1-based; EndCol is exclusive. The zero value is unknown.
type Span struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line" yaml:"line"`
	Col    int    `json:"col" yaml:"col"`
	EndCol int    `json:"endCol,omitempty" yaml:"endCol,omitempty"`
}

// IsValid reports whether the span points at a line.
func (s Span) IsValid() bool {
	return s.Line > 0
}

// Shift returns the span moved n bytes to the right, narrowed to width bytes.
// A width <= 0 leaves the end column unset.
func (s Span) Shift(n, width int) Span {
	if !s.IsValid() {
		return s
	}
	out := s
	out.Col = s.Col + n
	out.EndCol = 0
	if width > 0 {
		out.EndCol = out.Col + width
	}
	return out
}

// String formats the span as "file:line:col", or "line:col" without a file.
func (s Span) String() string {
	if s.File != "" {
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Col)
}

// Diagnostic is a single problem report.
type Diagnostic struct {
	Code     Code     `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Span     *Span    `json:"span,omitempty" yaml:"span,omitempty"`
	// Hint suggests a fix, when one is obvious.
	Hint string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// Errorf builds an error-severity diagnostic.
func Errorf(code Code, span *Span, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: Error, Message: fmt.Sprintf(format, args...), Span: span}
}

// Warnf builds a warning-severity diagnostic.
func Warnf(code Code, span *Span, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: Warning, Message: fmt.Sprintf(format, args...), Span: span}
}

// WithHint returns a copy of d carrying the given hint.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	d.Hint = hint
	return d
}

// Error implements the error interface.
func (d Diagnostic) Error() string {
	var sb strings.Builder
	if d.Span != nil && d.Span.IsValid() {
		sb.WriteString(d.Span.String())
		sb.WriteString(": ")
	}
	sb.WriteString(d.Severity.String())
	sb.WriteString(" ")
	sb.WriteString(string(d.Code))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	if d.Hint != "" {
		sb.WriteString(" (")
		sb.WriteString(d.Hint)
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap returns the sentinel error of the diagnostic's class.
func (d Diagnostic) Unwrap() error {
	return d.Code.Class()
}

// List is an ordered batch of diagnostics.
type List []Diagnostic

// Add appends diagnostics to the list.
func (l *List) Add(ds ...Diagnostic) {
	*l = append(*l, ds...)
}

// Extend appends every diagnostic of other to the list.
func (l *List) Extend(other List) {
	*l = append(*l, other...)
}

// HasErrors reports whether any diagnostic has error severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with the given severity.
func (l List) Count(sev Severity) int {
	n := 0
	for _, d := range l {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// WithCode returns the diagnostics carrying the given code.
func (l List) WithCode(code Code) List {
	var out List
	for _, d := range l {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Err joins the error-severity diagnostics into a single error, or returns nil.
func (l List) Err() error {
	var errs []error
	for _, d := range l {
		if d.Severity == Error {
			errs = append(errs, d)
		}
	}
	return errors.Join(errs...)
}
