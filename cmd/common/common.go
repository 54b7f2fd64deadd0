/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package common holds the flag handling shared by netpat commands.
package common

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/pattern"
	"bennypowers.dev/netpat/report"
	"bennypowers.dev/netpat/resolver"
)

// Viper keys for settings that config files and flags share.
const (
	KeyMaxAtoms = "maxAtoms"
	KeyStrict   = "strict"
	KeyFoldCase = "foldCase"
	KeyVerbose  = "verbose"
)

// ErrDiagnostics is returned by commands whose input produced error diagnostics.
var ErrDiagnostics = errors.New("input has errors")

// ParseDefinitions parses NAME=EXPR or NAME#TAG=EXPR pattern flags.
func ParseDefinitions(values []string) ([]resolver.Definition, error) {
	defs := make([]resolver.Definition, 0, len(values))
	for _, v := range values {
		name, expr, ok := strings.Cut(v, "=")
		if !ok || name == "" || expr == "" {
			return nil, fmt.Errorf("invalid pattern %q: expected NAME=EXPR", v)
		}
		name, tag, _ := strings.Cut(name, "#")
		defs = append(defs, resolver.Definition{
			Name: strings.TrimSpace(name),
			Expr: strings.TrimSpace(expr),
			Tag:  strings.TrimSpace(tag),
		})
	}
	return defs, nil
}

// Definitions returns the named patterns given with --pattern.
func Definitions(cmd *cobra.Command) ([]resolver.Definition, error) {
	values, err := cmd.Flags().GetStringArray("pattern")
	if err != nil {
		return nil, fmt.Errorf("error reading pattern flag: %w", err)
	}
	return ParseDefinitions(values)
}

// Registry builds the registry of the named patterns given with --pattern.
func Registry(cmd *cobra.Command) (pattern.MapRegistry, diag.List, error) {
	defs, err := Definitions(cmd)
	if err != nil {
		return nil, nil, err
	}
	reg, diags := resolver.BuildRegistry(defs)
	return reg, diags, nil
}

// Format returns the output format given with --format.
func Format(cmd *cobra.Command) (report.Format, error) {
	name, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("error reading format flag: %w", err)
	}
	return report.ParseFormat(name)
}

// MaxAtoms returns the atom cap from flags or config.
func MaxAtoms() int {
	return viper.GetInt(KeyMaxAtoms)
}

// Report writes diagnostics one per line to w and returns ErrDiagnostics
// when any of them is an error, or any at all when strict is set.
func Report(w io.Writer, diags diag.List, strict bool) error {
	if err := report.New(w, report.Names).Diagnostics(diags); err != nil {
		return err
	}
	if diags.HasErrors() || (strict && len(diags) > 0) {
		return ErrDiagnostics
	}
	return nil
}
