/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package bind provides the bind command for netpat.
package bind

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/netpat/cmd/common"
	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/pattern"
	"bennypowers.dev/netpat/report"
)

// Cmd is the bind cobra command.
var Cmd = &cobra.Command{
	Use:   "bind <net> <instance.pin>",
	Short: "Show how a net pattern connects to an endpoint pattern",
	Long: `Match the atoms of a net expression to the atoms of an endpoint expression.

Named axes used on both sides are bound label by label, and the free axes
of each side expand independently within every shared combination. With
no shared axis, a single net fans out and an equal-width net is zipped in
order.`,
	Example: `  netpat bind --pattern BIT='<3:0>' 'D<@BIT>' 'FF<@BIT>.Q'
  netpat bind VDD 'M<1:4>.S'`,
	Args: cobra.ExactArgs(2),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "table", "Output format: table, json, yaml, names")
}

func run(cmd *cobra.Command, args []string) error {
	format, err := common.Format(cmd)
	if err != nil {
		return err
	}
	reg, diags, err := common.Registry(cmd)
	if err != nil {
		return err
	}
	opts := []pattern.Option{pattern.WithRegistry(reg)}
	maxAtoms := common.MaxAtoms()

	netExpr, netNames := side(args[0], maxAtoms, opts, &diags)

	inst, pin, ok := pattern.SplitEndpoint(args[1])
	if !ok || inst == "" || pin == "" {
		return fmt.Errorf("endpoint %q must be written as instance.pin", args[1])
	}
	var (
		epExpr  *pattern.Expr
		epAtoms []pattern.EndpointAtom
	)
	if pattern.HasSyntax(args[1]) {
		var more diag.List
		epAtoms, more = pattern.AtomizeEndpoint(inst, pin, maxAtoms, opts...)
		diags.Extend(more)
		if epAtoms != nil {
			epExpr, _ = pattern.ParseEndpoint(inst, pin, opts...)
		}
	} else {
		epExpr = pattern.LiteralExpr(args[1])
		epAtoms = []pattern.EndpointAtom{{Inst: inst, Port: pin}}
	}

	if netExpr != nil && epExpr != nil {
		plan, more := pattern.Bind(netExpr, epExpr, args[0], args[1])
		diags.Extend(more)
		if plan != nil {
			b := report.NewBinding(plan, netNames, epAtoms)
			if err := report.New(cmd.OutOrStdout(), format).Plan(b); err != nil {
				return err
			}
		}
	}

	return common.Report(cmd.ErrOrStderr(), diags, false)
}

// side parses and expands the net argument. Plain names stand for themselves.
func side(raw string, maxAtoms int, opts []pattern.Option, diags *diag.List) (*pattern.Expr, []string) {
	if !pattern.HasSyntax(raw) {
		return pattern.LiteralExpr(raw), []string{raw}
	}
	e, more := pattern.Parse(raw, opts...)
	diags.Extend(more)
	if e == nil {
		return nil, nil
	}
	atoms, more := pattern.Atomize(e, maxAtoms)
	diags.Extend(more)
	if atoms == nil {
		return nil, nil
	}
	names := make([]string, len(atoms))
	for i, a := range atoms {
		names[i] = a.Literal
	}
	return e, names
}
