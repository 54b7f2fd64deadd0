/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package expand provides the expand command for netpat.
package expand

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/netpat/cmd/common"
	"bennypowers.dev/netpat/pattern"
	"bennypowers.dev/netpat/report"
)

// Cmd is the expand cobra command.
var Cmd = &cobra.Command{
	Use:   "expand <pattern>...",
	Short: "Expand pattern expressions into names",
	Long: `Expand each pattern expression into the ordered list of names it denotes.

Named patterns referenced as <@NAME> are declared with --pattern NAME=EXPR.`,
	Example: `  netpat expand 'DATA<7:0>'
  netpat expand --pattern LANE=<P|N> 'IN<@LANE>;CLK' --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "names", "Output format: table, json, yaml, names")
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

	w := report.New(cmd.OutOrStdout(), format)
	for _, raw := range args {
		e, parseDiags := pattern.Parse(raw, pattern.WithRegistry(reg))
		diags.Extend(parseDiags)
		if e == nil {
			continue
		}
		atoms, atomDiags := pattern.Atomize(e, common.MaxAtoms())
		diags.Extend(atomDiags)
		if atoms == nil {
			continue
		}
		if err := w.Atoms(atoms); err != nil {
			return err
		}
	}

	return common.Report(cmd.ErrOrStderr(), diags, false)
}

