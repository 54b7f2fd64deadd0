/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package endpoints provides the endpoints command for netpat.
package endpoints

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/netpat/cmd/common"
	"bennypowers.dev/netpat/pattern"
	"bennypowers.dev/netpat/report"
)

// Cmd is the endpoints cobra command.
var Cmd = &cobra.Command{
	Use:   "endpoints <instance> <pin>",
	Short: "Expand an instance and pin pattern into endpoints",
	Long: `Expand the instance and pin sides of an endpoint into every concrete
instance.pin pair. Instance atoms vary slowest.`,
	Example: `  netpat endpoints 'U<1:2>' 'D<1:0>'`,
	Args:    cobra.ExactArgs(2),
	RunE:    run,
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

	atoms, more := pattern.AtomizeEndpoint(args[0], args[1], common.MaxAtoms(), pattern.WithRegistry(reg))
	diags.Extend(more)
	if atoms != nil {
		if err := report.New(cmd.OutOrStdout(), format).Endpoints(atoms); err != nil {
			return err
		}
	}

	return common.Report(cmd.ErrOrStderr(), diags, false)
}
