/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for netpat.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/netpat/cmd/bind"
	"bennypowers.dev/netpat/cmd/check"
	"bennypowers.dev/netpat/cmd/common"
	"bennypowers.dev/netpat/cmd/endpoints"
	"bennypowers.dev/netpat/cmd/expand"
	"bennypowers.dev/netpat/cmd/version"
	"bennypowers.dev/netpat/internal/logger"
	"bennypowers.dev/netpat/pattern"
)

var rootCmd = &cobra.Command{
	Use:   "netpat",
	Short: "Expand bus and array name patterns in circuit descriptions",
	Long: `netpat expands patterned names such as DATA<7:0> or MN<P|N>.G into the
concrete nets, instances and connections of a circuit description.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(viper.GetBool(common.KeyVerbose))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringArrayP("pattern", "p", nil, "Named pattern as NAME=EXPR or NAME#TAG=EXPR (repeatable)")
	flags.Int("max-atoms", pattern.DefaultMaxAtoms, "Maximum names a single pattern may expand to")
	flags.Bool("strict", false, "Fail on warnings")
	flags.Bool("fold-case", false, "Compare names case-insensitively")
	flags.BoolP("verbose", "v", false, "Print debug output")

	_ = viper.BindPFlag(common.KeyMaxAtoms, flags.Lookup("max-atoms"))
	_ = viper.BindPFlag(common.KeyStrict, flags.Lookup("strict"))
	_ = viper.BindPFlag(common.KeyFoldCase, flags.Lookup("fold-case"))
	_ = viper.BindPFlag(common.KeyVerbose, flags.Lookup("verbose"))

	rootCmd.AddCommand(expand.Cmd)
	rootCmd.AddCommand(endpoints.Cmd)
	rootCmd.AddCommand(bind.Cmd)
	rootCmd.AddCommand(check.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
