/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package check provides the check command for netpat.
package check

import (
	"fmt"
	"io"

	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/netpat/cmd/common"
	"bennypowers.dev/netpat/config"
	"bennypowers.dev/netpat/design"
	"bennypowers.dev/netpat/diag"
	"bennypowers.dev/netpat/elaborate"
	"bennypowers.dev/netpat/fs"
	"bennypowers.dev/netpat/internal/logger"
	"bennypowers.dev/netpat/report"
	"bennypowers.dev/netpat/resolver"
)

// Cmd is the check cobra command.
var Cmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Elaborate design files and report pattern problems",
	Long: `Expand every patterned instance, net and endpoint name in the given design
files and report all diagnostics. Without arguments the files listed in
.config/netpat.{yaml,yml,json} are checked.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "names", "Diagnostic format: table, json, yaml, names")
	Cmd.Flags().Bool("flat", false, "Print the elaborated connectivity of each file")
	Cmd.Flags().Bool("quiet", false, "Only output diagnostics")
}

// fileResult is the outcome of checking one design file.
type fileResult struct {
	path   string
	result *elaborate.Result
	diags  diag.List
	err    error
}

func run(cmd *cobra.Command, args []string) error {
	format, err := common.Format(cmd)
	if err != nil {
		return err
	}
	flat, _ := cmd.Flags().GetBool("flat")
	quiet, _ := cmd.Flags().GetBool("quiet")

	filesystem := fs.NewOSFileSystem()

	// Load config from .config/netpat.{yaml,yml,json}
	cfg := config.LoadOrDefault(filesystem, ".")

	files := args
	if len(files) == 0 {
		expanded, err := cfg.ExpandFiles(filesystem, ".")
		if err != nil {
			return fmt.Errorf("error expanding config files: %w", err)
		}
		files = expanded
	}
	if len(files) == 0 {
		return fmt.Errorf("no files specified and no files found in config")
	}

	flagDefs, err := common.Definitions(cmd)
	if err != nil {
		return err
	}
	strict := cfg.Strict || viper.GetBool(common.KeyStrict)

	results := iter.Map(files, func(path *string) fileResult {
		return checkFile(filesystem, cfg, *path, flagDefs)
	})

	out := cmd.OutOrStdout()
	w := report.New(out, format)
	var all diag.List
	failed := false
	var totals [4]int
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error checking %s: %v\n", r.path, r.err)
			failed = true
			continue
		}
		if !quiet && format == report.Names {
			fmt.Fprintf(out, "Checking %s...\n", r.path)
		}
		if format == report.Names || format == report.Table {
			if err := w.Diagnostics(r.diags); err != nil {
				return err
			}
		}
		if flat {
			if err := w.Result(r.result); err != nil {
				return err
			}
		}
		all.Extend(r.diags)
		m, i, n, e := r.result.Stats()
		totals[0] += m
		totals[1] += i
		totals[2] += n
		totals[3] += e
	}

	if format == report.JSON || format == report.YAML {
		if err := w.Diagnostics(all); err != nil {
			return err
		}
	} else if !quiet {
		summary(out, len(files), totals, all)
	}

	if failed {
		return fmt.Errorf("some files could not be checked")
	}
	if all.HasErrors() || (strict && len(all) > 0) {
		return common.ErrDiagnostics
	}
	return nil
}

func checkFile(filesystem fs.FileSystem, cfg *config.Config, path string, flagDefs []resolver.Definition) fileResult {
	doc, err := design.NewLoader().LoadFile(filesystem, path)
	if err != nil {
		return fileResult{path: path, err: err}
	}

	opts := cfg.OptionsForFile(".", path)
	if viper.IsSet(common.KeyMaxAtoms) {
		opts.MaxAtoms = viper.GetInt(common.KeyMaxAtoms)
	}
	if viper.IsSet(common.KeyFoldCase) {
		opts.FoldCase = viper.GetBool(common.KeyFoldCase)
	}
	opts.Patterns = override(opts.Patterns, flagDefs)

	logger.Debug("checking %s with maxAtoms=%d foldCase=%t", path, opts.MaxAtoms, opts.FoldCase)
	res, diags := elaborate.Elaborate(doc, opts)
	return fileResult{path: path, result: res, diags: diags}
}

// override replaces config definitions with flag definitions of the same name.
func override(defs, flagDefs []resolver.Definition) []resolver.Definition {
	if len(flagDefs) == 0 {
		return defs
	}
	named := make(map[string]bool, len(flagDefs))
	for _, d := range flagDefs {
		named[d.Name] = true
	}
	out := make([]resolver.Definition, 0, len(defs)+len(flagDefs))
	for _, d := range defs {
		if !named[d.Name] {
			out = append(out, d)
		}
	}
	return append(out, flagDefs...)
}

func summary(w io.Writer, files int, totals [4]int, diags diag.List) {
	fmt.Fprintf(w, "\nChecked %d file(s): %d modules, %d instances, %d nets, %d connections\n",
		files, totals[0], totals[1], totals[2], totals[3])
	fmt.Fprintf(w, "%d error(s), %d warning(s)\n", diags.Count(diag.Error), diags.Count(diag.Warning))
}
