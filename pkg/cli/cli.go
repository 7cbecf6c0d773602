// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cli implements rtreectl, a command-line tool that builds and
// queries R*-tree index files.
package cli

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/cli/clierror"
	"github.com/cockroachdb/spatialindex/pkg/cli/exit"
	"github.com/cockroachdb/spatialindex/pkg/util/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Main is the entry point for the rtreectl binary.
func Main() {
	if err := Run(os.Args[1:]); err != nil {
		exit.WithCode(clierror.GetExitCode(err))
	}
}

var rtreectlCmd = &cobra.Command{
	Use:   "rtreectl [command] (flags)",
	Short: "build and query R*-tree index files",
	Long: `
Build and query R*-tree index files.

An index file starts with a header describing the tree, followed by the
tree nodes. Items are axis-aligned rectangles tagged with positive ids.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		log.SetVerbosity(int32(cliCtx.verbosity))
		if cliCtx.verbosity > 0 {
			log.SetStderrThreshold(log.Severity_INFO)
		} else {
			log.SetStderrThreshold(log.Severity_WARNING)
		}
		return nil
	},
}

// isInteractive indicates whether both stdin and stdout refer to the
// terminal.
var isInteractive = isatty.IsTerminal(os.Stdout.Fd()) &&
	isatty.IsTerminal(os.Stdin.Fd())

func init() {
	cobra.EnableCommandSorting = false

	rtreectlCmd.AddCommand(
		createCmd,
		insertCmd,
		deleteCmd,
		searchCmd,

		// Inspection.
		statsCmd,
		checkCmd,
	)
}

// Run executes the command line given in args. Errors are logged before
// they are returned.
func Run(args []string) error {
	rtreectlCmd.SetArgs(args)
	return clierror.CheckAndMaybeLog(rtreectlCmd.Execute(), log.Logf)
}

func newFlagError(err error) error {
	return clierror.NewError(err, exit.CommandLineFlagError())
}

// usageError reports a malformed positional argument.
func usageError(format string, args ...interface{}) error {
	return newFlagError(errors.Newf(format, args...))
}
