// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/cli/cliflags"
	"github.com/cockroachdb/spatialindex/pkg/rtree"
	"github.com/cockroachdb/spatialindex/pkg/util/envutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddPersistentPreRunE add 'fn' as a persistent pre-run function to 'cmd'.
// If the command has an existing pre-run function, it is saved and will be called
// at the beginning of 'fn'.
func AddPersistentPreRunE(cmd *cobra.Command, fn func(*cobra.Command, []string) error) {
	wrapped := cmd.PersistentPreRunE

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if wrapped != nil {
			if err := wrapped(cmd, args); err != nil {
				return err
			}
		}
		return fn(cmd, args)
	}
}

func setFlagFromEnv(f *pflag.FlagSet, flagInfo cliflags.FlagInfo) {
	if flagInfo.EnvVar != "" {
		if value, set := envutil.EnvString(flagInfo.EnvVar); set {
			if err := f.Set(flagInfo.Name, value); err != nil {
				panic(err)
			}
		}
	}
}

// StringFlag creates a string flag and registers it with the FlagSet.
func StringFlag(f *pflag.FlagSet, valPtr *string, flagInfo cliflags.FlagInfo) {
	f.StringVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

// IntFlag creates an int flag and registers it with the FlagSet.
func IntFlag(f *pflag.FlagSet, valPtr *int, flagInfo cliflags.FlagInfo) {
	f.IntVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

// BoolFlag creates a bool flag and registers it with the FlagSet.
func BoolFlag(f *pflag.FlagSet, valPtr *bool, flagInfo cliflags.FlagInfo) {
	f.BoolVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

// VarFlag creates a custom-variable flag and registers it with the FlagSet.
func VarFlag(f *pflag.FlagSet, value pflag.Value, flagInfo cliflags.FlagInfo) {
	f.VarP(value, flagInfo.Name, flagInfo.Shorthand, flagInfo.Usage())

	setFlagFromEnv(f, flagInfo)
}

// splitMethodValue adapts rtree.SplitMethod to pflag.Value.
type splitMethodValue rtree.SplitMethod

var _ pflag.Value = (*splitMethodValue)(nil)

func (s *splitMethodValue) String() string { return rtree.SplitMethod(*s).String() }
func (s *splitMethodValue) Type() string   { return "string" }

func (s *splitMethodValue) Set(v string) error {
	m, err := rtree.ParseSplitMethod(strings.ToLower(v))
	if err != nil {
		return err
	}
	*s = splitMethodValue(m)
	return nil
}

func init() {
	setCLIDefaults()

	pf := rtreectlCmd.PersistentFlags()
	IntFlag(pf, &cliCtx.verbosity, cliflags.Verbosity)

	{
		f := createCmd.Flags()
		IntFlag(f, &cliCtx.dims, cliflags.Dims)
		IntFlag(f, &cliCtx.nodeCard, cliflags.NodeCard)
		IntFlag(f, &cliCtx.leafCard, cliflags.LeafCard)
		VarFlag(f, &cliCtx.split, cliflags.SplitMethod)
		BoolFlag(f, &cliCtx.noOverflow, cliflags.NoOverflow)
		BoolFlag(f, &cliCtx.force, cliflags.Force)
	}

	{
		f := insertCmd.Flags()
		StringFlag(f, &cliCtx.input, cliflags.Input)
		BoolFlag(f, &cliCtx.geojson, cliflags.GeoJSON)
	}

	for _, cmd := range []*cobra.Command{searchCmd, statsCmd} {
		VarFlag(cmd.Flags(), &cliCtx.tableDisplayFormat, cliflags.TableDisplayFormat)
	}
	{
		f := searchCmd.Flags()
		IntFlag(f, &cliCtx.limit, cliflags.Limit)
		BoolFlag(f, &cliCtx.countOnly, cliflags.CountOnly)
	}
	{
		f := statsCmd.Flags()
		BoolFlag(f, &cliCtx.metrics, cliflags.Metrics)
		StringFlag(f, &cliCtx.graphiteEndpoint, cliflags.GraphiteEndpoint)
	}

	rtreectlCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(newFlagError(err), "invalid arguments")
	})
}
