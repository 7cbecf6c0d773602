// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/cli/clierror"
	"github.com/cockroachdb/spatialindex/pkg/cli/exit"
	"github.com/cockroachdb/spatialindex/pkg/util/humanizeutil"
	"github.com/cockroachdb/spatialindex/pkg/util/log"
	"github.com/cockroachdb/spatialindex/pkg/util/metric"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <path>",
	Short: "describe the shape of an index",
	Long: `
Print the layout of an index and the number of nodes and branches at
each level of the tree, leaves first.
`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "verify the structure of an index",
	Long: `
Walk the whole index and verify its structural invariants. The command
exits with a non-zero status if the index is damaged.
`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	return withIndex(args[0], false /* save */, func(idx *indexFile) error {
		st, err := idx.tree.Stats()
		if err != nil {
			return err
		}
		h := idx.tree.Header()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "dimensions: %d\n", h.NumDims)
		fmt.Fprintf(w, "capacity: %d per node, %d per leaf\n", h.NodeCard, h.LeafCard)
		fmt.Fprintf(w, "split: %s\n", h.SplitMethod)
		fmt.Fprintf(w, "forced reinsertion: %t\n", h.Overflow)
		fmt.Fprintf(w, "height: %d\n", st.Height)
		fmt.Fprintf(w, "items: %s\n", humanizeutil.Count(st.Items))
		fmt.Fprintf(w, "file size: %s\n", humanizeutil.IBytes(st.FileSize))
		fmt.Fprintf(w, "free nodes: %d\n", st.FreeNodes)

		rows := make([][]string, 0, len(st.Nodes))
		for level := range st.Nodes {
			rows = append(rows, []string{
				strconv.Itoa(level), strconv.Itoa(st.Nodes[level]), strconv.Itoa(st.Branches[level]),
			})
		}
		if err := printQueryOutput(w, []string{"level", "nodes", "branches"}, rows, cliCtx.tableDisplayFormat); err != nil {
			return err
		}

		if !cliCtx.metrics && cliCtx.graphiteEndpoint == "" {
			return nil
		}
		registry := metric.NewRegistry()
		registry.AddMetricStruct(idx.tree.Metrics())
		pm := metric.MakePrometheusExporter()
		if cliCtx.metrics {
			pm.ScrapeRegistry(registry)
			if err := pm.PrintAsText(w); err != nil {
				return err
			}
		}
		if cliCtx.graphiteEndpoint != "" {
			pm.ScrapeRegistry(registry)
			ge := metric.MakeGraphiteExporter(&pm)
			if err := ge.Push(ctx, cliCtx.graphiteEndpoint); err != nil {
				return errors.Wrapf(err, "pushing metrics to %s", cliCtx.graphiteEndpoint)
			}
			log.Infof(ctx, "pushed metrics to %s", cliCtx.graphiteEndpoint)
		}
		return nil
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	return withIndex(args[0], false /* save */, func(idx *indexFile) error {
		if err := idx.tree.Check(); err != nil {
			return clierror.NewError(errors.Wrapf(err, "checking %s", idx.path), exit.CheckFailed())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %s items\n", idx.path, humanizeutil.Count(idx.tree.Len()))
		return nil
	})
}
