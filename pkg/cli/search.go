// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/spatialindex/pkg/rtree"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <path> <coordinates>...",
	Short: "list the items overlapping a rectangle",
	Long: `
List the items whose rectangles overlap the query rectangle, given as
the low corner followed by the high corner. Items touching the query on
an edge are included.

Negative coordinates must follow a "--" argument.
`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	if cliCtx.limit < 0 {
		return usageError("--limit must not be negative")
	}
	return withIndex(args[0], false /* save */, func(idx *indexFile) error {
		q, err := parseRect(args[1:], idx.tree.NumDims())
		if err != nil {
			return newFlagError(err)
		}
		var rows [][]string
		var seen int
		n, err := idx.tree.Search(q, func(id int64, r rtree.Rect) bool {
			if !cliCtx.countOnly {
				rows = append(rows, []string{strconv.FormatInt(id, 10), r.String()})
			}
			seen++
			return cliCtx.limit == 0 || seen < cliCtx.limit
		})
		if err != nil {
			return err
		}
		if cliCtx.countOnly {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		}
		return printQueryOutput(cmd.OutOrStdout(), []string{"id", "rect"}, rows, cliCtx.tableDisplayFormat)
	})
}
