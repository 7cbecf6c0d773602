// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <path>",
	Short: "create an empty index file",
	Long: `
Create an empty index file. The number of dimensions, the node
capacities and the split algorithm are stored in the file header and
cannot be changed later.
`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	idx, err := createIndex(args[0], cliCtx.dims, cliCtx.options(), cliCtx.force)
	if err != nil {
		return err
	}
	defer idx.close()
	h := idx.tree.Header()
	overflow := "forced reinsertion"
	if !h.Overflow {
		overflow = "no forced reinsertion"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s: %d dimensions, node capacity %d, leaf capacity %d, %s split, %s\n",
		idx.path, h.NumDims, h.NodeCard, h.LeafCard, h.SplitMethod, overflow)
	return nil
}
