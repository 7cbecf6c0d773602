// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/geo/georect"
	"github.com/cockroachdb/spatialindex/pkg/rtree"
	"github.com/cockroachdb/spatialindex/pkg/util/humanizeutil"
	"github.com/cockroachdb/spatialindex/pkg/util/log"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom"
)

var insertCmd = &cobra.Command{
	Use:   "insert <path>",
	Short: "add items to an index",
	Long: `
Add items to an index. Items are read from standard input, or from the
file named by --input, one per line:

  <id> <low corner> <high corner>

For a 2-dimensional index the line "7 0 0 1 2" adds the rectangle from
(0, 0) to (1, 2) under id 7. With --geojson the input is a GeoJSON
feature collection instead.
`,
	Args: cobra.ExactArgs(1),
	RunE: runInsert,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <path> <id> <coordinates>...",
	Short: "remove an item from an index",
	Long: `
Remove the item with the given id. The rectangle is used to locate the
item and must overlap the one it was inserted with.

Negative coordinates must follow a "--" argument.
`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDelete,
}

func openInput(cmd *cobra.Command) (io.Reader, func(), error) {
	if cliCtx.input == "" || cliCtx.input == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(cliCtx.input)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	in, closeInput, err := openInput(cmd)
	if err != nil {
		return err
	}
	defer closeInput()

	return withIndex(args[0], true /* save */, func(idx *indexFile) error {
		start := time.Now()
		every := log.Every(time.Second)
		var n int64
		progress := func() {
			n++
			if every.ShouldLog() {
				log.Infof(ctx, "inserted %s items", humanizeutil.Count(n))
			}
		}
		if cliCtx.geojson {
			err = readFeatures(in, func(id int64, g geom.T) error {
				if err := georect.IndexGeometry(idx.tree, g, id); err != nil {
					return err
				}
				progress()
				return nil
			})
		} else {
			err = readItems(in, idx.tree.NumDims(), func(id int64, r rtree.Rect) error {
				if err := idx.tree.Insert(r, id); err != nil {
					return errors.Wrapf(err, "inserting %d", id)
				}
				progress()
				return nil
			})
		}
		if err != nil {
			return err
		}
		log.Infof(ctx, "inserted %d items into %s in %s", n, idx.path,
			humanizeutil.Duration(time.Since(start)))
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %s items, %s total\n",
			humanizeutil.Count(n), humanizeutil.Count(idx.tree.Len()))
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[1])
	if err != nil {
		return newFlagError(err)
	}
	return withIndex(args[0], true /* save */, func(idx *indexFile) error {
		r, err := parseRect(args[2:], idx.tree.NumDims())
		if err != nil {
			return newFlagError(err)
		}
		found, err := idx.tree.Delete(r, id)
		if err != nil {
			return err
		}
		if found {
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%d not found\n", id)
		}
		return nil
	})
}
