// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import "github.com/cockroachdb/spatialindex/pkg/rtree"

// cliContext holds the parameters of the rtreectl commands. The flags
// in flags.go write into it.
type cliContext struct {
	// Layout of a new index.
	dims       int
	nodeCard   int
	leafCard   int
	split      splitMethodValue
	noOverflow bool
	force      bool

	// Data commands.
	input     string
	geojson   bool
	limit     int
	countOnly bool

	tableDisplayFormat tableDisplayFormat
	metrics            bool
	graphiteEndpoint   string
	verbosity          int
}

var cliCtx cliContext

// setCLIDefaults resets cliCtx. Tests call it between runs since the
// command tree and its flags are package-level.
func setCLIDefaults() {
	cliCtx = cliContext{
		dims:               2,
		split:              splitMethodValue(rtree.DefaultSplit),
		tableDisplayFormat: defaultTableDisplayFormat(),
	}
}

// options returns the tree options selected on the command line.
func (c *cliContext) options() rtree.Options {
	return rtree.Options{
		NodeCard:        c.nodeCard,
		LeafCard:        c.leafCard,
		SplitMethod:     rtree.SplitMethod(c.split),
		DisableOverflow: c.noOverflow,
	}
}
