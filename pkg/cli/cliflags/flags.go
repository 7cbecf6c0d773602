// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cliflags describes the command-line flags of rtreectl.
package cliflags

import (
	"fmt"
	"strings"
)

// FlagInfo contains the static information for a CLI flag.
type FlagInfo struct {
	// Name of the flag as used on the command line.
	Name string

	// Shorthand is the short form of the flag (optional).
	Shorthand string

	// EnvVar is the name of the environment variable through which the flag
	// value can be controlled (optional).
	EnvVar string

	// Description of the flag.
	Description string
}

// Usage returns the usage string of the flag, including the environment
// variable when there is one.
func (f FlagInfo) Usage() string {
	s := strings.TrimSpace(f.Description)
	if f.EnvVar != "" {
		s += fmt.Sprintf("\nEnvironment variable: %s", f.EnvVar)
	}
	return s
}

// Attributes of the index file, fixed at creation.
var (
	Dims = FlagInfo{
		Name:        "dims",
		EnvVar:      "COCKROACH_RTREE_DIMS",
		Description: `Number of dimensions of the indexed rectangles.`,
	}

	NodeCard = FlagInfo{
		Name:        "node-card",
		Description: `Maximum number of branches in an internal node.`,
	}

	LeafCard = FlagInfo{
		Name:        "leaf-card",
		Description: `Maximum number of items in a leaf.`,
	}

	SplitMethod = FlagInfo{
		Name:        "split",
		EnvVar:      "COCKROACH_RTREE_SPLIT_METHOD",
		Description: `Node split algorithm: rstar or quadratic.`,
	}

	NoOverflow = FlagInfo{
		Name: "no-overflow",
		Description: `
Disable forced reinsertion. Overflowing nodes are always split, which
builds the index faster at the cost of query performance.`,
	}

	Force = FlagInfo{
		Name:        "force",
		Shorthand:   "f",
		Description: `Overwrite an existing index file.`,
	}
)

// Input and output of the data commands.
var (
	Input = FlagInfo{
		Name:      "input",
		Shorthand: "i",
		Description: `
File to read items from instead of standard input. Each line holds an
id followed by the low and then the high corner of its rectangle.`,
	}

	GeoJSON = FlagInfo{
		Name: "geojson",
		Description: `
Read a GeoJSON feature collection instead of rectangle lines. Features
are indexed by the bounding box of their geometry under their numeric id.`,
	}

	Limit = FlagInfo{
		Name:        "limit",
		Description: `Stop after this many matches. Zero means no limit.`,
	}

	CountOnly = FlagInfo{
		Name:        "count",
		Description: `Only print the number of matches.`,
	}

	TableDisplayFormat = FlagInfo{
		Name: "format",
		Description: `
Selects how to display search results and statistics: table or tsv.
Defaults to table when the output is a terminal and tsv otherwise.`,
	}

	Metrics = FlagInfo{
		Name:        "metrics",
		Description: `Also print the index metrics in the Prometheus text format.`,
	}

	GraphiteEndpoint = FlagInfo{
		Name:        "graphite",
		EnvVar:      "COCKROACH_GRAPHITE_ENDPOINT",
		Description: `Push the index metrics to the Graphite server at this address.`,
	}

	Verbosity = FlagInfo{
		Name:        "verbosity",
		Shorthand:   "v",
		Description: `Log verbosity level.`,
	}
)
