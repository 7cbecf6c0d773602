// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// rtreectl builds and queries R*-tree index files.
package main

import "github.com/cockroachdb/spatialindex/pkg/cli"

func main() {
	cli.Main()
}
