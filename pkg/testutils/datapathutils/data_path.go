// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package datapathutils locates test fixtures.
package datapathutils

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/spatialindex/pkg/testutils"
)

// TestDataPath returns a path to an asset in the testdata directory of the
// package under test. It fails the test if the asset does not exist.
func TestDataPath(t testutils.TestFataler, relative ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{"testdata"}, relative...)...)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("test data %s: %v", path, err)
	}
	return path
}
