// Copyright 2021 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package testutils

// TestFataler is the subset of testing.TB used by helpers that abort the
// test on failure.
type TestFataler interface {
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	Helper()
}

// TestErrorer is like TestFataler but it only needs an Errorf method.
type TestErrorer interface {
	Errorf(format string, args ...interface{})
	Helper()
}
