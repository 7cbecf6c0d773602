// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package leaktest detects goroutines left running by a test.
//
// Usage:
//
//	func TestFoo(t *testing.T) {
//		defer leaktest.AfterTest(t)()
//		...
//	}
package leaktest

import (
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/spatialindex/pkg/testutils"
)

// interestingGoroutines returns all goroutines we care about for the purpose
// of leak checking, keyed by id. It excludes testing and runtime ones.
func interestingGoroutines() map[int64]string {
	buf := make([]byte, 2<<20)
	buf = buf[:runtime.Stack(buf, true)]
	gs := make(map[int64]string)
	for _, g := range strings.Split(string(buf), "\n\n") {
		sl := strings.SplitN(g, "\n", 2)
		if len(sl) != 2 {
			continue
		}
		stack := strings.TrimSpace(sl[1])
		if stack == "" ||
			strings.Contains(stack, "testing.RunTests") ||
			strings.Contains(stack, "testing.Main(") ||
			strings.Contains(stack, "testing.(*T).Run") ||
			strings.Contains(stack, "testing.tRunner(") ||
			strings.Contains(stack, "created by runtime.gc") ||
			strings.Contains(stack, "runtime.MHeap_Scavenger") ||
			strings.Contains(stack, "signal.signal_recv") ||
			strings.Contains(stack, "sigterm.handler") ||
			strings.Contains(stack, "runtime_mcall") ||
			strings.Contains(stack, "goroutine in C code") ||
			strings.Contains(stack, "leaktest.interestingGoroutines") {
			continue
		}
		// The header has the form "goroutine 7 [running]:".
		var id int64
		header := strings.Fields(sl[0])
		if len(header) >= 2 {
			for _, c := range header[1] {
				if c < '0' || c > '9' {
					break
				}
				id = id*10 + int64(c-'0')
			}
		}
		gs[id] = g
	}
	return gs
}

// AfterTest snapshots the currently-running goroutines and returns a
// function to be run at the end of tests to see whether any
// goroutines leaked. Goroutines get up to five seconds to wind down.
func AfterTest(t testutils.TestErrorer) func() {
	orig := interestingGoroutines()
	return func() {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for {
			var leaked []string
			for id, stack := range interestingGoroutines() {
				if _, ok := orig[id]; !ok {
					leaked = append(leaked, stack)
				}
			}
			if len(leaked) == 0 {
				return
			}
			if time.Now().After(deadline) {
				sort.Strings(leaked)
				for _, g := range leaked {
					t.Errorf("Leaked goroutine: %v", g)
				}
				return
			}
			time.Sleep(50 * time.Millisecond)
		}
	}
}
