// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package leaktest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	errs []string
}

func (r *recorder) Errorf(format string, args ...interface{}) {
	r.errs = append(r.errs, fmt.Sprintf(format, args...))
}

func (r *recorder) Helper() {}

func TestNoLeak(t *testing.T) {
	rec := &recorder{}
	check := AfterTest(rec)
	done := make(chan struct{})
	go func() { <-done }()
	close(done)
	check()
	require.Empty(t, rec.errs)
}

func TestLeakDetected(t *testing.T) {
	rec := &recorder{}
	check := AfterTest(rec)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-stop:
		case <-time.After(time.Minute):
		}
	}()
	check()
	require.NotEmpty(t, rec.errs)
}
