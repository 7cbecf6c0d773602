// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package exit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeFormat(t *testing.T) {
	require.Equal(t, "125", CheckFailed().String())
	require.Equal(t, "exit 4", fmt.Sprintf("exit %d", CommandLineFlagError()))
	require.Equal(t, "0", fmt.Sprintf("%v", Success()))
	require.NotEqual(t, CheckFailed(), CorruptIndex())
}
