// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package envutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvOrDefault(t *testing.T) {
	const name = "COCKROACH_ENVUTIL_TEST_VAR"
	require.Equal(t, "dflt", EnvOrDefaultString(name, "dflt"))
	require.True(t, EnvOrDefaultBool(name, true))
	require.Equal(t, 9, EnvOrDefaultInt(name, 9))

	t.Setenv(name, "0")
	require.Equal(t, "0", EnvOrDefaultString(name, "dflt"))
	require.False(t, EnvOrDefaultBool(name, true))
	require.Equal(t, 0, EnvOrDefaultInt(name, 9))

	t.Setenv(name, "bogus")
	require.Panics(t, func() { EnvOrDefaultBool(name, true) })
	require.Panics(t, func() { EnvOrDefaultInt(name, 1) })
}

func TestInvalidName(t *testing.T) {
	require.Panics(t, func() { EnvOrDefaultString("RTREE_SPLIT", "") })
}
