// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package envutil reads tuning knobs from COCKROACH_* environment variables.
package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const prefix = "COCKROACH_"

func checkVarName(name string) {
	if !strings.HasPrefix(name, prefix) {
		panic(errors.AssertionFailedf("invalid env var %q: must start with %s", name, prefix))
	}
}

// EnvString returns the value set by the specified environment variable
// and whether it was set.
func EnvString(name string) (string, bool) {
	checkVarName(name)
	return os.LookupEnv(name)
}

// EnvOrDefaultString returns the value set by the specified environment
// variable, if any, otherwise the specified default value.
func EnvOrDefaultString(name, value string) string {
	if v, ok := EnvString(name); ok {
		return v
	}
	return value
}

// EnvOrDefaultBool returns the value set by the specified environment
// variable, if any, otherwise the specified default value. It panics if
// the variable is set to something strconv.ParseBool rejects.
func EnvOrDefaultBool(name string, value bool) bool {
	if str, ok := EnvString(name); ok {
		v, err := strconv.ParseBool(str)
		if err != nil {
			panic(errors.Wrapf(err, "error parsing %s", name))
		}
		return v
	}
	return value
}

// EnvOrDefaultInt returns the value set by the specified environment
// variable, if any, otherwise the specified default value.
func EnvOrDefaultInt(name string, value int) int {
	if str, ok := EnvString(name); ok {
		v, err := strconv.ParseInt(str, 0, 0)
		if err != nil {
			panic(errors.Wrapf(err, "error parsing %s", name))
		}
		return int(v)
	}
	return value
}
