// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package exit

// Codes that are common to all commands follow.

// Success (0) represents a normal process termination.
func Success() Code { return Code{0} }

// UnspecifiedError (1) indicates the process has terminated with an
// error condition. The specific cause of the error can be found in
// the logging output.
func UnspecifiedError() Code { return Code{1} }

// UnspecifiedGoPanic (2) indicates the process has terminated due to
// an uncaught Go panic or some other error in the Go runtime.
//
// The reporting of this exit code likely indicates a programming
// error inside the index code.
func UnspecifiedGoPanic() Code { return Code{2} }

// CommandLineFlagError (4) indicates there was an error in the
// command-line parameters.
func CommandLineFlagError() Code { return Code{4} }

// FatalError (7) indicates that a Fatal log message terminated the
// process.
func FatalError() Code { return Code{7} }

// Command-specific exit codes should be allocated down from 125.

// 'check' exit codes.

// CheckFailed indicates that the 'check' command has detected a
// violation of the index invariants.
func CheckFailed() Code { return Code{125} }

// CorruptIndex indicates that the index file could not be decoded.
func CorruptIndex() Code { return Code{124} }
