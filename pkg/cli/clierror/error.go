// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package clierror attaches exit codes and log severities to the errors
// returned by commands.
package clierror

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/cli/exit"
	"github.com/cockroachdb/spatialindex/pkg/util/log"
)

// Error is an error that carries the exit code the process should
// terminate with and the severity it should be logged at.
type Error struct {
	exitCode exit.Code
	severity log.Severity
	cause    error
}

// NewError wraps cause with the given exit code. It is logged at ERROR.
func NewError(cause error, exitCode exit.Code) error {
	return NewErrorWithSeverity(cause, exitCode, log.Severity_ERROR)
}

// NewErrorWithSeverity is like NewError with a custom log severity.
func NewErrorWithSeverity(cause error, exitCode exit.Code, severity log.Severity) error {
	return &Error{exitCode: exitCode, severity: severity, cause: cause}
}

// GetExitCode returns the exit code of the error.
func (e *Error) GetExitCode() exit.Code { return e.exitCode }

// Error implements the error interface.
func (e *Error) Error() string { return e.cause.Error() }

// Unwrap returns the cause.
func (e *Error) Unwrap() error { return e.cause }

// Format implements the fmt.Formatter interface.
func (e *Error) Format(s fmt.State, verb rune) { errors.FormatError(e, s, verb) }

// FormatError implements errors.Formatter.
func (e *Error) FormatError(p errors.Printer) error {
	if p.Detail() {
		p.Printf("error with exit code: %d", e.exitCode)
	}
	return e.cause
}

// GetExitCode returns the exit code carried by err, if any, or
// UnspecifiedError.
func GetExitCode(err error) exit.Code {
	if ce := (*Error)(nil); errors.As(err, &ce) {
		return ce.exitCode
	}
	return exit.UnspecifiedError()
}

// Logger is the signature of the function CheckAndMaybeLog uses to
// report errors.
type Logger func(ctx context.Context, sev log.Severity, msg string, args ...interface{})

// CheckAndMaybeLog reports err with logger, at the severity of its
// outermost *Error, or ERROR, and returns it unchanged. Only one level
// of *Error is unwrapped for the report.
func CheckAndMaybeLog(err error, logger Logger) error {
	if err == nil {
		return nil
	}
	severity := log.Severity_ERROR
	cause := err
	var ce *Error
	if errors.As(err, &ce) {
		severity = ce.severity
		cause = ce.cause
	}
	logger(context.Background(), severity, "%v", cause)
	return err
}
