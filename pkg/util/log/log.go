// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log implements leveled, context-tagged logging to stderr.
//
// Every entry point takes a context.Context: the log tags attached to
// it (see AmbientContext and github.com/cockroachdb/logtags) are
// printed in front of the message. Messages are formatted with
// github.com/cockroachdb/redact so that callers can mark values as
// safe or unsafe for reporting.
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/spatialindex/pkg/util/syncutil"
)

// Entry is a single formatted log event. Entries are handed to
// interceptors before they are written out.
type Entry struct {
	Severity Severity
	Time     time.Time
	File     string
	Line     int
	// Tags is the rendering of the context tags, without brackets.
	Tags    string
	Message redact.RedactableString
}

type loggingT struct {
	// verbosity is the V() threshold, read atomically.
	verbosity atomic.Int32
	// redactable, if set, preserves redaction markers in the output.
	redactable atomic.Bool

	mu struct {
		syncutil.Mutex
		out             io.Writer
		colors          *colorProfile
		stderrThreshold Severity
		interceptors    map[int]func(Entry)
		nextID          int
		exitOverride    struct {
			f         func(int)
			hideStack bool
		}
	}
}

var logging = func() *loggingT {
	l := &loggingT{}
	l.mu.out = os.Stderr
	l.mu.colors = colorProfileFor(os.Stderr)
	l.mu.stderrThreshold = Severity_INFO
	l.mu.interceptors = make(map[int]func(Entry))
	return l
}()

// SetVerbosity sets the threshold used by V and VEventf.
func SetVerbosity(level int32) {
	logging.verbosity.Store(level)
}

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level int32) bool {
	return logging.verbosity.Load() >= level
}

// SetRedactable configures whether redaction markers are kept in the
// output. They are stripped by default.
func SetRedactable(redactable bool) {
	logging.redactable.Store(redactable)
}

// SetStderrThreshold sets the minimum severity written to the output.
// Interceptors observe every entry regardless of the threshold.
func SetStderrThreshold(s Severity) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	logging.mu.stderrThreshold = s
}

// SetOutput redirects log output to w and returns a function restoring
// the previous writer. Colors are disabled unless w is a terminal.
func SetOutput(w io.Writer) (restore func()) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	prevOut, prevColors := logging.mu.out, logging.mu.colors
	logging.mu.out = w
	logging.mu.colors = nil
	if f, ok := w.(*os.File); ok {
		logging.mu.colors = colorProfileFor(f)
	}
	return func() {
		logging.mu.Lock()
		defer logging.mu.Unlock()
		logging.mu.out, logging.mu.colors = prevOut, prevColors
	}
}

// Infof logs to the INFO log.
// Arguments are handled in the manner of fmt.Printf; a newline is appended
// if missing.
func Infof(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, Severity_INFO, 1, format, args)
}

// InfofDepth logs to the INFO log, offsetting the caller's stack frame by
// 'depth'.
func InfofDepth(ctx context.Context, depth int, format string, args ...interface{}) {
	addStructured(ctx, Severity_INFO, depth+1, format, args)
}

// Warningf logs to the WARNING and INFO logs.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, Severity_WARNING, 1, format, args)
}

// Errorf logs to the ERROR, WARNING, and INFO logs.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, Severity_ERROR, 1, format, args)
}

// Fatalf logs to the INFO, WARNING, ERROR, and FATAL logs, including a stack
// trace of all running goroutines, then calls os.Exit(7) unless an exit
// function was installed with SetExitFunc.
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, Severity_FATAL, 1, format, args)
}

// Logf logs to the log of the given severity. A FATAL severity behaves
// like Fatalf.
func Logf(ctx context.Context, sev Severity, format string, args ...interface{}) {
	addStructured(ctx, sev, 1, format, args)
}

// VEventf logs the message at INFO if the verbosity is at least level.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		addStructured(ctx, Severity_INFO, 1, format, args)
	}
}

func (l *loggingT) outputLogEntry(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, fn := range l.mu.interceptors {
		fn(e)
	}
	if e.Severity >= l.mu.stderrThreshold {
		_, _ = l.mu.out.Write(formatEntry(e, l.mu.colors, l.redactable.Load()))
	}
	if e.Severity == Severity_FATAL {
		if !l.mu.exitOverride.hideStack {
			_, _ = l.mu.out.Write(debug.Stack())
		}
		l.exitLocked(fatalExitCode)
	}
}

// formatEntry renders e in the crdb-v1 format:
//
//	I261014 15:04:05.123456 file.go:42 [tags] message
func formatEntry(e Entry, cp *colorProfile, redactable bool) []byte {
	var buf bytes.Buffer
	if cp != nil {
		buf.Write(cp.prefix(e.Severity))
	}
	buf.WriteByte(e.Severity.char())
	if cp != nil {
		buf.Write(colorReset)
		buf.Write(cp.timePrefix)
	}
	buf.WriteString(e.Time.UTC().Format("060102 15:04:05.000000"))
	if cp != nil {
		buf.Write(colorReset)
	}
	fmt.Fprintf(&buf, " %s:%d ", e.File, e.Line)
	if e.Tags != "" {
		buf.WriteByte('[')
		buf.WriteString(e.Tags)
		buf.WriteString("] ")
	}
	if redactable {
		buf.WriteString(string(e.Message))
	} else {
		buf.WriteString(e.Message.StripMarkers())
	}
	if b := buf.Bytes(); len(b) == 0 || b[len(b)-1] != '\n' {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
