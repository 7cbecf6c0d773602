// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// FormatWithContextTags formats the string and prepends the context
// tags.
//
// Redaction markers are *not* inserted. The resulting
// string is generally unsafe for reporting.
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	var buf strings.Builder
	if formatTags(ctx, &buf) {
		buf.WriteByte(' ')
	}
	buf.WriteString(redact.Sprintf(format, args...).StripMarkers())
	return buf.String()
}

// formatTags writes the bracketed context tags of ctx into buf and
// reports whether there were any.
func formatTags(ctx context.Context, buf *strings.Builder) bool {
	tags := renderTags(ctx)
	if tags == "" {
		return false
	}
	buf.WriteByte('[')
	buf.WriteString(tags)
	buf.WriteByte(']')
	return true
}

func renderTags(ctx context.Context) string {
	tags := logtags.FromContext(ctx)
	if tags == nil {
		return ""
	}
	var buf strings.Builder
	for i, t := range tags.Get() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(t.Key())
		if value := t.Value(); value != nil {
			buf.WriteByte('=')
			fmt.Fprint(&buf, value)
		}
	}
	return buf.String()
}

// addStructured creates a structured log entry to be written to the
// specified facility of the logger.
func addStructured(
	ctx context.Context, sev Severity, depth int, format string, args []interface{},
) {
	if ctx == nil {
		panic("nil context")
	}
	entry := Entry{
		Severity: sev,
		Time:     time.Now(),
		File:     "???",
		Line:     1,
		Tags:     renderTags(ctx),
	}
	if _, file, line, ok := runtime.Caller(depth + 1); ok {
		entry.File, entry.Line = filepath.Base(file), line
	}
	if len(format) == 0 {
		entry.Message = redact.Sprint(args...)
	} else {
		entry.Message = redact.Sprintf(format, args...)
	}
	logging.outputLogEntry(entry)
}
