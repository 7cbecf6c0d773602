// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	t.Cleanup(restore)
	return &buf
}

func TestFormatWithContextTags(t *testing.T) {
	ctx := logtags.AddTag(context.Background(), "rtree", nil)
	ctx = logtags.AddTag(ctx, "dims", 2)
	require.Equal(t, "[rtree,dims=2] hello world",
		FormatWithContextTags(ctx, "hello %s", "world"))
	require.Equal(t, "no tags", FormatWithContextTags(context.Background(), "no tags"))
}

func TestAmbientContext(t *testing.T) {
	var ac AmbientContext
	require.Equal(t, context.Background(), ac.AnnotateCtx(context.Background()))

	ac.AddLogTag("tree", nil)
	ac.AddLogTag("mode", "file")
	ctx := ac.AnnotateCtx(context.Background())
	require.Equal(t, "tree,mode=file", renderTags(ctx))
}

func TestOutputAndThreshold(t *testing.T) {
	buf := captureOutput(t)
	ctx := logtags.AddTag(context.Background(), "n", 1)

	Infof(ctx, "inserted %d rects", 3)
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "I"), out)
	require.Contains(t, out, "log_test.go:")
	require.Contains(t, out, "[n=1] inserted 3 rects\n")

	buf.Reset()
	SetStderrThreshold(Severity_WARNING)
	defer SetStderrThreshold(Severity_INFO)
	Infof(ctx, "suppressed")
	require.Empty(t, buf.String())
	Warningf(ctx, "kept")
	require.True(t, strings.HasPrefix(buf.String(), "W"))
}

func TestRedactionMarkers(t *testing.T) {
	buf := captureOutput(t)
	ctx := context.Background()

	Infof(ctx, "secret %s safe %s", "hunter2", redact.Safe("public"))
	require.Contains(t, buf.String(), "secret hunter2 safe public")

	buf.Reset()
	SetRedactable(true)
	defer SetRedactable(false)
	Infof(ctx, "secret %s", "hunter2")
	require.Contains(t, buf.String(), "secret ‹hunter2›")
}

func TestVerbosity(t *testing.T) {
	var entries []Entry
	defer InterceptWith(func(e Entry) { entries = append(entries, e) })()
	_ = captureOutput(t)
	ctx := context.Background()

	SetVerbosity(0)
	VEventf(ctx, 2, "hidden")
	require.Empty(t, entries)

	SetVerbosity(2)
	defer SetVerbosity(0)
	require.True(t, V(2))
	require.False(t, V(3))
	VEventf(ctx, 2, "visible %d", 2)
	require.Len(t, entries, 1)
	require.Equal(t, Severity_INFO, entries[0].Severity)
	require.Equal(t, "visible 2", entries[0].Message.StripMarkers())
}

func TestFatalUsesExitFunc(t *testing.T) {
	_ = captureOutput(t)
	var code int
	SetExitFunc(true /* hideStack */, func(c int) { code = c })
	defer ResetExitFunc()

	Fatalf(context.Background(), "boom")
	require.Equal(t, fatalExitCode, code)
}

func TestSeverityByName(t *testing.T) {
	s, ok := SeverityByName("warning")
	require.True(t, ok)
	require.Equal(t, Severity_WARNING, s)
	require.Equal(t, "WARNING", s.String())

	_, ok = SeverityByName("loud")
	require.False(t, ok)
}
