// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"

	"github.com/cockroachdb/logtags"
)

// AmbientContext is a helper type used to "annotate" context.Contexts with
// log tags. It is intended to be embedded into objects that don't receive
// a context from their callers but still want their log messages tagged.
//
// The zero value is usable.
type AmbientContext struct {
	tags *logtags.Buffer
}

// AddLogTag adds a tag to the ambient context.
func (ac *AmbientContext) AddLogTag(name string, value interface{}) {
	if ac.tags == nil {
		ac.tags = logtags.SingleTagBuffer(name, value)
		return
	}
	ac.tags = ac.tags.Add(name, value)
}

// AnnotateCtx annotates the given context with the ambient tags.
func (ac *AmbientContext) AnnotateCtx(ctx context.Context) context.Context {
	if ac.tags == nil {
		return ctx
	}
	return logtags.AddTags(ctx, ac.tags)
}
