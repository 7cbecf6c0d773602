// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import "github.com/cockroachdb/spatialindex/pkg/util/syncutil"

// Locked serializes access to a Tree. Searches of memory trees share a
// read lock; everything else, including searches of file trees whose node
// cache changes on reads, is exclusive.
type Locked struct {
	mu syncutil.RWMutex
	t  *Tree
	// sharedReads is set for memory trees.
	sharedReads bool
}

// NewLocked wraps t. The caller must not use t directly afterwards.
func NewLocked(t *Tree) *Locked {
	return &Locked{t: t, sharedReads: t.file == nil}
}

// NumDims is like Tree.NumDims.
func (l *Locked) NumDims() int {
	return l.t.ndims
}

// Insert is like Tree.Insert.
func (l *Locked) Insert(r Rect, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Insert(r, id)
}

// Delete is like Tree.Delete.
func (l *Locked) Delete(r Rect, id int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Delete(r, id)
}

// Search is like Tree.Search. fn runs with the lock held.
func (l *Locked) Search(r Rect, fn func(id int64, r Rect) bool) (int, error) {
	if l.sharedReads {
		l.mu.RLock()
		defer l.mu.RUnlock()
	} else {
		l.mu.Lock()
		defer l.mu.Unlock()
	}
	return l.t.Search(r, fn)
}

// Flush is like Tree.Flush.
func (l *Locked) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Flush()
}

// Stats is like Tree.Stats.
func (l *Locked) Stats() (Stats, error) {
	if l.sharedReads {
		l.mu.RLock()
		defer l.mu.RUnlock()
	} else {
		l.mu.Lock()
		defer l.mu.Unlock()
	}
	return l.t.Stats()
}

// Do runs fn with exclusive access to the tree.
func (l *Locked) Do(fn func(t *Tree) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.t)
}
