// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import "github.com/google/btree"

// freePos is a recyclable node offset.
type freePos int64

// Less implements btree.Item.
func (p freePos) Less(than btree.Item) bool {
	return p < than.(freePos)
}

// freeList holds the offsets of released nodes, handing out the lowest
// first so that files stay compact under churn.
type freeList struct {
	tree *btree.BTree
}

func makeFreeList() freeList {
	return freeList{tree: btree.New(8)}
}

func (f *freeList) add(pos int64) {
	f.tree.ReplaceOrInsert(freePos(pos))
}

// take removes and returns the lowest free offset.
func (f *freeList) take() (int64, bool) {
	item := f.tree.DeleteMin()
	if item == nil {
		return 0, false
	}
	return int64(item.(freePos)), true
}

func (f *freeList) len() int {
	return f.tree.Len()
}
