// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

// nodeStore is the backing storage of a tree's nodes. The traversal code is
// written against it once for both memory and file trees.
//
// A node returned by get may be a shared, cached copy: callers hold at most
// one node per level at a time, and must call put after modifying it.
type nodeStore interface {
	// get returns the node at ref, which must be at the given level.
	get(ref nodeRef, level int) (*node, error)
	// put records that n, stored at ref, was modified.
	put(ref nodeRef, n *node) error
	// alloc stores a new node and returns its reference.
	alloc(n *node) (nodeRef, error)
	// free releases the storage of the node at ref.
	free(ref nodeRef, level int) error
	// flush makes every modification durable.
	flush() error
	// release drops all buffers. The store is unusable afterwards.
	release()
}

// memStore keeps nodes on the heap; references are pointers.
type memStore struct{}

var _ nodeStore = memStore{}

func (memStore) get(ref nodeRef, _ int) (*node, error) {
	return ref.ptr, nil
}

func (memStore) put(nodeRef, *node) error {
	return nil
}

func (memStore) alloc(n *node) (nodeRef, error) {
	return nodeRef{ptr: n, pos: -1}, nil
}

func (memStore) free(nodeRef, int) error {
	return nil
}

func (memStore) flush() error {
	return nil
}

func (memStore) release() {}
