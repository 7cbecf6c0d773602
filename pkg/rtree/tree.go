// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package rtree implements an N-dimensional R*-tree indexing axis-aligned
// rectangles tagged with positive integer ids.
//
// A Tree keeps its nodes either on the heap or in a File, where they are
// accessed through a small per-level node cache. Both variants share the
// same traversal code: search, insert and delete walk the tree with an
// explicit stack of at most MaxLevel+1 frames rather than recursion.
//
// Inserts use R*-tree forced reinsertion: the first time a non-root level
// overflows during an insert, the branches farthest from the node's center
// are removed and inserted again from the top instead of splitting the
// node. Deletes dissolve nodes that fall below their minimum fill and
// reinsert their branches.
//
// A Tree is not safe for concurrent use; see Locked.
package rtree

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/util/log"
)

// ErrClosed is returned by operations on a closed Tree.
var ErrClosed = errors.New("rtree: tree is closed")

// scratch is reusable memory for the node level algorithms.
type scratch struct {
	buf   [maxSortLen]branch
	idx   [maxSortLen]int
	dist  [maxSortLen]float64
	rect0 Rect
	rect1 Rect
}

// Tree is an R*-tree. Create one with NewMemory, NewFile or OpenFile.
type Tree struct {
	log.AmbientContext
	ctx context.Context

	opts     Options
	ndims    int
	slots    int
	overflow bool
	metrics  *Metrics

	store     nodeStore
	file      *fileStore
	root      nodeRef
	rootLevel int
	items     int64

	splitter *splitter
	scratch  scratch
}

func newTree(ndims int, opts Options) (*Tree, error) {
	if ndims < MinDims || ndims > MaxDims {
		return nil, errors.Newf("rtree: %d dimensions out of range [%d, %d]", ndims, MinDims, MaxDims)
	}
	opts.EnsureDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	t := &Tree{
		opts:     opts,
		ndims:    ndims,
		slots:    opts.NodeCard,
		overflow: !opts.DisableOverflow,
		metrics:  opts.Metrics,
		splitter: newSplitter(ndims),
	}
	if opts.LeafCard > t.slots {
		t.slots = opts.LeafCard
	}
	if t.metrics == nil {
		t.metrics = NewMetrics()
	}
	for i := range t.scratch.buf {
		t.scratch.buf[i] = branch{rect: NullRect(ndims), child: childRef{ref: noRef}}
	}
	t.scratch.rect0 = NullRect(ndims)
	t.scratch.rect1 = NullRect(ndims)
	t.AddLogTag("rtree", nil)
	t.AddLogTag("dims", ndims)
	t.ctx = t.AnnotateCtx(context.Background())
	return t, nil
}

// Create returns a new, empty tree of the given dimensionality. If f is nil
// the tree lives in memory; otherwise its root is written to f at rootPos
// and new nodes are appended after it.
func Create(f File, rootPos int64, ndims int, opts Options) (*Tree, error) {
	if f == nil {
		return NewMemory(ndims, opts)
	}
	return NewFile(f, rootPos, ndims, opts)
}

// NewMemory returns a new, empty memory tree.
func NewMemory(ndims int, opts Options) (*Tree, error) {
	t, err := newTree(ndims, opts)
	if err != nil {
		return nil, err
	}
	t.store = memStore{}
	t.root, _ = t.store.alloc(t.newNode(0))
	t.metrics.Height.Update(0)
	return t, nil
}

// NewFile returns a new, empty tree stored in f with its root at rootPos.
// The bytes of f before rootPos are left alone, so a caller can keep a
// Header there.
func NewFile(f File, rootPos int64, ndims int, opts Options) (*Tree, error) {
	if f == nil {
		return nil, errors.New("rtree: nil file")
	}
	if rootPos < 0 {
		return nil, errors.Newf("rtree: invalid root offset %d", rootPos)
	}
	t, err := newTree(ndims, opts)
	if err != nil {
		return nil, err
	}
	if err := t.openFileStore(f, rootPos); err != nil {
		return nil, err
	}
	if err := t.file.writeNode(rootPos, t.newNode(0)); err != nil {
		return nil, err
	}
	t.root = nodeRef{pos: rootPos}
	t.metrics.Height.Update(0)
	return t, nil
}

// OpenFile reopens a file tree described by h, as returned by Tree.Header.
// The layout fields of opts are taken from h.
func OpenFile(f File, h Header, opts Options) (*Tree, error) {
	if f == nil {
		return nil, errors.New("rtree: nil file")
	}
	opts.NodeCard, opts.LeafCard = h.NodeCard, h.LeafCard
	opts.MinNodeFill, opts.MinLeafFill = h.MinNodeFill, h.MinLeafFill
	opts.MinNodeSplitFill, opts.MinLeafSplitFill = h.MinNodeSplitFill, h.MinLeafSplitFill
	opts.SplitMethod = h.SplitMethod
	opts.DisableOverflow = !h.Overflow
	t, err := newTree(h.NumDims, opts)
	if err != nil {
		return nil, err
	}
	if h.RootPos < 0 || h.RootLevel < 0 || h.RootLevel > MaxLevel {
		return nil, errors.Mark(errors.Newf("root at offset %d level %d", h.RootPos, h.RootLevel), ErrCorrupt)
	}
	if err := t.openFileStore(f, h.RootPos); err != nil {
		return nil, err
	}
	t.root = nodeRef{pos: h.RootPos}
	t.rootLevel = h.RootLevel
	t.items = h.Items
	if _, err := t.store.get(t.root, t.rootLevel); err != nil {
		return nil, errors.Wrap(err, "rtree: reading root")
	}
	t.metrics.Height.Update(int64(t.rootLevel))
	t.metrics.Items.Update(t.items)
	log.Infof(t.ctx, "opened index at offset %d: height %d, %d items", h.RootPos, h.RootLevel, h.Items)
	return t, nil
}

func (t *Tree) openFileStore(f File, rootPos int64) error {
	codec := nodeCodec{ndims: t.ndims, slots: t.slots}
	fs, err := newFileStore(f, codec, rootPos, t.newNode, t.metrics)
	if err != nil {
		return err
	}
	t.file = fs
	t.store = fs
	return nil
}

func (t *Tree) newNode(level int) *node {
	return makeNode(level, t.slots, t.ndims)
}

func (t *Tree) cloneNode(n *node) *node {
	c := t.newNode(n.level)
	c.copyFrom(n)
	return c
}

func (t *Tree) capacity(level int) int {
	if level > 0 {
		return t.opts.NodeCard
	}
	return t.opts.LeafCard
}

// minFill is the fewest branches a non-root node keeps after a delete.
func (t *Tree) minFill(level int) int {
	if level > 0 {
		return t.opts.MinNodeFill
	}
	return t.opts.MinLeafFill
}

// minSplitFill is the fewest branches each half of a split receives.
func (t *Tree) minSplitFill(level int) int {
	if level > 0 {
		return t.opts.MinNodeSplitFill
	}
	return t.opts.MinLeafSplitFill
}

func (t *Tree) checkRect(r Rect) {
	if len(r) != 2*t.ndims {
		panic(errors.AssertionFailedf("rect has %d dimensions, tree has %d", len(r)/2, t.ndims))
	}
}

// NumDims returns the dimensionality of the tree.
func (t *Tree) NumDims() int {
	return t.ndims
}

// Height returns the level of the root; a tree whose root is a leaf has
// height 0.
func (t *Tree) Height() int {
	return t.rootLevel
}

// Len returns the number of items in the tree.
func (t *Tree) Len() int64 {
	return t.items
}

// RootPos returns the file offset of the root node, or -1 for memory trees.
func (t *Tree) RootPos() int64 {
	if t.file == nil {
		return -1
	}
	return t.root.pos
}

// Metrics returns the tree's metrics.
func (t *Tree) Metrics() *Metrics {
	return t.metrics
}

// SetOverflow enables or disables forced reinsertion. Enabling it fails if
// the node capacities are too small to give up ForceCard branches.
func (t *Tree) SetOverflow(enabled bool) error {
	if enabled {
		o := t.opts
		o.DisableOverflow = false
		if err := o.Validate(); err != nil {
			return err
		}
	}
	t.overflow = enabled
	t.opts.DisableOverflow = !enabled
	return nil
}

// Flush writes buffered nodes of a file tree and syncs the file. It is a
// no-op for memory trees.
func (t *Tree) Flush() error {
	if t.store == nil {
		return ErrClosed
	}
	if err := t.store.flush(); err != nil {
		return err
	}
	if t.file != nil {
		log.Infof(t.ctx, "flushed index: root at offset %d, height %d", t.root.pos, t.rootLevel)
	}
	return nil
}

// Close releases the tree's nodes and buffers. It does not flush: call
// Flush first to persist a file tree. The file itself is left open.
func (t *Tree) Close() {
	if t.store == nil {
		return
	}
	t.store.release()
	t.store = nil
	t.file = nil
	t.root = noRef
}

// Insert adds r to the tree under id. The id must be positive and r must
// be a defined rectangle with the tree's dimensionality.
func (t *Tree) Insert(r Rect, id int64) error {
	t.checkRect(r)
	if id <= 0 {
		panic(errors.AssertionFailedf("invalid id %d: ids must be positive", id))
	}
	if !r.IsValid() {
		panic(errors.AssertionFailedf("cannot insert undefined rect %s for id %d", r, id))
	}
	if t.store == nil {
		return ErrClosed
	}
	var op insertOp
	b := branch{rect: r.Clone(), child: dataRef(id)}
	if err := t.insertBranch(&b, 0, &op); err != nil {
		return err
	}
	t.items++
	t.metrics.Inserts.Inc(1)
	t.metrics.Items.Update(t.items)
	return nil
}

// Delete removes the item with the given id whose rectangle overlaps r. It
// reports whether such an item was found.
func (t *Tree) Delete(r Rect, id int64) (bool, error) {
	t.checkRect(r)
	if t.store == nil {
		return false, ErrClosed
	}
	if id <= 0 {
		return false, nil
	}
	found, err := t.delete(r, id)
	if err != nil || !found {
		if err == nil {
			t.metrics.DeleteMisses.Inc(1)
		}
		return false, err
	}
	t.items--
	t.metrics.Deletes.Inc(1)
	t.metrics.Items.Update(t.items)
	return true, nil
}

// Search calls fn for every item whose rectangle overlaps r and returns the
// number of hits. If fn returns false the search stops; the hit that
// stopped it is counted. fn may be nil. The rectangle passed to fn must not
// be retained or modified, and fn must not call into the tree.
func (t *Tree) Search(r Rect, fn func(id int64, r Rect) bool) (int, error) {
	t.checkRect(r)
	if t.store == nil {
		return 0, ErrClosed
	}
	hits, err := t.search(r, fn)
	t.metrics.Searches.Inc(1)
	t.metrics.SearchHits.Inc(int64(hits))
	return hits, err
}
