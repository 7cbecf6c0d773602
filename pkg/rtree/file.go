// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// File is the storage of a file tree. It is satisfied by *os.File.
type File interface {
	io.ReaderAt
	io.WriterAt
	Stat() (os.FileInfo, error)
	Sync() error
}

// cacheSlot buffers one node of a file tree.
type cacheSlot struct {
	n     *node
	pos   int64
	dirty bool
}

// levelCache holds the two most recently used nodes of one level. A
// traversal touches one node per level at a time, so this bounds the
// working set of an operation by the height of the tree.
type levelCache struct {
	slots [2]cacheSlot
	// mru is the index of the most recently used slot.
	mru int
}

// fileStore keeps nodes in a File behind a per-level cache. Released node
// offsets are recycled before the file is extended.
type fileStore struct {
	f       File
	codec   nodeCodec
	newNode func(level int) *node
	metrics *Metrics

	cache    [MaxLevel + 1]levelCache
	recycled freeList
	nextPos  int64
	buf      []byte
}

var _ nodeStore = (*fileStore)(nil)

func newFileStore(
	f File, codec nodeCodec, rootPos int64, newNode func(level int) *node, metrics *Metrics,
) (*fileStore, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "rtree: stat")
	}
	s := &fileStore{
		f:        f,
		codec:    codec,
		newNode:  newNode,
		metrics:  metrics,
		recycled: makeFreeList(),
		nextPos:  rootPos + int64(codec.size()),
		buf:      make([]byte, codec.size()),
	}
	if size := info.Size(); size > s.nextPos {
		s.nextPos = size
	}
	for i := range s.cache {
		for j := range s.cache[i].slots {
			s.cache[i].slots[j].pos = -1
		}
	}
	return s, nil
}

func (s *fileStore) levelCache(level int) *levelCache {
	if level < 0 || level > MaxLevel {
		panic(errors.AssertionFailedf("level %d out of range", level))
	}
	return &s.cache[level]
}

func (s *fileStore) get(ref nodeRef, level int) (*node, error) {
	c := s.levelCache(level)
	for i := range c.slots {
		if sl := &c.slots[i]; sl.pos >= 0 && sl.pos == ref.pos {
			c.mru = i
			s.metrics.CacheHits.Inc(1)
			return sl.n, nil
		}
	}
	s.metrics.CacheMisses.Inc(1)

	victim := 1 - c.mru
	sl := &c.slots[victim]
	if err := s.evict(sl); err != nil {
		return nil, err
	}
	if sl.n == nil {
		sl.n = s.newNode(level)
	}
	sl.pos = -1
	if err := s.readNode(ref.pos, sl.n, level); err != nil {
		return nil, err
	}
	sl.pos = ref.pos
	c.mru = victim
	return sl.n, nil
}

// evict writes sl back to the file if it is dirty.
func (s *fileStore) evict(sl *cacheSlot) error {
	if !sl.dirty {
		return nil
	}
	if err := s.writeNode(sl.pos, sl.n); err != nil {
		return err
	}
	sl.dirty = false
	return nil
}

// put marks the cached copy of the node dirty, or rewrites the node in
// place if it is not cached.
func (s *fileStore) put(ref nodeRef, n *node) error {
	c := s.levelCache(n.level)
	for i := range c.slots {
		if sl := &c.slots[i]; sl.pos >= 0 && sl.pos == ref.pos {
			if sl.n != n {
				sl.n.copyFrom(n)
			}
			sl.dirty = true
			c.mru = i
			return nil
		}
	}
	return s.writeNode(ref.pos, n)
}

// alloc writes a new node at a recycled offset or at the end of the file.
func (s *fileStore) alloc(n *node) (nodeRef, error) {
	pos, ok := s.recycled.take()
	if !ok {
		pos = s.nextPos
		s.nextPos += int64(s.codec.size())
	}
	if err := s.writeNode(pos, n); err != nil {
		s.recycled.add(pos)
		return noRef, err
	}
	return nodeRef{pos: pos}, nil
}

func (s *fileStore) free(ref nodeRef, level int) error {
	c := s.levelCache(level)
	for i := range c.slots {
		if sl := &c.slots[i]; sl.pos == ref.pos {
			sl.pos = -1
			sl.dirty = false
		}
	}
	s.recycled.add(ref.pos)
	return nil
}

// flush writes every dirty cached node and syncs the file.
func (s *fileStore) flush() error {
	for level := range s.cache {
		c := &s.cache[level]
		for i := range c.slots {
			if err := s.evict(&c.slots[i]); err != nil {
				return err
			}
		}
	}
	return errors.Wrap(s.f.Sync(), "rtree: sync")
}

func (s *fileStore) release() {
	s.cache = [MaxLevel + 1]levelCache{}
	s.recycled = makeFreeList()
	s.f = nil
}

func (s *fileStore) readNode(pos int64, n *node, level int) error {
	nr, err := s.f.ReadAt(s.buf, pos)
	if nr < len(s.buf) {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return errors.Wrapf(err, "rtree: reading node at offset %d", pos)
	}
	s.metrics.NodeReads.Inc(1)
	return s.codec.decode(s.buf, n, pos, level)
}

func (s *fileStore) writeNode(pos int64, n *node) error {
	s.codec.encode(n, s.buf)
	nw, err := s.f.WriteAt(s.buf, pos)
	if err == nil && nw < len(s.buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return errors.Wrapf(err, "rtree: writing node at offset %d", pos)
	}
	s.metrics.NodeWrites.Inc(1)
	return nil
}
