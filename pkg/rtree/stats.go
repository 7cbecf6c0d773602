// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Stats describes the shape of a tree.
type Stats struct {
	Height int
	Items  int64
	// Nodes and Branches count the nodes and occupied branches per level,
	// leaves first.
	Nodes    []int
	Branches []int
	// FileSize is the end of the node area of a file tree. FreeNodes is the
	// number of recyclable node slots below it.
	FileSize  int64
	FreeNodes int
}

// SafeFormat implements redact.SafeFormatter.
func (s Stats) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("height=%d items=%d nodes=%v branches=%v", s.Height, s.Items, s.Nodes, s.Branches)
	if s.FileSize > 0 {
		w.Printf(" file-size=%d free-nodes=%d", s.FileSize, s.FreeNodes)
	}
}

func (s Stats) String() string {
	return redact.StringWithoutMarkers(s)
}

// walk visits every node of the tree, parents before children. visit is
// passed the node, the level it was expected at, and a copy of the branch
// pointing at it (nil for the root).
func (t *Tree) walk(visit func(n *node, level int, parentBranch *branch) error) error {
	var s stack
	var via [MaxLevel + 1]branch
	s[0] = frame{ref: t.root}
	entered := true
	for top := 0; top >= 0; {
		n, err := t.store.get(s[top].ref, t.rootLevel-top)
		if err != nil {
			return err
		}
		if entered {
			var pb *branch
			if top > 0 {
				pb = &via[top]
			}
			if err := visit(n, t.rootLevel-top, pb); err != nil {
				return err
			}
		}
		entered = false
		if n.level == 0 {
			top--
			continue
		}
		descended := false
		for i := s[top].branch; i < len(n.branches); i++ {
			b := &n.branches[i]
			if !b.child.valid() {
				continue
			}
			s[top].branch = i + 1
			top++
			s[top] = frame{ref: b.child.ref}
			via[top] = branch{rect: b.rect.Clone(), child: b.child}
			descended, entered = true, true
			break
		}
		if !descended {
			top--
		}
	}
	return nil
}

// Stats walks the tree and returns its shape.
func (t *Tree) Stats() (Stats, error) {
	if t.store == nil {
		return Stats{}, ErrClosed
	}
	st := Stats{
		Height:   t.rootLevel,
		Nodes:    make([]int, t.rootLevel+1),
		Branches: make([]int, t.rootLevel+1),
	}
	err := t.walk(func(n *node, _ int, _ *branch) error {
		st.Nodes[n.level]++
		st.Branches[n.level] += n.count
		if n.isLeaf() {
			st.Items += int64(n.count)
		}
		return nil
	})
	if t.file != nil {
		st.FileSize = t.file.nextPos
		st.FreeNodes = t.file.recycled.len()
	}
	return st, err
}

// Check verifies the structural invariants of the tree: levels decrease by
// one per step down, every internal branch rectangle is exactly the cover
// of its child, non-root nodes respect their fill bounds, and the item
// count matches the leaves.
func (t *Tree) Check() error {
	if t.store == nil {
		return ErrClosed
	}
	var items int64
	err := t.walk(func(n *node, level int, pb *branch) error {
		if n.level != level {
			return errors.AssertionFailedf("node has level %d, expected %d", n.level, level)
		}
		capacity := t.capacity(n.level)
		occupied := 0
		for i := range n.branches {
			b := &n.branches[i]
			if !b.child.valid() {
				continue
			}
			occupied++
			if i >= capacity {
				return errors.AssertionFailedf("level %d node uses slot %d beyond capacity %d", n.level, i, capacity)
			}
			if n.isLeaf() != (b.child.kind == dataChild) {
				return errors.AssertionFailedf("level %d node has %v child in slot %d", n.level, b.child.kind, i)
			}
			if n.isLeaf() && b.child.id <= 0 {
				return errors.AssertionFailedf("leaf has invalid id %d", b.child.id)
			}
			if b.rect.IsNull() {
				return errors.AssertionFailedf("level %d node has undefined rect in slot %d", n.level, i)
			}
		}
		if occupied != n.count {
			return errors.AssertionFailedf("level %d node has count %d but %d branches", n.level, n.count, occupied)
		}
		if n.isLeaf() {
			items += int64(n.count)
		}
		if pb == nil {
			if n.level > 0 && n.count < 2 {
				return errors.AssertionFailedf("internal root has %d branches", n.count)
			}
			return nil
		}
		if n.count < t.minFill(n.level) || n.count > capacity {
			return errors.AssertionFailedf("level %d node has %d branches, outside [%d, %d]",
				n.level, n.count, t.minFill(n.level), capacity)
		}
		if cover := n.cover(t.ndims); !cover.Equal(pb.rect) {
			return errors.AssertionFailedf("level %d node covers %s but its branch says %s", n.level, cover, pb.rect)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if items != t.items {
		return errors.AssertionFailedf("leaves hold %d items, tree counts %d", items, t.items)
	}
	return nil
}
