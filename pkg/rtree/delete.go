// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import "github.com/cockroachdb/spatialindex/pkg/util/log"

// delete removes the item, dissolves the nodes left underfull on its path,
// reinserts their branches and finally drops redundant roots.
func (t *Tree) delete(r Rect, id int64) (bool, error) {
	found, detached, err := t.removeItem(r, id)
	if err != nil || !found {
		return false, err
	}

	// Reinsert the branches of dissolved nodes, most recently dissolved
	// first, each at the level it came from.
	for i := len(detached) - 1; i >= 0; i-- {
		n := detached[i]
		for j := range n.branches {
			b := &n.branches[j]
			if !b.child.valid() {
				continue
			}
			var op insertOp
			if err := t.insertBranch(b, n.level, &op); err != nil {
				return true, err
			}
		}
	}

	for t.rootLevel > 0 {
		root, err := t.store.get(t.root, t.rootLevel)
		if err != nil {
			return true, err
		}
		if root.count != 1 {
			break
		}
		var child nodeRef
		for i := range root.branches {
			if root.branches[i].child.valid() {
				child = root.branches[i].child.ref
				break
			}
		}
		if err := t.store.free(t.root, t.rootLevel); err != nil {
			return true, err
		}
		t.root = child
		t.rootLevel--
		t.metrics.RootShrinks.Inc(1)
		t.metrics.Height.Update(int64(t.rootLevel))
		log.VEventf(t.ctx, 2, "root shrank to level %d", t.rootLevel)
	}
	return true, nil
}

// removeItem finds the leaf entry for id, following only branches that
// overlap r, and disconnects it. On the way back up, covers are tightened
// and nodes below their minimum fill are detached from their parents;
// copies of them are returned for reinsertion.
func (t *Tree) removeItem(r Rect, id int64) (bool, []*node, error) {
	var s stack
	s[0] = frame{ref: t.root}
	found := false
	top := 0
	for top >= 0 && !found {
		n, err := t.store.get(s[top].ref, t.rootLevel-top)
		if err != nil {
			return false, nil, err
		}
		if n.level > 0 {
			descended := false
			for i := s[top].branch; i < len(n.branches); i++ {
				b := &n.branches[i]
				if b.child.valid() && r.Overlaps(b.rect) {
					s[top].branch = i + 1
					top++
					s[top] = frame{ref: b.child.ref}
					descended = true
					break
				}
			}
			if !descended {
				top--
			}
			continue
		}
		for i := range n.branches {
			if c := n.branches[i].child; c.kind == dataChild && c.id == id {
				n.disconnect(i)
				if err := t.store.put(s[top].ref, n); err != nil {
					return false, nil, err
				}
				found = true
				break
			}
		}
		if !found {
			top--
		}
	}
	if !found {
		return false, nil, nil
	}

	var detached []*node
	for ; top > 0; top-- {
		level := t.rootLevel - top
		child, err := t.store.get(s[top].ref, level)
		if err != nil {
			return true, detached, err
		}
		parent, err := t.store.get(s[top-1].ref, level+1)
		if err != nil {
			return true, detached, err
		}
		i := s[top-1].branch - 1
		if child.count >= t.minFill(level) {
			child.coverInto(parent.branches[i].rect)
		} else {
			detached = append(detached, t.cloneNode(child))
			parent.disconnect(i)
			if err := t.store.free(s[top].ref, level); err != nil {
				return true, detached, err
			}
			t.metrics.CondensedNodes.Inc(1)
		}
		if err := t.store.put(s[top-1].ref, parent); err != nil {
			return true, detached, err
		}
	}
	return true, detached, nil
}
