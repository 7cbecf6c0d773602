// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/util/log"
)

// insertBranch inserts b into a node at the given level, then drains the
// branches queued by forced reinsertion, growing the root whenever a split
// reaches it. A branch that would grow the root past MaxLevel is refused
// before the tree is modified.
func (t *Tree) insertBranch(b *branch, level int, op *insertOp) error {
	if t.rootLevel >= MaxLevel-1 {
		// Near the height limit every branch goes through a single descent.
		op.disableOverflow()
	}
	for {
		if t.rootLevel == MaxLevel {
			full, err := t.pathFull(b, level)
			if err != nil {
				return err
			}
			if full {
				return errors.Newf("rtree: tree height limit of %d levels reached", MaxLevel)
			}
		}
		res, sibling, siblingRef, err := t.insert(b, level, op)
		if err != nil {
			return err
		}
		if res == nodeSplit {
			if err := t.growRoot(sibling, siblingRef); err != nil {
				return err
			}
		}
		p, ok := op.pop()
		if !ok {
			return nil
		}
		b, level = &p.b, p.level
	}
}

// insert descends to a node at the given level choosing branches with
// pickBranch, adds b there and propagates the outcome back to the root.
// If the root itself was split the new sibling is returned.
func (t *Tree) insert(b *branch, level int, op *insertOp) (addResult, *node, nodeRef, error) {
	if level > t.rootLevel {
		panic(errors.AssertionFailedf("insert at level %d above root level %d", level, t.rootLevel))
	}
	var s stack
	top := 0
	s[0] = frame{ref: t.root}
	n, err := t.store.get(t.root, t.rootLevel)
	if err != nil {
		return 0, nil, noRef, err
	}
	for n.level > level {
		i := t.pickBranch(b.rect, n)
		s[top].branch = i
		child := n.branches[i].child.ref
		top++
		s[top] = frame{ref: child}
		if n, err = t.store.get(child, n.level-1); err != nil {
			return 0, nil, noRef, err
		}
	}

	res, sibling := t.addBranch(b, n, op)
	if err := t.store.put(s[top].ref, n); err != nil {
		return 0, nil, noRef, err
	}
	var siblingRef nodeRef
	if res == nodeSplit {
		if siblingRef, err = t.store.alloc(sibling); err != nil {
			return 0, nil, noRef, err
		}
	}

	for top > 0 {
		child := n
		top--
		parent, err := t.store.get(s[top].ref, child.level+1)
		if err != nil {
			return 0, nil, noRef, err
		}
		pb := &parent.branches[s[top].branch]
		switch res {
		case branchInserted:
			if !pb.rect.Expand(b.rect) {
				n = parent
				continue
			}
		case branchesReinserted:
			child.coverInto(pb.rect)
		case nodeSplit:
			child.coverInto(pb.rect)
			nb := branch{rect: sibling.cover(t.ndims), child: nodeChildRef(siblingRef)}
			res, sibling = t.addBranch(&nb, parent, op)
			if res == nodeSplit {
				if siblingRef, err = t.store.alloc(sibling); err != nil {
					return 0, nil, noRef, err
				}
			}
		}
		if err := t.store.put(s[top].ref, parent); err != nil {
			return 0, nil, noRef, err
		}
		n = parent
	}
	return res, sibling, siblingRef, nil
}

// pathFull reports whether every node on the path insert would take for b,
// from the root down to level, is full. Without forced reinsertion this is
// exactly the condition under which adding b splits the root.
func (t *Tree) pathFull(b *branch, level int) (bool, error) {
	n, err := t.store.get(t.root, t.rootLevel)
	if err != nil {
		return false, err
	}
	for {
		if n.count < t.capacity(n.level) {
			return false, nil
		}
		if n.level == level {
			return true, nil
		}
		child := n.branches[t.pickBranch(b.rect, n)].child.ref
		if n, err = t.store.get(child, n.level-1); err != nil {
			return false, err
		}
	}
}

// growRoot replaces the root by a new one a level up holding the old root
// and its new sibling.
func (t *Tree) growRoot(sibling *node, siblingRef nodeRef) error {
	if t.rootLevel+1 > MaxLevel {
		return errors.AssertionFailedf("tree exceeds %d levels", MaxLevel)
	}
	old, err := t.store.get(t.root, t.rootLevel)
	if err != nil {
		return err
	}
	root := t.newNode(t.rootLevel + 1)
	capacity := t.capacity(root.level)
	b := branch{rect: old.cover(t.ndims), child: nodeChildRef(t.root)}
	root.add(&b, capacity)
	b = branch{rect: sibling.cover(t.ndims), child: nodeChildRef(siblingRef)}
	root.add(&b, capacity)
	ref, err := t.store.alloc(root)
	if err != nil {
		return err
	}
	t.root = ref
	t.rootLevel++
	t.metrics.RootGrowths.Inc(1)
	t.metrics.Height.Update(int64(t.rootLevel))
	log.VEventf(t.ctx, 2, "root grew to level %d", t.rootLevel)
	return nil
}
