// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

// frame is one level of an explicit traversal stack: the node being
// visited and the index of the branch to resume from (or, while
// descending, the branch that was followed).
type frame struct {
	ref    nodeRef
	branch int
}

// stack is a traversal stack; frame i holds a node at level rootLevel-i.
type stack [MaxLevel + 1]frame

// search walks every subtree whose cover overlaps r.
func (t *Tree) search(r Rect, fn func(int64, Rect) bool) (int, error) {
	var s stack
	s[0] = frame{ref: t.root}
	hits := 0
	for top := 0; top >= 0; {
		n, err := t.store.get(s[top].ref, t.rootLevel-top)
		if err != nil {
			return hits, err
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
			b := &n.branches[i]
			if b.child.valid() && r.Overlaps(b.rect) {
				hits++
				if fn != nil && !fn(b.child.id, b.rect) {
					return hits, nil
				}
			}
		}
		top--
	}
	return hits, nil
}
