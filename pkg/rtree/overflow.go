// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

// pendingBranch is a branch waiting to be reinserted at level.
type pendingBranch struct {
	b     branch
	level int
}

// insertOp is the state of one top-level insert, shared by the
// reinsertions it triggers.
type insertOp struct {
	// overflowed records the levels at which forced reinsertion was used.
	overflowed [MaxLevel]bool
	// pending is drained last in, first out.
	pending []pendingBranch
}

func (op *insertOp) push(b *branch, level int) {
	p := pendingBranch{b: branch{rect: b.rect.Clone(), child: b.child}, level: level}
	op.pending = append(op.pending, p)
}

// disableOverflow marks every level as having used forced reinsertion.
func (op *insertOp) disableOverflow() {
	for i := range op.overflowed {
		op.overflowed[i] = true
	}
}

func (op *insertOp) pop() (pendingBranch, bool) {
	if len(op.pending) == 0 {
		return pendingBranch{}, false
	}
	p := op.pending[len(op.pending)-1]
	op.pending = op.pending[:len(op.pending)-1]
	return p, true
}

// removeBranches handles the overflow of the full node n by b: of the
// capacity+1 candidates, the ForceCard whose centers lie farthest from the
// center of the enlarged cover are queued on op, and the rest stay in n.
func (t *Tree) removeBranches(n *node, b *branch, op *insertOp) {
	capacity := t.capacity(n.level)
	total := capacity + 1
	s := &t.scratch
	buf := s.buf[:total]
	for i := 0; i < capacity; i++ {
		buf[i].copyFrom(&n.branches[i])
	}
	buf[capacity].copyFrom(b)

	cover := s.rect1
	n.coverInto(cover)
	cover.Expand(b.rect)
	nd := t.ndims
	idx, dist := s.idx[:total], s.dist[:total]
	for i := range buf {
		idx[i] = i
		dist[i] = 0
		r := buf[i].rect
		for j := 0; j < nd; j++ {
			delta := (cover[j]+cover[j+nd])/2 - (r[j]+r[j+nd])/2
			dist[i] += delta * delta
		}
	}
	quicksort(byDistance{idx: idx, dist: dist})

	n.reset()
	for i := 0; i < ForceCard; i++ {
		op.push(&buf[idx[capacity-i]], n.level)
	}
	for i := 0; i < total-ForceCard; i++ {
		n.add(&buf[idx[i]], capacity)
	}
	t.metrics.ForcedReinsertions.Inc(1)
}
