// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

// ErrCorrupt is reported when a header or node read from a file fails
// validation.
var ErrCorrupt = errors.New("rtree: corrupt index file")

// nodeCodec encodes nodes as fixed size little-endian records:
//
//	level int32 | count int32 | slots x (child int64 | 2*ndims x float64)
//
// A leaf child is the item id, 0 when empty. An internal child is the file
// offset of the child node, -1 when empty.
type nodeCodec struct {
	ndims int
	slots int
}

func (c nodeCodec) branchSize() int {
	return 8 + 16*c.ndims
}

// size is the length of an encoded node.
func (c nodeCodec) size() int {
	return 8 + c.slots*c.branchSize()
}

func (c nodeCodec) encode(n *node, buf []byte) {
	le := binary.LittleEndian
	le.PutUint32(buf[0:], uint32(int32(n.level)))
	le.PutUint32(buf[4:], uint32(int32(n.count)))
	off := 8
	for i := range n.branches {
		b := &n.branches[i]
		var child int64
		switch b.child.kind {
		case dataChild:
			child = b.child.id
		case nodeChild:
			child = b.child.ref.pos
		default:
			if n.isLeaf() {
				child = 0
			} else {
				child = -1
			}
		}
		le.PutUint64(buf[off:], uint64(child))
		off += 8
		for _, v := range b.rect {
			le.PutUint64(buf[off:], math.Float64bits(v))
			off += 8
		}
	}
}

// decode fills n from buf, checking that the record describes a node at
// the expected level with a consistent branch count.
func (c nodeCodec) decode(buf []byte, n *node, pos int64, level int) error {
	le := binary.LittleEndian
	gotLevel := int(int32(le.Uint32(buf[0:])))
	count := int(int32(le.Uint32(buf[4:])))
	if gotLevel != level {
		return errors.Mark(errors.Newf("node at offset %d has level %d, expected %d", pos, gotLevel, level),
			ErrCorrupt)
	}
	n.level = gotLevel
	occupied := 0
	off := 8
	for i := range n.branches {
		b := &n.branches[i]
		child := int64(le.Uint64(buf[off:]))
		off += 8
		for j := range b.rect {
			b.rect[j] = math.Float64frombits(le.Uint64(buf[off:]))
			off += 8
		}
		switch {
		case n.isLeaf() && child > 0:
			b.child = dataRef(child)
		case !n.isLeaf() && child >= 0:
			b.child = nodeChildRef(nodeRef{pos: child})
		case n.isLeaf() && child < 0, !n.isLeaf() && child < -1:
			return errors.Mark(errors.Newf("node at offset %d has invalid child %d in slot %d", pos, child, i),
				ErrCorrupt)
		default:
			b.reset()
			continue
		}
		occupied++
	}
	if count != occupied {
		return errors.Mark(errors.Newf("node at offset %d claims %d branches, has %d", pos, count, occupied),
			ErrCorrupt)
	}
	n.count = count
	return nil
}
