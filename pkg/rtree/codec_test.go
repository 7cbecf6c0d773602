// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import (
	"encoding/binary"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestNodeCodec(t *testing.T) {
	c := nodeCodec{ndims: 2, slots: 4}
	require.Equal(t, 8+4*40, c.size())
	buf := make([]byte, c.size())

	leaf := makeNode(0, 4, 2)
	leaf.add(&branch{rect: Rect2D(0, 0, 1, 1), child: dataRef(5)}, 4)
	leaf.add(&branch{rect: Rect2D(2, 2, 3, 3), child: dataRef(9)}, 4)
	leaf.disconnect(0)
	c.encode(leaf, buf)

	got := makeNode(0, 4, 2)
	require.NoError(t, c.decode(buf, got, 0, 0))
	require.Equal(t, 1, got.count)
	require.False(t, got.branches[0].child.valid())
	require.Equal(t, dataRef(9), got.branches[1].child)
	require.Equal(t, Rect2D(2, 2, 3, 3), got.branches[1].rect)

	inner := makeNode(2, 4, 2)
	inner.add(&branch{rect: Rect2D(0, 0, 4, 4), child: nodeChildRef(nodeRef{pos: 0})}, 4)
	c.encode(inner, buf)
	require.Equal(t, int64(0), int64(binary.LittleEndian.Uint64(buf[8:])))
	require.Equal(t, int64(-1), int64(binary.LittleEndian.Uint64(buf[8+40:])))
	got = makeNode(2, 4, 2)
	require.NoError(t, c.decode(buf, got, 0, 2))
	require.Equal(t, nodeChildRef(nodeRef{pos: 0}), got.branches[0].child)
	require.Equal(t, 1, got.count)
}

func TestNodeCodecCorruption(t *testing.T) {
	c := nodeCodec{ndims: 2, slots: 3}
	n := makeNode(0, 3, 2)
	n.add(&branch{rect: Rect2D(0, 0, 1, 1), child: dataRef(1)}, 3)
	good := make([]byte, c.size())
	c.encode(n, good)
	le := binary.LittleEndian

	for _, tc := range []struct {
		name   string
		level  int
		mutate func(b []byte)
	}{
		{"level", 1, func([]byte) {}},
		{"count", 0, func(b []byte) { le.PutUint32(b[4:], 2) }},
		{"negative id", 0, func(b []byte) { le.PutUint64(b[8+40:], uint64(1<<64-3)) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := append([]byte(nil), good...)
			tc.mutate(b)
			err := c.decode(b, makeNode(tc.level, 3, 2), 0, tc.level)
			require.True(t, errors.Is(err, ErrCorrupt), "%v", err)
		})
	}
}

func TestFreeList(t *testing.T) {
	fl := makeFreeList()
	_, ok := fl.take()
	require.False(t, ok)
	for _, pos := range []int64{700, 100, 400, 100} {
		fl.add(pos)
	}
	require.Equal(t, 3, fl.len())
	for _, want := range []int64{100, 400, 700} {
		pos, ok := fl.take()
		require.True(t, ok)
		require.Equal(t, want, pos)
	}
	require.Zero(t, fl.len())
}
