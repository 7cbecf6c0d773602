// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rtree

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

// HeaderSize is the encoded length of a Header.
const HeaderSize = 64

const headerVersion = 1

var headerMagic = [4]byte{'R', 'T', 'R', 'E'}

// Header describes a file tree well enough to reopen it with OpenFile.
//
// The encoding is little endian:
//
//	magic [4]byte | version uint16 | ndims uint8 | split method uint8 |
//	node card, leaf card, node fill, leaf fill, node split fill,
//	leaf split fill, overflow, root level: uint8 each |
//	root offset int64 | items int64 | zero padding to HeaderSize
type Header struct {
	NumDims          int
	NodeCard         int
	LeafCard         int
	MinNodeFill      int
	MinLeafFill      int
	MinNodeSplitFill int
	MinLeafSplitFill int
	SplitMethod      SplitMethod
	Overflow         bool
	RootLevel        int
	RootPos          int64
	Items            int64
}

// Header returns the header describing t in its current state.
func (t *Tree) Header() Header {
	return Header{
		NumDims:          t.ndims,
		NodeCard:         t.opts.NodeCard,
		LeafCard:         t.opts.LeafCard,
		MinNodeFill:      t.opts.MinNodeFill,
		MinLeafFill:      t.opts.MinLeafFill,
		MinNodeSplitFill: t.opts.MinNodeSplitFill,
		MinLeafSplitFill: t.opts.MinLeafSplitFill,
		SplitMethod:      t.opts.SplitMethod,
		Overflow:         t.overflow,
		RootLevel:        t.rootLevel,
		RootPos:          t.RootPos(),
		Items:            t.items,
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (h Header) MarshalBinary() ([]byte, error) {
	small := []int{h.NodeCard, h.LeafCard, h.MinNodeFill, h.MinLeafFill,
		h.MinNodeSplitFill, h.MinLeafSplitFill, 0, h.RootLevel}
	if h.Overflow {
		small[6] = 1
	}
	if h.NumDims < 0 || h.NumDims > MaxDims {
		return nil, errors.Newf("rtree: cannot encode header with %d dimensions", h.NumDims)
	}
	for _, v := range small {
		if v < 0 || v > 0xff {
			return nil, errors.Newf("rtree: cannot encode header field value %d", v)
		}
	}
	buf := make([]byte, HeaderSize)
	le := binary.LittleEndian
	copy(buf[0:4], headerMagic[:])
	le.PutUint16(buf[4:], headerVersion)
	buf[6] = byte(h.NumDims)
	buf[7] = byte(h.SplitMethod)
	for i, v := range small {
		buf[8+i] = byte(v)
	}
	le.PutUint64(buf[16:], uint64(h.RootPos))
	le.PutUint64(buf[24:], uint64(h.Items))
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return errors.Mark(errors.Newf("header too short: %d bytes", len(data)), ErrCorrupt)
	}
	if [4]byte(data[0:4]) != headerMagic {
		return errors.Mark(errors.Newf("bad header magic %q", data[0:4]), ErrCorrupt)
	}
	le := binary.LittleEndian
	if v := le.Uint16(data[4:]); v != headerVersion {
		return errors.Mark(errors.Newf("unsupported header version %d", v), ErrCorrupt)
	}
	*h = Header{
		NumDims:          int(data[6]),
		SplitMethod:      SplitMethod(data[7]),
		NodeCard:         int(data[8]),
		LeafCard:         int(data[9]),
		MinNodeFill:      int(data[10]),
		MinLeafFill:      int(data[11]),
		MinNodeSplitFill: int(data[12]),
		MinLeafSplitFill: int(data[13]),
		Overflow:         data[14] != 0,
		RootLevel:        int(data[15]),
		RootPos:          int64(le.Uint64(data[16:])),
		Items:            int64(le.Uint64(data[24:])),
	}
	if h.NumDims < MinDims || h.NumDims > MaxDims {
		return errors.Mark(errors.Newf("header has %d dimensions", h.NumDims), ErrCorrupt)
	}
	return nil
}

// WriteHeader encodes h at offset 0 of w.
func WriteHeader(w io.WriterAt, h Header) error {
	buf, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.WriteAt(buf, 0); err != nil {
		return errors.Wrap(err, "rtree: writing header")
	}
	return nil
}

// ReadHeader decodes the header at offset 0 of r.
func ReadHeader(r io.ReaderAt) (Header, error) {
	buf := make([]byte, HeaderSize)
	if n, err := r.ReadAt(buf, 0); n < HeaderSize {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Header{}, errors.Wrap(err, "rtree: reading header")
	}
	var h Header
	if err := h.UnmarshalBinary(buf); err != nil {
		return Header{}, err
	}
	return h, nil
}
