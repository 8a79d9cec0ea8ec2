// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package node

import (
	"encoding/binary"
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/scale"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
)

// Decode parses a complete node encoding. Inline children are decoded
// recursively, 32 byte children become reference slots. The returned node
// does not retain buf.
func Decode(buf []byte) (*Node, error) {
	return decodeAt(buf, 0)
}

// MustDecode is like Decode but panics on malformed input.
func MustDecode(buf []byte) *Node {
	n, err := Decode(buf)
	if err != nil {
		panic(fmt.Sprintf("node %x: %v", buf, err))
	}
	return n
}

func decodeAt(buf []byte, base int) (*Node, error) {
	d := decoder{buf: buf, base: base}
	n, err := d.node()
	if err != nil {
		return nil, err
	}
	if d.pos != len(buf) {
		return nil, d.fail(ErrTrailingBytes, nil)
	}
	return n, nil
}

type decoder struct {
	buf  []byte
	pos  int
	base int // offset of buf within the outermost encoding
}

func (d *decoder) fail(kind, cause error) error {
	return &DecodeError{Kind: kind, Offset: d.base + d.pos, Err: cause}
}

func (d *decoder) node() (*Node, error) {
	header, size, err := DecodeHeader(d.buf)
	if err != nil {
		return nil, d.fail(err, nil)
	}
	switch header.Variant {
	case Empty:
		d.pos += size
		return &Node{}, nil
	case CompactEncoding:
		return nil, d.fail(ErrCompactEncoding, nil)
	}
	d.pos += size

	n := new(Node)
	if n.PartialKey, err = d.partialKey(header.PartialKeyLen); err != nil {
		return nil, err
	}
	var bitmap uint16
	if header.Variant.IsBranch() {
		if len(d.buf)-d.pos < 2 {
			return nil, d.fail(ErrBitmapTruncated, nil)
		}
		bitmap = binary.LittleEndian.Uint16(d.buf[d.pos:])
		if bitmap == 0 {
			return nil, d.fail(ErrEmptyBitmap, nil)
		}
		d.pos += 2
	}
	if header.Variant.HasValue() {
		if err := d.value(n, header.Variant.HashedValue()); err != nil {
			return nil, err
		}
	}
	for i := 0; i < ChildrenCapacity; i++ {
		if bitmap&(1<<i) == 0 {
			continue
		}
		if err := d.child(n, i); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (d *decoder) partialKey(keyLen int) (nibble.Nibbles, error) {
	if keyLen == 0 {
		return nibble.Nibbles{}, nil
	}
	size := (keyLen + 1) / 2
	if len(d.buf)-d.pos < size {
		return nil, d.fail(ErrPartialKeyTruncated, nil)
	}
	key := nibble.FromBytes(d.buf[d.pos : d.pos+size])
	if keyLen%2 == 1 {
		if key[0] != 0 {
			return nil, d.fail(ErrInvalidPadding, nil)
		}
		key = key[1:]
	}
	d.pos += size
	return key, nil
}

func (d *decoder) value(n *Node, hashed bool) error {
	if hashed {
		if len(d.buf)-d.pos < common.HashLength {
			return d.fail(ErrStorageValueTruncated, nil)
		}
		n.Value = common.CopyBytes(d.buf[d.pos : d.pos+common.HashLength])
		n.HashedValue = true
		d.pos += common.HashLength
		return nil
	}
	value, rest, err := scale.SplitBytes(d.buf[d.pos:])
	if err != nil {
		return d.fail(ErrStorageValueTruncated, err)
	}
	n.Value = common.CopyBytes(value)
	d.pos = len(d.buf) - len(rest)
	return nil
}

func (d *decoder) child(n *Node, i int) error {
	blob, rest, err := scale.SplitBytes(d.buf[d.pos:])
	if err != nil {
		return wrapChild(d.fail(ErrChildTruncated, err), i)
	}
	start := len(d.buf) - len(rest) - len(blob)
	switch {
	case len(blob) > common.HashLength:
		return wrapChild(d.fail(ErrChildTooLarge, fmt.Errorf("%d bytes", len(blob))), i)
	case len(blob) == common.HashLength:
		n.Children[i] = ReferenceChild(common.CopyBytes(blob))
		n.Descendants++
	default:
		child, err := decodeAt(blob, d.base+start)
		if err != nil {
			return wrapChild(err, i)
		}
		n.Children[i] = NodeChild(child)
		n.Descendants += 1 + child.Descendants
	}
	d.pos = len(d.buf) - len(rest)
	return nil
}
