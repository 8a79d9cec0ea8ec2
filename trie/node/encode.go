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
	"github.com/LimeChain/Fruzhin-sub001/crypto"
	"github.com/LimeChain/Fruzhin-sub001/scale"
)

// Variant returns the variant n encodes as.
func (n *Node) Variant() (Variant, error) {
	branch := n.IsBranch()
	switch {
	case !branch && n.Value == nil:
		if len(n.PartialKey) != 0 {
			return 0, ErrNodeEncoding
		}
		return Empty, nil
	case !branch && n.HashedValue:
		return LeafWithHashedValue, nil
	case !branch:
		return Leaf, nil
	case n.Value == nil:
		return Branch, nil
	case n.HashedValue:
		return BranchWithHashedValue, nil
	default:
		return BranchWithValue, nil
	}
}

// Encode returns the binary encoding of n. Children are emitted as their
// merkle values, so decoded children are encoded recursively.
func (n *Node) Encode() ([]byte, error) {
	return n.AppendEncode(nil)
}

// AppendEncode appends the binary encoding of n to dst.
func (n *Node) AppendEncode(dst []byte) ([]byte, error) {
	variant, err := n.Variant()
	if err != nil {
		return nil, err
	}
	dst, err = AppendHeader(dst, variant, len(n.PartialKey))
	if err != nil {
		return nil, err
	}
	if variant == Empty {
		return dst, nil
	}
	dst = append(dst, n.PartialKey.ToBytesPrepending()...)
	if variant.IsBranch() {
		dst = binary.LittleEndian.AppendUint16(dst, n.ChildrenBitmap())
	}
	if n.Value != nil {
		if n.HashedValue {
			if len(n.Value) != common.HashLength {
				return nil, fmt.Errorf("%w: got %d", ErrHashedValueLength, len(n.Value))
			}
			dst = append(dst, n.Value...)
		} else {
			dst = scale.AppendBytes(dst, n.Value)
		}
	}
	if variant.IsBranch() {
		for i, c := range n.Children {
			if c.IsEmpty() {
				continue
			}
			mv, err := c.MerkleValue()
			if err != nil {
				return nil, fmt.Errorf("child %s: %w", indices[i], err)
			}
			dst = scale.AppendBytes(dst, mv)
		}
	}
	return dst, nil
}

// MerkleValue returns the merkle value of n. Non-root nodes whose encoding is
// shorter than 32 bytes are their own merkle value; everything else, and the
// root always, is the Blake2b-256 hash of the encoding. The result is cached
// until the node is marked dirty.
func (n *Node) MerkleValue(isRoot bool) ([]byte, error) {
	if n.flags.merkle != nil && n.flags.isRoot == isRoot {
		return n.flags.merkle, nil
	}
	enc, err := n.Encode()
	if err != nil {
		return nil, err
	}
	n.flags.merkle = MerkleValueOf(enc, isRoot)
	n.flags.isRoot = isRoot
	return n.flags.merkle, nil
}

// MerkleValueOf computes the merkle value of an encoded node.
func MerkleValueOf(enc []byte, isRoot bool) []byte {
	if !isRoot && len(enc) < common.HashLength {
		return common.CopyBytes(enc)
	}
	return crypto.Blake2b256Bytes(enc)
}

// EmptyRootHash is the merkle root of a trie without entries, the hash of the
// single byte empty node.
var EmptyRootHash = crypto.Blake2b256([]byte{0x00})
