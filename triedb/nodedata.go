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

package triedb

import (
	"encoding/binary"
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/scale"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
)

const (
	flagValue       = 1 << 0 // record holds an inline storage value
	flagHashedValue = 1 << 1 // record holds the hash of a storage value
)

// TrieNodeData is the persisted form of a trie node. Children are referenced
// by their merkle values; a node holds either an inline value or the hash of
// one, never both.
type TrieNodeData struct {
	PartialKey nibble.Nibbles
	Children   [node.ChildrenCapacity][]byte // merkle values, nil for empty slots
	Value      []byte                        // inline storage value
	ValueHash  []byte                        // hash of a storage value stored under its own key
	Version    node.StateVersion
}

// IsBranch reports whether the node has children.
func (d *TrieNodeData) IsBranch() bool {
	for _, c := range d.Children {
		if c != nil {
			return true
		}
	}
	return false
}

// HasValue reports whether the node holds a storage value.
func (d *TrieNodeData) HasValue() bool {
	return d.Value != nil || d.ValueHash != nil
}

// Node returns the codec form of the record: children become references.
func (d *TrieNodeData) Node() *node.Node {
	n := &node.Node{PartialKey: d.PartialKey}
	switch {
	case d.ValueHash != nil:
		n.Value, n.HashedValue = d.ValueHash, true
	case d.Value != nil:
		n.Value = d.Value
	}
	for i, c := range d.Children {
		if c != nil {
			n.Children[i] = node.ReferenceChild(c)
			n.Descendants++
		}
	}
	return n
}

// MerkleValue computes the merkle value of the record.
func (d *TrieNodeData) MerkleValue(isRoot bool) ([]byte, error) {
	enc, err := d.Node().Encode()
	if err != nil {
		return nil, err
	}
	return node.MerkleValueOf(enc, isRoot), nil
}

// Encode serializes the record: version, value flags, partial key, children
// bitmap, children and value.
func (d *TrieNodeData) Encode() []byte {
	var flags byte
	if d.ValueHash != nil {
		flags |= flagHashedValue
	} else if d.Value != nil {
		flags |= flagValue
	}
	var bitmap uint16
	for i, c := range d.Children {
		if c != nil {
			bitmap |= 1 << i
		}
	}
	buf := make([]byte, 0, 64)
	buf = append(buf, byte(d.Version), flags)
	buf = scale.AppendCompact(buf, uint64(len(d.PartialKey)))
	buf = append(buf, d.PartialKey.ToBytesPrepending()...)
	buf = binary.LittleEndian.AppendUint16(buf, bitmap)
	for _, c := range d.Children {
		if c != nil {
			buf = scale.AppendBytes(buf, c)
		}
	}
	switch {
	case flags&flagHashedValue != 0:
		buf = append(buf, d.ValueHash...)
	case flags&flagValue != 0:
		buf = scale.AppendBytes(buf, d.Value)
	}
	return buf
}

// DecodeTrieNodeData parses a record produced by Encode. The result does not
// alias buf.
func DecodeTrieNodeData(buf []byte) (*TrieNodeData, error) {
	if len(buf) < 2 {
		return nil, fmt.Errorf("%w: record too short", ErrCorruptNode)
	}
	version, err := node.ParseStateVersion(uint64(buf[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptNode, err)
	}
	d := &TrieNodeData{Version: version}
	flags := buf[1]

	keyLen, rest, err := scale.SplitCompact(buf[2:])
	if err != nil {
		return nil, fmt.Errorf("%w: partial key length: %v", ErrCorruptNode, err)
	}
	keyBytes := (keyLen + 1) / 2
	if uint64(len(rest)) < keyBytes {
		return nil, fmt.Errorf("%w: partial key truncated", ErrCorruptNode)
	}
	d.PartialKey = nibble.FromBytes(rest[:keyBytes])
	if keyLen%2 == 1 {
		d.PartialKey = d.PartialKey[1:]
	}
	rest = rest[keyBytes:]

	if len(rest) < 2 {
		return nil, fmt.Errorf("%w: bitmap truncated", ErrCorruptNode)
	}
	bitmap := binary.LittleEndian.Uint16(rest)
	rest = rest[2:]
	for i := 0; i < node.ChildrenCapacity; i++ {
		if bitmap&(1<<i) == 0 {
			continue
		}
		var child []byte
		if child, rest, err = scale.SplitBytes(rest); err != nil {
			return nil, fmt.Errorf("%w: child %d: %v", ErrCorruptNode, i, err)
		}
		d.Children[i] = common.CopyBytes(child)
	}
	switch {
	case flags&flagHashedValue != 0:
		if len(rest) < common.HashLength {
			return nil, fmt.Errorf("%w: value hash truncated", ErrCorruptNode)
		}
		d.ValueHash = common.CopyBytes(rest[:common.HashLength])
		rest = rest[common.HashLength:]
	case flags&flagValue != 0:
		var value []byte
		if value, rest, err = scale.SplitBytes(rest); err != nil {
			return nil, fmt.Errorf("%w: value: %v", ErrCorruptNode, err)
		}
		d.Value = common.CopyBytes(value)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptNode, len(rest))
	}
	return d, nil
}
