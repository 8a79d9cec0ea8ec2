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

// Package node implements the Substrate trie node: its in-memory form, the
// binary codec and Merkle value computation.
package node

import (
	"fmt"
	"math/bits"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
)

// ChildrenCapacity is the number of child slots of a branch.
const ChildrenCapacity = 16

var indices = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f"}

// ChildKind tags the content of a child slot.
type ChildKind uint8

const (
	ChildEmpty     ChildKind = iota // no child
	ChildNode                       // decoded child owned by the parent
	ChildReference                  // child known only by its merkle value
)

// Child is one slot of a branch. A reference child must be resolved against a
// proof or a node store before its content is known.
type Child struct {
	kind ChildKind
	node *Node
	ref  []byte
}

// NodeChild wraps a decoded node as a child.
func NodeChild(n *Node) Child {
	if n == nil {
		return Child{}
	}
	return Child{kind: ChildNode, node: n}
}

// ReferenceChild wraps a merkle value as an unresolved child.
func ReferenceChild(merkle []byte) Child {
	return Child{kind: ChildReference, ref: merkle}
}

func (c Child) Kind() ChildKind { return c.kind }
func (c Child) IsEmpty() bool   { return c.kind == ChildEmpty }

// Node returns the decoded child, or nil for empty and reference slots.
func (c Child) Node() *Node { return c.node }

// Reference returns the merkle value of a reference child, or nil.
func (c Child) Reference() []byte { return c.ref }

// MerkleValue returns the value the parent commits to for this child.
func (c Child) MerkleValue() ([]byte, error) {
	switch c.kind {
	case ChildNode:
		return c.node.MerkleValue(false)
	case ChildReference:
		return c.ref, nil
	}
	return nil, nil
}

// Node is a decoded trie node.
type Node struct {
	PartialKey  nibble.Nibbles
	Value       []byte // nil when the node holds no storage value
	HashedValue bool   // Value is the Blake2b-256 hash of the actual value
	Children    [ChildrenCapacity]Child
	Descendants int // number of nodes below this one, references included

	flags nodeFlag
}

type nodeFlag struct {
	merkle []byte // cached merkle value (may be nil)
	isRoot bool   // merkle was computed under the root policy
	dirty  bool   // node changed since it was decoded or loaded
}

// NewLeaf returns a leaf holding value under the given partial key.
func NewLeaf(key nibble.Nibbles, value []byte) *Node {
	return &Node{PartialKey: key, Value: value, flags: nodeFlag{dirty: true}}
}

// Dirty reports whether the node changed since it was decoded.
func (n *Node) Dirty() bool { return n.flags.dirty }

// MarkDirty flags the node as modified and drops its cached merkle value.
// Callers mutating a node must also mark every ancestor.
func (n *Node) MarkDirty() {
	n.flags.dirty = true
	n.flags.merkle = nil
}

// IsBranch reports whether the node has at least one child.
func (n *Node) IsBranch() bool { return n.ChildrenBitmap() != 0 }

// NumChildren returns the number of occupied child slots.
func (n *Node) NumChildren() int { return bits.OnesCount16(n.ChildrenBitmap()) }

// ChildrenBitmap returns the bitmap of occupied child slots, bit i set for
// child i.
func (n *Node) ChildrenBitmap() uint16 {
	var bitmap uint16
	for i := range n.Children {
		if !n.Children[i].IsEmpty() {
			bitmap |= 1 << i
		}
	}
	return bitmap
}

// SetChild replaces child slot i and marks the node dirty.
func (n *Node) SetChild(i int, c Child) {
	old := n.Children[i]
	n.Children[i] = c
	n.Descendants += childWeight(c) - childWeight(old)
	n.MarkDirty()
}

// SetValue replaces the storage value and marks the node dirty.
func (n *Node) SetValue(value []byte, hashed bool) {
	n.Value, n.HashedValue = value, hashed
	n.MarkDirty()
}

func childWeight(c Child) int {
	switch c.kind {
	case ChildNode:
		return 1 + c.node.Descendants
	case ChildReference:
		return 1
	}
	return 0
}

// Hash returns the merkle value of n used as a trie root.
func (n *Node) Hash() (common.Hash, error) {
	mv, err := n.MerkleValue(true)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(mv), nil
}

func (n *Node) String() string { return n.fstring("") }

func (n *Node) fstring(ind string) string {
	resp := fmt.Sprintf("{%v", n.PartialKey)
	if n.Value != nil {
		if n.HashedValue {
			resp += fmt.Sprintf(" <%x>", n.Value)
		} else {
			resp += fmt.Sprintf(" %x", n.Value)
		}
	}
	if n.IsBranch() {
		resp += fmt.Sprintf(" [\n%s  ", ind)
		for i, c := range n.Children {
			switch c.kind {
			case ChildNode:
				resp += fmt.Sprintf("%s: %v", indices[i], c.node.fstring(ind+"  "))
			case ChildReference:
				resp += fmt.Sprintf("%s: <%x> ", indices[i], c.ref)
			}
		}
		resp += fmt.Sprintf("\n%s]", ind)
	}
	return resp + "} "
}
