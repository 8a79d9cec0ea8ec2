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

// Package trie implements an in-memory Substrate trie: tries rebuilt from
// storage proofs and verified against a root, and tries built by inserting
// entries.
package trie

import (
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	mapset "github.com/deckarep/golang-set/v2"
)

// Trie is a Merkle trie held entirely in memory. Children may be references
// to nodes the trie does not have; reaching one yields a MissingNodeError.
//
// Trie is not safe for concurrent use.
type Trie struct {
	root      *node.Node
	version   node.StateVersion
	preimages map[common.Hash][]byte // values of hashed storage values
	unused    mapset.Set[common.Hash]

	// Keep track of the number of modifications since the last hash
	// operation. This number will not directly map to the number of
	// actually unhashed nodes.
	unhashed int
}

// New creates an empty trie whose values are laid out per version.
func New(version node.StateVersion) *Trie {
	return NewFromRoot(nil, version)
}

// NewFromRoot wraps an existing node graph.
func NewFromRoot(root *node.Node, version node.StateVersion) *Trie {
	return &Trie{
		root:      root,
		version:   version,
		preimages: make(map[common.Hash][]byte),
		unused:    mapset.NewThreadUnsafeSet[common.Hash](),
	}
}

// Root returns the root node, nil for an empty trie.
func (t *Trie) Root() *node.Node { return t.root }

// Version returns the state version used by Put.
func (t *Trie) Version() node.StateVersion { return t.version }

// SetVersion changes the state version applied to subsequent Puts.
func (t *Trie) SetVersion(v node.StateVersion) { t.version = v }

// UnusedProofDigests returns the digests of proof entries that were neither
// a node of the trie nor the preimage of one of its values.
func (t *Trie) UnusedProofDigests() []common.Hash {
	return t.unused.ToSlice()
}

// Get returns the value stored under key.
func (t *Trie) Get(key []byte) ([]byte, bool, error) {
	return t.GetNibbles(nibble.FromBytes(key))
}

// GetNibbles returns the value stored under a nibble key.
func (t *Trie) GetNibbles(key nibble.Nibbles) ([]byte, bool, error) {
	n, err := t.get(t.root, key, 0)
	if err != nil || n == nil {
		return nil, false, err
	}
	value, err := t.value(n)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (t *Trie) get(n *node.Node, key nibble.Nibbles, pos int) (*node.Node, error) {
	for n != nil {
		if !key[pos:].StartsWith(n.PartialKey) {
			return nil, nil
		}
		pos += len(n.PartialKey)
		if pos == len(key) {
			if n.Value == nil {
				return nil, nil
			}
			return n, nil
		}
		c := n.Children[key[pos]]
		if c.Kind() == node.ChildReference {
			return nil, &MissingNodeError{NodeHash: c.Reference(), Path: key.Take(pos + 1).Copy()}
		}
		n, pos = c.Node(), pos+1
	}
	return nil, nil
}

// value returns the storage value of n, resolving a hashed value.
func (t *Trie) value(n *node.Node) ([]byte, error) {
	if !n.HashedValue {
		return n.Value, nil
	}
	value, ok := t.preimages[common.BytesToHash(n.Value)]
	if !ok {
		return nil, fmt.Errorf("%w: %x", ErrMissingValue, n.Value)
	}
	return value, nil
}

// Put stores value under key. Every node on the path is marked dirty. Under
// V1 values of 33 bytes or more are stored hashed.
func (t *Trie) Put(key, value []byte) error {
	return t.PutNibbles(nibble.FromBytes(key), value)
}

// PutNibbles is Put for a nibble key.
func (t *Trie) PutNibbles(key nibble.Nibbles, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	stored, hashed := t.version.NodeValue(value)
	if hashed {
		t.preimages[common.BytesToHash(stored)] = common.CopyBytes(value)
	} else {
		stored = common.CopyBytes(stored)
	}
	root, err := t.insert(t.emptyAsNil(), nil, key, stored, hashed)
	if err != nil {
		return err
	}
	t.root = root
	t.unhashed++
	return nil
}

// emptyAsNil returns the root, or nil if it is the empty node.
func (t *Trie) emptyAsNil() *node.Node {
	if t.root == nil || (t.root.Value == nil && !t.root.IsBranch()) {
		return nil
	}
	return t.root
}

// insert puts value under key below n. prefix is the path leading to n and
// only serves error reporting.
func (t *Trie) insert(n *node.Node, prefix, key nibble.Nibbles, value []byte, hashed bool) (*node.Node, error) {
	if n == nil {
		leaf := node.NewLeaf(key.Copy(), value)
		leaf.HashedValue = hashed
		return leaf, nil
	}
	matchlen := nibble.CommonPrefix(key, n.PartialKey)

	switch {
	case matchlen == len(n.PartialKey) && matchlen == len(key):
		n.SetValue(value, hashed)
		return n, nil

	case matchlen == len(n.PartialKey):
		idx := key[matchlen]
		c := n.Children[idx]
		if c.Kind() == node.ChildReference {
			return nil, &MissingNodeError{NodeHash: c.Reference(), Path: nibble.Concat(prefix, key.Take(matchlen+1))}
		}
		child, err := t.insert(c.Node(), nibble.Concat(prefix, key.Take(matchlen+1)), key.Drop(matchlen+1), value, hashed)
		if err != nil {
			return nil, err
		}
		n.SetChild(int(idx), node.NodeChild(child))
		return n, nil
	}

	// The key diverges inside the partial key: a new branch takes the common
	// part and the existing node moves below it.
	branch := &node.Node{PartialKey: key.Take(matchlen).Copy()}
	oldIdx := n.PartialKey[matchlen]
	n.PartialKey = n.PartialKey.Drop(matchlen + 1).Copy()
	n.MarkDirty()
	branch.SetChild(int(oldIdx), node.NodeChild(n))

	if matchlen == len(key) {
		branch.SetValue(value, hashed)
	} else {
		leaf := node.NewLeaf(key.Drop(matchlen+1).Copy(), value)
		leaf.HashedValue = hashed
		branch.SetChild(int(key[matchlen]), node.NodeChild(leaf))
	}
	return branch, nil
}

// Delete removes key from the trie. It reports whether a value was removed.
func (t *Trie) Delete(key []byte) (bool, error) {
	return t.DeleteNibbles(nibble.FromBytes(key))
}

// DeleteNibbles is Delete for a nibble key.
func (t *Trie) DeleteNibbles(key nibble.Nibbles) (bool, error) {
	root, removed, err := t.delete(t.emptyAsNil(), nil, key)
	if err != nil || !removed {
		return false, err
	}
	t.root = root
	t.unhashed++
	return true, nil
}

func (t *Trie) delete(n *node.Node, prefix, key nibble.Nibbles) (*node.Node, bool, error) {
	if n == nil || !key.StartsWith(n.PartialKey) {
		return n, false, nil
	}
	if len(key) == len(n.PartialKey) {
		if n.Value == nil {
			return n, false, nil
		}
		value, hashed := n.Value, n.HashedValue
		n.SetValue(nil, false)
		merged, err := collapse(n, prefix)
		if err != nil {
			n.SetValue(value, hashed)
			return n, false, err
		}
		return merged, true, nil
	}
	idx := key[len(n.PartialKey)]
	path := nibble.Concat(prefix, key.Take(len(n.PartialKey)+1))
	c := n.Children[idx]
	switch c.Kind() {
	case node.ChildEmpty:
		return n, false, nil
	case node.ChildReference:
		return nil, false, &MissingNodeError{NodeHash: c.Reference(), Path: path}
	}
	child, removed, err := t.delete(c.Node(), path, key.Drop(len(n.PartialKey)+1))
	if err != nil || !removed {
		return n, false, err
	}
	n.SetChild(int(idx), node.NodeChild(child))
	merged, err := collapse(n, prefix)
	return merged, err == nil, err
}

// collapse restores the invariant that a node without a value has at least
// two children. A childless node disappears and a node with a single child
// is merged into it.
func collapse(n *node.Node, prefix nibble.Nibbles) (*node.Node, error) {
	if n.Value != nil {
		return n, nil
	}
	switch n.NumChildren() {
	case 0:
		return nil, nil
	case 1:
		for i, c := range n.Children {
			switch c.Kind() {
			case node.ChildEmpty:
				continue
			case node.ChildReference:
				return nil, &MissingNodeError{NodeHash: c.Reference(), Path: nibble.Concat(prefix, n.PartialKey, nibble.Nibbles{nibble.Nibble(i)})}
			}
			child := c.Node()
			child.PartialKey = nibble.Concat(n.PartialKey, nibble.Nibbles{nibble.Nibble(i)}, child.PartialKey)
			child.MarkDirty()
			return child, nil
		}
	}
	return n, nil
}

// RootHash returns the root hash of the trie. The root is always hashed, an
// empty trie has node.EmptyRootHash.
func (t *Trie) RootHash() (common.Hash, error) {
	root := t.emptyAsNil()
	if root == nil {
		return node.EmptyRootHash, nil
	}
	h := newHasher(t.unhashed >= parallelHashThreshold)
	mv, err := h.hash(root, true)
	if err != nil {
		return common.Hash{}, err
	}
	t.unhashed = 0
	return common.BytesToHash(mv), nil
}

// Entries returns every key/value pair of the trie keyed by the byte key.
// Keys of odd nibble length and subtrees behind unresolved references are
// skipped.
func (t *Trie) Entries() (map[string][]byte, error) {
	entries := make(map[string][]byte)
	var walk func(n *node.Node, path nibble.Nibbles) error
	walk = func(n *node.Node, path nibble.Nibbles) error {
		key := nibble.Concat(path, n.PartialKey)
		if n.Value != nil {
			if b, ok := key.ToBytes(); ok {
				value, err := t.value(n)
				if err != nil {
					return fmt.Errorf("key %x: %w", b, err)
				}
				entries[string(b)] = value
			}
		}
		for i, c := range n.Children {
			if c.Kind() != node.ChildNode {
				continue
			}
			if err := walk(c.Node(), nibble.Append(key, nibble.Nibble(i))); err != nil {
				return err
			}
		}
		return nil
	}
	if t.root == nil {
		return entries, nil
	}
	if err := walk(t.root, nil); err != nil {
		return nil, err
	}
	return entries, nil
}

func (t *Trie) String() string {
	if t.root == nil {
		return "{}"
	}
	return t.root.String()
}
