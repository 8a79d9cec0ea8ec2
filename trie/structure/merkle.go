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

package structure

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
)

// NodeData is the user data of a trie that holds storage values and caches
// Merkle values.
type NodeData struct {
	Value  []byte // storage value, nil for branches
	Merkle []byte // merkle value, valid after ComputeMerkleValues
}

// KeyValue is a key/value pair to build a trie from.
type KeyValue struct {
	Key   []byte
	Value []byte
}

// FromEntries builds a trie holding the given entries. Later duplicates
// override earlier ones.
func FromEntries(entries []KeyValue) (*Trie[NodeData], error) {
	t := NewWithCapacity[NodeData](len(entries) * 2)
	for _, e := range entries {
		if _, err := t.Insert(nibble.FromBytes(e.Key), NodeData{Value: e.Value}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// FromMap builds a trie from a map, inserting keys in sorted order so the
// arena layout is deterministic.
func FromMap(entries map[string][]byte) (*Trie[NodeData], error) {
	kvs := make([]KeyValue, 0, len(entries))
	for k, v := range entries {
		kvs = append(kvs, KeyValue{Key: []byte(k), Value: v})
	}
	sort.Slice(kvs, func(i, j int) bool { return bytes.Compare(kvs[i].Key, kvs[j].Key) < 0 })
	return FromEntries(kvs)
}

// DecodedNode assembles the codec form of the node at idx. Children are
// referenced by their cached merkle values, so it must run after the
// children's values are computed.
func DecodedNode(t *Trie[NodeData], idx NodeIndex, version node.StateVersion) (*node.Node, error) {
	n := t.at(idx)
	dec := &node.Node{PartialKey: n.partialKey}
	if n.hasStorageValue {
		value := n.userData.Value
		if value == nil {
			value = []byte{}
		}
		dec.Value, dec.HashedValue = version.NodeValue(value)
	}
	for i, c := range n.children {
		if c.IsZero() {
			continue
		}
		mv := t.at(c).userData.Merkle
		if mv == nil {
			return nil, fmt.Errorf("child %x of node %v has no merkle value", i, idx)
		}
		dec.Children[i] = node.ReferenceChild(mv)
	}
	return dec, nil
}

// ComputeMerkleValues fills the Merkle field of every node, children before
// parents. The root is always hashed.
func ComputeMerkleValues(t *Trie[NodeData], version node.StateVersion) error {
	all := t.AllIndices()
	for i := len(all) - 1; i >= 0; i-- {
		if err := computeMerkle(t, all[i], version); err != nil {
			return err
		}
	}
	return nil
}

// UpdateMerkleValues recomputes the given nodes and all their ancestors.
func UpdateMerkleValues(t *Trie[NodeData], indices []NodeIndex, version node.StateVersion) error {
	dirty := make(map[NodeIndex]struct{})
	for _, idx := range indices {
		if !t.Contains(idx) {
			continue
		}
		dirty[idx] = struct{}{}
		for _, p := range t.NodePath(idx) {
			dirty[p] = struct{}{}
		}
	}
	all := t.AllIndices()
	for i := len(all) - 1; i >= 0; i-- {
		if _, ok := dirty[all[i]]; !ok {
			continue
		}
		if err := computeMerkle(t, all[i], version); err != nil {
			return err
		}
	}
	return nil
}

func computeMerkle(t *Trie[NodeData], idx NodeIndex, version node.StateVersion) error {
	dec, err := DecodedNode(t, idx, version)
	if err != nil {
		return err
	}
	enc, err := dec.Encode()
	if err != nil {
		return fmt.Errorf("node %v: %w", t.FullKey(idx), err)
	}
	t.at(idx).userData.Merkle = node.MerkleValueOf(enc, t.IsRoot(idx))
	return nil
}

// RootMerkle returns the root hash, or the empty trie root for an empty trie.
// Merkle values must be computed first.
func RootMerkle(t *Trie[NodeData]) []byte {
	root, ok := t.RootIndex()
	if !ok {
		return node.EmptyRootHash.Bytes()
	}
	return t.at(root).userData.Merkle
}

// StorageEntries returns every key/value pair in key order. Keys of odd
// nibble length cannot be represented as bytes and are skipped.
func StorageEntries(t *Trie[NodeData]) []KeyValue {
	var out []KeyValue
	t.Walk(func(idx NodeIndex) bool {
		n := t.at(idx)
		if !n.hasStorageValue {
			return true
		}
		if key, ok := t.FullKey(idx).ToBytes(); ok {
			out = append(out, KeyValue{Key: key, Value: n.userData.Value})
		}
		return true
	})
	return out
}
