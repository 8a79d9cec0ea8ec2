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
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	"github.com/LimeChain/Fruzhin-sub001/trie/structure"
)

// nodeWrite assembles the record of the node at idx. Merkle values of the
// node and its children must have been computed.
func nodeWrite(t *structure.Trie[structure.NodeData], idx structure.NodeIndex, version node.StateVersion) (NodeWrite, error) {
	ud := t.UserData(idx)
	if ud.Merkle == nil {
		return NodeWrite{}, fmt.Errorf("%w: node %v", ErrMerkleNotComputed, t.FullKey(idx))
	}
	data := &TrieNodeData{PartialKey: t.PartialKey(idx).Copy(), Version: version}
	for i, c := range t.Children(idx) {
		if c.IsZero() {
			continue
		}
		mv := t.UserData(c).Merkle
		if mv == nil {
			return NodeWrite{}, fmt.Errorf("%w: child %x of node %v", ErrMerkleNotComputed, i, t.FullKey(idx))
		}
		data.Children[i] = mv
	}
	w := NodeWrite{Merkle: ud.Merkle, Data: data}
	if t.HasStorageValue(idx) {
		value := ud.Value
		if value == nil {
			value = []byte{}
		}
		stored, hashed := version.NodeValue(value)
		if hashed {
			data.ValueHash, w.Value = stored, value
		} else {
			data.Value = stored
		}
	}
	return w, nil
}

// InsertTrieStorage computes the merkle values of t and persists every node.
// It returns the root hash.
func (db *Database) InsertTrieStorage(t *structure.Trie[structure.NodeData], version node.StateVersion) ([]byte, error) {
	if err := structure.ComputeMerkleValues(t, version); err != nil {
		return nil, err
	}
	return db.writeStructure(t, t.AllIndices(), version)
}

// UpdateTrieStorage recomputes the merkle values of the given nodes and
// their ancestors and persists exactly those nodes. Nodes removed from t are
// skipped. It returns the new root hash.
func (db *Database) UpdateTrieStorage(t *structure.Trie[structure.NodeData], indices []structure.NodeIndex, version node.StateVersion) ([]byte, error) {
	if err := structure.UpdateMerkleValues(t, indices, version); err != nil {
		return nil, err
	}
	dirty := make(map[structure.NodeIndex]struct{})
	for _, idx := range indices {
		if !t.Contains(idx) {
			continue
		}
		dirty[idx] = struct{}{}
		for _, p := range t.NodePath(idx) {
			dirty[p] = struct{}{}
		}
	}
	var ordered []structure.NodeIndex
	for _, idx := range t.AllIndices() {
		if _, ok := dirty[idx]; ok {
			ordered = append(ordered, idx)
		}
	}
	return db.writeStructure(t, ordered, version)
}

// writeStructure persists the nodes given in lexicographic order, deepest
// first so the root record lands last.
func (db *Database) writeStructure(t *structure.Trie[structure.NodeData], ordered []structure.NodeIndex, version node.StateVersion) ([]byte, error) {
	if t.IsEmpty() {
		return node.EmptyRootHash.Bytes(), nil
	}
	writes := make([]NodeWrite, 0, len(ordered))
	for i := len(ordered) - 1; i >= 0; i-- {
		w, err := nodeWrite(t, ordered[i], version)
		if err != nil {
			return nil, err
		}
		writes = append(writes, w)
	}
	if err := db.WriteNodes(writes); err != nil {
		return nil, err
	}
	return structure.RootMerkle(t), nil
}
