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
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
)

// child loads the record a parent references at path.
func (db *Database) child(root []byte, path nibble.Nibbles, merkle []byte) (*TrieNodeData, error) {
	data, ok, err := db.Node(merkle)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &MissingNodeError{Root: root, NodeHash: merkle, Path: path}
	}
	return data, nil
}

// GetByKey returns the value stored under key in the trie of root.
func (db *Database) GetByKey(root []byte, key nibble.Nibbles) ([]byte, bool, error) {
	data, ok, err := db.root(root)
	if err != nil || !ok {
		return nil, false, err
	}
	pos := 0
	for {
		if !key[pos:].StartsWith(data.PartialKey) {
			return nil, false, nil
		}
		pos += len(data.PartialKey)
		if pos == len(key) {
			if !data.HasValue() {
				return nil, false, nil
			}
			value, err := db.Value(data)
			if err != nil {
				return nil, false, err
			}
			return value, true, nil
		}
		merkle := data.Children[key[pos]]
		if merkle == nil {
			return nil, false, nil
		}
		pos++
		if data, err = db.child(root, key.Take(pos), merkle); err != nil {
			return nil, false, err
		}
	}
}

// below reports whether every key starting with p sorts before from.
func below(p, from nibble.Nibbles) bool {
	return p.Compare(from) < 0 && !from.StartsWith(p)
}

// compatible reports whether a subtree at p can hold keys starting with
// prefix.
func compatible(p, prefix nibble.Nibbles) bool {
	return p.StartsWith(prefix) || prefix.StartsWith(p)
}

// walker visits the nodes of a trie depth first, in lexicographic key
// order. Subtrees that cannot hold a key >= from starting with prefix are
// not loaded.
type walker struct {
	db     *Database
	root   []byte
	from   nibble.Nibbles
	prefix nibble.Nibbles

	// visit is called for every node in range; returning false stops the walk.
	visit func(key nibble.Nibbles, data *TrieNodeData) (bool, error)
}

func (w *walker) run() error {
	data, ok, err := w.db.root(w.root)
	if err != nil || !ok {
		return err
	}
	_, err = w.walk(data, nil)
	return err
}

func (w *walker) walk(data *TrieNodeData, path nibble.Nibbles) (bool, error) {
	key := nibble.Concat(path, data.PartialKey)
	if !compatible(key, w.prefix) || below(key, w.from) {
		return true, nil
	}
	if key.Compare(w.from) >= 0 && key.StartsWith(w.prefix) {
		if cont, err := w.visit(key, data); err != nil || !cont {
			return false, err
		}
	}
	for i, merkle := range data.Children {
		if merkle == nil {
			continue
		}
		childPath := nibble.Append(key, nibble.Nibble(i))
		if !compatible(childPath, w.prefix) || below(childPath, w.from) {
			continue
		}
		child, err := w.db.child(w.root, childPath, merkle)
		if err != nil {
			return false, err
		}
		if cont, err := w.walk(child, childPath); err != nil || !cont {
			return false, err
		}
	}
	return true, nil
}

// GetNextKey returns the first key holding a value that sorts strictly after
// key.
func (db *Database) GetNextKey(root []byte, key nibble.Nibbles) (nibble.Nibbles, bool, error) {
	var next nibble.Nibbles
	w := &walker{db: db, root: root, from: key, visit: func(k nibble.Nibbles, data *TrieNodeData) (bool, error) {
		if !data.HasValue() || k.Equal(key) {
			return true, nil
		}
		next = k
		return false, nil
	}}
	if err := w.run(); err != nil {
		return nil, false, err
	}
	return next, next != nil, nil
}

// GetKeysWithPrefix returns up to limit keys holding a value that start with
// prefix, in ascending order. A limit of zero or less means no limit.
func (db *Database) GetKeysWithPrefix(root []byte, prefix nibble.Nibbles, limit int) ([]nibble.Nibbles, error) {
	return db.keys(root, prefix, prefix, nil, limit)
}

// GetKeysWithPrefixPaged is GetKeysWithPrefix resuming after startKey. Keys
// equal to startKey are not returned.
func (db *Database) GetKeysWithPrefixPaged(root []byte, prefix nibble.Nibbles, limit int, startKey nibble.Nibbles) ([]nibble.Nibbles, error) {
	from := prefix
	if startKey.Compare(prefix) > 0 {
		from = startKey
	}
	return db.keys(root, prefix, from, startKey, limit)
}

func (db *Database) keys(root []byte, prefix, from, exclude nibble.Nibbles, limit int) ([]nibble.Nibbles, error) {
	var keys []nibble.Nibbles
	w := &walker{db: db, root: root, from: from, prefix: prefix, visit: func(k nibble.Nibbles, data *TrieNodeData) (bool, error) {
		if !data.HasValue() || (exclude != nil && k.Equal(exclude)) {
			return true, nil
		}
		keys = append(keys, k)
		return limit <= 0 || len(keys) < limit, nil
	}}
	if err := w.run(); err != nil {
		return nil, err
	}
	return keys, nil
}

// GetNextBranch returns the key of the first node, with or without a value,
// whose key is prefix or sorts after it.
func (db *Database) GetNextBranch(root []byte, prefix nibble.Nibbles) (nibble.Nibbles, bool, error) {
	var next nibble.Nibbles
	w := &walker{db: db, root: root, from: prefix, visit: func(k nibble.Nibbles, _ *TrieNodeData) (bool, error) {
		next = k
		return false, nil
	}}
	if err := w.run(); err != nil {
		return nil, false, err
	}
	return next, next != nil, nil
}

// ChildEntry is a child of a node as returned by LoadChildren.
type ChildEntry struct {
	Key    nibble.Nibbles // full key of the child node
	Value  []byte         // storage value, nil for branches
	Merkle []byte
}

// LoadChildren returns the children of the node stored under parentMerkle,
// indexed by nibble. parentKey is the full key of the parent node.
func (db *Database) LoadChildren(parentKey nibble.Nibbles, parentMerkle []byte) ([node.ChildrenCapacity]*ChildEntry, error) {
	var out [node.ChildrenCapacity]*ChildEntry
	parent, ok, err := db.Node(parentMerkle)
	if err != nil {
		return out, err
	}
	if !ok {
		return out, &MissingNodeError{Root: parentMerkle, NodeHash: parentMerkle, Path: parentKey}
	}
	for i, merkle := range parent.Children {
		if merkle == nil {
			continue
		}
		path := nibble.Append(parentKey, nibble.Nibble(i))
		child, err := db.child(parentMerkle, path, merkle)
		if err != nil {
			return out, err
		}
		entry := &ChildEntry{Key: nibble.Concat(path, child.PartialKey), Merkle: merkle}
		if child.HasValue() {
			if entry.Value, err = db.Value(child); err != nil {
				return out, err
			}
		}
		out[i] = entry
	}
	return out, nil
}
