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

// Package disktrie implements a mutable view of a trie persisted in a
// triedb.Database. Edits rewrite the nodes on the path from the root into an
// in-memory change set; nothing touches storage before PersistChanges.
package disktrie

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/log"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	"github.com/LimeChain/Fruzhin-sub001/triedb"
	"github.com/LimeChain/Fruzhin-sub001/triedb/changes"
)

// errDanglingChild is returned when a dirty child slot has no staged node.
var errDanglingChild = errors.New("dirty child slot without staged node")

// dirtySlot marks a child slot whose node is staged in the change set. It is
// non-nil and never a valid merkle value.
var dirtySlot = []byte{}

func isDirty(slot []byte) bool { return slot != nil && len(slot) == 0 }

// Trie is a mutable view over the trie committed under a root. It is not
// safe for concurrent use.
type Trie struct {
	db        *triedb.Database
	root      []byte
	version   node.StateVersion
	changes   *changes.Changes
	diff      *changes.Diff
	preimages map[common.Hash][]byte // values of hashed storage values staged for writing
	children  map[string]*Trie       // opened child tries keyed by their parent key
	logger    log.Logger
}

// New opens the trie committed under root. Values written afterwards are
// laid out per version.
func New(db *triedb.Database, root []byte, version node.StateVersion) *Trie {
	if len(root) == 0 {
		root = node.EmptyRootHash.Bytes()
	}
	return &Trie{
		db:        db,
		root:      common.CopyBytes(root),
		version:   version,
		changes:   changes.New(),
		diff:      changes.NewDiff(),
		preimages: make(map[common.Hash][]byte),
		children:  make(map[string]*Trie),
		logger:    log.New("module", "disktrie"),
	}
}

// CommittedRoot returns the root the pending changes apply to.
func (t *Trie) CommittedRoot() []byte { return t.root }

// Dirty reports whether there are pending changes, in the trie itself or in
// one of its opened child tries.
func (t *Trie) Dirty() bool {
	if t.changes.Len() > 0 {
		return true
	}
	for _, c := range t.children {
		if c.Dirty() {
			return true
		}
	}
	return false
}

// cursor is a node together with its full key.
type cursor struct {
	key  nibble.Nibbles // full key, partial key included
	data *triedb.TrieNodeData
}

// start returns the position where the partial key of c begins.
func (c *cursor) start() int { return len(c.key) - len(c.data.PartialKey) }

func (t *Trie) rootCursor() (*cursor, error) {
	if t.changes.Len() > 0 {
		e, ok := t.changes.Root()
		if !ok {
			return nil, nil
		}
		return &cursor{key: e.Key, data: e.Node}, nil
	}
	if bytes.Equal(t.root, node.EmptyRootHash.Bytes()) {
		return nil, nil
	}
	data, ok, err := t.db.Node(t.root)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &triedb.MissingNodeError{Root: t.root, NodeHash: t.root}
	}
	return &cursor{key: data.PartialKey, data: data}, nil
}

// child returns the child of c at nib, nil for an empty slot.
func (t *Trie) child(c *cursor, nib nibble.Nibble) (*cursor, error) {
	slot := c.data.Children[nib]
	switch {
	case slot == nil:
		return nil, nil
	case isDirty(slot):
		e, ok := t.changes.ChildByIndex(c.key, nib)
		if !ok {
			return nil, fmt.Errorf("%w: %v/%x", errDanglingChild, c.key, nib)
		}
		return &cursor{key: e.Key, data: e.Node}, nil
	}
	data, ok, err := t.db.Node(slot)
	if err != nil {
		return nil, err
	}
	path := nibble.Append(c.key, nib)
	if !ok {
		return nil, &triedb.MissingNodeError{Root: t.root, NodeHash: slot, Path: path}
	}
	return &cursor{key: nibble.Concat(path, data.PartialKey), data: data}, nil
}

// lookup returns the node whose full key is key.
func (t *Trie) lookup(key nibble.Nibbles) (*cursor, error) {
	c, err := t.rootCursor()
	for err == nil && c != nil {
		if !key.StartsWith(c.key) {
			return nil, nil
		}
		if len(key) == len(c.key) {
			return c, nil
		}
		c, err = t.child(c, key[len(c.key)])
	}
	return nil, err
}

// value returns the storage value held by data.
func (t *Trie) value(data *triedb.TrieNodeData) ([]byte, error) {
	if data.ValueHash != nil {
		if v, ok := t.preimages[common.BytesToHash(data.ValueHash)]; ok {
			return v, nil
		}
	}
	return t.db.Value(data)
}

// Get returns the value stored under key.
func (t *Trie) Get(key []byte) ([]byte, bool, error) {
	k := nibble.FromBytes(key)
	if value, staged := t.diff.Get(k); staged {
		return value, value != nil, nil
	}
	c, err := t.lookup(k)
	if err != nil || c == nil || !c.data.HasValue() {
		return nil, false, err
	}
	value, err := t.value(c.data)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// walk visits the nodes below c in key order, skipping subtrees that only
// hold keys before from. visit returning false stops the walk.
func (t *Trie) walk(c *cursor, from nibble.Nibbles, visit func(*cursor) bool) (bool, error) {
	if c.key.Compare(from) < 0 && !from.StartsWith(c.key) {
		return true, nil
	}
	if c.key.Compare(from) >= 0 && !visit(c) {
		return false, nil
	}
	for i, slot := range c.data.Children {
		if slot == nil {
			continue
		}
		path := nibble.Append(c.key, nibble.Nibble(i))
		if path.Compare(from) < 0 && !from.StartsWith(path) {
			continue
		}
		child, err := t.child(c, nibble.Nibble(i))
		if err != nil {
			return false, err
		}
		if cont, err := t.walk(child, from, visit); err != nil || !cont {
			return false, err
		}
	}
	return true, nil
}

// NextKey returns the first key holding a value that sorts strictly after
// key. Keys of odd nibble length are skipped.
func (t *Trie) NextKey(key []byte) ([]byte, bool, error) {
	from := nibble.FromBytes(key)
	root, err := t.rootCursor()
	if err != nil || root == nil {
		return nil, false, err
	}
	var next []byte
	_, err = t.walk(root, from, func(c *cursor) bool {
		if !c.data.HasValue() || c.key.Equal(from) {
			return true
		}
		b, ok := c.key.ToBytes()
		if !ok {
			return true
		}
		next = b
		return false
	})
	if err != nil {
		return nil, false, err
	}
	return next, next != nil, nil
}

// keysWithPrefix returns up to limit keys holding a value that start with
// prefix. A limit of zero or less means no limit.
func (t *Trie) keysWithPrefix(prefix nibble.Nibbles, limit int) ([]nibble.Nibbles, error) {
	root, err := t.rootCursor()
	if err != nil || root == nil {
		return nil, err
	}
	var keys []nibble.Nibbles
	_, err = t.walk(root, prefix, func(c *cursor) bool {
		if !c.key.StartsWith(prefix) {
			return false
		}
		if c.data.HasValue() {
			keys = append(keys, c.key)
		}
		return limit <= 0 || len(keys) < limit
	})
	return keys, err
}

// Upsert stores value under key.
func (t *Trie) Upsert(key, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	k := nibble.FromBytes(key)
	root, err := t.rootCursor()
	if err != nil {
		return err
	}
	saved := t.changes.Clone()
	if _, err := t.insert(root, 0, k, value); err != nil {
		t.changes = saved
		return err
	}
	t.diff.Insert(k, value)
	return nil
}

// setValue lays value out per the trie version.
func (t *Trie) setValue(data *triedb.TrieNodeData, value []byte) {
	stored, hashed := t.version.NodeValue(value)
	data.Value, data.ValueHash, data.Version = nil, nil, t.version
	if hashed {
		t.preimages[common.BytesToHash(stored)] = common.CopyBytes(value)
		data.ValueHash = stored
		return
	}
	data.Value = common.CopyBytes(stored)
}

// stage records data as the new content of the node at key.
func (t *Trie) stage(key nibble.Nibbles, data *triedb.TrieNodeData) *cursor {
	t.changes.Update(key, data)
	return &cursor{key: key.Copy(), data: data}
}

// insert puts value under key in the subtree of c, whose partial key begins
// at start. It returns the node that takes the place of c.
func (t *Trie) insert(c *cursor, start int, key nibble.Nibbles, value []byte) (*cursor, error) {
	if c == nil {
		data := &triedb.TrieNodeData{PartialKey: key.Drop(start).Copy()}
		t.setValue(data, value)
		return t.stage(key, data), nil
	}
	matchlen := nibble.CommonPrefix(key, c.key)
	switch {
	case matchlen == len(c.key) && matchlen == len(key):
		data := copyNode(c.data)
		t.setValue(data, value)
		return t.stage(c.key, data), nil

	case matchlen == len(c.key):
		nib := key[matchlen]
		child, err := t.child(c, nib)
		if err != nil {
			return nil, err
		}
		if _, err := t.insert(child, matchlen+1, key, value); err != nil {
			return nil, err
		}
		data := copyNode(c.data)
		data.Children[nib] = dirtySlot
		return t.stage(c.key, data), nil
	}
	// The key leaves c inside its partial key: a branch takes the shared
	// part and c moves below it, keeping its full key.
	moved := copyNode(c.data)
	moved.PartialKey = c.key.Drop(matchlen + 1).Copy()
	t.stage(c.key, moved)

	branch := &triedb.TrieNodeData{PartialKey: key[start:matchlen].Copy(), Version: t.version}
	branch.Children[c.key[matchlen]] = dirtySlot
	if matchlen == len(key) {
		t.setValue(branch, value)
	} else {
		leaf := &triedb.TrieNodeData{PartialKey: key.Drop(matchlen + 1).Copy()}
		t.setValue(leaf, value)
		t.stage(key, leaf)
		branch.Children[key[matchlen]] = dirtySlot
	}
	return t.stage(key.Take(matchlen), branch), nil
}

func copyNode(data *triedb.TrieNodeData) *triedb.TrieNodeData {
	cpy := *data
	return &cpy
}

// Delete removes key. It reports whether a value was removed.
func (t *Trie) Delete(key []byte) (bool, error) {
	k := nibble.FromBytes(key)
	removed, err := t.deleteNibbles(k)
	if err != nil || !removed {
		return false, err
	}
	t.diff.InsertErase(k)
	return true, nil
}

func (t *Trie) deleteNibbles(key nibble.Nibbles) (bool, error) {
	root, err := t.rootCursor()
	if err != nil || root == nil {
		return false, err
	}
	saved := t.changes.Clone()
	_, removed, err := t.delete(root, key)
	if err != nil {
		t.changes = saved
	}
	return removed, err
}

// delete removes key from the subtree of c. It returns the node that takes
// the place of c, nil if the subtree is gone.
func (t *Trie) delete(c *cursor, key nibble.Nibbles) (*cursor, bool, error) {
	if !key.StartsWith(c.key) {
		return c, false, nil
	}
	if len(key) == len(c.key) {
		if !c.data.HasValue() {
			return c, false, nil
		}
		data := copyNode(c.data)
		data.Value, data.ValueHash = nil, nil
		n, err := t.collapse(c.key, data)
		return n, err == nil, err
	}
	nib := key[len(c.key)]
	child, err := t.child(c, nib)
	if err != nil || child == nil {
		return c, false, err
	}
	replaced, removed, err := t.delete(child, key)
	if err != nil || !removed {
		return c, false, err
	}
	data := copyNode(c.data)
	data.Children[nib] = nil
	if replaced != nil {
		data.Children[nib] = dirtySlot
	}
	n, err := t.collapse(c.key, data)
	return n, err == nil, err
}

// collapse stages data as the node at key, restoring the invariant that a
// node without a value has at least two children.
func (t *Trie) collapse(key nibble.Nibbles, data *triedb.TrieNodeData) (*cursor, error) {
	if data.HasValue() {
		return t.stage(key, data), nil
	}
	var (
		count int
		only  nibble.Nibble
	)
	for i, slot := range data.Children {
		if slot != nil {
			count, only = count+1, nibble.Nibble(i)
		}
	}
	switch count {
	case 0:
		t.changes.Remove(key)
		return nil, nil
	case 1:
		// Merge into the only child. Its full key does not change.
		child, err := t.child(&cursor{key: key, data: data}, only)
		if err != nil {
			return nil, err
		}
		t.changes.Remove(key)
		merged := copyNode(child.data)
		merged.PartialKey = nibble.Concat(data.PartialKey, nibble.Nibbles{only}, child.data.PartialKey)
		return t.stage(child.key, merged), nil
	}
	return t.stage(key, data), nil
}

// DeleteByPrefix removes up to limit keys starting with prefix, in key
// order. A limit of zero or less removes them all. allDeleted reports
// whether no key with the prefix remains.
func (t *Trie) DeleteByPrefix(prefix []byte, limit int) (deleted int, allDeleted bool, err error) {
	p := nibble.FromBytes(prefix)
	fetch := 0
	if limit > 0 {
		fetch = limit + 1
	}
	keys, err := t.keysWithPrefix(p, fetch)
	if err != nil {
		return 0, false, err
	}
	for _, k := range keys {
		if limit > 0 && deleted == limit {
			break
		}
		if _, err := t.deleteNibbles(k); err != nil {
			return deleted, false, err
		}
		t.diff.InsertErase(k)
		deleted++
	}
	t.logger.Trace("Deleted keys by prefix", "prefix", p, "deleted", deleted)
	return deleted, deleted == len(keys), nil
}
