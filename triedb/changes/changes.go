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

// Package changes stages edits to a persisted trie in memory, ordered by
// full nibble key, until they are flushed to storage or discarded.
package changes

import (
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/triedb"
	"github.com/google/btree"
)

const degree = 16

// Kind is the kind of a pending change.
type Kind uint8

const (
	AnyKind Kind = iota // matches both kinds in filters
	KindInsert
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	}
	return "any"
}

// Entry is the pending change of the node at Key. Node is nil for deletes.
type Entry struct {
	Key  nibble.Nibbles
	Kind Kind
	Node *triedb.TrieNodeData
}

func less(a, b Entry) bool { return a.Key.Compare(b.Key) < 0 }

// Changes is an ordered map from node key to pending change. It is not safe
// for concurrent use.
type Changes struct {
	tree    *btree.BTreeG[Entry]
	inserts int
}

// New returns an empty change set.
func New() *Changes {
	return &Changes{tree: btree.NewG(degree, less)}
}

// Get returns the change staged for key.
func (c *Changes) Get(key nibble.Nibbles) (Entry, bool) {
	return c.tree.Get(Entry{Key: key})
}

func (c *Changes) set(e Entry) {
	old, replaced := c.tree.ReplaceOrInsert(e)
	if replaced && old.Kind == KindInsert {
		c.inserts--
	}
	if e.Kind == KindInsert {
		c.inserts++
	}
}

// Update stages n as the new content of the node at key.
func (c *Changes) Update(key nibble.Nibbles, n *triedb.TrieNodeData) {
	c.set(Entry{Key: key.Copy(), Kind: KindInsert, Node: n})
}

// Remove stages the deletion of the node at key.
func (c *Changes) Remove(key nibble.Nibbles) {
	c.set(Entry{Key: key.Copy(), Kind: KindDelete})
}

// Forget drops whatever is staged for key.
func (c *Changes) Forget(key nibble.Nibbles) {
	if old, ok := c.tree.Delete(Entry{Key: key}); ok && old.Kind == KindInsert {
		c.inserts--
	}
}

// EntriesInKeyPath returns the staged entries whose key is a prefix of key,
// key itself included, shortest first. AnyKind disables the kind filter.
func (c *Changes) EntriesInKeyPath(key nibble.Nibbles, kind Kind) []Entry {
	var out []Entry
	for i := 0; i <= len(key); i++ {
		e, ok := c.tree.Get(Entry{Key: key.Take(i)})
		if ok && (kind == AnyKind || e.Kind == kind) {
			out = append(out, e)
		}
	}
	return out
}

// ChildByIndex returns the first inserted node below parent whose key
// continues with nib. When the cache holds the path of every dirty node,
// that is the child of parent at nib.
func (c *Changes) ChildByIndex(parent nibble.Nibbles, nib nibble.Nibble) (Entry, bool) {
	prefix := nibble.Append(parent, nib)
	var (
		found Entry
		ok    bool
	)
	c.tree.AscendGreaterOrEqual(Entry{Key: prefix}, func(e Entry) bool {
		if !e.Key.StartsWith(prefix) {
			return false
		}
		if e.Kind == KindInsert {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok
}

// Root returns the inserted node with the smallest key, which is the trie
// root while the cache holds a rewritten path.
func (c *Changes) Root() (Entry, bool) {
	var (
		found Entry
		ok    bool
	)
	c.tree.Ascend(func(e Entry) bool {
		if e.Kind == KindInsert {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok
}

// Len returns the number of staged entries.
func (c *Changes) Len() int { return c.tree.Len() }

// Inserts returns the number of staged inserts.
func (c *Changes) Inserts() int { return c.inserts }

// Ascend calls fn for every entry in key order until fn returns false.
func (c *Changes) Ascend(fn func(Entry) bool) { c.tree.Ascend(fn) }

// Descend calls fn for every entry in reverse key order, which visits
// descendants before their ancestors.
func (c *Changes) Descend(fn func(Entry) bool) { c.tree.Descend(fn) }

// Clone returns a copy of the change set. The copy is lazy: both sets share
// nodes until either is modified.
func (c *Changes) Clone() *Changes {
	return &Changes{tree: c.tree.Clone(), inserts: c.inserts}
}

// Clear drops every staged entry.
func (c *Changes) Clear() {
	c.tree.Clear(false)
	c.inserts = 0
}
