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

// Package structure implements the shape of a radix-16 trie as an arena of
// nodes addressed by generational indices. It tracks which nodes exist, their
// partial keys and which of them hold a storage value; what a node carries is
// left to the type parameter.
package structure

import (
	"errors"
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
)

const childrenCapacity = 16

var (
	// ErrStaleIndex is returned when a NodeIndex refers to a removed node.
	ErrStaleIndex = errors.New("stale trie node index")

	// ErrStaleEntry is returned when a vacant entry is used after the trie it
	// was obtained from has been modified.
	ErrStaleEntry = errors.New("trie modified since the entry was obtained")

	// ErrHasStorageValue is returned when converting a node that already holds
	// a storage value.
	ErrHasStorageValue = errors.New("node already holds a storage value")

	// ErrNoStorageValue is returned when clearing the value of a node that
	// holds none.
	ErrNoStorageValue = errors.New("node holds no storage value")
)

// NodeIndex is a handle to a node of a Trie. The zero value refers to no node.
// Handles of removed nodes are never reused: the slot generation changes.
type NodeIndex struct {
	slot uint32
	gen  uint32
}

// IsZero reports whether i is the zero handle.
func (i NodeIndex) IsZero() bool { return i.gen == 0 }

func (i NodeIndex) String() string { return fmt.Sprintf("#%d.%d", i.slot, i.gen) }

type parentRef struct {
	index NodeIndex
	child nibble.Nibble
}

type trieNode[T any] struct {
	parent          *parentRef
	partialKey      nibble.Nibbles
	children        [childrenCapacity]NodeIndex
	hasStorageValue bool
	userData        T
}

func (n *trieNode[T]) numChildren() int {
	count := 0
	for _, c := range n.children {
		if !c.IsZero() {
			count++
		}
	}
	return count
}

func (n *trieNode[T]) firstChild() (NodeIndex, bool) {
	for _, c := range n.children {
		if !c.IsZero() {
			return c, true
		}
	}
	return NodeIndex{}, false
}

type slot[T any] struct {
	gen  uint32
	used bool
	node trieNode[T]
}

// Trie is the arena holding all nodes of a trie. It is not safe for
// concurrent use.
type Trie[T any] struct {
	slots []slot[T]
	free  []uint32
	root  NodeIndex
	size  int
	mods  uint64 // bumped on every structural change
}

// New returns an empty trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{}
}

// NewWithCapacity returns an empty trie with room for n nodes.
func NewWithCapacity[T any](n int) *Trie[T] {
	return &Trie[T]{slots: make([]slot[T], 0, n)}
}

// Len returns the number of nodes, storage and branch alike.
func (t *Trie[T]) Len() int { return t.size }

// IsEmpty reports whether the trie has no nodes.
func (t *Trie[T]) IsEmpty() bool { return t.size == 0 }

// RootIndex returns the root node, if any.
func (t *Trie[T]) RootIndex() (NodeIndex, bool) {
	return t.root, !t.root.IsZero()
}

// Contains reports whether idx refers to a live node.
func (t *Trie[T]) Contains(idx NodeIndex) bool {
	if idx.IsZero() || int(idx.slot) >= len(t.slots) {
		return false
	}
	s := &t.slots[idx.slot]
	return s.used && s.gen == idx.gen
}

func (t *Trie[T]) lookup(idx NodeIndex) (*trieNode[T], error) {
	if !t.Contains(idx) {
		return nil, fmt.Errorf("%w: %v", ErrStaleIndex, idx)
	}
	return &t.slots[idx.slot].node, nil
}

// at returns the node behind idx and panics on a stale handle. Accessors use
// it: reading through a stale handle is a programming error.
func (t *Trie[T]) at(idx NodeIndex) *trieNode[T] {
	n, err := t.lookup(idx)
	if err != nil {
		panic(err)
	}
	return n
}

func (t *Trie[T]) alloc(n trieNode[T]) NodeIndex {
	t.size++
	t.mods++
	if len(t.free) > 0 {
		s := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.slots[s].used = true
		t.slots[s].node = n
		return NodeIndex{slot: s, gen: t.slots[s].gen}
	}
	t.slots = append(t.slots, slot[T]{gen: 1, used: true, node: n})
	return NodeIndex{slot: uint32(len(t.slots) - 1), gen: 1}
}

func (t *Trie[T]) release(idx NodeIndex) {
	s := &t.slots[idx.slot]
	s.used = false
	s.gen++
	s.node = trieNode[T]{}
	t.free = append(t.free, idx.slot)
	t.size--
	t.mods++
}

// HasStorageValue reports whether the node holds a storage value, as opposed
// to being a branch that only exists to join its children.
func (t *Trie[T]) HasStorageValue(idx NodeIndex) bool {
	return t.at(idx).hasStorageValue
}

// PartialKey returns the partial key of the node. The result must not be
// modified.
func (t *Trie[T]) PartialKey(idx NodeIndex) nibble.Nibbles {
	return t.at(idx).partialKey
}

// UserData returns a pointer to the data attached to the node.
func (t *Trie[T]) UserData(idx NodeIndex) *T {
	return &t.at(idx).userData
}

// SetUserData replaces the data attached to the node.
func (t *Trie[T]) SetUserData(idx NodeIndex, data T) {
	t.at(idx).userData = data
}

// Child returns the child of the node at the given nibble.
func (t *Trie[T]) Child(idx NodeIndex, n nibble.Nibble) (NodeIndex, bool) {
	c := t.at(idx).children[n]
	return c, !c.IsZero()
}

// Children returns the child slots of the node; absent children are zero.
func (t *Trie[T]) Children(idx NodeIndex) [childrenCapacity]NodeIndex {
	return t.at(idx).children
}

// Parent returns the parent of the node and the nibble it hangs under.
func (t *Trie[T]) Parent(idx NodeIndex) (NodeIndex, nibble.Nibble, bool) {
	p := t.at(idx).parent
	if p == nil {
		return NodeIndex{}, 0, false
	}
	return p.index, p.child, true
}

// IsRoot reports whether idx is the root node.
func (t *Trie[T]) IsRoot(idx NodeIndex) bool {
	return !idx.IsZero() && idx == t.root
}

// NodePath returns the ancestors of the node, root first, excluding the node.
func (t *Trie[T]) NodePath(idx NodeIndex) []NodeIndex {
	var path []NodeIndex
	for p := t.at(idx).parent; p != nil; p = t.at(p.index).parent {
		path = append(path, p.index)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FullKey returns the key of the node from the root: every ancestor's partial
// key and child nibble followed by the node's own partial key.
func (t *Trie[T]) FullKey(idx NodeIndex) nibble.Nibbles {
	var key nibble.Nibbles
	for _, p := range append(t.NodePath(idx), idx) {
		n := t.at(p)
		if n.parent != nil {
			key = append(key, n.parent.child)
		}
		key = append(key, n.partialKey...)
	}
	return key
}

// AllIndices returns every node in lexicographic order of full keys, which
// puts each node before its descendants.
func (t *Trie[T]) AllIndices() []NodeIndex {
	out := make([]NodeIndex, 0, t.size)
	for idx, ok := t.RootIndex(); ok; idx, ok = t.nextInOrder(idx) {
		out = append(out, idx)
	}
	return out
}

// Walk calls fn for every node in lexicographic order until fn returns false.
func (t *Trie[T]) Walk(fn func(NodeIndex) bool) {
	for idx, ok := t.RootIndex(); ok; idx, ok = t.nextInOrder(idx) {
		if !fn(idx) {
			return
		}
	}
}

func (t *Trie[T]) nextInOrder(idx NodeIndex) (NodeIndex, bool) {
	if c, ok := t.at(idx).firstChild(); ok {
		return c, true
	}
	for cur := idx; ; {
		if next, ok := t.nextSibling(cur); ok {
			return next, true
		}
		p := t.at(cur).parent
		if p == nil {
			return NodeIndex{}, false
		}
		cur = p.index
	}
}

func (t *Trie[T]) nextSibling(idx NodeIndex) (NodeIndex, bool) {
	p := t.at(idx).parent
	if p == nil {
		return NodeIndex{}, false
	}
	parent := t.at(p.index)
	for i := int(p.child) + 1; i < childrenCapacity; i++ {
		if c := parent.children[i]; !c.IsZero() {
			return c, true
		}
	}
	return NodeIndex{}, false
}

// StructurallyEquals reports whether both tries have the same shape: the same
// nodes under the same keys with the same storage flags. User data is ignored.
func StructurallyEquals[T, U any](a *Trie[T], b *Trie[U]) bool {
	if a.Len() != b.Len() {
		return false
	}
	ai, bi := a.AllIndices(), b.AllIndices()
	for i := range ai {
		an, bn := a.at(ai[i]), b.at(bi[i])
		if an.hasStorageValue != bn.hasStorageValue {
			return false
		}
		if (an.parent == nil) != (bn.parent == nil) {
			return false
		}
		if an.parent != nil && an.parent.child != bn.parent.child {
			return false
		}
		if !an.partialKey.Equal(bn.partialKey) {
			return false
		}
		if len(a.NodePath(ai[i])) != len(b.NodePath(bi[i])) {
			return false
		}
	}
	return true
}
