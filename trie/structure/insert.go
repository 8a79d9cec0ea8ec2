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
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
)

// Entry is the result of looking a key up: either a *Found or a *Vacant.
type Entry interface {
	entry()
}

// Found is an existing node at the looked up key.
type Found struct {
	Index           NodeIndex
	HasStorageValue bool
}

func (*Found) entry() {}

// Vacant is a key without a node. It stays usable until the trie it came
// from is modified.
type Vacant[T any] struct {
	trie     *Trie[T]
	key      nibble.Nibbles
	ancestor NodeIndex // closest existing ancestor, zero if none
	mods     uint64
}

func (*Vacant[T]) entry() {}

// Key returns the key of the vacant spot.
func (v *Vacant[T]) Key() nibble.Nibbles { return v.key }

// ClosestAncestor returns the deepest node whose full key is a prefix of the
// vacant key.
func (v *Vacant[T]) ClosestAncestor() (NodeIndex, bool) {
	return v.ancestor, !v.ancestor.IsZero()
}

// Node looks up key and returns either the existing node or a vacant entry
// that can be used to insert one.
func (t *Trie[T]) Node(key nibble.Nibbles) Entry {
	idx, found, ancestor := t.existingNodeInner(key)
	if found {
		return &Found{Index: idx, HasStorageValue: t.at(idx).hasStorageValue}
	}
	return &Vacant[T]{trie: t, key: key.Copy(), ancestor: ancestor, mods: t.mods}
}

// ExistingNode returns the node at exactly key, storage or branch.
func (t *Trie[T]) ExistingNode(key nibble.Nibbles) (NodeIndex, bool) {
	idx, found, _ := t.existingNodeInner(key)
	return idx, found
}

// existingNodeInner walks key down from the root. When no node sits at key it
// returns the closest ancestor instead.
func (t *Trie[T]) existingNodeInner(key nibble.Nibbles) (idx NodeIndex, found bool, ancestor NodeIndex) {
	cur, ok := t.RootIndex()
	if !ok {
		return NodeIndex{}, false, NodeIndex{}
	}
	rem := key
	for {
		n := t.at(cur)
		if !rem.StartsWith(n.partialKey) {
			return NodeIndex{}, false, ancestor
		}
		rem = rem.Drop(len(n.partialKey))
		ancestor = cur
		if len(rem) == 0 {
			return cur, true, NodeIndex{}
		}
		next := n.children[rem[0]]
		if next.IsZero() {
			return NodeIndex{}, false, ancestor
		}
		rem = rem[1:]
		cur = next
	}
}

// PrepareInsert is a pending insertion computed by Vacant.PrepareInsert. It
// creates either one node or, when the new key diverges from an existing
// node inside its partial key, a branch plus the storage node.
type PrepareInsert[T any] struct {
	trie *Trie[T]
	mods uint64
	two  bool

	// the new storage node (One), or the new branch node (Two)
	parent     *parentRef
	partialKey nibble.Nibbles
	children   [childrenCapacity]NodeIndex

	// Two only: where the storage node hangs under the branch
	storageChild      nibble.Nibble
	storagePartialKey nibble.Nibbles
}

// IsTwo reports whether the insertion also creates a branch node.
func (p *PrepareInsert[T]) IsTwo() bool { return p.two }

// PrepareInsert computes where a node for the vacant key goes.
func (v *Vacant[T]) PrepareInsert() (*PrepareInsert[T], error) {
	t := v.trie
	if t.mods != v.mods {
		return nil, ErrStaleEntry
	}
	if t.root.IsZero() {
		return &PrepareInsert[T]{trie: t, mods: t.mods, partialKey: v.key}, nil
	}

	// The node the new one will hang under, not counting a possible new
	// branch, and the length of its full key.
	var (
		futureParent    *parentRef
		futureParentLen int
		existing        NodeIndex
	)
	if !v.ancestor.IsZero() {
		futureParentLen = len(t.FullKey(v.ancestor))
		slot := v.key[futureParentLen]
		futureParent = &parentRef{index: v.ancestor, child: slot}

		existing = t.at(v.ancestor).children[slot]
		if existing.IsZero() {
			// Free slot under the ancestor.
			return &PrepareInsert[T]{
				trie:       t,
				mods:       t.mods,
				parent:     futureParent,
				partialKey: v.key.Drop(futureParentLen + 1),
			}, nil
		}
	} else {
		existing = t.root
	}

	existingKey := t.at(existing).partialKey
	newKey := v.key
	if futureParent != nil {
		newKey = v.key.Drop(futureParentLen + 1)
	}

	// The new node sits between the future parent and the existing node.
	if existingKey.StartsWith(newKey) {
		p := &PrepareInsert[T]{trie: t, mods: t.mods, parent: futureParent, partialKey: newKey}
		p.children[existingKey[len(newKey)]] = existing
		return p, nil
	}

	// Both diverge inside the existing node's partial key: a branch holding
	// the common prefix takes the existing node and the new one.
	common := nibble.CommonPrefix(newKey, existingKey)
	p := &PrepareInsert[T]{
		trie:              t,
		mods:              t.mods,
		two:               true,
		parent:            futureParent,
		partialKey:        newKey.Take(common),
		storageChild:      newKey[common],
		storagePartialKey: newKey.Drop(common + 1),
	}
	p.children[existingKey[common]] = existing
	return p, nil
}

// Insert performs the insertion and returns the new storage node. For a two
// node insertion the branch gets the zero value of T.
func (p *PrepareInsert[T]) Insert(data T) (NodeIndex, error) {
	var zero T
	return p.InsertWithBranch(data, zero)
}

// InsertWithBranch is Insert with explicit data for the new branch node.
func (p *PrepareInsert[T]) InsertWithBranch(data, branchData T) (NodeIndex, error) {
	t := p.trie
	if t.mods != p.mods {
		return NodeIndex{}, ErrStaleEntry
	}
	if !p.two {
		idx := t.alloc(trieNode[T]{
			parent:          p.parent,
			partialKey:      p.partialKey.Copy(),
			children:        p.children,
			hasStorageValue: true,
			userData:        data,
		})
		t.adopt(idx, p.parent, p.children, len(p.partialKey))
		return idx, nil
	}
	branch := t.alloc(trieNode[T]{
		parent:     p.parent,
		partialKey: p.partialKey.Copy(),
		children:   p.children,
		userData:   branchData,
	})
	storage := t.alloc(trieNode[T]{
		parent:          &parentRef{index: branch, child: p.storageChild},
		partialKey:      p.storagePartialKey.Copy(),
		hasStorageValue: true,
		userData:        data,
	})
	t.at(branch).children[p.storageChild] = storage
	t.adopt(branch, p.parent, p.children, len(p.partialKey))
	return storage, nil
}

// adopt links a freshly allocated node into the trie: moved children get their
// partial keys shortened and point to it, and its parent (or the root) points
// to it.
func (t *Trie[T]) adopt(idx NodeIndex, parent *parentRef, children [childrenCapacity]NodeIndex, keyLen int) {
	for i, c := range children {
		if c.IsZero() {
			continue
		}
		child := t.at(c)
		child.parent = &parentRef{index: idx, child: nibble.Nibble(i)}
		child.partialKey = child.partialKey.Drop(keyLen + 1).Copy()
	}
	if parent == nil {
		t.root = idx
	} else {
		t.at(parent.index).children[parent.child] = idx
	}
}

// Insert sets a storage node at key holding data, creating the node or
// converting an existing branch. It returns the storage node.
func (t *Trie[T]) Insert(key nibble.Nibbles, data T) (NodeIndex, error) {
	switch e := t.Node(key).(type) {
	case *Found:
		n := t.at(e.Index)
		n.hasStorageValue = true
		n.userData = data
		return e.Index, nil
	case *Vacant[T]:
		p, err := e.PrepareInsert()
		if err != nil {
			return NodeIndex{}, err
		}
		return p.Insert(data)
	default:
		panic("unreachable")
	}
}

// ConvertToStorageNode marks a branch node as holding a storage value.
func (t *Trie[T]) ConvertToStorageNode(idx NodeIndex) error {
	n, err := t.lookup(idx)
	if err != nil {
		return err
	}
	if n.hasStorageValue {
		return ErrHasStorageValue
	}
	n.hasStorageValue = true
	t.mods++
	return nil
}
