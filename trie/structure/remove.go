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

// ClearStorageValue removes the storage value of a node and restores the
// invariant that every branch without a value has at least two children: a
// childless node is removed, a node with one child is merged into it, and a
// parent left with a single child and no value is merged the same way.
func (t *Trie[T]) ClearStorageValue(idx NodeIndex) error {
	n, err := t.lookup(idx)
	if err != nil {
		return err
	}
	if !n.hasStorageValue {
		return ErrNoStorageValue
	}
	var zero T
	n.hasStorageValue = false
	n.userData = zero
	t.mods++

	switch n.numChildren() {
	case 0:
		parent := n.parent
		t.unlink(idx)
		t.release(idx)
		if parent != nil {
			t.collapse(parent.index)
		}
	case 1:
		t.mergeIntoChild(idx)
	}
	return nil
}

// Remove deletes the node together with every node below it, then collapses
// the parent if it is left as a valueless branch with a single child.
func (t *Trie[T]) Remove(idx NodeIndex) error {
	n, err := t.lookup(idx)
	if err != nil {
		return err
	}
	parent := n.parent
	t.unlink(idx)

	stack := []NodeIndex{idx}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range t.at(cur).children {
			if !c.IsZero() {
				stack = append(stack, c)
			}
		}
		t.release(cur)
	}
	if parent != nil {
		t.collapse(parent.index)
	}
	return nil
}

// RemovePrefix removes every node whose full key starts with prefix. It
// returns the number of storage values removed.
func (t *Trie[T]) RemovePrefix(prefix nibble.Nibbles) int {
	var (
		target NodeIndex
		found  bool
	)
	switch e := t.Node(prefix).(type) {
	case *Found:
		target, found = e.Index, true
	case *Vacant[T]:
		// The subtree may start below the vacant spot, inside a partial key.
		ancestor, ok := e.ClosestAncestor()
		var (
			cand  NodeIndex
			plen  int
			exist bool
		)
		if ok {
			plen = len(t.FullKey(ancestor))
			cand, exist = t.Child(ancestor, prefix[plen])
			plen++
		} else {
			cand, exist = t.RootIndex()
		}
		if exist && t.at(cand).partialKey.StartsWith(prefix.Drop(plen)) {
			target, found = cand, true
		}
	}
	if !found {
		return 0
	}
	removed := 0
	stack := []NodeIndex{target}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.at(cur)
		if n.hasStorageValue {
			removed++
		}
		for _, c := range n.children {
			if !c.IsZero() {
				stack = append(stack, c)
			}
		}
	}
	if err := t.Remove(target); err != nil {
		panic(err)
	}
	return removed
}

// unlink detaches the node from its parent slot or from the root.
func (t *Trie[T]) unlink(idx NodeIndex) {
	n := t.at(idx)
	if n.parent == nil {
		t.root = NodeIndex{}
	} else {
		t.at(n.parent.index).children[n.parent.child] = NodeIndex{}
	}
	n.parent = nil
	t.mods++
}

// collapse merges a valueless node with a single child into that child.
func (t *Trie[T]) collapse(idx NodeIndex) {
	n := t.at(idx)
	if !n.hasStorageValue && n.numChildren() == 1 {
		t.mergeIntoChild(idx)
	}
}

// mergeIntoChild replaces a node having exactly one child by that child, whose
// partial key absorbs the node's partial key and the child nibble.
func (t *Trie[T]) mergeIntoChild(idx NodeIndex) {
	n := t.at(idx)
	var (
		childIdx NodeIndex
		nib      nibble.Nibble
	)
	for i, c := range n.children {
		if !c.IsZero() {
			childIdx, nib = c, nibble.Nibble(i)
			break
		}
	}
	child := t.at(childIdx)
	child.partialKey = nibble.Concat(n.partialKey, nibble.Nibbles{nib}, child.partialKey)
	child.parent = n.parent
	if n.parent == nil {
		t.root = childIdx
	} else {
		t.at(n.parent.index).children[n.parent.child] = childIdx
	}
	t.release(idx)
}
