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

package changes

import (
	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/google/btree"
)

type diffEntry struct {
	key    nibble.Nibbles
	value  []byte
	erased bool
}

// Diff stages storage values by key: a key maps either to a new value or to
// an erasure.
type Diff struct {
	tree *btree.BTreeG[diffEntry]
}

// NewDiff returns an empty diff.
func NewDiff() *Diff {
	return &Diff{tree: btree.NewG(degree, func(a, b diffEntry) bool { return a.key.Compare(b.key) < 0 })}
}

// Insert stages value under key.
func (d *Diff) Insert(key nibble.Nibbles, value []byte) {
	d.tree.ReplaceOrInsert(diffEntry{key: key.Copy(), value: common.CopyBytes(value)})
}

// InsertErase stages the erasure of key.
func (d *Diff) InsertErase(key nibble.Nibbles) {
	d.tree.ReplaceOrInsert(diffEntry{key: key.Copy(), erased: true})
}

// Remove forgets what is staged for key.
func (d *Diff) Remove(key nibble.Nibbles) {
	d.tree.Delete(diffEntry{key: key})
}

// Get returns the staged value of key. staged is false when the diff knows
// nothing about key; value is nil when the key is staged for erasure.
func (d *Diff) Get(key nibble.Nibbles) (value []byte, staged bool) {
	e, ok := d.tree.Get(diffEntry{key: key})
	if !ok {
		return nil, false
	}
	if e.erased {
		return nil, true
	}
	return e.value, true
}

// RangeOrdered calls fn with the staged keys in [start, end) in order until fn
// returns false. A nil end is unbounded. Erased keys are passed a nil value.
func (d *Diff) RangeOrdered(start, end nibble.Nibbles, fn func(key nibble.Nibbles, value []byte) bool) {
	iter := func(e diffEntry) bool {
		if e.erased {
			return fn(e.key, nil)
		}
		return fn(e.key, e.value)
	}
	if end == nil {
		d.tree.AscendGreaterOrEqual(diffEntry{key: start}, iter)
		return
	}
	d.tree.AscendRange(diffEntry{key: start}, diffEntry{key: end}, iter)
}

// Len returns the number of staged keys.
func (d *Diff) Len() int { return d.tree.Len() }

// Clear drops everything staged.
func (d *Diff) Clear() { d.tree.Clear(false) }
