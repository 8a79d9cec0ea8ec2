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

package disktrie

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
)

// ChildStoragePrefix prefixes the parent key holding the root of a default
// child trie.
var ChildStoragePrefix = []byte(":child_storage:default:")

// ChildRootKey returns the parent key holding the root of the default child
// trie identified by key.
func ChildRootKey(key []byte) []byte {
	return append(append(make([]byte, 0, len(ChildStoragePrefix)+len(key)), ChildStoragePrefix...), key...)
}

// ChildTrie opens the default child trie identified by key. Its root is read
// from the parent; a child that does not exist yet starts empty. Repeated
// calls return the same view, and its changes are written back into the
// parent by MerkleRoot and PersistChanges.
func (t *Trie) ChildTrie(key []byte) (*Trie, error) {
	parentKey := ChildRootKey(key)
	if c, ok := t.children[string(parentKey)]; ok {
		return c, nil
	}
	root, ok, err := t.Get(parentKey)
	if err != nil {
		return nil, err
	}
	if ok && len(root) != common.HashLength {
		return nil, fmt.Errorf("child trie %x: stored root is %d bytes", key, len(root))
	}
	c := New(t.db, root, t.version)
	c.logger = t.logger.New("child", fmt.Sprintf("%x", key))
	t.children[string(parentKey)] = c
	return c, nil
}

// stageChildRoots writes the roots of modified child tries into the parent,
// deleting the entry of a child that became empty. With persist set the
// children are persisted first, otherwise their pending roots are used.
func (t *Trie) stageChildRoots(persist bool) error {
	keys := make([]string, 0, len(t.children))
	for k, c := range t.children {
		if c.Dirty() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		var (
			c    = t.children[k]
			root []byte
			err  error
		)
		if persist {
			root, err = c.PersistChanges()
		} else {
			root, err = c.MerkleRoot()
		}
		if err != nil {
			return fmt.Errorf("child trie %x: %w", k[len(ChildStoragePrefix):], err)
		}
		if bytes.Equal(root, node.EmptyRootHash.Bytes()) {
			if _, err := t.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := t.Upsert([]byte(k), root); err != nil {
			return err
		}
	}
	return nil
}
