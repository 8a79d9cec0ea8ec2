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
	"fmt"
	"time"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	"github.com/LimeChain/Fruzhin-sub001/triedb"
	"github.com/LimeChain/Fruzhin-sub001/triedb/changes"
)

// resolve computes the merkle values of the staged nodes, descendants
// first, and returns them as writes ending with the root.
func (t *Trie) resolve() ([]triedb.NodeWrite, []byte, error) {
	root, ok := t.changes.Root()
	if !ok {
		if t.changes.Len() == 0 {
			return nil, t.root, nil
		}
		return nil, node.EmptyRootHash.Bytes(), nil
	}
	var (
		merkles = make(map[string][]byte)
		writes  = make([]triedb.NodeWrite, 0, t.changes.Inserts())
		err     error
	)
	t.changes.Descend(func(e changes.Entry) bool {
		if e.Kind != changes.KindInsert {
			return true
		}
		data := copyNode(e.Node)
		for i, slot := range data.Children {
			if !isDirty(slot) {
				continue
			}
			child, ok := t.changes.ChildByIndex(e.Key, nibble.Nibble(i))
			if !ok {
				err = fmt.Errorf("%w: %v/%x", errDanglingChild, e.Key, i)
				return false
			}
			if data.Children[i], ok = merkles[child.Key.String()]; !ok {
				err = fmt.Errorf("child %v of %v resolved out of order", child.Key, e.Key)
				return false
			}
		}
		var mv []byte
		if mv, err = data.MerkleValue(e.Key.Equal(root.Key)); err != nil {
			err = fmt.Errorf("node %v: %w", e.Key, err)
			return false
		}
		merkles[e.Key.String()] = mv
		w := triedb.NodeWrite{Merkle: mv, Data: data}
		if data.ValueHash != nil {
			w.Value = t.preimages[common.BytesToHash(data.ValueHash)]
		}
		writes = append(writes, w)
		return true
	})
	if err != nil {
		return nil, nil, err
	}
	return writes, merkles[root.Key.String()], nil
}

// MerkleRoot returns the root hash the trie would have once the pending
// changes are persisted.
func (t *Trie) MerkleRoot() ([]byte, error) {
	if err := t.stageChildRoots(false); err != nil {
		return nil, err
	}
	_, root, err := t.resolve()
	return root, err
}

// PersistChanges writes every staged node in one batch, root last, and makes
// the result the committed root. Modified child tries are persisted first and
// their new roots stored in the parent. Records of the previous root are left
// in place; other roots may share them.
func (t *Trie) PersistChanges() ([]byte, error) {
	start := time.Now()
	if err := t.stageChildRoots(true); err != nil {
		return nil, err
	}
	writes, root, err := t.resolve()
	if err != nil {
		return nil, err
	}
	if len(writes) > 0 {
		if err := t.db.WriteNodes(writes); err != nil {
			return nil, err
		}
	}
	t.logger.Debug("Persisted trie changes", "nodes", len(writes), "root", fmt.Sprintf("%x", root), "elapsed", common.PrettyDuration(time.Since(start)))
	t.root = root
	t.Discard()
	return root, nil
}

// Discard drops every pending change, those of opened child tries included.
func (t *Trie) Discard() {
	for _, c := range t.children {
		c.Discard()
	}
	t.changes.Clear()
	t.diff.Clear()
	t.preimages = make(map[common.Hash][]byte)
}
