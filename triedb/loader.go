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
	"context"
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/structure"
	"golang.org/x/sync/errgroup"
)

// loadConcurrency bounds the number of records fetched in parallel while
// loading a trie structure.
const loadConcurrency = 16

type pendingLoad struct {
	path   nibble.Nibbles // key up to the node's partial key
	merkle []byte
}

// LoadTrieStructure reads the whole trie of root into a structure, one depth
// level at a time. Records of a level are fetched concurrently. Merkle values
// are taken from storage, not recomputed.
func (db *Database) LoadTrieStructure(ctx context.Context, root []byte) (*structure.Trie[structure.NodeData], error) {
	t := structure.New[structure.NodeData]()
	if _, ok, err := db.root(root); err != nil || !ok {
		return t, err
	}
	type branch struct {
		key    nibble.Nibbles
		merkle []byte
	}
	var (
		branches []branch
		level    = []pendingLoad{{merkle: root}}
		loaded   int
	)
	for len(level) > 0 {
		records := make([]*TrieNodeData, len(level))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(loadConcurrency)
		for i, p := range level {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				data, err := db.child(root, p.path, p.merkle)
				records[i] = data
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		var next []pendingLoad
		for i, p := range level {
			data := records[i]
			key := nibble.Concat(p.path, data.PartialKey)
			if data.HasValue() {
				value, err := db.Value(data)
				if err != nil {
					return nil, err
				}
				if _, err := t.Insert(key, structure.NodeData{Value: value, Merkle: p.merkle}); err != nil {
					return nil, fmt.Errorf("loading %v: %w", key, err)
				}
			} else {
				branches = append(branches, branch{key, p.merkle})
			}
			for c, merkle := range data.Children {
				if merkle != nil {
					next = append(next, pendingLoad{path: nibble.Append(key, nibble.Nibble(c)), merkle: merkle})
				}
			}
		}
		loaded += len(level)
		level = next
	}
	// Branches without a value come into existence as their children are
	// inserted; attach their merkle values now.
	for _, b := range branches {
		idx, ok := t.ExistingNode(b.key)
		if !ok {
			return nil, fmt.Errorf("%w: branch %v has fewer than two children", ErrCorruptNode, b.key)
		}
		t.SetUserData(idx, structure.NodeData{Merkle: b.merkle})
	}
	db.logger.Debug("Loaded trie structure", "root", fmt.Sprintf("%x", root), "nodes", loaded)
	return t, nil
}
