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
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/kvdb"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	mapset "github.com/deckarep/golang-set/v2"
)

// PruneStats summarises a Prune run.
type PruneStats struct {
	Reachable int // node records reachable from the kept roots
	Nodes     int // node records deleted
	Values    int // hashed values deleted
}

// Prune deletes every node and value record that is not reachable from one
// of the keep roots, then compacts both tables. Without roots to keep the
// tables are dropped by range. A missing node below a kept root aborts the
// run before anything is deleted.
func (db *Database) Prune(ctx context.Context, keep [][]byte) (PruneStats, error) {
	db.lock.Lock()
	defer db.lock.Unlock()

	var (
		start = time.Now()
		stats PruneStats
	)
	if len(keep) == 0 {
		if err := db.dropTables(); err != nil {
			return stats, err
		}
		db.logger.Info("Dropped trie tables", "elapsed", common.PrettyDuration(time.Since(start)))
		return stats, db.compact()
	}
	nodes, values, err := db.reachable(ctx, keep)
	if err != nil {
		return stats, err
	}
	stats.Reachable = nodes.Cardinality()

	batch := kvdb.HookedBatch{
		Batch: db.disk.NewBatch(),
		OnDelete: func(key []byte) {
			if bytes.HasPrefix(key, trieNodePrefix) {
				db.metrics.NodeDelete()
			}
		},
	}
	uncacher := &cleaner{db}

	stale, err := db.unreachableKeys(trieNodePrefix, nodes)
	if err != nil {
		return stats, err
	}
	for _, merkle := range stale {
		if err := DeleteTrieNode(batch, merkle); err != nil {
			return stats, err
		}
		if err := kvdb.FlushIfFull(batch, uncacher); err != nil {
			return stats, err
		}
	}
	stats.Nodes = len(stale)

	if stale, err = db.unreachableKeys(trieValuePrefix, values); err != nil {
		return stats, err
	}
	for _, hash := range stale {
		if err := DeleteTrieValue(batch, common.BytesToHash(hash)); err != nil {
			return stats, err
		}
		if err := kvdb.FlushIfFull(batch, uncacher); err != nil {
			return stats, err
		}
	}
	stats.Values = len(stale)

	if err := kvdb.Flush(batch, uncacher); err != nil {
		return stats, err
	}
	db.logger.Info("Pruned trie records", "kept", stats.Reachable, "nodes", stats.Nodes, "values", stats.Values, "elapsed", common.PrettyDuration(time.Since(start)))
	if stats.Nodes+stats.Values == 0 {
		return stats, nil
	}
	return stats, db.compact()
}

// reachable walks the tries of roots and collects the merkle values of their
// records and the hashes of their hashed values. An unknown root is reported
// as a missing node, the empty trie holds nothing.
func (db *Database) reachable(ctx context.Context, roots [][]byte) (nodes, values mapset.Set[string], err error) {
	nodes = mapset.NewThreadUnsafeSet[string]()
	values = mapset.NewThreadUnsafeSet[string]()

	type pending struct {
		root, merkle []byte
	}
	var stack []pending
	for _, root := range roots {
		if len(root) == 0 || bytes.Equal(root, node.EmptyRootHash.Bytes()) {
			continue
		}
		stack = append(stack, pending{root, root})
	}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !nodes.Add(string(next.merkle)) {
			continue
		}
		data, ok, err := db.Node(next.merkle)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, &MissingNodeError{Root: next.root, NodeHash: next.merkle}
		}
		if data.ValueHash != nil {
			values.Add(string(data.ValueHash))
		}
		for _, c := range data.Children {
			if c != nil {
				stack = append(stack, pending{next.root, c})
			}
		}
	}
	return nodes, values, nil
}

// unreachableKeys returns the keys under prefix, with the prefix stripped,
// that are not in keep.
func (db *Database) unreachableKeys(prefix []byte, keep mapset.Set[string]) ([][]byte, error) {
	it := db.disk.NewIterator(prefix, nil)
	defer it.Release()

	var stale [][]byte
	for it.Next() {
		key := it.Key()[len(prefix):]
		if !keep.Contains(string(key)) {
			stale = append(stale, common.CopyBytes(key))
		}
	}
	return stale, it.Error()
}

// dropTables range deletes both trie tables and empties the clean cache.
func (db *Database) dropTables() error {
	for _, r := range [][2][]byte{{trieNodePrefix, trieNodeLimit}, {trieValuePrefix, trieValueLimit}} {
		err := db.disk.DeleteRange(r[0], r[1])
		for errors.Is(err, kvdb.ErrTooManyKeys) {
			err = db.disk.DeleteRange(r[0], r[1])
		}
		if err != nil {
			return err
		}
	}
	if db.cleans != nil {
		db.cleans.Reset()
	}
	return nil
}

// Compact compacts the key ranges of the node and value tables.
func (db *Database) Compact() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	return db.compact()
}

func (db *Database) compact() error {
	start := time.Now()
	if err := db.disk.Compact(trieNodePrefix, trieNodeLimit); err != nil {
		return err
	}
	if err := db.disk.Compact(trieValuePrefix, trieValueLimit); err != nil {
		return err
	}
	db.logger.Debug("Compacted trie tables", "elapsed", common.PrettyDuration(time.Since(start)))
	return nil
}
