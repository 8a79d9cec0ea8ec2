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
	"testing"

	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	"github.com/LimeChain/Fruzhin-sub001/trie/structure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pruneEntries(long byte) map[string][]byte {
	return map[string][]byte{
		"\x01": bytes.Repeat([]byte{long}, node.MinHashedValueLength+4),
		"\x02": []byte("a"),
		"\x30": []byte("b"),
	}
}

func TestPrune(t *testing.T) {
	reg := prometheus.NewRegistry()
	config := &Config{CleanCacheSize: 1024 * 1024, Namespace: "prune", Registerer: reg}
	db, oldRoot, _ := newTestDatabase(t, config, pruneEntries(0xaa), node.V1)

	newEntries := pruneEntries(0xbb)
	st, err := structure.FromMap(newEntries)
	require.NoError(t, err)
	newRoot, err := db.InsertTrieStorage(st, node.V1)
	require.NoError(t, err)

	// Warm the clean cache with the old root.
	_, ok, err := db.GetByKey(oldRoot, hexKey("01"))
	require.NoError(t, err)
	require.True(t, ok)

	stats, err := db.Prune(context.Background(), [][]byte{newRoot})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Values)
	assert.Equal(t, 3, stats.Nodes, "old root, branch and leaf on the path of the changed value")

	nodes, _, values, _, err := InspectStorage(db.Disk())
	require.NoError(t, err)
	assert.Equal(t, stats.Reachable, nodes)
	assert.Equal(t, 1, values)

	for k, v := range newEntries {
		got, ok, err := db.GetByKey(newRoot, nibble.FromBytes([]byte(k)))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
	// Pruned records are gone from the cache as well as the disk.
	blob, err := ReadTrieNode(db.Disk(), oldRoot)
	require.NoError(t, err)
	require.Nil(t, blob)
	_, ok, err = db.GetByKey(oldRoot, hexKey("01"))
	require.NoError(t, err)
	require.False(t, ok)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "prune_node_deletes" {
			assert.Equal(t, float64(stats.Nodes), f.GetMetric()[0].GetCounter().GetValue())
		}
	}

	// Nothing left to prune.
	stats, err = db.Prune(context.Background(), [][]byte{newRoot, node.EmptyRootHash.Bytes()})
	require.NoError(t, err)
	assert.Zero(t, stats.Nodes+stats.Values)
}

func TestPruneUnknownRoot(t *testing.T) {
	db, root, _ := newTestDatabase(t, &Config{}, scanEntries, node.V0)
	before, _, _, _, err := InspectStorage(db.Disk())
	require.NoError(t, err)

	_, err = db.Prune(context.Background(), [][]byte{bytes.Repeat([]byte{7}, 32)})
	var missing *MissingNodeError
	require.True(t, errors.As(err, &missing), "%v", err)

	after, _, _, _, err := InspectStorage(db.Disk())
	require.NoError(t, err)
	assert.Equal(t, before, after)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.Prune(ctx, [][]byte{root})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPruneDropAll(t *testing.T) {
	db, root, _ := newTestDatabase(t, &Config{CleanCacheSize: 1024 * 1024}, pruneEntries(0xaa), node.V1)
	_, ok, err := db.GetByKey(root, hexKey("02"))
	require.NoError(t, err)
	require.True(t, ok)

	stats, err := db.Prune(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats.Reachable)

	nodes, _, values, _, err := InspectStorage(db.Disk())
	require.NoError(t, err)
	assert.Zero(t, nodes)
	assert.Zero(t, values)

	_, ok, err = db.GetByKey(root, hexKey("02"))
	require.NoError(t, err)
	assert.False(t, ok, "the clean cache is dropped with the tables")
	require.NoError(t, db.Compact())
}
