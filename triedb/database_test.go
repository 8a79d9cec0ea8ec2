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
	"math/rand"
	"sort"
	"testing"

	"github.com/LimeChain/Fruzhin-sub001/crypto"
	"github.com/LimeChain/Fruzhin-sub001/kvdb"
	"github.com/LimeChain/Fruzhin-sub001/kvdb/memorydb"
	"github.com/LimeChain/Fruzhin-sub001/trie"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	"github.com/LimeChain/Fruzhin-sub001/trie/structure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scanEntries = map[string][]byte{
	"\x12": []byte("a"),
	"\x13": []byte("b"),
	"\x20": []byte("c"),
}

func hexKey(s string) nibble.Nibbles { return nibble.MustFromHexString(s) }

func keyStrings(keys []nibble.Nibbles) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}

// newTestDatabase persists entries and returns the database, the root and
// the structure that was written.
func newTestDatabase(t *testing.T, config *Config, entries map[string][]byte, version node.StateVersion) (*Database, []byte, *structure.Trie[structure.NodeData]) {
	t.Helper()
	db, err := New(memorydb.New(), config)
	require.NoError(t, err)
	st, err := structure.FromMap(entries)
	require.NoError(t, err)
	root, err := db.InsertTrieStorage(st, version)
	require.NoError(t, err)
	return db, root, st
}

func TestPrefixScan(t *testing.T) {
	db, root, _ := newTestDatabase(t, nil, scanEntries, node.V0)

	keys, err := db.GetKeysWithPrefix(root, hexKey("1"), 0)
	require.NoError(t, err)
	require.Equal(t, []string{"12", "13"}, keyStrings(keys))

	keys, err = db.GetKeysWithPrefix(root, nil, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"12", "13"}, keyStrings(keys))

	keys, err = db.GetKeysWithPrefix(root, hexKey("3"), 0)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestPagedKeys(t *testing.T) {
	db, root, _ := newTestDatabase(t, nil, scanEntries, node.V0)

	keys, err := db.GetKeysWithPrefixPaged(root, nil, 1, hexKey("12"))
	require.NoError(t, err)
	require.Equal(t, []string{"13"}, keyStrings(keys))

	keys, err = db.GetKeysWithPrefixPaged(root, nil, 0, hexKey("13"))
	require.NoError(t, err)
	require.Equal(t, []string{"20"}, keyStrings(keys))

	keys, err = db.GetKeysWithPrefixPaged(root, hexKey("2"), 0, hexKey("12"))
	require.NoError(t, err)
	require.Equal(t, []string{"20"}, keyStrings(keys))
}

func TestGetByKey(t *testing.T) {
	db, root, _ := newTestDatabase(t, nil, scanEntries, node.V0)

	for k, v := range scanEntries {
		got, ok, err := db.GetByKey(root, nibble.FromBytes([]byte(k)))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, v, got)
	}
	for _, k := range []string{"", "1", "14", "123", "2", "21"} {
		_, ok, err := db.GetByKey(root, hexKey(k))
		require.NoError(t, err)
		require.False(t, ok, k)
	}
}

func TestGetNextKey(t *testing.T) {
	db, root, _ := newTestDatabase(t, nil, scanEntries, node.V0)

	tests := []struct {
		key, next string
		found     bool
	}{
		{"", "12", true},
		{"0", "12", true},
		{"1", "12", true},
		{"12", "13", true},
		{"121", "13", true},
		{"13", "20", true},
		{"2", "20", true},
		{"20", "", false},
		{"3", "", false},
	}
	for _, tt := range tests {
		next, ok, err := db.GetNextKey(root, hexKey(tt.key))
		require.NoError(t, err)
		require.Equal(t, tt.found, ok, tt.key)
		require.Equal(t, tt.next, next.String(), tt.key)
	}
}

func TestGetNextBranch(t *testing.T) {
	db, root, _ := newTestDatabase(t, nil, scanEntries, node.V0)

	tests := []struct {
		prefix, next string
		found        bool
	}{
		{"", "", true},
		{"1", "1", true},
		{"12", "12", true},
		{"14", "20", true},
		{"3", "", false},
	}
	for _, tt := range tests {
		next, ok, err := db.GetNextBranch(root, hexKey(tt.prefix))
		require.NoError(t, err)
		require.Equal(t, tt.found, ok, tt.prefix)
		require.Equal(t, tt.next, next.String(), tt.prefix)
	}
}

func TestLoadChildren(t *testing.T) {
	db, root, st := newTestDatabase(t, nil, scanEntries, node.V0)

	children, err := db.LoadChildren(nil, root)
	require.NoError(t, err)
	for i, c := range children {
		switch i {
		case 1:
			require.NotNil(t, c)
			require.Equal(t, "1", c.Key.String())
			require.Nil(t, c.Value)
			idx, ok := st.ExistingNode(hexKey("1"))
			require.True(t, ok)
			require.Equal(t, st.UserData(idx).Merkle, c.Merkle)
		case 2:
			require.NotNil(t, c)
			require.Equal(t, "20", c.Key.String())
			require.Equal(t, []byte("c"), c.Value)
		default:
			require.Nil(t, c, "child %d", i)
		}
	}
}

func TestEmptyRoot(t *testing.T) {
	db, err := New(memorydb.New(), nil)
	require.NoError(t, err)

	root, err := db.InsertTrieStorage(structure.New[structure.NodeData](), node.V0)
	require.NoError(t, err)
	require.Equal(t, node.EmptyRootHash.Bytes(), root)

	for _, r := range [][]byte{root, bytes.Repeat([]byte{1}, 32)} {
		_, ok, err := db.GetByKey(r, hexKey("12"))
		require.NoError(t, err)
		require.False(t, ok)

		keys, err := db.GetKeysWithPrefix(r, nil, 0)
		require.NoError(t, err)
		require.Empty(t, keys)

		st, err := db.LoadTrieStructure(context.Background(), r)
		require.NoError(t, err)
		require.True(t, st.IsEmpty())
	}
}

func TestMissingNode(t *testing.T) {
	db, root, st := newTestDatabase(t, &Config{}, scanEntries, node.V0)

	idx, ok := st.ExistingNode(hexKey("1"))
	require.True(t, ok)
	merkle := st.UserData(idx).Merkle
	require.NoError(t, DeleteTrieNode(db.Disk(), merkle))

	_, _, err := db.GetByKey(root, hexKey("12"))
	var missing *MissingNodeError
	require.True(t, errors.As(err, &missing), "%v", err)
	require.Equal(t, merkle, missing.NodeHash)
	require.Equal(t, root, missing.Root)
	require.Equal(t, "1", missing.Path.String())

	// The other subtree is still readable.
	value, ok, err := db.GetByKey(root, hexKey("20"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("c"), value)

	_, err = db.GetKeysWithPrefix(root, nil, 0)
	require.True(t, errors.As(err, &missing))

	_, err = db.LoadTrieStructure(context.Background(), root)
	require.True(t, errors.As(err, &missing))
}

// failingStore is a key-value store whose reads fail.
type failingStore struct {
	kvdb.KeyValueStore
	err error
}

func (s *failingStore) Get(key []byte) ([]byte, error) { return nil, s.err }

func TestStoreReadError(t *testing.T) {
	healthy, root, _ := newTestDatabase(t, &Config{}, scanEntries, node.V0)
	errDisk := errors.New("disk i/o failure")
	db, err := New(&failingStore{KeyValueStore: healthy.Disk(), err: errDisk}, &Config{})
	require.NoError(t, err)

	blob, err := ReadTrieNode(db.Disk(), root)
	require.ErrorIs(t, err, errDisk)
	require.Nil(t, blob)

	_, _, err = db.GetByKey(root, hexKey("12"))
	require.ErrorIs(t, err, errDisk)
	var missing *MissingNodeError
	require.False(t, errors.As(err, &missing), "a read failure is not a missing node")

	_, err = db.Value(&TrieNodeData{ValueHash: bytes.Repeat([]byte{1}, 32)})
	require.ErrorIs(t, err, errDisk)
	require.False(t, errors.Is(err, ErrMissingValue))

	// A miss on a healthy store is still reported as absent.
	blob, err = ReadTrieNode(healthy.Disk(), bytes.Repeat([]byte{2}, 32))
	require.NoError(t, err)
	require.Nil(t, blob)
}

func randomEntries(rnd *rand.Rand, n int) map[string][]byte {
	entries := make(map[string][]byte, n)
	for i := 0; i < n; i++ {
		key := make([]byte, 1+rnd.Intn(4))
		rnd.Read(key)
		value := make([]byte, rnd.Intn(60))
		rnd.Read(value)
		entries[string(key)] = value
	}
	return entries
}

func sortedKeys(entries map[string][]byte) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, nibble.FromBytes([]byte(k)).String())
	}
	sort.Strings(keys)
	return keys
}

func TestRootMatchesInMemoryTrie(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, version := range []node.StateVersion{node.V0, node.V1} {
		entries := randomEntries(rnd, 200)
		db, root, _ := newTestDatabase(t, nil, entries, version)

		mem := trie.New(version)
		for k, v := range entries {
			require.NoError(t, mem.Put([]byte(k), v))
		}
		want, err := mem.RootHash()
		require.NoError(t, err)
		require.Equal(t, want.Bytes(), root, "version %v", version)

		for k, v := range entries {
			got, ok, err := db.GetByKey(root, nibble.FromBytes([]byte(k)))
			require.NoError(t, err)
			require.True(t, ok)
			require.True(t, bytes.Equal(v, got), "key %x", k)
		}
		keys, err := db.GetKeysWithPrefix(root, nil, 0)
		require.NoError(t, err)
		require.Equal(t, sortedKeys(entries), keyStrings(keys))
	}
}

func TestHashedValues(t *testing.T) {
	long := bytes.Repeat([]byte{0xab}, node.MinHashedValueLength)
	entries := map[string][]byte{"\x01": long, "\x02": []byte("short")}
	db, root, _ := newTestDatabase(t, &Config{}, entries, node.V1)

	hash := crypto.Blake2b256(long)
	stored, err := ReadTrieValue(db.Disk(), hash)
	require.NoError(t, err)
	require.Equal(t, long, stored)

	got, ok, err := db.GetByKey(root, hexKey("01"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, long, got)

	st, err := db.LoadTrieStructure(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, entries["\x01"], structure.StorageEntries(st)[0].Value)
}

func TestLoadTrieStructure(t *testing.T) {
	entries := randomEntries(rand.New(rand.NewSource(2)), 300)
	db, root, want := newTestDatabase(t, nil, entries, node.V0)

	got, err := db.LoadTrieStructure(context.Background(), root)
	require.NoError(t, err)
	require.True(t, structure.StructurallyEquals(want, got))
	require.Equal(t, root, structure.RootMerkle(got))
	require.Equal(t, structure.StorageEntries(want), structure.StorageEntries(got))

	for _, idx := range want.AllIndices() {
		other, ok := got.ExistingNode(want.FullKey(idx))
		require.True(t, ok)
		require.Equal(t, want.UserData(idx).Merkle, got.UserData(other).Merkle)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.LoadTrieStructure(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestUpdateTrieStorage(t *testing.T) {
	db, oldRoot, st := newTestDatabase(t, nil, scanEntries, node.V0)

	idx, ok := st.ExistingNode(hexKey("13"))
	require.True(t, ok)
	st.SetUserData(idx, structure.NodeData{Value: []byte("updated")})
	added, err := st.Insert(hexKey("2011"), structure.NodeData{Value: []byte("new")})
	require.NoError(t, err)

	root, err := db.UpdateTrieStorage(st, []structure.NodeIndex{idx, added}, node.V0)
	require.NoError(t, err)
	require.NotEqual(t, oldRoot, root)

	fresh, err := structure.FromMap(map[string][]byte{
		"\x12": []byte("a"), "\x13": []byte("updated"), "\x20": []byte("c"), "\x20\x11": []byte("new"),
	})
	require.NoError(t, err)
	require.NoError(t, structure.ComputeMerkleValues(fresh, node.V0))
	require.Equal(t, structure.RootMerkle(fresh), root)

	value, ok, err := db.GetByKey(root, hexKey("13"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("updated"), value)

	// Records are content addressed: the old root still resolves.
	value, ok, err = db.GetByKey(oldRoot, hexKey("13"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("b"), value)
}

func TestUpdateWithoutMerkle(t *testing.T) {
	db, err := New(memorydb.New(), nil)
	require.NoError(t, err)
	st, err := structure.FromMap(scanEntries)
	require.NoError(t, err)

	_, err = db.writeStructure(st, st.AllIndices(), node.V0)
	require.ErrorIs(t, err, ErrMerkleNotComputed)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	config := &Config{CleanCacheSize: 1024 * 1024, Namespace: "test", Registerer: reg}
	db, root, _ := newTestDatabase(t, config, scanEntries, node.V0)

	// Registering twice reuses the collectors.
	_, err := New(memorydb.New(), config)
	require.NoError(t, err)

	_, _, err = db.GetByKey(root, hexKey("12"))
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, f := range families {
		m := f.GetMetric()[0]
		if c := m.GetCounter(); c != nil {
			values[f.GetName()] = c.GetValue()
		}
	}
	assert.Equal(t, float64(5), values["test_node_writes"])
	assert.Equal(t, float64(1), values["test_commits"])
	assert.Positive(t, values["test_clean_hits"])
	assert.Zero(t, values["test_node_reads"])
}
