// Copyright 2019 The go-ethereum Authors
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

// Package dbtest holds the behaviour every kvdb backend has to share.
package dbtest

import (
	"bytes"
	"testing"

	"github.com/LimeChain/Fruzhin-sub001/kvdb"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSuite runs a suite of tests against a KeyValueStore database
// implementation.
func TestDatabaseSuite(t *testing.T, New func() kvdb.KeyValueStore) {
	t.Run("Iterator", func(t *testing.T) {
		tests := []struct {
			content map[string]string
			prefix  string
			start   string
			order   []string
		}{
			// Empty databases should be iterable
			{map[string]string{}, "", "", nil},
			{map[string]string{}, "non-existent-prefix", "", nil},

			// Single-item databases should be iterable
			{map[string]string{"key": "val"}, "", "", []string{"key"}},
			{map[string]string{"key": "val"}, "k", "", []string{"key"}},
			{map[string]string{"key": "val"}, "l", "", nil},

			// Multi-item databases should be fully iterable
			{
				map[string]string{"tn:1": "a", "tn:2": "b", "tn:3": "c", "tv:1": "d"},
				"tn:", "",
				[]string{"tn:1", "tn:2", "tn:3"},
			},
			// Start keys are relative to the prefix
			{
				map[string]string{"tn:1": "a", "tn:2": "b", "tn:3": "c", "tv:1": "d"},
				"tn:", "2",
				[]string{"tn:2", "tn:3"},
			},
			{
				map[string]string{"ka": "1", "kb": "2", "kc": "3"},
				"k", "bb",
				[]string{"kc"},
			},
		}
		for i, tt := range tests {
			db := New()
			for key, val := range tt.content {
				require.NoError(t, db.Put([]byte(key), []byte(val)), "test %d", i)
			}
			it := db.NewIterator([]byte(tt.prefix), []byte(tt.start))
			var got []string
			for it.Next() {
				require.Equal(t, tt.content[string(it.Key())], string(it.Value()), "test %d", i)
				got = append(got, string(it.Key()))
			}
			require.NoError(t, it.Error(), "test %d", i)
			it.Release()
			require.Equal(t, tt.order, got, "test %d", i)
			db.Close()
		}
	})

	t.Run("KeyValueOperations", func(t *testing.T) {
		db := New()
		defer db.Close()

		key := []byte("tn:root")
		has, err := db.Has(key)
		require.NoError(t, err)
		require.False(t, has)

		_, err = db.Get(key)
		require.ErrorIs(t, err, kvdb.ErrNotFound)

		require.NoError(t, db.Put(key, []byte{1, 2, 3}))
		got, err := db.Get(key)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3}, got)

		has, err = db.Has(key)
		require.NoError(t, err)
		require.True(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		require.ErrorIs(t, err, kvdb.ErrNotFound)
	})

	t.Run("Batch", func(t *testing.T) {
		db := New()
		defer db.Close()

		b := db.NewBatch()
		for _, k := range []string{"1", "2", "3", "4"} {
			require.NoError(t, b.Put([]byte(k), nil))
		}
		_, err := db.Get([]byte("1"))
		require.ErrorIs(t, err, kvdb.ErrNotFound, "batch writes must not be visible before Write")

		require.NoError(t, b.Write())
		require.Equal(t, []string{"1", "2", "3", "4"}, iterateKeys(db.NewIterator(nil, nil)))

		b.Reset()
		require.Zero(t, b.ValueSize())

		// Mix writes and deletes in batch
		b.Put([]byte("5"), nil)
		b.Delete([]byte("1"))
		b.Put([]byte("6"), nil)
		b.Delete([]byte("3"))
		b.Put([]byte("3"), nil)
		require.NoError(t, b.Write())
		require.Equal(t, []string{"2", "3", "4", "5", "6"}, iterateKeys(db.NewIterator(nil, nil)))
	})

	t.Run("BatchReplay", func(t *testing.T) {
		db := New()
		defer db.Close()
		want := []string{"tn:a", "tn:b", "tn:c"}

		b := db.NewBatch()
		for _, k := range want {
			require.NoError(t, b.Put([]byte(k), []byte(k)))
		}
		b2 := db.NewBatch()
		require.NoError(t, b.Replay(b2))
		require.NoError(t, b2.Replay(db))
		require.Equal(t, want, iterateKeys(db.NewIterator(nil, nil)))
	})

	t.Run("DeleteRange", func(t *testing.T) {
		db := New()
		defer db.Close()

		for _, k := range []string{"a", "b", "c", "d", "e"} {
			require.NoError(t, db.Put([]byte(k), []byte(k)))
		}
		require.NoError(t, db.DeleteRange([]byte("b"), []byte("d")))
		require.Equal(t, []string{"a", "d", "e"}, iterateKeys(db.NewIterator(nil, nil)))
	})

	t.Run("CountPrefix", func(t *testing.T) {
		db := New()
		defer db.Close()

		db.Put([]byte("tn:1"), []byte{1})
		db.Put([]byte("tn:2"), []byte{1, 2})
		db.Put([]byte("tv:1"), []byte{1, 2, 3})
		count, size, err := kvdb.CountPrefix(db, []byte("tn:"))
		require.NoError(t, err)
		require.Equal(t, 2, count)
		require.Equal(t, 4+1+4+2, size)
	})

	t.Run("OperationsAfterClose", func(t *testing.T) {
		db := New()
		db.Put([]byte("key"), []byte("value"))
		db.Close()
		if _, err := db.Get([]byte("key")); err == nil {
			t.Fatalf("Get on closed db should fail")
		}
		if err := db.Put([]byte("key2"), []byte("value2")); err == nil {
			t.Fatalf("Put on closed db should fail")
		}
	})
}

func iterateKeys(it kvdb.Iterator) []string {
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(bytes.Clone(it.Key())))
	}
	return keys
}
