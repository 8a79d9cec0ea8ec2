// Copyright 2023 The go-ethereum Authors
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

package leveldb

import (
	"testing"

	"github.com/LimeChain/Fruzhin-sub001/kvdb"
	"github.com/LimeChain/Fruzhin-sub001/kvdb/dbtest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestLevelDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() kvdb.KeyValueStore {
			db, err := NewMemory()
			if err != nil {
				t.Fatal(err)
			}
			return db
		})
	})
}

func TestLevelDBOnDiskWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	db, err := New(t.TempDir(), 16, 16, "trie_leveldb", false, reg)
	require.NoError(t, err)

	require.NoError(t, db.Put([]byte("tn:a"), []byte{1}))
	stats, err := db.Stat()
	require.NoError(t, err)
	require.Contains(t, stats, "Read(MB)")
	require.NoError(t, db.Close())

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
