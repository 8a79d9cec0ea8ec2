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

package pebble

import (
	"testing"

	"github.com/LimeChain/Fruzhin-sub001/kvdb"
	"github.com/LimeChain/Fruzhin-sub001/kvdb/dbtest"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnCompactionBegin(t *testing.T) {
	db := &Database{}

	db.onCompactionBegin(pebble.CompactionInfo{Input: []pebble.LevelInfo{{Level: 0}}})
	assert.False(t, db.compStartTime.IsZero(), "compStartTime should be set")
	assert.Equal(t, uint32(1), db.level0Comp.Load())
	assert.Equal(t, uint32(0), db.nonLevel0Comp.Load())
	assert.Equal(t, 1, db.activeComp)

	db.onCompactionBegin(pebble.CompactionInfo{Input: []pebble.LevelInfo{{Level: 1}}})
	assert.Equal(t, uint32(1), db.level0Comp.Load())
	assert.Equal(t, uint32(1), db.nonLevel0Comp.Load())
	assert.Equal(t, 2, db.activeComp)

	db.onCompactionEnd(pebble.CompactionInfo{})
	db.onCompactionEnd(pebble.CompactionInfo{})
	assert.Equal(t, 0, db.activeComp)
}

func TestUpperBound(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x03}, upperBound([]byte{0x01, 0x02}))
	assert.Equal(t, []byte{0x02}, upperBound([]byte{0x01, 0xff}))
	assert.Nil(t, upperBound([]byte{0xff, 0xff}))
	assert.Nil(t, upperBound([]byte{}))
	// "tn:" is the trie node keyspace prefix
	assert.Equal(t, []byte("tn;"), upperBound([]byte("tn:")))
}

func TestPebbleDB(t *testing.T) {
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

func TestIteratorDoesNotAliasPrefix(t *testing.T) {
	db, err := NewMemory()
	require.NoError(t, err)
	defer db.Close()

	prefix := make([]byte, 3, 8)
	copy(prefix, "tn:")
	it := db.NewIterator(prefix, []byte{0xaa})
	it.Release()
	assert.Equal(t, []byte("tn:"), prefix[:3])
	assert.Equal(t, byte(0), prefix[:4][3])
}

func TestPebbleMetricsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	db, err := New(t.TempDir(), 16, 16, "trie_pebble", false, reg)
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("tn:a"), []byte{1}))
	require.NoError(t, db.Close())
	// Closing twice is allowed
	require.NoError(t, db.Close())

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
