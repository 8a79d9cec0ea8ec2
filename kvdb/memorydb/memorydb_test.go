// Copyright 2018 The go-ethereum Authors
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

package memorydb

import (
	"testing"

	"github.com/LimeChain/Fruzhin-sub001/kvdb"
	"github.com/LimeChain/Fruzhin-sub001/kvdb/dbtest"
	"github.com/stretchr/testify/require"
)

func TestMemoryDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() kvdb.KeyValueStore {
			return New()
		})
	})
}

func TestIteratorSnapshot(t *testing.T) {
	db := New()
	db.Put([]byte("a"), []byte{1})
	db.Put([]byte("b"), []byte{2})

	it := db.NewIterator(nil, nil)
	defer it.Release()

	// Writes after creation are not observed by the iterator.
	db.Put([]byte("c"), []byte{3})
	var n int
	for it.Next() {
		n++
	}
	require.Equal(t, 2, n)
	require.Equal(t, 3, db.Len())
}
