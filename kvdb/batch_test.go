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

package kvdb_test

import (
	"bytes"
	"testing"

	"github.com/LimeChain/Fruzhin-sub001/kvdb"
	"github.com/LimeChain/Fruzhin-sub001/kvdb/memorydb"
	"github.com/stretchr/testify/require"
)

// recorder collects the keys replayed into it.
type recorder struct {
	puts, deletes []string
}

func (r *recorder) Put(key []byte, value []byte) error {
	r.puts = append(r.puts, string(key))
	return nil
}

func (r *recorder) Delete(key []byte) error {
	r.deletes = append(r.deletes, string(key))
	return nil
}

func TestHookedBatchFlush(t *testing.T) {
	db := memorydb.New()
	require.NoError(t, db.Put([]byte("old"), []byte{1}))

	var puts, deletes int
	batch := kvdb.HookedBatch{
		Batch:    db.NewBatch(),
		OnPut:    func([]byte, []byte) { puts++ },
		OnDelete: func([]byte) { deletes++ },
	}
	require.NoError(t, batch.Put([]byte("new"), []byte{2}))
	require.NoError(t, batch.Delete([]byte("old")))
	require.Equal(t, 1, puts)
	require.Equal(t, 1, deletes)

	// Below the ideal size nothing is written.
	require.NoError(t, kvdb.FlushIfFull(batch, nil))
	ok, err := db.Has([]byte("new"))
	require.NoError(t, err)
	require.False(t, ok)

	rec := new(recorder)
	require.NoError(t, kvdb.Flush(batch, rec))
	require.Equal(t, []string{"new"}, rec.puts)
	require.Equal(t, []string{"old"}, rec.deletes)
	require.Zero(t, batch.ValueSize())

	ok, err = db.Has([]byte("old"))
	require.NoError(t, err)
	require.False(t, ok)

	// A full batch is flushed without an explicit Flush.
	require.NoError(t, batch.Put([]byte("big"), bytes.Repeat([]byte{3}, kvdb.IdealBatchSize)))
	require.NoError(t, kvdb.FlushIfFull(batch, nil))
	ok, err = db.Has([]byte("big"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFlushSkipsReplayOnFailedWrite(t *testing.T) {
	db := memorydb.New()
	batch := db.NewBatch()
	require.NoError(t, batch.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	rec := new(recorder)
	require.Error(t, kvdb.Flush(batch, rec))
	require.Empty(t, rec.puts)
}
