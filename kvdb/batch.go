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

package kvdb

// IdealBatchSize is the amount of queued data after which a trie write is
// flushed instead of growing the batch further.
const IdealBatchSize = 100 * 1024

// Batch buffers writes to its host store until Write is called. A batch is
// not safe for concurrent use.
type Batch interface {
	KeyValueWriter

	// ValueSize returns the amount of data queued for writing.
	ValueSize() int

	// Write applies the queued operations to the host store.
	Write() error

	// Reset drops the queued operations so the batch can be reused.
	Reset()

	// Replay feeds the queued operations, in order, into w.
	Replay(w KeyValueWriter) error
}

// Batcher creates batches on a backing store.
type Batcher interface {
	// NewBatch creates an empty batch.
	NewBatch() Batch

	// NewBatchWithSize creates an empty batch with size bytes preallocated.
	NewBatchWithSize(size int) Batch
}

// HookedBatch reports every put and delete queued on the wrapped batch. The
// trie database uses it to count node writes and deletions.
type HookedBatch struct {
	Batch

	OnPut    func(key []byte, value []byte)
	OnDelete func(key []byte)
}

func (b HookedBatch) Put(key []byte, value []byte) error {
	if b.OnPut != nil {
		b.OnPut(key, value)
	}
	return b.Batch.Put(key, value)
}

func (b HookedBatch) Delete(key []byte) error {
	if b.OnDelete != nil {
		b.OnDelete(key)
	}
	return b.Batch.Delete(key)
}

// Flush writes b, replays its operations into after when it is non-nil and
// resets it for reuse. The replay only runs once the write succeeded.
func Flush(b Batch, after KeyValueWriter) error {
	if err := b.Write(); err != nil {
		return err
	}
	if after != nil {
		if err := b.Replay(after); err != nil {
			return err
		}
	}
	b.Reset()
	return nil
}

// FlushIfFull flushes b once it has grown to IdealBatchSize.
func FlushIfFull(b Batch, after KeyValueWriter) error {
	if b.ValueSize() < IdealBatchSize {
		return nil
	}
	return Flush(b, after)
}
