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
	"sync"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/kvdb"
)

// 在 V1 状态版本中，33 字节及以上的存储值只以哈希形式出现在节点里，原始值单独保存。

// valueStore holds the values of hashed storage values until they are
// committed together with the nodes that reference them.
type valueStore struct {
	lock   sync.RWMutex
	disk   kvdb.KeyValueStore
	values map[common.Hash][]byte // staged values keyed by their hash
	size   common.StorageSize     // storage size of the staged values
}

func newValueStore(disk kvdb.KeyValueStore) *valueStore {
	return &valueStore{
		disk:   disk,
		values: make(map[common.Hash][]byte),
	}
}

// insert stages a value under its hash. The slice is not copied.
func (store *valueStore) insert(hash common.Hash, value []byte) {
	store.lock.Lock()
	defer store.lock.Unlock()

	if _, ok := store.values[hash]; ok {
		return
	}
	store.values[hash] = value
	store.size += common.StorageSize(common.HashLength + len(value))
}

// value returns a staged value, falling back to the database.
func (store *valueStore) value(hash common.Hash) ([]byte, error) {
	store.lock.RLock()
	value := store.values[hash]
	store.lock.RUnlock()

	if value != nil {
		return value, nil
	}
	return ReadTrieValue(store.disk, hash)
}

// commit moves the staged values into batch. The caller writes the batch.
func (store *valueStore) commit(batch kvdb.KeyValueWriter) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	for hash, value := range store.values {
		if err := WriteTrieValue(batch, hash, value); err != nil {
			return err
		}
	}
	store.values, store.size = make(map[common.Hash][]byte), 0
	return nil
}

func (store *valueStore) pending() common.StorageSize {
	store.lock.RLock()
	defer store.lock.RUnlock()

	return store.size
}
