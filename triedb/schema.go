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
	"errors"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/kvdb"
)

// The fields below define the low level database schema prefixing.
var (
	trieNodePrefix  = []byte("tn:") // trieNodePrefix + merkle value -> encoded TrieNodeData
	trieValuePrefix = []byte("tv:") // trieValuePrefix + value hash -> value of a hashed (V1) storage value

	// Exclusive upper bounds of the two tables, for range deletes and compaction.
	trieNodeLimit  = []byte("tn;")
	trieValueLimit = []byte("tv;")
)

// nodeKey = trieNodePrefix + merkle
func nodeKey(merkle []byte) []byte {
	return append(append(make([]byte, 0, len(trieNodePrefix)+len(merkle)), trieNodePrefix...), merkle...)
}

// valueKey = trieValuePrefix + hash
func valueKey(hash common.Hash) []byte {
	return append(append(make([]byte, 0, len(trieValuePrefix)+common.HashLength), trieValuePrefix...), hash.Bytes()...)
}

// ReadTrieNode retrieves the encoded trie node record of the given merkle
// value. An absent record yields nil data and a nil error; any other store
// failure is returned.
func ReadTrieNode(db kvdb.KeyValueReader, merkle []byte) ([]byte, error) {
	return readRecord(db, nodeKey(merkle))
}

// WriteTrieNode writes the encoded trie node record of the given merkle value.
func WriteTrieNode(db kvdb.KeyValueWriter, merkle []byte, data []byte) error {
	return db.Put(nodeKey(merkle), data)
}

// DeleteTrieNode deletes the trie node record of the given merkle value.
func DeleteTrieNode(db kvdb.KeyValueWriter, merkle []byte) error {
	return db.Delete(nodeKey(merkle))
}

// ReadTrieValue retrieves the value stored under the hash of a hashed storage
// value, with the same absent semantics as ReadTrieNode.
func ReadTrieValue(db kvdb.KeyValueReader, hash common.Hash) ([]byte, error) {
	return readRecord(db, valueKey(hash))
}

func readRecord(db kvdb.KeyValueReader, key []byte) ([]byte, error) {
	data, err := db.Get(key)
	if errors.Is(err, kvdb.ErrNotFound) {
		return nil, nil
	}
	return data, err
}

// DeleteTrieValue deletes the value stored under the hash of a hashed storage
// value.
func DeleteTrieValue(db kvdb.KeyValueWriter, hash common.Hash) error {
	return db.Delete(valueKey(hash))
}

// WriteTrieValue writes the value behind a hashed storage value.
func WriteTrieValue(db kvdb.KeyValueWriter, hash common.Hash, value []byte) error {
	return db.Put(valueKey(hash), value)
}

// InspectStorage counts the node and value records in db.
func InspectStorage(db kvdb.Iteratee) (nodes, nodeSize, values, valueSize int, err error) {
	if nodes, nodeSize, err = kvdb.CountPrefix(db, trieNodePrefix); err != nil {
		return
	}
	values, valueSize, err = kvdb.CountPrefix(db, trieValuePrefix)
	return
}
