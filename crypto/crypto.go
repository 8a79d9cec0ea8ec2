// Copyright 2014 The go-ethereum Authors
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

// Package crypto wraps the hash functions used by the trie.
package crypto

import (
	"hash"
	"sync"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"golang.org/x/crypto/blake2b"
)

// DigestLength sets the digest exact length
const DigestLength = 32

// HashFunc digests arbitrary bytes into a 32 byte hash. Proof reconstruction
// accepts one so tests and alternate chains can plug their own.
type HashFunc func(data []byte) common.Hash

// blake2bPool reuses unkeyed Blake2b-256 states.
// blake2bPool 复用无密钥的 Blake2b-256 哈希状态，避免频繁分配。
var blake2bPool = sync.Pool{
	New: func() any {
		h, err := blake2b.New256(nil)
		if err != nil {
			// Only reachable with an oversized key.
			panic(err)
		}
		return h
	},
}

// Blake2b256 calculates and returns the Blake2b-256 hash of the input data,
// converting it to an internal Hash data structure.
func Blake2b256(data ...[]byte) (h common.Hash) {
	d := blake2bPool.Get().(hash.Hash)
	defer blake2bPool.Put(d)

	d.Reset()
	for _, b := range data {
		d.Write(b)
	}
	d.Sum(h[:0])
	return h
}

// Blake2b256Bytes is Blake2b256 returning a fresh byte slice.
func Blake2b256Bytes(data ...[]byte) []byte {
	h := Blake2b256(data...)
	return h[:]
}

// Blake2bHashFunc is the HashFunc used by Substrate state tries.
var Blake2bHashFunc HashFunc = func(data []byte) common.Hash { return Blake2b256(data) }
