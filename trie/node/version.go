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

package node

import (
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/crypto"
)

// StateVersion selects how storage values are laid out in trie nodes.
type StateVersion uint8

const (
	// V0 stores every value inline.
	V0 StateVersion = 0
	// V1 stores values of at least MinHashedValueLength bytes as their hash.
	V1 StateVersion = 1
)

// MinHashedValueLength is the smallest value V1 stores as a hash.
const MinHashedValueLength = 33

// ParseStateVersion converts the numeric form used in configs and on disk.
func ParseStateVersion(v uint64) (StateVersion, error) {
	switch v {
	case 0:
		return V0, nil
	case 1:
		return V1, nil
	}
	return 0, fmt.Errorf("unknown state version %d", v)
}

func (v StateVersion) String() string { return fmt.Sprintf("V%d", uint8(v)) }

// ShouldHashValue reports whether value is stored by hash under v.
func (v StateVersion) ShouldHashValue(value []byte) bool {
	return v == V1 && len(value) >= MinHashedValueLength
}

// NodeValue returns what a node stores for value under v: the value itself or
// its hash, and whether it was hashed.
func (v StateVersion) NodeValue(value []byte) ([]byte, bool) {
	if value == nil {
		return nil, false
	}
	if v.ShouldHashValue(value) {
		return crypto.Blake2b256Bytes(value), true
	}
	return value, false
}
