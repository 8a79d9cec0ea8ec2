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

package trie

import (
	"errors"
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
)

var (
	// ErrEmptyProof is returned when a trie is built from no proof nodes.
	ErrEmptyProof = errors.New("encoded proof nodes is empty")

	// ErrKeyNotFound is returned by Verify when the key is absent from the
	// proof trie.
	ErrKeyNotFound = errors.New("key not found in proof trie")

	// ErrMissingValue is returned when a hashed storage value is read and its
	// preimage is not known to the trie.
	ErrMissingValue = errors.New("hashed value preimage not available")
)

// RootNotFoundError is returned when no proof node hashes to the expected
// root hash.
type RootNotFoundError struct {
	Root common.Hash
}

func (err *RootNotFoundError) Error() string {
	return fmt.Sprintf("root node not found in proof for root hash %x", err.Root)
}

// ProofChildUnresolvedError is returned by strict proof loading when a
// branch references a child that the proof does not carry.
//
// 严格模式下，证明中缺少被引用的子节点时返回。
type ProofChildUnresolvedError struct {
	Path   nibble.Nibbles // full key of the branch holding the reference
	Index  int            // child slot
	Merkle []byte         // merkle value of the missing child
}

func (err *ProofChildUnresolvedError) Error() string {
	return fmt.Sprintf("proof child %x of node %v unresolved (merkle %x)", err.Index, err.Path, err.Merkle)
}

// MissingNodeError is returned when a lookup or mutation reaches a child that
// is only known by its merkle value. It contains the path and the merkle
// value needed to fetch the node.
type MissingNodeError struct {
	NodeHash []byte         // merkle value of the missing node
	Path     nibble.Nibbles // nibble path to the missing node
}

func (err *MissingNodeError) Error() string {
	return fmt.Sprintf("missing trie node %x (path %v)", err.NodeHash, err.Path)
}
