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
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
)

var (
	// ErrCorruptNode is returned when a stored trie node record cannot be
	// decoded.
	ErrCorruptNode = errors.New("corrupt trie node record")

	// ErrMissingValue is returned when the value of a hashed storage value is
	// absent from the database.
	ErrMissingValue = errors.New("missing trie value")

	// ErrMerkleNotComputed is returned when persisting a trie structure whose
	// merkle values are missing.
	ErrMerkleNotComputed = errors.New("merkle value not computed")
)

// MissingNodeError is returned when walking a trie reaches a child whose
// record is not present in the database. It contains the information needed
// to fetch the node.
type MissingNodeError struct {
	Root     []byte         // root of the trie being walked
	NodeHash []byte         // merkle value of the missing node
	Path     nibble.Nibbles // nibble path to the missing node
	err      error          // concrete error for the missing node
}

// Unwrap returns the concrete error for the missing trie node.
func (err *MissingNodeError) Unwrap() error {
	return err.err
}

func (err *MissingNodeError) Error() string {
	if err.err == nil {
		return fmt.Sprintf("missing trie node %x (root %x) (path %v)", err.NodeHash, err.Root, err.Path)
	}
	return fmt.Sprintf("missing trie node %x (root %x) (path %v) %v", err.NodeHash, err.Root, err.Path, err.err)
}
