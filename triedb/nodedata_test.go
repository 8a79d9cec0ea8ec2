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
	"bytes"
	"errors"
	"testing"

	"github.com/LimeChain/Fruzhin-sub001/crypto"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	"github.com/stretchr/testify/require"
)

func TestNodeDataRoundTrip(t *testing.T) {
	branch := &TrieNodeData{PartialKey: nibble.MustFromHexString("abc"), Version: node.V1}
	branch.Children[0] = bytes.Repeat([]byte{1}, 32)
	branch.Children[15] = []byte{0x40, 0x04, 0xff}

	tests := []struct {
		name string
		data *TrieNodeData
	}{
		{"leaf", &TrieNodeData{PartialKey: nibble.MustFromHexString("12"), Value: []byte{1, 2, 3}}},
		{"odd key", &TrieNodeData{PartialKey: nibble.MustFromHexString("1"), Value: []byte{9}}},
		{"empty value", &TrieNodeData{PartialKey: nibble.MustFromHexString("0f"), Value: []byte{}}},
		{"hashed value", &TrieNodeData{ValueHash: crypto.Blake2b256Bytes([]byte("v")), Version: node.V1}},
		{"branch", branch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := DecodeTrieNodeData(tt.data.Encode())
			require.NoError(t, err)
			require.Equal(t, tt.data.PartialKey.String(), dec.PartialKey.String())
			require.Equal(t, tt.data.Children, dec.Children)
			require.Equal(t, tt.data.Value, dec.Value)
			require.Equal(t, tt.data.ValueHash, dec.ValueHash)
			require.Equal(t, tt.data.Version, dec.Version)
			require.Equal(t, tt.data.HasValue(), dec.HasValue())
			require.Equal(t, tt.data.IsBranch(), dec.IsBranch())
		})
	}
}

func TestNodeDataCodecForm(t *testing.T) {
	data := &TrieNodeData{ValueHash: bytes.Repeat([]byte{7}, 32)}
	data.Children[3] = []byte{0x40, 0x00}
	n := data.Node()
	require.True(t, n.HashedValue)
	require.Equal(t, node.ChildReference, n.Children[3].Kind())
	require.Equal(t, 1, n.NumChildren())

	mv, err := data.MerkleValue(true)
	require.NoError(t, err)
	enc, err := n.Encode()
	require.NoError(t, err)
	require.Equal(t, crypto.Blake2b256Bytes(enc), mv)
}

func TestDecodeCorruptNodeData(t *testing.T) {
	valid := (&TrieNodeData{PartialKey: nibble.MustFromHexString("12"), Value: []byte{1, 2, 3}}).Encode()
	for _, buf := range [][]byte{
		nil,
		{0},
		{9, 0, 0, 0, 0},
		valid[:len(valid)-1],
		append(append([]byte{}, valid...), 0),
		{0, flagHashedValue, 0, 0, 0, 1},
	} {
		_, err := DecodeTrieNodeData(buf)
		require.Truef(t, errors.Is(err, ErrCorruptNode), "buf %x: %v", buf, err)
	}
}
