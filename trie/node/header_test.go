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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderLengthBoundaries(t *testing.T) {
	tests := []struct {
		variant Variant
		keyLen  int
		want    []byte
	}{
		{Leaf, 0, []byte{0x40}},
		{Leaf, 62, []byte{0x7e}},
		{Leaf, 63, []byte{0x7f, 0x00}},
		{Leaf, 64, []byte{0x7f, 0x01}},
		{Leaf, 63 + 255, []byte{0x7f, 0xff, 0x00}},
		{Leaf, 63 + 256, []byte{0x7f, 0xff, 0x01}},
		{Branch, 1, []byte{0x81}},
		{BranchWithValue, 63, []byte{0xff, 0x00}},
		{LeafWithHashedValue, 30, []byte{0x3e}},
		{LeafWithHashedValue, 31, []byte{0x3f, 0x00}},
		{BranchWithHashedValue, 14, []byte{0x1e}},
		{BranchWithHashedValue, 15, []byte{0x1f, 0x00}},
		{BranchWithHashedValue, 0, []byte{0x10}},
		{Empty, 0, []byte{0x00}},
	}
	for _, tt := range tests {
		enc, err := AppendHeader(nil, tt.variant, tt.keyLen)
		require.NoError(t, err, "%v/%d", tt.variant, tt.keyLen)
		require.Equal(t, tt.want, enc, "%v/%d", tt.variant, tt.keyLen)
		require.Equal(t, len(tt.want), HeaderSize(tt.variant, tt.keyLen))

		header, size, err := DecodeHeader(append(enc, 0xaa))
		require.NoError(t, err)
		require.Equal(t, len(enc), size)
		require.Equal(t, Header{tt.variant, tt.keyLen}, header)
	}
}

func TestHeaderMaxKeyLength(t *testing.T) {
	enc, err := AppendHeader(nil, Leaf, MaxPartialKeyLength)
	require.NoError(t, err)
	header, size, err := DecodeHeader(enc)
	require.NoError(t, err)
	require.Equal(t, len(enc), size)
	require.Equal(t, MaxPartialKeyLength, header.PartialKeyLen)

	_, err = AppendHeader(nil, Leaf, MaxPartialKeyLength+1)
	require.ErrorIs(t, err, ErrPartialKeyOverflow)

	// 63 + 257*255 runs past the limit before the terminator.
	overflow := append([]byte{0x7f}, bytes.Repeat([]byte{0xff}, 257)...)
	overflow = append(overflow, 0x00)
	_, _, err = DecodeHeader(overflow)
	require.ErrorIs(t, err, ErrPartialKeyOverflow)

	// 63 + 256*255 + 193 is one nibble past the limit and terminates cleanly.
	exact := append([]byte{0x7f}, bytes.Repeat([]byte{0xff}, 256)...)
	_, _, err = DecodeHeader(append(exact, 193))
	require.ErrorIs(t, err, ErrPartialKeyOverflow)

	header, size, err = DecodeHeader(append(exact, 192))
	require.NoError(t, err)
	require.Equal(t, 258, size)
	require.Equal(t, MaxPartialKeyLength, header.PartialKeyLen)
}

func TestHeaderDecodeErrors(t *testing.T) {
	_, _, err := DecodeHeader(nil)
	require.ErrorIs(t, err, ErrHeaderTruncated)

	_, _, err = DecodeHeader([]byte{0x7f, 0xff})
	require.ErrorIs(t, err, ErrHeaderTruncated)

	for _, b := range []byte{0x02, 0x03, 0x08, 0x0f} {
		_, _, err = DecodeHeader([]byte{b})
		var unknown *UnknownVariantError
		require.ErrorAs(t, err, &unknown)
		require.Equal(t, b, unknown.Header)
	}
}

func TestVariantMatching(t *testing.T) {
	tests := map[byte]Variant{
		0x00: Empty,
		0x01: CompactEncoding,
		0x10: BranchWithHashedValue,
		0x1f: BranchWithHashedValue,
		0x20: LeafWithHashedValue,
		0x3f: LeafWithHashedValue,
		0x40: Leaf,
		0x80: Branch,
		0xc0: BranchWithValue,
	}
	for b, want := range tests {
		got, ok := matchVariant(b)
		require.True(t, ok, "%08b", b)
		require.Equal(t, want, got, "%08b", b)
	}
}
