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

package scale

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompactVectors(t *testing.T) {
	tests := []struct {
		v   uint64
		enc []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x04}},
		{42, []byte{0xa8}},
		{63, []byte{0xfc}},
		{64, []byte{0x01, 0x01}},
		{69, []byte{0x15, 0x01}},
		{16383, []byte{0xfd, 0xff}},
		{16384, []byte{0x02, 0x00, 0x01, 0x00}},
		{65535, []byte{0xfe, 0xff, 0x03, 0x00}},
		{1<<30 - 1, []byte{0xfe, 0xff, 0xff, 0xff}},
		{1 << 30, []byte{0x03, 0x00, 0x00, 0x00, 0x40}},
		{math.MaxUint32, []byte{0x03, 0xff, 0xff, 0xff, 0xff}},
		{1 << 32, []byte{0x07, 0x00, 0x00, 0x00, 0x00, 0x01}},
		{math.MaxUint64, []byte{0x13, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		enc := EncodeCompact(tt.v)
		require.Equal(t, tt.enc, enc, "encode %d", tt.v)
		require.Equal(t, len(tt.enc), CompactSize(tt.v))

		v, rest, err := SplitCompact(append(enc, 0xee))
		require.NoError(t, err, "decode %d", tt.v)
		require.Equal(t, tt.v, v)
		require.Equal(t, []byte{0xee}, rest)
	}
}

func TestCompactErrors(t *testing.T) {
	tests := []struct {
		input []byte
		err   error
	}{
		{nil, io.ErrUnexpectedEOF},
		{[]byte{0x01}, io.ErrUnexpectedEOF},
		{[]byte{0x02, 0x00, 0x01}, io.ErrUnexpectedEOF},
		{[]byte{0x03, 0x00}, io.ErrUnexpectedEOF},
		// 1 in two byte mode
		{[]byte{0x05, 0x00}, ErrCanonCompact},
		// 64 in four byte mode
		{[]byte{0x02, 0x01, 0x00, 0x00}, ErrCanonCompact},
		// small value in big integer mode
		{[]byte{0x03, 0x01, 0x00, 0x00, 0x00}, ErrCanonCompact},
		// trailing zero byte in big integer mode
		{[]byte{0x07, 0x00, 0x00, 0x00, 0x40, 0x00}, ErrCanonCompact},
		{[]byte{0x17, 0, 0, 0, 0, 0, 0, 0, 0, 1}, ErrCompactOverflow},
	}
	for _, tt := range tests {
		_, rest, err := SplitCompact(tt.input)
		require.ErrorIs(t, err, tt.err, "input %x", tt.input)
		require.Equal(t, tt.input, rest)
	}
}

func TestBytes(t *testing.T) {
	for _, n := range []int{0, 1, 32, 63, 64, 1000, 20000} {
		content := bytes.Repeat([]byte{0xab}, n)
		enc := EncodeBytes(content)
		require.Equal(t, BytesSize(content), len(enc))

		got, rest, err := SplitBytes(enc)
		require.NoError(t, err)
		require.Equal(t, content, got)
		require.Empty(t, rest)
	}
	// three bytes announced, two present
	_, _, err := SplitBytes([]byte{0x0c, 0x01, 0x02})
	require.ErrorIs(t, err, ErrValueTooLarge)
}
