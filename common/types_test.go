// Copyright 2015 The go-ethereum Authors
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

package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashSetBytesCropsFromLeft(t *testing.T) {
	long := make([]byte, 40)
	long[39] = 0xaa
	h := BytesToHash(long)
	require.Equal(t, byte(0xaa), h[31])

	short := BytesToHash([]byte{1, 2})
	require.Equal(t, byte(1), short[30])
	require.Equal(t, byte(2), short[31])
}

func TestHashTextRoundTrip(t *testing.T) {
	h := HexToHash("0x0102030405060708091011121314151617181920212223242526272829303132")
	text, err := h.MarshalText()
	require.NoError(t, err)

	var dec Hash
	require.NoError(t, dec.UnmarshalText(text))
	require.Equal(t, h, dec)

	require.Error(t, dec.UnmarshalText([]byte("0x0102")))
}

func TestParseHex(t *testing.T) {
	b, err := ParseHex("0xdeadbeef")
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)

	_, err = ParseHex("abc")
	require.Error(t, err)
	require.Nil(t, FromHex("zz"))
}

func TestStorageSize(t *testing.T) {
	require.Equal(t, "2.00 KiB", StorageSize(2048).String())
	require.Equal(t, "1.50MiB", StorageSize(1572864).TerminalString())
}
