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

package nibble

import (
	"bytes"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromInt(t *testing.T) {
	for i := 0; i <= 15; i++ {
		n, err := FromInt(i)
		require.NoError(t, err)
		require.Equal(t, Nibble(i), n)
	}
	for _, v := range []int{-1, 16, 255} {
		_, err := FromInt(v)
		require.ErrorIs(t, err, ErrInvalidNibble)
	}
}

func TestFromHexDigit(t *testing.T) {
	for i, c := range []byte("0123456789abcdef") {
		n, err := FromHexDigit(c)
		require.NoError(t, err)
		require.Equal(t, Nibble(i), n)
		require.Equal(t, c, n.HexDigit())
	}
	n, err := FromHexDigit('C')
	require.NoError(t, err)
	require.Equal(t, Nibble(12), n)

	for _, c := range []byte("gG /x") {
		_, err := FromHexDigit(c)
		require.ErrorIs(t, err, ErrInvalidNibble)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		b := make([]byte, rnd.Intn(40))
		rnd.Read(b)
		n := FromBytes(b)
		require.Len(t, n, len(b)*2)

		back, ok := n.ToBytes()
		require.True(t, ok)
		require.True(t, bytes.Equal(b, back))
		require.Equal(t, n.ToBytesPrepending(), back)
		require.Equal(t, n.ToBytesAppending(), back)
	}
}

func TestOddPadding(t *testing.T) {
	n := Nibbles{0xa, 0xb, 0xc}
	_, ok := n.ToBytes()
	require.False(t, ok)
	require.Equal(t, []byte{0x0a, 0xbc}, n.ToBytesPrepending())
	require.Equal(t, []byte{0xab, 0xc0}, n.ToBytesAppending())

	// Expanding the prepended form yields the pad nibble first.
	require.Equal(t, Nibbles{0, 0xa, 0xb, 0xc}, FromBytes(n.ToBytesPrepending()))
	require.Equal(t, n, FromBytes(n.ToBytesPrepending()).Drop(1))
	require.Equal(t, n, FromBytes(n.ToBytesAppending()).Take(3))
}

func TestHexString(t *testing.T) {
	n, err := FromHexString("0x1a2F")
	require.NoError(t, err)
	require.Equal(t, Nibbles{1, 0xa, 2, 0xf}, n)
	require.Equal(t, "1a2f", n.String())

	_, err = FromHexString("12z")
	require.ErrorIs(t, err, ErrInvalidNibble)

	empty, err := FromHexString("")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestPrefixOps(t *testing.T) {
	n := MustFromHexString("12345")
	assert.True(t, n.StartsWith(nil))
	assert.True(t, n.StartsWith(MustFromHexString("123")))
	assert.True(t, n.StartsWith(n))
	assert.False(t, n.StartsWith(MustFromHexString("124")))
	assert.False(t, n.StartsWith(MustFromHexString("123456")))

	assert.Equal(t, MustFromHexString("12"), n.Take(2))
	assert.Equal(t, MustFromHexString("345"), n.Drop(2))
	assert.Equal(t, n, n.Take(10))
	assert.Empty(t, n.Drop(10))

	assert.Equal(t, 3, CommonPrefix(n, MustFromHexString("1239")))
	assert.Equal(t, 0, CommonPrefix(n, nil))
	assert.Equal(t, MustFromHexString("12345a"), Append(n, 0xa))
	assert.Equal(t, MustFromHexString("1234512"), Concat(n, n.Take(2)))

	// Take must not let appends clobber the source.
	head := n.Take(2)
	_ = append(head, 0xf)
	assert.Equal(t, Nibble(3), n[2])
}

func TestCompare(t *testing.T) {
	keys := []Nibbles{
		MustFromHexString("2"),
		MustFromHexString("13"),
		MustFromHexString(""),
		MustFromHexString("1"),
		MustFromHexString("12"),
		MustFromHexString("120"),
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Compare(keys[j]) < 0 })

	var got []string
	for _, k := range keys {
		got = append(got, k.String())
	}
	require.Equal(t, []string{"", "1", "12", "120", "13", "2"}, got)
	require.True(t, MustFromHexString("12").Equal(Nibbles{1, 2}))
	require.Zero(t, MustFromHexString("abc").Compare(MustFromHexString("abc")))
}
