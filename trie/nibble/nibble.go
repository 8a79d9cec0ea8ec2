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

// Package nibble implements 4-bit digits and the nibble paths used to address
// nodes in a radix-16 trie.
package nibble

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidNibble is returned when a value outside [0,15] or a character that
// is not a hex digit is converted to a nibble.
var ErrInvalidNibble = errors.New("invalid nibble")

// Nibble is a single 4-bit digit.
type Nibble uint8

// Max is the largest nibble value.
const Max Nibble = 15

// FromInt converts v to a nibble.
func FromInt(v int) (Nibble, error) {
	if v < 0 || v > int(Max) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidNibble, v)
	}
	return Nibble(v), nil
}

// FromHexDigit converts a single hex character (either case) to a nibble.
func FromHexDigit(c byte) (Nibble, error) {
	switch {
	case c >= '0' && c <= '9':
		return Nibble(c - '0'), nil
	case c >= 'a' && c <= 'f':
		return Nibble(c - 'a' + 10), nil
	case c >= 'A' && c <= 'F':
		return Nibble(c - 'A' + 10), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidNibble, c)
}

// HexDigit returns the lower case hex character of n.
func (n Nibble) HexDigit() byte {
	return "0123456789abcdef"[n&0x0f]
}

// Nibbles is a sequence of nibbles. Methods never modify the receiver; the
// ones returning sub-sequences may share its backing array.
type Nibbles []Nibble

// FromBytes expands each byte of b into two nibbles, high nibble first.
func FromBytes(b []byte) Nibbles {
	n := make(Nibbles, len(b)*2)
	for i, c := range b {
		n[i*2] = Nibble(c >> 4)
		n[i*2+1] = Nibble(c & 0x0f)
	}
	return n
}

// FromHexString parses a string of hex digits, one nibble per character. An
// optional 0x prefix is ignored.
func FromHexString(s string) (Nibbles, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	n := make(Nibbles, len(s))
	for i := 0; i < len(s); i++ {
		v, err := FromHexDigit(s[i])
		if err != nil {
			return nil, err
		}
		n[i] = v
	}
	return n, nil
}

// MustFromHexString is like FromHexString but panics on malformed input. It is
// meant for constants and tests.
func MustFromHexString(s string) Nibbles {
	n, err := FromHexString(s)
	if err != nil {
		panic(err)
	}
	return n
}

// ToBytesPrepending packs n into bytes high nibble first. An odd-length
// sequence gets a zero nibble in front; this is the partial key layout.
func (n Nibbles) ToBytesPrepending() []byte {
	out := make([]byte, (len(n)+1)/2)
	src := n
	if len(n)%2 == 1 {
		out[0] = byte(n[0])
		src = n[1:]
		pack(src, out[1:])
		return out
	}
	pack(src, out)
	return out
}

// ToBytesAppending packs n into bytes high nibble first. An odd-length
// sequence gets a zero nibble at the end.
func (n Nibbles) ToBytesAppending() []byte {
	out := make([]byte, (len(n)+1)/2)
	even := len(n) &^ 1
	pack(n[:even], out)
	if even != len(n) {
		out[len(out)-1] = byte(n[even]) << 4
	}
	return out
}

// ToBytes packs an even-length sequence into bytes. It reports false for odd
// lengths.
func (n Nibbles) ToBytes() ([]byte, bool) {
	if len(n)%2 != 0 {
		return nil, false
	}
	out := make([]byte, len(n)/2)
	pack(n, out)
	return out, true
}

func pack(n Nibbles, out []byte) {
	for bi, ni := 0, 0; ni < len(n); bi, ni = bi+1, ni+2 {
		out[bi] = byte(n[ni])<<4 | byte(n[ni+1])
	}
}

// StartsWith reports whether prefix is a prefix of n.
func (n Nibbles) StartsWith(prefix Nibbles) bool {
	return len(n) >= len(prefix) && CommonPrefix(n, prefix) == len(prefix)
}

// Take returns the first count nibbles, or all of them if n is shorter.
func (n Nibbles) Take(count int) Nibbles {
	if count > len(n) {
		count = len(n)
	}
	return n[:count:count]
}

// Drop returns n without its first count nibbles.
func (n Nibbles) Drop(count int) Nibbles {
	if count > len(n) {
		count = len(n)
	}
	return n[count:]
}

// Compare orders nibble sequences lexicographically. A proper prefix sorts
// before any of its extensions.
func (n Nibbles) Compare(other Nibbles) int {
	l := min(len(n), len(other))
	for i := 0; i < l; i++ {
		switch {
		case n[i] < other[i]:
			return -1
		case n[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(n) < len(other):
		return -1
	case len(n) > len(other):
		return 1
	}
	return 0
}

// Equal reports whether both sequences hold the same nibbles.
func (n Nibbles) Equal(other Nibbles) bool {
	return len(n) == len(other) && n.Compare(other) == 0
}

// Copy returns a copy of n that does not share memory with it.
func (n Nibbles) Copy() Nibbles {
	if n == nil {
		return nil
	}
	return append(make(Nibbles, 0, len(n)), n...)
}

// String returns the sequence as hex digits, one per nibble.
func (n Nibbles) String() string {
	var sb strings.Builder
	sb.Grow(len(n))
	for _, v := range n {
		sb.WriteByte(v.HexDigit())
	}
	return sb.String()
}

// CommonPrefix returns the length of the longest common prefix of a and b.
func CommonPrefix(a, b Nibbles) int {
	var i, length = 0, len(a)
	if len(b) < length {
		length = len(b)
	}
	for ; i < length; i++ {
		if a[i] != b[i] {
			break
		}
	}
	return i
}

// Concat joins the given sequences into a newly allocated one.
func Concat(parts ...Nibbles) Nibbles {
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	out := make(Nibbles, 0, size)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Append returns prefix followed by the given nibbles in a fresh slice.
func Append(prefix Nibbles, ns ...Nibble) Nibbles {
	return Concat(prefix, ns)
}
