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
	"encoding/binary"
	"errors"
	"io"
	"math/bits"
)

const (
	singleByteLimit = 1 << 6
	twoByteLimit    = 1 << 14
	fourByteLimit   = 1 << 30
)

var (
	// ErrCanonCompact is returned for a compact integer that is not encoded in
	// its shortest form.
	ErrCanonCompact = errors.New("scale: non-canonical compact integer")

	// ErrCompactOverflow is returned for big-integer compacts wider than 64 bits.
	ErrCompactOverflow = errors.New("scale: compact integer overflows uint64")

	// ErrValueTooLarge is returned when a decoded length prefix exceeds the
	// remaining input.
	ErrValueTooLarge = errors.New("scale: value size exceeds available input")
)

// CompactSize returns the encoded size of v as a compact integer.
func CompactSize(v uint64) int {
	switch {
	case v < singleByteLimit:
		return 1
	case v < twoByteLimit:
		return 2
	case v < fourByteLimit:
		return 4
	default:
		return 1 + bytesize(v)
	}
}

// AppendCompact appends the compact encoding of v to dst.
func AppendCompact(dst []byte, v uint64) []byte {
	switch {
	case v < singleByteLimit:
		return append(dst, byte(v<<2))
	case v < twoByteLimit:
		return binary.LittleEndian.AppendUint16(dst, uint16(v<<2|0b01))
	case v < fourByteLimit:
		return binary.LittleEndian.AppendUint32(dst, uint32(v<<2|0b10))
	default:
		n := bytesize(v)
		dst = append(dst, byte(n-4)<<2|0b11)
		for i := 0; i < n; i++ {
			dst = append(dst, byte(v>>(8*i)))
		}
		return dst
	}
}

// EncodeCompact returns the compact encoding of v.
func EncodeCompact(v uint64) []byte {
	return AppendCompact(make([]byte, 0, CompactSize(v)), v)
}

// SplitCompact decodes a compact integer from the start of b and returns the
// remaining input.
func SplitCompact(b []byte) (v uint64, rest []byte, err error) {
	if len(b) == 0 {
		return 0, b, io.ErrUnexpectedEOF
	}
	switch b[0] & 0b11 {
	case 0b00:
		return uint64(b[0] >> 2), b[1:], nil
	case 0b01:
		if len(b) < 2 {
			return 0, b, io.ErrUnexpectedEOF
		}
		v = uint64(binary.LittleEndian.Uint16(b) >> 2)
		if v < singleByteLimit {
			return 0, b, ErrCanonCompact
		}
		return v, b[2:], nil
	case 0b10:
		if len(b) < 4 {
			return 0, b, io.ErrUnexpectedEOF
		}
		v = uint64(binary.LittleEndian.Uint32(b) >> 2)
		if v < twoByteLimit {
			return 0, b, ErrCanonCompact
		}
		return v, b[4:], nil
	default:
		n := int(b[0]>>2) + 4
		if n > 8 {
			return 0, b, ErrCompactOverflow
		}
		if len(b) < 1+n {
			return 0, b, io.ErrUnexpectedEOF
		}
		for i := 0; i < n; i++ {
			v |= uint64(b[1+i]) << (8 * i)
		}
		// The top byte must be set, and four byte values belong in mode 0b10.
		if b[n] == 0 || v < fourByteLimit {
			return 0, b, ErrCanonCompact
		}
		return v, b[1+n:], nil
	}
}

// AppendBytes appends the length-prefixed encoding of content to dst.
func AppendBytes(dst, content []byte) []byte {
	dst = AppendCompact(dst, uint64(len(content)))
	return append(dst, content...)
}

// EncodeBytes returns the length-prefixed encoding of content.
func EncodeBytes(content []byte) []byte {
	return AppendBytes(make([]byte, 0, BytesSize(content)), content)
}

// BytesSize returns the size of the length-prefixed encoding of content.
func BytesSize(content []byte) int {
	return CompactSize(uint64(len(content))) + len(content)
}

// SplitBytes decodes a length-prefixed byte string from the start of b. The
// returned content aliases b.
func SplitBytes(b []byte) (content, rest []byte, err error) {
	n, rest, err := SplitCompact(b)
	if err != nil {
		return nil, b, err
	}
	if n > uint64(len(rest)) {
		return nil, b, ErrValueTooLarge
	}
	return rest[:n], rest[n:], nil
}

// bytesize returns the minimum number of bytes needed to hold v.
func bytesize(v uint64) int {
	return (bits.Len64(v) + 7) / 8
}
