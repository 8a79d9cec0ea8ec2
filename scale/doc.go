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

/*
Package scale implements the subset of the SCALE serialization format used by
the trie node codec: compact unsigned integers and length-prefixed byte
strings.

# Compact integers

A compact integer stores its encoding mode in the two least significant bits of
the first byte:

	0b00  single byte,  values 0 ..= 2^6-1   (v << 2)
	0b01  two bytes,    values 2^6 ..= 2^14-1 (v << 2 | 1, little endian)
	0b10  four bytes,   values 2^14 ..= 2^30-1 (v << 2 | 2, little endian)
	0b11  big integer,  upper six bits hold (byte count - 4), the value follows
	      little endian in that many bytes

Only canonical encodings are accepted by the decoder: a value must use the
smallest mode able to hold it, and big integers carry no trailing zero bytes.

# Byte strings

A byte string is its length as a compact integer followed by the raw bytes.
Storage values and child references inside trie nodes use this form.

紧凑整数（compact）编码是 SCALE 中最常用的长度前缀格式。
*/
package scale
