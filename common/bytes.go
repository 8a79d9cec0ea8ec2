// Copyright 2014 The go-ethereum Authors
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

// Package common contains various helper functions.
package common

import (
	"encoding/hex"
	"errors"
	"strings"
)

var errOddHex = errors.New("hex string has odd length")

// FromHex returns the bytes represented by the hexadecimal string s.
// s may be prefixed with "0x". Malformed input yields nil.
func FromHex(s string) []byte {
	b, err := ParseHex(s)
	if err != nil {
		return nil
	}
	return b
}

// ParseHex is the checked variant of FromHex.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		return nil, errOddHex
	}
	return hex.DecodeString(s)
}

// Bytes2Hex returns the hexadecimal encoding of d, with a 0x prefix.
func Bytes2Hex(d []byte) string {
	return "0x" + hex.EncodeToString(d)
}

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)

	return
}
