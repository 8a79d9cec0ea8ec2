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

import "fmt"

// MaxPartialKeyLength is the longest partial key, in nibbles, a header can
// describe.
const MaxPartialKeyLength = 65535

// Variant is the kind of a trie node as tagged in its header.
type Variant uint8

const (
	Empty Variant = iota
	Leaf
	Branch
	BranchWithValue
	LeafWithHashedValue
	BranchWithHashedValue
	CompactEncoding
)

type variantPattern struct {
	bits, mask byte
}

var patterns = [...]variantPattern{
	Empty:                 {0b00000000, 0b11111111},
	Leaf:                  {0b01000000, 0b11000000},
	Branch:                {0b10000000, 0b11000000},
	BranchWithValue:       {0b11000000, 0b11000000},
	LeafWithHashedValue:   {0b00100000, 0b11100000},
	BranchWithHashedValue: {0b00010000, 0b11110000},
	CompactEncoding:       {0b00000001, 0b11111111},
}

// decodeOrder lists the variants from the most to the least specific mask.
var decodeOrder = [...]Variant{
	Empty, CompactEncoding,
	BranchWithHashedValue,
	LeafWithHashedValue,
	Leaf, Branch, BranchWithValue,
}

var variantNames = [...]string{
	Empty:                 "empty",
	Leaf:                  "leaf",
	Branch:                "branch",
	BranchWithValue:       "branch with value",
	LeafWithHashedValue:   "leaf with hashed value",
	BranchWithHashedValue: "branch with hashed value",
	CompactEncoding:       "compact encoding",
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return fmt.Sprintf("variant(%d)", uint8(v))
}

// Bits returns the tag bits of v.
func (v Variant) Bits() byte { return patterns[v].bits }

// Mask returns the mask selecting the tag bits of v.
func (v Variant) Mask() byte { return patterns[v].mask }

// keyLenMask is the part of the first header byte holding the key length.
func (v Variant) keyLenMask() int { return int(^patterns[v].mask) }

// IsBranch reports whether nodes of this variant carry a children bitmap.
func (v Variant) IsBranch() bool {
	return v == Branch || v == BranchWithValue || v == BranchWithHashedValue
}

// HasValue reports whether nodes of this variant carry a storage value.
func (v Variant) HasValue() bool {
	return v == Leaf || v == LeafWithHashedValue || v == BranchWithValue || v == BranchWithHashedValue
}

// HashedValue reports whether the storage value is stored as its hash.
func (v Variant) HashedValue() bool {
	return v == LeafWithHashedValue || v == BranchWithHashedValue
}

// Header is a decoded node header.
type Header struct {
	Variant       Variant
	PartialKeyLen int
}

// DecodeHeader parses the header at the start of buf and returns it together
// with the number of bytes it occupies.
func DecodeHeader(buf []byte) (Header, int, error) {
	if len(buf) == 0 {
		return Header{}, 0, ErrHeaderTruncated
	}
	first := buf[0]
	variant, ok := matchVariant(first)
	if !ok {
		return Header{}, 0, &UnknownVariantError{Header: first}
	}
	lenMask := variant.keyLenMask()
	keyLen := int(first) & lenMask
	if lenMask == 0 || keyLen < lenMask {
		return Header{variant, keyLen}, 1, nil
	}
	for pos := 1; ; pos++ {
		if pos >= len(buf) {
			return Header{}, 0, ErrHeaderTruncated
		}
		next := buf[pos]
		keyLen += int(next)
		if keyLen > MaxPartialKeyLength {
			return Header{}, 0, ErrPartialKeyOverflow
		}
		if next < 255 {
			return Header{variant, keyLen}, pos + 1, nil
		}
	}
}

func matchVariant(b byte) (Variant, bool) {
	for _, v := range decodeOrder {
		p := patterns[v]
		if b&p.mask == p.bits {
			return v, true
		}
	}
	return 0, false
}

// AppendHeader appends the header of a node of the given variant and partial
// key length to dst.
func AppendHeader(dst []byte, v Variant, keyLen int) ([]byte, error) {
	if keyLen < 0 || keyLen > MaxPartialKeyLength {
		return dst, fmt.Errorf("%w: %d nibbles", ErrPartialKeyOverflow, keyLen)
	}
	lenMask := v.keyLenMask()
	if lenMask == 0 {
		if keyLen != 0 {
			return dst, fmt.Errorf("%w: %v node with %d nibble key", ErrNodeEncoding, v, keyLen)
		}
		return append(dst, v.Bits()), nil
	}
	if keyLen < lenMask {
		return append(dst, v.Bits()|byte(keyLen)), nil
	}
	dst = append(dst, v.Bits()|byte(lenMask))
	for rem := keyLen - lenMask; ; rem -= 255 {
		if rem < 255 {
			return append(dst, byte(rem)), nil
		}
		dst = append(dst, 255)
	}
}

// HeaderSize returns the number of bytes AppendHeader emits.
func HeaderSize(v Variant, keyLen int) int {
	lenMask := v.keyLenMask()
	if lenMask == 0 || keyLen < lenMask {
		return 1
	}
	return 2 + (keyLen-lenMask)/255
}
