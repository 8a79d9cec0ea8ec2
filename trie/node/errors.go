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
	"errors"
	"fmt"
)

var (
	ErrHeaderTruncated       = errors.New("header truncated")
	ErrPartialKeyOverflow    = errors.New("partial key overflow")
	ErrPartialKeyTruncated   = errors.New("partial key truncated")
	ErrInvalidPadding        = errors.New("partial key padding nibble is not zero")
	ErrBitmapTruncated       = errors.New("children bitmap truncated")
	ErrEmptyBitmap           = errors.New("branch bitmap has no children")
	ErrStorageValueTruncated = errors.New("storage value truncated")
	ErrChildTruncated        = errors.New("child truncated")
	ErrChildTooLarge         = errors.New("child merkle value too large")
	ErrTrailingBytes         = errors.New("trailing bytes after node")
	ErrCompactEncoding       = errors.New("compact proof encoding is not supported")

	// ErrNodeEncoding is returned when encoding a node that has a partial key
	// but neither a storage value nor children. Only the empty trie root may
	// hold no data, and it has no partial key.
	ErrNodeEncoding = errors.New("node has a partial key but no value and no children")

	// ErrHashedValueLength is returned when a node flagged as holding a hashed
	// value does not carry exactly 32 bytes.
	ErrHashedValueLength = errors.New("hashed storage value must be 32 bytes")
)

// UnknownVariantError is returned when a header byte matches no node variant.
type UnknownVariantError struct {
	Header byte
}

func (err *UnknownVariantError) Error() string {
	return fmt.Sprintf("node variant is unknown for header byte %08b", err.Header)
}

// DecodeError describes where decoding a node failed. Kind is one of the Err
// sentinels of this package or an *UnknownVariantError; Err is the lower level
// cause, if any. Both take part in errors.Is and errors.As.
type DecodeError struct {
	Kind   error
	Offset int      // offset into the outermost buffer
	Path   []string // child indices leading to the failing inline node
	Err    error
}

func (err *DecodeError) Error() string {
	msg := fmt.Sprintf("trie node decode: %v at offset %d", err.Kind, err.Offset)
	if len(err.Path) > 0 {
		msg += fmt.Sprintf(" (child path %v)", err.Path)
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *DecodeError) Unwrap() []error {
	if err.Err == nil {
		return []error{err.Kind}
	}
	return []error{err.Kind, err.Err}
}

// wrapChild records the child index an inline decode failure happened under.
func wrapChild(err error, index int) error {
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		decErr.Path = append([]string{indices[index]}, decErr.Path...)
		return decErr
	}
	return err
}
