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

package crypto

import (
	"sync"
	"testing"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/stretchr/testify/require"
)

func TestBlake2b256(t *testing.T) {
	// Digest of the empty trie node encoding, a single zero byte.
	want := common.HexToHash("0x03170a2e7597b7b7e3d84c05391d139a62b157e78786d8c082f29dcf4c111314")
	require.Equal(t, want, Blake2b256([]byte{0}))

	require.Equal(t, Blake2b256([]byte("hello world")), Blake2b256([]byte("hello "), []byte("world")))
	require.Equal(t, Blake2b256([]byte{0}).Bytes(), Blake2b256Bytes([]byte{0}))
}

func TestBlake2b256Concurrent(t *testing.T) {
	want := Blake2b256([]byte("substrate"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := Blake2b256([]byte("substrate")); got != want {
					t.Errorf("hash mismatch: %x != %x", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}
