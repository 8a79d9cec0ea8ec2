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

package trie

import (
	"errors"
	"sync"

	"github.com/LimeChain/Fruzhin-sub001/trie/node"
)

// parallelHashThreshold is the number of modifications since the last hash
// above which the root's subtrees are hashed concurrently.
const parallelHashThreshold = 100

// hasher computes the merkle values of a node graph, filling the caches of
// every node it visits.
type hasher struct {
	parallel bool // hash the subtrees below the node on separate goroutines
}

func newHasher(parallel bool) *hasher {
	return &hasher{parallel: parallel}
}

// hash returns the merkle value of n.
func (h *hasher) hash(n *node.Node, isRoot bool) ([]byte, error) {
	if h.parallel {
		if err := h.hashChildren(n); err != nil {
			return nil, err
		}
	}
	return n.MerkleValue(isRoot)
}

// hashChildren computes the merkle values of the decoded children of n, one
// goroutine per child. Subtrees share no nodes so their caches are written
// independently.
func (h *hasher) hashChildren(n *node.Node) error {
	var (
		wg   sync.WaitGroup
		errs [node.ChildrenCapacity]error
	)
	for i := range n.Children {
		child := n.Children[i].Node()
		if child == nil {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = child.MerkleValue(false)
		}(i)
	}
	wg.Wait()
	return errors.Join(errs[:]...)
}
