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
	"bytes"
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/crypto"
	"github.com/LimeChain/Fruzhin-sub001/log"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	mapset "github.com/deckarep/golang-set/v2"
)

// BuildTrie reconstructs the partial trie committed to by root from a set of
// encoded proof nodes, hashing them with Blake2b-256. The nodes may come in
// any order. Children referenced by the root but absent from the proof are
// dropped from their parent.
//
// 根据证明节点重建部分 trie。证明中缺少的引用子节点会被剪除。
func BuildTrie(proof [][]byte, root common.Hash) (*Trie, error) {
	return buildTrie(proof, root, crypto.Blake2bHashFunc, false)
}

// BuildTrieWithHashFunc is BuildTrie with a custom digest function used to
// match proof nodes against the root and against child references.
func BuildTrieWithHashFunc(proof [][]byte, root common.Hash, hash crypto.HashFunc) (*Trie, error) {
	return buildTrie(proof, root, hash, false)
}

// BuildTrieStrict is BuildTrie that fails with a ProofChildUnresolvedError
// instead of pruning a reference the proof does not resolve.
func BuildTrieStrict(proof [][]byte, root common.Hash) (*Trie, error) {
	return buildTrie(proof, root, crypto.Blake2bHashFunc, true)
}

func buildTrie(proof [][]byte, root common.Hash, hash crypto.HashFunc, strict bool) (*Trie, error) {
	if len(proof) == 0 {
		return nil, ErrEmptyProof
	}
	var (
		digests  = make(map[common.Hash][]byte, len(proof))
		unused   = mapset.NewThreadUnsafeSet[common.Hash]()
		rootNode *node.Node
	)
	for i, enc := range proof {
		digest := hash(enc)
		// Root already found or not the root: keep it for child lookups.
		if rootNode != nil || digest != root {
			digests[digest] = enc
			unused.Add(digest)
			continue
		}
		n, err := node.Decode(enc)
		if err != nil {
			return nil, fmt.Errorf("proof node %d: %w", i, err)
		}
		n.MarkDirty()
		rootNode = n
	}
	if rootNode == nil {
		return nil, &RootNotFoundError{Root: root}
	}
	t := NewFromRoot(rootNode, node.V0)
	l := &proofLoader{trie: t, digests: digests, unused: unused, strict: strict}
	if err := l.load(rootNode, nil); err != nil {
		return nil, err
	}
	t.unused = unused
	if l.pruned > 0 || unused.Cardinality() > 0 {
		log.Debug("Built trie from proof", "root", root, "nodes", len(proof), "pruned", l.pruned, "unused", unused.Cardinality())
	}
	return t, nil
}

// proofLoader resolves the reference children of a proof trie against the
// digests of the proof nodes.
type proofLoader struct {
	trie    *Trie
	digests map[common.Hash][]byte
	unused  mapset.Set[common.Hash]
	strict  bool
	pruned  int
}

// load resolves every child of n recursively. path is the key of n up to,
// but excluding, its partial key.
func (l *proofLoader) load(n *node.Node, path nibble.Nibbles) error {
	l.resolveValue(n)

	key := nibble.Concat(path, n.PartialKey)
	for i := range n.Children {
		c := n.Children[i]
		switch c.Kind() {
		case node.ChildNode:
			child := c.Node()
			child.MarkDirty()
			before := child.Descendants
			if err := l.load(child, nibble.Append(key, nibble.Nibble(i))); err != nil {
				return err
			}
			// The slot already points at child, so SetChild sees no
			// weight change; apply what pruning removed below it.
			n.Descendants += child.Descendants - before
			n.MarkDirty()

		case node.ChildReference:
			digest := common.BytesToHash(c.Reference())
			enc, ok := l.digests[digest]
			if !ok {
				if l.strict {
					return &ProofChildUnresolvedError{Path: key, Index: i, Merkle: c.Reference()}
				}
				n.SetChild(i, node.Child{})
				l.pruned++
				continue
			}
			child, err := node.Decode(enc)
			if err != nil {
				return fmt.Errorf("decoding child node for hash digest %x: %w", digest, err)
			}
			l.unused.Remove(digest)
			child.MarkDirty()
			if err := l.load(child, nibble.Append(key, nibble.Nibble(i))); err != nil {
				return err
			}
			n.SetChild(i, node.NodeChild(child))
		}
	}
	return nil
}

// resolveValue records the preimage of a hashed storage value when the proof
// carries it.
func (l *proofLoader) resolveValue(n *node.Node) {
	if !n.HashedValue {
		return
	}
	digest := common.BytesToHash(n.Value)
	if value, ok := l.digests[digest]; ok {
		l.trie.preimages[digest] = value
		l.unused.Remove(digest)
	}
}

// Verify reports whether the proof trie holds value under key. An empty value
// only checks that the key is present. A key absent from the trie yields
// ErrKeyNotFound.
func Verify(t *Trie, key, value []byte) (bool, error) {
	return VerifyNibbles(t, nibble.FromBytes(key), value)
}

// VerifyNibbles is Verify for a key given as nibbles.
func VerifyNibbles(t *Trie, key nibble.Nibbles, value []byte) (bool, error) {
	got, found, err := t.GetNibbles(key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, ErrKeyNotFound
	}
	if len(value) == 0 {
		return true, nil
	}
	return bytes.Equal(got, value), nil
}

// VerifyProof builds the trie committed to by root from proof and verifies
// key and value against it.
func VerifyProof(proof [][]byte, root common.Hash, key, value []byte) (bool, error) {
	t, err := BuildTrie(proof, root)
	if err != nil {
		return false, err
	}
	return Verify(t, key, value)
}
