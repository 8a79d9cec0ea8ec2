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

package structure

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/LimeChain/Fruzhin-sub001/crypto"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	"github.com/stretchr/testify/require"
)

func hexKey(s string) nibble.Nibbles { return nibble.MustFromHexString(s) }

func fullKeys[T any](t *Trie[T]) []string {
	var keys []string
	for _, idx := range t.AllIndices() {
		keys = append(keys, t.FullKey(idx).String())
	}
	return keys
}

func TestInsertIntoEmpty(t *testing.T) {
	tr := New[string]()
	require.True(t, tr.IsEmpty())
	_, ok := tr.RootIndex()
	require.False(t, ok)

	idx, err := tr.Insert(hexKey("12"), "a")
	require.NoError(t, err)
	require.Equal(t, 1, tr.Len())
	require.True(t, tr.IsRoot(idx))
	require.Equal(t, hexKey("12"), tr.PartialKey(idx))
	require.Equal(t, "a", *tr.UserData(idx))
	require.True(t, tr.HasStorageValue(idx))
}

func TestInsertCreatesBranch(t *testing.T) {
	tr := New[string]()
	a, err := tr.Insert(hexKey("12"), "a")
	require.NoError(t, err)

	v, ok := tr.Node(hexKey("13")).(*Vacant[string])
	require.True(t, ok)
	p, err := v.PrepareInsert()
	require.NoError(t, err)
	require.True(t, p.IsTwo())
	b, err := p.Insert("b")
	require.NoError(t, err)

	require.Equal(t, 3, tr.Len())
	root, _ := tr.RootIndex()
	require.False(t, tr.HasStorageValue(root))
	require.Equal(t, hexKey("1"), tr.PartialKey(root))
	require.Empty(t, tr.PartialKey(a))
	require.Empty(t, tr.PartialKey(b))

	child, ok := tr.Child(root, 2)
	require.True(t, ok)
	require.Equal(t, a, child)
	parent, nib, ok := tr.Parent(b)
	require.True(t, ok)
	require.Equal(t, root, parent)
	require.Equal(t, nibble.Nibble(3), nib)

	require.Equal(t, hexKey("12"), tr.FullKey(a))
	require.Equal(t, hexKey("13"), tr.FullKey(b))
	require.Equal(t, []NodeIndex{root}, tr.NodePath(b))
}

func TestInsertBetweenParentAndChild(t *testing.T) {
	tr := New[int]()
	deep, err := tr.Insert(hexKey("1234"), 1)
	require.NoError(t, err)

	e := tr.Node(hexKey("12"))
	v := e.(*Vacant[int])
	_, hasAncestor := v.ClosestAncestor()
	require.False(t, hasAncestor)
	p, err := v.PrepareInsert()
	require.NoError(t, err)
	require.False(t, p.IsTwo())
	mid, err := p.Insert(2)
	require.NoError(t, err)

	require.True(t, tr.IsRoot(mid))
	require.Equal(t, hexKey("4"), tr.PartialKey(deep))
	child, ok := tr.Child(mid, 3)
	require.True(t, ok)
	require.Equal(t, deep, child)
	require.Equal(t, hexKey("1234"), tr.FullKey(deep))
}

func TestInsertUnderAncestor(t *testing.T) {
	tr := New[int]()
	_, err := tr.Insert(hexKey("1"), 0)
	require.NoError(t, err)
	_, err = tr.Insert(hexKey("1a"), 0)
	require.NoError(t, err)
	_, err = tr.Insert(hexKey("1abc"), 0)
	require.NoError(t, err)
	_, err = tr.Insert(hexKey("1abd"), 0)
	require.NoError(t, err)
	_, err = tr.Insert(hexKey("1f"), 0)
	require.NoError(t, err)

	require.Equal(t, []string{"1", "1a", "1ab", "1abc", "1abd", "1f"}, fullKeys(tr))
	idx, ok := tr.ExistingNode(hexKey("1ab"))
	require.True(t, ok)
	require.False(t, tr.HasStorageValue(idx))

	_, ok = tr.ExistingNode(hexKey("1abe"))
	require.False(t, ok)
	v := tr.Node(hexKey("1abe")).(*Vacant[int])
	anc, ok := v.ClosestAncestor()
	require.True(t, ok)
	require.Equal(t, idx, anc)
}

func TestFoundEntry(t *testing.T) {
	tr := New[int]()
	_, err := tr.Insert(hexKey("12"), 1)
	require.NoError(t, err)
	_, err = tr.Insert(hexKey("13"), 1)
	require.NoError(t, err)

	f, ok := tr.Node(hexKey("1")).(*Found)
	require.True(t, ok)
	require.False(t, f.HasStorageValue)

	require.NoError(t, tr.ConvertToStorageNode(f.Index))
	require.True(t, tr.HasStorageValue(f.Index))
	require.ErrorIs(t, tr.ConvertToStorageNode(f.Index), ErrHasStorageValue)
}

func TestStaleEntry(t *testing.T) {
	tr := New[int]()
	v := tr.Node(hexKey("12")).(*Vacant[int])
	_, err := tr.Insert(hexKey("34"), 1)
	require.NoError(t, err)
	_, err = v.PrepareInsert()
	require.ErrorIs(t, err, ErrStaleEntry)
}

func TestClearStorageValueMerges(t *testing.T) {
	tr := New[int]()
	a, _ := tr.Insert(hexKey("12"), 1)
	b, _ := tr.Insert(hexKey("13"), 2)
	require.Equal(t, 3, tr.Len())

	require.NoError(t, tr.ClearStorageValue(a))
	require.False(t, tr.Contains(a))
	require.Equal(t, 1, tr.Len())
	require.True(t, tr.IsRoot(b))
	require.Equal(t, hexKey("13"), tr.PartialKey(b))
	require.Equal(t, 2, *tr.UserData(b))

	require.ErrorIs(t, tr.ClearStorageValue(a), ErrStaleIndex)
	require.NoError(t, tr.ClearStorageValue(b))
	require.True(t, tr.IsEmpty())
}

func TestClearStorageValueWithOneChild(t *testing.T) {
	tr := New[int]()
	top, _ := tr.Insert(hexKey("1"), 1)
	low, _ := tr.Insert(hexKey("123"), 2)

	require.NoError(t, tr.ClearStorageValue(top))
	require.Equal(t, 1, tr.Len())
	require.True(t, tr.IsRoot(low))
	require.Equal(t, hexKey("123"), tr.PartialKey(low))
	require.ErrorIs(t, tr.ClearStorageValue(top), ErrStaleIndex)
}

func TestClearStorageValueKeepsBranch(t *testing.T) {
	tr := New[int]()
	top, _ := tr.Insert(hexKey("1"), 1)
	tr.Insert(hexKey("12"), 2)
	tr.Insert(hexKey("13"), 3)

	require.NoError(t, tr.ClearStorageValue(top))
	require.True(t, tr.Contains(top))
	require.False(t, tr.HasStorageValue(top))
	require.ErrorIs(t, tr.ClearStorageValue(top), ErrNoStorageValue)
}

func TestGenerationalIndices(t *testing.T) {
	tr := New[int]()
	a, _ := tr.Insert(hexKey("ab"), 1)
	require.NoError(t, tr.ClearStorageValue(a))

	b, _ := tr.Insert(hexKey("cd"), 2)
	require.Equal(t, a.slot, b.slot, "slot is reused")
	require.NotEqual(t, a, b)
	require.False(t, tr.Contains(a))
	require.True(t, tr.Contains(b))
	require.Panics(t, func() { tr.PartialKey(a) })
	require.False(t, tr.Contains(NodeIndex{}))
}

func TestRemoveSubtree(t *testing.T) {
	tr := New[int]()
	for _, k := range []string{"12", "13", "20", "125"} {
		_, err := tr.Insert(hexKey(k), 0)
		require.NoError(t, err)
	}
	idx, ok := tr.ExistingNode(hexKey("12"))
	require.True(t, ok)
	require.NoError(t, tr.Remove(idx))
	require.Equal(t, []string{"", "13", "20"}, fullKeys(tr))
	// The branch "1" lost a child and merged into "13".
	_, ok = tr.ExistingNode(hexKey("1"))
	require.False(t, ok)
}

func TestRemovePrefix(t *testing.T) {
	tr := New[int]()
	for _, k := range []string{"12", "13", "20", "1345"} {
		_, err := tr.Insert(hexKey(k), 0)
		require.NoError(t, err)
	}
	require.Equal(t, 3, tr.RemovePrefix(hexKey("1")))
	require.Equal(t, []string{"20"}, fullKeys(tr))

	// A prefix ending inside a partial key.
	tr = New[int]()
	tr.Insert(hexKey("abcd"), 0)
	tr.Insert(hexKey("abce"), 0)
	tr.Insert(hexKey("f0"), 0)
	require.Equal(t, 2, tr.RemovePrefix(hexKey("ab")))
	require.Equal(t, []string{"f0"}, fullKeys(tr))

	require.Equal(t, 0, tr.RemovePrefix(hexKey("77")))
	require.Equal(t, 1, tr.RemovePrefix(nil))
	require.True(t, tr.IsEmpty())
}

func TestLexicographicOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	tr := New[int]()
	want := map[string]bool{}
	for i := 0; i < 200; i++ {
		k := make([]byte, 1+rnd.Intn(3))
		rnd.Read(k)
		key := nibble.FromBytes(k)
		_, err := tr.Insert(key, i)
		require.NoError(t, err)
		want[key.String()] = true
	}
	keys := fullKeys(tr)
	for i := 1; i < len(keys); i++ {
		a, b := hexKey(keys[i-1]), hexKey(keys[i])
		require.Negative(t, a.Compare(b), "%s before %s", keys[i-1], keys[i])
	}
	stored := 0
	for _, idx := range tr.AllIndices() {
		if tr.HasStorageValue(idx) {
			stored++
			require.True(t, want[tr.FullKey(idx).String()])
		}
	}
	require.Equal(t, len(want), stored)
}

func TestStructurallyEquals(t *testing.T) {
	keys := []string{"12", "13", "20", "1345", "2"}
	a, b := New[int](), New[string]()
	for i := range keys {
		a.Insert(hexKey(keys[i]), i)
		b.Insert(hexKey(keys[len(keys)-1-i]), keys[i])
	}
	require.True(t, StructurallyEquals(a, b))

	b.Insert(hexKey("21"), "x")
	require.False(t, StructurallyEquals(a, b))
}

func TestComputeMerkleValues(t *testing.T) {
	empty := New[NodeData]()
	require.NoError(t, ComputeMerkleValues(empty, node.V0))
	require.Equal(t, node.EmptyRootHash.Bytes(), RootMerkle(empty))

	single, err := FromEntries([]KeyValue{{Key: []byte{0x12}, Value: []byte{1, 2, 3}}})
	require.NoError(t, err)
	require.NoError(t, ComputeMerkleValues(single, node.V0))
	leafEnc := []byte{0x42, 0x12, 0x0c, 1, 2, 3}
	require.Equal(t, crypto.Blake2b256Bytes(leafEnc), RootMerkle(single))
}

func TestMerkleOrderIndependent(t *testing.T) {
	entries := []KeyValue{
		{Key: []byte("alpha"), Value: []byte("1")},
		{Key: []byte("alphabet"), Value: bytes.Repeat([]byte("2"), 50)},
		{Key: []byte("beta"), Value: []byte{}},
		{Key: []byte("gamma"), Value: []byte("3")},
	}
	a, err := FromEntries(entries)
	require.NoError(t, err)
	reversed := make([]KeyValue, len(entries))
	for i := range entries {
		reversed[i] = entries[len(entries)-1-i]
	}
	b, err := FromEntries(reversed)
	require.NoError(t, err)

	for _, v := range []node.StateVersion{node.V0, node.V1} {
		require.NoError(t, ComputeMerkleValues(a, v))
		require.NoError(t, ComputeMerkleValues(b, v))
		require.Equal(t, RootMerkle(a), RootMerkle(b))
	}
	require.NoError(t, ComputeMerkleValues(a, node.V0))
	v0 := RootMerkle(a)
	require.NoError(t, ComputeMerkleValues(a, node.V1))
	require.NotEqual(t, v0, RootMerkle(a), "the 50 byte value is hashed under V1")

	idx, ok := a.ExistingNode(nibble.FromBytes([]byte("alphabet")))
	require.True(t, ok)
	dec, err := DecodedNode(a, idx, node.V1)
	require.NoError(t, err)
	require.True(t, dec.HashedValue)

	got := StorageEntries(a)
	require.Len(t, got, 4)
	require.Equal(t, []byte("alpha"), got[0].Key)
	require.Equal(t, []byte("gamma"), got[3].Key)
}

func TestUpdateMerkleValues(t *testing.T) {
	tr, err := FromMap(map[string][]byte{"do": []byte("verb"), "dog": []byte("puppy"), "doge": []byte("coin")})
	require.NoError(t, err)
	require.NoError(t, ComputeMerkleValues(tr, node.V0))

	idx, ok := tr.ExistingNode(nibble.FromBytes([]byte("dog")))
	require.True(t, ok)
	tr.UserData(idx).Value = []byte("kitten")
	require.NoError(t, UpdateMerkleValues(tr, []NodeIndex{idx}, node.V0))
	partial := RootMerkle(tr)

	fresh, err := FromMap(map[string][]byte{"do": []byte("verb"), "dog": []byte("kitten"), "doge": []byte("coin")})
	require.NoError(t, err)
	require.NoError(t, ComputeMerkleValues(fresh, node.V0))
	require.Equal(t, RootMerkle(fresh), partial)
}
