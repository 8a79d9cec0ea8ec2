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

package main

import (
	"errors"
	"fmt"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/internal/flags"
	"github.com/LimeChain/Fruzhin-sub001/log"
	"github.com/LimeChain/Fruzhin-sub001/trie"
	"github.com/urfave/cli/v2"
)

var (
	proofRootFlag = &cli.StringFlag{
		Name:     "root",
		Usage:    "State root the proof is verified against (hex)",
		Required: true,
		Category: flags.TrieCategory,
	}
	proofKeyFlag = &cli.StringFlag{
		Name:     "key",
		Usage:    "Storage key to verify (hex)",
		Required: true,
		Category: flags.TrieCategory,
	}
	proofValueFlag = &cli.StringFlag{
		Name:     "value",
		Usage:    "Expected value (hex); only presence is checked if unset",
		Category: flags.TrieCategory,
	}
	strictFlag = &cli.BoolFlag{
		Name:     "strict",
		Usage:    "Fail on references the proof does not resolve instead of pruning them",
		Category: flags.TrieCategory,
	}

	verifyCommand = &cli.Command{
		Action:    verifyProof,
		Name:      "verify",
		Usage:     "Verify a storage proof",
		ArgsUsage: "<node>...",
		Flags:     []cli.Flag{proofRootFlag, proofKeyFlag, proofValueFlag, strictFlag},
		Description: `
The arguments are the hex encoded proof nodes in any order. The command
rebuilds the trie from them and checks the key against the expected value.`,
	}
)

func verifyProof(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("no proof nodes given")
	}
	proof := make([][]byte, ctx.NArg())
	for i, arg := range ctx.Args().Slice() {
		enc, err := common.ParseHex(arg)
		if err != nil {
			return fmt.Errorf("proof node %d: %w", i, err)
		}
		proof[i] = enc
	}
	rootBytes, err := common.ParseHex(ctx.String(proofRootFlag.Name))
	if err != nil || len(rootBytes) != common.HashLength {
		return fmt.Errorf("invalid root %q", ctx.String(proofRootFlag.Name))
	}
	key, err := common.ParseHex(ctx.String(proofKeyFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	value, err := common.ParseHex(ctx.String(proofValueFlag.Name))
	if err != nil {
		return fmt.Errorf("invalid value: %w", err)
	}
	build := trie.BuildTrie
	if ctx.Bool(strictFlag.Name) {
		build = trie.BuildTrieStrict
	}
	tr, err := build(proof, common.BytesToHash(rootBytes))
	if err != nil {
		return err
	}
	if unused := tr.UnusedProofDigests(); len(unused) > 0 {
		log.Warn("Proof carries unused nodes", "count", len(unused))
	}
	ok, err := trie.Verify(tr, key, value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("value mismatch for key 0x%x", key)
	}
	fmt.Println("proof valid")
	return nil
}
