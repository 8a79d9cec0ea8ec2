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
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/internal/flags"
	"github.com/LimeChain/Fruzhin-sub001/log"
	"github.com/LimeChain/Fruzhin-sub001/trie/nibble"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	"github.com/LimeChain/Fruzhin-sub001/triedb/disktrie"
	"github.com/urfave/cli/v2"
)

var (
	limitFlag = &cli.IntFlag{
		Name:     "limit",
		Usage:    "Maximum number of keys to print (0 = unlimited)",
		Value:    100,
		Category: flags.TrieCategory,
	}
	startFlag = &cli.StringFlag{
		Name:     "start",
		Usage:    "Resume after this key (hex nibbles)",
		Category: flags.TrieCategory,
	}
	baseRootFlag = &cli.StringFlag{
		Name:     "root",
		Usage:    "Root of the trie the imported entries are applied to (empty trie if unset)",
		Category: flags.TrieCategory,
	}

	getCommand = &cli.Command{
		Action:    getValue,
		Name:      "get",
		Usage:     "Print the value stored under a key",
		ArgsUsage: "<root> <key nibbles>",
	}
	keysCommand = &cli.Command{
		Action:    listKeys,
		Name:      "keys",
		Usage:     "List the keys starting with a prefix",
		ArgsUsage: "<root> [prefix nibbles]",
		Flags:     []cli.Flag{limitFlag, startFlag},
	}
	nextCommand = &cli.Command{
		Action:    nextKey,
		Name:      "next",
		Usage:     "Print the first key after the given one",
		ArgsUsage: "<root> <key nibbles>",
	}
	importCommand = &cli.Command{
		Action:    importEntries,
		Name:      "import",
		Usage:     "Apply the entries of a TOML file to a trie and persist it",
		ArgsUsage: "<file>",
		Flags:     []cli.Flag{baseRootFlag},
		Description: `
The import file holds a table of hex keys to hex values:

    [Entries]
    "0x12" = "0x0102"
    "0x13" = ""

An empty value deletes the key. The new root is printed on success.`,
	}
)

// parseRoot decodes a hex root. An empty string is the empty trie.
func parseRoot(s string) ([]byte, error) {
	if s == "" {
		return node.EmptyRootHash.Bytes(), nil
	}
	root, err := common.ParseHex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid root %q: %w", s, err)
	}
	return root, nil
}

// parseNibbles decodes hex digits, one per nibble.
func parseNibbles(s string) (nibble.Nibbles, error) {
	n, err := nibble.FromHexString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid key %q: %w", s, err)
	}
	return n, nil
}

func getValue(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("need root and key, got %d arguments", ctx.NArg())
	}
	root, err := parseRoot(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	key, err := parseNibbles(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	s, err := openStore(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	value, ok, err := s.db.GetByKey(root, key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("key %v not found", key)
	}
	fmt.Printf("0x%x\n", value)
	return nil
}

func listKeys(ctx *cli.Context) error {
	if ctx.NArg() < 1 || ctx.NArg() > 2 {
		return errors.New("need root and optional prefix")
	}
	root, err := parseRoot(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	prefix, err := parseNibbles(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	s, err := openStore(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	var keys []nibble.Nibbles
	if start := ctx.String(startFlag.Name); start != "" {
		startKey, err := parseNibbles(start)
		if err != nil {
			return err
		}
		keys, err = s.db.GetKeysWithPrefixPaged(root, prefix, ctx.Int(limitFlag.Name), startKey)
		if err != nil {
			return err
		}
	} else if keys, err = s.db.GetKeysWithPrefix(root, prefix, ctx.Int(limitFlag.Name)); err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Println(k)
	}
	return nil
}

func nextKey(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("need root and key, got %d arguments", ctx.NArg())
	}
	root, err := parseRoot(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	key, err := parseNibbles(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	s, err := openStore(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	next, ok, err := s.db.GetNextKey(root, key)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no key after %v", key)
	}
	fmt.Println(next)
	return nil
}

type importFile struct {
	Entries map[string]string
}

func loadImportFile(file string) (map[string][]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var content importFile
	if err := tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&content); err != nil {
		return nil, fmt.Errorf("%s, %w", file, err)
	}
	entries := make(map[string][]byte, len(content.Entries))
	for k, v := range content.Entries {
		key, err := common.ParseHex(k)
		if err != nil {
			return nil, fmt.Errorf("%s: key %q: %w", file, k, err)
		}
		value, err := common.ParseHex(v)
		if err != nil {
			return nil, fmt.Errorf("%s: value of %q: %w", file, k, err)
		}
		entries[string(key)] = value
	}
	return entries, nil
}

func importEntries(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need the import file")
	}
	entries, err := loadImportFile(ctx.Args().First())
	if err != nil {
		return err
	}
	base, err := parseRoot(ctx.String(baseRootFlag.Name))
	if err != nil {
		return err
	}
	s, err := openStore(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tr := disktrie.New(s.db, base, node.StateVersion(s.cfg.StateVersion))
	var upserts, deletes int
	for _, k := range keys {
		if len(entries[k]) == 0 {
			if _, err := tr.Delete([]byte(k)); err != nil {
				return err
			}
			deletes++
			continue
		}
		if err := tr.Upsert([]byte(k), entries[k]); err != nil {
			return err
		}
		upserts++
	}
	root, err := tr.PersistChanges()
	if err != nil {
		return err
	}
	log.Info("Imported trie entries", "upserts", upserts, "deletes", deletes, "root", fmt.Sprintf("0x%x", root))
	fmt.Printf("0x%x\n", root)
	return nil
}
