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
	"os"
	"path/filepath"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/internal/flags"
	"github.com/LimeChain/Fruzhin-sub001/kvdb"
	"github.com/LimeChain/Fruzhin-sub001/kvdb/leveldb"
	"github.com/LimeChain/Fruzhin-sub001/kvdb/memorydb"
	"github.com/LimeChain/Fruzhin-sub001/kvdb/pebble"
	"github.com/LimeChain/Fruzhin-sub001/log"
	"github.com/LimeChain/Fruzhin-sub001/triedb"
	"github.com/gofrs/flock"
	"github.com/urfave/cli/v2"
)

// errDatadirUsed is returned when another process holds the data directory.
var errDatadirUsed = errors.New("datadir already used by another process")

var statsCommand = &cli.Command{
	Action:    showDBStats,
	Name:      "stats",
	Usage:     "Print key-value store and trie table statistics",
	ArgsUsage: " ",
}

var (
	pruneCommand = &cli.Command{
		Action:    pruneTries,
		Name:      "prune",
		Usage:     "Delete every trie record not reachable from the given roots",
		ArgsUsage: "<root> [root...]",
		Flags:     []cli.Flag{dropAllFlag},
		Description: `
The records of the given roots are kept, everything else in the node and
value tables is deleted and the tables are compacted. A root that is not in
the database aborts the run without deleting anything. With --all and no
roots both tables are dropped.`,
	}
	compactCommand = &cli.Command{
		Action:    compactTries,
		Name:      "compact",
		Usage:     "Compact the trie node and value tables",
		ArgsUsage: " ",
	}

	dropAllFlag = &cli.BoolFlag{
		Name:     "all",
		Usage:    "Drop every trie record when no root is given",
		Category: flags.StorageCategory,
	}
)

// store is an opened trie database with the resources backing it.
type store struct {
	cfg  trieConfig
	disk kvdb.KeyValueStore
	db   *triedb.Database
	lock *flock.Flock
}

// openStore opens the database configured by ctx.
func openStore(ctx *cli.Context, readonly bool) (*store, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, err
	}
	s := &store{cfg: cfg}
	reg := setupMetrics(cfg)

	if cfg.Engine == "memory" {
		s.disk = memorydb.New()
	} else {
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, err
		}
		// Lock the data directory to prevent concurrent use by another
		// instance.
		s.lock = flock.New(filepath.Join(cfg.DataDir, "LOCK"))
		if locked, err := s.lock.TryLock(); err != nil {
			return nil, err
		} else if !locked {
			return nil, errDatadirUsed
		}
		path := filepath.Join(cfg.DataDir, "triedata")
		switch cfg.Engine {
		case "pebble":
			s.disk, err = pebble.New(path, cfg.Cache, cfg.Handles, "trietool_db", readonly, reg)
		case "leveldb":
			s.disk, err = leveldb.New(path, cfg.Cache, cfg.Handles, "trietool_db", readonly, reg)
		default:
			err = fmt.Errorf("unknown database engine %q", cfg.Engine)
		}
		if err != nil {
			s.lock.Unlock()
			return nil, err
		}
	}
	s.db, err = triedb.New(s.disk, &triedb.Config{
		CleanCacheSize: cfg.CleanCache * 1024 * 1024,
		Namespace:      "trietool_triedb",
		Registerer:     reg,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	log.Debug("Opened trie database", "engine", cfg.Engine, "datadir", cfg.DataDir, "readonly", readonly)
	return s, nil
}

func (s *store) Close() {
	if s.db != nil {
		s.db.Close()
	}
	if err := s.disk.Close(); err != nil {
		log.Error("Failed to close database", "err", err)
	}
	if s.lock != nil {
		s.lock.Unlock()
	}
}

func showDBStats(ctx *cli.Context) error {
	s, err := openStore(ctx, true)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.disk.Stat()
	if err != nil {
		log.Warn("Failed to read database stats", "error", err)
	} else {
		fmt.Println(stats)
	}
	nodes, nodeSize, values, valueSize, err := triedb.InspectStorage(s.disk)
	if err != nil {
		return err
	}
	fmt.Printf("Trie nodes:  %d (%v)\n", nodes, common.StorageSize(nodeSize))
	fmt.Printf("Trie values: %d (%v)\n", values, common.StorageSize(valueSize))
	return nil
}

func pruneTries(ctx *cli.Context) error {
	if ctx.NArg() == 0 && !ctx.Bool(dropAllFlag.Name) {
		return errors.New("need the roots to keep, or --all to drop every trie")
	}
	keep := make([][]byte, 0, ctx.NArg())
	for _, arg := range ctx.Args().Slice() {
		root, err := parseRoot(arg)
		if err != nil {
			return err
		}
		keep = append(keep, root)
	}
	s, err := openStore(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.db.Prune(ctx.Context, keep)
	if err != nil {
		return err
	}
	fmt.Printf("Kept %d nodes, deleted %d nodes and %d values\n", stats.Reachable, stats.Nodes, stats.Values)
	return nil
}

func compactTries(ctx *cli.Context) error {
	s, err := openStore(ctx, false)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.db.Compact()
}
