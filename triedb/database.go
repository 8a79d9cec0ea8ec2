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

// Package triedb persists Substrate trie nodes in a key-value store, keyed by
// their merkle values, and answers key and prefix queries against any root
// committed to it.
package triedb

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/LimeChain/Fruzhin-sub001/common"
	"github.com/LimeChain/Fruzhin-sub001/kvdb"
	"github.com/LimeChain/Fruzhin-sub001/log"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	"github.com/VictoriaMetrics/fastcache"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// Config defines all necessary options for the trie database.
type Config struct {
	CleanCacheSize int                   // Maximum memory allowance (in bytes) for caching clean nodes
	Namespace      string                // Metrics namespace
	Registerer     prometheus.Registerer // Metrics registerer, nil disables metrics
}

// Defaults is the default setting for the trie database.
var Defaults = &Config{
	CleanCacheSize: 16 * 1024 * 1024,
	Namespace:      "triedb",
}

// Database is the store of trie nodes. Records are content addressed, so
// readers never need to synchronise with writers.
type Database struct {
	disk    kvdb.KeyValueStore
	cleans  *fastcache.Cache // GC friendly memory cache of clean node records
	values  *valueStore
	loads   singleflight.Group
	metrics Metrics
	logger  log.Logger

	lock sync.Mutex // serialises writes
}

// New creates a trie database on top of disk. A nil config uses Defaults.
func New(disk kvdb.KeyValueStore, config *Config) (*Database, error) {
	if config == nil {
		config = Defaults
	}
	m, err := newMetrics(config.Namespace, config.Registerer)
	if err != nil {
		return nil, fmt.Errorf("registering trie metrics: %w", err)
	}
	var cleans *fastcache.Cache
	if config.CleanCacheSize > 0 {
		cleans = fastcache.New(config.CleanCacheSize)
	}
	return &Database{
		disk:    disk,
		cleans:  cleans,
		values:  newValueStore(disk),
		metrics: m,
		logger:  log.New("module", "triedb"),
	}, nil
}

// Disk returns the underlying key-value store.
func (db *Database) Disk() kvdb.KeyValueStore { return db.disk }

// Close releases the memory held by the clean cache. The key-value store is
// owned by the caller and stays open.
func (db *Database) Close() error {
	if db.cleans != nil {
		db.cleans.Reset()
	}
	return nil
}

// Node loads the record stored under merkle.
func (db *Database) Node(merkle []byte) (*TrieNodeData, bool, error) {
	blob, err := db.nodeBlob(merkle)
	if err != nil || blob == nil {
		return nil, false, err
	}
	data, err := DecodeTrieNodeData(blob)
	if err != nil {
		return nil, false, fmt.Errorf("node %x: %w", merkle, err)
	}
	return data, true, nil
}

func (db *Database) nodeBlob(merkle []byte) ([]byte, error) {
	if db.cleans != nil {
		if blob := db.cleans.Get(nil, merkle); len(blob) > 0 {
			db.metrics.CleanHit()
			return blob, nil
		}
		db.metrics.CleanMiss()
	}
	v, err, _ := db.loads.Do(string(merkle), func() (interface{}, error) {
		blob, err := ReadTrieNode(db.disk, merkle)
		if err != nil {
			return nil, fmt.Errorf("reading node %x: %w", merkle, err)
		}
		if len(blob) == 0 {
			return []byte(nil), nil
		}
		db.metrics.NodeRead(len(blob))
		if db.cleans != nil {
			db.cleans.Set(merkle, blob)
		}
		return blob, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Value returns the storage value of a record, loading hashed values from
// the value table.
func (db *Database) Value(data *TrieNodeData) ([]byte, error) {
	if data.ValueHash == nil {
		return data.Value, nil
	}
	value, err := db.values.value(common.BytesToHash(data.ValueHash))
	if err != nil {
		return nil, fmt.Errorf("reading value %x: %w", data.ValueHash, err)
	}
	if value == nil {
		return nil, fmt.Errorf("%w: %x", ErrMissingValue, data.ValueHash)
	}
	return value, nil
}

// root loads the record of a trie root. The empty trie and unknown roots
// both report found=false.
func (db *Database) root(root []byte) (*TrieNodeData, bool, error) {
	if len(root) == 0 || bytes.Equal(root, node.EmptyRootHash.Bytes()) {
		return nil, false, nil
	}
	return db.Node(root)
}

// NodeWrite is a record to be persisted.
type NodeWrite struct {
	Merkle []byte
	Data   *TrieNodeData
	Value  []byte // value behind Data.ValueHash, nil if the value is inline
}

// WriteNodes persists the records in order. Hashed values go first, so a
// record is never readable before the value it references. The batch is
// flushed whenever it grows past kvdb.IdealBatchSize; callers put the root
// last.
func (db *Database) WriteNodes(nodes []NodeWrite) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	var (
		start   = time.Now()
		written = mapset.NewThreadUnsafeSet[string]()
		size    common.StorageSize
	)
	batch := kvdb.HookedBatch{
		Batch: db.disk.NewBatchWithSize(len(nodes) * 64),
		OnPut: func(key []byte, value []byte) {
			if bytes.HasPrefix(key, trieNodePrefix) {
				db.metrics.NodeWrite(len(value))
			}
		},
	}
	for _, n := range nodes {
		if n.Value != nil && n.Data.ValueHash != nil {
			db.values.insert(common.BytesToHash(n.Data.ValueHash), n.Value)
		}
	}
	size += db.values.pending()
	if err := db.values.commit(batch); err != nil {
		return err
	}
	uncacher := &cleaner{db}
	for _, n := range nodes {
		if !written.Add(string(n.Merkle)) {
			continue
		}
		enc := n.Data.Encode()
		if err := WriteTrieNode(batch, n.Merkle, enc); err != nil {
			return err
		}
		size += common.StorageSize(len(n.Merkle) + len(enc))

		if err := kvdb.FlushIfFull(batch, uncacher); err != nil {
			return err
		}
	}
	if err := kvdb.Flush(batch, uncacher); err != nil {
		db.logger.Error("Failed to write trie nodes", "err", err)
		return err
	}
	db.metrics.BatchCommit(written.Cardinality())
	db.logger.Debug("Persisted trie nodes", "nodes", written.Cardinality(), "size", size, "elapsed", common.PrettyDuration(time.Since(start)))
	return nil
}

// cleaner is a batch replayer that moves freshly written node records into
// the clean cache.
type cleaner struct {
	db *Database
}

func (c *cleaner) Put(key []byte, blob []byte) error {
	if c.db.cleans == nil || !bytes.HasPrefix(key, trieNodePrefix) {
		return nil
	}
	c.db.cleans.Set(key[len(trieNodePrefix):], blob)
	return nil
}

func (c *cleaner) Delete(key []byte) error {
	if c.db.cleans != nil && bytes.HasPrefix(key, trieNodePrefix) {
		c.db.cleans.Del(key[len(trieNodePrefix):])
	}
	return nil
}
