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

package triedb

import (
	"github.com/LimeChain/Fruzhin-sub001/kvdb"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics receives the events of a Database.
type Metrics interface {
	NodeRead(size int)
	NodeWrite(size int)
	NodeDelete()
	CleanHit()
	CleanMiss()
	BatchCommit(nodes int)
}

type noopMetrics struct{}

func (noopMetrics) NodeRead(int)    {}
func (noopMetrics) NodeWrite(int)   {}
func (noopMetrics) NodeDelete()     {}
func (noopMetrics) CleanHit()       {}
func (noopMetrics) CleanMiss()      {}
func (noopMetrics) BatchCommit(int) {}

type metrics struct {
	nodeReads     prometheus.Counter
	nodeReadSize  prometheus.Counter
	nodeWrites    prometheus.Counter
	nodeWriteSize prometheus.Counter
	nodeDeletes   prometheus.Counter
	cleanHits     prometheus.Counter
	cleanMisses   prometheus.Counter
	commits       prometheus.Counter
	commitNodes   prometheus.Histogram
}

// newMetrics registers the trie database collectors with reg. A nil
// registerer disables metrics.
func newMetrics(namespace string, reg prometheus.Registerer) (Metrics, error) {
	if reg == nil {
		return noopMetrics{}, nil
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	m := &metrics{
		nodeReads:     counter("node_reads", "number of trie nodes read from disk"),
		nodeReadSize:  counter("node_read_bytes", "bytes of trie nodes read from disk"),
		nodeWrites:    counter("node_writes", "number of trie nodes written"),
		nodeWriteSize: counter("node_write_bytes", "bytes of trie nodes written"),
		nodeDeletes:   counter("node_deletes", "number of trie nodes pruned"),
		cleanHits:     counter("clean_hits", "clean cache hits"),
		cleanMisses:   counter("clean_misses", "clean cache misses"),
		commits:       counter("commits", "number of committed write batches"),
		commitNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "commit_nodes",
			Help:      "trie nodes per committed write",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
	var err error
	for _, c := range []*prometheus.Counter{
		&m.nodeReads, &m.nodeReadSize, &m.nodeWrites, &m.nodeWriteSize,
		&m.nodeDeletes, &m.cleanHits, &m.cleanMisses, &m.commits,
	} {
		if *c, err = kvdb.RegisterOrGet(reg, *c); err != nil {
			return nil, err
		}
	}
	if m.commitNodes, err = kvdb.RegisterOrGet(reg, m.commitNodes); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *metrics) NodeRead(size int) {
	m.nodeReads.Inc()
	m.nodeReadSize.Add(float64(size))
}

func (m *metrics) NodeWrite(size int) {
	m.nodeWrites.Inc()
	m.nodeWriteSize.Add(float64(size))
}

func (m *metrics) NodeDelete() { m.nodeDeletes.Inc() }

func (m *metrics) CleanHit()  { m.cleanHits.Inc() }
func (m *metrics) CleanMiss() { m.cleanMisses.Inc() }

func (m *metrics) BatchCommit(nodes int) {
	m.commits.Inc()
	m.commitNodes.Observe(float64(nodes))
}
