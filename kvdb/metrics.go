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

package kvdb

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics is the set of gauges and counters a disk backend reports from
// its periodic stats collection loop.
type EngineMetrics struct {
	CompTime       prometheus.Counter // Total time spent in database compaction (ns)
	CompRead       prometheus.Counter // Data read during compaction
	CompWrite      prometheus.Counter // Data written during compaction
	WriteDelayN    prometheus.Counter // Write delays due to database compaction
	WriteDelay     prometheus.Counter // Write delay duration due to database compaction (ns)
	DiskSize       prometheus.Gauge   // Size of all the levels in the database
	DiskRead       prometheus.Counter // Effective amount of data read
	DiskWrite      prometheus.Counter // Effective amount of data written
	MemComp        prometheus.Gauge   // Number of memory compactions
	Level0Comp     prometheus.Gauge   // Number of table compactions in level0
	NonLevel0Comp  prometheus.Gauge   // Number of table compactions in non0 levels
	SeekComp       prometheus.Gauge   // Number of table compactions caused by reads
	ManualMemAlloc prometheus.Gauge   // Memory allocated outside the Go runtime
	Levels         *prometheus.GaugeVec
}

// NewEngineMetrics creates and registers the engine metrics under namespace.
// Registering the same namespace twice returns the already registered
// collectors, so reopening a database is safe.
func NewEngineMetrics(namespace string, reg prometheus.Registerer) (*EngineMetrics, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	m := &EngineMetrics{
		CompTime:       counter("compact_time", "total time spent in database compaction in ns"),
		CompRead:       counter("compact_input", "bytes read during compaction"),
		CompWrite:      counter("compact_output", "bytes written during compaction"),
		WriteDelayN:    counter("compact_writedelay_counter", "write delays caused by compaction"),
		WriteDelay:     counter("compact_writedelay_duration", "write delay duration caused by compaction in ns"),
		DiskSize:       gauge("disk_size", "size of all the levels in the database"),
		DiskRead:       counter("disk_read", "effective amount of data read"),
		DiskWrite:      counter("disk_write", "effective amount of data written"),
		MemComp:        gauge("compact_memory", "number of memory compactions"),
		Level0Comp:     gauge("compact_level0", "number of level0 table compactions"),
		NonLevel0Comp:  gauge("compact_nonlevel0", "number of non level0 table compactions"),
		SeekComp:       gauge("compact_seek", "number of table compactions caused by reads"),
		ManualMemAlloc: gauge("memory_manualalloc", "memory allocated outside the go runtime"),
		Levels: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tables",
			Help:      "number of tables per level",
		}, []string{"level"}),
	}
	var err error
	reg1 := func(c prometheus.Counter) prometheus.Counter {
		if err == nil {
			c, err = RegisterOrGet(reg, c)
		}
		return c
	}
	reg2 := func(g prometheus.Gauge) prometheus.Gauge {
		if err == nil {
			g, err = RegisterOrGet(reg, g)
		}
		return g
	}
	m.CompTime, m.CompRead, m.CompWrite = reg1(m.CompTime), reg1(m.CompRead), reg1(m.CompWrite)
	m.WriteDelayN, m.WriteDelay = reg1(m.WriteDelayN), reg1(m.WriteDelay)
	m.DiskRead, m.DiskWrite = reg1(m.DiskRead), reg1(m.DiskWrite)
	m.DiskSize, m.MemComp, m.ManualMemAlloc = reg2(m.DiskSize), reg2(m.MemComp), reg2(m.ManualMemAlloc)
	m.Level0Comp, m.NonLevel0Comp, m.SeekComp = reg2(m.Level0Comp), reg2(m.NonLevel0Comp), reg2(m.SeekComp)
	if err == nil {
		m.Levels, err = RegisterOrGet(reg, m.Levels)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RegisterOrGet adds c to reg. When an identical collector was registered
// before, that one is returned instead.
func RegisterOrGet[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return c, err
}
