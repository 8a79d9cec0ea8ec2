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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	file := writeFile(t, "config.toml", `
Engine = "leveldb"
CleanCache = 8
StateVersion = 0

[Metrics]
Enabled = true
`)
	cfg := defaultConfig
	require.NoError(t, loadConfig(file, &cfg))
	require.Equal(t, "leveldb", cfg.Engine)
	require.Equal(t, 8, cfg.CleanCache)
	require.Equal(t, uint8(0), cfg.StateVersion)
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, defaultConfig.Metrics.Addr, cfg.Metrics.Addr)
	require.Equal(t, defaultConfig.Cache, cfg.Cache)
}

func TestLoadConfigUnknownField(t *testing.T) {
	file := writeFile(t, "config.toml", "Engine = \"pebble\"\nCompression = true\n")
	cfg := defaultConfig
	err := loadConfig(file, &cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Compression")
}

func TestLoadImportFile(t *testing.T) {
	file := writeFile(t, "entries.toml", `
[Entries]
"0x12" = "0x0102"
"0x13" = ""
`)
	entries, err := loadImportFile(file)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, []byte{1, 2}, entries["\x12"])
	require.Empty(t, entries["\x13"])

	file = writeFile(t, "bad.toml", "[Entries]\n\"0x1\" = \"0x00\"\n")
	_, err = loadImportFile(file)
	require.Error(t, err)
}

func TestParseNibbles(t *testing.T) {
	n, err := parseNibbles("0x1a")
	require.NoError(t, err)
	require.Equal(t, "1a", n.String())

	_, err = parseNibbles("xyz")
	require.Error(t, err)

	root, err := parseRoot("")
	require.NoError(t, err)
	require.Len(t, root, 32)
}
