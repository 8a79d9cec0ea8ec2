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
	"reflect"
	"unicode"

	"github.com/LimeChain/Fruzhin-sub001/internal/flags"
	"github.com/LimeChain/Fruzhin-sub001/trie/node"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}
	dataDirFlag = &flags.DirectoryFlag{StringFlag: cli.StringFlag{
		Name:     "datadir",
		Usage:    "Data directory of the trie database",
		Value:    defaultConfig.DataDir,
		Category: flags.StorageCategory,
	}}
	engineFlag = &cli.StringFlag{
		Name:     "db.engine",
		Usage:    "Backing database implementation to use ('pebble', 'leveldb' or 'memory')",
		Value:    defaultConfig.Engine,
		Category: flags.StorageCategory,
	}
	cacheFlag = &cli.IntFlag{
		Name:     "cache",
		Usage:    "Megabytes of memory allocated to the database cache",
		Value:    defaultConfig.Cache,
		Category: flags.PerfCategory,
	}
	handlesFlag = &cli.IntFlag{
		Name:     "handles",
		Usage:    "Number of file handles the database may use",
		Value:    defaultConfig.Handles,
		Category: flags.PerfCategory,
	}
	cleanCacheFlag = &cli.IntFlag{
		Name:     "cache.clean",
		Usage:    "Megabytes of memory allocated to the clean trie node cache",
		Value:    defaultConfig.CleanCache,
		Category: flags.PerfCategory,
	}
	stateVersionFlag = &cli.UintFlag{
		Name:     "state.version",
		Usage:    "State version of written tries (0 stores values inline, 1 hashes values of 33 bytes or more)",
		Value:    uint(defaultConfig.StateVersion),
		Category: flags.TrieCategory,
	}

	databaseFlags = []cli.Flag{dataDirFlag, engineFlag, cacheFlag, handlesFlag, cleanCacheFlag, stateVersionFlag}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type metricsConfig struct {
	Enabled bool
	Addr    string `toml:",omitempty"`
}

type trieConfig struct {
	DataDir      string
	Engine       string
	Cache        int // MB
	Handles      int
	CleanCache   int // MB
	StateVersion uint8
	Verbosity    int
	LogFormat    string `toml:",omitempty"`
	Metrics      metricsConfig
}

var defaultConfig = trieConfig{
	DataDir:      flags.HomeDir() + "/.trietool",
	Engine:       "pebble",
	Cache:        256,
	Handles:      256,
	CleanCache:   64,
	StateVersion: uint8(node.V1),
	Verbosity:    3,
	Metrics: metricsConfig{
		Addr: "127.0.0.1:6061",
	},
}

func loadConfig(file string, cfg *trieConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// makeConfig loads the configuration: defaults, then the config file, then
// the flags set on the command line.
func makeConfig(ctx *cli.Context) (trieConfig, error) {
	cfg := defaultConfig
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if ctx.IsSet(dataDirFlag.Name) {
		cfg.DataDir = ctx.String(dataDirFlag.Name)
	}
	if ctx.IsSet(engineFlag.Name) {
		cfg.Engine = ctx.String(engineFlag.Name)
	}
	if ctx.IsSet(cacheFlag.Name) {
		cfg.Cache = ctx.Int(cacheFlag.Name)
	}
	if ctx.IsSet(handlesFlag.Name) {
		cfg.Handles = ctx.Int(handlesFlag.Name)
	}
	if ctx.IsSet(cleanCacheFlag.Name) {
		cfg.CleanCache = ctx.Int(cleanCacheFlag.Name)
	}
	if ctx.IsSet(stateVersionFlag.Name) {
		cfg.StateVersion = uint8(ctx.Uint(stateVersionFlag.Name))
	}
	if ctx.IsSet(verbosityFlag.Name) {
		cfg.Verbosity = ctx.Int(verbosityFlag.Name)
	}
	if ctx.IsSet(logFormatFlag.Name) {
		cfg.LogFormat = ctx.String(logFormatFlag.Name)
	}
	if ctx.IsSet(metricsEnabledFlag.Name) {
		cfg.Metrics.Enabled = ctx.Bool(metricsEnabledFlag.Name)
	}
	if ctx.IsSet(metricsAddrFlag.Name) {
		cfg.Metrics.Addr = ctx.String(metricsAddrFlag.Name)
	}
	if _, err := node.ParseStateVersion(uint64(cfg.StateVersion)); err != nil {
		return cfg, err
	}
	return cfg, nil
}
