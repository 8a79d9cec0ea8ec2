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

// trietool inspects and edits Substrate tries persisted in a key-value store
// and verifies storage proofs.
package main

import (
	"fmt"
	"os"

	"github.com/LimeChain/Fruzhin-sub001/internal/flags"
	"github.com/urfave/cli/v2"
)

var app = flags.NewApp("the substrate trie command line interface")

func init() {
	app.Commands = []*cli.Command{
		verifyCommand,
		getCommand,
		keysCommand,
		nextCommand,
		importCommand,
		statsCommand,
		pruneCommand,
		compactCommand,
	}
	app.Flags = flags.Merge(
		[]cli.Flag{configFileFlag},
		databaseFlags,
		loggingFlags,
		metricsFlags,
	)
	before := app.Before
	app.Before = func(ctx *cli.Context) error {
		if err := before(ctx); err != nil {
			return err
		}
		return setupLogging(ctx)
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
