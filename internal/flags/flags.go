// Copyright 2015 The go-ethereum Authors
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

package flags

import (
	"flag"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

var (
	_ cli.Flag              = (*DirectoryFlag)(nil)
	_ cli.RequiredFlag      = (*DirectoryFlag)(nil)
	_ cli.VisibleFlag       = (*DirectoryFlag)(nil)
	_ cli.DocGenerationFlag = (*DirectoryFlag)(nil)
	_ cli.CategorizableFlag = (*DirectoryFlag)(nil)
)

// DirectoryFlag is a string flag holding a file system path. Values from the
// command line, the environment and the default are expanded to a clean path,
// e.g. ~/.trietool -> /home/username/.trietool
// DirectoryFlag 是保存文件系统路径的字符串标志，接收到的值会被扩展为规范路径。
type DirectoryFlag struct {
	cli.StringFlag
}

// Apply registers the flag with set, then routes every value through
// expandPath.
func (f *DirectoryFlag) Apply(set *flag.FlagSet) error {
	f.Value = expandPath(f.Value)
	if err := f.StringFlag.Apply(set); err != nil {
		return err
	}
	for _, name := range f.Names() {
		fl := set.Lookup(strings.TrimSpace(name))
		if fl == nil {
			continue
		}
		// The environment may have supplied a value already.
		inner := fl.Value
		if err := inner.Set(expandPath(inner.String())); err != nil {
			return err
		}
		fl.Value = &directoryValue{inner}
	}
	return nil
}

// directoryValue expands paths before handing them to the wrapped value.
type directoryValue struct {
	flag.Value
}

func (v *directoryValue) Set(s string) error {
	return v.Value.Set(expandPath(s)) // 设置前先扩展路径。
}

// expandPath expands a file path:
// 1. replace tilde with users home dir
// 2. expands embedded environment variables
// 3. cleans the path, e.g. /a/b/../c -> /a/c
// Note, it has limitations, e.g. ~someuser/tmp will not be expanded
func expandPath(p string) string {
	if p == "" {
		return p
	}
	// Named pipes are not file paths on windows, ignore
	if strings.HasPrefix(p, `\\.\pipe`) {
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		if home := HomeDir(); home != "" {
			p = home + p[1:]
		}
	}
	return filepath.Clean(os.ExpandEnv(p))
}

// HomeDir returns the home directory of the current user.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
