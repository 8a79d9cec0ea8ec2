// Copyright 2023 The go-ethereum Authors
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

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTerminalHandlerFormatsAttributes(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(NewTerminalHandler(out, false))
	l.Info("Trie node loaded", "path", []byte{0x1a, 0x2b}, "nodes", 123456, "err", errors.New("boom"))

	line := out.String()
	require.True(t, strings.HasPrefix(line, "INFO ["), line)
	require.Contains(t, line, "Trie node loaded")
	require.Contains(t, line, "path=0x1a2b")
	require.Contains(t, line, "nodes=123,456")
	require.Contains(t, line, "err=boom")
	require.True(t, strings.HasSuffix(line, "\n"))
}

func TestTerminalHandlerLongBytesElided(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(NewTerminalHandler(out, false))
	l.Info("value", "v", bytes.Repeat([]byte{0xab}, 100))
	require.Contains(t, out.String(), "..")
}

func TestTerminalHandlerLevelFilter(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(NewTerminalHandlerWithLevel(out, slog.LevelWarn, false))
	l.Info("hidden")
	l.Debug("hidden")
	require.Empty(t, out.String())

	l.Warn("shown")
	require.Contains(t, out.String(), "shown")
}

func TestJSONHandler(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(JSONHandler(out))
	l.Debug("Committed trie", "root", []byte{0xde, 0xad})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	require.Equal(t, "debug", rec["lvl"])
	require.Equal(t, "Committed trie", rec["msg"])
	require.Equal(t, "0xdead", rec["root"])
}

func TestGlogHandlerVerbosity(t *testing.T) {
	out := new(bytes.Buffer)
	glog := NewGlogHandler(NewTerminalHandler(out, false))
	glog.Verbosity(LevelInfo)

	l := NewLogger(glog)
	l.Trace("hidden")
	l.Debug("hidden")
	require.Empty(t, out.String())

	glog.Verbosity(LevelTrace)
	l.Trace("shown")
	require.Contains(t, out.String(), "shown")
}

func TestGlogHandlerVmodule(t *testing.T) {
	out := new(bytes.Buffer)
	glog := NewGlogHandler(NewTerminalHandler(out, false))
	glog.Verbosity(LevelCrit)
	require.NoError(t, glog.Vmodule("logger_test.go=5"))

	NewLogger(glog).Trace("from test file")
	require.Contains(t, out.String(), "from test file")

	require.ErrorIs(t, glog.Vmodule("bad"), errVmoduleSyntax)
}

func TestOddArgumentsNormalized(t *testing.T) {
	out := new(bytes.Buffer)
	NewLogger(NewTerminalHandler(out, false)).Info("odd", "key")
	require.Contains(t, out.String(), errorKey)
}

func TestFromLegacyLevel(t *testing.T) {
	require.Equal(t, LevelCrit, FromLegacyLevel(0))
	require.Equal(t, LevelInfo, FromLegacyLevel(3))
	require.Equal(t, LevelTrace, FromLegacyLevel(5))
	require.Equal(t, LevelTrace, FromLegacyLevel(9))
	require.Equal(t, LevelCrit, FromLegacyLevel(-1))
}
