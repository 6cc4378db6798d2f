// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package datafile_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corpusindex/contentstore/internal/datafile"
	"github.com/corpusindex/contentstore/vfs"
)

func TestAppendAndReadBack(t *testing.T) {
	fs := vfs.NewMem()
	require.NoError(t, fs.MkdirAll("/store", 0o755))
	s := datafile.Open(fs, "/store", 1)

	n, err := s.Append(1, false, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, s.Close())

	buf := make([]byte, 5)
	require.NoError(t, s.ReadRange(1, 0, buf))
	require.Equal(t, "hello", string(buf))
}

func TestCallerDrivenRollover(t *testing.T) {
	fs := vfs.NewMem()
	require.NoError(t, fs.MkdirAll("/store", 0o755))
	s := datafile.Open(fs, "/store", 1)

	_, err := s.Append(1, false, []byte("0123456789A"))
	require.NoError(t, err)
	require.Equal(t, int32(1), s.CurrentFileID())

	// Caller decides to roll over to a fresh file 2.
	_, err = s.Append(2, true, []byte("z"))
	require.NoError(t, err)
	require.Equal(t, int32(2), s.CurrentFileID())
	require.NoError(t, s.Close())

	buf := make([]byte, 1)
	require.NoError(t, s.ReadRange(2, 0, buf))
	require.Equal(t, "z", string(buf))

	buf11 := make([]byte, 11)
	require.NoError(t, s.ReadRange(1, 0, buf11))
	require.Equal(t, "0123456789A", string(buf11))
}

func TestAppendEmptyIsError(t *testing.T) {
	fs := vfs.NewMem()
	require.NoError(t, fs.MkdirAll("/store", 0o755))
	s := datafile.Open(fs, "/store", 1)
	_, err := s.Append(1, false, nil)
	require.Error(t, err)
}

func TestReopenForAppendPreservesContent(t *testing.T) {
	fs := vfs.NewMem()
	require.NoError(t, fs.MkdirAll("/store", 0o755))
	s := datafile.Open(fs, "/store", 1)
	_, err := s.Append(1, false, []byte("ab"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2 := datafile.Open(fs, "/store", 1)
	_, err = s2.Append(1, false, []byte("cd"))
	require.NoError(t, err)
	require.NoError(t, s2.Close())

	buf := make([]byte, 4)
	require.NoError(t, s2.ReadRange(1, 0, buf))
	require.Equal(t, "abcd", string(buf))
}

func TestShortReadIsError(t *testing.T) {
	fs := vfs.NewMem()
	require.NoError(t, fs.MkdirAll("/store", 0o755))
	s := datafile.Open(fs, "/store", 1)
	_, err := s.Append(1, false, []byte("ab"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	buf := make([]byte, 10)
	require.Error(t, s.ReadRange(1, 0, buf))
}

func TestCreateNewRemovesStaleFile(t *testing.T) {
	fs := vfs.NewMem()
	require.NoError(t, fs.MkdirAll("/store", 0o755))
	s := datafile.Open(fs, "/store", 1)
	_, err := s.Append(1, false, []byte("stale-remnant"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2 := datafile.Open(fs, "/store", 1)
	_, err = s2.Append(1, true, []byte("fresh"))
	require.NoError(t, err)
	require.NoError(t, s2.Close())

	buf := make([]byte, 5)
	require.NoError(t, s2.ReadRange(1, 0, buf))
	require.Equal(t, "fresh", string(buf))
}
