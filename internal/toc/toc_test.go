// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package toc_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corpusindex/contentstore/internal/toc"
	"github.com/corpusindex/contentstore/internal/tocentry"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f := toc.Open(filepath.Join(dir, "toc.dat"), 64, nil)

	require.False(t, f.Exists())

	entries := map[int32]*tocentry.Entry{
		1: {ID: 1, FileID: 1, EntryOffsetBytes: 0, EntryLengthBytes: 5, EntryLengthCharacters: 5,
			BlockSizeCharacters: 4, BlockOffsetBytes: []int32{0, 4}},
		2: {ID: 2, FileID: 1, EntryOffsetBytes: 5, EntryLengthBytes: 6, EntryLengthCharacters: 5,
			BlockSizeCharacters: 4, BlockOffsetBytes: []int32{0, 5}},
	}
	require.NoError(t, f.Write(entries))
	require.True(t, f.Exists())

	got, err := f.Read()
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestReadMissingFile(t *testing.T) {
	dir := t.TempDir()
	f := toc.Open(filepath.Join(dir, "toc.dat"), 64, nil)
	entries, err := f.Read()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWriteForcesRemap(t *testing.T) {
	dir := t.TempDir()
	// Tiny reserve so appending many entries forces at least one remap.
	remaps := 0
	f := toc.Open(filepath.Join(dir, "toc.dat"), 8, func() { remaps++ })

	entries := make(map[int32]*tocentry.Entry)
	for i := int32(1); i <= 50; i++ {
		entries[i] = &tocentry.Entry{
			ID: i, FileID: 1, EntryOffsetBytes: i * 10, EntryLengthBytes: 10,
			EntryLengthCharacters: 10, BlockSizeCharacters: 4, BlockOffsetBytes: []int32{0, 4, 8},
		}
	}
	require.NoError(t, f.Write(entries))
	require.Greater(t, remaps, 0)

	got, err := f.Read()
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestWriteThenRewriteWithDeletion(t *testing.T) {
	dir := t.TempDir()
	f := toc.Open(filepath.Join(dir, "toc.dat"), 64, nil)

	entries := map[int32]*tocentry.Entry{
		1: {ID: 1, FileID: 1, EntryLengthBytes: 5, EntryLengthCharacters: 5, BlockSizeCharacters: 4, BlockOffsetBytes: []int32{0}},
	}
	require.NoError(t, f.Write(entries))

	entries[1].Deleted = true
	require.NoError(t, f.Write(entries))

	got, err := f.Read()
	require.NoError(t, err)
	require.True(t, got[1].Deleted)
}
