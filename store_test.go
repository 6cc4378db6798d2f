// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package contentstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corpusindex/contentstore"
	"github.com/corpusindex/contentstore/vfs"
)

func openTestStore(t *testing.T, dir string, blockSize int) *contentstore.Store {
	t.Helper()
	s, err := contentstore.Open(dir, true, &contentstore.Options{
		FS:                  vfs.NewMem(),
		BlockSizeCharacters: blockSize,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestSingleASCII covers spec scenario 1: store("hello") with B=4.
func TestSingleASCII(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 4)

	id, err := s.Store("hello")
	require.NoError(t, err)
	require.Equal(t, int32(1), id)

	got, ok, err := s.Retrieve(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", got)

	parts, ok, err := s.RetrieveParts(1, []int{1, 3}, []int{4, 5})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"ell", "o"}, parts)
}

// TestMultiByte covers spec scenario 2: store("héllo") with B=4, where é is
// one character but two bytes.
func TestMultiByte(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 4)

	id, err := s.Store("héllo")
	require.NoError(t, err)

	parts, ok, err := s.RetrieveParts(id, []int{0}, []int{5})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"héllo"}, parts)

	whole, ok, err := s.Retrieve(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "héllo", whole)
}

// TestChunkedEquivalence covers spec scenario 3: B=3, two StorePart calls
// followed by a final Store("") commit.
func TestChunkedEquivalence(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 3)

	require.NoError(t, s.StorePart("ab"))
	require.NoError(t, s.StorePart("cdef"))
	id, err := s.Store("")
	require.NoError(t, err)

	got, ok, err := s.Retrieve(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abcdef", got)
}

// TestChunkedMatchesSingleCall is invariant 8.1.8: chunked ingestion must
// produce an entry indistinguishable, on retrieval, from a single Store
// call with the concatenated content.
func TestChunkedMatchesSingleCall(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 3)

	require.NoError(t, s.StorePart("ab"))
	require.NoError(t, s.StorePart("cdef"))
	chunked, err := s.Store("")
	require.NoError(t, err)

	whole, err := s.Store("abcdef")
	require.NoError(t, err)

	chunkedVal, _, err := s.Retrieve(chunked)
	require.NoError(t, err)
	wholeVal, _, err := s.Retrieve(whole)
	require.NoError(t, err)
	require.Equal(t, wholeVal, chunkedVal)
}

// TestRollover covers spec scenario 4: a size hint of 10 is exceeded by an
// 11-byte entry, which is still written entirely to file 1; the next entry
// starts fresh in file 2 at offset 0.
func TestRollover(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 100)
	s.SetDataFileSizeHint(10)

	id1, err := s.Store("abcdefghijk") // 11 bytes
	require.NoError(t, err)
	require.Equal(t, int32(1), id1)

	id2, err := s.Store("z")
	require.NoError(t, err)
	require.Equal(t, int32(2), id2)

	got1, ok, err := s.Retrieve(id1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abcdefghijk", got1)

	got2, ok, err := s.Retrieve(id2)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "z", got2)
}

// TestReopen covers spec scenario 5: after close and reopen without
// create, next_id and existing entries survive.
func TestReopen(t *testing.T) {
	dir := t.TempDir()
	fs := vfs.NewMem()

	s, err := contentstore.Open(dir, true, &contentstore.Options{FS: fs, BlockSizeCharacters: 4})
	require.NoError(t, err)
	id, err := s.Store("hello")
	require.NoError(t, err)
	require.Equal(t, int32(1), id)
	require.NoError(t, s.Close())

	s2, err := contentstore.Open(dir, false, &contentstore.Options{FS: fs, BlockSizeCharacters: 4})
	require.NoError(t, err)
	defer s2.Close()

	got, ok, err := s2.Retrieve(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", got)

	id2, err := s2.Store("world")
	require.NoError(t, err)
	require.Equal(t, int32(2), id2)
}

// TestDeleteThenRetrieve covers spec scenario 6: deletion yields the
// absence signal immediately and across reopen.
func TestDeleteThenRetrieve(t *testing.T) {
	dir := t.TempDir()
	fs := vfs.NewMem()

	s, err := contentstore.Open(dir, true, &contentstore.Options{FS: fs, BlockSizeCharacters: 4})
	require.NoError(t, err)
	id, err := s.Store("hello")
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))
	_, ok, err := s.Retrieve(id)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Close())

	s2, err := contentstore.Open(dir, false, &contentstore.Options{FS: fs, BlockSizeCharacters: 4})
	require.NoError(t, err)
	defer s2.Close()

	_, ok, err = s2.Retrieve(id)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestEmptyEntry covers the 8.2 boundary behavior and the open-question
// decision to preserve an explicit empty BlockOffsetBytes slice.
func TestEmptyEntry(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 4)

	id, err := s.Store("")
	require.NoError(t, err)

	got, ok, err := s.Retrieve(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "", got)

	parts, ok, err := s.RetrieveParts(id, []int{0}, []int{0})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{""}, parts)
}

// TestExactMultipleOfBlockSize covers the 8.2 boundary behavior that a
// document whose length is an exact multiple of B produces exactly n/B
// full blocks, with no trailing empty block.
func TestExactMultipleOfBlockSize(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 3)

	id, err := s.Store("abcdef") // 6 chars, B=3 -> exactly 2 blocks
	require.NoError(t, err)

	got, ok, err := s.Retrieve(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abcdef", got)
}

// TestOutOfRangeRejected covers invariant enforcement on RetrieveParts.
func TestOutOfRangeRejected(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 4)
	id, err := s.Store("hello")
	require.NoError(t, err)

	_, _, err = s.RetrieveParts(id, []int{0}, []int{10})
	require.Error(t, err)

	_, _, err = s.RetrieveParts(id, []int{3}, []int{1})
	require.Error(t, err)

	_, _, err = s.RetrieveParts(id, []int{0, 1}, []int{1})
	require.Error(t, err)
}

// TestEmptySnippetRejected covers spec §4.E.2/§7: a start==end pair on a
// non-empty entry names a zero-length snippet and must error, not silently
// succeed with "".
func TestEmptySnippetRejected(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 4)
	id, err := s.Store("hello")
	require.NoError(t, err)

	_, _, err = s.RetrieveParts(id, []int{2}, []int{2})
	require.ErrorIs(t, err, contentstore.ErrEmptySnippet)
}

// TestRetrievePartsWholeEntrySentinel covers spec §4.E.2's (-1, -1)
// whole-entry sentinel passed directly to RetrieveParts.
func TestRetrievePartsWholeEntrySentinel(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 4)
	id, err := s.Store("hello")
	require.NoError(t, err)

	parts, ok, err := s.RetrieveParts(id, []int{-1}, []int{-1})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"hello"}, parts)
}

// TestRetrieveMissingID covers the absence signal for an id that was never
// stored.
func TestRetrieveMissingID(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 4)
	_, ok, err := s.Retrieve(999)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestClosedStoreRejectsOperations covers the closed-store sentinel.
func TestClosedStoreRejectsOperations(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 4)
	require.NoError(t, s.Close())

	_, err := s.Store("x")
	require.ErrorIs(t, err, contentstore.ErrClosed)

	_, _, err = s.Retrieve(1)
	require.ErrorIs(t, err, contentstore.ErrClosed)
}

// TestClear covers spec §4.E.4: every entry and data file disappears, but
// the store stays open and usable.
func TestClear(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 4)
	_, err := s.Store("hello")
	require.NoError(t, err)

	require.NoError(t, s.Clear())

	_, ok, err := s.Retrieve(1)
	require.NoError(t, err)
	require.False(t, ok)

	id, err := s.Store("fresh")
	require.NoError(t, err)
	require.Equal(t, int32(1), id)
}

// TestManyEntriesAcrossBlocks exercises invariants 8.1.1-8.1.2 (round trip
// and arbitrary slicing) over a longer multi-block document.
func TestManyEntriesAcrossBlocks(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 10)

	content := ""
	for i := 0; i < 95; i++ {
		content += string(rune('a' + i%26))
	}
	id, err := s.Store(content)
	require.NoError(t, err)

	got, ok, err := s.Retrieve(id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, content, got)

	for a := 0; a < len(content); a += 7 {
		b := a + 5
		if b > len(content) {
			b = len(content)
		}
		parts, ok, err := s.RetrieveParts(id, []int{a}, []int{b})
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, content[a:b], parts[0])
	}
}
