// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package tocentry implements the content store's TOC entry (component B):
// the in-memory record of one stored entry and its fixed binary layout.
//
// Grounded on ContentStoreDirUtf8.TocEntry (serialize/deserialize) from the
// original Java implementation this store's semantics are ported from.
// The encoding is manual little-endian, matching the style pebble's own
// on-disk record headers use, rather than reflection-based encoding/binary.
package tocentry

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// headerSizeBytes is the fixed portion of a serialized entry: id, fileID,
// entryOffsetBytes, entryLengthBytes, charLengthOrDeleted, blockSizeChars,
// nBlocks — seven 32-bit fields.
const headerSizeBytes = 28

// ErrTruncated is returned when a buffer does not contain a full entry.
var ErrTruncated = errors.New("contentstore: tocentry: truncated entry")

// Entry is one record in the table of contents.
type Entry struct {
	ID                    int32
	FileID                int32
	EntryOffsetBytes      int32
	EntryLengthBytes      int32
	EntryLengthCharacters int32 // meaningless if Deleted
	BlockSizeCharacters   int32
	BlockOffsetBytes      []int32
	Deleted               bool
}

// SizeBytes returns the number of bytes e occupies once serialized.
func (e *Entry) SizeBytes() int {
	return headerSizeBytes + 4*len(e.BlockOffsetBytes)
}

// BlockStartOffset returns the byte offset, within the entry's data file, of
// the first byte of block j.
func (e *Entry) BlockStartOffset(j int) int64 {
	return int64(e.EntryOffsetBytes) + int64(e.BlockOffsetBytes[j])
}

// BlockEndOffset returns the byte offset, within the entry's data file, of
// the first byte beyond block j.
func (e *Entry) BlockEndOffset(j int) int64 {
	if j < len(e.BlockOffsetBytes)-1 {
		return int64(e.EntryOffsetBytes) + int64(e.BlockOffsetBytes[j+1])
	}
	return int64(e.EntryOffsetBytes) + int64(e.EntryLengthBytes)
}

// AppendTo appends e's serialized form to buf and returns the extended
// slice, so callers writing many entries into a shared buffer (or a
// memory-mapped region) don't need an intermediate allocation per entry.
func (e *Entry) AppendTo(buf []byte) []byte {
	var tmp [4]byte
	putInt32 := func(v int32) {
		binary.LittleEndian.PutUint32(tmp[:], uint32(v))
		buf = append(buf, tmp[:]...)
	}
	putInt32(e.ID)
	putInt32(e.FileID)
	putInt32(e.EntryOffsetBytes)
	putInt32(e.EntryLengthBytes)
	if e.Deleted {
		putInt32(-1)
	} else {
		putInt32(e.EntryLengthCharacters)
	}
	putInt32(e.BlockSizeCharacters)
	putInt32(int32(len(e.BlockOffsetBytes)))
	for _, off := range e.BlockOffsetBytes {
		putInt32(off)
	}
	return buf
}

// Decode parses one entry from the front of buf, returning the entry and
// the number of bytes it consumed.
func Decode(buf []byte) (Entry, int, error) {
	if len(buf) < headerSizeBytes {
		return Entry{}, 0, ErrTruncated
	}
	get := func(off int) int32 {
		return int32(binary.LittleEndian.Uint32(buf[off : off+4]))
	}
	id := get(0)
	fileID := get(4)
	offset := get(8)
	length := get(12)
	charLenOrDeleted := get(16)
	blockSize := get(20)
	nBlocks := get(24)
	if nBlocks < 0 {
		return Entry{}, 0, errors.Newf("contentstore: tocentry: negative block count %d", nBlocks)
	}
	need := headerSizeBytes + int(nBlocks)*4
	if len(buf) < need {
		return Entry{}, 0, ErrTruncated
	}
	blockOffsets := make([]int32, nBlocks)
	for i := 0; i < int(nBlocks); i++ {
		blockOffsets[i] = get(headerSizeBytes + i*4)
	}
	deleted := charLenOrDeleted < 0
	e := Entry{
		ID:                  id,
		FileID:              fileID,
		EntryOffsetBytes:    offset,
		EntryLengthBytes:    length,
		BlockSizeCharacters: blockSize,
		BlockOffsetBytes:    blockOffsets,
		Deleted:             deleted,
	}
	if !deleted {
		e.EntryLengthCharacters = charLenOrDeleted
	}
	return e, need, nil
}
