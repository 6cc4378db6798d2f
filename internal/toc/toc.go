// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package toc implements the content store's TOC file (component C): the
// persistent catalog of all entries, accessed through a single memory-mapped
// region with explicit reservation and remap-on-grow semantics.
//
// Grounded on ContentStoreDirUtf8.mapToc/closeMappedToc/readToc/writeToc.
// Pebble itself never memory-maps a file directly (internal/cache/manual.go
// mmaps anonymous memory for its block-cache arena, not a file), but that
// package establishes the house style this follows: a small internal type
// wrapping the platform mapping calls behind explicit map/unmap lifecycle
// methods. The mapping library itself, github.com/edsrzf/mmap-go, is an
// out-of-pack ecosystem dependency (named, not grounded) since nothing in
// the retrieved corpus performs file-backed read-write mmap.
//
// This package always talks to the real OS filesystem: mmap-go requires a
// concrete *os.File, so unlike the data-file set (internal/datafile) it
// cannot run against vfs.MemFS. Tests exercise it against t.TempDir().
package toc

import (
	"encoding/binary"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	mmap "github.com/edsrzf/mmap-go"

	"github.com/corpusindex/contentstore/internal/tocentry"
)

// countFieldBytes is the 32-bit entry count at the front of the file.
const countFieldBytes = 4

// File is the on-disk TOC, accessed through a memory-mapped region.
type File struct {
	path         string
	writeReserve int
	onRemap      func()
}

// Open returns a handle to the TOC file at path. It does not read or map
// anything yet; call Read to load existing entries. onRemap, if non-nil, is
// called once for every time Write has to grow and remap the write region
// mid-write (spec §4.H's TOCRemaps counter); pass nil to skip instrumentation.
func Open(path string, writeReserve int, onRemap func()) *File {
	return &File{path: path, writeReserve: writeReserve, onRemap: onRemap}
}

// Exists reports whether the TOC file exists on disk.
func (t *File) Exists() bool {
	_, err := os.Stat(t.path)
	return err == nil
}

// Read loads every entry from the TOC file into a map keyed by id. It
// returns an empty map if the file does not exist.
func (t *File) Read() (map[int32]*tocentry.Entry, error) {
	entries := make(map[int32]*tocentry.Entry)

	f, err := os.OpenFile(t.path, os.O_RDONLY, 0)
	if os.IsNotExist(err) {
		return entries, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "contentstore: toc: open for read")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "contentstore: toc: stat")
	}
	if fi.Size() == 0 {
		return entries, nil
	}
	if fi.Size() < countFieldBytes {
		return nil, errors.Newf("contentstore: toc: file too short (%d bytes)", fi.Size())
	}

	region, err := mmap.MapRegion(f, int(fi.Size()), mmap.RDONLY, 0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "contentstore: toc: mmap read-only")
	}
	defer region.Unmap()

	n := int(binary.LittleEndian.Uint32(region[0:4]))
	pos := countFieldBytes
	for i := 0; i < n; i++ {
		e, consumed, err := tocentry.Decode(region[pos:])
		if err != nil {
			return nil, errors.Wrapf(err, "contentstore: toc: decoding entry %d of %d", i, n)
		}
		ec := e
		entries[e.ID] = &ec
		pos += consumed
	}
	return entries, nil
}

// Write serializes entries to the TOC file through a writable memory
// mapping, remapping with additional reserve whenever the current mapping
// doesn't have room for the next entry. It does not shrink the file: the
// mapping's trailing reserve is left in place after a successful write,
// matching the original implementation's behavior (only the leading
// entry-count field and exactly N serialized entries are ever read back).
func (t *File) Write(entries map[int32]*tocentry.Entry) error {
	f, err := os.OpenFile(t.path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return errors.Wrap(err, "contentstore: toc: open for write")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "contentstore: toc: stat")
	}

	ids := make([]int32, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	mappedLen := fi.Size() + int64(t.writeReserve)
	if err := f.Truncate(mappedLen); err != nil {
		return errors.Wrap(err, "contentstore: toc: truncate for write mapping")
	}
	region, err := mmap.MapRegion(f, int(mappedLen), mmap.RDWR, 0, 0)
	if err != nil {
		return errors.Wrap(err, "contentstore: toc: mmap read-write")
	}
	// remap is called whenever the live mapping runs out of room for the
	// next entry; it unmaps, grows the file by another reserve, and
	// remaps, preserving the logical write position.
	remap := func() error {
		if err := region.Unmap(); err != nil {
			return errors.Wrap(err, "contentstore: toc: unmap before growing")
		}
		mappedLen += int64(t.writeReserve)
		if err := f.Truncate(mappedLen); err != nil {
			return errors.Wrap(err, "contentstore: toc: truncate while growing")
		}
		region, err = mmap.MapRegion(f, int(mappedLen), mmap.RDWR, 0, 0)
		if err != nil {
			return errors.Wrap(err, "contentstore: toc: remap read-write")
		}
		if t.onRemap != nil {
			t.onRemap()
		}
		return nil
	}

	defer func() {
		if region != nil {
			_ = region.Unmap()
		}
	}()

	binary.LittleEndian.PutUint32(region[0:4], uint32(len(entries)))
	pos := countFieldBytes
	for _, id := range ids {
		e := entries[id]
		size := e.SizeBytes()
		for len(region)-pos < size {
			if err := remap(); err != nil {
				return err
			}
		}
		buf := e.AppendTo(region[pos:pos])
		pos += len(buf)
	}

	if err := region.Flush(); err != nil {
		return errors.Wrap(err, "contentstore: toc: flush")
	}
	return nil
}
