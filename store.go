// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package contentstore

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/cockroachdb/swiss"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/corpusindex/contentstore/internal/block"
	"github.com/corpusindex/contentstore/internal/datafile"
	"github.com/corpusindex/contentstore/internal/toc"
	"github.com/corpusindex/contentstore/internal/tocentry"
	"github.com/corpusindex/contentstore/vfs"
)

// Store is an open content store directory (component E): a TOC plus a
// data-file set, and the ingestion/retrieval state machine over them.
//
// Grounded on ContentStoreDirUtf8 end to end. Every exported method holds a
// store-wide mutex for its full duration, so individual calls from
// different goroutines are serialized. A sequence of StorePart calls
// followed by Commit is not atomic: another goroutine's StorePart or Store
// in between adds its content to the same in-progress entry.
type Store struct {
	dir  string
	fs   vfs.FS
	opts *Options

	mu sync.Mutex

	tocFile     *toc.File
	toc         swiss.Map[int32, *tocentry.Entry]
	tocModified bool
	nextID      int32

	dataFiles     *datafile.Set
	currentFileID int32
	// currentFileLength deliberately lags behind the data file's real size
	// for the duration of an in-progress entry: it is only advanced once,
	// by the whole entry's byte count, after the entry is fully written.
	// This is what keeps rollover decisions from ever landing mid-entry —
	// see storePartLocked.
	currentFileLength int32

	blockSizeCharacters int32

	// In-progress entry state, reset by resetEntryState after each
	// completed Store or Clear.
	charsWritten      int32
	bytesWritten      int32
	blockOffsets      []int32
	currentBlockChars strings.Builder

	closed bool
}

// Open opens (or creates) the content store directory at dirname, per the
// create/open lifecycle in spec §3.3. If create is true, any existing
// content is discarded first. opts may be nil.
func Open(dirname string, create bool, opts *Options) (*Store, error) {
	opts = opts.EnsureDefaults()
	fs := opts.FS

	if err := fs.MkdirAll(dirname, 0o755); err != nil {
		return nil, errors.Wrap(err, "contentstore: open: mkdir")
	}

	s := &Store{
		dir:                 dirname,
		fs:                  fs,
		opts:                opts,
		nextID:              1,
		currentFileID:       1,
		blockSizeCharacters: int32(opts.BlockSizeCharacters),
	}
	s.tocFile = toc.Open(filepath.Join(dirname, tocFileName), opts.WriteMapReserve, func() {
		opts.Metrics.TOCRemaps.Inc()
	})
	s.toc.Init(16)

	if s.tocFile.Exists() {
		if err := s.loadTOC(); err != nil {
			return nil, err
		}
	}
	s.tocModified = false
	s.dataFiles = datafile.Open(fs, dirname, s.currentFileID)

	if create {
		if err := s.clearLocked(); err != nil {
			return nil, err
		}
		if err := writeTypeMarker(fs, dirname); err != nil {
			return nil, errors.Wrap(err, "contentstore: open: write type marker")
		}
	}
	return s, nil
}

// loadTOC reads every entry from the TOC file and reconstructs nextID and
// the current data file's id and length. Grounded on
// ContentStoreDirUtf8.readToc, including its quirk of deriving the current
// file's length from the entries that happen to target the file with the
// highest id (rather than from a dedicated field) — robust to any
// iteration order over the entry map, since the running maximum fileID
// only ever increases.
func (s *Store) loadTOC() error {
	entries, err := s.tocFile.Read()
	if err != nil {
		return errors.Wrap(err, "contentstore: open: read toc")
	}
	var currentFileID int32 = 1
	var currentFileLength int32
	for id, e := range entries {
		s.toc.Put(id, e)
		if e.FileID > currentFileID {
			currentFileID = e.FileID
			currentFileLength = 0
		}
		if e.FileID == currentFileID {
			end := e.EntryOffsetBytes + e.EntryLengthBytes
			if end > currentFileLength {
				currentFileLength = end
			}
		}
		if id >= s.nextID {
			s.nextID = id + 1
		}
	}
	s.currentFileID = currentFileID
	s.currentFileLength = currentFileLength
	return nil
}

// clearLocked implements Clear under the caller's lock.
func (s *Store) clearLocked() error {
	if s.dataFiles != nil {
		if err := s.dataFiles.Close(); err != nil {
			return err
		}
	}
	fileIDs := make(map[int32]bool)
	s.toc.All(func(_ int32, e *tocentry.Entry) bool {
		fileIDs[e.FileID] = true
		return true
	})
	for fid := range fileIDs {
		if err := s.dataFiles.Remove(fid); err != nil {
			return err
		}
	}
	s.toc = swiss.Map[int32, *tocentry.Entry]{}
	s.toc.Init(16)
	s.tocModified = true
	s.nextID = 1
	s.currentFileID = 1
	s.currentFileLength = 0
	s.dataFiles = datafile.Open(s.fs, s.dir, s.currentFileID)
	s.resetEntryState()
	return nil
}

// Clear deletes all content in the store, leaving it open and empty (spec
// §4.E.4).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.clearLocked()
}

func (s *Store) resetEntryState() {
	s.charsWritten = 0
	s.bytesWritten = 0
	s.blockOffsets = nil
	s.currentBlockChars.Reset()
}

// StorePart appends content to the entry currently being built, flushing
// one or more fixed-character-size blocks to the data file as boundaries
// are crossed. It may be called any number of times before Store commits
// the entry's TOC record. Grounded on ContentStoreDirUtf8.storePart's
// block-boundary state machine.
func (s *Store) StorePart(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.storePartLocked(content)
}

func (s *Store) storePartLocked(content string) error {
	if len(content) == 0 {
		return nil
	}
	runes := []rune(content)
	if len(s.blockOffsets) == 0 {
		s.blockOffsets = append(s.blockOffsets, 0)
	}

	after := s.charsWritten + int32(len(runes))
	pos := 0
	for after > int32(len(s.blockOffsets))*s.blockSizeCharacters {
		nextBoundary := int32(len(s.blockOffsets)) * s.blockSizeCharacters
		charsToBoundary := nextBoundary - s.charsWritten
		if charsToBoundary > 0 {
			s.currentBlockChars.WriteString(string(runes[pos : pos+int(charsToBoundary)]))
			s.charsWritten += charsToBoundary
			pos += int(charsToBoundary)
		}
		if err := s.flushCurrentBlockLocked(); err != nil {
			return err
		}
		s.blockOffsets = append(s.blockOffsets, s.bytesWritten)
	}
	if pos < len(runes) {
		s.currentBlockChars.WriteString(string(runes[pos:]))
		s.charsWritten += int32(len(runes) - pos)
	}
	return nil
}

// flushCurrentBlockLocked encodes and appends the in-progress block,
// rolling the data file set over to a new file first if the previous
// entry pushed currentFileLength past the size hint. Grounded on
// ContentStoreDirUtf8.writeCurrentBlock / openCurrentStoreFile.
func (s *Store) flushCurrentBlockLocked() error {
	content := s.currentBlockChars.String()
	if len(content) == 0 {
		return ErrEmptyBlock
	}
	createNew := false
	if int64(s.currentFileLength) > s.opts.DataFileSizeHint {
		s.currentFileID++
		s.currentFileLength = 0
		createNew = true
		s.opts.Metrics.FileRollovers.Inc()
		s.opts.Logger.Infof("contentstore: rolling over to data file %s", redact.Safe(datafile.Name(s.currentFileID)))
	}
	encoded := block.Encode(content)
	n, err := s.dataFiles.Append(s.currentFileID, createNew, encoded)
	if err != nil {
		return err
	}
	s.bytesWritten += int32(n)
	s.opts.Metrics.BytesWritten.Add(float64(n))
	s.opts.Metrics.BlocksWritten.Inc()
	s.currentBlockChars.Reset()
	return nil
}

// Store commits content as a new entry, returning its id. Equivalent to
// calling StorePart(content) once followed by Commit; the split exists for
// the same reason the original offers both storePart and store — large
// documents can be streamed in without building the whole string in memory
// first, via repeated StorePart calls followed by a final Commit.
func (s *Store) Store(content string) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	timer := prometheus.NewTimer(s.opts.Metrics.StoreLatency)
	defer timer.ObserveDuration()

	if err := s.storePartLocked(content); err != nil {
		return 0, err
	}
	return s.commitLocked()
}

// Commit finalizes whatever content has been accumulated via StorePart
// calls into a new TOC entry and returns its id. It is a no-op-safe
// counterpart to Store for the streaming ingestion path: call StorePart
// any number of times, then Commit once.
func (s *Store) Commit() (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.commitLocked()
}

// commitLocked finalizes the entry currently being built into a TOC record
// and returns its id. Grounded on ContentStoreDirUtf8.store's tail end,
// after the storePart loop: flush whatever's left as the entry's last
// (possibly partial) block, record entryOffsetBytes from the still-stale
// currentFileLength, then finally advance it — this ordering is what
// guarantees entryOffsetBytes always names the file position as of the
// start of this entry, even though bytes were already physically appended
// by the time we read it.
func (s *Store) commitLocked() (int32, error) {
	if s.currentBlockChars.Len() > 0 {
		if err := s.flushCurrentBlockLocked(); err != nil {
			return 0, err
		}
	}
	if len(s.blockOffsets) == 0 {
		// An empty entry still gets a TOC record with no blocks and no
		// bytes; retrieval of it always yields "".
		s.blockOffsets = []int32{}
	}

	id := s.nextID
	e := &tocentry.Entry{
		ID:                    id,
		FileID:                s.currentFileID,
		EntryOffsetBytes:      s.currentFileLength,
		EntryLengthBytes:      s.bytesWritten,
		EntryLengthCharacters: s.charsWritten,
		BlockSizeCharacters:   s.blockSizeCharacters,
		BlockOffsetBytes:      append([]int32(nil), s.blockOffsets...),
	}
	s.currentFileLength += s.bytesWritten
	s.nextID++

	s.toc.Put(id, e)
	s.tocModified = true
	s.opts.Metrics.EntriesStored.Inc()
	s.resetEntryState()
	return id, nil
}

// Retrieve returns the whole content of entry id. The second return value
// is false if id does not exist or has been deleted.
func (s *Store) Retrieve(id int32) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}
	e, ok := s.toc.Get(id)
	if !ok || e.Deleted {
		return "", false, nil
	}
	if e.EntryLengthCharacters == 0 {
		return "", true, nil
	}
	parts, err := s.retrievePartsLocked(e, []int{0}, []int{int(e.EntryLengthCharacters)})
	if err != nil {
		return "", false, err
	}
	return parts[0], true, nil
}

// RetrieveParts returns len(starts) substrings of entry id, the i'th
// spanning character offsets [starts[i], ends[i]). The second return value
// is false if id does not exist or has been deleted. Grounded on
// ContentStoreDirUtf8.retrieveParts's block-selective read: only the bytes
// belonging to blocks overlapping [start, end) are ever read off disk.
func (s *Store) RetrieveParts(id int32, starts, ends []int) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, ErrClosed
	}
	e, ok := s.toc.Get(id)
	if !ok || e.Deleted {
		return nil, false, nil
	}
	timer := prometheus.NewTimer(s.opts.Metrics.RetrieveLatency)
	defer timer.ObserveDuration()

	parts, err := s.retrievePartsLocked(e, starts, ends)
	if err != nil {
		return nil, false, err
	}
	return parts, true, nil
}

func (s *Store) retrievePartsLocked(e *tocentry.Entry, starts, ends []int) ([]string, error) {
	if len(starts) != len(ends) {
		return nil, ErrShapeMismatch
	}
	total := int(e.EntryLengthCharacters)

	// (-1, -1) is the whole-entry sentinel (spec §4.E.2): a pair of -1s
	// passed to RetrieveParts names the entire entry. Retrieve itself does
	// not use the sentinel; it passes [0, length) directly.
	normStarts := make([]int, len(starts))
	normEnds := make([]int, len(ends))
	for i := range starts {
		if starts[i] == -1 && ends[i] == -1 {
			normStarts[i], normEnds[i] = 0, total
			continue
		}
		normStarts[i], normEnds[i] = starts[i], ends[i]
	}
	starts, ends = normStarts, normEnds

	for i := range starts {
		if starts[i] < 0 || ends[i] < 0 {
			return nil, errors.Wrapf(ErrIllegalValues, "part %d: start=%d end=%d", i, starts[i], ends[i])
		}
		if starts[i] > total || ends[i] > total {
			return nil, errors.Wrapf(ErrOutOfRange, "part %d: start=%d end=%d entry length=%d", i, starts[i], ends[i], total)
		}
		if ends[i] < starts[i] {
			return nil, errors.Wrapf(ErrEmptySnippet, "part %d: start=%d end=%d", i, starts[i], ends[i])
		}
	}

	// Blocks of the entry being written may still sit in the data file
	// set's write buffer; make them readable before reading any range.
	if err := s.dataFiles.Flush(); err != nil {
		return nil, err
	}

	nBlocks := len(e.BlockOffsetBytes)
	results := make([]string, len(starts))
	for i := range starts {
		if starts[i] == ends[i] {
			// An empty snippet is only legal when it names the whole of an
			// empty entry (total == 0); any other a == b pair is a
			// zero-length request the caller should not have made (spec
			// §4.E.2/§7).
			if total == 0 {
				results[i] = ""
				continue
			}
			return nil, errors.Wrapf(ErrEmptySnippet, "part %d: start=%d end=%d", i, starts[i], ends[i])
		}
		firstBlock := int(starts[i]) / int(e.BlockSizeCharacters)
		lastBlock := (int(ends[i]) - 1) / int(e.BlockSizeCharacters)
		if firstBlock >= nBlocks {
			firstBlock = nBlocks - 1
		}
		if lastBlock >= nBlocks {
			lastBlock = nBlocks - 1
		}

		blockStartByte := e.BlockStartOffset(firstBlock)
		blockEndByte := e.BlockEndOffset(lastBlock)
		buf := make([]byte, blockEndByte-blockStartByte)
		if err := s.dataFiles.ReadRange(e.FileID, blockStartByte, buf); err != nil {
			wrapped := errors.Wrapf(err, "contentstore: retrieve: entry %d", e.ID)
			if errors.Is(err, datafile.ErrShortRead) {
				wrapped = errors.Mark(wrapped, ErrShortBlock)
			}
			return nil, wrapped
		}
		decoded, err := block.Decode(buf)
		if err != nil {
			return nil, errors.Wrapf(err, "contentstore: retrieve: entry %d", e.ID)
		}
		runes := []rune(decoded)

		blockStartChar := firstBlock * int(e.BlockSizeCharacters)
		lo := starts[i] - blockStartChar
		hi := ends[i] - blockStartChar
		if lo < 0 {
			lo = 0
		}
		if hi > len(runes) {
			hi = len(runes)
		}
		results[i] = string(runes[lo:hi])
	}
	return results, nil
}

// Delete marks entry id as deleted. Grounded on
// ContentStoreDirUtf8.delete: the TOC record is kept (so its id and file
// space are never reused) but flagged, and its content becomes
// unretrievable. The underlying bytes are not reclaimed — the spec
// explicitly excludes compaction (spec §7 Non-goals).
func (s *Store) Delete(id int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	e, ok := s.toc.Get(id)
	if !ok || e.Deleted {
		return nil
	}
	e.Deleted = true
	s.tocModified = true
	s.opts.Metrics.EntriesDeleted.Inc()
	return nil
}

// EntryStats summarizes one TOC entry for introspection. The original
// implementation has no equivalent — ContentStoreDirUtf8's toc map is
// private with no enumeration method — but cmd/contentstore's stat
// subcommand needs a way to walk every entry without reaching into the
// store's internals.
type EntryStats struct {
	ID                    int32
	FileID                int32
	EntryLengthBytes      int32
	EntryLengthCharacters int32
	NumBlocks             int
	Deleted               bool
}

// Stat returns summary statistics for every entry in the TOC, live and
// deleted.
func (s *Store) Stat() ([]EntryStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]EntryStats, 0, s.toc.Len())
	s.toc.All(func(id int32, e *tocentry.Entry) bool {
		out = append(out, EntryStats{
			ID:                    id,
			FileID:                e.FileID,
			EntryLengthBytes:      e.EntryLengthBytes,
			EntryLengthCharacters: e.EntryLengthCharacters,
			NumBlocks:             len(e.BlockOffsetBytes),
			Deleted:               e.Deleted,
		})
		return true
	})
	return out, nil
}

// SetBlockSizeCharacters changes the block size used for entries stored
// from this point on. Existing entries keep whatever block size they were
// written with, recorded per-entry in the TOC.
func (s *Store) SetBlockSizeCharacters(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blockSizeCharacters = int32(n)
}

// SetDataFileSizeHint changes the rollover threshold. It takes effect at the
// next entry's first block write, including the check against the data file
// that is currently open.
func (s *Store) SetDataFileSizeHint(n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.DataFileSizeHint = n
}

// Close flushes any modified TOC to disk and releases the store's open
// files. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.tocModified {
		entries := make(map[int32]*tocentry.Entry, s.toc.Len())
		s.toc.All(func(id int32, e *tocentry.Entry) bool {
			entries[id] = e
			return true
		})
		if werr := s.tocFile.Write(entries); werr != nil {
			err = errors.Wrap(werr, "contentstore: close: write toc")
		}
	}
	if derr := s.dataFiles.Close(); derr != nil && err == nil {
		err = derr
	}
	return err
}
