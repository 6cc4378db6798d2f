// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package contentstore

import "github.com/cockroachdb/errors"

// Sentinel errors returned by Store methods. Grounded on pebble's base
// package (internal/base/errors.go), which defines its sentinels the same
// way: package-level vars built with cockroachdb/errors, checked by callers
// with errors.Is.
var (
	// ErrClosed is returned by any Store method called after Close.
	ErrClosed = errors.New("contentstore: store is closed")

	// ErrShapeMismatch is returned by RetrieveParts when starts and ends
	// have different lengths.
	ErrShapeMismatch = errors.New("contentstore: starts and ends must have the same length")

	// ErrIllegalValues is returned by RetrieveParts when a start or end
	// offset is negative (other than the (-1, -1) whole-entry pair).
	ErrIllegalValues = errors.New("contentstore: illegal start/end offsets")

	// ErrOutOfRange is returned by RetrieveParts when a requested offset
	// falls outside the entry's character length.
	ErrOutOfRange = errors.New("contentstore: requested offset out of range")

	// ErrEmptySnippet is returned by RetrieveParts when an offset pair
	// names a negative-length span (end before start), or a zero-length
	// span of a non-empty entry (start == end but the entry itself isn't
	// empty).
	ErrEmptySnippet = errors.New("contentstore: empty or negative-length snippet")

	// ErrShortBlock is returned by RetrieveParts/Retrieve when fewer bytes
	// than a block's recorded length could be read off a data file.
	ErrShortBlock = errors.New("contentstore: short read on data file block")

	// ErrEmptyBlock signals an attempt to write a zero-length block to a
	// data file, which would desynchronize block offset accounting. This
	// should be unreachable; its presence guards an internal invariant.
	ErrEmptyBlock = errors.New("contentstore: internal: attempted to write an empty block")
)
