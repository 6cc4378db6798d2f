// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package block implements the content store's block codec (component A):
// stateless transcoding between a run of characters and its UTF-8 byte
// encoding. Alignment of blocks to character boundaries is the ingestion
// engine's responsibility (store.Store); the codec itself does no bookkeeping.
package block

import (
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// ErrInvalidUTF8 is returned by Decode when the given bytes are not a valid
// UTF-8 sequence.
var ErrInvalidUTF8 = errors.New("contentstore: block: invalid UTF-8 sequence")

// Encode produces the UTF-8 byte sequence of s. Since Go strings are already
// UTF-8, this is a plain conversion; it exists as a named operation so
// callers (and future codecs) don't need to know that.
func Encode(s string) []byte {
	return []byte(s)
}

// Decode is the inverse of Encode: it converts a UTF-8 byte sequence back
// into a string, assuming b is aligned to character boundaries at both
// ends. It returns ErrInvalidUTF8 if b is not valid UTF-8.
func Decode(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}
