// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package contentstore stores arbitrarily long strings by small integer id
// in a directory of compound files with a table of contents (TOC), and
// retrieves whole strings or arbitrary character-offset substrings without
// materializing the whole string.
//
// Strings are stored UTF-8 encoded to save disk space. To keep random access
// fast without decoding a whole document, each entry records "block
// offsets": byte offsets to the start of fixed-character-size blocks. Block
// byte size can exceed block character size because some UTF-8 characters
// take more than one byte — with a block size of 4000 characters, block
// offsets might be [0, 4011, 8015, 12020].
//
// This is a from-scratch Go rewrite of BlackLab's ContentStoreDirUtf8 (see
// DESIGN.md), built in the idiom of its teacher, github.com/cockroachdb/pebble.
package contentstore
