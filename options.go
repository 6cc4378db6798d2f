// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package contentstore

import "github.com/corpusindex/contentstore/vfs"

// Default tuning values (spec §6.3).
const (
	DefaultBlockSizeCharacters = 4000
	DefaultDataFileSizeHint    = 100_000_000
	DefaultWriteMapReserve     = 1_000_000
)

// Options bundles the content store's tunables and ambient collaborators.
// The zero value is valid; EnsureDefaults fills in anything left unset.
// Grounded on pebble's Options/EnsureDefaults pattern (options.go).
type Options struct {
	// BlockSizeCharacters is the fixed character-block size used for
	// entries created after this setting takes effect.
	BlockSizeCharacters int

	// DataFileSizeHint is the preferred maximum size, in bytes, of a data
	// file before rollover to the next one. Since rollover only happens
	// between entries, a single large entry can exceed it.
	DataFileSizeHint int64

	// WriteMapReserve is how many extra bytes to reserve past the current
	// TOC file length when mapping it for writing.
	WriteMapReserve int

	// FS is the filesystem the data-file set is built on. Defaults to the
	// real OS filesystem. The TOC's mapped region always uses the real
	// filesystem regardless of this setting (see internal/toc).
	FS vfs.FS

	// Logger receives diagnostic messages.
	Logger Logger

	// Metrics receives instrumentation for every operation. Defaults to a
	// fresh, unregistered set of collectors.
	Metrics *Metrics
}

// EnsureDefaults returns o with every unset field filled in with its
// default value. It is safe to call on a nil *Options.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.BlockSizeCharacters <= 0 {
		o.BlockSizeCharacters = DefaultBlockSizeCharacters
	}
	if o.DataFileSizeHint <= 0 {
		o.DataFileSizeHint = DefaultDataFileSizeHint
	}
	if o.WriteMapReserve <= 0 {
		o.WriteMapReserve = DefaultWriteMapReserve
	}
	if o.FS == nil {
		o.FS = vfs.Default
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger{}
	}
	if o.Metrics == nil {
		o.Metrics = NewMetrics()
	}
	return o
}
