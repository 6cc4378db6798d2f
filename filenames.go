// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package contentstore

import (
	"github.com/cockroachdb/errors"

	"github.com/corpusindex/contentstore/vfs"
)

// tocFileName is the fixed name of the table-of-contents file within a store
// directory (spec §3.2).
const tocFileName = "toc.dat"

// Type marker constants. Grounded on ContentStoreDirUtf8's companion
// "<type>.version" file, which records what kind of content store a
// directory holds and at what format version, so a reader can refuse to
// open a directory written by an incompatible implementation.
const (
	storeTypeName    = "utf8"
	storeTypeVersion = "1"
)

// typeMarkerFileName encodes both the store type and its format version into
// the filename itself (spec §6.1: "empty file whose name encodes
// (\"utf8\", \"1\")"); the file's body is never read or written.
func typeMarkerFileName() string {
	return storeTypeName + "." + storeTypeVersion + ".marker"
}

// writeTypeMarker creates the (empty) type marker file in dir, overwriting
// any existing one. Called once, when a store is created.
func writeTypeMarker(fs vfs.FS, dir string) error {
	f, err := fs.Create(fs.PathJoin(dir, typeMarkerFileName()))
	if err != nil {
		return errors.Wrap(err, "contentstore: write type marker")
	}
	defer f.Close()
	return f.Sync()
}
