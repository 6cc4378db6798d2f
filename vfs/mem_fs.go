// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package vfs

import (
	"io"
	"os"
	"path"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// MemFS is an in-memory filesystem, adapted from pebble's vfs/mem_fs.go and
// reduced to what the data-file set (component D) exercises: sequential
// append-only writers and random-access readers over a handful of named
// files per store directory. It has no notion of directories beyond name
// prefixes, which is all the content store ever lists.
type MemFS struct {
	mu    sync.Mutex
	files map[string]*memFileData
}

// NewMem returns a new in-memory filesystem.
func NewMem() *MemFS {
	return &MemFS{files: make(map[string]*memFileData)}
}

type memFileData struct {
	mu       sync.Mutex
	data     []byte
	modified time.Time
}

func (f *memFileData) Stat() os.FileInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return memFileInfo{size: int64(len(f.data)), modTime: f.modified}
}

type memFileInfo struct {
	size    int64
	modTime time.Time
}

func (fi memFileInfo) Name() string       { return "" }
func (fi memFileInfo) Size() int64        { return fi.size }
func (fi memFileInfo) Mode() os.FileMode  { return 0o666 }
func (fi memFileInfo) ModTime() time.Time { return fi.modTime }
func (fi memFileInfo) IsDir() bool        { return false }
func (fi memFileInfo) Sys() interface{}   { return nil }

func (fs *MemFS) Create(name string) (File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	d := &memFileData{modified: time.Now()}
	fs.files[name] = d
	return &memFile{name: name, data: d}, nil
}

func (fs *MemFS) OpenForAppend(name string) (File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	d, ok := fs.files[name]
	if !ok {
		d = &memFileData{modified: time.Now()}
		fs.files[name] = d
	}
	return &memFile{name: name, data: d, appendOnly: true}, nil
}

func (fs *MemFS) Open(name string) (File, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	d, ok := fs.files[name]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	return &memFile{name: name, data: d, readOnly: true}, nil
}

func (fs *MemFS) Remove(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, name)
	return nil
}

func (fs *MemFS) MkdirAll(dir string, perm os.FileMode) error {
	return nil
}

func (fs *MemFS) List(dir string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var names []string
	prefix := dir
	if len(prefix) > 0 && prefix[len(prefix)-1] != '/' {
		prefix += "/"
	}
	for name := range fs.files {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			names = append(names, name[len(prefix):])
		}
	}
	return names, nil
}

func (fs *MemFS) Stat(name string) (os.FileInfo, error) {
	fs.mu.Lock()
	d, ok := fs.files[name]
	fs.mu.Unlock()
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
	}
	return d.Stat(), nil
}

func (fs *MemFS) PathJoin(elem ...string) string {
	return path.Join(elem...)
}

func (fs *MemFS) PathBase(p string) string {
	return path.Base(p)
}

type memFile struct {
	name       string
	data       *memFileData
	pos        int
	readOnly   bool
	appendOnly bool
}

func (f *memFile) Close() error { return nil }

func (f *memFile) Read(p []byte) (int, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()
	if f.pos >= len(f.data.data) {
		return 0, io.EOF
	}
	n := copy(p, f.data.data[f.pos:])
	f.pos += n
	return n, nil
}

func (f *memFile) ReadAt(p []byte, off int64) (int, error) {
	f.data.mu.Lock()
	defer f.data.mu.Unlock()
	if off < 0 || off > int64(len(f.data.data)) {
		return 0, errors.Newf("contentstore: mem_fs: invalid offset %d", off)
	}
	n := copy(p, f.data.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.readOnly {
		return 0, errors.Newf("contentstore: mem_fs: %s is read-only", f.name)
	}
	f.data.mu.Lock()
	defer f.data.mu.Unlock()
	if f.appendOnly {
		f.pos = len(f.data.data)
	}
	if f.pos+len(p) > len(f.data.data) {
		grown := make([]byte, f.pos+len(p))
		copy(grown, f.data.data)
		f.data.data = grown
	}
	n := copy(f.data.data[f.pos:], p)
	f.pos += n
	f.data.modified = time.Now()
	return n, nil
}

func (f *memFile) Stat() (os.FileInfo, error) {
	return f.data.Stat(), nil
}

func (f *memFile) Sync() error { return nil }

var _ File = (*memFile)(nil)
