// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package contentstore_test

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/cockroachdb/datadriven"

	"github.com/corpusindex/contentstore"
	"github.com/corpusindex/contentstore/vfs"
)

// TestRetrieveParts runs boundary scenarios for RetrieveParts from
// testdata/retrieve_parts against a single store instance, grounded on
// pebble's compaction_iter_test.go use of datadriven.RunTest with a switch
// over d.Cmd.
func TestRetrieveParts(t *testing.T) {
	var (
		dir   string
		fs    *vfs.MemFS
		store *contentstore.Store
	)

	argInt := func(d *datadriven.TestData, key string) int32 {
		for _, arg := range d.CmdArgs {
			if arg.Key == key {
				v, _ := strconv.Atoi(arg.Vals[0])
				return int32(v)
			}
		}
		return 0
	}

	datadriven.RunTest(t, "testdata/retrieve_parts", func(t *testing.T, d *datadriven.TestData) string {
		switch d.Cmd {
		case "open":
			dir = t.TempDir()
			fs = vfs.NewMem()
			blockSize := 4000
			for _, arg := range d.CmdArgs {
				if arg.Key == "block-size" {
					v, err := strconv.Atoi(arg.Vals[0])
					if err != nil {
						return err.Error()
					}
					blockSize = v
				}
			}
			var err error
			store, err = contentstore.Open(dir, true, &contentstore.Options{FS: fs, BlockSizeCharacters: blockSize})
			if err != nil {
				return err.Error()
			}
			return "ok"

		case "store":
			id, err := store.Store(d.Input)
			if err != nil {
				return err.Error()
			}
			return fmt.Sprintf("id=%d", id)

		case "retrieve":
			id := argInt(d, "id")
			content, ok, err := store.Retrieve(id)
			if err != nil {
				return err.Error()
			}
			if !ok {
				return "(absent)"
			}
			return content

		case "retrieve-parts":
			id := argInt(d, "id")
			start := argInt(d, "start")
			end := argInt(d, "end")
			parts, ok, err := store.RetrieveParts(id, []int{int(start)}, []int{int(end)})
			if err != nil {
				return err.Error()
			}
			if !ok {
				return "(absent)"
			}
			return parts[0]

		case "delete":
			id := argInt(d, "id")
			if err := store.Delete(id); err != nil {
				return err.Error()
			}
			return "ok"

		case "reopen":
			if err := store.Close(); err != nil {
				return err.Error()
			}
			var err error
			store, err = contentstore.Open(dir, false, &contentstore.Options{FS: fs})
			if err != nil {
				return err.Error()
			}
			return "ok"

		default:
			return fmt.Sprintf("unknown command %q", d.Cmd)
		}
	})
}
