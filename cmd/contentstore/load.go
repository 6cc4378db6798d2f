// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/corpusindex/contentstore"
)

var loadCmd = &cobra.Command{
	Use:   "load <dir> <file>...",
	Short: "store the contents of one or more files",
	Args:  cobra.MinimumNArgs(2),
	Run:   runLoad,
}

func runLoad(cmd *cobra.Command, args []string) {
	stdout := cmd.OutOrStdout()
	dir, files := args[0], args[1:]

	s, err := contentstore.Open(dir, false, nil)
	if err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}
	defer s.Close()

	// Reading each file is I/O-bound and independent; fan the reads out
	// across a worker group while Store itself stays serialized behind the
	// store's own mutex, so disk reads overlap without violating the
	// single-writer discipline.
	contents := make([]string, len(files))
	var g errgroup.Group
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			var buf []byte
			r := bufio.NewReader(f)
			chunk := make([]byte, 64*1024)
			for {
				n, err := r.Read(chunk)
				buf = append(buf, chunk[:n]...)
				if err != nil {
					break
				}
			}
			contents[i] = string(buf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}

	for i, path := range files {
		id, err := s.Store(contents[i])
		if err != nil {
			fmt.Fprintf(stdout, "%s: %s\n", path, err)
			continue
		}
		fmt.Fprintf(stdout, "%s -> id %d\n", path, id)
	}
}
