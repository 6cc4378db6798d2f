// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/corpusindex/contentstore"
)

var getCmd = &cobra.Command{
	Use:   "get <dir> <id> [start] [end]",
	Short: "retrieve an entry, or a character-offset slice of one",
	Args:  cobra.RangeArgs(2, 4),
	Run:   runGet,
}

func runGet(cmd *cobra.Command, args []string) {
	stdout := cmd.OutOrStdout()
	dir := args[0]
	id, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		fmt.Fprintf(stdout, "invalid id %q: %s\n", args[1], err)
		return
	}

	s, err := contentstore.Open(dir, false, nil)
	if err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}
	defer s.Close()

	if len(args) == 2 {
		content, ok, err := s.Retrieve(int32(id))
		if err != nil {
			fmt.Fprintf(stdout, "%s\n", err)
			return
		}
		if !ok {
			fmt.Fprintf(stdout, "no such entry: %d\n", id)
			return
		}
		fmt.Fprintln(stdout, content)
		return
	}

	if len(args) != 4 {
		fmt.Fprintf(stdout, "start and end must both be given\n")
		return
	}
	start, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Fprintf(stdout, "invalid start %q: %s\n", args[2], err)
		return
	}
	end, err := strconv.Atoi(args[3])
	if err != nil {
		fmt.Fprintf(stdout, "invalid end %q: %s\n", args[3], err)
		return
	}
	parts, ok, err := s.RetrieveParts(int32(id), []int{start}, []int{end})
	if err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}
	if !ok {
		fmt.Fprintf(stdout, "no such entry: %d\n", id)
		return
	}
	fmt.Fprintln(stdout, parts[0])
}
