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

var deleteCmd = &cobra.Command{
	Use:   "delete <dir> <id>",
	Short: "mark an entry deleted",
	Args:  cobra.ExactArgs(2),
	Run:   runDelete,
}

func runDelete(cmd *cobra.Command, args []string) {
	stdout := cmd.OutOrStdout()
	id, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		fmt.Fprintf(stdout, "invalid id %q: %s\n", args[1], err)
		return
	}

	s, err := contentstore.Open(args[0], false, nil)
	if err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}
	defer s.Close()

	if err := s.Delete(int32(id)); err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}
	fmt.Fprintf(stdout, "deleted %d\n", id)
}
