// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corpusindex/contentstore"
)

var createCmd = &cobra.Command{
	Use:   "create <dir>",
	Short: "create a new, empty content store directory",
	Args:  cobra.ExactArgs(1),
	Run:   runCreate,
}

func runCreate(cmd *cobra.Command, args []string) {
	stdout := cmd.OutOrStdout()
	s, err := contentstore.Open(args[0], true, nil)
	if err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}
	if err := s.Close(); err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}
	fmt.Fprintf(stdout, "created %s\n", args[0])
}
