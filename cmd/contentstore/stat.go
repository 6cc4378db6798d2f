// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/corpusindex/contentstore"
)

var statCmd = &cobra.Command{
	Use:   "stat <dir>",
	Short: "print a table and sparkline of entry sizes",
	Args:  cobra.ExactArgs(1),
	Run:   runStat,
}

func runStat(cmd *cobra.Command, args []string) {
	stdout := cmd.OutOrStdout()

	s, err := contentstore.Open(args[0], false, nil)
	if err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}
	defer s.Close()

	entries, err := s.Stat()
	if err != nil {
		fmt.Fprintf(stdout, "%s\n", err)
		return
	}

	sampler := contentstore.NewLatencySampler()
	blockCounts := make([]float64, 0, len(entries))

	table := tablewriter.NewWriter(stdout)
	table.SetHeader([]string{"ID", "File", "Bytes", "Chars", "Blocks", "Deleted"})
	for _, e := range entries {
		start := time.Now()
		if !e.Deleted {
			if _, _, err := s.Retrieve(e.ID); err != nil {
				fmt.Fprintf(stdout, "entry %d: %s\n", e.ID, err)
				continue
			}
		}
		sampler.Record(time.Since(start).Nanoseconds())

		table.Append([]string{
			fmt.Sprintf("%d", e.ID),
			fmt.Sprintf("%d", e.FileID),
			fmt.Sprintf("%d", e.EntryLengthBytes),
			fmt.Sprintf("%d", e.EntryLengthCharacters),
			fmt.Sprintf("%d", e.NumBlocks),
			fmt.Sprintf("%t", e.Deleted),
		})
		blockCounts = append(blockCounts, float64(e.NumBlocks))
	}
	table.Render()

	fmt.Fprintf(stdout, "\nretrieve latency: p50=%dns p99=%dns\n",
		sampler.Percentile(50), sampler.Percentile(99))

	if len(blockCounts) >= 2 {
		graph := asciigraph.Plot(blockCounts, asciigraph.Height(10), asciigraph.Caption("blocks per entry"))
		fmt.Fprintln(stdout, graph)
	}
}
