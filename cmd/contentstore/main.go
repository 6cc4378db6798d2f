// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Command contentstore is a small introspection and load-testing tool for
// content store directories, grounded on pebble's cmd/pebble tool: one
// cobra root command and one package-level cobra.Command per subcommand.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contentstore [command] (flags)",
	Short: "content store inspection and load tool",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		createCmd,
		loadCmd,
		getCmd,
		deleteCmd,
		statCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
