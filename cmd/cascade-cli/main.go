//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Command cascade-cli is a thin HTTP client for the retrieval cascade
// server: seed a corpus from a file, run searches, and inspect stats.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var serverURL string

func main() {
	root := &cobra.Command{
		Use:   "cascade-cli",
		Short: "Command-line client for the retrieval cascade server",
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "cascade server base URL")

	root.AddCommand(newSeedCommand())
	root.AddCommand(newSearchCommand())
	root.AddCommand(newBooleanCommand())
	root.AddCommand(newStatsCommand())
	root.AddCommand(newHealthCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
