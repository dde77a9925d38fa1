//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cascadesearch/retrieval-cascade/internal/server"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.json>",
		Short: "Add documents from a JSON file to the corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			var docs []server.DocumentPayload
			if err := json.Unmarshal(data, &docs); err != nil {
				return fmt.Errorf("%s must be a JSON array of documents: %w", args[0], err)
			}

			if err := postJSON("POST", "/v1/documents", docs, nil); err != nil {
				return err
			}
			fmt.Printf("seeded %d documents\n", len(docs))
			return nil
		},
	}
}
