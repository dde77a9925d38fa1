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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newBooleanCommand() *cobra.Command {
	var operator string

	cmd := &cobra.Command{
		Use:   "boolean <term...>",
		Short: "Run a Stage-1 boolean search (AND/OR/NOT)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Data struct {
					IDs []string `json:"ids"`
				} `json:"data"`
			}

			err := postJSON("POST", "/v1/search/boolean", map[string]any{
				"terms":    args,
				"operator": strings.ToUpper(operator),
			}, &resp)
			if err != nil {
				return err
			}

			for _, id := range resp.Data.IDs {
				fmt.Println(id)
			}
			fmt.Printf("%d matches\n", len(resp.Data.IDs))
			return nil
		},
	}

	cmd.Flags().StringVar(&operator, "op", "AND", "boolean operator: AND, OR, or NOT")
	return cmd
}
