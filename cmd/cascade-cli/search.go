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
	"os"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/cascadesearch/retrieval-cascade/internal/server"
)

func newSearchCommand() *cobra.Command {
	var (
		userID string
		limit  int
		quick  bool
	)

	cmd := &cobra.Command{
		Use:   "search <query terms...>",
		Short: "Run a search against the cascade",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/v1/search"
			if quick {
				path = "/v1/search/quick"
			}

			var resp server.SearchResponsePayload
			err := postJSON("POST", path, server.SearchRequestPayload{
				Query:  strings.Join(args, " "),
				UserID: userID,
				Limit:  limit,
			}, &resp)
			if err != nil {
				return err
			}

			printResults(resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id for Stage-4 personalization")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 = server default)")
	cmd.Flags().BoolVar(&quick, "quick", false, "run Stage-1 quickSearch instead of the full cascade")

	return cmd
}

func printResults(resp server.SearchResponsePayload) {
	tbl := table.New("Score", "ID", "Title", "URL").WithWriter(os.Stdout)
	for _, r := range resp.Data.Results {
		tbl.AddRow(fmt.Sprintf("%.4f", r.Score), r.ID, r.Title, r.URL)
	}
	tbl.Print()

	fmt.Printf("\n%d results (total candidates: %d) in %.2fms\n",
		len(resp.Data.Results), resp.Data.TotalCount, resp.Data.ExecutionTime)
	fmt.Printf("layer1=%d layer2=%d layer3=%d layer4=%d\n",
		resp.Data.LayerStats.Layer1.Count,
		resp.Data.LayerStats.Layer2.Count,
		resp.Data.LayerStats.Layer3.Count,
		resp.Data.LayerStats.Layer4.Count)
}
