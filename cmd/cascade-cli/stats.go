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

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/cascadesearch/retrieval-cascade/internal/server"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-stage corpus statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats server.StatsResponse
			if err := getJSON("/v1/stats", &stats); err != nil {
				return err
			}

			tbl := table.New("Stage", "Metric", "Value").WithWriter(os.Stdout)
			tbl.AddRow("1 (lexical)", "documents", stats.Layer1.DocumentCount)
			tbl.AddRow("1 (lexical)", "unique terms", stats.Layer1.UniqueTermCount)
			tbl.AddRow("2 (relevance)", "documents", stats.Layer2.DocumentCount)
			tbl.AddRow("2 (relevance)", "avg length", fmt.Sprintf("%.1f", stats.Layer2.AverageLength))
			tbl.AddRow("3 (semantic)", "vectors", stats.Layer3.VectorCount)
			tbl.AddRow("3 (semantic)", "dimension", stats.Layer3.Dimension)
			tbl.AddRow("3 (semantic)", "model", stats.Layer3.ModelName)
			tbl.AddRow("4 (personalize)", "profiles", stats.Layer4.ProfileCount)
			tbl.Print()
			return nil
		},
	}
}

func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var health server.HealthResponse
			if err := getJSON("/v1/health", &health); err != nil {
				return err
			}
			fmt.Printf("status: %s\n", health.Status)
			fmt.Printf("layer1=%v layer2=%v layer3=%v layer4=%v\n",
				health.Layer1, health.Layer2, health.Layer3, health.Layer4)
			return nil
		},
	}
}
