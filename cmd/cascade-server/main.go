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
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cascadesearch/retrieval-cascade/internal/cascade"
	"github.com/cascadesearch/retrieval-cascade/internal/config"
	"github.com/cascadesearch/retrieval-cascade/internal/document"
	"github.com/cascadesearch/retrieval-cascade/internal/metrics"
	"github.com/cascadesearch/retrieval-cascade/internal/semantic/providers"
	"github.com/cascadesearch/retrieval-cascade/internal/server"
)

// Version information - set via ldflags during build
var (
	version   = "1.0.0-alpha1"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	var (
		showVersion    = flag.Bool("version", false, "Show version information")
		showHelp       = flag.Bool("help", false, "Show help message")
		showOpenAPI    = flag.Bool("openapi", false, "Output OpenAPI specification and exit")
		configPath     = flag.String("config", "", "Path to configuration file")
		metricsEnabled = flag.Bool("metrics", false, "Enable Prometheus metrics on /v1/metrics")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Retrieval Cascade Server - four-stage cascading document retrieval

Usage:
    cascade-server [options]

Options:
    -config string
        Path to configuration file. If not specified, searches:
        1. /etc/cascade/cascade.yaml
        2. cascade.yaml (in binary directory)

    -metrics
        Enable Prometheus metrics on GET /v1/metrics

    -openapi
        Output OpenAPI v3 specification as JSON and exit

    -version
        Show version information and exit

    -help
        Show this help message and exit
`)
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("Retrieval Cascade Server\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Build Time: %s\n", buildTime)
		fmt.Printf("  Git Commit: %s\n", gitCommit)
		os.Exit(0)
	}

	if *showOpenAPI {
		spec := server.BuildOpenAPISpec()
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(spec); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode OpenAPI spec: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(*configPath, *metricsEnabled, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, metricsEnabled bool, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Info("configuration loaded",
		"embeddingProvider", cfg.Embedding.Provider,
		"maxFinalResults", cfg.Limits.MaxFinalResults)

	seedDocs, err := loadSeedCorpus(cfg.Corpus.SeedPath)
	if err != nil {
		return fmt.Errorf("failed to load seed corpus: %w", err)
	}

	seedTexts := make([]string, len(seedDocs))
	for i, d := range seedDocs {
		seedTexts[i] = d.CombinedText()
	}

	apiKey, err := config.LoadEmbeddingAPIKey(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("failed to load embedding API key: %w", err)
	}

	embedder, err := providers.New(cfg.Embedding, apiKey, seedTexts)
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}

	metricsManager := metrics.NoOpManager()
	if metricsEnabled {
		metricsManager = metrics.NewManager(metrics.Config{Enabled: true})
	}

	svc := cascade.New(cfg, embedder, metricsManager, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := svc.LoadEmbedder(ctx); err != nil {
		return fmt.Errorf("failed to load embedding provider: %w", err)
	}

	if len(seedDocs) > 0 {
		if err := svc.AddDocuments(context.Background(), seedDocs); err != nil {
			return fmt.Errorf("failed to seed corpus: %w", err)
		}
		logger.Info("seeded corpus", "documents", len(seedDocs))
	}

	watcher, err := startConfigWatcher(svc, configPath, logger)
	if err != nil {
		logger.Warn("configuration hot-reload disabled", "error", err)
	} else if watcher != nil {
		defer watcher.Stop()
	}

	srv := server.New(cfg, svc, metricsManager, logger)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-shutdownCh:
		logger.Info("received shutdown signal", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

func loadSeedCorpus(path string) ([]*document.Document, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []*document.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("seed corpus must be a JSON array of documents: %w", err)
	}
	return docs, nil
}

func startConfigWatcher(svc *cascade.Service, configPath string, logger *slog.Logger) (*config.Watcher, error) {
	if configPath == "" {
		return nil, nil
	}
	watcher, err := config.NewWatcher(configPath)
	if err != nil {
		return nil, err
	}
	watcher.OnChange(func(limits config.LimitsConfig, weights config.WeightsConfig) {
		logger.Info("configuration reloaded", "maxFinalResults", limits.MaxFinalResults)
		svc.SetTunables(limits, weights)
	})
	go func() {
		if err := watcher.Watch(context.Background()); err != nil {
			logger.Warn("config watcher stopped", "error", err)
		}
	}()
	return watcher, nil
}
