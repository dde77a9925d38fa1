//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package providers

import (
	"fmt"
	"strings"

	"github.com/cascadesearch/retrieval-cascade/internal/config"
	"github.com/cascadesearch/retrieval-cascade/internal/semantic"
)

// New builds the Stage-3 semantic.Embedder named by cfg.Provider.
// seedTexts is only consulted for the "local" provider, whose
// vocabulary is built from the corpus at Load time.
func New(cfg config.EmbeddingConfig, apiKey string, seedTexts []string) (semantic.Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai embedding provider requires an API key")
		}
		opts := []OpenAIOption{}
		if cfg.Model != "" {
			opts = append(opts, WithOpenAIModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, WithOpenAIBaseURL(cfg.BaseURL))
		}
		return NewOpenAI(apiKey, opts...), nil

	case "voyage":
		if apiKey == "" {
			return nil, fmt.Errorf("voyage embedding provider requires an API key")
		}
		opts := []VoyageOption{}
		if cfg.Model != "" {
			opts = append(opts, WithVoyageModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, WithVoyageBaseURL(cfg.BaseURL))
		}
		return NewVoyage(apiKey, opts...), nil

	case "ollama":
		opts := []OllamaOption{}
		if cfg.Model != "" {
			opts = append(opts, WithOllamaModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, WithOllamaBaseURL(cfg.BaseURL))
		}
		return NewOllama(opts...), nil

	case "local", "":
		return NewLocal(seedTexts), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
