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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cascadesearch/retrieval-cascade/internal/semantic"
)

const (
	ollamaDefaultBaseURL = "http://localhost:11434"
	ollamaDefaultModel   = "nomic-embed-text"
	ollamaDefaultTimeout = 60 * time.Second
)

// Ollama is a semantic.Embedder backed by a local Ollama server. Unlike
// the hosted providers, it has no batch endpoint: every call to Embed
// is a single round trip.
type Ollama struct {
	gate *semantic.LoadGate

	httpClient *http.Client
	baseURL    string
	model      string
	dimensions int
}

// OllamaOption configures an Ollama provider.
type OllamaOption func(*Ollama)

// WithOllamaModel overrides the embedding model.
func WithOllamaModel(model string) OllamaOption {
	return func(p *Ollama) { p.model = model }
}

// WithOllamaBaseURL overrides the server's base URL.
func WithOllamaBaseURL(url string) OllamaOption {
	return func(p *Ollama) { p.baseURL = url }
}

// WithOllamaHTTPClient sets a custom HTTP client.
func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(p *Ollama) { p.httpClient = client }
}

// NewOllama creates an Ollama embedding provider pointed at a local or
// remote Ollama server.
func NewOllama(opts ...OllamaOption) *Ollama {
	p := &Ollama{
		gate:       semantic.NewLoadGate(),
		httpClient: &http.Client{Timeout: ollamaDefaultTimeout},
		baseURL:    ollamaDefaultBaseURL,
		model:      ollamaDefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load probes the server once to establish the real output dimension.
func (p *Ollama) Load(ctx context.Context) error {
	return p.gate.Ensure(ctx, func(ctx context.Context) error {
		vec, err := p.embedOne(ctx, "dimension probe")
		if err != nil {
			return fmt.Errorf("ollama: load failed: %w", err)
		}
		p.dimensions = len(vec)
		return nil
	})
}

// Ready reports whether Load has succeeded.
func (p *Ollama) Ready() bool { return p.gate.Ready() }

// Embed generates an embedding for a single text.
func (p *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	if !p.Ready() {
		return nil, &semantic.NotReadyError{Provider: p.ModelName()}
	}
	return p.embedOne(ctx, text)
}

// Dimensions returns the dimensionality observed at load time.
func (p *Ollama) Dimensions() int { return p.dimensions }

// ModelName returns the configured model name.
func (p *Ollama) ModelName() string { return "ollama:" + p.model }

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"` // Ollama returns float64
}

func (p *Ollama) embedOne(ctx context.Context, text string) ([]float32, error) {
	reqBody := ollamaEmbeddingRequest{Model: p.model, Prompt: text}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("ollama: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("ollama: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ollama: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: API error (status %d): %s", resp.StatusCode, string(body))
	}

	var embResp ollamaEmbeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("ollama: failed to parse response: %w", err)
	}
	if len(embResp.Embedding) == 0 {
		return nil, fmt.Errorf("ollama: no embedding returned")
	}

	embedding := make([]float32, len(embResp.Embedding))
	for i, v := range embResp.Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

var _ semantic.Embedder = (*Ollama)(nil)
