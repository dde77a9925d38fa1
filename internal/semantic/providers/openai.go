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
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIDefaultModel   = "text-embedding-3-small"
	openAIDefaultTimeout = 60 * time.Second
)

// OpenAI is a semantic.Embedder backed by the OpenAI embeddings API.
type OpenAI struct {
	gate *semantic.LoadGate

	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
}

// OpenAIOption configures an OpenAI provider.
type OpenAIOption func(*OpenAI)

// WithOpenAIModel overrides the embedding model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAI) { p.model = model }
}

// WithOpenAIBaseURL overrides the API base URL.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(p *OpenAI) { p.baseURL = url }
}

// WithOpenAIHTTPClient sets a custom HTTP client.
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(p *OpenAI) { p.httpClient = client }
}

// NewOpenAI creates an OpenAI embedding provider. apiKey may be empty
// when baseURL points at a local-compatible server.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	p := &OpenAI{
		gate:       semantic.NewLoadGate(),
		httpClient: &http.Client{Timeout: openAIDefaultTimeout},
		baseURL:    openAIDefaultBaseURL,
		apiKey:     apiKey,
		model:      openAIDefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load issues a one-item embedding call to establish the provider's
// actual output dimension, per spec's Open Question (d): config may
// advertise a dimension, but the model's real output always wins.
func (p *OpenAI) Load(ctx context.Context) error {
	return p.gate.Ensure(ctx, func(ctx context.Context) error {
		vec, err := p.embedOne(ctx, "dimension probe")
		if err != nil {
			return fmt.Errorf("openai: load failed: %w", err)
		}
		p.dimensions = len(vec)
		return nil
	})
}

// Ready reports whether Load has succeeded.
func (p *OpenAI) Ready() bool { return p.gate.Ready() }

// Embed generates an embedding for a single text.
func (p *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if !p.Ready() {
		return nil, &semantic.NotReadyError{Provider: p.ModelName()}
	}
	return p.embedOne(ctx, text)
}

// Dimensions returns the dimensionality observed at load time.
func (p *OpenAI) Dimensions() int { return p.dimensions }

// ModelName returns the configured model name.
func (p *OpenAI) ModelName() string { return "openai:" + p.model }

type openAIEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *OpenAI) embedOne(ctx context.Context, text string) ([]float32, error) {
	reqBody := openAIEmbeddingRequest{Model: p.model, Input: []string{text}}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("openai: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("openai: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAIErrorResponse
		_ = json.Unmarshal(body, &errResp)
		return nil, fmt.Errorf("openai: API error (status %d): %s", resp.StatusCode, errResp.Error.Message)
	}

	var embResp openAIEmbeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("openai: failed to parse response: %w", err)
	}
	if len(embResp.Data) == 0 {
		return nil, fmt.Errorf("openai: no embedding returned")
	}
	return embResp.Data[0].Embedding, nil
}

var _ semantic.Embedder = (*OpenAI)(nil)
