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
	voyageDefaultBaseURL = "https://api.voyageai.com/v1"
	voyageDefaultModel   = "voyage-3"
	voyageDefaultTimeout = 60 * time.Second
)

// Voyage is a semantic.Embedder backed by the Voyage AI embeddings
// API.
type Voyage struct {
	gate *semantic.LoadGate

	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
}

// VoyageOption configures a Voyage provider.
type VoyageOption func(*Voyage)

// WithVoyageModel overrides the embedding model.
func WithVoyageModel(model string) VoyageOption {
	return func(p *Voyage) { p.model = model }
}

// WithVoyageBaseURL overrides the API base URL.
func WithVoyageBaseURL(url string) VoyageOption {
	return func(p *Voyage) { p.baseURL = url }
}

// WithVoyageHTTPClient sets a custom HTTP client.
func WithVoyageHTTPClient(client *http.Client) VoyageOption {
	return func(p *Voyage) { p.httpClient = client }
}

// NewVoyage creates a Voyage embedding provider.
func NewVoyage(apiKey string, opts ...VoyageOption) *Voyage {
	p := &Voyage{
		gate:       semantic.NewLoadGate(),
		httpClient: &http.Client{Timeout: voyageDefaultTimeout},
		baseURL:    voyageDefaultBaseURL,
		apiKey:     apiKey,
		model:      voyageDefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load probes the API once to establish the real output dimension.
func (p *Voyage) Load(ctx context.Context) error {
	return p.gate.Ensure(ctx, func(ctx context.Context) error {
		vec, err := p.embedOne(ctx, "dimension probe")
		if err != nil {
			return fmt.Errorf("voyage: load failed: %w", err)
		}
		p.dimensions = len(vec)
		return nil
	})
}

// Ready reports whether Load has succeeded.
func (p *Voyage) Ready() bool { return p.gate.Ready() }

// Embed generates an embedding for a single text.
func (p *Voyage) Embed(ctx context.Context, text string) ([]float32, error) {
	if !p.Ready() {
		return nil, &semantic.NotReadyError{Provider: p.ModelName()}
	}
	return p.embedOne(ctx, text)
}

// Dimensions returns the dimensionality observed at load time.
func (p *Voyage) Dimensions() int { return p.dimensions }

// ModelName returns the configured model name.
func (p *Voyage) ModelName() string { return "voyage:" + p.model }

type voyageEmbeddingRequest struct {
	Model     string   `json:"model"`
	Input     []string `json:"input"`
	InputType string   `json:"input_type,omitempty"`
}

type voyageEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

type voyageErrorResponse struct {
	Detail string `json:"detail"`
}

func (p *Voyage) embedOne(ctx context.Context, text string) ([]float32, error) {
	reqBody := voyageEmbeddingRequest{Model: p.model, Input: []string{text}, InputType: "document"}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("voyage: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("voyage: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voyage: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("voyage: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp voyageErrorResponse
		_ = json.Unmarshal(body, &errResp)
		return nil, fmt.Errorf("voyage: API error (status %d): %s", resp.StatusCode, errResp.Detail)
	}

	var embResp voyageEmbeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("voyage: failed to parse response: %w", err)
	}
	if len(embResp.Data) == 0 {
		return nil, fmt.Errorf("voyage: no embedding returned")
	}
	return embResp.Data[0].Embedding, nil
}

var _ semantic.Embedder = (*Voyage)(nil)
