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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIEmbedEstablishesDimensionFromResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openAIEmbeddingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(openAIEmbeddingResponse{
			Data: []struct {
				Embedding []float32 `json:"embedding"`
				Index     int       `json:"index"`
			}{{Embedding: []float32{0.1, 0.2, 0.3, 0.4}, Index: 0}},
		})
	}))
	defer srv.Close()

	p := NewOpenAI("test-key", WithOpenAIBaseURL(srv.URL))
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Dimensions() != 4 {
		t.Errorf("Dimensions() = %d, want 4", p.Dimensions())
	}

	v, err := p.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(v) != 4 {
		t.Errorf("Embed returned %d dims, want 4", len(v))
	}
}

func TestOpenAIEmbedBeforeLoadFails(t *testing.T) {
	p := NewOpenAI("test-key")
	_, err := p.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatalf("Embed before Load should fail")
	}
}

func TestOpenAIErrorStatusSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(openAIErrorResponse{Error: struct {
			Message string `json:"message"`
		}{Message: "invalid api key"}})
	}))
	defer srv.Close()

	p := NewOpenAI("bad-key", WithOpenAIBaseURL(srv.URL))
	if err := p.Load(context.Background()); err == nil {
		t.Fatalf("Load should fail on 401")
	}
}

func TestVoyageEmbedEstablishesDimensionFromResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req voyageEmbeddingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.InputType != "document" {
			t.Errorf("InputType = %q, want document", req.InputType)
		}
		_ = json.NewEncoder(w).Encode(voyageEmbeddingResponse{
			Data: []struct {
				Embedding []float32 `json:"embedding"`
				Index     int       `json:"index"`
			}{{Embedding: []float32{0.5, 0.5, 0.5}, Index: 0}},
		})
	}))
	defer srv.Close()

	p := NewVoyage("test-key", WithVoyageBaseURL(srv.URL))
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Dimensions() != 3 {
		t.Errorf("Dimensions() = %d, want 3", p.Dimensions())
	}
}

func TestOllamaEmbedConvertsFloat64ToFloat32(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbeddingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float64{1.5, 2.5}})
	}))
	defer srv.Close()

	p := NewOllama(WithOllamaBaseURL(srv.URL))
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Dimensions() != 2 {
		t.Errorf("Dimensions() = %d, want 2", p.Dimensions())
	}

	v, err := p.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if v[0] != 1.5 || v[1] != 2.5 {
		t.Errorf("Embed() = %v, want [1.5 2.5]", v)
	}
}

func TestOllamaNoBatchAPICallsEmbedPerText(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float64{1}})
	}))
	defer srv.Close()

	p := NewOllama(WithOllamaBaseURL(srv.URL))
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	calls = 0

	for _, text := range []string{"a", "b", "c"} {
		if _, err := p.Embed(context.Background(), text); err != nil {
			t.Fatalf("Embed(%q): %v", text, err)
		}
	}
	if calls != 3 {
		t.Errorf("server received %d calls, want 3 (one per text, no batch endpoint)", calls)
	}
}
