//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestValidateRejectsInvalidPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for port 0")
	}
}

func TestValidateRejectsUnknownEmbeddingProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embedding.Provider = "not-a-provider"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for unknown provider")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
	found := false
	for _, v := range verrs {
		if v.Field == "embedding.provider" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected embedding.provider error, got %v", verrs)
	}
}

func TestValidateRequiresModelForNetworkProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Embedding.Provider = "openai"
	cfg.Embedding.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing model")
	}
}

func TestValidateRejectsBM25BOutOfRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BM25.B = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for bm25.b > 1")
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cascade.yaml")
	yamlContent := `
server:
  port: 9090
embedding:
  provider: local
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Limits.MaxFinalResults != 20 {
		t.Errorf("Limits.MaxFinalResults = %d, want default 20", cfg.Limits.MaxFinalResults)
	}
	if cfg.BM25.K1 != 1.2 {
		t.Errorf("BM25.K1 = %v, want default 1.2", cfg.BM25.K1)
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	if _, err := Load("/nonexistent/cascade.yaml"); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestValidationErrorsJoinsMessages(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	got := errs.Error()
	if got != "a: bad; b: worse" {
		t.Errorf("ValidationErrors.Error() = %q", got)
	}
}
