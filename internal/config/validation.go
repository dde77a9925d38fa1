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
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// ValidationError represents a single configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validEmbeddingProviders = []string{"openai", "voyage", "ollama", "local"}

// Validate checks the configuration for errors and returns all
// validation errors found.
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateLimits()...)
	errs = append(errs, c.validateWeights()...)
	errs = append(errs, c.validateBM25()...)
	errs = append(errs, c.validateEmbedding()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateServer() ValidationErrors {
	var errs ValidationErrors

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{Field: "server.port", Message: "must be between 1 and 65535"})
	}

	if c.Server.TLS.Enabled {
		if c.Server.TLS.CertFile == "" {
			errs = append(errs, ValidationError{Field: "server.tls.cert_file", Message: "required when TLS is enabled"})
		} else if _, err := os.Stat(expandPath(c.Server.TLS.CertFile)); err != nil {
			errs = append(errs, ValidationError{Field: "server.tls.cert_file", Message: fmt.Sprintf("file not found: %s", c.Server.TLS.CertFile)})
		}
		if c.Server.TLS.KeyFile == "" {
			errs = append(errs, ValidationError{Field: "server.tls.key_file", Message: "required when TLS is enabled"})
		} else if _, err := os.Stat(expandPath(c.Server.TLS.KeyFile)); err != nil {
			errs = append(errs, ValidationError{Field: "server.tls.key_file", Message: fmt.Sprintf("file not found: %s", c.Server.TLS.KeyFile)})
		}
	}

	return errs
}

func (c *Config) validateLimits() ValidationErrors {
	var errs ValidationErrors
	nonNegative := map[string]int{
		"limits.max_results_layer1": c.Limits.MaxResultsLayer1,
		"limits.max_results_layer2": c.Limits.MaxResultsLayer2,
		"limits.max_results_layer3": c.Limits.MaxResultsLayer3,
		"limits.max_final_results":  c.Limits.MaxFinalResults,
	}
	for field, value := range nonNegative {
		if value <= 0 {
			errs = append(errs, ValidationError{Field: field, Message: "must be positive"})
		}
	}
	return errs
}

func (c *Config) validateWeights() ValidationErrors {
	var errs ValidationErrors
	weights := map[string]float64{
		"weights.user_profile_weight": c.Weights.UserProfileWeight,
		"weights.context_weight":      c.Weights.ContextWeight,
		"weights.temporal_weight":     c.Weights.TemporalWeight,
	}
	for field, value := range weights {
		if value < 0 {
			errs = append(errs, ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	return errs
}

func (c *Config) validateBM25() ValidationErrors {
	var errs ValidationErrors
	if c.BM25.K1 < 0 {
		errs = append(errs, ValidationError{Field: "bm25.k1", Message: "must be non-negative"})
	}
	if c.BM25.B < 0 || c.BM25.B > 1 {
		errs = append(errs, ValidationError{Field: "bm25.b", Message: "must be between 0 and 1"})
	}
	return errs
}

func (c *Config) validateEmbedding() ValidationErrors {
	var errs ValidationErrors

	provider := strings.ToLower(c.Embedding.Provider)
	valid := false
	for _, vp := range validEmbeddingProviders {
		if provider == vp {
			valid = true
			break
		}
	}
	if !valid {
		errs = append(errs, ValidationError{
			Field:   "embedding.provider",
			Message: fmt.Sprintf("must be one of: %s", strings.Join(validEmbeddingProviders, ", ")),
		})
	}

	if provider != "local" && c.Embedding.Model == "" {
		errs = append(errs, ValidationError{Field: "embedding.model", Message: "required for network-backed providers"})
	}

	return errs
}
