//-------------------------------------------------------------------------
//
// Cascade Search
//
// Copyright (c) 2025 - 2026, Cascade Search contributors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package config handles configuration loading, validation, and
// hot-reload for the cascade retrieval server.
package config

// Config is the root configuration structure for the server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Limits    LimitsConfig    `yaml:"limits"`
	Weights   WeightsConfig   `yaml:"weights"`
	BM25      BM25Config      `yaml:"bm25"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Corpus    CorpusConfig    `yaml:"corpus"`
}

// ServerConfig contains HTTP server settings, unchanged in shape from
// the teacher's own ServerConfig.
type ServerConfig struct {
	ListenAddress string     `yaml:"listen_address"`
	Port          int        `yaml:"port"`
	TLS           TLSConfig  `yaml:"tls"`
	CORS          CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) settings.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// TLSConfig contains TLS/HTTPS settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// LimitsConfig caps per-stage candidate-set and final result sizes.
type LimitsConfig struct {
	MaxResultsLayer1 int `yaml:"max_results_layer1"`
	MaxResultsLayer2 int `yaml:"max_results_layer2"`
	MaxResultsLayer3 int `yaml:"max_results_layer3"`
	MaxFinalResults  int `yaml:"max_final_results"`
}

// WeightsConfig holds the Stage-4 personalization coefficients.
type WeightsConfig struct {
	UserProfileWeight float64 `yaml:"user_profile_weight"`
	ContextWeight     float64 `yaml:"context_weight"`
	TemporalWeight    float64 `yaml:"temporal_weight"`
}

// BM25Config holds Stage-2 BM25 parameters.
type BM25Config struct {
	K1 float64 `yaml:"k1"`
	B  float64 `yaml:"b"`
}

// EmbeddingConfig selects and configures the Stage-3 embedding
// provider. VectorDimension is advisory only: the provider's actual
// Load-time output always wins (see DESIGN.md Open Question (d)).
type EmbeddingConfig struct {
	Provider        string `yaml:"provider"` // openai | voyage | ollama | local
	Model           string `yaml:"model"`
	VectorDimension int    `yaml:"vector_dimension"`
	BaseURL         string `yaml:"base_url"`
	APIKeyFile      string `yaml:"api_key_file"`
}

// CorpusConfig configures optional startup seeding. StorageURL is
// reserved for a future durable backend; the in-process core never
// binds it (see DESIGN.md).
type CorpusConfig struct {
	StorageURL string `yaml:"storage_url"`
	SeedPath   string `yaml:"seed_path"`
}

// DefaultConfig returns a Config with the spec's default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress: "0.0.0.0",
			Port:          8080,
		},
		Limits: LimitsConfig{
			MaxResultsLayer1: 10000,
			MaxResultsLayer2: 1000,
			MaxResultsLayer3: 100,
			MaxFinalResults:  20,
		},
		Weights: WeightsConfig{
			UserProfileWeight: 0.3,
			ContextWeight:     0.2,
			TemporalWeight:    0.1,
		},
		BM25: BM25Config{
			K1: 1.2,
			B:  0.75,
		},
		Embedding: EmbeddingConfig{
			Provider: "local",
		},
	}
}
