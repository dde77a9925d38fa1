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

// envVarForProvider maps an embedding provider name to the environment
// variable its API key is read from when no explicit key file is
// configured.
var envVarForProvider = map[string]string{
	"openai": "OPENAI_API_KEY",
	"voyage": "VOYAGE_API_KEY",
}

// defaultKeyFileForProvider maps a provider to its fallback key file,
// relative to the user's home directory.
var defaultKeyFileForProvider = map[string]string{
	"openai": ".openai-api-key",
	"voyage": ".voyage-api-key",
}

// LoadEmbeddingAPIKey resolves the API key for the configured
// embedding provider, in priority order: an explicit key file, the
// provider's environment variable, then its default home-directory
// file. The "local" and "ollama" providers need no key and always
// return "".
func LoadEmbeddingAPIKey(cfg EmbeddingConfig) (string, error) {
	provider := strings.ToLower(cfg.Provider)
	if provider == "local" || provider == "ollama" {
		return "", nil
	}

	if cfg.APIKeyFile != "" {
		return readKeyFile(expandPath(cfg.APIKeyFile), provider)
	}

	envVar, ok := envVarForProvider[provider]
	if !ok {
		return "", fmt.Errorf("no API key source known for provider %q", provider)
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	path := filepath.Join(homeDir, defaultKeyFileForProvider[provider])
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf(
			"%s API key not found: set %s environment variable or create %s", provider, envVar, path)
	}
	return readKeyFile(path, provider)
}

// readKeyFile reads and trims an API key from a file.
func readKeyFile(path, providerName string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("%s API key file not found: %s", providerName, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s API key: %w", providerName, err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%s API key file is empty: %s", providerName, path)
	}
	return key, nil
}
