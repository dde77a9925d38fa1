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

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the default configuration file name.
	ConfigFileName = "cascade.yaml"

	// SystemConfigPath is the system-wide configuration path.
	SystemConfigPath = "/etc/cascade/" + ConfigFileName
)

// Load loads the configuration from the specified path, or searches
// default locations if path is empty.
//
// Search order:
//  1. Explicit path (if provided)
//  2. /etc/cascade/cascade.yaml
//  3. cascade.yaml in the binary's directory
func Load(path string) (*Config, error) {
	configPath, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}
	return loadFromFile(configPath)
}

func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	searchPaths := []string{
		SystemConfigPath,
		getBinaryDirConfigPath(),
	}

	for _, p := range searchPaths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no configuration file found; searched: %v", searchPaths)
}

func getBinaryDirConfigPath() string {
	executable, err := os.Executable()
	if err != nil {
		return ""
	}
	executable, err = filepath.EvalSymlinks(executable)
	if err != nil {
		return ""
	}
	return filepath.Join(filepath.Dir(executable), ConfigFileName)
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills in zero-valued fields left unset in the parsed
// YAML with the spec's defaults, so a partial config file is valid.
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = defaults.Server.ListenAddress
	}
	if cfg.Limits.MaxResultsLayer1 == 0 {
		cfg.Limits.MaxResultsLayer1 = defaults.Limits.MaxResultsLayer1
	}
	if cfg.Limits.MaxResultsLayer2 == 0 {
		cfg.Limits.MaxResultsLayer2 = defaults.Limits.MaxResultsLayer2
	}
	if cfg.Limits.MaxResultsLayer3 == 0 {
		cfg.Limits.MaxResultsLayer3 = defaults.Limits.MaxResultsLayer3
	}
	if cfg.Limits.MaxFinalResults == 0 {
		cfg.Limits.MaxFinalResults = defaults.Limits.MaxFinalResults
	}
	if cfg.Weights.UserProfileWeight == 0 {
		cfg.Weights.UserProfileWeight = defaults.Weights.UserProfileWeight
	}
	if cfg.Weights.ContextWeight == 0 {
		cfg.Weights.ContextWeight = defaults.Weights.ContextWeight
	}
	if cfg.Weights.TemporalWeight == 0 {
		cfg.Weights.TemporalWeight = defaults.Weights.TemporalWeight
	}
	if cfg.BM25.K1 == 0 {
		cfg.BM25.K1 = defaults.BM25.K1
	}
	if cfg.BM25.B == 0 {
		cfg.BM25.B = defaults.BM25.B
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = defaults.Embedding.Provider
	}
}
