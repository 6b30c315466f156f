// Package config provides configuration loading and structs for the Kensaku server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Documents DocumentsConfig `yaml:"documents"`
	Search    SearchConfig    `yaml:"search"`
	Web       WebConfig       `yaml:"web"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the document database and index snapshots.
type StorageConfig struct {
	// IndexRoot is the directory holding one index snapshot per collection.
	// Created on first use if absent.
	IndexRoot string `yaml:"index_root"`
	// DatabasePath is the SQLite database holding document records.
	DatabasePath string `yaml:"database_path"`
}

// DocumentsConfig holds the documents root and extension routing.
type DocumentsConfig struct {
	// Dir is the root directory scanned by the index trigger.
	Dir string `yaml:"dir"`
	// Extensions maps a collection name to the file extensions routed to it.
	Extensions map[string][]string `yaml:"extensions"`
	// Watch enables re-indexing files as they change under Dir.
	Watch bool `yaml:"watch"`
}

// SearchConfig holds query evaluation settings.
type SearchConfig struct {
	// Limit is the default maximum number of results per search.
	Limit int `yaml:"limit"`
	// MinScore drops results scoring below this fraction of the best hit.
	MinScore float64 `yaml:"min_score"`
	// FuzzyDistance is the maximum edit distance for fuzzy matching.
	FuzzyDistance int `yaml:"fuzzy_distance"`
	// Stemming enables the Porter stemming normalizer during tokenization.
	Stemming bool `yaml:"stemming"`
}

// WebConfig holds settings for fetching pages for the web collection.
type WebConfig struct {
	// FetchTimeoutSeconds bounds each URL fetch; one slow URL never stalls the batch.
	FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
}

// FetchTimeout returns the configured per-URL fetch timeout as a duration.
func (w *WebConfig) FetchTimeout() time.Duration {
	return time.Duration(w.FetchTimeoutSeconds) * time.Second
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.IndexRoot = expandPath(cfg.Storage.IndexRoot, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Documents.Dir = expandPath(cfg.Documents.Dir, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
