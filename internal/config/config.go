// Package config provides configuration loading for newsmatch.
package config

import (
	"fmt"
	"time"

	"github.com/meridianads/newsmatch/internal/logging"
)

// Config is the full newsmatch configuration.
type Config struct {
	Embeddings EmbeddingsConfig `koanf:"embeddings"`
	Index      IndexConfig      `koanf:"index"`
	Server     ServerConfig     `koanf:"server"`
	Logging    logging.Config   `koanf:"logging"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider is "fastembed" (local ONNX) or "tei" (HTTP server).
	Provider string `koanf:"provider"`
	// Model is the embedding model name.
	Model string `koanf:"model"`
	// BaseURL is the TEI server URL (tei provider only).
	BaseURL string `koanf:"base_url"`
	// CacheDir is the model download cache (fastembed provider only).
	CacheDir string `koanf:"cache_dir"`
	// Timeout is the per-call socket timeout for TEI requests.
	Timeout time.Duration `koanf:"timeout"`
	// RequestInterval is the fixed delay between successive TEI calls.
	RequestInterval time.Duration `koanf:"request_interval"`
	// CacheTTL enables the in-memory vector cache when positive.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// IndexConfig configures the similarity index.
type IndexConfig struct {
	// SnapshotPath is the prefix for the snapshot file pair.
	SnapshotPath string `koanf:"snapshot_path"`
	// ChunkBudget is the landing-page chunk length budget.
	ChunkBudget int `koanf:"chunk_budget"`
	// OverfetchFactor is the raw-candidate multiple ranked before a
	// kind filter is applied.
	OverfetchFactor int `koanf:"overfetch_factor"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// applyDefaults fills in defaults for missing values.
func applyDefaults(cfg *Config) {
	if cfg.Embeddings.Provider == "" {
		cfg.Embeddings.Provider = "fastembed"
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if cfg.Embeddings.Timeout <= 0 {
		cfg.Embeddings.Timeout = 30 * time.Second
	}
	if cfg.Embeddings.RequestInterval <= 0 {
		cfg.Embeddings.RequestInterval = 100 * time.Millisecond
	}
	if cfg.Index.SnapshotPath == "" {
		cfg.Index.SnapshotPath = "data/newsmatch"
	}
	if cfg.Index.ChunkBudget <= 0 {
		cfg.Index.ChunkBudget = 512
	}
	if cfg.Index.OverfetchFactor <= 0 {
		cfg.Index.OverfetchFactor = 2
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9090
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Embeddings.Provider {
	case "fastembed", "tei":
	default:
		return fmt.Errorf("embeddings.provider must be fastembed or tei, got %q", c.Embeddings.Provider)
	}
	if c.Embeddings.Provider == "tei" && c.Embeddings.BaseURL == "" {
		return fmt.Errorf("embeddings.base_url required for tei provider")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}
