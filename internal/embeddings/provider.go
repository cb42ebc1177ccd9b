package embeddings

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Provider is the interface for embedding providers. Embeddings are
// deterministic for a fixed model version and input text.
type Provider interface {
	// EmbedDocuments generates embeddings for multiple texts.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedQuery generates an embedding for a single query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	// Dimension returns the embedding dimension for the current model.
	Dimension() int
	// Close releases resources held by the provider.
	Close() error
}

// ProviderConfig holds configuration for creating an embedding provider.
type ProviderConfig struct {
	// Provider is the provider type: "fastembed" or "tei"
	Provider string
	// Model is the embedding model name
	Model string
	// BaseURL is the TEI URL (only used for TEI provider)
	BaseURL string
	// CacheDir is the model cache directory (only used for FastEmbed)
	CacheDir string
	// Timeout is the per-call socket timeout for the TEI provider
	Timeout time.Duration
	// RequestInterval paces successive TEI calls (fixed delay, no backoff)
	RequestInterval time.Duration
}

// NewProvider creates an embedding provider based on the configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "fastembed", "":
		return NewFastEmbedProvider(FastEmbedConfig{
			Model:    cfg.Model,
			CacheDir: cfg.CacheDir,
		})
	case "tei":
		svc, err := NewTEIProvider(TEIConfig{
			BaseURL:         cfg.BaseURL,
			Model:           cfg.Model,
			Timeout:         cfg.Timeout,
			RequestInterval: cfg.RequestInterval,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}

// detectDimensionFromModel returns the embedding dimension for a model name.
// Falls back to 384 if model is unknown.
func detectDimensionFromModel(model string) int {
	// Check FastEmbed model mapping first
	if dim, ok := fastEmbedModelDimension(model); ok {
		return dim
	}
	// Common model dimension patterns
	switch {
	case strings.Contains(model, "base"):
		return 768
	case strings.Contains(model, "large"):
		return 1024
	case strings.Contains(model, "small"), strings.Contains(model, "mini"), strings.Contains(model, "Mini"):
		return 384
	default:
		return 384 // Safe default for MiniLM-class models
	}
}
