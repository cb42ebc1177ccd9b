//go:build cgo

package embeddings

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	fastembed "github.com/anush008/fastembed-go"
)

// FastEmbedConfig holds configuration for the FastEmbed provider.
type FastEmbedConfig struct {
	// Model is the embedding model to use.
	// Supported: sentence-transformers/all-MiniLM-L6-v2 (default),
	// BAAI/bge-small-en-v1.5, BAAI/bge-base-en-v1.5, etc.
	Model string

	// CacheDir is the directory to cache model files.
	// Defaults to ./local_cache
	CacheDir string

	// MaxLength is the maximum input sequence length.
	// Defaults to 512.
	MaxLength int
}

// FastEmbedProvider provides embedding generation using local ONNX models.
type FastEmbedProvider struct {
	model     *fastembed.FlagEmbedding
	modelName string
	dimension int
	mu        sync.RWMutex
}

// modelMapping maps friendly model names to fastembed model constants.
var modelMapping = map[string]fastembed.EmbeddingModel{
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-small-en":                      fastembed.BGESmallEN,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"BAAI/bge-base-en":                       fastembed.BGEBaseEN,
	// Also accept the fastembed model names directly
	"fast-all-MiniLM-L6-v2":  fastembed.AllMiniLML6V2,
	"fast-bge-small-en-v1.5": fastembed.BGESmallENV15,
	"fast-bge-small-en":      fastembed.BGESmallEN,
	"fast-bge-base-en-v1.5":  fastembed.BGEBaseENV15,
	"fast-bge-base-en":       fastembed.BGEBaseEN,
}

// modelDimensions maps fastembed models to their embedding dimensions.
var modelDimensions = map[fastembed.EmbeddingModel]int{
	fastembed.AllMiniLML6V2: 384,
	fastembed.BGESmallENV15: 384,
	fastembed.BGESmallEN:    384,
	fastembed.BGEBaseENV15:  768,
	fastembed.BGEBaseEN:     768,
}

// fastEmbedModelDimension returns dimensions for known models.
func fastEmbedModelDimension(model string) (int, bool) {
	if m, ok := modelMapping[model]; ok {
		return modelDimensions[m], true
	}
	dim, ok := modelDimensions[fastembed.EmbeddingModel(model)]
	return dim, ok
}

// NewFastEmbedProvider creates a new FastEmbed embedding provider.
func NewFastEmbedProvider(cfg FastEmbedConfig) (*FastEmbedProvider, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = "sentence-transformers/all-MiniLM-L6-v2"
	}

	// Map model name to fastembed constant
	model, ok := modelMapping[modelName]
	if !ok {
		// Check if it's a direct fastembed model name
		model = fastembed.EmbeddingModel(modelName)
		if _, known := modelDimensions[model]; !known {
			return nil, fmt.Errorf("%w: unsupported model %q (supported: sentence-transformers/all-MiniLM-L6-v2, BAAI/bge-small-en-v1.5, BAAI/bge-base-en-v1.5)", ErrInvalidConfig, modelName)
		}
	}

	dimension := modelDimensions[model]

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(".", "local_cache")
	}

	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 512
	}

	// Disable progress bar for server use
	showProgress := false

	opts := &fastembed.InitOptions{
		Model:                model,
		CacheDir:             cacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	}

	flagEmbed, err := fastembed.NewFlagEmbedding(opts)
	if err != nil {
		return nil, fmt.Errorf("initializing FastEmbed: %w", err)
	}

	return &FastEmbedProvider{
		model:     flagEmbed,
		modelName: modelName,
		dimension: dimension,
	}, nil
}

// EmbedDocuments generates embeddings for multiple texts.
// Uses "passage: " prefix for document embeddings as recommended by BGE models.
func (p *FastEmbedProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		recordGeneration(p.modelName, "embed_documents", time.Since(start), len(texts), genErr)
	}()

	if len(texts) == 0 {
		genErr = fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	// Check context before proceeding
	select {
	case <-ctx.Done():
		genErr = ctx.Err()
		return nil, genErr
	default:
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	// PassageEmbed adds the "passage: " prefix for documents
	vectors, err := p.model.PassageEmbed(texts, 256)
	if err != nil {
		genErr = fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
		return nil, genErr
	}

	return vectors, nil
}

// EmbedQuery generates an embedding for a single query.
// Uses "query: " prefix for query embeddings as recommended by BGE models.
func (p *FastEmbedProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		recordGeneration(p.modelName, "embed_query", time.Since(start), 1, genErr)
	}()

	if text == "" {
		genErr = fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	select {
	case <-ctx.Done():
		genErr = ctx.Err()
		return nil, genErr
	default:
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	vector, err := p.model.QueryEmbed(text)
	if err != nil {
		genErr = fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
		return nil, genErr
	}

	return vector, nil
}

// Dimension returns the embedding dimension for the current model.
func (p *FastEmbedProvider) Dimension() int {
	return p.dimension
}

// Close releases resources held by the FastEmbed provider.
func (p *FastEmbedProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.model != nil {
		return p.model.Destroy()
	}
	return nil
}
