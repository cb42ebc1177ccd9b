package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTEITimeout  = 30 * time.Second
	defaultTEIInterval = 100 * time.Millisecond
)

// TEIConfig holds configuration for the TEI embedding provider.
type TEIConfig struct {
	// BaseURL is the base URL for the text-embeddings-inference server
	BaseURL string

	// Model is the embedding model the server hosts (used for dimension
	// detection and metric labels; TEI itself ignores it)
	Model string

	// Timeout is the per-call socket timeout. Defaults to 30s.
	Timeout time.Duration

	// RequestInterval is the fixed delay between successive calls.
	// Defaults to 100ms. There is no adaptive backoff.
	RequestInterval time.Duration
}

// Validate validates the configuration.
func (c TEIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	return nil
}

// TEIProvider generates embeddings via a text-embeddings-inference
// HTTP server. Calls are paced by a fixed-interval limiter.
type TEIProvider struct {
	config    TEIConfig
	client    *http.Client
	limiter   *rate.Limiter
	dimension int
}

// NewTEIProvider creates a new TEI provider with the given configuration.
func NewTEIProvider(config TEIConfig) (*TEIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTEITimeout
	}
	interval := config.RequestInterval
	if interval <= 0 {
		interval = defaultTEIInterval
	}

	return &TEIProvider{
		config:    config,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		dimension: detectDimensionFromModel(config.Model),
	}, nil
}

// teiRequest is the request body for the TEI embed endpoint.
type teiRequest struct {
	Inputs   interface{} `json:"inputs"`
	Truncate bool        `json:"truncate"`
}

// EmbedDocuments generates embeddings for multiple texts.
func (s *TEIProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		recordGeneration(s.config.Model, "embed_documents", time.Since(start), len(texts), genErr)
	}()

	if len(texts) == 0 {
		genErr = fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	vectors, err := s.embed(ctx, teiRequest{Inputs: texts, Truncate: true})
	if err != nil {
		genErr = err
		return nil, genErr
	}

	if len(vectors) != len(texts) {
		genErr = fmt.Errorf("%w: got %d embeddings for %d texts", ErrEmbeddingFailed, len(vectors), len(texts))
		return nil, genErr
	}

	return vectors, nil
}

// EmbedQuery generates an embedding for a single query.
func (s *TEIProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	var genErr error
	defer func() {
		recordGeneration(s.config.Model, "embed_query", time.Since(start), 1, genErr)
	}()

	if text == "" {
		genErr = fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
		return nil, genErr
	}

	vectors, err := s.embed(ctx, teiRequest{Inputs: text, Truncate: true})
	if err != nil {
		genErr = err
		return nil, genErr
	}

	if len(vectors) == 0 {
		genErr = fmt.Errorf("%w: empty response", ErrEmbeddingFailed)
		return nil, genErr
	}

	return vectors[0], nil
}

// embed performs one paced call against the /embed endpoint.
func (s *TEIProvider) embed(ctx context.Context, req teiRequest) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrEmbeddingFailed, resp.StatusCode, string(respBody))
	}

	var vectors [][]float32
	if err := json.NewDecoder(resp.Body).Decode(&vectors); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return vectors, nil
}

// Dimension returns the embedding dimension based on the configured model.
func (s *TEIProvider) Dimension() int {
	return s.dimension
}

// Close is a no-op for TEI since it uses HTTP.
func (s *TEIProvider) Close() error {
	return nil
}
