package embeddings

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// defaultCacheTTL bounds how long a cached vector is served. Embeddings
// are deterministic per model version, so the TTL only bounds memory.
const defaultCacheTTL = time.Hour

// Cached decorates a Provider with an in-memory vector cache keyed on
// exact text equality. It is an optimization layered above the provider;
// the provider contract is unchanged.
type Cached struct {
	inner Provider
	cache *gocache.Cache
}

// NewCached wraps provider with a cache. A non-positive ttl uses the
// default of one hour.
func NewCached(provider Provider, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cached{
		inner: provider,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// EmbedDocuments serves cached vectors where possible and embeds the
// remaining texts in a single batch.
func (c *Cached) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return c.inner.EmbedDocuments(ctx, texts)
	}

	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if v, ok := c.cache.Get(documentKey(text)); ok {
			out[i] = v.([]float32)
			recordCacheEvent(true)
			continue
		}
		recordCacheEvent(false)
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		vectors, err := c.inner.EmbedDocuments(ctx, missing)
		if err != nil {
			return nil, err
		}
		for j, v := range vectors {
			out[missingIdx[j]] = v
			c.cache.SetDefault(documentKey(missing[j]), v)
		}
	}

	return out, nil
}

// EmbedQuery serves the cached vector for text if present.
func (c *Cached) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(queryKey(text)); ok {
		recordCacheEvent(true)
		return v.([]float32), nil
	}
	recordCacheEvent(false)

	vector, err := c.inner.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(queryKey(text), vector)
	return vector, nil
}

// Query and document embeddings are cached under separate keys: models
// with asymmetric prefixes (query:/passage:) embed the same text
// differently depending on the operation.
func documentKey(text string) string { return "d\x00" + text }
func queryKey(text string) string    { return "q\x00" + text }

// Dimension returns the wrapped provider's dimension.
func (c *Cached) Dimension() int {
	return c.inner.Dimension()
}

// Close closes the wrapped provider.
func (c *Cached) Close() error {
	c.cache.Flush()
	return c.inner.Close()
}
