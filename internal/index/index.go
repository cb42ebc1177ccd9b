// Package index implements the exact cosine-similarity index over
// document records. Vectors and records are parallel, insertion-ordered
// collections; record i always pairs with vector i.
//
// Search is a brute-force O(n) inner-product scan. At the corpus sizes
// newsmatch handles (hundreds of records) this is exact, fast enough,
// and needs no indexing structure.
package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/meridianads/newsmatch/internal/corpus"
	"github.com/meridianads/newsmatch/internal/embeddings"
)

var (
	// ErrNotBuilt indicates a search before any successful Build or Load.
	ErrNotBuilt = errors.New("index not built")

	// ErrNoDocuments indicates a Build call with nothing to embed.
	ErrNoDocuments = errors.New("no documents to index")

	// ErrDimensionMismatch indicates an embedding whose dimension does
	// not match the index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// DefaultOverfetchFactor is how many times k raw candidates are ranked
// before a kind filter is applied.
const DefaultOverfetchFactor = 2

// Doc is one input to Build: the text to embed plus its record.
type Doc struct {
	Text   string
	Record corpus.Record
}

// Index stores unit-normalized vectors and their parallel records.
//
// Build fully replaces state. The Index has no internal locking: callers
// serialize Build against Search, rebuilding only between batches.
type Index struct {
	provider  embeddings.Provider
	logger    *zap.Logger
	dim       int
	overfetch int

	vectors [][]float32
	records []corpus.Record
	built   bool
}

// Option configures an Index.
type Option func(*Index)

// WithOverfetchFactor sets the raw-candidate multiple used before kind
// filtering. Values below 1 are ignored.
func WithOverfetchFactor(n int) Option {
	return func(ix *Index) {
		if n >= 1 {
			ix.overfetch = n
		}
	}
}

// New creates an empty index bound to an embedding provider. The vector
// dimension is fixed to the provider's for the life of the index.
func New(provider embeddings.Provider, logger *zap.Logger, opts ...Option) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	ix := &Index{
		provider:  provider,
		logger:    logger,
		dim:       provider.Dimension(),
		overfetch: DefaultOverfetchFactor,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build embeds every doc, normalizes the vectors, and replaces all
// index state. Fails with ErrNoDocuments when docs is empty; the
// caller guarantees nonempty input.
func (ix *Index) Build(ctx context.Context, docs []Doc) error {
	start := time.Now()

	if len(docs) == 0 {
		buildsTotal.WithLabelValues("error").Inc()
		return ErrNoDocuments
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	vectors, err := ix.provider.EmbedDocuments(ctx, texts)
	if err != nil {
		buildsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("embedding documents: %w", err)
	}
	if len(vectors) != len(docs) {
		buildsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("provider returned %d embeddings for %d documents", len(vectors), len(docs))
	}

	records := make([]corpus.Record, len(docs))
	for i, v := range vectors {
		if len(v) != ix.dim {
			buildsTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("%w: got %d, index dimension %d", ErrDimensionMismatch, len(v), ix.dim)
		}
		normalize(v)
		records[i] = docs[i].Record
	}

	ix.vectors = vectors
	ix.records = records
	ix.built = true

	buildsTotal.WithLabelValues("ok").Inc()
	observeCorpusSize(ix.records)
	ix.logger.Info("index built",
		zap.Int("records", len(ix.records)),
		zap.Int("dimension", ix.dim),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Search embeds the query and returns the top-k records by cosine
// similarity, best-first. Ties keep insertion order.
//
// When kind is set, the top overfetch*k raw candidates are ranked first
// and then filtered, so fewer than k results may come back when the
// kind is sparse. This is best-effort, matching the index's contract.
func (ix *Index) Search(ctx context.Context, query string, k int, kind corpus.Kind) ([]corpus.SearchResult, error) {
	start := time.Now()

	if !ix.built {
		searchesTotal.WithLabelValues("error").Inc()
		return nil, ErrNotBuilt
	}
	if k <= 0 {
		k = 5
	}

	qv, err := ix.provider.EmbedQuery(ctx, query)
	if err != nil {
		searchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(qv) != ix.dim {
		searchesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: query dimension %d, index dimension %d", ErrDimensionMismatch, len(qv), ix.dim)
	}
	normalize(qv)

	// Exact scan. Vectors are unit-normalized, so the inner product is
	// the cosine similarity.
	order := make([]int, len(ix.vectors))
	scores := make([]float32, len(ix.vectors))
	for i, v := range ix.vectors {
		order[i] = i
		scores[i] = dot(qv, v)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	raw := len(order)
	if kind != "" && ix.overfetch*k < raw {
		raw = ix.overfetch * k
	}

	results := make([]corpus.SearchResult, 0, k)
	for _, idx := range order[:raw] {
		rec := ix.records[idx]
		if kind != "" && rec.Kind != kind {
			continue
		}
		results = append(results, corpus.SearchResult{Record: rec, Score: scores[idx]})
		if len(results) == k {
			break
		}
	}

	searchesTotal.WithLabelValues("ok").Inc()
	searchDuration.Observe(time.Since(start).Seconds())
	return results, nil
}

// Size returns the number of indexed records.
func (ix *Index) Size() int {
	return len(ix.records)
}

// Built reports whether the index holds a usable corpus.
func (ix *Index) Built() bool {
	return ix.built
}

// Dimension returns the fixed vector dimension.
func (ix *Index) Dimension() int {
	return ix.dim
}

// Records returns a copy of the indexed records in insertion order.
func (ix *Index) Records() []corpus.Record {
	out := make([]corpus.Record, len(ix.records))
	copy(out, ix.records)
	return out
}

// normalize scales v to unit L2 norm in place. Zero vectors are left
// untouched.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
