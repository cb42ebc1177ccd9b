package server

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridianads/newsmatch/internal/chunker"
	"github.com/meridianads/newsmatch/internal/corpus"
	"github.com/meridianads/newsmatch/internal/index"
	"github.com/meridianads/newsmatch/internal/keywords"
	"github.com/meridianads/newsmatch/internal/retrieval"
)

// mockEmbedder maps text to a deterministic bag-of-words vector.
type mockEmbedder struct{}

func (m *mockEmbedder) embed(text string) []float32 {
	v := make([]float32, 16)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		v[int(h.Sum32())%16]++
	}
	return v
}

func (m *mockEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.embed(text)
	}
	return out, nil
}

func (m *mockEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return m.embed(text), nil
}

func (m *mockEmbedder) Dimension() int { return 16 }
func (m *mockEmbedder) Close() error   { return nil }

func builtServer(t *testing.T) *Server {
	t.Helper()

	ix := index.New(&mockEmbedder{}, nil)
	engine := retrieval.New(ix, chunker.New(512), keywords.NewFallback(), zap.NewNop())

	clients := []corpus.Client{{
		Name:               "Acme Capital",
		URL:                "https://acme.example",
		LandingPageContent: "We build diversified retirement portfolios around fixed income strategies.",
		NewsArticles: []corpus.ArticleStub{
			{Title: "Fed signals rate cuts", Source: "Reuters"},
			{Title: "Bond markets rally on policy shift", Source: "Bloomberg"},
		},
	}}
	_, err := engine.BuildFromClients(context.Background(), clients)
	require.NoError(t, err)

	srv, err := NewServer(engine, zap.NewNop(), nil)
	require.NoError(t, err)
	return srv
}

func TestNewServerValidation(t *testing.T) {
	_, err := NewServer(nil, zap.NewNop(), nil)
	assert.Error(t, err)

	ix := index.New(&mockEmbedder{}, nil)
	engine := retrieval.New(ix, chunker.New(512), keywords.NewFallback(), zap.NewNop())
	_, err = NewServer(engine, nil, nil)
	assert.Error(t, err)
}

func TestHandleHealth(t *testing.T) {
	srv := builtServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Records)
}

func TestHandleSearch(t *testing.T) {
	srv := builtServer(t)

	body := `{"query": "fed rate cuts", "k": 2, "kind": "news_article"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.LessOrEqual(t, len(resp.Results), 2)
	for _, r := range resp.Results {
		assert.Equal(t, corpus.KindNewsArticle, r.Kind)
	}
}

func TestHandleSearchBadRequests(t *testing.T) {
	srv := builtServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing query", body: `{"k": 2}`},
		{name: "unknown kind", body: `{"query": "x", "kind": "podcast"}`},
		{name: "malformed json", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			srv.Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleClientNews(t *testing.T) {
	srv := builtServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/Acme%20Capital/news?k=2", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	for _, r := range resp.Results {
		assert.Equal(t, corpus.KindNewsArticle, r.Kind)
	}
}

func TestHandleClientNewsUnknownClient(t *testing.T) {
	srv := builtServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/Nobody/news", nil)
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleClientContext(t *testing.T) {
	srv := builtServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients/Acme%20Capital/context?topic=rates&k=1", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp retrieval.Context
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rates", resp.Topic)

	// Missing topic is a client error.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/clients/Acme%20Capital/context", nil)
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleStats(t *testing.T) {
	srv := builtServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats retrieval.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 1, stats.LandingPages)
	assert.Equal(t, 2, stats.NewsArticles)
}

func TestSearchBeforeBuildReturns503(t *testing.T) {
	ix := index.New(&mockEmbedder{}, nil)
	engine := retrieval.New(ix, chunker.New(512), keywords.NewFallback(), zap.NewNop())
	srv, err := NewServer(engine, zap.NewNop(), nil)
	require.NoError(t, err)

	body := `{"query": "anything"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

