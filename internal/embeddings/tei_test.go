package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTEIServer mimics the text-embeddings-inference /embed endpoint,
// returning one fixed-dimension vector per input text.
func newTestTEIServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/embed", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Inputs interface{} `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		count := 1
		if inputs, ok := req.Inputs.([]interface{}); ok {
			count = len(inputs)
		}

		vectors := make([][]float32, count)
		for i := range vectors {
			vectors[i] = make([]float32, dim)
			vectors[i][0] = float32(i + 1)
		}
		json.NewEncoder(w).Encode(vectors)
	}))
}

func TestTEIEmbedDocuments(t *testing.T) {
	srv := newTestTEIServer(t, 4)
	defer srv.Close()

	p, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	defer p.Close()

	vectors, err := p.EmbedDocuments(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Len(t, vectors[0], 4)
	assert.Equal(t, float32(2), vectors[1][0])
}

func TestTEIEmbedQuery(t *testing.T) {
	srv := newTestTEIServer(t, 4)
	defer srv.Close()

	p, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	defer p.Close()

	vector, err := p.EmbedQuery(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vector, 4)
}

func TestTEIEmptyInput(t *testing.T) {
	srv := newTestTEIServer(t, 4)
	defer srv.Close()

	p, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	defer p.Close()

	_, err = p.EmbedDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = p.EmbedQuery(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestTEIServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p, err := NewTEIProvider(TEIConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	defer p.Close()

	_, err = p.EmbedQuery(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrEmbeddingFailed)
}

func TestTEIConfigValidation(t *testing.T) {
	_, err := NewTEIProvider(TEIConfig{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTEIDimensionFromModel(t *testing.T) {
	p, err := NewTEIProvider(TEIConfig{
		BaseURL: "http://localhost:8080",
		Model:   "sentence-transformers/all-MiniLM-L6-v2",
	})
	require.NoError(t, err)
	assert.Equal(t, 384, p.Dimension())
}
