package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr bool
	}{
		{
			name: "valid landing page",
			record: Record{
				Kind:        KindLandingPage,
				Owner:       "Acme Capital",
				Content:     "retirement planning",
				LandingPage: &LandingPageMeta{SourceURL: "https://acme.example", ChunkIndex: 0},
			},
		},
		{
			name: "valid news article",
			record: Record{
				Kind:        KindNewsArticle,
				Owner:       "Acme Capital",
				Content:     "Fed holds rates Reuters",
				NewsArticle: &NewsArticleMeta{Title: "Fed holds rates", Source: "Reuters"},
			},
		},
		{
			name: "landing page without payload",
			record: Record{
				Kind:    KindLandingPage,
				Content: "x",
			},
			wantErr: true,
		},
		{
			name: "news article with wrong payload",
			record: Record{
				Kind:        KindNewsArticle,
				Content:     "x",
				LandingPage: &LandingPageMeta{},
			},
			wantErr: true,
		},
		{
			name: "both payloads set",
			record: Record{
				Kind:        KindLandingPage,
				Content:     "x",
				LandingPage: &LandingPageMeta{},
				NewsArticle: &NewsArticleMeta{},
			},
			wantErr: true,
		},
		{
			name: "unknown kind",
			record: Record{
				Kind:    "podcast",
				Content: "x",
			},
			wantErr: true,
		},
		{
			name: "empty content",
			record: Record{
				Kind:        KindNewsArticle,
				NewsArticle: &NewsArticleMeta{Title: "t"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"", "landing_page", "news_article"} {
		kind, err := ParseKind(valid)
		require.NoError(t, err)
		assert.Equal(t, Kind(valid), kind)
	}

	_, err := ParseKind("podcast")
	assert.Error(t, err)
}

func TestLoadClients(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clients.json")
	data := `[
		{
			"client_name": "Acme Capital",
			"url": "https://acme.example",
			"landing_page_content": "We manage retirement portfolios.",
			"news_articles": [
				{"title": "Fed holds rates", "source": "Reuters", "published_date": "2025-06-01", "url": "https://news.example/1"}
			]
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	clients, err := LoadClients(path)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme Capital", clients[0].Name)
	assert.Equal(t, "We manage retirement portfolios.", clients[0].LandingPageContent)
	require.Len(t, clients[0].NewsArticles, 1)
	assert.Equal(t, "Fed holds rates", clients[0].NewsArticles[0].Title)
	assert.Equal(t, "2025-06-01", clients[0].NewsArticles[0].PublishedDate)
}

func TestLoadClientsErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadClients(filepath.Join(dir, "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := LoadClients(path)
		assert.Error(t, err)
	})

	t.Run("empty list", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
		_, err := LoadClients(path)
		assert.ErrorIs(t, err, ErrNoClients)
	})

	t.Run("missing client name", func(t *testing.T) {
		path := filepath.Join(dir, "anon.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"url": "https://x.example"}]`), 0o644))
		_, err := LoadClients(path)
		assert.Error(t, err)
	})
}
