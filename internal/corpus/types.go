// Package corpus defines the document records indexed by newsmatch.
package corpus

import (
	"errors"
	"fmt"
)

// Kind discriminates the two record variants stored in the index.
type Kind string

const (
	// KindLandingPage marks a chunk of a client's landing page.
	KindLandingPage Kind = "landing_page"
	// KindNewsArticle marks a news article stub.
	KindNewsArticle Kind = "news_article"
)

// ErrInvalidRecord indicates a record whose kind and payload disagree.
var ErrInvalidRecord = errors.New("invalid record")

// ParseKind validates a kind string. The empty string is accepted and
// means "no filter" at search time.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindLandingPage, KindNewsArticle:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, s)
	}
}

// LandingPageMeta holds the fields specific to landing-page chunks.
type LandingPageMeta struct {
	SourceURL  string `json:"source_url"`
	ChunkIndex int    `json:"chunk_index"`
}

// NewsArticleMeta holds the fields specific to news articles.
type NewsArticleMeta struct {
	Title         string `json:"title"`
	Source        string `json:"source"`
	PublishedDate string `json:"published_date"`
	ArticleURL    string `json:"article_url"`
}

// Record is one retrievable unit in the index. Exactly one of
// LandingPage or NewsArticle is set, matching Kind.
type Record struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	Owner    string   `json:"owner"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords,omitempty"`

	LandingPage *LandingPageMeta `json:"landing_page,omitempty"`
	NewsArticle *NewsArticleMeta `json:"news_article,omitempty"`
}

// Validate checks that the kind discriminant matches the payload.
func (r Record) Validate() error {
	switch r.Kind {
	case KindLandingPage:
		if r.LandingPage == nil || r.NewsArticle != nil {
			return fmt.Errorf("%w: landing_page record must carry only landing-page metadata", ErrInvalidRecord)
		}
	case KindNewsArticle:
		if r.NewsArticle == nil || r.LandingPage != nil {
			return fmt.Errorf("%w: news_article record must carry only news-article metadata", ErrInvalidRecord)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, r.Kind)
	}
	if r.Content == "" {
		return fmt.Errorf("%w: empty content", ErrInvalidRecord)
	}
	return nil
}

// SearchResult is a read-only projection of a Record plus its cosine
// similarity to the query. Results are always ordered best-first.
type SearchResult struct {
	Record
	Score float32 `json:"similarity_score"`
}
