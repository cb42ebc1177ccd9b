// Package retrieval builds the similarity index from client documents
// and answers relevance queries on top of it.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridianads/newsmatch/internal/chunker"
	"github.com/meridianads/newsmatch/internal/corpus"
	"github.com/meridianads/newsmatch/internal/index"
	"github.com/meridianads/newsmatch/internal/keywords"
)

// ErrNoLandingPage indicates a client with no indexed landing-page
// content to derive a query from.
var ErrNoLandingPage = errors.New("no landing-page content for client")

const (
	// queryExcerptLen bounds the leading excerpt used as the query base.
	queryExcerptLen = 500
	// queryKeywords is how many extracted keywords are appended to the
	// excerpt to bias the embedding toward salient terms.
	queryKeywords = 10
	// recordKeywords is how many keywords are stored per record at
	// build time so they need not be recomputed per query.
	recordKeywords = 5
)

// BuildStats reports what a build pass indexed and what it skipped.
type BuildStats struct {
	LandingPageChunks int `json:"landing_page_chunks"`
	NewsArticles      int `json:"news_articles"`
	SkippedClients    int `json:"skipped_clients"`
	SkippedArticles   int `json:"skipped_articles"`
}

// Total returns the number of records indexed.
func (s BuildStats) Total() int {
	return s.LandingPageChunks + s.NewsArticles
}

// Engine orchestrates chunking, keyword extraction, and the index.
type Engine struct {
	index     *index.Index
	chunker   *chunker.Chunker
	extractor keywords.Extractor
	logger    *zap.Logger
}

// New creates an Engine. A nil logger is replaced with a no-op logger.
func New(ix *index.Index, chk *chunker.Chunker, ext keywords.Extractor, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		index:     ix,
		chunker:   chk,
		extractor: ext,
		logger:    logger,
	}
}

// BuildFromClients assembles document records for every client and
// builds the index. Landing pages are chunked, one record per chunk;
// each news article becomes one record embedding "title source".
//
// Clients with no landing-page content and articles with empty titles
// are skipped with a warning and counted, not failed: one client with
// a missed scrape must not abort the batch. Index and embedding errors
// propagate unchanged.
func (e *Engine) BuildFromClients(ctx context.Context, clients []corpus.Client) (BuildStats, error) {
	var stats BuildStats
	var docs []index.Doc

	for _, client := range clients {
		if strings.TrimSpace(client.LandingPageContent) == "" {
			e.logger.Warn("skipping client with no landing-page content",
				zap.String("client", client.Name),
			)
			stats.SkippedClients++
			continue
		}
		for i, chunk := range e.chunker.Split(client.LandingPageContent) {
			docs = append(docs, index.Doc{
				Text: chunk,
				Record: corpus.Record{
					ID:       uuid.NewString(),
					Kind:     corpus.KindLandingPage,
					Owner:    client.Name,
					Content:  chunk,
					Keywords: e.extractor.Extract(chunk, recordKeywords),
					LandingPage: &corpus.LandingPageMeta{
						SourceURL:  client.URL,
						ChunkIndex: i,
					},
				},
			})
			stats.LandingPageChunks++
		}
	}

	for _, client := range clients {
		for _, article := range client.NewsArticles {
			if strings.TrimSpace(article.Title) == "" {
				e.logger.Warn("skipping article with empty title",
					zap.String("client", client.Name),
					zap.String("source", article.Source),
				)
				stats.SkippedArticles++
				continue
			}
			// Title plus source makes a richer embedding than the
			// headline alone.
			text := strings.TrimSpace(article.Title + " " + article.Source)
			docs = append(docs, index.Doc{
				Text: text,
				Record: corpus.Record{
					ID:       uuid.NewString(),
					Kind:     corpus.KindNewsArticle,
					Owner:    client.Name,
					Content:  text,
					Keywords: e.extractor.Extract(text, recordKeywords),
					NewsArticle: &corpus.NewsArticleMeta{
						Title:         article.Title,
						Source:        article.Source,
						PublishedDate: article.PublishedDate,
						ArticleURL:    article.URL,
					},
				},
			})
			stats.NewsArticles++
		}
	}

	if err := e.index.Build(ctx, docs); err != nil {
		return stats, err
	}

	e.logger.Info("corpus built",
		zap.Int("landing_page_chunks", stats.LandingPageChunks),
		zap.Int("news_articles", stats.NewsArticles),
		zap.Int("skipped_clients", stats.SkippedClients),
		zap.Int("skipped_articles", stats.SkippedArticles),
	)
	return stats, nil
}

// FindRelevantNews finds news articles relevant to a landing page. The
// query is the page's leading excerpt plus its top extracted keywords;
// appending keywords biases the embedding toward salient terms when the
// excerpt itself is long and diffuse.
func (e *Engine) FindRelevantNews(ctx context.Context, owner, landingText string, k int) ([]corpus.SearchResult, error) {
	query := excerpt(landingText, queryExcerptLen)
	if kws := e.extractor.Extract(landingText, queryKeywords); len(kws) > 0 {
		query += " " + strings.Join(kws, " ")
	}

	e.logger.Debug("relevant-news query",
		zap.String("client", owner),
		zap.Int("k", k),
	)
	return e.index.Search(ctx, query, k, corpus.KindNewsArticle)
}

// FindRelevantNewsForClient is FindRelevantNews against the client's
// already-indexed landing-page chunks, for callers that do not have the
// raw page text at hand.
func (e *Engine) FindRelevantNewsForClient(ctx context.Context, owner string, k int) ([]corpus.SearchResult, error) {
	if !e.index.Built() {
		return nil, index.ErrNotBuilt
	}

	var parts []string
	for _, rec := range e.index.Records() {
		if rec.Kind == corpus.KindLandingPage && rec.Owner == owner {
			parts = append(parts, rec.Content)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoLandingPage, owner)
	}

	return e.FindRelevantNews(ctx, owner, strings.Join(parts, " "), k)
}

// Search is the general-purpose pass-through to the index.
func (e *Engine) Search(ctx context.Context, query string, k int, kind corpus.Kind) ([]corpus.SearchResult, error) {
	return e.index.Search(ctx, query, k, kind)
}

// Context bundles the landing-page and news context for one topic,
// feeding downstream copy generation.
type Context struct {
	ClientName         string                `json:"client_name"`
	Topic              string                `json:"topic"`
	LandingPageContext []corpus.SearchResult `json:"landing_page_context"`
	RelevantNews       []corpus.SearchResult `json:"relevant_news"`
}

// ContextFor gathers contextual information for ad generation: the
// client's landing-page chunks near the topic, and news near the topic
// in a finance framing.
func (e *Engine) ContextFor(ctx context.Context, clientName, topic string, k int) (Context, error) {
	pages, err := e.index.Search(ctx, clientName+" "+topic, k, corpus.KindLandingPage)
	if err != nil {
		return Context{}, err
	}

	news, err := e.index.Search(ctx, topic+" finance investment", k, corpus.KindNewsArticle)
	if err != nil {
		return Context{}, err
	}

	return Context{
		ClientName:         clientName,
		Topic:              topic,
		LandingPageContext: pages,
		RelevantNews:       news,
	}, nil
}

// Stats describes the current index contents.
type Stats struct {
	Records      int `json:"records"`
	LandingPages int `json:"landing_pages"`
	NewsArticles int `json:"news_articles"`
	Dimension    int `json:"dimension"`
}

// Stats reports the index contents by kind.
func (e *Engine) Stats() Stats {
	s := Stats{Dimension: e.index.Dimension()}
	for _, rec := range e.index.Records() {
		s.Records++
		switch rec.Kind {
		case corpus.KindLandingPage:
			s.LandingPages++
		case corpus.KindNewsArticle:
			s.NewsArticles++
		}
	}
	return s
}

// Index exposes the underlying index for persistence.
func (e *Engine) Index() *index.Index {
	return e.index
}

// excerpt returns the leading n bytes of text without splitting a rune.
func excerpt(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8Start(text[n]) {
		n--
	}
	return text[:n]
}

// utf8Start reports whether b can begin a UTF-8 encoded rune.
func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
