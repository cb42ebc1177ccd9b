package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNoClients indicates an input file with no usable client entries.
var ErrNoClients = errors.New("no clients in input")

// ArticleStub is a news article as produced by the upstream scraper:
// headline plus provenance, no body text.
type ArticleStub struct {
	Title         string `json:"title"`
	Source        string `json:"source"`
	PublishedDate string `json:"published_date"`
	URL           string `json:"url"`
}

// Client is one entry of the upstream client-data file: a name, the
// landing page that was fetched for it, and the scraped article stubs.
// LandingPageContent may be empty when the fetch failed.
type Client struct {
	Name               string        `json:"client_name"`
	URL                string        `json:"url"`
	LandingPageContent string        `json:"landing_page_content"`
	NewsArticles       []ArticleStub `json:"news_articles"`
}

// LoadClients reads the upstream client-data JSON file.
func LoadClients(path string) ([]Client, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading client data: %w", err)
	}

	var clients []Client
	if err := json.Unmarshal(data, &clients); err != nil {
		return nil, fmt.Errorf("parsing client data %s: %w", path, err)
	}

	for i, c := range clients {
		if c.Name == "" {
			return nil, fmt.Errorf("client %d: missing client_name", i)
		}
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoClients, path)
	}

	return clients, nil
}
