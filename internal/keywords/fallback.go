package keywords

import "strings"

// fallbackStopwords is the small hardcoded set used when the statistical
// resource is unavailable. Kept deliberately minimal; the length filter
// below does most of the work.
var fallbackStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "may": {}, "might": {}, "can": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {},
	"they": {}, "me": {}, "him": {}, "her": {}, "us": {}, "them": {},
}

// fallbackExtractor is the resilience tier: lowercase, split on
// whitespace, drop short words and stopwords, keep document order.
type fallbackExtractor struct{}

// NewFallback returns the positional fallback extractor. It carries no
// state and never fails.
func NewFallback() Extractor {
	return fallbackExtractor{}
}

func (fallbackExtractor) Name() string { return "fallback" }

// Extract returns the first max surviving words in original order.
func (fallbackExtractor) Extract(text string, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}

	var out []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) <= 3 {
			continue
		}
		if _, stop := fallbackStopwords[word]; stop {
			continue
		}
		out = append(out, word)
		if len(out) == max {
			break
		}
	}
	return out
}
