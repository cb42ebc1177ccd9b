// Package keywords extracts salient phrases from text.
//
// Two tiers are available: a statistical RAKE-style ranker backed by an
// embedded stopword resource, and a simple positional fallback used when
// the resource is unavailable. The tier is selected once at construction,
// not re-attempted per call.
package keywords

// DefaultMax is the default number of keywords extracted per text.
const DefaultMax = 5

// Extractor ranks candidate phrases in a text, most salient first. The
// returned phrases are order-significant and not necessarily unique.
// Implementations never fail; a text with no candidates yields nil.
type Extractor interface {
	Extract(text string, max int) []string
	Name() string
}

// New returns the best available extractor: the RAKE tier when the
// embedded stopword resource parses, otherwise the fallback tier.
func New() Extractor {
	if r, err := newRake(); err == nil {
		return r
	}
	return NewFallback()
}
