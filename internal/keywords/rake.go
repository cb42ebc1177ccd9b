package keywords

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// stopwordsData is the embedded linguistic resource for the RAKE tier.
//
//go:embed stopwords.txt
var stopwordsData []byte

// minStopwords guards against a truncated or corrupt resource. A list
// this small cannot delimit phrases usefully.
const minStopwords = 50

// rakeExtractor ranks phrases by summed word degree/frequency scores
// over co-occurring content words (Rose et al.'s RAKE heuristic).
type rakeExtractor struct {
	stopwords map[string]struct{}
}

func newRake() (*rakeExtractor, error) {
	stopwords := make(map[string]struct{})
	scanner := bufio.NewScanner(bytes.NewReader(stopwordsData))
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		stopwords[strings.ToLower(word)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stopword resource: %w", err)
	}
	if len(stopwords) < minStopwords {
		return nil, fmt.Errorf("stopword resource too small: %d words", len(stopwords))
	}
	return &rakeExtractor{stopwords: stopwords}, nil
}

func (r *rakeExtractor) Name() string { return "rake" }

// Extract returns the top-max ranked phrases, most salient first.
func (r *rakeExtractor) Extract(text string, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}

	phrases := r.candidatePhrases(text)
	if len(phrases) == 0 {
		return nil
	}

	// Word co-occurrence statistics across all candidate phrases.
	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, phrase := range phrases {
		for _, word := range phrase {
			freq[word]++
			degree[word] += len(phrase) - 1
		}
	}
	for word := range degree {
		degree[word] += freq[word]
	}

	type scored struct {
		text  string
		score float64
	}
	ranked := make([]scored, 0, len(phrases))
	for _, phrase := range phrases {
		var score float64
		for _, word := range phrase {
			score += float64(degree[word]) / float64(freq[word])
		}
		ranked = append(ranked, scored{text: strings.Join(phrase, " "), score: score})
	}

	// Stable: equally scored phrases keep document order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > max {
		ranked = ranked[:max]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.text
	}
	return out
}

// candidatePhrases splits text into maximal runs of content words.
// Stopwords and punctuation act as phrase delimiters; whitespace only
// separates words within a phrase.
func (r *rakeExtractor) candidatePhrases(text string) [][]string {
	var phrases [][]string
	var current []string
	var word []rune

	flushPhrase := func() {
		if len(current) > 0 {
			phrases = append(phrases, current)
			current = nil
		}
	}
	emitWord := func() {
		if len(word) == 0 {
			return
		}
		w := strings.ToLower(string(word))
		word = word[:0]
		if _, stop := r.stopwords[w]; stop {
			flushPhrase()
			return
		}
		current = append(current, w)
	}

	for _, rn := range text {
		switch {
		case unicode.IsLetter(rn) || unicode.IsDigit(rn) || rn == '\'' || rn == '-':
			word = append(word, rn)
		case unicode.IsSpace(rn):
			emitWord()
		default:
			// Punctuation ends both the word and the phrase.
			emitWord()
			flushPhrase()
		}
	}
	emitWord()
	flushPhrase()

	return phrases
}
