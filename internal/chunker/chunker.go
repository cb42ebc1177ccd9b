// Package chunker splits long text into bounded, word-aligned segments
// suitable for embedding.
package chunker

import "strings"

// DefaultBudget is the default chunk length budget in characters of the
// space-joined words, matching the embedding model's input window.
const DefaultBudget = 512

// Chunker splits text into chunks whose space-joined word length does
// not exceed Budget. Words are never split; a single word longer than
// the budget still becomes its own chunk.
type Chunker struct {
	Budget int
}

// New returns a Chunker with the given budget. Non-positive budgets
// fall back to DefaultBudget.
func New(budget int) *Chunker {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Chunker{Budget: budget}
}

// Split partitions text into chunks. The chunks cover the original word
// sequence in order, without overlap or loss. Empty or whitespace-only
// input yields nil.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	length := 0

	for _, word := range words {
		// +1 for the joining space when the chunk is non-empty.
		if len(current) > 0 && length+1+len(word) > c.Budget {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			length = 0
		}
		if len(current) > 0 {
			length++
		}
		current = append(current, word)
		length += len(word)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}
