package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		budget int
		text   string
		want   []string
	}{
		{
			name:   "empty input",
			budget: 10,
			text:   "",
			want:   nil,
		},
		{
			name:   "whitespace only",
			budget: 10,
			text:   "   \n\t  ",
			want:   nil,
		},
		{
			name:   "fits in one chunk",
			budget: 50,
			text:   "the quick brown fox",
			want:   []string{"the quick brown fox"},
		},
		{
			name:   "splits at word boundary",
			budget: 9,
			text:   "aaaa bbbb cccc",
			want:   []string{"aaaa bbbb", "cccc"},
		},
		{
			name:   "exact budget boundary kept together",
			budget: 9,
			text:   "aaaa bbbb",
			want:   []string{"aaaa bbbb"},
		},
		{
			name:   "single over-budget word becomes its own chunk",
			budget: 5,
			text:   "hi extraordinary yo",
			want:   []string{"hi", "extraordinary", "yo"},
		},
		{
			name:   "over-budget word at start",
			budget: 4,
			text:   "extraordinary hi",
			want:   []string{"extraordinary", "hi"},
		},
		{
			name:   "collapses internal whitespace",
			budget: 100,
			text:   "a  b\n\nc",
			want:   []string{"a b c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.budget).Split(tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitPartitionsWithoutLoss(t *testing.T) {
	texts := []string{
		"one two three four five six seven eight nine ten",
		strings.Repeat("lorem ipsum dolor sit amet consectetur ", 40),
		"short",
		"a b c d e f g h i j k l m n o p q r s t u v w x y z",
	}

	for _, budget := range []int{5, 16, 64, 512} {
		c := New(budget)
		for _, text := range texts {
			chunks := c.Split(text)

			// Concatenating all chunks yields exactly the original words.
			joined := strings.Join(chunks, " ")
			require.Equal(t, strings.Fields(text), strings.Fields(joined),
				"budget %d must partition without loss", budget)

			// No chunk exceeds the budget unless it is a single word.
			for _, chunk := range chunks {
				if len(strings.Fields(chunk)) > 1 {
					assert.LessOrEqual(t, len(chunk), budget,
						"multi-word chunk %q exceeds budget %d", chunk, budget)
				}
			}
		}
	}
}

func TestNewDefaultBudget(t *testing.T) {
	assert.Equal(t, DefaultBudget, New(0).Budget)
	assert.Equal(t, DefaultBudget, New(-1).Budget)
	assert.Equal(t, 64, New(64).Budget)
}
