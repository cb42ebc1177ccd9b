package embeddings

import "errors"

var (
	// ErrEmptyInput indicates empty or nil input texts.
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrFastEmbedNotAvailable is returned when FastEmbed cannot be used
	// (binary built without CGO support, use the TEI provider instead).
	ErrFastEmbedNotAvailable = errors.New("fastembed: not available (binary built without CGO support, use TEI provider instead)")
)
