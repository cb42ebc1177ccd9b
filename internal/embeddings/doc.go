// Package embeddings provides embedding generation via multiple providers.
//
// Supports FastEmbed (local ONNX) and TEI (external service) providers.
// Factory pattern enables provider selection at runtime with automatic
// dimension detection for common models. A caching decorator keyed on
// exact text equality can be layered over either provider.
package embeddings
