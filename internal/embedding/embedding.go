// Package embedding turns free text into fixed-length vectors for the
// similarity index.
package embedding

import (
	"context"
	"errors"
)

// ErrUnconfigured signals that no embedding credential is available. It is a
// distinct condition from a transient provider failure so callers can skip
// the vector tiers instead of retrying.
var ErrUnconfigured = errors.New("embedding provider is not configured")

// Provider generates embeddings. Document and query embeddings use different
// task types on providers that distinguish them.
type Provider interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
