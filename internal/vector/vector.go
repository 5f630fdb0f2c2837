// Package vector is the thin adapter over the managed similarity-search
// store. Everything else must keep working when this service is absent.
package vector

import (
	"context"
	"errors"
)

const (
	// NamespaceJobs holds job posting vectors.
	NamespaceJobs = "jobs"
	// NamespaceResumes holds resume digest vectors.
	NamespaceResumes = "resumes"
)

var (
	// ErrUnavailable signals that the index is unreachable or unconfigured;
	// callers degrade to a non-vector tier instead of failing.
	ErrUnavailable = errors.New("vector index is unavailable")
	// ErrNotFound signals that no vector is stored under the requested id.
	ErrNotFound = errors.New("vector not found")
)

// Match is one ranked similarity result. Similarity is cosine, in [-1, 1].
type Match struct {
	ID         string
	Similarity float64
	Metadata   map[string]any
}

// Index is the namespaced upsert/fetch/query contract. Metadata values must
// be scalars or string lists; implementations drop anything else.
type Index interface {
	Upsert(ctx context.Context, namespace, id string, values []float32, metadata map[string]any) error
	Fetch(ctx context.Context, namespace, id string) ([]float32, error)
	Query(ctx context.Context, namespace string, values []float32, topK int, filter map[string]any) ([]Match, error)
}

// CleanMetadata strips nil values and anything that is not a scalar or a
// string list, matching what the index service accepts.
func CleanMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}

	clean := make(map[string]any, len(metadata))
	for k, v := range metadata {
		switch typed := v.(type) {
		case nil:
			continue
		case string, bool, int, int32, int64, float32, float64:
			clean[k] = typed
		case []string:
			clean[k] = typed
		}
	}
	return clean
}
