package vector

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestNewPineconeUnconfigured(t *testing.T) {
	t.Parallel()

	if _, err := NewPinecone("", "key", zap.NewNop()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for missing host, got %v", err)
	}
	if _, err := NewPinecone("host", "", zap.NewNop()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for missing key, got %v", err)
	}
}

func TestPineconeUpsertPayload(t *testing.T) {
	t.Parallel()

	var got upsertRequest
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vectors/upsert" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		apiKey = r.Header.Get("Api-Key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p, err := NewPinecone(srv.URL, "secret", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.HTTPClient = srv.Client()

	metadata := map[string]any{
		"title":  "Go Dev",
		"skills": []string{"go"},
		"bogus":  struct{}{},
	}
	if err := p.Upsert(context.Background(), NamespaceJobs, "id-1", []float32{0.1, 0.2}, metadata); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if apiKey != "secret" {
		t.Errorf("expected api key header, got %q", apiKey)
	}
	if got.Namespace != NamespaceJobs {
		t.Errorf("expected namespace %q, got %q", NamespaceJobs, got.Namespace)
	}
	if len(got.Vectors) != 1 || got.Vectors[0].ID != "id-1" {
		t.Fatalf("unexpected vectors payload: %+v", got.Vectors)
	}
	if _, ok := got.Vectors[0].Metadata["bogus"]; ok {
		t.Error("expected non-scalar metadata to be stripped")
	}
}

func TestPineconeFetchNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"vectors": {}}`))
	}))
	defer srv.Close()

	p, err := NewPinecone(srv.URL, "secret", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.HTTPClient = srv.Client()

	if _, err := p.Fetch(context.Background(), NamespaceResumes, "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPineconeQueryMapsMatches(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.TopK != 5 || !req.IncludeMetadata {
			t.Errorf("unexpected query request: %+v", req)
		}
		w.Write([]byte(`{"matches": [
			{"id": "job-1", "score": 0.91, "metadata": {"title": "Go Dev"}},
			{"id": "job-2", "score": 0.42}
		]}`))
	}))
	defer srv.Close()

	p, err := NewPinecone(srv.URL, "secret", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.HTTPClient = srv.Client()

	matches, err := p.Query(context.Background(), NamespaceJobs, []float32{0.1}, 5, nil)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ID != "job-1" || matches[0].Similarity != 0.91 {
		t.Fatalf("unexpected first match: %+v", matches[0])
	}
	if matches[0].Metadata["title"] != "Go Dev" {
		t.Fatalf("expected metadata to be carried, got %v", matches[0].Metadata)
	}
}

func TestPineconeBadStatusIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p, err := NewPinecone(srv.URL, "secret", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.HTTPClient = srv.Client()

	if err := p.Upsert(context.Background(), NamespaceJobs, "id", []float32{0.1}, nil); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCleanMetadata(t *testing.T) {
	t.Parallel()

	clean := CleanMetadata(map[string]any{
		"str":   "ok",
		"num":   42,
		"flag":  true,
		"list":  []string{"a", "b"},
		"nil":   nil,
		"deep":  map[string]any{"x": 1},
		"mixed": []any{"a", 1},
	})

	for _, key := range []string{"str", "num", "flag", "list"} {
		if _, ok := clean[key]; !ok {
			t.Errorf("expected %q to survive", key)
		}
	}
	for _, key := range []string{"nil", "deep", "mixed"} {
		if _, ok := clean[key]; ok {
			t.Errorf("expected %q to be stripped", key)
		}
	}
}
