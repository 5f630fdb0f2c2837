package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Pinecone talks to a Pinecone serverless index over its REST API.
type Pinecone struct {
	Host       string
	HTTPClient *http.Client
	apiKey     string
	logger     *zap.Logger
}

// NewPinecone returns ErrUnavailable when the host or key is missing so the
// caller can run without an index instead of aborting.
func NewPinecone(host, apiKey string, logger *zap.Logger) (*Pinecone, error) {
	host = strings.TrimSpace(host)
	apiKey = strings.TrimSpace(apiKey)
	if host == "" || apiKey == "" {
		return nil, ErrUnavailable
	}

	if !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}

	return &Pinecone{
		Host:   strings.TrimRight(host, "/"),
		apiKey: apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

type pineconeVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []pineconeVector `json:"vectors"`
	Namespace string           `json:"namespace"`
}

type queryRequest struct {
	Namespace       string         `json:"namespace"`
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	IncludeMetadata bool           `json:"includeMetadata"`
	Filter          map[string]any `json:"filter,omitempty"`
}

type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

type fetchResponse struct {
	Vectors map[string]pineconeVector `json:"vectors"`
}

func (p *Pinecone) Upsert(ctx context.Context, namespace, id string, values []float32, metadata map[string]any) error {
	payload := upsertRequest{
		Vectors: []pineconeVector{{
			ID:       id,
			Values:   values,
			Metadata: CleanMetadata(metadata),
		}},
		Namespace: namespace,
	}

	if err := p.post(ctx, "/vectors/upsert", payload, nil); err != nil {
		return err
	}

	p.logger.Debug("vector upserted",
		zap.String("namespace", namespace),
		zap.String("id", id),
		zap.Int("dimensions", len(values)),
	)
	return nil
}

func (p *Pinecone) Fetch(ctx context.Context, namespace, id string) ([]float32, error) {
	q := url.Values{}
	q.Add("ids", id)
	q.Set("namespace", namespace)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Host+"/vectors/fetch?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	p.setHeaders(req)

	var fetched fetchResponse
	if err := p.do(req, &fetched); err != nil {
		return nil, err
	}

	vec, ok := fetched.Vectors[id]
	if !ok || len(vec.Values) == 0 {
		return nil, ErrNotFound
	}
	return vec.Values, nil
}

func (p *Pinecone) Query(ctx context.Context, namespace string, values []float32, topK int, filter map[string]any) ([]Match, error) {
	payload := queryRequest{
		Namespace:       namespace,
		Vector:          values,
		TopK:            topK,
		IncludeMetadata: true,
		Filter:          filter,
	}

	var resp queryResponse
	if err := p.post(ctx, "/query", payload, &resp); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, Match{
			ID:         m.ID,
			Similarity: m.Score,
			Metadata:   m.Metadata,
		})
	}
	return matches, nil
}

func (p *Pinecone) post(ctx context.Context, path string, payload, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Host+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	p.setHeaders(req)

	return p.do(req, target)
}

func (p *Pinecone) do(req *http.Request, target any) error {
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: bad status %s", ErrUnavailable, resp.Status)
	}

	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode index response: %w", err)
	}
	return nil
}

func (p *Pinecone) setHeaders(req *http.Request) {
	req.Header.Set("Api-Key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
