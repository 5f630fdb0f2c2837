package recommend

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/embedding"
	"github.com/jobradar/jobradar/internal/jobs"
	"github.com/jobradar/jobradar/internal/vector"
)

// VectorMatch serves requests whose resume already has a stored vector. It
// is exhausted when the index is absent, the candidate has no digest, or no
// vector was ever stored for it.
type VectorMatch struct {
	index  vector.Index
	logger *zap.Logger
}

func NewVectorMatch(index vector.Index, logger *zap.Logger) *VectorMatch {
	return &VectorMatch{index: index, logger: logger}
}

func (t *VectorMatch) Name() string { return "vector_match" }

func (t *VectorMatch) Score(ctx context.Context, req *Request) ([]Scored, bool, error) {
	if t.index == nil || req.Digest == nil {
		return nil, true, nil
	}

	vec, err := t.index.Fetch(ctx, vector.NamespaceResumes, req.Digest.ID)
	if errors.Is(err, vector.ErrNotFound) {
		// Missing index entry, not an outage: the on-demand tier repairs it.
		return nil, true, nil
	}
	if err != nil {
		return nil, true, err
	}

	results, err := queryJobs(ctx, t.index, req, vec)
	return results, false, err
}

// OnDemandEmbed synthesizes the missing resume vector from the digest text,
// stores it so future requests hit VectorMatch directly, and re-attempts the
// similarity query once.
type OnDemandEmbed struct {
	index    vector.Index
	embedder embedding.Provider
	logger   *zap.Logger
}

func NewOnDemandEmbed(index vector.Index, embedder embedding.Provider, logger *zap.Logger) *OnDemandEmbed {
	return &OnDemandEmbed{index: index, embedder: embedder, logger: logger}
}

func (t *OnDemandEmbed) Name() string { return "on_demand_embed" }

func (t *OnDemandEmbed) Score(ctx context.Context, req *Request) ([]Scored, bool, error) {
	if t.index == nil || t.embedder == nil || req.Digest == nil {
		return nil, true, nil
	}

	// Only a missing vector is ours to repair. A stored vector that matched
	// nothing means the jobs namespace is thin; re-embedding cannot help.
	if _, err := t.index.Fetch(ctx, vector.NamespaceResumes, req.Digest.ID); err == nil {
		return nil, true, nil
	} else if !errors.Is(err, vector.ErrNotFound) {
		return nil, true, err
	}

	vec, err := t.embedder.EmbedDocument(ctx, req.Digest.EmbeddingText())
	if err != nil {
		return nil, true, err
	}

	metadata := map[string]any{
		"summary": req.Digest.Summary,
		"skills":  req.Digest.TechnicalSkills,
	}
	if err := t.index.Upsert(ctx, vector.NamespaceResumes, req.Digest.ID, vec, metadata); err != nil {
		// The query below can still succeed; the repair just did not stick.
		t.logger.Warn("storing repaired resume vector failed",
			zap.String("resume_id", req.Digest.ID),
			zap.Error(err),
		)
	} else {
		t.logger.Info("repaired missing resume vector",
			zap.String("resume_id", req.Digest.ID),
		)
	}

	results, err := queryJobs(ctx, t.index, req, vec)
	return results, false, err
}

func queryJobs(ctx context.Context, index vector.Index, req *Request, vec []float32) ([]Scored, error) {
	topK := req.Limit
	if topK <= 0 {
		topK = 10
	}

	matches, err := index.Query(ctx, vector.NamespaceJobs, vec, topK, nil)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*jobs.JobPosting, len(req.Candidates))
	for _, posting := range req.Candidates {
		byID[posting.ID] = posting
	}

	results := make([]Scored, 0, len(matches))
	for _, m := range matches {
		posting, ok := byID[m.ID]
		if !ok {
			continue
		}
		results = append(results, Scored{
			Posting: posting,
			Score:   displayScore(m.Similarity),
		})
	}
	return results, nil
}
