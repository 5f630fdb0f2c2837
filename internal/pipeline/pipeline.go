// Package pipeline composes scraping, deduplication, persistence and vector
// indexing into the two end-to-end flows the commands invoke.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/ai"
	"github.com/jobradar/jobradar/internal/dedup"
	"github.com/jobradar/jobradar/internal/embedding"
	"github.com/jobradar/jobradar/internal/jobs"
	"github.com/jobradar/jobradar/internal/scraper"
	"github.com/jobradar/jobradar/internal/vector"
)

// ResumeSaver persists analyzed resume digests.
type ResumeSaver interface {
	SaveDigest(ctx context.Context, d *jobs.ResumeDigest) error
}

// Pipeline owns the ingestion flow. The embedder and index are optional;
// when either is absent, postings are persisted without vectors and matching
// falls back to the non-vector tiers.
type Pipeline struct {
	orchestrator *scraper.Orchestrator
	deduper      *dedup.Deduplicator
	embedder     embedding.Provider
	index        vector.Index
	logger       *zap.Logger
}

func New(orchestrator *scraper.Orchestrator, deduper *dedup.Deduplicator, embedder embedding.Provider, index vector.Index, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		orchestrator: orchestrator,
		deduper:      deduper,
		embedder:     embedder,
		index:        index,
		logger:       logger,
	}
}

// SearchAndSave fans the query out to all sources, dedups the merged batch,
// persists the survivors and indexes their vectors. Indexing failures are
// logged per posting and never undo the persistence that already happened.
func (p *Pipeline) SearchAndSave(ctx context.Context, query string, limit int) ([]*jobs.JobPosting, error) {
	scraped := p.orchestrator.Run(ctx, query, limit)

	accepted, err := p.deduper.Persist(ctx, scraped)
	if err != nil {
		return accepted, fmt.Errorf("persist scraped batch: %w", err)
	}

	p.indexPostings(ctx, accepted)
	return accepted, nil
}

func (p *Pipeline) indexPostings(ctx context.Context, postings []*jobs.JobPosting) {
	if p.embedder == nil || p.index == nil {
		if len(postings) > 0 {
			p.logger.Debug("vector indexing skipped, embedder or index absent")
		}
		return
	}

	indexed := 0
	for _, posting := range postings {
		if err := ctx.Err(); err != nil {
			return
		}

		vec, err := p.embedder.EmbedDocument(ctx, posting.EmbeddingText())
		if err != nil {
			p.logger.Warn("embedding posting failed",
				zap.String("posting_id", posting.ID),
				zap.Error(err),
			)
			continue
		}

		metadata := vector.CleanMetadata(map[string]any{
			"title":           posting.Title,
			"company":         posting.Company,
			"location":        posting.Location,
			"is_remote":       posting.IsRemote,
			"source_platform": posting.SourcePlatform,
			"technologies":    posting.Technologies,
		})
		if err := p.index.Upsert(ctx, vector.NamespaceJobs, posting.ID, vec, metadata); err != nil {
			p.logger.Warn("indexing posting failed",
				zap.String("posting_id", posting.ID),
				zap.Error(err),
			)
			continue
		}
		indexed++
	}

	p.logger.Info("vector indexing finished",
		zap.Int("postings", len(postings)),
		zap.Int("indexed", indexed),
	)
}

// ResumeAnalyzer turns raw resume text into a stored, indexed digest.
type ResumeAnalyzer struct {
	client   *ai.Client
	saver    ResumeSaver
	embedder embedding.Provider
	index    vector.Index
	logger   *zap.Logger
}

func NewResumeAnalyzer(client *ai.Client, saver ResumeSaver, embedder embedding.Provider, index vector.Index, logger *zap.Logger) *ResumeAnalyzer {
	return &ResumeAnalyzer{
		client:   client,
		saver:    saver,
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// Analyze extracts the digest, persists it and stores its vector. Extraction
// or persistence failure is an error; a missing vector only degrades later
// matching, so indexing failure is logged and swallowed.
func (a *ResumeAnalyzer) Analyze(ctx context.Context, resumeText string) (*jobs.ResumeDigest, error) {
	extraction, err := a.client.ExtractResume(ctx, resumeText)
	if err != nil {
		return nil, fmt.Errorf("extract resume: %w", err)
	}

	digest := &jobs.ResumeDigest{
		ID:                uuid.NewString(),
		Summary:           extraction.Summary,
		YearsOfExperience: extraction.YearsOfExperience,
		TechnicalSkills:   extraction.TechnicalSkills,
		SoftSkills:        extraction.SoftSkills,
		Certifications:    extraction.Certifications,
		UpdatedAt:         time.Now().UTC(),
	}

	if err := a.saver.SaveDigest(ctx, digest); err != nil {
		return nil, fmt.Errorf("save resume digest: %w", err)
	}

	a.indexDigest(ctx, digest)
	return digest, nil
}

func (a *ResumeAnalyzer) indexDigest(ctx context.Context, digest *jobs.ResumeDigest) {
	if a.embedder == nil || a.index == nil {
		return
	}

	vec, err := a.embedder.EmbedDocument(ctx, digest.EmbeddingText())
	if err != nil {
		a.logger.Warn("embedding resume failed",
			zap.String("resume_id", digest.ID),
			zap.Error(err),
		)
		return
	}

	metadata := vector.CleanMetadata(map[string]any{
		"summary": digest.Summary,
		"skills":  digest.TechnicalSkills,
	})
	if err := a.index.Upsert(ctx, vector.NamespaceResumes, digest.ID, vec, metadata); err != nil {
		a.logger.Warn("indexing resume failed",
			zap.String("resume_id", digest.ID),
			zap.Error(err),
		)
		return
	}

	a.logger.Info("resume vector stored", zap.String("resume_id", digest.ID))
}
