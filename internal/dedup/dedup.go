// Package dedup decides which scraped offers become persisted postings.
package dedup

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

// Store is the keyed persistence collaborator the deduplicator writes
// accepted postings to.
type Store interface {
	GetByExternalID(ctx context.Context, platform, externalID string) (*jobs.JobPosting, error)
	GetByTitleCompany(ctx context.Context, title, company string) (*jobs.JobPosting, error)
	Create(ctx context.Context, posting *jobs.JobPosting) error
}

// SeenCache is an optional fast path in front of the store's identity
// lookup. Cache errors degrade to a store lookup, never to a dropped or
// duplicated posting.
type SeenCache interface {
	Seen(ctx context.Context, key string) (bool, error)
	MarkSeen(ctx context.Context, key string) error
}

// Deduplicator applies the two dedup stages before persisting: identity
// (source_platform + external_id) and cross-source exact (title, company).
// The first writer wins; later duplicates are dropped silently.
type Deduplicator struct {
	store  Store
	cache  SeenCache
	logger *zap.Logger
}

func New(store Store, cache SeenCache, logger *zap.Logger) *Deduplicator {
	return &Deduplicator{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Persist filters the scraped batch through both dedup stages and stores the
// survivors, returning them in input order. The batch itself is deduped too,
// so a single run and a re-run over identical input persist the same set.
func (d *Deduplicator) Persist(ctx context.Context, scraped []jobs.ScrapedJob) ([]*jobs.JobPosting, error) {
	batchIdentity := make(map[string]struct{}, len(scraped))
	batchPair := make(map[string]struct{}, len(scraped))

	var accepted []*jobs.JobPosting
	for _, s := range scraped {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}

		identity := identityKey(s.SourcePlatform, s.ExternalID)
		pair := s.Title + "\x00" + s.Company

		if _, ok := batchIdentity[identity]; ok {
			continue
		}
		if _, ok := batchPair[pair]; ok {
			continue
		}

		dup, err := d.isDuplicate(ctx, s, identity)
		if err != nil {
			d.logger.Warn("dedup lookup failed, dropping offer",
				zap.String("source", s.SourcePlatform),
				zap.String("external_id", s.ExternalID),
				zap.Error(err),
			)
			continue
		}
		if dup {
			batchIdentity[identity] = struct{}{}
			batchPair[pair] = struct{}{}
			continue
		}

		posting := jobs.FromScraped(s)
		if err := d.store.Create(ctx, posting); err != nil {
			d.logger.Warn("persisting posting failed",
				zap.String("source", s.SourcePlatform),
				zap.String("external_id", s.ExternalID),
				zap.Error(err),
			)
			continue
		}

		batchIdentity[identity] = struct{}{}
		batchPair[pair] = struct{}{}
		d.markSeen(ctx, identity)

		accepted = append(accepted, posting)
	}

	d.logger.Info("dedup finished",
		zap.Int("scraped", len(scraped)),
		zap.Int("accepted", len(accepted)),
	)

	return accepted, nil
}

func (d *Deduplicator) isDuplicate(ctx context.Context, s jobs.ScrapedJob, identity string) (bool, error) {
	if d.cache != nil {
		seen, err := d.cache.Seen(ctx, identity)
		if err != nil {
			d.logger.Debug("seen cache unavailable", zap.Error(err))
		} else if seen {
			return true, nil
		}
	}

	existing, err := d.store.GetByExternalID(ctx, s.SourcePlatform, s.ExternalID)
	if err != nil {
		return false, fmt.Errorf("identity lookup: %w", err)
	}
	if existing != nil {
		d.markSeen(ctx, identity)
		return true, nil
	}

	// Cross-source stage: the same listing aggregated by several boards
	// carries a different external id but the exact same title and company.
	same, err := d.store.GetByTitleCompany(ctx, s.Title, s.Company)
	if err != nil {
		return false, fmt.Errorf("cross-source lookup: %w", err)
	}
	return same != nil, nil
}

func (d *Deduplicator) markSeen(ctx context.Context, identity string) {
	if d.cache == nil {
		return
	}
	if err := d.cache.MarkSeen(ctx, identity); err != nil {
		d.logger.Debug("seen cache write failed", zap.Error(err))
	}
}

func identityKey(platform, externalID string) string {
	return platform + "\x00" + externalID
}
