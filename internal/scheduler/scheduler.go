// Package scheduler runs the ingestion pipeline for standing queries on a
// cron interval.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/pipeline"
)

// StandingQuery is one recurring search.
type StandingQuery struct {
	Query string `mapstructure:"query"`
	Limit int    `mapstructure:"limit"`
}

// Scheduler wraps robfig/cron around the pipeline.
type Scheduler struct {
	cron     *cron.Cron
	pipeline *pipeline.Pipeline
	queries  []StandingQuery
	spec     string
	logger   *zap.Logger
}

// New builds a scheduler firing every intervalHours hours.
func New(p *pipeline.Pipeline, queries []StandingQuery, intervalHours int, logger *zap.Logger) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = 6
	}
	return &Scheduler{
		cron:     cron.New(),
		pipeline: p,
		queries:  queries,
		spec:     fmt.Sprintf("@every %dh", intervalHours),
		logger:   logger,
	}
}

// Start registers the cron entry and fires one cycle immediately so the
// store is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("spec", s.spec),
		zap.Int("queries", len(s.queries)),
	)

	go s.runCycle(ctx)
	return nil
}

// Stop halts the cron loop. Running cycles finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if len(s.queries) == 0 {
		s.logger.Info("no standing queries configured, skipping cycle")
		return
	}

	s.logger.Info("scrape cycle started", zap.Int("queries", len(s.queries)))
	for _, q := range s.queries {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("scrape cycle interrupted", zap.Error(err))
			return
		}

		accepted, err := s.pipeline.SearchAndSave(ctx, q.Query, q.Limit)
		if err != nil {
			s.logger.Warn("standing query failed",
				zap.String("query", q.Query),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("standing query finished",
			zap.String("query", q.Query),
			zap.Int("accepted", len(accepted)),
		)
	}
	s.logger.Info("scrape cycle complete")
}
