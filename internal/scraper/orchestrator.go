package scraper

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

// DefaultAdapterTimeout bounds a single adapter call. A source slower than
// this contributes nothing to the batch.
const DefaultAdapterTimeout = 25 * time.Second

// Orchestrator fans a query out to every registered adapter at once and
// collects whatever each of them managed to return. A failing or timed-out
// adapter never cancels its siblings.
type Orchestrator struct {
	adapters []Adapter
	timeout  time.Duration
	logger   *zap.Logger
}

func NewOrchestrator(adapters []Adapter, timeout time.Duration, logger *zap.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultAdapterTimeout
	}
	return &Orchestrator{
		adapters: adapters,
		timeout:  timeout,
		logger:   logger,
	}
}

func (o *Orchestrator) Adapters() []Adapter {
	return o.adapters
}

// Run executes all adapters concurrently and returns the concatenation of
// their partial results in adapter registration order. "all sources down"
// and "nothing found" are both an empty slice, never an error.
func (o *Orchestrator) Run(ctx context.Context, query string, limit int) []jobs.ScrapedJob {
	partial := make([][]jobs.ScrapedJob, len(o.adapters))

	var wg sync.WaitGroup
	for i, adapter := range o.adapters {
		wg.Add(1)
		go func(i int, adapter Adapter) {
			defer wg.Done()

			actx, cancel := context.WithTimeout(ctx, o.timeout)
			defer cancel()

			started := time.Now()
			found, err := adapter.Search(actx, query, limit)
			if err != nil {
				o.logger.Warn("source adapter failed",
					zap.String("source", adapter.Name()),
					zap.Duration("elapsed", time.Since(started)),
					zap.Error(err),
				)
				return
			}

			o.logger.Info("source adapter finished",
				zap.String("source", adapter.Name()),
				zap.Int("found", len(found)),
				zap.Duration("elapsed", time.Since(started)),
			)
			partial[i] = found
		}(i, adapter)
	}
	wg.Wait()

	var all []jobs.ScrapedJob
	for _, batch := range partial {
		all = append(all, batch...)
	}

	o.logger.Info("scrape fan-out settled",
		zap.String("query", query),
		zap.Int("sources", len(o.adapters)),
		zap.Int("total", len(all)),
	)

	return all
}
