// Package scraper implements job offer fetching from external sources and
// the fan-out orchestrator that runs all configured adapters.
package scraper

import (
	"context"

	"github.com/jobradar/jobradar/internal/jobs"
)

// Adapter is implemented once per external job source. Search returns the
// offers matching the query, at most limit of them. Implementations never
// know about each other; a failing adapter only reduces yield.
type Adapter interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]jobs.ScrapedJob, error)
}
