// Package recommend ranks stored postings against a candidate through an
// ordered chain of scoring tiers, each cheaper and less precise than the one
// before it.
package recommend

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

// maxDisplayScore caps every tier's output. The ceiling below 100 signals
// that no score is a certainty claim.
const maxDisplayScore = 95

// Request carries everything a tier may need. Digest is nil when the
// candidate has no analyzed resume; Candidates is the posting pool the
// non-vector tiers score directly.
type Request struct {
	Profile    *jobs.CandidateProfile
	Digest     *jobs.ResumeDigest
	Candidates []*jobs.JobPosting
	Limit      int
}

// Scored is one ranked result. Pros and cons are only present when an AI
// analysis enriched the score.
type Scored struct {
	Posting *jobs.JobPosting
	Score   int
	Pros    []string
	Cons    []string
}

// Tier is a single strategy in the fallback chain. It returns its results
// and whether it is exhausted for this request (unavailable or inapplicable,
// as opposed to applicable-but-empty).
type Tier interface {
	Name() string
	Score(ctx context.Context, req *Request) (results []Scored, exhausted bool, err error)
}

// Engine walks the tiers in priority order and stops at the first non-empty
// result set. A tier error is a fallback trigger, never a request failure.
type Engine struct {
	tiers  []Tier
	logger *zap.Logger
}

func NewEngine(tiers []Tier, logger *zap.Logger) *Engine {
	return &Engine{tiers: tiers, logger: logger}
}

// Recommend returns the ranked list for the request, ordered by score
// descending with ties broken by most recently discovered posting. An empty
// list means no tier could produce anything; that is not an error.
func (e *Engine) Recommend(ctx context.Context, req *Request) []Scored {
	req = req.withExcludedDropped()

	for _, tier := range e.tiers {
		results, exhausted, err := tier.Score(ctx, req)
		if err != nil {
			e.logger.Warn("scoring tier failed, falling back",
				zap.String("tier", tier.Name()),
				zap.Error(err),
			)
			continue
		}
		if len(results) == 0 {
			e.logger.Debug("scoring tier produced nothing",
				zap.String("tier", tier.Name()),
				zap.Bool("exhausted", exhausted),
			)
			continue
		}

		sortScored(results)
		if req.Limit > 0 && len(results) > req.Limit {
			results = results[:req.Limit]
		}

		e.logger.Info("recommendations ready",
			zap.String("tier", tier.Name()),
			zap.Int("count", len(results)),
		)
		return results
	}

	return nil
}

// withExcludedDropped removes candidates mentioning any of the profile's
// exclude keywords before any tier sees them.
func (r *Request) withExcludedDropped() *Request {
	if r.Profile == nil || len(r.Profile.ExcludeKeywords) == 0 {
		return r
	}

	kept := make([]*jobs.JobPosting, 0, len(r.Candidates))
	for _, posting := range r.Candidates {
		if containsExcluded(posting, r.Profile.ExcludeKeywords) {
			continue
		}
		kept = append(kept, posting)
	}

	clone := *r
	clone.Candidates = kept
	return &clone
}

func containsExcluded(posting *jobs.JobPosting, keywords []string) bool {
	text := strings.ToLower(posting.Title + " " + posting.Location + " " + posting.Description)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func sortScored(results []Scored) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Posting.DiscoveredAt.After(results[j].Posting.DiscoveredAt)
	})
}

// displayScore converts a fractional score in [0, 1] into the bounded
// integer scale shared by all tiers.
func displayScore(fraction float64) int {
	score := int(math.Round(fraction * 100))
	if score < 0 {
		score = 0
	}
	if score > maxDisplayScore {
		score = maxDisplayScore
	}
	return score
}
