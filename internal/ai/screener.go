package ai

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jobradar/jobradar/internal/jobs"
)

// maxConcurrentScreens bounds in-flight LLM calls during bulk screening so
// a big batch does not trip provider rate limits on its own.
const maxConcurrentScreens = 5

// ScreenedPosting pairs a posting with its verdict. Skipped postings carry
// an IGNORE verdict from the keyword prefilter and never reach a provider.
type ScreenedPosting struct {
	Posting *jobs.JobPosting
	Verdict *ScreenVerdict
}

// Screener runs the bulk screening path: a cheap exclude-keyword prefilter
// followed by concurrent per-posting LLM verdicts.
type Screener struct {
	client *Client
	logger *zap.Logger
}

func NewScreener(client *Client, logger *zap.Logger) *Screener {
	return &Screener{client: client, logger: logger}
}

// ScreenAll returns one entry per input posting, in input order.
func (s *Screener) ScreenAll(ctx context.Context, profile *jobs.CandidateProfile, postings []*jobs.JobPosting) ([]ScreenedPosting, error) {
	results := make([]ScreenedPosting, len(postings))
	profileJSON := MarshalProfile(profile)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentScreens)

	skipped := 0
	for i, posting := range postings {
		if excludedByKeywords(profile, posting) {
			results[i] = ScreenedPosting{
				Posting: posting,
				Verdict: &ScreenVerdict{
					Recommendation: VerdictIgnore,
					Reason:         "matched an exclude keyword",
				},
			}
			skipped++
			continue
		}

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			verdict := s.client.Screen(ctx, profileJSON, posting.EmbeddingText())
			results[i] = ScreenedPosting{Posting: posting, Verdict: verdict}
			return nil
		})
	}

	err := group.Wait()

	s.logger.Info("screening finished",
		zap.Int("postings", len(postings)),
		zap.Int("prefiltered", skipped),
	)

	return results, err
}

func excludedByKeywords(profile *jobs.CandidateProfile, posting *jobs.JobPosting) bool {
	if profile == nil || len(profile.ExcludeKeywords) == 0 {
		return false
	}
	text := strings.ToLower(posting.Title + " " + posting.Location + " " + posting.Description)
	for _, kw := range profile.ExcludeKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
