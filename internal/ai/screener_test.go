package ai

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

// gateProvider records the highest number of in-flight completions.
type gateProvider struct {
	inFlight int64
	peak     int64
}

func (g *gateProvider) Name() string { return "gate" }

func (g *gateProvider) Complete(_ context.Context, _, _ string) (string, error) {
	current := atomic.AddInt64(&g.inFlight, 1)
	defer atomic.AddInt64(&g.inFlight, -1)

	for {
		peak := atomic.LoadInt64(&g.peak)
		if current <= peak || atomic.CompareAndSwapInt64(&g.peak, peak, current) {
			break
		}
	}

	time.Sleep(10 * time.Millisecond)
	return `{"score": 50, "recommendation": "CONSIDER", "reason": "ok"}`, nil
}

func TestScreenAllBoundsConcurrency(t *testing.T) {
	t.Parallel()

	provider := &gateProvider{}
	screener := NewScreener(newTestClient(provider), zap.NewNop())

	postings := make([]*jobs.JobPosting, 20)
	for i := range postings {
		postings[i] = &jobs.JobPosting{ID: string(rune('a' + i)), Title: "Dev", Company: "Acme"}
	}

	results, err := screener.ScreenAll(context.Background(), nil, postings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != len(postings) {
		t.Fatalf("expected %d results, got %d", len(postings), len(results))
	}
	for i, r := range results {
		if r.Posting != postings[i] {
			t.Fatalf("expected result %d to keep input order", i)
		}
		if r.Verdict == nil || r.Verdict.Recommendation != VerdictConsider {
			t.Fatalf("unexpected verdict at %d: %+v", i, r.Verdict)
		}
	}

	if peak := atomic.LoadInt64(&provider.peak); peak > maxConcurrentScreens {
		t.Fatalf("expected at most %d concurrent analyses, observed %d", maxConcurrentScreens, peak)
	}
}

func TestScreenAllPrefiltersExcludedKeywords(t *testing.T) {
	t.Parallel()

	provider := &gateProvider{}
	screener := NewScreener(newTestClient(provider), zap.NewNop())

	profile := &jobs.CandidateProfile{ExcludeKeywords: []string{"gambling"}}
	postings := []*jobs.JobPosting{
		{ID: "1", Title: "Go Developer", Description: "backend services"},
		{ID: "2", Title: "Go Developer", Description: "casino and gambling platform"},
	}

	results, err := screener.ScreenAll(context.Background(), profile, postings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if results[0].Verdict.Recommendation != VerdictConsider {
		t.Fatalf("expected the clean posting to be screened, got %+v", results[0].Verdict)
	}
	if results[1].Verdict.Recommendation != VerdictIgnore {
		t.Fatalf("expected the excluded posting to be ignored, got %+v", results[1].Verdict)
	}
	if results[1].Verdict.Reason != "matched an exclude keyword" {
		t.Fatalf("unexpected prefilter reason %q", results[1].Verdict.Reason)
	}
}
