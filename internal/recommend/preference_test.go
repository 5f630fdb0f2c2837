package recommend

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

func preferenceScore(t *testing.T, profile *jobs.CandidateProfile, posting *jobs.JobPosting) int {
	t.Helper()

	tier := NewPreference(zap.NewNop())
	results, exhausted, err := tier.Score(context.Background(), &Request{
		Profile:    profile,
		Candidates: []*jobs.JobPosting{posting},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exhausted {
		t.Fatal("expected the preference tier to be applicable")
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	return results[0].Score
}

func TestPreferenceNilProfileExhausted(t *testing.T) {
	t.Parallel()

	tier := NewPreference(zap.NewNop())
	results, exhausted, err := tier.Score(context.Background(), &Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exhausted || results != nil {
		t.Fatalf("expected exhausted with no results, got %v exhausted=%v", results, exhausted)
	}
}

func TestPreferenceSalarySubScore(t *testing.T) {
	t.Parallel()

	profile := &jobs.CandidateProfile{SalaryMin: 10000}

	// The undeclared location preference contributes a constant 5 on top of
	// the salary sub-score.
	tests := []struct {
		name       string
		postingMax int
		expect     int
	}{
		{"meets floor", 10500, 15},
		{"within 80 percent", 9500, 10},
		{"below 80 percent", 7900, 5},
		{"no posted salary", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := preferenceScore(t, profile, &jobs.JobPosting{
				Title:     "Engineer",
				SalaryMax: tt.postingMax,
			})
			if got != tt.expect {
				t.Fatalf("expected score %d, got %d", tt.expect, got)
			}
		})
	}
}

func TestPreferenceNoSalaryFloorIsNeutral(t *testing.T) {
	t.Parallel()

	got := preferenceScore(t, &jobs.CandidateProfile{}, &jobs.JobPosting{Title: "Engineer"})
	// Half salary credit plus half location credit when neither is declared.
	if got != 10 {
		t.Fatalf("expected neutral score 10, got %d", got)
	}
}

func TestPreferenceFullMatch(t *testing.T) {
	t.Parallel()

	profile := &jobs.CandidateProfile{
		DesiredTitles: []string{"Backend Developer"},
		Technologies:  []string{"go", "postgresql"},
		WorkModels:    []string{"remote"},
		Locations:     []string{"Berlin"},
		SalaryMin:     8000,
		Seniority:     "senior",
	}
	posting := &jobs.JobPosting{
		Title:       "Senior Backend Developer",
		Description: "go and postgresql services, fully remote",
		Location:    "Berlin, Germany",
		IsRemote:    true,
		SalaryMax:   12000,
	}

	// All six sub-scores at full weight sum to 100, capped at 95.
	if got := preferenceScore(t, profile, posting); got != 95 {
		t.Fatalf("expected the capped maximum 95, got %d", got)
	}
}

func TestPreferencePartialTitleMatch(t *testing.T) {
	t.Parallel()

	profile := &jobs.CandidateProfile{DesiredTitles: []string{"Backend Developer"}}

	full := preferenceScore(t, profile, &jobs.JobPosting{Title: "Backend Developer"})
	partial := preferenceScore(t, profile, &jobs.JobPosting{Title: "Platform Developer"})
	none := preferenceScore(t, profile, &jobs.JobPosting{Title: "Accountant"})

	// Undeclared salary and location preferences add a neutral base of 10.
	if full != 35 {
		t.Fatalf("expected full title credit 35, got %d", full)
	}
	if partial != 25 {
		t.Fatalf("expected partial title credit 25, got %d", partial)
	}
	if none != 10 {
		t.Fatalf("expected no title credit beyond the neutral base, got %d", none)
	}
}

func TestPreferenceWorkModel(t *testing.T) {
	t.Parallel()

	remoteProfile := &jobs.CandidateProfile{WorkModels: []string{"remote"}}

	remote := preferenceScore(t, remoteProfile, &jobs.JobPosting{Title: "Dev", IsRemote: true})
	onsite := preferenceScore(t, remoteProfile, &jobs.JobPosting{Title: "Dev"})
	if remote != 25 {
		t.Fatalf("expected remote match 25, got %d", remote)
	}
	if onsite != 10 {
		t.Fatalf("expected no work model credit for onsite posting, got %d", onsite)
	}

	hybridProfile := &jobs.CandidateProfile{WorkModels: []string{"hybrid"}}
	hybrid := preferenceScore(t, hybridProfile, &jobs.JobPosting{
		Title:       "Dev",
		Description: "hybrid schedule, 2 days in office",
	})
	if hybrid != 25 {
		t.Fatalf("expected hybrid match 25, got %d", hybrid)
	}
}

func TestPreferenceSeniority(t *testing.T) {
	t.Parallel()

	profile := &jobs.CandidateProfile{Seniority: "senior"}

	match := preferenceScore(t, profile, &jobs.JobPosting{Title: "Senior Engineer"})
	noMatch := preferenceScore(t, profile, &jobs.JobPosting{Title: "Engineer"})

	if match != 15 {
		t.Fatalf("expected seniority credit on top of the neutral base, got %d", match)
	}
	if noMatch != 10 {
		t.Fatalf("expected only the neutral base 10, got %d", noMatch)
	}
}
