package recommend

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/jobs"
)

// Sub-score weights of the preference tier. They sum to 100.
const (
	weightTechnologies = 35
	weightTitle        = 25
	weightWorkModel    = 15
	weightSalary       = 10
	weightLocation     = 10
	weightSeniority    = 5

	totalWeight = weightTechnologies + weightTitle + weightWorkModel +
		weightSalary + weightLocation + weightSeniority

	// partialTitleWeight is granted proportionally when no desired title
	// matches the posting title outright but individual words do.
	partialTitleWeight = 15

	// salaryFloorRatio is how far below the declared floor a posting's upper
	// salary may fall and still earn half credit.
	salaryFloorRatio = 0.8
)

// Preference scores postings against declared preferences only. This is the
// terminal tier, used when the candidate has no analyzed resume.
type Preference struct {
	logger *zap.Logger
}

func NewPreference(logger *zap.Logger) *Preference {
	return &Preference{logger: logger}
}

func (t *Preference) Name() string { return "preference_weighting" }

func (t *Preference) Score(_ context.Context, req *Request) ([]Scored, bool, error) {
	if req.Profile == nil {
		return nil, true, nil
	}

	results := make([]Scored, 0, len(req.Candidates))
	for _, posting := range req.Candidates {
		achieved := scorePreferences(req.Profile, posting)
		results = append(results, Scored{
			Posting: posting,
			Score:   displayScore(achieved / totalWeight),
		})
	}

	t.logger.Debug("preference weighting scored", zap.Int("postings", len(results)))
	return results, false, nil
}

func scorePreferences(profile *jobs.CandidateProfile, posting *jobs.JobPosting) float64 {
	jobText := strings.ToLower(posting.Title + " " + posting.Description)
	titleLower := strings.ToLower(posting.Title)

	var score float64
	score += technologyScore(profile.Technologies, jobText)
	score += titleScore(profile.DesiredTitles, titleLower)
	score += workModelScore(profile, posting, jobText)
	score += salaryScore(profile.SalaryMin, posting.SalaryMax)
	score += locationScore(profile.Locations, posting.Location)
	score += seniorityScore(profile.Seniority, titleLower, jobText)
	return score
}

func technologyScore(technologies []string, jobText string) float64 {
	if len(technologies) == 0 {
		return 0
	}
	matched := 0
	for _, tech := range technologies {
		if strings.Contains(jobText, strings.ToLower(strings.TrimSpace(tech))) {
			matched++
		}
	}
	return float64(matched) / float64(len(technologies)) * weightTechnologies
}

func titleScore(titles []string, titleLower string) float64 {
	if len(titles) == 0 {
		return 0
	}

	partial := 0
	for _, title := range titles {
		lower := strings.ToLower(strings.TrimSpace(title))
		if lower == "" {
			continue
		}
		if strings.Contains(titleLower, lower) {
			return weightTitle
		}
		for _, word := range strings.Fields(lower) {
			if strings.Contains(titleLower, word) {
				partial++
				break
			}
		}
	}
	return float64(partial) / float64(len(titles)) * partialTitleWeight
}

func workModelScore(profile *jobs.CandidateProfile, posting *jobs.JobPosting, jobText string) float64 {
	if len(profile.WorkModels) == 0 {
		return 0
	}

	switch {
	case profile.WantsRemote() && posting.IsRemote:
		return weightWorkModel
	case profile.WantsHybrid() && (strings.Contains(jobText, "hybrid") || strings.Contains(jobText, "híbrido")):
		return weightWorkModel
	case !profile.WantsRemote() && !posting.IsRemote:
		// In-person preference met, slightly discounted because listings
		// rarely state it explicitly.
		return 10
	}
	return 0
}

func salaryScore(floor, postingMax int) float64 {
	if floor <= 0 {
		// No declared floor: neutral half credit.
		return weightSalary / 2
	}
	if postingMax <= 0 {
		return 0
	}
	if postingMax >= floor {
		return weightSalary
	}
	if float64(postingMax) >= salaryFloorRatio*float64(floor) {
		return weightSalary / 2
	}
	return 0
}

func locationScore(locations []string, postingLocation string) float64 {
	if len(locations) == 0 {
		return weightLocation / 2
	}
	if postingLocation == "" {
		return 0
	}
	postingLower := strings.ToLower(postingLocation)
	for _, loc := range locations {
		if strings.Contains(postingLower, strings.ToLower(strings.TrimSpace(loc))) {
			return weightLocation
		}
	}
	return 0
}

func seniorityScore(seniority, titleLower, jobText string) float64 {
	seniority = strings.ToLower(strings.TrimSpace(seniority))
	if seniority == "" {
		return 0
	}
	if strings.Contains(titleLower, seniority) || strings.Contains(jobText, seniority) {
		return weightSeniority
	}
	return 0
}
