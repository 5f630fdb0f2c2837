package recommend

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Keyword scores postings by the overlap between the candidate's skill set
// and the posting text. Pure in-process computation, so this tier is always
// available as long as a resume digest exists.
type Keyword struct {
	logger *zap.Logger
}

func NewKeyword(logger *zap.Logger) *Keyword {
	return &Keyword{logger: logger}
}

func (t *Keyword) Name() string { return "keyword_overlap" }

func (t *Keyword) Score(_ context.Context, req *Request) ([]Scored, bool, error) {
	if req.Digest == nil {
		return nil, true, nil
	}

	var declared []string
	if req.Profile != nil {
		declared = req.Profile.Technologies
	}
	skills := req.Digest.SkillSet(declared)
	if len(skills) == 0 {
		return nil, true, nil
	}

	results := make([]Scored, 0, len(req.Candidates))
	for _, posting := range req.Candidates {
		text := strings.ToLower(posting.Title + " " + posting.Description)

		matched := 0
		for _, skill := range skills {
			if strings.Contains(text, skill) {
				matched++
			}
		}

		results = append(results, Scored{
			Posting: posting,
			Score:   displayScore(float64(matched) / float64(len(skills))),
		})
	}

	t.logger.Debug("keyword overlap scored",
		zap.Int("skills", len(skills)),
		zap.Int("postings", len(results)),
	)

	return results, false, nil
}
