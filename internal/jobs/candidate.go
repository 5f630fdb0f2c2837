package jobs

import (
	"strings"
	"time"
)

// CandidateProfile holds the declared preferences of the person the engine
// ranks postings for. The profile is owned by the caller and is never
// modified by the pipeline.
type CandidateProfile struct {
	DesiredTitles   []string `mapstructure:"desired-titles"`
	Technologies    []string `mapstructure:"technologies"`
	WorkModels      []string `mapstructure:"work-models"`
	Locations       []string `mapstructure:"locations"`
	SalaryMin       int      `mapstructure:"salary-min"`
	Seniority       string   `mapstructure:"seniority"`
	ExcludeKeywords []string `mapstructure:"exclude-keywords"`
}

// WantsRemote reports whether any preferred work model is a remote variant.
func (c *CandidateProfile) WantsRemote() bool {
	return matchesAny(c.WorkModels, "remote", "remoto")
}

// WantsHybrid reports whether any preferred work model is a hybrid variant.
func (c *CandidateProfile) WantsHybrid() bool {
	return matchesAny(c.WorkModels, "hybrid", "híbrido", "hibrido")
}

func matchesAny(values []string, wanted ...string) bool {
	for _, v := range values {
		lower := strings.ToLower(strings.TrimSpace(v))
		for _, w := range wanted {
			if lower == w {
				return true
			}
		}
	}
	return false
}

// ResumeDigest is the structured summary an upstream extraction step derives
// from a resume. The pipeline only reads it, as scoring and embedding input.
type ResumeDigest struct {
	ID                string    `json:"id"`
	Summary           string    `json:"ai_summary"`
	YearsOfExperience int       `json:"years_of_experience"`
	TechnicalSkills   []string  `json:"technical_skills"`
	SoftSkills        []string  `json:"soft_skills"`
	Certifications    []string  `json:"certifications,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// EmbeddingText assembles the summary and skill lists into the text used to
// build the resume vector.
func (r *ResumeDigest) EmbeddingText() string {
	parts := []string{r.Summary}
	if len(r.TechnicalSkills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(r.TechnicalSkills, ", "))
	}
	if len(r.SoftSkills) > 0 {
		parts = append(parts, strings.Join(r.SoftSkills, ", "))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// SkillSet returns the deduplicated, lowercased union of the digest skills
// and the extra skills provided by the caller.
func (r *ResumeDigest) SkillSet(extra []string) []string {
	seen := make(map[string]struct{})
	var skills []string

	add := func(values []string) {
		for _, v := range values {
			lower := strings.ToLower(strings.TrimSpace(v))
			if lower == "" {
				continue
			}
			if _, ok := seen[lower]; ok {
				continue
			}
			seen[lower] = struct{}{}
			skills = append(skills, lower)
		}
	}

	if r != nil {
		add(r.TechnicalSkills)
		add(r.SoftSkills)
	}
	add(extra)

	return skills
}
