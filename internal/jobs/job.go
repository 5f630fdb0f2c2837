// Package jobs defines the shared domain types for scraped and persisted
// job postings.
package jobs

import (
	"time"

	"github.com/google/uuid"
)

// ScrapedJob is the raw, unvalidated offer a source adapter returns. Fields
// mirror JobPosting but nothing beyond ExternalID and SourcePlatform is
// guaranteed to be populated.
type ScrapedJob struct {
	ExternalID     string    `json:"external_id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	IsRemote       bool      `json:"is_remote"`
	SalaryMin      int       `json:"salary_min,omitempty"`
	SalaryMax      int       `json:"salary_max,omitempty"`
	SalaryCurrency string    `json:"salary_currency,omitempty"`
	Description    string    `json:"description"`
	URL            string    `json:"url"`
	SourcePlatform string    `json:"source_platform"`
	PostedAt       time.Time `json:"posted_at,omitempty"`
	Technologies   []string  `json:"technologies,omitempty"`
	CompanyURL     string    `json:"company_url,omitempty"`
	LogoURL        string    `json:"logo_url,omitempty"`
}

// JobPosting is a deduplicated offer accepted into storage. ExternalID is
// unique per SourcePlatform and never changes after creation.
type JobPosting struct {
	ID             string    `json:"id"`
	ExternalID     string    `json:"external_id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	IsRemote       bool      `json:"is_remote"`
	SalaryMin      int       `json:"salary_min,omitempty"`
	SalaryMax      int       `json:"salary_max,omitempty"`
	SalaryCurrency string    `json:"salary_currency,omitempty"`
	Description    string    `json:"description"`
	SourcePlatform string    `json:"source_platform"`
	PostingURL     string    `json:"posting_url"`
	Technologies   []string  `json:"technologies,omitempty"`
	PostedAt       time.Time `json:"posted_at,omitempty"`
	DiscoveredAt   time.Time `json:"discovered_at"`
}

// FromScraped promotes a scraped offer to a posting with a fresh internal id
// and discovery timestamp.
func FromScraped(s ScrapedJob) *JobPosting {
	return &JobPosting{
		ID:             uuid.NewString(),
		ExternalID:     s.ExternalID,
		Title:          s.Title,
		Company:        s.Company,
		Location:       s.Location,
		IsRemote:       s.IsRemote,
		SalaryMin:      s.SalaryMin,
		SalaryMax:      s.SalaryMax,
		SalaryCurrency: s.SalaryCurrency,
		Description:    s.Description,
		SourcePlatform: s.SourcePlatform,
		PostingURL:     s.URL,
		Technologies:   s.Technologies,
		PostedAt:       s.PostedAt,
		DiscoveredAt:   time.Now().UTC(),
	}
}

// EmbeddingText assembles the semantically richest fields for vector
// indexing: title, company and description.
func (p *JobPosting) EmbeddingText() string {
	return p.Title + " " + p.Company + " " + p.Description
}
