// Package ai wraps the LLM backends behind one client with provider
// fallback, bounded rate-limit retry and strict-JSON response handling.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrUnconfigured signals that no provider has a usable credential.
	ErrUnconfigured = errors.New("ai provider is not configured")
	// ErrRateLimited marks a 429-class provider error; the only retryable kind.
	ErrRateLimited = errors.New("ai provider rate limited")
	// ErrMalformedResponse marks a provider reply that was not valid JSON.
	ErrMalformedResponse = errors.New("ai response parse failed")
)

// Provider is one LLM backend. Complete sends the prompt pair and returns
// the raw textual reply.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// FitAnalysis is the structured result of comparing a resume against one
// posting.
type FitAnalysis struct {
	Score int      `json:"match_score"`
	Pros  []string `json:"pros"`
	Cons  []string `json:"cons"`
}

// ResumeExtraction is the structured profile pulled out of raw resume text.
type ResumeExtraction struct {
	Summary           string   `json:"ai_summary"`
	YearsOfExperience int      `json:"years_of_experience"`
	TechnicalSkills   []string `json:"technical_skills"`
	SoftSkills        []string `json:"soft_skills"`
	Certifications    []string `json:"certifications"`
	Education         []struct {
		Degree      string `json:"degree"`
		Institution string `json:"institution"`
		Year        string `json:"year"`
	} `json:"education"`
	WorkExperience []struct {
		Role        string `json:"role"`
		Company     string `json:"company"`
		Duration    string `json:"duration"`
		Description string `json:"description"`
	} `json:"work_experience"`
}

// Screening verdict labels.
const (
	VerdictApply    = "APPLY"
	VerdictConsider = "CONSIDER"
	VerdictIgnore   = "IGNORE"
)

// ScreenVerdict is the per-posting result of the bulk screening path.
type ScreenVerdict struct {
	Score           int      `json:"score"`
	Recommendation  string   `json:"recommendation"`
	Reason          string   `json:"reason"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	EstimatedSalary string   `json:"estimated_salary"`
}

// MalformedResponseError carries the unparseable raw reply so upstream
// logic can treat "no data" uniformly regardless of cause. It marshals to
// the {_raw, error} shape consumers expect.
type MalformedResponseError struct {
	Raw string
}

func (e *MalformedResponseError) Error() string {
	return "parse failed"
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

func (e *MalformedResponseError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Raw string `json:"_raw"`
		Err string `json:"error"`
	}{Raw: e.Raw, Err: "parse failed"})
}

// decodeStrictJSON strips incidental code-fence wrapping and decodes the
// remainder into target. A reply that still does not parse yields a
// MalformedResponseError, never a panic or a bare decoding error.
func decodeStrictJSON(raw string, target any) error {
	cleaned := extractJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return &MalformedResponseError{Raw: raw}
	}
	return nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(raw, "`"))
}
