package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubProvider struct {
	name      string
	responses []string
	errs      []error
	calls     int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(_ context.Context, _, _ string) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	if len(s.responses) > 0 {
		return s.responses[len(s.responses)-1], nil
	}
	return "", errors.New("stub exhausted")
}

func newTestClient(providers ...Provider) *Client {
	c := NewClient(providers, zap.NewNop())
	c.baseDelay = time.Millisecond
	return c
}

func TestCompleteRetriesRateLimits(t *testing.T) {
	t.Parallel()

	rateLimited := fmt.Errorf("quota: %w", ErrRateLimited)
	provider := &stubProvider{
		name:      "primary",
		errs:      []error{rateLimited, rateLimited, rateLimited},
		responses: []string{"", "", "", `{"ok": true}`},
	}

	raw, err := newTestClient(provider).complete(context.Background(), "", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"ok": true}` {
		t.Fatalf("unexpected response %q", raw)
	}
	if provider.calls != 4 {
		t.Fatalf("expected 3 retries after the first attempt, got %d calls", provider.calls)
	}
}

func TestCompleteNonRetryableFallsBackToNextProvider(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{name: "primary", errs: []error{errors.New("invalid request")}}
	secondary := &stubProvider{name: "secondary", responses: []string{`{"from": "secondary"}`}}

	raw, err := newTestClient(primary, secondary).complete(context.Background(), "", "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"from": "secondary"}` {
		t.Fatalf("expected the secondary provider to serve, got %q", raw)
	}
	if primary.calls != 1 {
		t.Fatalf("expected a single primary attempt for a non-retryable error, got %d", primary.calls)
	}
}

func TestCompleteNoProviders(t *testing.T) {
	t.Parallel()

	_, err := newTestClient().complete(context.Background(), "", "prompt")
	if !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("expected ErrUnconfigured, got %v", err)
	}
}

func TestAnalyzeFitDegradesWhenAllProvidersFail(t *testing.T) {
	t.Parallel()

	broken := &stubProvider{name: "p", errs: []error{errors.New("down")}}

	analysis := newTestClient(broken).AnalyzeFit(context.Background(), "resume", "job")
	if analysis.Score != 0 {
		t.Fatalf("expected degraded score 0, got %d", analysis.Score)
	}
	if len(analysis.Cons) == 0 {
		t.Fatal("expected an explanatory cons entry")
	}
}

func TestAnalyzeFitParsesFencedJSON(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		name: "p",
		responses: []string{"```json\n" +
			`{"match_score": 82, "pros": ["go experience"], "cons": []}` +
			"\n```"},
	}

	analysis := newTestClient(provider).AnalyzeFit(context.Background(), "resume", "job")
	if analysis.Score != 82 {
		t.Fatalf("expected score 82, got %d", analysis.Score)
	}
	if len(analysis.Pros) != 1 || analysis.Pros[0] != "go experience" {
		t.Fatalf("unexpected pros: %v", analysis.Pros)
	}
}

func TestExtractResumeMalformedResponse(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{name: "p", responses: []string{"I cannot answer in JSON, sorry."}}

	_, err := newTestClient(provider).ExtractResume(context.Background(), "resume text")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected a MalformedResponseError, got %T", err)
	}
	if malformed.Raw != "I cannot answer in JSON, sorry." {
		t.Fatalf("expected the raw reply to be preserved, got %q", malformed.Raw)
	}

	payload, jsonErr := json.Marshal(malformed)
	if jsonErr != nil {
		t.Fatalf("marshal: %v", jsonErr)
	}
	var decoded map[string]string
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["error"] != "parse failed" || decoded["_raw"] == "" {
		t.Fatalf("unexpected error payload: %v", decoded)
	}
}

func TestScreenDegradesToIgnore(t *testing.T) {
	t.Parallel()

	broken := &stubProvider{name: "p", errs: []error{errors.New("down")}}

	verdict := newTestClient(broken).Screen(context.Background(), "{}", "job text")
	if verdict.Recommendation != VerdictIgnore {
		t.Fatalf("expected IGNORE on failure, got %q", verdict.Recommendation)
	}
	if verdict.Reason == "" {
		t.Fatal("expected the failure reason to be carried")
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		expect string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"stray backticks", "`{\"a\": 1}`", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSON(tt.raw); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
