package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/logger"
)

const (
	defaultBaseDelay  = 2 * time.Second
	defaultMaxRetries = 3

	breakerConsecutiveFailures = 5
	breakerOpenTimeout         = 60 * time.Second

	previewLogLength = 200
)

// Client fans a completion over the configured providers in priority order.
// Each provider sits behind its own circuit breaker; rate-limited calls are
// retried with exponential delay before the next provider is tried.
type Client struct {
	providers []Provider
	breakers  map[string]*gobreaker.CircuitBreaker[string]
	logger    *zap.Logger

	// baseDelay and maxRetries are fields so tests can shrink the waits.
	baseDelay  time.Duration
	maxRetries uint64
}

func NewClient(providers []Provider, logger *zap.Logger) *Client {
	breakers := make(map[string]*gobreaker.CircuitBreaker[string], len(providers))
	for _, p := range providers {
		name := p.Name()
		breakers[name] = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    "ai-" + name,
			Timeout: breakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerConsecutiveFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Info("ai circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}

	return &Client{
		providers:  providers,
		breakers:   breakers,
		logger:     logger,
		baseDelay:  defaultBaseDelay,
		maxRetries: defaultMaxRetries,
	}
}

// AnalyzeFit compares a resume against one posting. Provider failures
// degrade to a zero score with an explanatory con instead of an error, so
// batch analysis never stalls on a single bad call.
func (c *Client) AnalyzeFit(ctx context.Context, resumeText, jobText string) *FitAnalysis {
	raw, err := c.complete(ctx, fitSystemPrompt, buildFitPrompt(resumeText, jobText))
	if err != nil {
		c.logger.Warn("fit analysis unavailable", zap.Error(err))
		return &FitAnalysis{
			Score: 0,
			Cons:  []string{"AI analysis unavailable, score defaulted to 0"},
		}
	}

	var analysis FitAnalysis
	if err := decodeStrictJSON(raw, &analysis); err != nil {
		c.logger.Warn("fit analysis response malformed", zap.Error(err))
		return &FitAnalysis{
			Score: 0,
			Cons:  []string{"AI response could not be parsed, score defaulted to 0"},
		}
	}
	return &analysis
}

// ExtractResume parses raw resume text into a structured profile. A reply
// that is not valid JSON surfaces as a MalformedResponseError carrying the
// raw text.
func (c *Client) ExtractResume(ctx context.Context, resumeText string) (*ResumeExtraction, error) {
	raw, err := c.complete(ctx, extractSystemPrompt, buildExtractPrompt(resumeText))
	if err != nil {
		return nil, err
	}

	var extraction ResumeExtraction
	if err := decodeStrictJSON(raw, &extraction); err != nil {
		return nil, err
	}
	return &extraction, nil
}

// Screen produces a verdict for one posting against the candidate profile.
// Failures degrade to an IGNORE verdict with the error as reason.
func (c *Client) Screen(ctx context.Context, profileJSON, jobText string) *ScreenVerdict {
	raw, err := c.complete(ctx, screenSystemPrompt, buildScreenPrompt(profileJSON, jobText))
	if err != nil {
		c.logger.Warn("screening unavailable", zap.Error(err))
		return &ScreenVerdict{
			Score:          0,
			Recommendation: VerdictIgnore,
			Reason:         fmt.Sprintf("screening failed: %v", err),
		}
	}

	var verdict ScreenVerdict
	if err := decodeStrictJSON(raw, &verdict); err != nil {
		c.logger.Warn("screening response malformed", zap.Error(err))
		return &ScreenVerdict{
			Score:          0,
			Recommendation: VerdictIgnore,
			Reason:         "screening response could not be parsed",
		}
	}
	return &verdict
}

// MarshalProfile renders any profile-ish value for prompt embedding.
func MarshalProfile(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrUnconfigured
	}

	var lastErr error
	for _, provider := range c.providers {
		raw, err := c.completeWith(ctx, provider, system, prompt)
		if err != nil {
			c.logger.Warn("ai provider failed, trying next",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		c.logger.Debug("ai completion received",
			zap.String("provider", provider.Name()),
			zap.String("response_preview", logger.TruncateForLog(raw, previewLogLength)),
		)
		return raw, nil
	}
	return "", fmt.Errorf("all ai providers failed: %w", lastErr)
}

// completeWith runs one provider behind its breaker, retrying only
// rate-limit errors with a doubling delay.
func (c *Client) completeWith(ctx context.Context, provider Provider, system, prompt string) (string, error) {
	breaker := c.breakers[provider.Name()]

	run := func() (string, error) {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = c.baseDelay
		bo.Multiplier = 2
		bo.RandomizationFactor = 0
		bo.MaxElapsedTime = 0

		return backoff.RetryWithData(func() (string, error) {
			raw, err := provider.Complete(ctx, system, prompt)
			if err == nil {
				return raw, nil
			}
			if errors.Is(err, ErrRateLimited) {
				c.logger.Debug("ai provider rate limited, backing off",
					zap.String("provider", provider.Name()),
				)
				return "", err
			}
			return "", backoff.Permanent(err)
		}, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx))
	}

	if breaker == nil {
		return run()
	}
	return breaker.Execute(run)
}
