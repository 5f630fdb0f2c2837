package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/jobradar/jobradar/internal/logger"
)

// geminiModelPreferences is walked in order at first use; the first model
// the API confirms it can serve wins for the lifetime of the provider.
var geminiModelPreferences = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-flash",
}

// Gemini is the primary LLM provider, backed by the Google GenAI API.
type Gemini struct {
	client *genai.Client
	logger *zap.Logger

	modelOnce sync.Once
	model     string
}

// NewGemini builds the provider. An empty API key yields ErrUnconfigured so
// the caller can skip the provider instead of failing later.
func NewGemini(ctx context.Context, apiKey string, lg *zap.Logger) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrUnconfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Gemini{
		client: client,
		logger: logger.WithCommonFields(lg, "gemini", ""),
	}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Complete(ctx context.Context, system, prompt string) (string, error) {
	model := g.resolveModel(ctx)

	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: system}},
			},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		if isGeminiRateLimit(err) {
			return "", fmt.Errorf("gemini generate content: %w", ErrRateLimited)
		}
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

// resolveModel probes the preference list once and falls back to the first
// entry when none can be confirmed, so a listing outage never blocks use.
func (g *Gemini) resolveModel(ctx context.Context) string {
	g.modelOnce.Do(func() {
		for _, name := range geminiModelPreferences {
			if _, err := g.client.Models.Get(ctx, name, nil); err != nil {
				g.logger.Debug("gemini model unavailable",
					zap.String(logger.FieldModel, name),
					zap.Error(err),
				)
				continue
			}
			g.model = name
			g.logger.Info("gemini model selected", zap.String(logger.FieldModel, name))
			return
		}
		g.model = geminiModelPreferences[0]
		g.logger.Warn("no gemini model confirmed, using first preference",
			zap.String(logger.FieldModel, g.model),
		)
	})
	return g.model
}

func isGeminiRateLimit(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
