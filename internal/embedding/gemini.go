package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultEmbeddingModel = "text-embedding-004"

	// maxInputRunes keeps the request under the model's token limit; the
	// caller already picks the richest fields, the tail is the least useful.
	maxInputRunes = 8000

	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

// Gemini embeds text with the Gemini embedding API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGemini returns ErrUnconfigured when no API key is provided; a zero
// vector is never silently substituted.
func NewGemini(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Gemini, error) {
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

	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbeddingModel
	}

	return &Gemini{client: client, model: model, logger: logger}, nil
}

func (g *Gemini) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return g.embed(ctx, text, taskTypeDocument)
}

func (g *Gemini) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return g.embed(ctx, text, taskTypeQuery)
}

func (g *Gemini) embed(ctx context.Context, text, taskType string) ([]float32, error) {
	text = Truncate(flatten(text), maxInputRunes)
	if text == "" {
		return nil, errors.New("embedding input must not be empty")
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("embedding api returned no values")
	}

	values := resp.Embeddings[0].Values
	g.logger.Debug("generated embedding",
		zap.String("model", g.model),
		zap.String("task_type", taskType),
		zap.Int("dimensions", len(values)),
	)

	return values, nil
}

// flatten removes newlines the way the embedding API prefers its input.
func flatten(text string) string {
	replacer := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
	return strings.TrimSpace(replacer.Replace(text))
}

// Truncate cuts the text to at most limit runes.
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
