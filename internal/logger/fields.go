package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured log field keys shared by the AI providers so provider and model
// are queryable under one name across the codebase.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
)

// StringField is one key/value pair destined for a structured log entry.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the pairs into zap fields. Keys and values are
// trimmed; pairs with an empty key or value are dropped rather than logged
// as blanks.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key, value := strings.TrimSpace(f.Key), strings.TrimSpace(f.Value)
		if key == "" || value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}
	return out
}

// WithFields attaches the fields to the logger. A nil logger falls back to a
// no-op one so callers never have to nil-check before logging.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// CommonFields builds the provider/model field pair, skipping empty values.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields returns the logger annotated with the provider and model.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}
