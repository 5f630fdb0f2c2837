package embedding

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewGeminiUnconfigured(t *testing.T) {
	t.Parallel()

	if _, err := NewGemini(context.Background(), "", "", zap.NewNop()); !errors.Is(err, ErrUnconfigured) {
		t.Fatalf("expected ErrUnconfigured, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := Truncate("short", 100); got != "short" {
		t.Fatalf("expected input unchanged, got %q", got)
	}

	long := strings.Repeat("é", 150)
	got := Truncate(long, 100)
	if runes := []rune(got); len(runes) != 100 {
		t.Fatalf("expected 100 runes, got %d", len(runes))
	}
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	got := flatten("line one\nline two\r\nline three")
	if strings.ContainsAny(got, "\r\n") {
		t.Fatalf("expected newlines to be flattened, got %q", got)
	}
}
