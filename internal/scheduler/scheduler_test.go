package scheduler

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewCronSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		intervalHours int
		want          string
	}{
		{"explicit interval", 3, "@every 3h"},
		{"zero falls back to default", 0, "@every 6h"},
		{"negative falls back to default", -1, "@every 6h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New(nil, nil, tt.intervalHours, zap.NewNop())
			if s.spec != tt.want {
				t.Fatalf("expected spec %q, got %q", tt.want, s.spec)
			}
		})
	}
}
