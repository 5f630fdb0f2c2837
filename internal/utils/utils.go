// Package utils holds small context-aware helpers shared across packages.
package utils

import (
	"context"
	"time"
)

// WaitFor blocks for the given duration or until the context is done,
// whichever comes first. Scrape adapters use it to pace paginated requests.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
