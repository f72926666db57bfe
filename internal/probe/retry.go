package probe

import (
	"context"
	"time"

	"github.com/hamed0406/appsentry/internal/domain"
)

// WithRetry wraps a probe so transient failures get re-run before the
// outcome is recorded. Skips and degraded outcomes are returned as-is.
func WithRetry(p Probe, attempts int, backoff time.Duration) Probe {
	if attempts < 2 {
		return p
	}
	inner := p.Run
	p.Run = func(ctx context.Context) domain.Outcome {
		var last domain.Outcome
		for i := 0; i < attempts; i++ {
			last = inner(ctx)
			if !last.Status.Failing() {
				return last
			}
			if i < attempts-1 {
				select {
				case <-ctx.Done():
					return last
				case <-time.After(backoff):
				}
			}
		}
		last.Detail = last.Detail + " (after retries)"
		return last
	}
	return p
}
