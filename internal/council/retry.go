// CLAUDE:SUMMARY Retry policy — bounded attempts with error-class-aware backoff, independently testable without the network
package council

import (
	"context"
	"time"

	"github.com/quorumlabs/council/internal/llm"
)

// retryPolicy bounds how an agent re-attempts a failed completion before
// falling back to the secondary model. Rate-limit-class failures back off
// twice as hard and double per attempt; generic failures wait a flat base.
type retryPolicy struct {
	MaxRetries    int           // extra attempts after the first call
	BaseDelay     time.Duration // generic failures: flat
	RateLimitBase time.Duration // rate limits: doubles per attempt
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{
		MaxRetries:    3,
		BaseDelay:     1 * time.Second,
		RateLimitBase: 2 * time.Second,
	}
}

// delay returns the wait before retry number attempt (0-based).
func (p retryPolicy) delay(attempt int, err error) time.Duration {
	if llm.IsRateLimited(err) {
		return p.RateLimitBase << attempt // 2s, 4s, 8s
	}
	return p.BaseDelay
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
