package pricing

import (
	"context"
	"math/rand"
	"time"

	"github.com/finopsguard/finopsguard/internal/types"
)

// fetchWithRetry wraps a LiveSource.FetchRate call with a per-attempt
// deadline and bounded, exponentially backed-off retries with full jitter:
// the base delay doubles per attempt, and the whole loop stops early when
// the caller's context is done.
func fetchWithRetry(ctx context.Context, source LiveSource, key RateKey, timeout time.Duration, maxRetries int, baseDelay time.Duration) (types.PriceRecord, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := jitteredBackoff(baseDelay, attempt)
			select {
			case <-ctx.Done():
				return types.PriceRecord{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		record, err := source.FetchRate(attemptCtx, key)
		cancel()

		if err == nil {
			return record, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return types.PriceRecord{}, ctx.Err()
		}
	}

	return types.PriceRecord{}, lastErr
}

// jitteredBackoff computes baseDelay * 2^(attempt-1), then applies full
// jitter: a uniform random delay in [0, computed).
func jitteredBackoff(baseDelay time.Duration, attempt int) time.Duration {
	backoff := baseDelay
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(backoff)))
}
