package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/webpo"
)

// DefaultRetryDelays returns the backoff delays for retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// retryable reports whether a response status is worth another attempt.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// withRetry calls do until it succeeds with a non-retryable status, using
// one attempt per delay plus the initial one. Application errors are not
// retried. The last response or error is returned.
func withRetry(ctx context.Context, delays []time.Duration, do func(context.Context) (*webpo.HTTPResponse, error)) (*webpo.HTTPResponse, error) {
	maxAttempts := len(delays) + 1

	var resp *webpo.HTTPResponse
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err = do(ctx)
		if err == nil && !retryable(resp.Status) {
			return resp, nil
		}
		if err != nil && (webpo.ErrorCode(err) != webpo.EINTERNAL || ctx.Err() != nil) {
			return nil, err
		}

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return resp, err
}
