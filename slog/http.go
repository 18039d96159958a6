package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webpo"
)

// Ensure LoggingHTTPClient implements webpo.HTTPClient.
var _ webpo.HTTPClient = (*LoggingHTTPClient)(nil)

// LoggingHTTPClient wraps an HTTPClient with request logging.
type LoggingHTTPClient struct {
	next   webpo.HTTPClient
	logger *slog.Logger
}

// NewLoggingHTTPClient creates a new LoggingHTTPClient.
func NewLoggingHTTPClient(next webpo.HTTPClient, logger *slog.Logger) *LoggingHTTPClient {
	return &LoggingHTTPClient{next: next, logger: logger}
}

// Do logs the request and delegates to the wrapped client.
func (c *LoggingHTTPClient) Do(ctx context.Context, req *webpo.HTTPRequest) (resp *webpo.HTTPResponse, err error) {
	defer func(begin time.Time) {
		var status, size int
		if resp != nil {
			status, size = resp.Status, len(resp.Body)
		}
		c.logger.Info("fetch",
			"method", req.Method,
			"url", req.URL,
			"status", status,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Do(ctx, req)
}
