// Package http provides an HTTP-based implementation of webpo.HTTPClient
// for fetching pages and the additional requests Page Objects issue.
package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/webpo"
)

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent is sent when a request sets no User-Agent header.
const DefaultUserAgent = "webpo/1.0"

// Ensure Client implements webpo.HTTPClient at compile time.
var _ webpo.HTTPClient = (*Client)(nil)

// Client performs HTTP requests with an optional per-host rate limit and
// retries on transient failures. It does not execute JavaScript.
type Client struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   *HostLimiter
	delays    []time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for each HTTP attempt.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRateLimit limits requests to rps per host, allowing bursts of
// burst requests. Rate limiting is disabled by default.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = NewHostLimiter(rps, burst)
	}
}

// WithRetryDelays sets the backoff delays between attempts. Each delay
// adds one retry. Defaults to DefaultRetryDelays.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(c *Client) {
		c.delays = delays
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		delays:    DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// Do performs req. Non-2xx responses are returned without error once
// retries are exhausted. Returns EINVALID for malformed requests.
func (c *Client) Do(ctx context.Context, req *webpo.HTTPRequest) (*webpo.HTTPResponse, error) {
	u, err := url.Parse(req.URL)
	if err != nil || u.Host == "" {
		return nil, webpo.Errorf(webpo.EINVALID, "invalid request URL %q", req.URL)
	}

	return withRetry(ctx, c.delays, func(ctx context.Context) (*webpo.HTTPResponse, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, u.Host); err != nil {
				return nil, err
			}
		}
		return c.do(ctx, req)
	})
}

func (c *Client) do(ctx context.Context, req *webpo.HTTPRequest) (*webpo.HTTPResponse, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, webpo.Errorf(webpo.EINVALID, "invalid request: %v", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &webpo.HTTPResponse{
		URL:    webpo.ResponseURL(resp.Request.URL.String()),
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
	}, nil
}
