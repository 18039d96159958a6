package mock

import (
	"context"

	"github.com/fwojciec/webpo"
)

var _ webpo.HTTPClient = (*HTTPClient)(nil)

// HTTPClient is a mock implementation of webpo.HTTPClient.
type HTTPClient struct {
	DoFn func(ctx context.Context, req *webpo.HTTPRequest) (*webpo.HTTPResponse, error)
}

func (c *HTTPClient) Do(ctx context.Context, req *webpo.HTTPRequest) (*webpo.HTTPResponse, error) {
	return c.DoFn(ctx, req)
}
