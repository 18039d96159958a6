package webpo

import (
	"context"
	"net/http"
	"strings"
)

// RequestURL is the URL a page was requested from.
type RequestURL string

// ResponseURL is the URL a page was served from, after redirects.
type ResponseURL string

// PageParams carries caller-supplied parameters into a Page Object.
type PageParams map[string]any

// HTTPRequest describes an additional request issued by a Page Object.
type HTTPRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// HTTPResponse is a fetched page. Encoding detection is left to the fetcher;
// Body holds the bytes as received.
type HTTPResponse struct {
	URL    ResponseURL
	Status int
	Header http.Header
	Body   []byte
}

// Text returns the body as a string.
func (r *HTTPResponse) Text() string {
	return string(r.Body)
}

// IsHTML reports whether the response declares an HTML content type.
// Responses without a Content-Type header are assumed to be HTML.
func (r *HTTPResponse) IsHTML() bool {
	ct := r.Header.Get("Content-Type")
	return ct == "" || strings.Contains(strings.ToLower(ct), "html")
}

// HTTPClient issues requests on behalf of Page Objects.
// Pages that need additional requests receive a client explicitly
// rather than through ambient state.
type HTTPClient interface {
	// Do performs the request. The context controls timeout and cancellation.
	// Non-2xx responses are returned without error.
	Do(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error)
}

// Get is a convenience for issuing a GET request through client.
func Get(ctx context.Context, client HTTPClient, url string) (*HTTPResponse, error) {
	return client.Do(ctx, &HTTPRequest{Method: http.MethodGet, URL: url})
}

// Stats records numeric statistics from Page Objects.
type Stats interface {
	// Set stores value under key.
	Set(key string, value float64)

	// Inc adds delta to the value stored under key.
	Inc(key string, delta float64)
}
