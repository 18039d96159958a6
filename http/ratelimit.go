package http

import (
	"context"
	"net"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter throttles requests per host with one token bucket each.
// Hosts are compared case-insensitively without port or leading "www.",
// so www.example.com:443 and example.com share a bucket.
type HostLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewHostLimiter allows rps requests per second to each host, with bursts
// of up to burst requests. A burst below 1 is treated as 1.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	return &HostLimiter{
		limit:   rate.Limit(rps),
		burst:   max(burst, 1),
		buckets: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.bucket(host).Wait(ctx)
}

// Allow reports whether a request to host may proceed now, consuming a
// token if so.
func (l *HostLimiter) Allow(host string) bool {
	return l.bucket(host).Allow()
}

func (l *HostLimiter) bucket(host string) *rate.Limiter {
	key := hostKey(host)

	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	return b
}

func hostKey(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	return strings.TrimPrefix(host, "www.")
}
