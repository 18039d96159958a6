// Package doublestar provides a webpo.URLMatcher backed by doublestar globs.
//
// A pattern has the form [scheme://]host[/path]:
//   - host is compared case-insensitively with any leading "www." removed.
//     A literal host matches itself and all of its subdomains; a host
//     containing glob metacharacters is matched as a glob.
//   - a literal path is a prefix match; a path containing metacharacters
//     is a doublestar glob where ** spans segments.
//   - query strings and fragments are ignored.
//
// The empty pattern matches every URL.
package doublestar

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/webpo"
)

var _ webpo.URLMatcher = (*Matcher)(nil)

// Matcher matches URLs against webpo.Patterns.
// Parsed patterns are cached, so a Matcher is safe for concurrent use.
type Matcher struct {
	patterns sync.Map // string -> pattern
}

// NewMatcher creates a new Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match reports whether rawURL matches any include pattern (or there are
// none) and no exclude pattern. URLs that fail to parse never match.
func (m *Matcher) Match(rawURL string, patterns webpo.Patterns) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	if len(patterns.Include) > 0 {
		matched := false
		for _, p := range patterns.Include {
			if m.pattern(p).match(u) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, p := range patterns.Exclude {
		if m.pattern(p).match(u) {
			return false
		}
	}
	return true
}

// Valid reports whether s is a well-formed pattern.
func Valid(s string) bool {
	p := parsePattern(s)
	if hasMeta(p.host) && !doublestar.ValidatePattern(p.host) {
		return false
	}
	if hasMeta(p.path) && !doublestar.ValidatePattern(p.path) {
		return false
	}
	return true
}

func (m *Matcher) pattern(s string) pattern {
	if v, ok := m.patterns.Load(s); ok {
		return v.(pattern)
	}
	p := parsePattern(s)
	m.patterns.Store(s, p)
	return p
}

type pattern struct {
	scheme string
	host   string
	path   string
}

func parsePattern(s string) pattern {
	var p pattern
	s = strings.TrimSpace(s)
	if scheme, rest, ok := strings.Cut(s, "://"); ok {
		p.scheme = strings.ToLower(scheme)
		s = rest
	}
	host, path, hasPath := strings.Cut(s, "/")
	host, _, _ = strings.Cut(host, ":")
	p.host = normalizeHost(host)
	if hasPath {
		p.path = "/" + path
	}
	return p
}

func (p pattern) match(u *url.URL) bool {
	if p.scheme != "" && !strings.EqualFold(u.Scheme, p.scheme) {
		return false
	}
	if p.host != "" && !matchHost(p.host, normalizeHost(u.Hostname())) {
		return false
	}
	if p.path == "" {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if !hasMeta(p.path) {
		return strings.HasPrefix(path, p.path)
	}
	ok, err := doublestar.Match(p.path, path)
	return err == nil && ok
}

func matchHost(pattern, host string) bool {
	if hasMeta(pattern) {
		ok, err := doublestar.Match(pattern, host)
		return err == nil && ok
	}
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}

func normalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
