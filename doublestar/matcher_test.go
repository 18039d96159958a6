package doublestar_test

import (
	"testing"

	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/doublestar"
	"github.com/stretchr/testify/assert"
)

func TestMatcher_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		patterns webpo.Patterns
		want     bool
	}{
		{"empty include matches all", "https://any.org/x", webpo.Patterns{}, true},
		{"empty pattern matches all", "https://any.org/x", webpo.NewPatterns(""), true},
		{"literal host", "https://example.com/a", webpo.NewPatterns("example.com"), true},
		{"subdomain of literal host", "https://shop.example.com/a", webpo.NewPatterns("example.com"), true},
		{"www is ignored", "https://www.example.com/a", webpo.NewPatterns("example.com"), true},
		{"host is case-insensitive", "https://EXAMPLE.com/a", webpo.NewPatterns("Example.COM"), true},
		{"suffix is not a subdomain", "https://badexample.com/a", webpo.NewPatterns("example.com"), false},
		{"other host", "https://other.com/", webpo.NewPatterns("example.com"), false},
		{"path prefix", "https://example.com/products/1", webpo.NewPatterns("example.com/products"), true},
		{"path prefix mismatch", "https://example.com/blog/1", webpo.NewPatterns("example.com/products"), false},
		{"path glob", "https://example.com/p/1/reviews", webpo.NewPatterns("example.com/p/*/reviews"), true},
		{"doublestar spans segments", "https://example.com/a/b/c.html", webpo.NewPatterns("example.com/**/*.html"), true},
		{"single star stays in segment", "https://example.com/a/b/c", webpo.NewPatterns("example.com/*/c"), false},
		{"host glob", "https://eu.shop.io/", webpo.NewPatterns("*.shop.io"), true},
		{"scheme must match", "http://example.com/", webpo.NewPatterns("https://example.com"), false},
		{"port is ignored", "https://example.com:8443/", webpo.NewPatterns("example.com:8443"), true},
		{"query is ignored", "https://example.com/p?id=1", webpo.NewPatterns("example.com/p"), true},
		{"exclude wins", "https://example.com/admin", webpo.NewPatterns("example.com").WithExclude("example.com/admin"), false},
		{"exclude without include", "https://example.com/admin", webpo.Patterns{Exclude: []string{"example.com/admin"}}, false},
		{"any include suffices", "https://b.com/", webpo.NewPatterns("a.com", "b.com"), true},
		{"relative url never matches", "/just/a/path", webpo.Patterns{}, false},
		{"invalid url never matches", "http://[::1", webpo.Patterns{}, false},
	}

	m := doublestar.NewMatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, m.Match(tt.url, tt.patterns))
		})
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, doublestar.Valid("example.com/**/*.html"))
	assert.True(t, doublestar.Valid("example.com"))
	assert.False(t, doublestar.Valid("example.com/[a"))
}
