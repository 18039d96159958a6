package main_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/webpo"
	main "github.com/fwojciec/webpo/cmd/webpo"
	"github.com/fwojciec/webpo/doublestar"
	"github.com/fwojciec/webpo/pages"
	"github.com/fwojciec/webpo/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules(t *testing.T) {
	t.Parallel()

	t.Run("adds rules in file order", func(t *testing.T) {
		t.Parallel()

		reg := rules.NewRegistry(doublestar.NewMatcher())

		err := main.LoadRules(strings.NewReader(`
rules:
  - include: ["example.com/blog"]
    exclude: ["example.com/blog/drafts"]
    priority: 600
    use: article
    instead_of: metadata
    to_return: article
    meta: {team: news}
  - use: metadata
`), reg, pages.NewCatalog())

		require.NoError(t, err)
		got := reg.Rules()
		require.Len(t, got, 2)
		assert.Equal(t, webpo.Rule{
			Patterns: webpo.NewPatterns("example.com/blog").WithExclude("example.com/blog/drafts").WithPriority(600),
			Use:      webpo.TypeOf[*pages.ArticlePage](),
			Replaces: webpo.TypeOf[*pages.MetadataPage](),
			Produces: webpo.TypeOf[pages.Article](),
			Meta:     map[string]any{"team": "news"},
		}, got[0])
		assert.Equal(t, webpo.DefaultPriority, got[1].Patterns.Priority)
		assert.Empty(t, got[1].Patterns.Include)
	})

	t.Run("keeps an explicit zero priority", func(t *testing.T) {
		t.Parallel()

		reg := rules.NewRegistry(doublestar.NewMatcher())

		err := main.LoadRules(strings.NewReader("rules:\n  - use: metadata\n    priority: 0\n"), reg, pages.NewCatalog())

		require.NoError(t, err)
		assert.Equal(t, 0, reg.Rules()[0].Patterns.Priority)
	})

	t.Run("accepts empty files", func(t *testing.T) {
		t.Parallel()

		reg := rules.NewRegistry(doublestar.NewMatcher())

		err := main.LoadRules(strings.NewReader(""), reg, pages.NewCatalog())

		require.NoError(t, err)
		assert.Empty(t, reg.Rules())
	})

	t.Run("rejects invalid rules without adding any", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			content string
			code    string
			message string
		}{
			{"unknown key", "rules:\n  - use: metadata\n    replaces: article\n", webpo.EINVALID, "replaces"},
			{"missing use", "rules:\n  - include: [example.com]\n", webpo.EINVALID, "use is required"},
			{"unknown page", "rules:\n  - use: metadata\n  - use: recipe\n", webpo.ENOTFOUND, `unknown name "recipe"`},
			{"unknown item", "rules:\n  - use: metadata\n    to_return: recipe\n", webpo.ENOTFOUND, `unknown name "recipe"`},
			{"invalid pattern", "rules:\n  - use: metadata\n    exclude: [\"example.com/[a\"]\n", webpo.EINVALID, "invalid pattern"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				reg := rules.NewRegistry(doublestar.NewMatcher())

				err := main.LoadRules(strings.NewReader(tt.content), reg, pages.NewCatalog())

				assert.Equal(t, tt.code, webpo.ErrorCode(err))
				assert.Contains(t, webpo.ErrorMessage(err), tt.message)
				assert.Empty(t, reg.Rules())
			})
		}
	})
}
