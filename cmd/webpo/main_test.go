package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/webpo"
	main "github.com/fwojciec/webpo/cmd/webpo"
	"github.com/fwojciec/webpo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageURL = "https://furniture.example/chairs/office"

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
	<title>Office Chair</title>
	<meta name="description" content="An ergonomic office chair.">
</head>
<body>
	<article><h1>Office Chair</h1><p>Sit comfortably.</p></article>
	<a href="/chairs">All chairs</a>
</body>
</html>`

func newMain(t *testing.T) (*main.Main, *[]string) {
	t.Helper()
	var requested []string
	m := main.NewMain()
	m.HTTPClient = &mock.HTTPClient{
		DoFn: func(_ context.Context, req *webpo.HTTPRequest) (*webpo.HTTPResponse, error) {
			requested = append(requested, req.URL)
			return &webpo.HTTPResponse{
				URL:    webpo.ResponseURL(req.URL),
				Status: http.StatusOK,
				Header: http.Header{"Content-Type": {"text/html; charset=utf-8"}},
				Body:   []byte(pageHTML),
			}, nil
		},
	}
	m.Extractor = &mock.Extractor{
		ExtractFn: func(string) (*webpo.Extraction, error) {
			return &webpo.Extraction{
				Title:       "Extracted Chair",
				Author:      "Jane Doe",
				ContentHTML: "<p>Sit comfortably.</p>",
			}, nil
		},
	}
	m.Converter = &mock.Converter{
		ConvertFn: func(string) (string, error) { return "Sit comfortably.", nil },
	}
	return m, &requested
}

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints help and fails without arguments", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "extract")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "rules")
		assert.Contains(t, stdout.String(), "fields")
	})

	t.Run("rejects unknown commands", func(t *testing.T) {
		t.Parallel()

		err := main.NewMain().Run(context.Background(), []string{"crawl"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.Error(t, err)
	})

	t.Run("fails on a missing rules file", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		path := filepath.Join(t.TempDir(), "missing.yaml")

		err := main.NewMain().Run(context.Background(), []string{"--rules", path, "fields", "metadata"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "WEBPO_RULES")
	})
}

func TestExtractCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints selected metadata fields as JSON", func(t *testing.T) {
		t.Parallel()

		m, requested := newMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", pageURL, "-i", "url", "-i", "title"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.JSONEq(t, `{"url": "`+pageURL+`", "title": "Office Chair"}`, stdout.String())
		assert.Equal(t, []string{pageURL}, *requested)
	})

	t.Run("prints every metadata field by default", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", pageURL}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, "An ergonomic office chair.", got["description"])
		assert.Equal(t, "en", got["language"])
		assert.Equal(t, []any{map[string]any{"url": "https://furniture.example/chairs", "text": "All chairs"}}, got["links"])
	})

	t.Run("extracts articles", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", pageURL, "--item", "article", "-x", "links"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, "Extracted Chair", got["title"])
		assert.Equal(t, "Jane Doe", got["author"])
		assert.Equal(t, "Sit comfortably.", got["body"])
		assert.NotContains(t, got, "links")
	})

	t.Run("uses replacement pages from the rules file", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t)
		stdout := &bytes.Buffer{}
		path := writeRules(t, `
rules:
  - include: ["furniture.example/chairs"]
    use: article
    instead_of: metadata
`)

		err := m.Run(context.Background(), []string{"--rules", path, "extract", pageURL, "-i", "url", "-i", "title"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.JSONEq(t, `{"url": "`+pageURL+`", "title": "Extracted Chair"}`, stdout.String())
	})

	t.Run("raises on unknown fields", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t)
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", pageURL, "-i", "colour"}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Equal(t, webpo.EUNKNOWNFIELD, webpo.ErrorCode(err))
		assert.Contains(t, stderr.String(), `unknown field "colour"`)
	})

	t.Run("warns on unknown fields when asked", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", pageURL, "-i", "url", "-i", "title", "-i", "colour", "--on-unknown", "warn"}, stdout, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "unknown field")
		assert.Contains(t, stderr.String(), "field=colour")
		assert.JSONEq(t, `{"url": "`+pageURL+`", "title": "Office Chair"}`, stdout.String())
	})

	t.Run("fails for unknown items", func(t *testing.T) {
		t.Parallel()

		m, requested := newMain(t)
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", pageURL, "--item", "recipe"}, &bytes.Buffer{}, stderr)

		assert.Equal(t, webpo.ENOTFOUND, webpo.ErrorCode(err))
		assert.Contains(t, stderr.String(), `unknown name "recipe"`)
		assert.Empty(t, *requested)
	})

	t.Run("reports failed fetches", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t)
		m.HTTPClient = &mock.HTTPClient{
			DoFn: func(context.Context, *webpo.HTTPRequest) (*webpo.HTTPResponse, error) {
				return &webpo.HTTPResponse{URL: pageURL, Status: http.StatusNotFound, Body: []byte("gone")}, nil
			},
		}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", pageURL}, &bytes.Buffer{}, stderr)

		assert.Equal(t, webpo.EINVALID, webpo.ErrorCode(err))
		assert.Contains(t, stderr.String(), "HTTP 404")
	})

	t.Run("prints page statistics", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t)
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"extract", pageURL, "--metrics"}, &bytes.Buffer{}, stderr)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "webpo_page_stat key=links 1")
	})
}

func TestRulesCmd(t *testing.T) {
	t.Parallel()

	t.Run("shows the built-in implementation", func(t *testing.T) {
		t.Parallel()

		m, requested := newMain(t)
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"rules", pageURL}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "returning github.com/fwojciec/webpo/pages.Metadata (1)")
		assert.Contains(t, output, "Replacements (0)")
		assert.Contains(t, output, "Implementation: *github.com/fwojciec/webpo/pages.MetadataPage")
		assert.Empty(t, *requested)
	})

	t.Run("shows replacements from the rules file", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t)
		stdout := &bytes.Buffer{}
		path := writeRules(t, `
rules:
  - include: ["furniture.example"]
    use: article
    instead_of: metadata
    meta: {source: test}
`)

		err := m.Run(context.Background(), []string{"--rules", path, "rules", pageURL, "--item", "article"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "*github.com/fwojciec/webpo/pages.MetadataPage -> *github.com/fwojciec/webpo/pages.ArticlePage")
		assert.Contains(t, output, "Implementation: *github.com/fwojciec/webpo/pages.ArticlePage")
	})

	t.Run("ignores rules for other hosts", func(t *testing.T) {
		t.Parallel()

		m, _ := newMain(t)
		stdout := &bytes.Buffer{}
		path := writeRules(t, `
rules:
  - include: ["furniture.example"]
    priority: 50
    use: metadata
    to_return: metadata
`)

		err := m.Run(context.Background(), []string{"--rules", path, "rules", "https://other.example/"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Implementation: *github.com/fwojciec/webpo/pages.MetadataPage")
	})
}

func TestFieldsCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists fields in declaration order with flags", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"fields", "article"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, " 1. url              sync")
		assert.Contains(t, output, " 6. links            async cached")
		assert.Contains(t, output, " 7. document         sync  cached disabled")
		assert.Contains(t, output, "body")
	})

	t.Run("fails for unknown pages", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"fields", "recipe"}, &bytes.Buffer{}, stderr)

		assert.Equal(t, webpo.ENOTFOUND, webpo.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
