package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements webpo.Converter at compile time.
var _ webpo.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and paragraphs", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<h1>Title</h1><h2>Subtitle</h2><p>Hello, world!</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "## Subtitle")
		assert.Contains(t, md, "Hello, world!")
	})

	t.Run("converts links and lists", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(
			`<p>Visit <a href="https://example.com">Example</a>.</p><ul><li>First</li><li>Second</li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[Example](https://example.com)")
		assert.Contains(t, md, "First")
		assert.Contains(t, md, "Second")
	})

	t.Run("resolves relative links against the domain", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://example.com"))
		md, err := conv.Convert(`<p><a href="/chairs">Chairs</a></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[Chairs](https://example.com/chairs)")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<table>
<thead><tr><th>Option</th><th>Default</th></tr></thead>
<tbody><tr><td>timeout</td><td>30s</td></tr></tbody>
</table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Option")
		assert.Contains(t, md, "timeout")
		assert.Contains(t, md, "|")
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert("\n<p>Body</p>\n\n")

		require.NoError(t, err)
		assert.Equal(t, "Body", md)
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("  ")

		require.Error(t, err)
		assert.Equal(t, webpo.EINVALID, webpo.ErrorCode(err))
	})
}
