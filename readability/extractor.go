package readability

import (
	"strings"

	"github.com/fwojciec/webpo"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements webpo.Extractor at compile time.
var _ webpo.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*webpo.Extraction, error) {
	if rawHTML == "" {
		return nil, webpo.Errorf(webpo.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &webpo.Extraction{
		Title:       article.Title,
		Author:      article.Byline,
		Description: article.Excerpt,
		SiteName:    article.SiteName,
		ContentHTML: article.Content,
		Text:        article.TextContent,
	}, nil
}
