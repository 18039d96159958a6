package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/webpo"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements webpo.Extractor at compile time.
var _ webpo.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content and metadata
// from HTML.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	meta := result.Metadata
	return &webpo.Extraction{
		Title:       meta.Title,
		Author:      meta.Author,
		Description: meta.Description,
		SiteName:    meta.Sitename,
		Published:   meta.Date,
		ContentHTML: contentHTML,
		Text:        result.ContentText,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
