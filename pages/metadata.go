// Package pages provides built-in Page Objects for HTML responses and the
// catalog the CLI uses to construct them.
package pages

import (
	"context"

	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/fields"
	"github.com/fwojciec/webpo/goquery"
	"github.com/fwojciec/webpo/htmlquery"
)

// Metadata is the item produced by MetadataPage.
type Metadata struct {
	URL          string       `item:"url" json:"url"`
	Title        string       `item:"title" json:"title"`
	Description  string       `item:"description,optional" json:"description,omitempty"`
	CanonicalURL string       `item:"canonical_url,optional" json:"canonical_url,omitempty"`
	Language     string       `item:"language,optional" json:"language,omitempty"`
	Links        []webpo.Link `item:"links,optional" json:"links,omitempty"`
}

// MetadataPage extracts document-level metadata from an HTML response.
type MetadataPage struct {
	fields.State

	Response *webpo.HTTPResponse

	// Stats, when set, receives the number of links found.
	Stats webpo.Stats
}

// NewMetadataPage returns a MetadataPage for resp.
func NewMetadataPage(resp *webpo.HTTPResponse) *MetadataPage {
	return &MetadataPage{Response: resp}
}

var metadataSchema = fields.MustDefine[*MetadataPage](
	fields.Returns[Metadata](),
	fields.Fields(
		fields.Sync("url", (*MetadataPage).URL),
		fields.Field("title", (*MetadataPage).Title),
		fields.Field("description", (*MetadataPage).Description),
		fields.Field("canonical_url", (*MetadataPage).CanonicalURL),
		fields.Field("language", (*MetadataPage).Language),
		fields.Field("links", (*MetadataPage).Links, fields.Cached()),
		fields.Sync("document", (*MetadataPage).Document, fields.Cached(), fields.Disabled()),
		fields.Sync("tree", (*MetadataPage).Tree, fields.Cached(), fields.Disabled()),
	),
)

// ValidateInput rejects responses that are missing, unsuccessful or empty.
func (p *MetadataPage) ValidateInput(context.Context) error {
	switch {
	case p.Response == nil:
		return webpo.Errorf(webpo.EINVALID, "no response")
	case p.Response.Status < 200 || p.Response.Status > 299:
		return webpo.Errorf(webpo.EINVALID, "HTTP %d for %s", p.Response.Status, p.Response.URL)
	case len(p.Response.Body) == 0:
		return webpo.Errorf(webpo.EINVALID, "empty body for %s", p.Response.URL)
	}
	return nil
}

// URL returns the response URL.
func (p *MetadataPage) URL() (string, error) {
	return string(p.Response.URL), nil
}

// Document parses the response for CSS queries.
func (p *MetadataPage) Document() (*goquery.Selector, error) {
	return goquery.NewSelector(p.Response)
}

// Tree parses the response for XPath queries.
func (p *MetadataPage) Tree() (*htmlquery.Selector, error) {
	return htmlquery.NewSelector(p.Response)
}

func (p *MetadataPage) document(ctx context.Context) (*goquery.Selector, error) {
	return fields.GetAs[*goquery.Selector](ctx, p, "document")
}

// Title returns the og:title, falling back to <title> and the first <h1>.
func (p *MetadataPage) Title(ctx context.Context) (string, error) {
	doc, err := p.document(ctx)
	if err != nil {
		return "", err
	}
	for _, title := range []string{doc.Meta("og:title"), doc.Text("title"), doc.Text("h1")} {
		if title != "" {
			return title, nil
		}
	}
	return "", nil
}

// Description returns the meta description, falling back to og:description.
func (p *MetadataPage) Description(ctx context.Context) (string, error) {
	doc, err := p.document(ctx)
	if err != nil {
		return "", err
	}
	if d := doc.Meta("description"); d != "" {
		return d, nil
	}
	return doc.Meta("og:description"), nil
}

// CanonicalURL returns the absolute canonical link, if declared.
func (p *MetadataPage) CanonicalURL(ctx context.Context) (string, error) {
	doc, err := p.document(ctx)
	if err != nil {
		return "", err
	}
	href := doc.Attr(`link[rel="canonical"]`, "href")
	if href == "" {
		return "", nil
	}
	return doc.URL(href), nil
}

// Language returns the lang attribute of the root element.
func (p *MetadataPage) Language(ctx context.Context) (string, error) {
	tree, err := fields.GetAs[*htmlquery.Selector](ctx, p, "tree")
	if err != nil {
		return "", err
	}
	return tree.Attr("/html", "lang")
}

// Links returns every distinct link on the page.
func (p *MetadataPage) Links(ctx context.Context) ([]webpo.Link, error) {
	doc, err := p.document(ctx)
	if err != nil {
		return nil, err
	}
	links := doc.Links("a[href]")
	if p.Stats != nil {
		p.Stats.Set("links", float64(len(links)))
	}
	return links, nil
}
