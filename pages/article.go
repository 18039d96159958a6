package pages

import (
	"context"
	"time"

	"github.com/fwojciec/webpo"
	"github.com/fwojciec/webpo/fields"
)

// Article is the item produced by ArticlePage.
type Article struct {
	Metadata

	Author    string    `item:"author,optional" json:"author,omitempty"`
	Published time.Time `item:"published,optional" json:"published,omitzero"`
	SiteName  string    `item:"site_name,optional" json:"site_name,omitempty"`
	Body      string    `item:"body" json:"body"`
}

// ArticlePage extends MetadataPage with the main content of the page,
// extracted without boilerplate and converted to Markdown.
type ArticlePage struct {
	MetadataPage

	Extractor webpo.Extractor
	Converter webpo.Converter
}

// NewArticlePage returns an ArticlePage for resp.
func NewArticlePage(resp *webpo.HTTPResponse, extractor webpo.Extractor, converter webpo.Converter) *ArticlePage {
	return &ArticlePage{
		MetadataPage: MetadataPage{Response: resp},
		Extractor:    extractor,
		Converter:    converter,
	}
}

var _ = fields.MustDefine[*ArticlePage](
	fields.Extends(metadataSchema, func(p *ArticlePage) *MetadataPage { return &p.MetadataPage }),
	fields.Returns[Article](),
	fields.Fields(
		fields.Field("title", (*ArticlePage).Title),
		fields.Field("author", (*ArticlePage).Author),
		fields.Field("published", (*ArticlePage).Published),
		fields.Field("site_name", (*ArticlePage).SiteName),
		fields.Field("body", (*ArticlePage).Body),
		fields.Sync("extraction", (*ArticlePage).Extraction, fields.Cached(), fields.Disabled()),
	),
)

// ValidateInput extends MetadataPage validation to require an HTML
// response and both content collaborators.
func (p *ArticlePage) ValidateInput(ctx context.Context) error {
	if err := p.MetadataPage.ValidateInput(ctx); err != nil {
		return err
	}
	switch {
	case !p.Response.IsHTML():
		return webpo.Errorf(webpo.EINVALID, "%s is not HTML", p.Response.URL)
	case p.Extractor == nil:
		return webpo.Errorf(webpo.EINVALID, "no extractor")
	case p.Converter == nil:
		return webpo.Errorf(webpo.EINVALID, "no converter")
	}
	return nil
}

// Extraction runs the extractor over the response body.
func (p *ArticlePage) Extraction() (*webpo.Extraction, error) {
	return p.Extractor.Extract(p.Response.Text())
}

func (p *ArticlePage) extraction(ctx context.Context) (*webpo.Extraction, error) {
	return fields.GetAs[*webpo.Extraction](ctx, p, "extraction")
}

// Title returns the extracted title, falling back to the metadata title.
func (p *ArticlePage) Title(ctx context.Context) (string, error) {
	ex, err := p.extraction(ctx)
	if err != nil {
		return "", err
	}
	if ex.Title != "" {
		return ex.Title, nil
	}
	return p.MetadataPage.Title(ctx)
}

// Author returns the extracted byline.
func (p *ArticlePage) Author(ctx context.Context) (string, error) {
	ex, err := p.extraction(ctx)
	if err != nil {
		return "", err
	}
	return ex.Author, nil
}

// Published returns the extracted publication date, or the zero time.
func (p *ArticlePage) Published(ctx context.Context) (time.Time, error) {
	ex, err := p.extraction(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return ex.Published, nil
}

// SiteName returns the extracted site name, falling back to og:site_name.
func (p *ArticlePage) SiteName(ctx context.Context) (string, error) {
	ex, err := p.extraction(ctx)
	if err != nil {
		return "", err
	}
	if ex.SiteName != "" {
		return ex.SiteName, nil
	}
	doc, err := p.document(ctx)
	if err != nil {
		return "", err
	}
	return doc.Meta("og:site_name"), nil
}

// Body returns the main content as Markdown.
func (p *ArticlePage) Body(ctx context.Context) (string, error) {
	ex, err := p.extraction(ctx)
	if err != nil {
		return "", err
	}
	if ex.ContentHTML == "" {
		return ex.Text, nil
	}
	return p.Converter.Convert(ex.ContentHTML)
}
