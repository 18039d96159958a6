// Package goquery implements CSS selection over fetched pages using goquery.
package goquery

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webpo"
)

// Selector runs CSS queries against a parsed response body.
// Relative links are resolved against the response URL.
type Selector struct {
	doc  *goquery.Document
	base *url.URL
}

// NewSelector parses the body of resp.
// Returns EINVALID if the response URL or body cannot be parsed.
func NewSelector(resp *webpo.HTTPResponse) (*Selector, error) {
	base, err := url.Parse(string(resp.URL))
	if err != nil {
		return nil, webpo.Errorf(webpo.EINVALID, "invalid response URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, webpo.Errorf(webpo.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Selector{doc: doc, base: base}, nil
}

// Document returns the underlying goquery document.
func (s *Selector) Document() *goquery.Document {
	return s.doc
}

// CSS returns the elements matching selector.
func (s *Selector) CSS(selector string) *goquery.Selection {
	return s.doc.Find(selector)
}

// Text returns the trimmed text of the first element matching selector,
// or "" if none does.
func (s *Selector) Text(selector string) string {
	return strings.TrimSpace(s.doc.Find(selector).First().Text())
}

// Attr returns the trimmed value of attribute name on the first element
// matching selector, or "" if none does.
func (s *Selector) Attr(selector, name string) string {
	v, _ := s.doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(v)
}

// Meta returns the content of the first <meta> tag whose name or property
// attribute equals key.
func (s *Selector) Meta(key string) string {
	var content string
	s.doc.Find("meta[content]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name, _ := sel.Attr("name")
		property, _ := sel.Attr("property")
		if !strings.EqualFold(name, key) && !strings.EqualFold(property, key) {
			return true
		}
		content, _ = sel.Attr("content")
		content = strings.TrimSpace(content)
		return false
	})
	return content
}

// URL resolves href against the response URL. It returns "" for hrefs that
// cannot be parsed.
func (s *Selector) URL(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return s.base.ResolveReference(ref).String()
}

// Links extracts the href of every element matching selector as absolute
// URLs in document order. Links are deduplicated by URL, keeping the first
// occurrence. Non-HTTP links (javascript:, mailto:, etc.), fragment-only
// links back to the page itself and empty hrefs are skipped.
func (s *Selector) Links(selector string) []webpo.Link {
	seen := make(map[string]bool)
	var links []webpo.Link

	s.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}

		if isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(s.base, href)
		if resolved == "" || seen[resolved] {
			return
		}

		seen[resolved] = true
		links = append(links, webpo.Link{
			URL:  resolved,
			Text: strings.Join(strings.Fields(sel.Text()), " "),
		})
	})
	return links
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed or if the resolved URL
// is self-referential (same as base URL after stripping fragment).
// Fragments are stripped from the resolved URL for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
