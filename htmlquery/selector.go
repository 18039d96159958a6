// Package htmlquery implements XPath selection over fetched pages using
// antchfx/htmlquery.
package htmlquery

import (
	"bytes"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/fwojciec/webpo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Selector runs XPath queries against a parsed response body.
type Selector struct {
	root *html.Node
}

// NewSelector parses the body of resp, decoding it to UTF-8 according to
// its Content-Type header and any <meta charset> declaration.
// Returns EINVALID if the body cannot be parsed.
func NewSelector(resp *webpo.HTTPResponse) (*Selector, error) {
	r, err := charset.NewReader(bytes.NewReader(resp.Body), resp.Header.Get("Content-Type"))
	if err != nil {
		r = bytes.NewReader(resp.Body)
	}
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, webpo.Errorf(webpo.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Selector{root: root}, nil
}

// Root returns the document node.
func (s *Selector) Root() *html.Node {
	return s.root
}

// XPath returns the nodes matching expr.
// Returns EINVALID for malformed expressions.
func (s *Selector) XPath(expr string) ([]*html.Node, error) {
	nodes, err := htmlquery.QueryAll(s.root, expr)
	if err != nil {
		return nil, webpo.Errorf(webpo.EINVALID, "xpath %q: %v", expr, err)
	}
	return nodes, nil
}

// Text returns the trimmed inner text of the first node matching expr,
// or "" if none does.
func (s *Selector) Text(expr string) (string, error) {
	node, err := htmlquery.Query(s.root, expr)
	if err != nil {
		return "", webpo.Errorf(webpo.EINVALID, "xpath %q: %v", expr, err)
	}
	if node == nil {
		return "", nil
	}
	return strings.TrimSpace(htmlquery.InnerText(node)), nil
}

// Texts returns the trimmed, non-empty inner text of every node matching expr.
func (s *Selector) Texts(expr string) ([]string, error) {
	nodes, err := s.XPath(expr)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if text := strings.TrimSpace(htmlquery.InnerText(node)); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// Attr returns attribute name of the first node matching expr,
// or "" if none does.
func (s *Selector) Attr(expr, name string) (string, error) {
	node, err := htmlquery.Query(s.root, expr)
	if err != nil {
		return "", webpo.Errorf(webpo.EINVALID, "xpath %q: %v", expr, err)
	}
	if node == nil {
		return "", nil
	}
	return strings.TrimSpace(htmlquery.SelectAttr(node, name)), nil
}

// HTML returns the outer HTML of the first node matching expr,
// or "" if none does.
func (s *Selector) HTML(expr string) (string, error) {
	node, err := htmlquery.Query(s.root, expr)
	if err != nil {
		return "", webpo.Errorf(webpo.EINVALID, "xpath %q: %v", expr, err)
	}
	if node == nil {
		return "", nil
	}
	return htmlquery.OutputHTML(node, true), nil
}
