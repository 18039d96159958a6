package webpo

import "time"

// Extraction holds the main content and metadata extracted from an HTML page.
type Extraction struct {
	Title       string
	Author      string
	Description string
	SiteName    string
	Published   time.Time // zero when unknown

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string

	// Text is the main content as plain text.
	Text string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// Metadata comes from meta tags, JSON+LD, etc.
	Extract(html string) (*Extraction, error)
}
