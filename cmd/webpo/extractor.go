package main

import (
	"strings"

	"github.com/fwojciec/webpo"
)

// FallbackExtractor uses Secondary when Primary fails or finds no content.
type FallbackExtractor struct {
	Primary   webpo.Extractor
	Secondary webpo.Extractor
}

// Extract implements webpo.Extractor.
func (e *FallbackExtractor) Extract(html string) (*webpo.Extraction, error) {
	ex, err := e.Primary.Extract(html)
	if err == nil && strings.TrimSpace(ex.ContentHTML) != "" {
		return ex, nil
	}
	fallback, ferr := e.Secondary.Extract(html)
	if ferr != nil {
		if err != nil {
			return nil, err
		}
		return ex, nil
	}
	return fallback, nil
}
