package mock

import "github.com/fwojciec/webpo"

var _ webpo.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of webpo.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*webpo.Extraction, error)
}

func (e *Extractor) Extract(html string) (*webpo.Extraction, error) {
	return e.ExtractFn(html)
}
