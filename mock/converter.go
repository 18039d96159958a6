package mock

import "github.com/fwojciec/webpo"

var _ webpo.Converter = (*Converter)(nil)

// Converter is a mock implementation of webpo.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
