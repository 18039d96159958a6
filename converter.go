package webpo

// Converter renders extracted HTML as Markdown for item bodies.
type Converter interface {
	// Convert returns html as Markdown. Empty input is an EINVALID error.
	Convert(html string) (string, error)
}
