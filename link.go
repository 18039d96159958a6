package webpo

// Link is a hyperlink found on a page, resolved to an absolute URL.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}
