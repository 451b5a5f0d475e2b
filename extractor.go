package docscout

// ExtractResult holds the main content of an HTML page.
type ExtractResult struct {
	// Title is the page title taken from metadata.
	Title string

	// ContentHTML is the main content with navigation, footers and other
	// boilerplate removed.
	ContentHTML string
}

// Extractor isolates the main content of a documentation page.
type Extractor interface {
	// Extract processes raw HTML fetched from pageURL. The URL is used to
	// resolve relative links and may be empty.
	Extract(html string, pageURL string) (*ExtractResult, error)
}
