package docscout

// Converter turns extracted HTML into Markdown so that crawled pages keep
// fenced code blocks and headings for the analyzer.
type Converter interface {
	// Convert transforms HTML content into Markdown. Relative links are
	// resolved against pageURL when it is not empty.
	Convert(html string, pageURL string) (string, error)
}
