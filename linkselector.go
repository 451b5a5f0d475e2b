package docscout

// LinkPriority orders links in the crawl frontier (higher is visited first).
type LinkPriority int

// Link priority levels.
const (
	PriorityIgnore     LinkPriority = 0
	PriorityFallback   LinkPriority = 10
	PriorityFooter     LinkPriority = 20
	PriorityContent    LinkPriority = 50
	PriorityNavigation LinkPriority = 100
	PriorityTOC        LinkPriority = 110
)

// DiscoveredLink is a same-site URL found while walking a documentation site.
type DiscoveredLink struct {
	URL      string
	Priority LinkPriority
	Text     string
	Source   string // "toc", "nav", "content", "footer", "fallback"

	// Depth is the number of link hops from the crawl root.
	Depth int
}

// LinkSelector extracts prioritized links from HTML.
type LinkSelector interface {
	// ExtractLinks parses HTML and returns links on the same host as
	// baseURL, resolved to absolute form. Depth is left at zero; the
	// caller assigns it.
	ExtractLinks(html string, baseURL string) ([]DiscoveredLink, error)
}
