// Package goquery discovers crawlable links in documentation pages using
// goquery CSS selectors.
package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docscout"
)

// Rule assigns a priority and source label to anchors matching a CSS
// selector.
type Rule struct {
	Selector string
	Priority docscout.LinkPriority
	Source   string
}

// DefaultRules covers generic semantic markup plus the sidebar and TOC
// containers of common documentation generators (Docusaurus, MkDocs,
// Sphinx, GitBook, VitePress/VuePress, Nextra).
var DefaultRules = []Rule{
	{".toc a[href], .table-of-contents a[href], #localtoc a[href], .toctree-wrapper a[href]", docscout.PriorityTOC, "toc"},
	{".md-sidebar--secondary a[href], [data-md-component='toc'] a[href]", docscout.PriorityTOC, "toc"},
	{".VPDocAsideOutline a[href], .nextra-toc a[href], [data-testid='page.desktopTableOfContents'] a[href]", docscout.PriorityTOC, "toc"},
	{".sidebar a[href], aside a[href]", docscout.PriorityTOC, "toc"},

	{".theme-doc-sidebar-container a[href], .md-nav--primary a[href], [data-md-component='navigation'] a[href]", docscout.PriorityNavigation, "sidebar"},
	{".wy-nav-side a[href], .wy-menu-vertical a[href], .sphinxsidebar a[href]", docscout.PriorityNavigation, "sidebar"},
	{".VPSidebar a[href], .sidebar-links a[href], .nextra-sidebar a[href], [data-testid='space.sidebar'] a[href]", docscout.PriorityNavigation, "sidebar"},
	{"nav a[href], [role='navigation'] a[href], .nav a[href], .menu a[href], .navbar a[href]", docscout.PriorityNavigation, "nav"},

	{"main a[href], article a[href], .content a[href], .doc-content a[href]", docscout.PriorityContent, "content"},
	{".theme-default-content a[href], .VPDoc a[href], .md-content a[href], .document a[href], .body a[href]", docscout.PriorityContent, "content"},

	{"footer a[href], .footer a[href]", docscout.PriorityFooter, "footer"},
}

// skippedExtensions are link targets that are never documentation pages.
var skippedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".ico": true, ".webp": true,
	".css": true, ".js": true, ".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".pdf": true, ".mp4": true, ".xml": true,
}

var _ docscout.LinkSelector = (*LinkSelector)(nil)

// LinkSelector extracts same-host links ranked by the page region they
// appear in. Anchors outside every rule that share the page's path prefix
// are kept with fallback priority, so utility-class markup without
// semantic containers still yields links.
type LinkSelector struct {
	Rules []Rule
}

// NewLinkSelector returns a LinkSelector using DefaultRules.
func NewLinkSelector() *LinkSelector {
	return &LinkSelector{Rules: DefaultRules}
}

// ExtractLinks parses html and returns its links in document order of
// first occurrence. Duplicates keep their highest priority. Fragments are
// stripped and links back to baseURL itself are dropped.
func (s *LinkSelector) ExtractLinks(html string, baseURL string) ([]docscout.DiscoveredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docscout.Errorf(docscout.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docscout.Errorf(docscout.EINVALID, "failed to parse HTML: %v", err)
	}

	// <base href> changes how relative links resolve.
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(href); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	seen := make(map[string]int)
	var links []docscout.DiscoveredLink

	add := func(sel *goquery.Selection, priority docscout.LinkPriority, source string, prefix string) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == nil {
			return
		}
		if prefix != "" && !strings.HasPrefix(resolved.Path, prefix) {
			return
		}

		link := docscout.DiscoveredLink{
			URL:      resolved.String(),
			Priority: priority,
			Text:     strings.Join(strings.Fields(sel.Text()), " "),
			Source:   source,
		}
		if idx, ok := seen[link.URL]; ok {
			if priority > links[idx].Priority {
				links[idx] = link
			}
			return
		}
		seen[link.URL] = len(links)
		links = append(links, link)
	}

	rules := s.Rules
	if rules == nil {
		rules = DefaultRules
	}
	for _, r := range rules {
		doc.Find(r.Selector).Each(func(_ int, sel *goquery.Selection) {
			add(sel, r.Priority, r.Source, "")
		})
	}

	prefix := base.Path
	if i := strings.LastIndexByte(prefix, '/'); i >= 0 {
		prefix = prefix[:i+1]
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		add(sel, docscout.PriorityFallback, "fallback", prefix)
	})

	return links, nil
}

// resolveURL resolves href against base and returns nil for links that
// cannot be crawled: other schemes, other hosts, assets and self links.
func resolveURL(base *url.URL, href string) *url.URL {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	u := base.ResolveReference(ref)
	u.Fragment = ""
	u.RawFragment = ""

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	if u.Host != base.Host {
		return nil
	}
	if skippedExtensions[strings.ToLower(path.Ext(u.Path))] {
		return nil
	}

	self := *base
	self.Fragment = ""
	self.RawFragment = ""
	if u.String() == self.String() {
		return nil
	}
	return u
}
