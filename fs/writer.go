// Package fs exports browse reports as markdown files.
package fs

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/docscout"
)

// URLToPath converts a documentation URL to a relative file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path

	// Handle root or trailing slash → index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")

	// Trailing slash becomes index.md in that directory
	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	return strings.TrimSuffix(path, ".md") + ".md", nil
}

// FormatPage formats an acquired page with YAML frontmatter.
func FormatPage(page *docscout.Page, fetchedAt time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	b.WriteString("\nacquired: ")
	b.WriteString(string(page.AcquiredVia))
	if page.PageCount > 0 {
		b.WriteString("\npages: ")
		b.WriteString(strconv.Itoa(page.PageCount))
	}
	b.WriteString("\ncrawled: ")
	b.WriteString(fetchedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(page.Content)
	return b.String()
}
