package docscout

import (
	"fmt"
	"strings"
)

// Documentation context limits.
const (
	ContextPreviewLength = 1500
	ContextMaxEndpoints  = 10
)

// ContextSeparator joins sections of the documentation context and the
// pages of a deep crawl.
const ContextSeparator = "\n\n---\n\n"

// FormatContext renders the successful results as the documentation
// context handed to the downstream model. Failed results are skipped.
func FormatContext(results []*Result) string {
	sections := make([]string, 0, len(results))
	for _, res := range results {
		if !res.Success || res.Page == nil {
			continue
		}
		sections = append(sections, formatSection(res))
	}
	return strings.Join(sections, ContextSeparator)
}

func formatSection(res *Result) string {
	page := res.Page

	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)\n\n", page.Title, page.Host())
	fmt.Fprintf(&b, "**URL:** %s\n", page.URL)
	fmt.Fprintf(&b, "**Acquired via:** %s", page.AcquiredVia)
	if page.PageCount > 0 {
		fmt.Fprintf(&b, " (%d pages)", page.PageCount)
	}
	b.WriteString("\n\n")

	summary, notes := "No analysis available", "No integration notes"
	if res.Analysis != nil {
		summary, notes = res.Analysis.Summary, res.Analysis.IntegrationNotes
	}

	b.WriteString("**API Analysis:**\n")
	b.WriteString(summary)
	b.WriteString("\n\n**Key Endpoints:**\n")
	if len(page.APIEndpoints) == 0 {
		b.WriteString("No specific endpoints detected")
	} else {
		endpoints := page.APIEndpoints[:min(len(page.APIEndpoints), ContextMaxEndpoints)]
		for i, ep := range endpoints {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(ep)
		}
	}

	b.WriteString("\n\n**Integration Notes:**\n")
	b.WriteString(notes)

	b.WriteString("\n\n**Content Preview:**\n")
	switch {
	case page.Content == "":
		b.WriteString("No content available")
	case len(page.Content) > ContextPreviewLength:
		b.WriteString(truncate(page.Content, ContextPreviewLength))
		b.WriteString("...")
	default:
		b.WriteString(page.Content)
	}
	b.WriteString("\n")

	return b.String()
}
