package docscout

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptBlockRe   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	styleBlockRe    = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	noscriptBlockRe = regexp.MustCompile(`(?is)<noscript\b[^>]*>.*?</noscript\s*>`)
	commentRe       = regexp.MustCompile(`(?s)<!--.*?-->`)
	tagRe           = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	titleRe         = regexp.MustCompile(`(?is)<title\b[^>]*>(.*?)</title\s*>`)
)

// NormalizedContent is the plain-text rendition of an HTML page.
type NormalizedContent struct {
	Title   string
	Content string
}

// Normalize strips scripts, styles and markup from rawHTML and returns the
// visible text with whitespace collapsed. The title comes from the <title>
// element and falls back to the host of pageURL. Normalize never fails;
// malformed markup degrades into extra text and invalid UTF-8 sequences
// become U+FFFD.
func Normalize(rawHTML, pageURL string) NormalizedContent {
	rawHTML = strings.ToValidUTF8(rawHTML, "\uFFFD")

	title := ""
	if m := titleRe.FindStringSubmatch(rawHTML); m != nil {
		title = collapseWhitespace(html.UnescapeString(tagRe.ReplaceAllString(m[1], " ")))
	}
	if title == "" {
		title = hostOf(pageURL)
	}

	s := scriptBlockRe.ReplaceAllString(rawHTML, " ")
	s = styleBlockRe.ReplaceAllString(s, " ")
	s = noscriptBlockRe.ReplaceAllString(s, " ")
	s = commentRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)

	return NormalizedContent{
		Title:   title,
		Content: collapseWhitespace(s),
	}
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
