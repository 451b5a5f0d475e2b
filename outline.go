package docscout

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Heading is one markdown heading of a page.
type Heading struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

var (
	headingRe   = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)
	codeFenceRe = regexp.MustCompile("(?s)(```|~~~).*?(```|~~~)")
)

// ExtractOutline returns the headings of markdown up to maxLevel, in
// document order. Headings inside fenced code are ignored. Anchors are
// URL-safe and made unique with numeric suffixes. A maxLevel outside 1..6
// includes every level.
func ExtractOutline(markdown string, maxLevel int) []Heading {
	if maxLevel < 1 || maxLevel > 6 {
		maxLevel = 6
	}

	matches := headingRe.FindAllStringSubmatch(codeFenceRe.ReplaceAllString(markdown, ""), -1)
	if len(matches) == 0 {
		return nil
	}

	headings := make([]Heading, 0, len(matches))
	seen := make(map[string]int)
	for _, m := range matches {
		level := len(m[1])
		if level > maxLevel {
			continue
		}
		title := strings.TrimSpace(m[2])
		anchor := Anchor(title)
		if n, ok := seen[anchor]; ok {
			seen[anchor] = n + 1
			anchor += "-" + strconv.Itoa(n)
		} else {
			seen[anchor] = 1
		}
		headings = append(headings, Heading{Level: level, Title: title, Anchor: anchor})
	}
	return headings
}

// Anchor converts a heading title to a lowercase hyphenated fragment.
func Anchor(title string) string {
	var sb strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			hyphen = false
		case (unicode.IsSpace(r) || r == '-' || r == '_') && !hyphen && sb.Len() > 0:
			sb.WriteRune('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
