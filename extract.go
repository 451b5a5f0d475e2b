package docscout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Extraction limits.
const (
	MaxEndpoints         = 20
	MaxEndpointLength    = 100
	MaxCodeExamples      = 10
	MaxCodeExamplesEach  = 5
	MaxCodeExampleLength = 500
)

var endpointPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/api/[^\s)">]+`),
	regexp.MustCompile(`(?i)(?:GET|POST|PUT|DELETE|PATCH)\s+/[^\s)">]+`),
	regexp.MustCompile(`(?i)https?://[^\s/]+/api/[^\s)">]+`),
	regexp.MustCompile(`(?i)/webhooks?/[^\s)">]+`),
	regexp.MustCompile(`(?i)/graphql[^\s)">]*`),
}

var staticAssetRe = regexp.MustCompile(`(?i)\.(woff2?|ttf|eot|css|js|png|jpg|jpeg|gif|svg|ico)(\?|$)`)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	preCodeRe    = regexp.MustCompile(`(?is)<pre\b[^>]*>.*?</pre\s*>`)
	tagCodeRe    = regexp.MustCompile(`(?is)<code\b[^>]*>.*?</code\s*>`)
	inlineCodeRe = regexp.MustCompile("`[^`\n]+`")
)

// ExtractEndpoints returns candidate API endpoints found in content, in
// pattern order with the first occurrence of each kept. Static assets,
// font paths and overly long matches are discarded and the result is capped
// at MaxEndpoints. The result is never nil.
func ExtractEndpoints(content string) []string {
	var candidates []string
	for _, re := range endpointPatterns {
		candidates = append(candidates, re.FindAllString(content, -1)...)
	}

	seen := make(map[string]struct{}, len(candidates))
	endpoints := make([]string, 0, MaxEndpoints)
	for _, c := range candidates {
		c = strings.TrimRight(c, ".,;:")
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}

		if len(c) >= MaxEndpointLength {
			continue
		}
		if staticAssetRe.MatchString(c) {
			continue
		}
		if strings.Contains(strings.ToLower(c), "font") {
			continue
		}

		endpoints = append(endpoints, c)
		if len(endpoints) == MaxEndpoints {
			break
		}
	}
	return endpoints
}

// ExtractCodeExamples returns code samples found in content: fenced
// Markdown blocks, <pre> and <code> elements, then inline backtick spans.
// At most MaxCodeExamplesEach are taken per pattern and MaxCodeExamples in
// total, each truncated to MaxCodeExampleLength bytes. The result is never
// nil.
func ExtractCodeExamples(content string) []string {
	// Inline spans would also match inside fences, so they only see what
	// the fenced pattern left behind.
	withoutFences := fencedCodeRe.ReplaceAllString(content, " ")

	sources := []struct {
		re   *regexp.Regexp
		text string
	}{
		{fencedCodeRe, content},
		{preCodeRe, content},
		{tagCodeRe, content},
		{inlineCodeRe, withoutFences},
	}

	seen := make(map[string]struct{})
	examples := make([]string, 0, MaxCodeExamples)
	for _, src := range sources {
		for _, m := range src.re.FindAllString(src.text, MaxCodeExamplesEach) {
			m = truncate(m, MaxCodeExampleLength)
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			examples = append(examples, m)
			if len(examples) == MaxCodeExamples {
				return examples
			}
		}
	}
	return examples
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

