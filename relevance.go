package docscout

import (
	"regexp"
	"strings"
)

// Relevance filter tuning.
const (
	// RelevanceWindow is the number of lines kept on each side of a
	// relevant line.
	RelevanceWindow = 3

	// RelevanceFallbackWords caps the prefix returned when nothing matches.
	RelevanceFallbackWords = 2000

	// minLinesForLineMode is the line count below which content is
	// windowed by sentence instead of by line.
	minLinesForLineMode = 4
)

var implementationHints = []string{"example", "code", "sample"}

var sentenceEndRe = regexp.MustCompile(`[.!?]+\s+`)

// FilterRelevant reduces content to the parts that mention any of topics,
// keeping RelevanceWindow units of context around each hit. Units are lines,
// or sentences when content has fewer than four lines. When nothing matches
// the first RelevanceFallbackWords words are returned. With no topics the
// content is returned unchanged. The result is never longer than content.
func FilterRelevant(content string, topics []string) string {
	if len(topics) == 0 || content == "" {
		return content
	}

	units, sep := strings.Split(content, "\n"), "\n"
	if len(units) < minLinesForLineMode {
		units, sep = splitSentences(content), " "
	}

	keep := make([]bool, len(units))
	matched := false
	for i, unit := range units {
		if !isRelevant(strings.ToLower(unit), topics) {
			continue
		}
		matched = true
		lo, hi := max(0, i-RelevanceWindow), min(len(units)-1, i+RelevanceWindow)
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}

	if !matched {
		return wordPrefix(content, RelevanceFallbackWords)
	}

	kept := make([]string, 0, len(units))
	for i, unit := range units {
		if keep[i] {
			kept = append(kept, unit)
		}
	}
	return strings.Join(kept, sep)
}

func isRelevant(lower string, topics []string) bool {
	for _, topic := range topics {
		topic = strings.ToLower(topic)
		if strings.Contains(lower, topic) {
			return true
		}
		if topic == TopicImplementation {
			for _, hint := range implementationHints {
				if strings.Contains(lower, hint) {
					return true
				}
			}
		}
	}
	return false
}

// splitSentences splits s after sentence-ending punctuation. Separating
// whitespace is dropped and leading or trailing whitespace is trimmed, so
// joining the parts with a single space never yields more than len(s) bytes.
func splitSentences(s string) []string {
	s = strings.TrimSpace(s)
	var parts []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(s, -1) {
		end := loc[1]
		// Keep the punctuation, drop the whitespace that follows it.
		sentence := strings.TrimRightFunc(s[start:end], isSpace)
		parts = append(parts, sentence)
		start = end
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

// wordPrefix returns the prefix of s that ends after its n-th word.
func wordPrefix(s string, n int) string {
	count := 0
	inWord := false
	for i, r := range s {
		if isSpace(r) {
			if inWord {
				count++
				if count == n {
					return s[:i]
				}
			}
			inWord = false
			continue
		}
		inWord = true
	}
	return s
}
