package docscout

import (
	"fmt"
	"regexp"
	"strings"
)

// Analyzer limits.
const (
	MaxKeyEndpoints    = 5
	MaxCodeSnippets    = 3
	MaxCodeSnippetLen  = 200
	MaxFocusLines      = 3
	MaxFocusLineLength = 300
)

// Analysis is the structured summary of one page's content.
type Analysis struct {
	Summary          string   `json:"summary"`
	IntegrationNotes string   `json:"integrationNotes"`
	KeyEndpoints     []string `json:"keyEndpoints"`
	AuthMethods      []string `json:"authMethods"`
	CodeSnippets     []string `json:"codeSnippets"`
	CommonPatterns   []string `json:"commonPatterns"`
}

var authPatterns = []struct {
	re    *regexp.Regexp
	label string
}{
	{regexp.MustCompile(`(?i)api[_\s]key`), "api key"},
	{regexp.MustCompile(`(?i)bearer[_\s]token`), "bearer token"},
	{regexp.MustCompile(`(?i)oauth`), "oauth"},
	{regexp.MustCompile(`(?i)jwt`), "jwt"},
	{regexp.MustCompile(`(?i)basic[_\s]auth`), "basic auth"},
	{regexp.MustCompile(`(?i)authentication`), "authentication"},
}

var integrationPatterns = []string{
	"REST API",
	"GraphQL",
	"WebSocket",
	"Pagination",
	"Rate limiting",
	"Webhooks",
	"SDK",
	"Error handling",
}

// Analyze derives authentication hints, integration patterns, code snippets
// and a summary from content. When focus is set, the summary quotes the
// first lines matching it; focus is treated as a case-insensitive regular
// expression, or as a literal when it does not compile. All slices in the
// result are non-nil.
func Analyze(content string, endpoints []string, focus string) *Analysis {
	a := &Analysis{
		KeyEndpoints:   append(make([]string, 0, MaxKeyEndpoints), endpoints[:min(len(endpoints), MaxKeyEndpoints)]...),
		AuthMethods:    []string{},
		CodeSnippets:   []string{},
		CommonPatterns: []string{},
	}

	for _, p := range authPatterns {
		if p.re.MatchString(content) {
			a.AuthMethods = append(a.AuthMethods, p.label)
		}
	}

	lower := strings.ToLower(content)
	for _, p := range integrationPatterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			a.CommonPatterns = append(a.CommonPatterns, p)
		}
	}

	for _, block := range fencedCodeRe.FindAllString(content, MaxCodeSnippets) {
		snippet := strings.TrimSpace(strings.ReplaceAll(block, "```", ""))
		a.CodeSnippets = append(a.CodeSnippets, truncate(snippet, MaxCodeSnippetLen))
	}

	if focus != "" {
		a.Summary = focusSummary(content, focus)
	} else {
		auth := "No authentication details found."
		if len(a.AuthMethods) > 0 {
			auth = "Authentication required."
		}
		a.Summary = fmt.Sprintf("Documentation contains %d words with %d API endpoints. %s",
			CountWords(content), len(endpoints), auth)
	}

	a.IntegrationNotes = integrationNotes(a, len(endpoints))
	return a
}

func focusSummary(content, focus string) string {
	re, err := regexp.Compile("(?i)" + focus)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(focus))
	}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if !re.MatchString(line) {
			continue
		}
		lines = append(lines, truncate(strings.TrimSpace(line), MaxFocusLineLength))
		if len(lines) == MaxFocusLines {
			break
		}
	}

	if len(lines) == 0 {
		return fmt.Sprintf("No specific information found for \"%s\". General API documentation available.", focus)
	}
	return fmt.Sprintf("Found %d sections related to \"%s\": %s", len(lines), focus, strings.Join(lines, ". "))
}

func integrationNotes(a *Analysis, endpointCount int) string {
	notes := make([]string, 0, 4)

	if endpointCount > 0 {
		notes = append(notes, fmt.Sprintf("%d API endpoints available", endpointCount))
	} else {
		notes = append(notes, "No clear API endpoints found")
	}

	if len(a.AuthMethods) > 0 {
		notes = append(notes, "Authentication: "+strings.Join(a.AuthMethods, ", "))
	} else {
		notes = append(notes, "Authentication method unclear")
	}

	if len(a.CodeSnippets) > 0 {
		notes = append(notes, fmt.Sprintf("%d code examples found", len(a.CodeSnippets)))
	} else {
		notes = append(notes, "No code examples available")
	}

	if len(a.CommonPatterns) > 0 {
		notes = append(notes, "Supports: "+strings.Join(a.CommonPatterns, ", "))
	} else {
		notes = append(notes, "Integration patterns unclear")
	}

	return strings.Join(notes, ". ")
}
